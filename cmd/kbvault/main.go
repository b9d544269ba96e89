package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kbvault/internal/blob"
	"kbvault/internal/importer"
	"kbvault/internal/markdown"
	"kbvault/internal/model"
	"kbvault/internal/query"
	"kbvault/internal/server"
	"kbvault/internal/store"
)

var (
	logger    *zap.Logger
	dataPath  string
	redisAddr string
)

var rootCmd = &cobra.Command{
	Use:   "kbvault",
	Short: "kbvault - a local Markdown knowledge base",
}

// openStore picks the blob backend from the flags: Redis when --redis
// is set, local Badger otherwise.
func openStore(ctx context.Context) (*store.ArticleStore, blob.Store, error) {
	var (
		b   blob.Store
		err error
	)
	if redisAddr != "" {
		b, err = blob.OpenRedis(redisAddr)
	} else {
		b, err = blob.OpenBadger(dataPath)
	}
	if err != nil {
		return nil, nil, err
	}

	st := store.New(b, logger)
	if err := st.Load(ctx); err != nil {
		b.Close()
		return nil, nil, err
	}
	return st, b, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, b, err := openStore(ctx)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer b.Close()

		srv := server.New(st, markdown.NewRenderer(), logger)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("Shutting down...")
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Stop(shutdownCtx)
			cancel()
		}()

		fmt.Printf("Open http://localhost:%s in your browser.\n", port)
		if err := srv.Start(port); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
		<-ctx.Done()
		logger.Info("Goodbye!")
	},
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create an article from the command line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, _ := cmd.Flags().GetString("content")
		file, _ := cmd.Flags().GetString("file")
		tagsRaw, _ := cmd.Flags().GetString("tags")
		statusRaw, _ := cmd.Flags().GetString("status")

		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				logger.Fatal("Failed to read content file", zap.Error(err))
			}
			content = string(data)
		}

		ctx := context.Background()
		st, b, err := openStore(ctx)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer b.Close()

		var tags []string
		for _, t := range strings.Split(tagsRaw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		id, err := st.Create(ctx, args[0], content, tags, model.ArticleStatus(statusRaw))
		if err != nil {
			logger.Fatal("Failed to create article", zap.Error(err))
		}
		logger.Info("Article created", zap.String("id", id))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, honoring filter, search and sort flags",
	Run: func(cmd *cobra.Command, args []string) {
		statusRaw, _ := cmd.Flags().GetString("status")
		sortRaw, _ := cmd.Flags().GetString("sort")
		term, _ := cmd.Flags().GetString("search")

		ctx := context.Background()
		st, b, err := openStore(ctx)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer b.Close()

		md := markdown.NewRenderer()
		engine := query.NewEngine(md)
		articles := engine.Apply(st.List(), query.Criteria{
			Status: query.StatusFilter(statusRaw),
			SortBy: query.SortKey(sortRaw),
			Term:   term,
			Mode:   query.FullSearch,
		})

		for _, a := range articles {
			fmt.Printf("%-36s  %-9s  %-20s  %s\n",
				a.ID, a.Status, a.UpdatedAt.Format("2006-01-02 15:04"), a.Title)
		}
		fmt.Printf("%d article(s)\n", len(articles))
	},
}

var importCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Fetch a web page and store it as a draft article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx := context.Background()
		st, b, err := openStore(ctx)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer b.Close()

		id, err := importer.New(st, logger).Import(ctx, args[0], timeout)
		if err != nil {
			logger.Fatal("Import failed", zap.Error(err))
		}
		logger.Info("Imported as draft", zap.String("id", id), zap.String("url", args[0]))
	},
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "./kbvault-data", "Path to the local data directory")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Use a Redis server at this address instead of local storage")

	serveCmd.Flags().String("port", "3000", "HTTP port for the web UI")

	addCmd.Flags().String("content", "", "Markdown content")
	addCmd.Flags().String("file", "", "Read Markdown content from a file")
	addCmd.Flags().String("tags", "", "Comma-separated tags")
	addCmd.Flags().String("status", string(model.DefaultStatus), "draft or published")

	listCmd.Flags().String("status", string(query.FilterAll), "Filter: all, draft or published")
	listCmd.Flags().String("sort", string(query.SortByUpdated), "Sort: updatedAt, createdAt or title")
	listCmd.Flags().String("search", "", "Search term over title, content and tags")

	importCmd.Flags().Duration("timeout", 30*time.Second, "Fetch timeout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
