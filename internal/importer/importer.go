// Package importer turns a web page into a knowledge-base draft:
// fetch, extract the readable article, convert the HTML to Markdown,
// store. The result always lands as a draft so imports never appear
// published unreviewed.
package importer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"kbvault/internal/model"
	"kbvault/internal/store"
)

// Fetcher downloads and extracts the readable part of a page. Split
// out as an interface so tests can skip the network.
type Fetcher interface {
	Fetch(url string, timeout time.Duration) (*readability.Article, error)
}

// HTTPFetcher is the real implementation.
type HTTPFetcher struct{}

func (HTTPFetcher) Fetch(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

type Importer struct {
	store   *store.ArticleStore
	fetcher Fetcher
	logger  *zap.Logger
}

func New(st *store.ArticleStore, logger *zap.Logger) *Importer {
	return &Importer{
		store:   st,
		fetcher: HTTPFetcher{},
		logger:  logger,
	}
}

// Import fetches rawURL and stores the extracted article as a draft
// tagged "imported" plus the source hostname. It returns the new id.
func (imp *Importer) Import(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	imp.logger.Info("Downloading", zap.String("url", rawURL))
	page, err := imp.fetcher.Fetch(rawURL, timeout)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", rawURL, err)
	}

	md, err := htmltomarkdown.ConvertString(page.Content)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = rawURL
	}
	body := strings.TrimSpace(md)
	if body == "" {
		return "", fmt.Errorf("page %q has no readable content", rawURL)
	}
	// Keep the provenance at the top of the article.
	content := fmt.Sprintf("> Imported from <%s>\n\n%s", rawURL, body)

	id, err := imp.store.Create(ctx, title, content, []string{"imported", parsed.Hostname()}, model.StatusDraft)
	if err != nil {
		return "", err
	}

	imp.logger.Info("Import complete",
		zap.String("id", id),
		zap.String("title", title))
	return id, nil
}
