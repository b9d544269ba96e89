// Package store owns the article collection and its persistence
// lifecycle. All reads and writes of article data go through
// ArticleStore; it is loaded once at startup and persisted after every
// mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kbvault/internal/blob"
	"kbvault/internal/model"
)

// BlobKey is the single key the whole collection is persisted under,
// as a JSON array of articles.
const BlobKey = "kb-articles"

// ArticleStore is the sole owner of the in-memory article collection.
// The execution model is single-threaded per action, but a mutex
// serializes mutations so the store stays safe on a multi-threaded
// host (the web server handles requests on separate goroutines).
type ArticleStore struct {
	blob   blob.Store
	logger *zap.Logger

	mu       sync.Mutex
	articles []model.Article

	now   func() time.Time
	newID func() string
}

func New(b blob.Store, logger *zap.Logger) *ArticleStore {
	return &ArticleStore{
		blob:   b,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Load restores the collection from the blob store. An absent blob
// (first run) or an unparseable one is treated as an empty collection;
// an empty collection is seeded with one sample article so the app
// never starts blank. No article is selected after seeding.
func (s *ArticleStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blob.Read(ctx, BlobKey)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	var articles []model.Article
	if ok {
		if err := json.Unmarshal(data, &articles); err != nil {
			s.logger.Warn("Persisted articles are corrupt, starting empty",
				zap.String("key", BlobKey),
				zap.Error(fmt.Errorf("%w: %v", ErrCorruptState, err)))
			articles = nil
		}
	}
	for i := range articles {
		articles[i].Normalize()
	}

	s.articles = articles
	if len(s.articles) == 0 {
		seeded := s.seedArticle()
		if err := s.persistLocked(ctx, []model.Article{seeded}); err != nil {
			return fmt.Errorf("seed sample article: %w", err)
		}
		s.logger.Info("Seeded sample article", zap.String("id", seeded.ID))
	}
	return nil
}

// Create validates the input, assigns a fresh id, stamps both
// timestamps with the same instant, inserts the article at the front of
// the collection and persists. It returns the new id.
func (s *ArticleStore) Create(ctx context.Context, title, content string, tags []string, status model.ArticleStatus) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == "" {
		status = model.DefaultStatus
	}
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	article := model.Article{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := article.Validate(); err != nil {
		return "", err
	}

	next := make([]model.Article, 0, len(s.articles)+1)
	next = append(next, article)
	next = append(next, s.articles...)
	if err := s.persistLocked(ctx, next); err != nil {
		return "", err
	}

	s.logger.Info("Article created",
		zap.String("id", article.ID),
		zap.String("status", string(article.Status)))
	return article.ID, nil
}

// Update replaces the mutable fields of an existing article, refreshes
// updatedAt and keeps createdAt and the article's position untouched.
func (s *ArticleStore) Update(ctx context.Context, id, title, content string, tags []string, status model.ArticleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	if status == "" {
		status = model.DefaultStatus
	}
	if tags == nil {
		tags = []string{}
	}

	updated := s.articles[idx]
	updated.Title = title
	updated.Content = content
	updated.Tags = tags
	updated.Status = status
	updated.UpdatedAt = s.now()
	if err := updated.Validate(); err != nil {
		return err
	}

	next := make([]model.Article, len(s.articles))
	copy(next, s.articles)
	next[idx] = updated
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}

	s.logger.Info("Article updated", zap.String("id", id))
	return nil
}

// Delete removes the article with the given id. A missing id is
// reported as ErrNotFound. Invalidating view state that still points at
// the id is the controller's job, not the store's.
func (s *ArticleStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}

	next := make([]model.Article, 0, len(s.articles)-1)
	next = append(next, s.articles[:idx]...)
	next = append(next, s.articles[idx+1:]...)
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}

	s.logger.Info("Article deleted", zap.String("id", id))
	return nil
}

// Get returns the article with the given id.
func (s *ArticleStore) Get(id string) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Article{}, ErrNotFound
	}
	return s.articles[idx], nil
}

// List returns the full ordered collection, never filtered. The
// returned slice is a copy; callers can not mutate store state through
// it.
func (s *ArticleStore) List() []model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// persistLocked writes next to the blob store and only then commits it
// as the in-memory collection, so a failed write leaves no partial
// mutation behind. Callers must hold s.mu.
func (s *ArticleStore) persistLocked(ctx context.Context, next []model.Article) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	if err := s.blob.Write(ctx, BlobKey, data); err != nil {
		return fmt.Errorf("persist articles: %w", err)
	}
	s.articles = next
	return nil
}

func (s *ArticleStore) indexLocked(id string) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ArticleStore) seedArticle() model.Article {
	now := s.now()
	return model.Article{
		ID:        s.newID(),
		Title:     "Welcome to your knowledge base!",
		Content:   sampleContent,
		Tags:      []string{"welcome"},
		Status:    model.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

const sampleContent = `# Welcome!

This is a sample article to get you started.

## Features

You can use **Markdown** to format your text. For example:

*   Item lists
*   **Bold text**
*   *Italic text*

` + "```go" + `
// Code blocks work too
func main() {
	fmt.Println("Hello, world!")
}
` + "```" + `

Open the editor to see how this article is written and start creating your own!
`
