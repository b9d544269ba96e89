package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// DefaultStatus is applied when a caller creates an article without
// picking a status explicitly.
const DefaultStatus = StatusPublished

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s ArticleStatus) bool {
	return s == StatusDraft || s == StatusPublished
}

// Article is a single Markdown-authored knowledge-base entry.
// The JSON field names match the persisted blob layout exactly.
type Article struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Tags      []string      `json:"tags"`
	Status    ArticleStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Validate enforces the invariants for a stored article: title and
// content must be non-empty after trimming whitespace, and status must
// be a known value.
func (a Article) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required, validation.By(notBlank("title"))),
		validation.Field(&a.Content, validation.Required, validation.By(notBlank("content"))),
		validation.Field(&a.Status, validation.By(knownStatus)),
	)
}

func notBlank(field string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError("kbvault.article."+field+"_blank", field+" must not be blank")
		}
		return nil
	}
}

func knownStatus(value any) error {
	if !ValidStatus(value.(ArticleStatus)) {
		return validation.NewError("kbvault.article.status_unknown", "unknown article status")
	}
	return nil
}

// Normalize fills defaults for fields that may be absent in an older
// persisted blob: a nil tag slice becomes empty and a missing status
// falls back to the default. Order and duplicates in Tags are kept as-is.
func (a *Article) Normalize() {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Status == "" {
		a.Status = DefaultStatus
	}
}
