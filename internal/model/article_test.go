package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_Validate(t *testing.T) {
	base := Article{
		ID:        "a-1",
		Title:     "Getting started",
		Content:   "# Hello",
		Tags:      []string{},
		Status:    StatusPublished,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	assert.NoError(t, base.Validate())

	blankTitle := base
	blankTitle.Title = "   "
	assert.Error(t, blankTitle.Validate(), "whitespace-only title must be rejected")

	emptyContent := base
	emptyContent.Content = ""
	assert.Error(t, emptyContent.Validate())

	badStatus := base
	badStatus.Status = "archived"
	assert.Error(t, badStatus.Validate())
}

func TestArticle_Normalize(t *testing.T) {
	a := Article{Title: "t", Content: "c"}
	a.Normalize()

	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Tags)
	assert.Equal(t, StatusPublished, a.Status)

	// Existing values are left alone, duplicates included.
	b := Article{Tags: []string{"go", "go"}, Status: StatusDraft}
	b.Normalize()
	assert.Equal(t, []string{"go", "go"}, b.Tags)
	assert.Equal(t, StatusDraft, b.Status)
}

func TestArticle_JSONLayout(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	a := Article{
		ID:        "abc",
		Title:     "Notes",
		Content:   "body",
		Tags:      []string{"go"},
		Status:    StatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "title", "content", "tags", "status", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2025-03-14T09:26:53Z", raw["createdAt"], "timestamps are ISO-8601")
}
