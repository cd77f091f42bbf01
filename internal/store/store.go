// Package store persists conversations and their extracted fields behind
// a driver-selectable interface (SQLite for local use, Postgres for
// shared deployments).
package store

import (
	"context"

	"github.com/sells-group/extractify/internal/model"
)

// SaveRequest carries one conversation to persist.
type SaveRequest struct {
	Title    string                  `json:"title"`
	Content  string                  `json:"content"`
	FileName string                  `json:"fileName"`
	Result   *model.ExtractionResult `json:"extractedData,omitempty"`
}

// ListFilter bounds ListConversations output.
type ListFilter struct {
	Limit  int
	Offset int
}

// Store defines the persistence interface for conversations.
type Store interface {
	CreateConversation(ctx context.Context, req SaveRequest) (*model.StoredConversation, error)
	GetConversation(ctx context.Context, id string) (*model.StoredConversation, error)
	ListConversations(ctx context.Context, filter ListFilter) ([]model.StoredConversation, error)
	DeleteConversation(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// previewLen bounds the content excerpt returned by list operations.
const previewLen = 100

func preview(content string) string {
	if len(content) <= previewLen {
		return content
	}
	return content[:previewLen] + "..."
}

func defaultTitle(title string) string {
	if title == "" {
		return "Untitled conversation"
	}
	return title
}
