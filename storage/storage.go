package storage

import (
	"context"
	"errors"
	"fmt"
	"permablog/storage/models"
)

var (
	InternalError   = errors.New("storage internal error")
	ClientError     = errors.New("storage client error")
	ValidationError = fmt.Errorf("%w.validation", ClientError)
	NotFoundError   = fmt.Errorf("%w.not_found", ClientError)
)

// Storage persists posts. Posts are never updated or deleted once added.
//
// GetPosts returns every post ordered by creation time, newest first.
// An empty store yields an empty slice.
type Storage interface {
	AddPost(ctx context.Context, title string, body string) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
}

func ValidatePost(title, body string) error {
	if title == "" {
		return fmt.Errorf("post title is empty: %w", ValidationError)
	}
	if body == "" {
		return fmt.Errorf("post body is empty: %w", ValidationError)
	}
	return nil
}
