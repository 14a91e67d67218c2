package repository

import (
	"context"

	"edunews-backend/internal/domains/post/model"
)

// PostRepository is the record store client: per-document CRUD plus the
// equality+order queries the feed screens need. Every list is ordered by
// post_date descending (the stored layout is lexicographically
// chronological); in-memory reordering is the feed package's job.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) (string, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, id string, u model.PostUpdate) error
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]model.Post, error)
	ListLatest(ctx context.Context, limit int) ([]model.Post, error)
	// ListPage returns up to limit posts keyset-positioned strictly after
	// (afterDate, afterID); empty afterDate starts from the top. The
	// composite key keeps page boundaries exact when several posts share
	// one post_date; an empty afterID degrades to a date-only bound, which
	// can skip same-second rows at the boundary.
	ListPage(ctx context.Context, limit int, afterDate, afterID string) ([]model.Post, error)

	// ListImageURLs returns every non-empty image_url, for the orphan sweep.
	ListImageURLs(ctx context.Context) ([]string, error)
}
