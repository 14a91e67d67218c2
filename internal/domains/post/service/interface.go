package service

import (
	"context"
	"time"

	"edunews-backend/internal/domains/post/model"
	"edunews-backend/internal/infrastructure/storage"
)

// Principal is the authenticated caller, extracted from the access token by
// the auth middleware. Author and UserID of a post are set from it exactly
// once, at creation.
type Principal struct {
	UserID string
	Name   string
}

// AssetStore is the blob store the coordinator drives. Put must complete
// before any record referencing its URL is written; Delete is only ever
// called best-effort and only for URLs the store Owns.
type AssetStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// AssetInventory is the bucket-wide view the orphan sweep needs.
type AssetInventory interface {
	ListImages(ctx context.Context) ([]storage.StoredImage, error)
	DeleteKey(ctx context.Context, key string) error
}

// PostService is the post lifecycle coordinator plus the read paths the
// feed screens use.
type PostService interface {
	Create(ctx context.Context, principal Principal, req model.CreatePostRequest) (string, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, principal Principal, id string, req model.UpdatePostRequest) (*model.UpdateOutcome, error)
	Delete(ctx context.Context, principal Principal, id string) error

	MyPosts(ctx context.Context, userID string) ([]model.Post, error)
	Feed(ctx context.Context, req model.FeedRequest) ([]model.Post, error)
	Latest(ctx context.Context) ([]model.Post, error)
	ByCategory(ctx context.Context, category string) ([]model.Post, error)

	// SweepOrphanImages deletes stored images no record references that are
	// older than the grace window. Runs from the worker, never inline with
	// a user operation.
	SweepOrphanImages(ctx context.Context, olderThan time.Duration) (int, error)
}
