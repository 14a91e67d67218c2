package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"edunews-backend/internal/domains/post/model"
	"edunews-backend/internal/domains/post/repository"
	"edunews-backend/internal/infrastructure/storage"
	"edunews-backend/internal/shared/timefmt"
	"edunews-backend/pkg/cache"
)

// postService coordinates the record store and the asset store. The two do
// not share a transaction, so every write path follows one rule: a blob is
// uploaded before any record references it, and blob deletes are always
// best-effort so their failure cannot block the record operation. The
// accepted cost is the occasional orphaned blob (upload succeeded, record
// write failed), reclaimed later by the worker sweep.
//
// Concurrent edits of the same post are not synchronized here: the final
// record write is last-write-wins on the row, matching the source system.
type postService struct {
	repo      repository.PostRepository
	assets    AssetStore
	inventory AssetInventory
	processor *storage.ImageProcessor
	cache     cache.Cache
}

const (
	feedCacheTTL    = 5 * time.Minute
	latestFeedLimit = 5
	categoryLimit   = 50
)

func NewService(
	repo repository.PostRepository,
	assets AssetStore,
	inventory AssetInventory,
	processor *storage.ImageProcessor,
	c cache.Cache,
) PostService {
	return &postService{
		repo:      repo,
		assets:    assets,
		inventory: inventory,
		processor: processor,
		cache:     c,
	}
}

// Create validates, uploads the image, then writes the record. A failed
// upload aborts before the record exists; a failed record write leaves the
// uploaded blob orphaned and is returned as-is - no compensating delete.
func (s *postService) Create(ctx context.Context, principal Principal, req model.CreatePostRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if len(req.Image) == 0 {
		return "", model.ErrImageRequired
	}

	data, contentType, err := s.processor.Process(req.Image, req.ImageContentType)
	if err != nil {
		return "", classifyImageError(err)
	}

	url, err := s.assets.Put(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrImageUpload, err)
	}

	author := principal.Name
	if req.Anonymous {
		author = model.AnonymousAuthor
	}

	post := &model.Post{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    url,
		Author:      author,
		UserID:      principal.UserID,
		PostDate:    timefmt.Now(),
		Edited:      false,
		EditDate:    "",
	}

	id, err := s.repo.Create(ctx, post)
	if err != nil {
		// The uploaded blob is now orphaned; the sweep will reclaim it.
		return "", fmt.Errorf("save post: %w", err)
	}

	s.invalidateFeeds(ctx)
	log.Info().Str("post_id", id).Str("user_id", principal.UserID).Msg("post created")
	return id, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates the candidate before anything goes on the wire, loads
// the original snapshot, short-circuits no-op edits without touching either
// store, then sequences image work strictly before the record write.
func (s *postService) Update(ctx context.Context, principal Principal, id string, req model.UpdatePostRequest) (*model.UpdateOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.UserID != principal.UserID {
		return nil, model.ErrNotPostOwner
	}

	changes := DetectChanges(original, req)
	if changes.IsNoOp() {
		return &model.UpdateOutcome{NoChange: true, ImageURL: original.ImageURL}, nil
	}

	imageURL := original.ImageURL
	switch changes.Image {
	case ImageReplace:
		// Old blob first; its deletion failing never blocks the new upload.
		s.deleteAssetBestEffort(ctx, original.ImageURL)

		data, contentType, err := s.processor.Process(req.Image, req.ImageContentType)
		if err != nil {
			return nil, classifyImageError(err)
		}
		url, err := s.assets.Put(ctx, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrImageUpload, err)
		}
		imageURL = url

	case ImageClear:
		s.deleteAssetBestEffort(ctx, original.ImageURL)
		imageURL = ""

	case ImageNoChange:
		// carried over unchanged
	}

	update := model.PostUpdate{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    imageURL,
		Edited:      true,
		EditDate:    timefmt.Now(),
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		// A replacement blob uploaded above is orphaned now; tolerated.
		return nil, fmt.Errorf("save post: %w", err)
	}

	s.invalidateFeeds(ctx)
	log.Info().Str("post_id", id).Bool("text_changed", changes.TextChanged).Msg("post updated")
	return &model.UpdateOutcome{ImageURL: imageURL, EditDate: update.EditDate}, nil
}

// Delete removes the blob best-effort, then the record. Only the record
// delete can fail the operation.
func (s *postService) Delete(ctx context.Context, principal Principal, id string) error {
	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if original.UserID != principal.UserID {
		return model.ErrNotPostOwner
	}

	s.deleteAssetBestEffort(ctx, original.ImageURL)

	if err := s.repo.Delete(ctx, id); err != nil {
		// Record survives; the image may already be gone. Tolerated.
		return fmt.Errorf("delete post: %w", err)
	}

	s.invalidateFeeds(ctx)
	log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

func (s *postService) MyPosts(ctx context.Context, userID string) ([]model.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *postService) Feed(ctx context.Context, req model.FeedRequest) ([]model.Post, error) {
	req.Normalize()
	key := fmt.Sprintf("posts:feed:%d:%s", req.Limit, req.StartAfter)
	afterDate, afterID := model.DecodeCursor(req.StartAfter)
	return s.cachedList(ctx, key, func() ([]model.Post, error) {
		return s.repo.ListPage(ctx, req.Limit, afterDate, afterID)
	})
}

func (s *postService) Latest(ctx context.Context) ([]model.Post, error) {
	return s.cachedList(ctx, "posts:latest", func() ([]model.Post, error) {
		return s.repo.ListLatest(ctx, latestFeedLimit)
	})
}

func (s *postService) ByCategory(ctx context.Context, category string) ([]model.Post, error) {
	key := "posts:category:" + category
	return s.cachedList(ctx, key, func() ([]model.Post, error) {
		return s.repo.ListByCategory(ctx, category, categoryLimit)
	})
}

// SweepOrphanImages reclaims blobs no record references. olderThan is the
// grace window protecting uploads whose record write is still in flight.
func (s *postService) SweepOrphanImages(ctx context.Context, olderThan time.Duration) (int, error) {
	refs, err := s.repo.ListImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced images: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, u := range refs {
		referenced[u] = struct{}{}
	}

	stored, err := s.inventory.ListImages(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored images: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, img := range stored {
		if _, ok := referenced[img.URL]; ok {
			continue
		}
		if !img.LastModified.Before(cutoff) {
			continue
		}
		if err := s.inventory.DeleteKey(ctx, img.Key); err != nil {
			log.Warn().Err(err).Str("key", img.Key).Msg("failed to remove orphaned image")
			continue
		}
		removed++
	}
	return removed, nil
}

// deleteAssetBestEffort removes a blob if the asset store owns its URL.
// Failure is logged and swallowed: a stale blob is a tolerable degraded
// state, a blocked user action is not.
func (s *postService) deleteAssetBestEffort(ctx context.Context, url string) {
	if url == "" || !s.assets.Owns(url) {
		return
	}
	if err := s.assets.Delete(ctx, url); err != nil {
		log.Warn().
			Err(fmt.Errorf("%w: %v", model.ErrAssetDelete, err)).
			Str("url", url).
			Msg("best-effort asset delete failed, continuing")
	}
}

func (s *postService) cachedList(ctx context.Context, key string, load func() ([]model.Post, error)) ([]model.Post, error) {
	var cached []model.Post
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if found {
		return cached, nil
	}

	posts, err := load()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, posts, feedCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return posts, nil
}

func (s *postService) invalidateFeeds(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "posts:*"); err != nil {
		log.Warn().Err(err).Msg("feed cache invalidation failed")
	}
}

func classifyImageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return model.ErrImageTooLarge
	case errors.Is(err, storage.ErrBadImage):
		return model.ErrInvalidImage
	default:
		return fmt.Errorf("process image: %w", err)
	}
}
