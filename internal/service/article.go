package service

import (
	"context"
	"errors"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/internal/event"
	"github.com/amiyamandal-dev/newscms/internal/repository"
	"github.com/amiyamandal-dev/newscms/internal/slug"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ImageStore defines the external object storage for article images
type ImageStore interface {
	Upload(ctx context.Context, data []byte) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// SearchIndexer defines the interface for search indexing
type SearchIndexer interface {
	IndexArticle(ctx context.Context, article *domain.Article) error
	DeleteArticle(ctx context.Context, articleID string) error
	Search(ctx context.Context, query string, page, limit int) ([]string, int, error)
}

// EventPublisher publishes article lifecycle events
type EventPublisher interface {
	PublishArticleEvent(ctx context.Context, eventName string, article *domain.Article) error
}

// ArticleService owns the content orchestration logic: slug addressing,
// partial updates, publish-visibility filtering and the image lifecycle.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	images      ImageStore
	indexer     SearchIndexer
	publisher   EventPublisher
	logger      *logger.Logger
}

// NewArticleService creates a new article service. The indexer and
// publisher are optional; pass nil to disable the corresponding hook.
func NewArticleService(
	articleRepo repository.ArticleRepository,
	images ImageStore,
	indexer SearchIndexer,
	publisher EventPublisher,
	log *logger.Logger,
) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		images:      images,
		indexer:     indexer,
		publisher:   publisher,
		logger:      log.WithComponent("article-service"),
	}
}

// Create creates a new article with a slug derived from its title and an
// optional image. An upload failure aborts the creation; an article is
// never persisted with a half-completed image.
func (s *ArticleService) Create(ctx context.Context, req *domain.ArticleCreateRequest, imageData []byte) (*domain.Article, error) {
	articleSlug := slug.Make(req.Title)

	// Pre-check for a friendlier conflict error. The unique index on slug
	// remains the authoritative guarantee when two writers race.
	exists, err := s.articleRepo.ExistsBySlug(ctx, articleSlug, "")
	if err != nil {
		s.logger.Error("Failed to check slug", "slug", articleSlug, "error", err)
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateSlug
	}

	article := &domain.Article{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Category:    req.Category,
		Slug:        articleSlug,
		IsPublished: true,
	}
	if req.IsPublished != nil {
		article.IsPublished = *req.IsPublished
	}

	if len(imageData) > 0 {
		url, publicID, err := s.images.Upload(ctx, imageData)
		if err != nil {
			s.logger.Error("Failed to upload image", "slug", articleSlug, "error", err)
			return nil, err
		}
		article.ImageURL = url
		article.ImagePublicID = publicID
	}

	created, err := s.articleRepo.Insert(ctx, article)
	if err != nil {
		// The store-level unique constraint catches the insert that lost a
		// race past the pre-check; it surfaces as the same conflict error.
		if !errors.Is(err, domain.ErrDuplicateSlug) {
			s.logger.Error("Failed to store article", "slug", articleSlug, "error", err)
		}
		return nil, err
	}

	s.indexArticle(ctx, created)
	s.publishEvent(ctx, event.ArticleCreated, created)

	s.logger.Info("Article created", "id", created.ID, "slug", created.Slug)

	return created, nil
}

// Update applies a partial update: only supplied fields change, and a
// supplied title recomputes the slug. A supplied image replaces both image
// reference fields; the previous image is left in place for out-of-band
// cleanup.
func (s *ArticleService) Update(ctx context.Context, id string, req *domain.ArticleUpdateRequest, imageData []byte) (*domain.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{}

	if req.Title != nil {
		newSlug := slug.Make(*req.Title)
		if newSlug != article.Slug {
			exists, err := s.articleRepo.ExistsBySlug(ctx, newSlug, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrDuplicateSlug
			}
		}
		set["title"] = *req.Title
		set["slug"] = newSlug
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.IsPublished != nil {
		set["isPublished"] = *req.IsPublished
	}

	if len(imageData) > 0 {
		url, publicID, err := s.images.Upload(ctx, imageData)
		if err != nil {
			s.logger.Error("Failed to upload replacement image", "id", id, "error", err)
			return nil, err
		}
		set["imageUrl"] = url
		set["imagePublicId"] = publicID
	}

	if len(set) == 0 {
		return article, nil
	}

	updated, err := s.articleRepo.ApplyPartialUpdate(ctx, id, set)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateSlug) && !errors.Is(err, domain.ErrArticleNotFound) {
			s.logger.Error("Failed to update article", "id", id, "error", err)
		}
		return nil, err
	}

	s.indexArticle(ctx, updated)
	s.publishEvent(ctx, event.ArticleUpdated, updated)

	s.logger.Info("Article updated", "id", id, "slug", updated.Slug)

	return updated, nil
}

// Delete removes an article permanently. When the article carries an image
// reference, the external image is destroyed first on a best-effort basis:
// a destroy failure is logged for out-of-band cleanup and never blocks the
// deletion of the record.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if article.HasImage() {
		if err := s.images.Destroy(ctx, article.ImagePublicID); err != nil {
			s.logger.Warn("Failed to destroy image, continuing with deletion",
				"id", id, "public_id", article.ImagePublicID, "error", err)
		}
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrArticleNotFound) {
			s.logger.Error("Failed to delete article", "id", id, "error", err)
		}
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteArticle(ctx, id); err != nil {
			s.logger.Warn("Failed to delete article from index", "id", id, "error", err)
		}
	}
	s.publishEvent(ctx, event.ArticleDeleted, article)

	s.logger.Info("Article deleted", "id", id, "slug", article.Slug)

	return nil
}

// List retrieves a page of published articles, optionally filtered by
// category, sorted by creation time descending. Unpublished articles are
// never included.
func (s *ArticleService) List(ctx context.Context, page, limit int, category string) ([]*domain.Article, int, error) {
	published := true
	filter := &domain.ArticleListFilter{
		Category:  category,
		Published: &published,
		Page:      page,
		Limit:     limit,
	}
	clampPagination(filter)

	return s.list(ctx, filter)
}

// ListForAdmin retrieves a page of articles without the implicit publish
// filter. isPublished, when non-nil, filters explicitly.
func (s *ArticleService) ListForAdmin(ctx context.Context, page, limit int, category string, isPublished *bool) ([]*domain.Article, int, error) {
	filter := &domain.ArticleListFilter{
		Category:  category,
		Published: isPublished,
		Page:      page,
		Limit:     limit,
	}
	clampPagination(filter)

	return s.list(ctx, filter)
}

func (s *ArticleService) list(ctx context.Context, filter *domain.ArticleListFilter) ([]*domain.Article, int, error) {
	articles, total, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list articles", "error", err)
		return nil, 0, err
	}
	return articles, total, nil
}

// GetBySlug retrieves a single article by slug. Slug lookup is not
// publish-gated; callers needing public visibility must check IsPublished.
func (s *ArticleService) GetBySlug(ctx context.Context, articleSlug string) (*domain.Article, error) {
	return s.articleRepo.GetBySlug(ctx, articleSlug)
}

// ListCategories returns the distinct category values across all stored
// articles. An empty store yields an empty result, not an error.
func (s *ArticleService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.articleRepo.DistinctCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// Search runs a full-text query over published articles
func (s *ArticleService) Search(ctx context.Context, query string, page, limit int) ([]*domain.Article, int, error) {
	if s.indexer == nil {
		return []*domain.Article{}, 0, nil
	}

	filter := &domain.ArticleListFilter{Page: page, Limit: limit}
	clampPagination(filter)

	ids, total, err := s.indexer.Search(ctx, query, filter.Page, filter.Limit)
	if err != nil {
		s.logger.Error("Search failed", "query", query, "error", err)
		return nil, 0, err
	}

	articles := make([]*domain.Article, 0, len(ids))
	for _, id := range ids {
		article, err := s.articleRepo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrArticleNotFound) {
			// Stale index entry; skip
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, article)
	}

	return articles, total, nil
}

func (s *ArticleService) indexArticle(ctx context.Context, article *domain.Article) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexArticle(ctx, article); err != nil {
		// Indexing never fails the owning operation
		s.logger.Warn("Failed to index article", "id", article.ID, "error", err)
	}
}

func (s *ArticleService) publishEvent(ctx context.Context, eventName string, article *domain.Article) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishArticleEvent(ctx, eventName, article); err != nil {
		// Event publishing never fails the owning operation
		s.logger.Warn("Failed to publish article event", "event", eventName, "id", article.ID, "error", err)
	}
}

func clampPagination(filter *domain.ArticleListFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
}
