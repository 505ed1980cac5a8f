package repository

import (
	"context"

	"github.com/amiyamandal-dev/newscms/internal/domain"
)

// ArticleRepository defines the interface for article persistence
type ArticleRepository interface {
	// Insert persists a new article and returns it with the assigned ID
	// and timestamps. A slug collision surfaces as domain.ErrDuplicateSlug.
	Insert(ctx context.Context, article *domain.Article) (*domain.Article, error)

	// GetByID retrieves an article by ID
	GetByID(ctx context.Context, id string) (*domain.Article, error)

	// GetBySlug retrieves an article by slug
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)

	// ExistsBySlug reports whether an article with the slug exists,
	// excluding the article with excludeID when non-empty.
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)

	// ApplyPartialUpdate sets only the supplied fields on the article and
	// returns the updated record.
	ApplyPartialUpdate(ctx context.Context, id string, set map[string]interface{}) (*domain.Article, error)

	// Delete removes an article permanently
	Delete(ctx context.Context, id string) error

	// List retrieves articles matching the filter sorted by creation time
	// descending, plus the total matching count ignoring pagination.
	List(ctx context.Context, filter *domain.ArticleListFilter) ([]*domain.Article, int, error)

	// DistinctCategories returns the distinct category values across all
	// stored articles.
	DistinctCategories(ctx context.Context) ([]string, error)
}
