package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "text")
	require.NoError(t, err)
	return log
}

// fakeArticleRepo is an in-memory ArticleRepository
type fakeArticleRepo struct {
	articles map[string]*domain.Article
	nextID   int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *fakeArticleRepo) Insert(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	for _, a := range r.articles {
		if a.Slug == article.Slug {
			return nil, domain.ErrDuplicateSlug
		}
	}
	r.nextID++
	stored := *article
	stored.ID = fmt.Sprintf("id-%d", r.nextID)
	r.articles[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	result := *a
	return &result, nil
}

func (r *fakeArticleRepo) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug {
			result := *a
			return &result, nil
		}
	}
	return nil, domain.ErrArticleNotFound
}

func (r *fakeArticleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	for _, a := range r.articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeArticleRepo) ApplyPartialUpdate(ctx context.Context, id string, set map[string]interface{}) (*domain.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	for key, value := range set {
		switch key {
		case "title":
			a.Title = value.(string)
		case "slug":
			a.Slug = value.(string)
		case "content":
			a.Content = value.(string)
		case "description":
			a.Description = value.(string)
		case "category":
			a.Category = value.(string)
		case "isPublished":
			a.IsPublished = value.(bool)
		case "imageUrl":
			a.ImageURL = value.(string)
		case "imagePublicId":
			a.ImagePublicID = value.(string)
		}
	}
	result := *a
	return &result, nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) List(ctx context.Context, filter *domain.ArticleListFilter) ([]*domain.Article, int, error) {
	var matched []*domain.Article
	for _, a := range r.articles {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Published != nil && a.IsPublished != *filter.Published {
			continue
		}
		result := *a
		matched = append(matched, &result)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeArticleRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	categories := []string{}
	for _, a := range r.articles {
		if !seen[a.Category] {
			seen[a.Category] = true
			categories = append(categories, a.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// fakeImageStore records uploads and destroys
type fakeImageStore struct {
	uploads    int
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func (s *fakeImageStore) Upload(ctx context.Context, data []byte) (string, string, error) {
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	s.uploads++
	publicID := fmt.Sprintf("cid-%d", s.uploads)
	return "https://gateway.example/" + publicID, publicID, nil
}

func (s *fakeImageStore) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return s.destroyErr
}

func newTestArticleService(t *testing.T) (*ArticleService, *fakeArticleRepo, *fakeImageStore) {
	t.Helper()
	repo := newFakeArticleRepo()
	images := &fakeImageStore{}
	svc := NewArticleService(repo, images, nil, nil, newTestLogger(t))
	return svc, repo, images
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Hello, World!",
		Content:  "Body text",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "hello-world", article.Slug)
	assert.True(t, article.IsPublished, "articles default to published")
	assert.NotEmpty(t, article.ID)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Breaking News",
		Content:  "First",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	// Different punctuation, same slug
	_, err = svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Breaking   News!",
		Content:  "Second",
		Category: "tech",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestCreateHonorsExplicitUnpublished(t *testing.T) {
	svc, _, _ := newTestArticleService(t)

	article, err := svc.Create(context.Background(), &domain.ArticleCreateRequest{
		Title:       "Draft Piece",
		Content:     "Body",
		Category:    "tech",
		IsPublished: boolPtr(false),
	}, nil)
	require.NoError(t, err)
	assert.False(t, article.IsPublished)
}

func TestCreateAbortsWhenImageUploadFails(t *testing.T) {
	svc, repo, images := newTestArticleService(t)
	images.uploadErr = domain.ErrImageUploadFailed

	_, err := svc.Create(context.Background(), &domain.ArticleCreateRequest{
		Title:    "Illustrated Story",
		Content:  "Body",
		Category: "tech",
	}, []byte("fake image bytes"))
	assert.ErrorIs(t, err, domain.ErrImageUploadFailed)
	assert.Empty(t, repo.articles, "no article may be persisted after a failed upload")
}

func TestCreateStoresImageReferencePair(t *testing.T) {
	svc, _, _ := newTestArticleService(t)

	article, err := svc.Create(context.Background(), &domain.ArticleCreateRequest{
		Title:    "Illustrated Story",
		Content:  "Body",
		Category: "tech",
	}, []byte("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example/cid-1", article.ImageURL)
	assert.Equal(t, "cid-1", article.ImagePublicID)
	assert.True(t, article.HasImage())
}

func TestUpdateTitleRecomputesSlug(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Original Title",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, article.ID, &domain.ArticleUpdateRequest{
		Title: strPtr("Revised Title"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Revised Title", updated.Title)
	assert.Equal(t, "revised-title", updated.Slug)
	assert.Equal(t, "Body", updated.Content, "unsupplied fields stay untouched")
}

func TestUpdateWithoutTitleKeepsSlug(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Stable Title",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, article.ID, &domain.ArticleUpdateRequest{
		Content:  strPtr("New body"),
		Category: strPtr("world"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "stable-title", updated.Slug)
	assert.Equal(t, "New body", updated.Content)
	assert.Equal(t, "world", updated.Category)
}

func TestUpdateRejectsSlugCollisionWithOtherArticle(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "First Article",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	second, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Second Article",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, &domain.ArticleUpdateRequest{
		Title: strPtr("First Article"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestUpdateAllowsRetitlingToOwnSlug(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Same Slug Title",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	// Punctuation change only; the slug stays identical
	updated, err := svc.Update(ctx, article.ID, &domain.ArticleUpdateRequest{
		Title: strPtr("Same Slug: Title"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "same-slug-title", updated.Slug)
	assert.Equal(t, "Same Slug: Title", updated.Title)
}

func TestUpdateOverwritesWithEmptyString(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:       "Described Article",
		Content:     "Body",
		Description: "Old description",
		Category:    "tech",
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, article.ID, &domain.ArticleUpdateRequest{
		Description: strPtr(""),
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
}

func TestUpdateUnknownArticle(t *testing.T) {
	svc, _, _ := newTestArticleService(t)

	_, err := svc.Update(context.Background(), "missing", &domain.ArticleUpdateRequest{
		Content: strPtr("New body"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestDeleteDestroysImageFirst(t *testing.T) {
	svc, repo, images := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Illustrated Story",
		Content:  "Body",
		Category: "tech",
	}, []byte("fake image bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, article.ID))

	require.Len(t, images.destroyed, 1)
	assert.Equal(t, article.ImagePublicID, images.destroyed[0])
	assert.Empty(t, repo.articles)
}

func TestDeleteProceedsWhenImageDestroyFails(t *testing.T) {
	svc, repo, images := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Illustrated Story",
		Content:  "Body",
		Category: "tech",
	}, []byte("fake image bytes"))
	require.NoError(t, err)

	images.destroyErr = errors.New("gateway unreachable")

	require.NoError(t, svc.Delete(ctx, article.ID), "a destroy failure never blocks deletion")
	assert.Empty(t, repo.articles)
}

func TestDeleteSkipsImageStoreWithoutImage(t *testing.T) {
	svc, _, images := newTestArticleService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Plain Story",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, article.ID))
	assert.Empty(t, images.destroyed)
}

func TestDeleteUnknownArticle(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestListExcludesUnpublished(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Public Story",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:       "Hidden Draft",
		Content:     "Body",
		Category:    "tech",
		IsPublished: boolPtr(false),
	}, nil)
	require.NoError(t, err)

	articles, total, err := svc.List(ctx, 1, 10, "")
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, articles, 1)
	assert.Equal(t, "public-story", articles[0].Slug)
}

func TestListForAdminSeesAllPublishStates(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Public Story",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:       "Hidden Draft",
		Content:     "Body",
		Category:    "tech",
		IsPublished: boolPtr(false),
	}, nil)
	require.NoError(t, err)

	_, total, err := svc.ListForAdmin(ctx, 1, 10, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = svc.ListForAdmin(ctx, 1, 10, "", boolPtr(false))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListFiltersByCategory(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	for i, category := range []string{"tech", "world", "tech"} {
		_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
			Title:    fmt.Sprintf("Story %d", i),
			Content:  "Body",
			Category: category,
		}, nil)
		require.NoError(t, err)
	}

	articles, total, err := svc.List(ctx, 1, 10, "tech")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, articles, 2)
}

func TestListPagination(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
			Title:    fmt.Sprintf("Story Number %d", i),
			Content:  "Body",
			Category: "tech",
		}, nil)
		require.NoError(t, err)
	}

	articles, total, err := svc.List(ctx, 2, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, articles, 10)

	// Last page holds the remainder
	articles, total, err = svc.List(ctx, 3, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, articles, 5)

	// Past the end is empty, not an error
	articles, _, err = svc.List(ctx, 4, 10, "")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestListClampsPagination(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:    "Only Story",
		Content:  "Body",
		Category: "tech",
	}, nil)
	require.NoError(t, err)

	// Invalid values fall back to sane defaults instead of erroring
	articles, total, err := svc.List(ctx, 0, -5, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, articles, 1)
}

func TestGetBySlugReturnsUnpublished(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
		Title:       "Hidden Draft",
		Content:     "Body",
		Category:    "tech",
		IsPublished: boolPtr(false),
	}, nil)
	require.NoError(t, err)

	article, err := svc.GetBySlug(ctx, "hidden-draft")
	require.NoError(t, err)
	assert.False(t, article.IsPublished)
}

func TestGetBySlugUnknown(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	_, err := svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestListCategoriesEmptyStore(t *testing.T) {
	svc, _, _ := newTestArticleService(t)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestListCategoriesDistinct(t *testing.T) {
	svc, _, _ := newTestArticleService(t)
	ctx := context.Background()

	for i, category := range []string{"tech", "world", "tech"} {
		_, err := svc.Create(ctx, &domain.ArticleCreateRequest{
			Title:    fmt.Sprintf("Story %d", i),
			Content:  "Body",
			Category: category,
		}, nil)
		require.NoError(t, err)
	}

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech", "world"}, categories)
}

func TestSearchWithoutIndexer(t *testing.T) {
	svc, _, _ := newTestArticleService(t)

	articles, total, err := svc.Search(context.Background(), "anything", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, articles)
	assert.Zero(t, total)
}
