package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// articleDoc is the persisted shape of an article. The domain model carries
// a hex string ID; the store uses a native ObjectID.
type articleDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	Description   string             `bson:"description"`
	Category      string             `bson:"category"`
	Slug          string             `bson:"slug"`
	ImageURL      string             `bson:"imageUrl,omitempty"`
	ImagePublicID string             `bson:"imagePublicId,omitempty"`
	IsPublished   bool               `bson:"isPublished"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *articleDoc) toDomain() *domain.Article {
	return &domain.Article{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		Description:   d.Description,
		Category:      d.Category,
		Slug:          d.Slug,
		ImageURL:      d.ImageURL,
		ImagePublicID: d.ImagePublicID,
		IsPublished:   d.IsPublished,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ArticleRepo implements repository.ArticleRepository backed by MongoDB
type ArticleRepo struct {
	col    *mongo.Collection
	logger *logger.Logger
}

// NewArticleRepo creates a new article repository on the "articles"
// collection and ensures its indexes.
func NewArticleRepo(db *mongo.Database, log *logger.Logger) (*ArticleRepo, error) {
	repo := &ArticleRepo{
		col:    db.Collection("articles"),
		logger: log.WithComponent("article-repo"),
	}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes creates the unique slug index that is the authoritative
// uniqueness guarantee; the service-level pre-check only exists for a
// friendlier error. createdAt is indexed as the listing sort key.
func (r *ArticleRepo) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert persists a new article, assigning ID and timestamps
func (r *ArticleRepo) Insert(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	now := time.Now()

	doc := &articleDoc{
		ID:            primitive.NewObjectID(),
		Title:         article.Title,
		Content:       article.Content,
		Description:   article.Description,
		Category:      article.Category,
		Slug:          article.Slug,
		ImageURL:      article.ImageURL,
		ImagePublicID: article.ImagePublicID,
		IsPublished:   article.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	r.logger.Debug("inserted article", "id", doc.ID.Hex(), "slug", doc.Slug)

	return doc.toDomain(), nil
}

// GetByID retrieves an article by its hex ID
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	var doc articleDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return doc.toDomain(), nil
}

// GetBySlug retrieves an article by slug
func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var doc articleDoc
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	return doc.toDomain(), nil
}

// ExistsBySlug reports whether another article already claims the slug
func (r *ArticleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, domain.ErrArticleNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return count > 0, nil
}

// ApplyPartialUpdate sets only the supplied fields and returns the updated
// record. updatedAt is always refreshed.
func (r *ArticleRepo) ApplyPartialUpdate(ctx context.Context, id string, set map[string]interface{}) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	update := bson.M{}
	for k, v := range set {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc articleDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": update}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return doc.toDomain(), nil
}

// Delete removes an article permanently
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}

	return nil
}

// List retrieves a page of articles sorted by creation time descending,
// plus the total matching count ignoring pagination.
func (r *ArticleRepo) List(ctx context.Context, filter *domain.ArticleListFilter) ([]*domain.Article, int, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Published != nil {
		query["isPublished"] = *filter.Published
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer cursor.Close(ctx)

	articles := []*domain.Article{}
	for cursor.Next(ctx) {
		var doc articleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode article: %w", err)
		}
		articles = append(articles, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, int(total), nil
}

// DistinctCategories returns the distinct category values across all
// stored articles. An empty store yields an empty slice.
func (r *ArticleRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}

	return categories, nil
}
