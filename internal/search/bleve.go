package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// articleFields is the indexed projection of an article
type articleFields struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublished bool   `json:"is_published"`
}

// BleveIndex maintains the article full-text index
type BleveIndex struct {
	index  bleve.Index
	mu     sync.RWMutex // Protects concurrent access to the index
	logger *logger.Logger
}

// NewBleveIndex creates a new Bleve search index
func NewBleveIndex(log *logger.Logger) *BleveIndex {
	return &BleveIndex{
		logger: log.WithComponent("bleve-index"),
	}
}

// Open opens or creates the search index
func (b *BleveIndex) Open(indexPath string) error {
	indexDir := filepath.Dir(indexPath)
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	var err error

	b.index, err = bleve.Open(indexPath)
	if err == nil {
		b.logger.Info("Opened existing search index", "path", indexPath)
		return nil
	}

	indexMapping := b.buildIndexMapping()
	b.index, err = bleve.New(indexPath, indexMapping)
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	b.logger.Info("Created new search index", "path", indexPath)
	return nil
}

// buildIndexMapping builds the index mapping for articles
func (b *BleveIndex) buildIndexMapping() mapping.IndexMapping {
	articleMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"
	titleFieldMapping.Store = true
	titleFieldMapping.Index = true
	articleMapping.AddFieldMappingsAt("title", titleFieldMapping)

	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = "en"
	contentFieldMapping.Store = false
	contentFieldMapping.Index = true
	articleMapping.AddFieldMappingsAt("content", contentFieldMapping)

	descriptionFieldMapping := bleve.NewTextFieldMapping()
	descriptionFieldMapping.Analyzer = "en"
	descriptionFieldMapping.Store = true
	descriptionFieldMapping.Index = true
	articleMapping.AddFieldMappingsAt("description", descriptionFieldMapping)

	categoryFieldMapping := bleve.NewKeywordFieldMapping()
	categoryFieldMapping.Store = true
	categoryFieldMapping.Index = true
	articleMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	publishedFieldMapping := bleve.NewBooleanFieldMapping()
	publishedFieldMapping.Store = true
	publishedFieldMapping.Index = true
	articleMapping.AddFieldMappingsAt("is_published", publishedFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("article", articleMapping)
	indexMapping.DefaultMapping = articleMapping

	return indexMapping
}

// IndexArticle adds or replaces an article in the index
func (b *BleveIndex) IndexArticle(ctx context.Context, article *domain.Article) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc := articleFields{
		Title:       article.Title,
		Content:     article.Content,
		Description: article.Description,
		Category:    article.Category,
		IsPublished: article.IsPublished,
	}

	if err := b.index.Index(article.ID, doc); err != nil {
		return fmt.Errorf("failed to index article %s: %w", article.ID, err)
	}
	return nil
}

// DeleteArticle removes an article from the index
func (b *BleveIndex) DeleteArticle(ctx context.Context, articleID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.index.Delete(articleID); err != nil {
		return fmt.Errorf("failed to delete article %s from index: %w", articleID, err)
	}
	return nil
}

// Search runs a full-text query over published articles and returns the
// matching article IDs plus the total hit count.
func (b *BleveIndex) Search(ctx context.Context, queryString string, page, limit int) ([]string, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	matchQuery := bleve.NewMatchQuery(queryString)

	publishedQuery := bleve.NewBoolFieldQuery(true)
	publishedQuery.SetField("is_published")

	query := bleve.NewConjunctionQuery(matchQuery, publishedQuery)

	req := bleve.NewSearchRequestOptions(query, limit, (page-1)*limit, false)
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, int(res.Total), nil
}

// Count returns the number of indexed documents
func (b *BleveIndex) Count() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.DocCount()
}

// Close closes the search index
func (b *BleveIndex) Close() error {
	if b.index != nil {
		if err := b.index.Close(); err != nil {
			return fmt.Errorf("failed to close index: %w", err)
		}
		b.logger.Info("Closed search index")
	}
	return nil
}
