package handlers

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/internal/render"
	"github.com/amiyamandal-dev/newscms/internal/service"
	"github.com/amiyamandal-dev/newscms/internal/validator"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
	"github.com/amiyamandal-dev/newscms/pkg/response"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// ArticleHandler handles article-related requests
type ArticleHandler struct {
	articleService *service.ArticleService
	renderer       *render.Renderer
	logger         *logger.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService *service.ArticleService, renderer *render.Renderer, log *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		renderer:       renderer,
		logger:         log.WithComponent("article-handler"),
	}
}

// articleWithHTML is the single-article view carrying the rendered content
type articleWithHTML struct {
	*domain.Article
	HTML string `json:"html,omitempty"`
}

// readImageFile extracts and validates the optional multipart image file.
// A missing file is not an error; it returns nil data.
func readImageFile(c *gin.Context) ([]byte, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return nil, nil // No image supplied
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".gif" && ext != ".webp" {
		return nil, errors.New("invalid image format. Allowed: jpg, jpeg, png, gif, webp")
	}

	if header.Size > maxImageSize {
		return nil, errors.New("image too large. Maximum size: 10MB")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read image file")
	}

	return data, nil
}

// Create handles article creation from a multipart form with an optional image
func (h *ArticleHandler) Create(c *gin.Context) {
	var req domain.ArticleCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid article fields")
		return
	}

	imageData, err := readImageFile(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), &req, imageData)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			response.Conflict(c, "News with this title already exists")
			return
		}
		h.logger.Error("Failed to create article", "error", err)
		response.InternalServerError(c, "Failed to create article")
		return
	}

	response.Created(c, article)
}

// Update handles partial article updates
func (h *ArticleHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Article ID is required")
		return
	}

	var req domain.ArticleUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid article fields")
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	imageData, err := readImageFile(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), id, &req, imageData)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			response.NotFound(c, "Article not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateSlug) {
			response.Conflict(c, "News with this title already exists")
			return
		}
		h.logger.Error("Failed to update article", "id", id, "error", err)
		response.InternalServerError(c, "Failed to update article")
		return
	}

	response.Success(c, article)
}

// Delete handles article deletion
func (h *ArticleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Article ID is required")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			response.NotFound(c, "Article not found")
			return
		}
		h.logger.Error("Failed to delete article", "id", id, "error", err)
		response.InternalServerError(c, "Failed to delete article")
		return
	}

	response.NoContent(c)
}

// List retrieves published articles with pagination and category filtering
func (h *ArticleHandler) List(c *gin.Context) {
	parser := NewQueryParamParser(c)

	pagination := parser.Pagination(20)
	category := parser.String("category", "")

	if err := parser.Error(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	articles, total, err := h.articleService.List(c.Request.Context(), pagination.Page, pagination.Limit, category)
	if err != nil {
		h.logger.Error("Failed to list articles", "error", err)
		response.InternalServerError(c, "Failed to list articles")
		return
	}

	response.Paginated(c, articles, pagination.Page, pagination.Limit, total)
}

// ListForAdmin retrieves articles without the implicit publish filter
func (h *ArticleHandler) ListForAdmin(c *gin.Context) {
	parser := NewQueryParamParser(c)

	pagination := parser.Pagination(20)
	category := parser.String("category", "")
	isPublished := parser.OptionalBool("isPublished")

	if err := parser.Error(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	articles, total, err := h.articleService.ListForAdmin(c.Request.Context(), pagination.Page, pagination.Limit, category, isPublished)
	if err != nil {
		h.logger.Error("Failed to list articles for admin", "error", err)
		response.InternalServerError(c, "Failed to list articles")
		return
	}

	response.Paginated(c, articles, pagination.Page, pagination.Limit, total)
}

// GetBySlug retrieves a single article by slug with rendered HTML content
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Slug is required")
		return
	}

	article, err := h.articleService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			response.NotFound(c, "Article not found")
			return
		}
		h.logger.Error("Failed to get article", "slug", slug, "error", err)
		response.InternalServerError(c, "Failed to retrieve article")
		return
	}

	view := articleWithHTML{Article: article}
	if h.renderer != nil {
		html, err := h.renderer.HTML(article.Content)
		if err != nil {
			h.logger.Warn("Failed to render article content", "slug", slug, "error", err)
		} else {
			view.HTML = html
		}
	}

	response.Success(c, view)
}

// ListCategories retrieves the distinct category values
func (h *ArticleHandler) ListCategories(c *gin.Context) {
	categories, err := h.articleService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		response.InternalServerError(c, "Failed to list categories")
		return
	}

	response.Success(c, categories)
}

// Search runs a full-text query over published articles
func (h *ArticleHandler) Search(c *gin.Context) {
	parser := NewQueryParamParser(c)

	pagination := parser.Pagination(20)
	query := parser.String("q", "")

	if err := parser.Error(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if query == "" {
		response.BadRequest(c, "Query parameter 'q' is required")
		return
	}

	articles, total, err := h.articleService.Search(c.Request.Context(), query, pagination.Page, pagination.Limit)
	if err != nil {
		h.logger.Error("Search failed", "query", query, "error", err)
		response.InternalServerError(c, "Search failed")
		return
	}

	response.Paginated(c, articles, pagination.Page, pagination.Limit, total)
}
