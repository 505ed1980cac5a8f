package domain

import (
	"time"
)

// Article represents a news article as persisted in the content store.
// ImageURL and ImagePublicID reference an externally stored image and are
// always set or cleared together.
type Article struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content" bson:"content"`
	Description   string    `json:"description" bson:"description"`
	Category      string    `json:"category" bson:"category"`
	Slug          string    `json:"slug" bson:"slug"`
	ImageURL      string    `json:"image_url,omitempty" bson:"imageUrl,omitempty"`
	ImagePublicID string    `json:"image_public_id,omitempty" bson:"imagePublicId,omitempty"`
	IsPublished   bool      `json:"is_published" bson:"isPublished"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

// HasImage reports whether the article carries an external image reference.
func (a *Article) HasImage() bool {
	return a.ImagePublicID != ""
}

// ArticleCreateRequest represents a request to create an article.
// The slug is never accepted from callers; it is derived from the title.
type ArticleCreateRequest struct {
	Title       string `form:"title" json:"title" binding:"required,min=1,max=200" validate:"required,min=1,max=200"`
	Content     string `form:"content" json:"content" binding:"required,min=1" validate:"required,min=1"`
	Description string `form:"description" json:"description"`
	Category    string `form:"category" json:"category" binding:"required,min=1" validate:"required,min=1"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// ArticleUpdateRequest represents a partial update. Nil fields are left
// untouched; a non-nil pointer to an empty string does overwrite.
type ArticleUpdateRequest struct {
	Title       *string `form:"title" json:"title" validate:"omitempty,max=200"`
	Content     *string `form:"content" json:"content"`
	Description *string `form:"description" json:"description"`
	Category    *string `form:"category" json:"category"`
	IsPublished *bool   `form:"is_published" json:"is_published"`
}

// IsEmpty reports whether the update carries no field changes at all.
func (r *ArticleUpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil && r.Description == nil &&
		r.Category == nil && r.IsPublished == nil
}

// ArticleListFilter represents filters for listing articles.
// Published is tri-state: nil means both publish states are included.
type ArticleListFilter struct {
	Category  string
	Published *bool
	Page      int
	Limit     int
}

// ImageRef is the (URL, opaque id) pair referencing externally stored
// image data.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
