package domain

import "time"

// BlogPost is an article managed from the admin blog screens.
type BlogPost struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	Content   string     `json:"content"`
	Excerpt   *string    `json:"excerpt,omitempty"`
	Thumbnail *string    `json:"thumbnail,omitempty"`
	Status    string     `json:"status,omitempty"`
	AuthorID  *string    `json:"author_id,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// BlogPostInput is the admin create/update body for a post. AuthorID is only
// honoured on create.
type BlogPostInput struct {
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Excerpt   *string  `json:"excerpt,omitempty"`
	Thumbnail *string  `json:"thumbnail,omitempty"`
	Status    string   `json:"status,omitempty"`
	AuthorID  *string  `json:"author_id,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// BlogListParams pages and filters the admin blog listing.
type BlogListParams struct {
	Limit  int
	Offset int
	Status string
}
