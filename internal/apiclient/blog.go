package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

func (c *Client) GetBlogPosts(ctx context.Context, params domain.BlogListParams) Response[[]domain.BlogPost] {
	return request[[]domain.BlogPost](ctx, c, call{
		method: http.MethodGet,
		path:   "/admin/blog" + pageQuery(params.Limit, params.Offset, url.Values{"status": {params.Status}}),
		route:  "/admin/blog",
	})
}

func (c *Client) GetBlogPostByID(ctx context.Context, id string) Response[domain.BlogPost] {
	return request[domain.BlogPost](ctx, c, call{
		method: http.MethodGet,
		path:   "/admin/blog" + segment(id),
		route:  "/admin/blog/:id",
	})
}

func (c *Client) CreateBlogPost(ctx context.Context, in domain.BlogPostInput) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPost,
		path:     "/admin/blog",
		route:    "/admin/blog",
		body:     in,
		validate: true,
	})
}

// UpdateBlogPost replaces a post. AuthorID is not sent on update.
func (c *Client) UpdateBlogPost(ctx context.Context, id string, in domain.BlogPostInput) Response[domain.Ack] {
	in.AuthorID = nil
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPut,
		path:     "/admin/blog" + segment(id),
		route:    "/admin/blog/:id",
		body:     in,
		validate: true,
	})
}

func (c *Client) DeleteBlogPost(ctx context.Context, id string) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method: http.MethodDelete,
		path:   "/admin/blog" + segment(id),
		route:  "/admin/blog/:id",
	})
}
