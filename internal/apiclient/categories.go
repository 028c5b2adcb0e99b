package apiclient

import (
	"context"
	"net/http"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

func (c *Client) GetCategories(ctx context.Context) Response[[]domain.Category] {
	return request[[]domain.Category](ctx, c, call{
		method: http.MethodGet,
		path:   "/categories",
		route:  "/categories",
	})
}

func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPost,
		path:     "/admin/categories",
		route:    "/admin/categories",
		body:     in,
		validate: true,
	})
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPut,
		path:     "/admin/categories" + segment(id),
		route:    "/admin/categories/:id",
		body:     in,
		validate: true,
	})
}

func (c *Client) DeleteCategory(ctx context.Context, id string) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method: http.MethodDelete,
		path:   "/admin/categories" + segment(id),
		route:  "/admin/categories/:id",
	})
}
