package apiclient

import (
	"context"
	"net/http"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

// GetPackages lists packages. Featured always goes to the dedicated featured
// listing and ignores Limit/Offset; the result is wrapped in a page so both
// paths share one shape.
func (c *Client) GetPackages(ctx context.Context, params domain.PackageListParams) Response[domain.PackagePage] {
	if params.Featured {
		return mapResponse(c.GetFeaturedPackages(ctx), func(p []domain.Package) domain.PackagePage {
			return domain.PackagePage{Packages: p, Total: int64(len(p))}
		})
	}
	return request[domain.PackagePage](ctx, c, call{
		method: http.MethodGet,
		path:   "/packages" + pageQuery(params.Limit, params.Offset, nil),
		route:  "/packages",
	})
}

func (c *Client) GetFeaturedPackages(ctx context.Context) Response[[]domain.Package] {
	return request[[]domain.Package](ctx, c, call{
		method: http.MethodGet,
		path:   "/packages/featured",
		route:  "/packages/featured",
	})
}

func (c *Client) GetPackageByID(ctx context.Context, id string) Response[domain.Package] {
	return request[domain.Package](ctx, c, call{
		method: http.MethodGet,
		path:   "/packages" + segment(id),
		route:  "/packages/:id",
	})
}

func (c *Client) GetPackagesByCategory(ctx context.Context, categoryID string, params domain.PageParams) Response[[]domain.Package] {
	return request[[]domain.Package](ctx, c, call{
		method: http.MethodGet,
		path:   "/packages/category" + segment(categoryID) + pageQuery(params.Limit, params.Offset, nil),
		route:  "/packages/category/:id",
	})
}

func (c *Client) CreatePackage(ctx context.Context, in domain.PackageInput) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPost,
		path:     "/admin/packages",
		route:    "/admin/packages",
		body:     in,
		validate: true,
	})
}

func (c *Client) UpdatePackage(ctx context.Context, id string, in domain.PackageInput) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPut,
		path:     "/admin/packages" + segment(id),
		route:    "/admin/packages/:id",
		body:     in,
		validate: true,
	})
}

func (c *Client) DeletePackage(ctx context.Context, id string) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method: http.MethodDelete,
		path:   "/admin/packages" + segment(id),
		route:  "/admin/packages/:id",
	})
}
