package catalog

import (
	"context"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

type Packages struct{ *base }

// All lists packages. With params.Featured it lists the featured packages.
func (p *Packages) All(ctx context.Context, params domain.PackageListParams) (Listing[domain.Package], error) {
	return list(p.base, ResourcePackages, p.api.GetPackages(ctx, params),
		func(pg domain.PackagePage) ([]domain.Package, int64) { return pg.Packages, pg.Total },
		func(s sampleSet) []domain.Package {
			if params.Featured {
				return filter(s.Packages, func(pkg domain.Package) bool { return pkg.IsFeatured })
			}
			return s.Packages
		})
}

func (p *Packages) Featured(ctx context.Context) (Listing[domain.Package], error) {
	return p.All(ctx, domain.PackageListParams{Featured: true})
}

func (p *Packages) ByCategory(ctx context.Context, categoryID string, params domain.PageParams) (Listing[domain.Package], error) {
	return list(p.base, ResourcePackages, p.api.GetPackagesByCategory(ctx, categoryID, params), slice[domain.Package],
		func(s sampleSet) []domain.Package {
			return filter(s.Packages, func(pkg domain.Package) bool { return pkg.CategoryID == categoryID })
		})
}

func (p *Packages) ByID(ctx context.Context, id string) (domain.Package, error) {
	return unwrap(p.api.GetPackageByID(ctx, id))
}

func (p *Packages) Create(ctx context.Context, in domain.PackageInput) (domain.Ack, error) {
	return unwrap(p.api.CreatePackage(ctx, in))
}

func (p *Packages) Update(ctx context.Context, id string, in domain.PackageInput) (domain.Ack, error) {
	return unwrap(p.api.UpdatePackage(ctx, id, in))
}

func (p *Packages) Delete(ctx context.Context, id string) (domain.Ack, error) {
	return unwrap(p.api.DeletePackage(ctx, id))
}

type Categories struct{ *base }

func (c *Categories) All(ctx context.Context) (Listing[domain.Category], error) {
	return list(c.base, ResourceCategories, c.api.GetCategories(ctx), slice[domain.Category],
		func(s sampleSet) []domain.Category { return s.Categories })
}

func (c *Categories) Create(ctx context.Context, in domain.CategoryInput) (domain.Ack, error) {
	return unwrap(c.api.CreateCategory(ctx, in))
}

func (c *Categories) Update(ctx context.Context, id string, in domain.CategoryInput) (domain.Ack, error) {
	return unwrap(c.api.UpdateCategory(ctx, id, in))
}

func (c *Categories) Delete(ctx context.Context, id string) (domain.Ack, error) {
	return unwrap(c.api.DeleteCategory(ctx, id))
}

type Blog struct{ *base }

func (b *Blog) All(ctx context.Context, params domain.BlogListParams) (Listing[domain.BlogPost], error) {
	return list(b.base, ResourceBlog, b.api.GetBlogPosts(ctx, params), slice[domain.BlogPost],
		func(s sampleSet) []domain.BlogPost { return s.Posts })
}

func (b *Blog) ByID(ctx context.Context, id string) (domain.BlogPost, error) {
	return unwrap(b.api.GetBlogPostByID(ctx, id))
}

func (b *Blog) Create(ctx context.Context, in domain.BlogPostInput) (domain.Ack, error) {
	return unwrap(b.api.CreateBlogPost(ctx, in))
}

func (b *Blog) Update(ctx context.Context, id string, in domain.BlogPostInput) (domain.Ack, error) {
	return unwrap(b.api.UpdateBlogPost(ctx, id, in))
}

func (b *Blog) Delete(ctx context.Context, id string) (domain.Ack, error) {
	return unwrap(b.api.DeleteBlogPost(ctx, id))
}

type Users struct{ *base }

func (u *Users) All(ctx context.Context) (Listing[domain.User], error) {
	return list(u.base, ResourceUsers, u.api.GetAllUsers(ctx), slice[domain.User],
		func(s sampleSet) []domain.User { return s.Users })
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
