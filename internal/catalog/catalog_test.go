package catalog_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/apitest"
	"github.com/wanderlust/travel-portal/internal/catalog"
	"github.com/wanderlust/travel-portal/internal/core/domain"
	"github.com/wanderlust/travel-portal/internal/metrics"
)

func adminClient(t *testing.T, b *apitest.Backend) *apiclient.Client {
	t.Helper()
	admin := b.SeedUser("root@example.com", "secret1", true)
	c := apiclient.New(b.URL(), nil)
	c.SetToken(context.Background(), b.IssueToken(admin.ID, true, time.Hour))
	return c
}

func TestPackages_Live(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	b.SeedPackage(domain.Package{Title: "Goa", Price: 100, IsFeatured: true})
	b.SeedPackage(domain.Package{Title: "Kerala", Price: 200})
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	all, err := cat.Packages.All(ctx, domain.PackageListParams{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.EqualValues(t, 2, all.Total)
	assert.False(t, all.Degraded)
	assert.Empty(t, all.Reason)

	featured, err := cat.Packages.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured.Items, 1)
	assert.Equal(t, "Goa", featured.Items[0].Title)
}

func TestPackages_FailureWithoutFallback(t *testing.T) {
	b := apitest.New(t)
	b.Fail(http.MethodGet, "/packages/featured", http.StatusInternalServerError, `{"error":"db down"}`)
	cat := catalog.New(apiclient.New(b.URL(), nil))

	_, err := cat.Packages.Featured(context.Background())
	require.Error(t, err)
	assert.Equal(t, "db down", err.Error())
}

func TestPackages_FallbackIsFlagged(t *testing.T) {
	b := apitest.New(t)
	b.Fail(http.MethodGet, "/packages", http.StatusInternalServerError, `{"error":"db down"}`)
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	served := metrics.FallbackServedTotal.WithLabelValues(catalog.ResourcePackages)
	before := testutil.ToFloat64(served)

	got, err := cat.Packages.All(context.Background(), domain.PackageListParams{Limit: 10})
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, "db down", got.Reason)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Goa Beach Paradise", got.Items[0].Title)
	assert.Equal(t, float64(1), testutil.ToFloat64(served)-before)

	// Callers get a copy of the samples.
	got.Items[0].Title = "changed"
	again, err := cat.Packages.All(context.Background(), domain.PackageListParams{})
	require.NoError(t, err)
	assert.Equal(t, "Goa Beach Paradise", again.Items[0].Title)
}

func TestPackages_FeaturedFallback(t *testing.T) {
	b := apitest.New(t)
	b.Close()
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	got, err := cat.Packages.Featured(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, apiclient.MsgNetworkError, got.Reason)
	for _, p := range got.Items {
		assert.True(t, p.IsFeatured, p.Title)
	}
	assert.Len(t, got.Items, 2)
}

func TestPackages_ByCategoryFallback(t *testing.T) {
	b := apitest.New(t)
	b.Close()
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	got, err := cat.Packages.ByCategory(context.Background(), "sample-cat-3", domain.PageParams{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Himalayan Adventure Trek", got.Items[0].Title)
}

func TestCategories_Fallback(t *testing.T) {
	b := apitest.New(t)
	b.Fail(http.MethodGet, "/categories", http.StatusServiceUnavailable, `{"error":"maintenance"}`)
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	got, err := cat.Categories.All(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Len(t, got.Items, 5)
}

func TestBookings_MineNeverFallsBack(t *testing.T) {
	b := apitest.New(t)
	b.Close()
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	_, err := cat.Bookings.Mine(context.Background())
	require.Error(t, err)
	assert.Equal(t, apiclient.MsgNetworkError, err.Error())
}

func TestBookings_QuoteAndBook(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	user := b.SeedUser("ana@example.com", "secret1", false)
	pkg := b.SeedPackage(domain.Package{Title: "Goa", Price: 25000, MaxPeople: 2})
	c := apiclient.New(b.URL(), nil)
	c.SetToken(ctx, b.IssueToken(user.ID, false, time.Hour))
	cat := catalog.New(c)

	total, err := cat.Bookings.Quote(ctx, pkg.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 50000, total)

	_, err = cat.Bookings.Quote(ctx, pkg.ID, 3)
	assert.ErrorIs(t, err, domain.ErrTooManyTravelers)

	_, err = cat.Bookings.Quote(ctx, "missing", 1)
	require.Error(t, err)
	assert.Equal(t, "Package not found", err.Error())

	receipt, err := cat.Bookings.Book(ctx, domain.BookingInput{PackageID: pkg.ID, BookingDate: "2026-11-20", NumberOfPeople: 2})
	require.NoError(t, err)
	assert.EqualValues(t, total, receipt.TotalAmount)

	mine, err := cat.Bookings.Mine(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)

	_, err = cat.Bookings.Cancel(ctx, receipt.BookingID)
	require.NoError(t, err)
	got, err := cat.Bookings.ByID(ctx, receipt.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
}

func TestDashboard_LiveStats(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := adminClient(t, b)
	customer := b.SeedUser("ana@example.com", "secret1", false)
	pkg := b.SeedPackage(domain.Package{Title: "Goa", Price: 1000})

	customerClient := apiclient.New(b.URL(), nil)
	customerClient.SetToken(ctx, b.IssueToken(customer.ID, false, time.Hour))
	cust := catalog.New(customerClient)
	first, err := cust.Bookings.Book(ctx, domain.BookingInput{PackageID: pkg.ID, BookingDate: "2026-11-20", NumberOfPeople: 2})
	require.NoError(t, err)
	_, err = cust.Bookings.Book(ctx, domain.BookingInput{PackageID: pkg.ID, BookingDate: "2026-11-21", NumberOfPeople: 3})
	require.NoError(t, err)

	cat := catalog.New(c)
	_, err = cat.Bookings.SetStatus(ctx, first.BookingID, domain.BookingCancelled)
	require.NoError(t, err)

	st, err := cat.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.TotalUsers)
	assert.EqualValues(t, 1, st.TotalPackages)
	assert.EqualValues(t, 2, st.TotalBookings)
	assert.EqualValues(t, 3000, st.TotalRevenue)
	assert.Len(t, st.RecentBookings, 2)
	assert.False(t, st.Degraded)
	for _, bk := range st.RecentBookings {
		assert.Equal(t, "ana@example.com", bk.UserEmail)
	}
}

func TestDashboard_DegradedStats(t *testing.T) {
	b := apitest.New(t)
	b.Close()
	cat := catalog.New(apiclient.New(b.URL(), nil), catalog.WithFallback(true))

	st, err := cat.Dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Degraded)
	assert.EqualValues(t, 4, st.TotalUsers)
	assert.EqualValues(t, 3, st.TotalPackages)
	assert.EqualValues(t, 3, st.TotalBookings)
	assert.EqualValues(t, 204000, st.TotalRevenue)
	require.Len(t, st.RecentBookings, 3)
	assert.Equal(t, "sample-booking-1", st.RecentBookings[0].ID)
}

func TestDashboard_FailsWithoutFallback(t *testing.T) {
	b := apitest.New(t)
	b.Close()
	cat := catalog.New(apiclient.New(b.URL(), nil))

	_, err := cat.Dashboard.Stats(context.Background())
	require.Error(t, err)
}

func TestAdminMutations(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	cat := catalog.New(adminClient(t, b))

	ack, err := cat.Categories.Create(ctx, domain.CategoryInput{Name: "Beach"})
	require.NoError(t, err)
	require.NotEmpty(t, ack.CategoryID)

	_, err = cat.Categories.Update(ctx, ack.CategoryID, domain.CategoryInput{Name: "Beach Holidays"})
	require.NoError(t, err)
	cats, err := cat.Categories.All(ctx)
	require.NoError(t, err)
	require.Len(t, cats.Items, 1)
	assert.Equal(t, "Beach Holidays", cats.Items[0].Name)

	in := domain.PackageInput{
		Title: "Goa", Description: "Sun and sand for five days", Price: 100,
		DurationDays: 5, MaxPeople: 4, CategoryID: ack.CategoryID,
	}
	pkgAck, err := cat.Packages.Create(ctx, in)
	require.NoError(t, err)
	in.Title = "Goa Deluxe"
	_, err = cat.Packages.Update(ctx, pkgAck.PackageID, in)
	require.NoError(t, err)
	pkg, err := cat.Packages.ByID(ctx, pkgAck.PackageID)
	require.NoError(t, err)
	assert.Equal(t, "Goa Deluxe", pkg.Title)

	_, err = cat.Packages.Delete(ctx, pkgAck.PackageID)
	require.NoError(t, err)
	_, err = cat.Categories.Delete(ctx, ack.CategoryID)
	require.NoError(t, err)

	post, err := cat.Blog.Create(ctx, domain.BlogPostInput{Title: "Top beaches", Content: "..."})
	require.NoError(t, err)
	got, err := cat.Blog.ByID(ctx, post.PostID)
	require.NoError(t, err)
	assert.Equal(t, "top-beaches", got.Slug)
	_, err = cat.Blog.Update(ctx, post.PostID, domain.BlogPostInput{Title: "Best beaches", Content: "...", Status: "published"})
	require.NoError(t, err)
	posts, err := cat.Blog.All(ctx, domain.BlogListParams{Status: "published"})
	require.NoError(t, err)
	assert.Len(t, posts.Items, 1)
	_, err = cat.Blog.Delete(ctx, post.PostID)
	require.NoError(t, err)

	users, err := cat.Users.All(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users.Total)
}
