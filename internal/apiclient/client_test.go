package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/apitest"
	"github.com/wanderlust/travel-portal/internal/core/domain"
	"github.com/wanderlust/travel-portal/internal/metrics"
)

// assertFailed checks the failure half of the Response contract.
func assertFailed[T any](t *testing.T, r apiclient.Response[T], wantErr string, wantStatus int) {
	t.Helper()
	if r.Data != nil {
		t.Fatalf("expected nil Data on failure, got %+v", *r.Data)
	}
	if r.Error != wantErr {
		t.Fatalf("expected error %q, got %q", wantErr, r.Error)
	}
	if r.StatusCode != wantStatus {
		t.Fatalf("expected status %d, got %d", wantStatus, r.StatusCode)
	}
	if r.OK() || r.Err() == nil {
		t.Fatal("expected failed response to report !OK and a non-nil Err")
	}
}

func assertOK[T any](t *testing.T, r apiclient.Response[T]) T {
	t.Helper()
	if r.Error != "" {
		t.Fatalf("unexpected error %q (status %d)", r.Error, r.StatusCode)
	}
	if r.Data == nil {
		t.Fatal("expected Data on success")
	}
	return *r.Data
}

func TestClient_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := apiclient.New("http://localhost:8080/api", nil)

	if got := c.Token(); got != "" {
		t.Fatalf("expected no token on a fresh client, got %q", got)
	}
	c.SetToken(ctx, "abc")
	if got := c.Token(); got != "abc" {
		t.Fatalf("expected %q, got %q", "abc", got)
	}
	c.SetToken(ctx, "")
	if got := c.Token(); got != "" {
		t.Fatalf("expected cleared token, got %q", got)
	}
}

func TestClient_BaseURLTrimsSlash(t *testing.T) {
	c := apiclient.New("http://localhost:8080/api/", nil)
	if got := c.BaseURL(); got != "http://localhost:8080/api" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestClient_AuthorizationHeader(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)

	c.SetToken(ctx, "tok-1")
	assertOK(t, c.GetCategories(ctx))

	last, ok := b.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Authorization != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", last.Authorization)
	}
	if last.ContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", last.ContentType)
	}

	c.SetToken(ctx, "")
	assertOK(t, c.GetCategories(ctx))
	last, _ = b.LastRequest()
	if last.Authorization != "" {
		t.Fatalf("expected no Authorization header after clearing, got %q", last.Authorization)
	}
}

func TestClient_SuccessCarriesData(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	b.SeedCategory(domain.Category{Name: "Beach"})
	b.SeedCategory(domain.Category{Name: "Adventure"})
	c := apiclient.New(b.URL(), nil)

	res := c.GetCategories(ctx)
	cats := assertOK(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if len(cats) != 2 || cats[0].Name != "Adventure" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestClient_FeaturedServerError(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	b.Fail(http.MethodGet, "/packages/featured", http.StatusInternalServerError, `{"error":"db down"}`)
	c := apiclient.New(b.URL(), nil)

	assertFailed(t, c.GetPackages(ctx, domain.PackageListParams{Featured: true}), "db down", http.StatusInternalServerError)
	assertFailed(t, c.GetFeaturedPackages(ctx), "db down", http.StatusInternalServerError)

	err := c.GetFeaturedPackages(ctx).Err()
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.Error() != "db down" || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected Err(): %#v", err)
	}
}

func TestClient_FailureShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantStatus int
	}{
		{"error field", http.StatusNotFound, `{"error":"Package not found"}`, "Package not found", http.StatusNotFound},
		{"json without error field", http.StatusBadRequest, `{"detail":"nope"}`, apiclient.MsgGenericError, http.StatusBadRequest},
		{"empty error field", http.StatusConflict, `{"error":""}`, apiclient.MsgGenericError, http.StatusConflict},
		{"non-json failure", http.StatusBadGateway, `<html>bad gateway</html>`, apiclient.MsgNetworkError, http.StatusBadGateway},
		{"invalid json success", http.StatusOK, `not json`, apiclient.MsgNetworkError, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := apitest.New(t)
			b.Fail(http.MethodGet, "/packages/:id", tt.status, tt.body)
			c := apiclient.New(b.URL(), nil)

			assertFailed(t, c.GetPackageByID(ctx, "p-1"), tt.wantErr, tt.wantStatus)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)
	b.Close()

	assertFailed(t, c.GetCategories(ctx), apiclient.MsgNetworkError, 0)
}

func TestClient_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, nil)
	assertFailed(t, c.DeletePackage(context.Background(), "p-1"), apiclient.MsgNetworkError, http.StatusNoContent)
}

func TestClient_ExtraHeaders(t *testing.T) {
	seen := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, nil,
		apiclient.WithHeader("User-Agent", "travelctl"),
		apiclient.WithHeader("Content-Type", "text/plain"),
		apiclient.WithHeader("Authorization", "Basic Zm9vOmJhcg=="),
	)
	assertOK(t, c.GetCategories(context.Background()))
	got := <-seen

	if ua := got.Get("User-Agent"); ua != "travelctl" {
		t.Fatalf("expected User-Agent travelctl, got %q", ua)
	}
	if ct := got.Values("Content-Type"); len(ct) != 1 || ct[0] != "application/json" {
		t.Fatalf("expected only application/json content type, got %v", ct)
	}
	if auth := got.Get("Authorization"); auth != "" {
		t.Fatalf("expected no Authorization without a token, got %q", auth)
	}
}

func TestClient_ContextDeadline(t *testing.T) {
	b := apitest.New(t)
	b.Delay(http.MethodGet, "/categories", time.Second)
	c := apiclient.New(b.URL(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assertFailed(t, c.GetCategories(ctx), apiclient.MsgNetworkError, 0)
}

func TestClient_LoginAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	seeded := b.SeedUser("ana@example.com", "secret1", false)
	c := apiclient.New(b.URL(), nil)

	res := c.Login(ctx, "ana@example.com", "secret1")
	auth := assertOK(t, res)
	if auth.Token == "" || auth.User.ID != seeded.ID {
		t.Fatalf("unexpected auth result: %+v", auth)
	}

	// Login does not install the token by itself.
	if c.Token() != "" {
		t.Fatal("expected client token to stay empty after Login")
	}
	assertFailed(t, c.CurrentUser(ctx), "Missing authorization header", http.StatusUnauthorized)

	c.SetToken(ctx, auth.Token)
	me := assertOK(t, c.CurrentUser(ctx))
	if me.Email != "ana@example.com" {
		t.Fatalf("unexpected user %+v", me)
	}

	refreshed := assertOK(t, c.RefreshToken(ctx))
	if refreshed.Token == "" {
		t.Fatal("expected a refreshed token")
	}
}

func TestClient_LoginRejected(t *testing.T) {
	b := apitest.New(t)
	b.SeedUser("ana@example.com", "secret1", false)
	c := apiclient.New(b.URL(), nil)

	assertFailed(t, c.Login(context.Background(), "ana@example.com", "wrong"), "Invalid credentials", http.StatusUnauthorized)
}

func TestClient_RegisterValidatesLocally(t *testing.T) {
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)

	res := c.Register(context.Background(), domain.RegisterInput{
		Email:     "not-an-email",
		Password:  "123",
		FirstName: "Ana",
		LastName:  "Diaz",
	})
	if res.Data != nil || res.StatusCode != 0 {
		t.Fatalf("expected a local failure, got %+v", res)
	}
	if !strings.Contains(res.Error, "email must be a valid email") {
		t.Fatalf("expected email message, got %q", res.Error)
	}
	if !strings.Contains(res.Error, "password must be at least 6 characters") {
		t.Fatalf("expected password message, got %q", res.Error)
	}
	if n := len(b.Requests()); n != 0 {
		t.Fatalf("expected no request to reach the backend, got %d", n)
	}
}

func TestClient_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)
	in := domain.RegisterInput{Email: "ana@example.com", Password: "secret1", FirstName: "Ana", LastName: "Diaz"}

	first := assertOK(t, c.Register(ctx, in))
	if first.Token == "" {
		t.Fatal("expected token on register")
	}
	assertFailed(t, c.Register(ctx, in), "User already exists", http.StatusConflict)
}

func TestClient_PackageQuery(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)

	tests := []struct {
		name      string
		params    domain.PackageListParams
		wantPath  string
		wantQuery string
	}{
		{"no paging", domain.PackageListParams{}, "/api/packages", ""},
		{"limit and offset", domain.PackageListParams{Limit: 10, Offset: 20}, "/api/packages", "limit=10&offset=20"},
		{"featured ignores paging", domain.PackageListParams{Featured: true, Limit: 5}, "/api/packages/featured", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertOK(t, c.GetPackages(ctx, tt.params))
			last, _ := b.LastRequest()
			if last.Path != tt.wantPath || last.RawQuery != tt.wantQuery {
				t.Fatalf("expected %s?%s, got %s?%s", tt.wantPath, tt.wantQuery, last.Path, last.RawQuery)
			}
		})
	}
}

func TestClient_GetPackagesPage(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	for i := 0; i < 3; i++ {
		b.SeedPackage(domain.Package{Title: "Trip", Price: 100, IsFeatured: i == 0})
	}
	c := apiclient.New(b.URL(), nil)

	page := assertOK(t, c.GetPackages(ctx, domain.PackageListParams{Limit: 2}))
	if len(page.Packages) != 2 || page.Total != 3 {
		t.Fatalf("unexpected page: %d packages, total %d", len(page.Packages), page.Total)
	}

	featured := assertOK(t, c.GetPackages(ctx, domain.PackageListParams{Featured: true}))
	if len(featured.Packages) != 1 || featured.Total != 1 {
		t.Fatalf("unexpected featured page: %+v", featured)
	}
}

func TestClient_BookingFlow(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	u := b.SeedUser("ana@example.com", "secret1", false)
	p := b.SeedPackage(domain.Package{Title: "Goa", Price: 25000, MaxPeople: 4})
	c := apiclient.New(b.URL(), nil)
	c.SetToken(ctx, b.IssueToken(u.ID, false, time.Hour))

	receipt := assertOK(t, c.CreateBooking(ctx, domain.BookingInput{
		PackageID:      p.ID,
		BookingDate:    "2026-12-01",
		NumberOfPeople: 3,
	}))
	if receipt.TotalAmount != 75000 || receipt.BookingID == "" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	mine := assertOK(t, c.GetUserBookings(ctx))
	if len(mine) != 1 || mine[0].Status != domain.BookingPending {
		t.Fatalf("unexpected bookings: %+v", mine)
	}

	cancelled := c.CancelBooking(ctx, receipt.BookingID)
	assertOK(t, cancelled)
	if cancelled.Message != "Booking cancelled successfully" {
		t.Fatalf("unexpected message %q", cancelled.Message)
	}

	got := assertOK(t, c.GetBookingByID(ctx, receipt.BookingID))
	if got.Status != domain.BookingCancelled {
		t.Fatalf("expected cancelled booking, got %s", got.Status)
	}
}

func TestClient_BookingValidation(t *testing.T) {
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)

	res := c.CreateBooking(context.Background(), domain.BookingInput{
		PackageID:      "p-1",
		BookingDate:    "01/12/2026",
		NumberOfPeople: 0,
	})
	if res.OK() {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(res.Error, "number_of_people must be at least 1") {
		t.Fatalf("unexpected message %q", res.Error)
	}
	if len(b.Requests()) != 0 {
		t.Fatal("expected nothing sent")
	}
}

func TestClient_AdminRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	user := b.SeedUser("ana@example.com", "secret1", false)
	admin := b.SeedUser("root@example.com", "secret1", true)
	c := apiclient.New(b.URL(), nil)

	c.SetToken(ctx, b.IssueToken(user.ID, false, time.Hour))
	assertFailed(t, c.GetAllUsers(ctx), "Admin access required", http.StatusForbidden)

	c.SetToken(ctx, b.IssueToken(admin.ID, true, time.Hour))
	users := assertOK(t, c.GetAllUsers(ctx))
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestClient_AdminCatalogMutations(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	admin := b.SeedUser("root@example.com", "secret1", true)
	c := apiclient.New(b.URL(), nil)
	c.SetToken(ctx, b.IssueToken(admin.ID, true, time.Hour))

	cat := assertOK(t, c.CreateCategory(ctx, domain.CategoryInput{Name: "Beach"}))
	if cat.CategoryID == "" {
		t.Fatal("expected category id")
	}

	featured := true
	created := assertOK(t, c.CreatePackage(ctx, domain.PackageInput{
		Title:        "Goa Beach Paradise",
		Description:  "Five days of sun and sand",
		Price:        25000,
		DurationDays: 5,
		MaxPeople:    4,
		CategoryID:   cat.CategoryID,
		IsFeatured:   &featured,
	}))
	if created.PackageID == "" {
		t.Fatal("expected package id")
	}

	byCat := assertOK(t, c.GetPackagesByCategory(ctx, cat.CategoryID, domain.PageParams{}))
	if len(byCat) != 1 || byCat[0].Title != "Goa Beach Paradise" {
		t.Fatalf("unexpected packages by category: %+v", byCat)
	}

	assertOK(t, c.DeletePackage(ctx, created.PackageID))
	assertFailed(t, c.GetPackageByID(ctx, created.PackageID), "Package not found", http.StatusNotFound)
}

func TestClient_BlogStatusFilter(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	admin := b.SeedUser("root@example.com", "secret1", true)
	b.SeedPost(domain.BlogPost{Title: "Draft", Content: "x", Status: "draft"})
	b.SeedPost(domain.BlogPost{Title: "Live", Content: "y", Status: "published"})
	c := apiclient.New(b.URL(), nil)
	c.SetToken(ctx, b.IssueToken(admin.ID, true, time.Hour))

	posts := assertOK(t, c.GetBlogPosts(ctx, domain.BlogListParams{Status: "published"}))
	if len(posts) != 1 || posts[0].Title != "Live" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	last, _ := b.LastRequest()
	if last.RawQuery != "status=published" {
		t.Fatalf("unexpected query %q", last.RawQuery)
	}
}

func TestClient_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	b := apitest.New(t)
	c := apiclient.New(b.URL(), nil)

	ok := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/categories", metrics.OutcomeOK)
	failed := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/packages/featured", metrics.OutcomeHTTPError)
	invalid := metrics.RequestsTotal.WithLabelValues(http.MethodPost, "/auth/register", metrics.OutcomeInvalidInput)
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)
	beforeInvalid := testutil.ToFloat64(invalid)
	requestsBefore := len(b.Requests())

	assertOK(t, c.GetCategories(ctx))
	b.Fail(http.MethodGet, "/packages/featured", http.StatusInternalServerError, `{"error":"db down"}`)
	c.GetFeaturedPackages(ctx)
	c.Register(ctx, domain.RegisterInput{Email: "not-an-email"})

	if got := testutil.ToFloat64(ok) - beforeOK; got != 1 {
		t.Fatalf("expected 1 ok call recorded, got %v", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 1 {
		t.Fatalf("expected 1 http_error call recorded, got %v", got)
	}
	if got := testutil.ToFloat64(invalid) - beforeInvalid; got != 1 {
		t.Fatalf("expected 1 invalid_input call recorded, got %v", got)
	}
	if got := len(b.Requests()) - requestsBefore; got != 2 {
		t.Fatalf("expected the invalid register to stay local, backend saw %d calls", got)
	}
}
