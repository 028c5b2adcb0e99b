// Package apitest is an in-memory fake of the travel backend REST contract,
// served over a real HTTP listener. Tests point an apiclient.Client at
// Backend.URL and inspect Backend.Requests.
package apitest

import (
	"bytes"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

const (
	defaultSecret   = "apitest-secret"
	defaultTokenTTL = 24 * time.Hour
	apiPrefix       = "/api"
)

// RecordedRequest is what the backend saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Route         string
	Authorization string
	ContentType   string
	Body          []byte
}

type override struct {
	status int
	body   string
	delay  time.Duration
}

type userRecord struct {
	user         domain.User
	passwordHash string
}

type bookingRecord struct {
	booking domain.Booking
	userID  string
}

// Backend is the fake server. All state is guarded by mu.
type Backend struct {
	server   *httptest.Server
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	users      map[string]*userRecord // by id
	packages   map[string]domain.Package
	categories map[string]domain.Category
	bookings   map[string]*bookingRecord
	posts      map[string]domain.BlogPost
	overrides  map[string]override
	requests   []RecordedRequest
}

// Option configures a Backend.
type Option func(*Backend)

// WithSecret sets the HS256 signing secret.
func WithSecret(secret string) Option {
	return func(b *Backend) { b.secret = secret }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.tokenTTL = ttl }
}

// WithLogger routes unexpected handler errors to l.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// New starts a Backend and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts ...Option) *Backend {
	t.Helper()
	b := &Backend{
		secret:     defaultSecret,
		tokenTTL:   defaultTokenTTL,
		log:        zerolog.Nop(),
		users:      make(map[string]*userRecord),
		packages:   make(map[string]domain.Package),
		categories: make(map[string]domain.Category),
		bookings:   make(map[string]*bookingRecord),
		posts:      make(map[string]domain.BlogPost),
		overrides:  make(map[string]override),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base URL, e.g. http://127.0.0.1:1234/api.
func (b *Backend) URL() string {
	return b.server.URL + apiPrefix
}

// Close stops the listener; further calls fail at the transport level.
func (b *Backend) Close() {
	b.server.Close()
}

// Secret returns the signing secret of issued tokens.
func (b *Backend) Secret() string {
	return b.secret
}

// Fail makes every call to method+route answer with status and the raw body.
// route is the path template relative to /api, e.g. "/packages/:id".
func (b *Backend) Fail(method, route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+apiPrefix+route] = override{status: status, body: body}
}

// Delay holds every call to method+route for d before handling it normally.
func (b *Backend) Delay(method, route string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+apiPrefix+route] = override{delay: d}
}

// Restore removes a Fail or Delay override.
func (b *Backend) Restore(method, route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.overrides, method+" "+apiPrefix+route)
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived.
func (b *Backend) LastRequest() (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}

// SeedCategory stores c, assigning an id when empty.
func (b *Backend) SeedCategory(c domain.Category) domain.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	b.categories[c.ID] = c
	return c
}

// SeedPackage stores p, assigning an id and creation time when empty.
func (b *Backend) SeedPackage(p domain.Package) domain.Package {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	b.packages[p.ID] = p
	return p
}

// SeedPost stores a blog post, assigning an id when empty.
func (b *Backend) SeedPost(p domain.BlogPost) domain.BlogPost {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	b.posts[p.ID] = p
	return p
}

func (b *Backend) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newHTTPErrorHandler(b.log)
	e.Validator = &echoValidator{v: validator.New()}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(b.record)
	e.Use(b.applyOverrides)

	api := e.Group(apiPrefix)

	// --- Auth ---
	authed := requireAuth(b.secret)
	api.POST("/auth/register", b.register)
	api.POST("/auth/login", b.login)
	api.GET("/auth/me", b.me, authed)
	api.POST("/auth/refresh", b.refresh, authed)

	// --- Public catalog ---
	api.GET("/packages", b.listPackages)
	api.GET("/packages/featured", b.featuredPackages)
	api.GET("/packages/:id", b.getPackage)
	api.GET("/packages/category/:category_id", b.packagesByCategory)
	api.GET("/categories", b.listCategories)

	// --- Bookings ---
	bookings := api.Group("/bookings", authed)
	bookings.POST("", b.createBooking)
	bookings.GET("", b.myBookings)
	bookings.GET("/:id", b.getBooking)
	bookings.PUT("/:id/cancel", b.cancelBooking)

	// --- Admin ---
	admin := api.Group("/admin", authed, adminOnly)
	admin.GET("/users", b.listUsers)
	admin.POST("/packages", b.createPackage)
	admin.PUT("/packages/:id", b.updatePackage)
	admin.DELETE("/packages/:id", b.deletePackage)
	admin.POST("/categories", b.createCategory)
	admin.PUT("/categories/:id", b.updateCategory)
	admin.DELETE("/categories/:id", b.deleteCategory)
	admin.GET("/bookings", b.allBookings)
	admin.PUT("/bookings/:id/status", b.updateBookingStatus)
	admin.GET("/blog", b.listPosts)
	admin.GET("/blog/:id", b.getPost)
	admin.POST("/blog", b.createPost)
	admin.PUT("/blog/:id", b.updatePost)
	admin.DELETE("/blog/:id", b.deletePost)

	return e
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			RawQuery:      req.URL.RawQuery,
			Route:         c.Path(),
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			ContentType:   req.Header.Get(echo.HeaderContentType),
			Body:          body,
		})
		b.mu.Unlock()

		return next(c)
	}
}

func (b *Backend) applyOverrides(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		o, ok := b.overrides[c.Request().Method+" "+c.Path()]
		b.mu.Unlock()
		if !ok {
			return next(c)
		}

		if o.delay > 0 {
			select {
			case <-time.After(o.delay):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}
		if o.status == 0 {
			return next(c)
		}
		return c.Blob(o.status, echo.MIMEApplicationJSON, []byte(o.body))
	}
}

func sortedByCreated[T any](items []T, created func(T) time.Time) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
	return items
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}
