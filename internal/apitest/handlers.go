package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func pageOf(c echo.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err = strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (b *Backend) activePackages(keep func(domain.Package) bool) []domain.Package {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Package, 0, len(b.packages))
	for _, p := range b.packages {
		if p.IsActive != nil && !*p.IsActive {
			continue
		}
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return sortedByCreated(out, func(p domain.Package) time.Time { return p.CreatedAt })
}

// --- Public catalog ---

func (b *Backend) listPackages(c echo.Context) error {
	limit, offset := pageOf(c)
	all := b.activePackages(nil)
	return c.JSON(http.StatusOK, domain.PackagePage{
		Packages: window(all, limit, offset),
		Total:    int64(len(all)),
	})
}

func (b *Backend) featuredPackages(c echo.Context) error {
	featured := b.activePackages(func(p domain.Package) bool { return p.IsFeatured })
	return c.JSON(http.StatusOK, window(featured, 6, 0))
}

func (b *Backend) getPackage(c echo.Context) error {
	b.mu.Lock()
	p, ok := b.packages[c.Param("id")]
	b.mu.Unlock()
	if !ok {
		return notFound("Package")
	}
	return c.JSON(http.StatusOK, p)
}

func (b *Backend) packagesByCategory(c echo.Context) error {
	id := c.Param("category_id")
	return c.JSON(http.StatusOK, b.activePackages(func(p domain.Package) bool { return p.CategoryID == id }))
}

func (b *Backend) listCategories(c echo.Context) error {
	b.mu.Lock()
	out := make([]domain.Category, 0, len(b.categories))
	for _, cat := range b.categories {
		if cat.IsActive != nil && !*cat.IsActive {
			continue
		}
		n := int64(0)
		for _, p := range b.packages {
			if p.CategoryID == cat.ID {
				n++
			}
		}
		cat.PackageCount = &n
		out = append(out, cat)
	}
	b.mu.Unlock()

	sortByName(out)
	return c.JSON(http.StatusOK, out)
}

func sortByName(cats []domain.Category) {
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
}

// --- Bookings ---

func (b *Backend) createBooking(c echo.Context) error {
	var in domain.BookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	userID, _ := c.Get(ctxUserID).(string)

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.packages[in.PackageID]
	if !ok || (p.IsActive != nil && !*p.IsActive) {
		return notFound("Package")
	}
	total, err := p.Quote(in.NumberOfPeople)
	if err != nil {
		return badRequest(err.Error())
	}

	bk := domain.Booking{
		ID:              uuid.NewString(),
		PackageID:       p.ID,
		PackageTitle:    p.Title,
		BookingDate:     in.BookingDate,
		NumberOfPeople:  in.NumberOfPeople,
		TotalAmount:     total,
		Status:          domain.BookingPending,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       time.Now().UTC(),
	}
	b.bookings[bk.ID] = &bookingRecord{booking: bk, userID: userID}

	return c.JSON(http.StatusCreated, domain.BookingReceipt{
		Message:     "Booking created successfully",
		BookingID:   bk.ID,
		TotalAmount: total,
	})
}

func (b *Backend) myBookings(c echo.Context) error {
	userID, _ := c.Get(ctxUserID).(string)

	b.mu.Lock()
	out := make([]domain.Booking, 0)
	for _, r := range b.bookings {
		if r.userID == userID {
			out = append(out, r.booking)
		}
	}
	b.mu.Unlock()

	return c.JSON(http.StatusOK, sortedByCreated(out, func(bk domain.Booking) time.Time { return bk.CreatedAt }))
}

func (b *Backend) ownBooking(c echo.Context) (*bookingRecord, error) {
	userID, _ := c.Get(ctxUserID).(string)
	r, ok := b.bookings[c.Param("id")]
	if !ok || r.userID != userID {
		return nil, notFound("Booking")
	}
	return r, nil
}

func (b *Backend) getBooking(c echo.Context) error {
	b.mu.Lock()
	r, err := b.ownBooking(c)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.booking)
}

func (b *Backend) cancelBooking(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.ownBooking(c)
	if err != nil {
		return err
	}
	if r.booking.Status == domain.BookingCancelled || r.booking.Status == domain.BookingCompleted {
		return badRequest("Booking cannot be cancelled")
	}
	r.booking.Status = domain.BookingCancelled
	return message(c, http.StatusOK, "Booking cancelled successfully")
}

// --- Admin ---

func (b *Backend) listUsers(c echo.Context) error {
	b.mu.Lock()
	out := make([]domain.User, 0, len(b.users))
	for _, r := range b.users {
		out = append(out, r.user)
	}
	b.mu.Unlock()
	return c.JSON(http.StatusOK, sortedByCreated(out, func(u domain.User) time.Time { return u.CreatedAt }))
}

func applyPackage(p *domain.Package, in domain.PackageInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.DurationDays = in.DurationDays
	p.MaxPeople = in.MaxPeople
	p.CategoryID = in.CategoryID
	p.ImageURL = in.ImageURL
	p.Highlights = in.Highlights
	p.Inclusions = in.Inclusions
	p.Exclusions = in.Exclusions
	p.Itinerary = in.Itinerary
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
}

func (b *Backend) bindPackage(c echo.Context) (domain.PackageInput, error) {
	var in domain.PackageInput
	if err := c.Bind(&in); err != nil {
		return in, badRequest("Invalid payload")
	}
	return in, c.Validate(&in)
}

func (b *Backend) createPackage(c echo.Context) error {
	in, err := b.bindPackage(c)
	if err != nil {
		return err
	}

	active := true
	p := domain.Package{ID: uuid.NewString(), IsActive: &active, CreatedAt: time.Now().UTC()}
	applyPackage(&p, in)

	b.mu.Lock()
	b.packages[p.ID] = p
	b.mu.Unlock()

	return c.JSON(http.StatusCreated, domain.Ack{Message: "Package created successfully", PackageID: p.ID})
}

func (b *Backend) updatePackage(c echo.Context) error {
	in, err := b.bindPackage(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.packages[c.Param("id")]
	if !ok {
		return notFound("Package")
	}
	applyPackage(&p, in)
	b.packages[p.ID] = p
	return c.JSON(http.StatusOK, domain.Ack{Message: "Package updated successfully"})
}

func (b *Backend) deletePackage(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.packages[c.Param("id")]; !ok {
		return notFound("Package")
	}
	delete(b.packages, c.Param("id"))
	return c.JSON(http.StatusOK, domain.Ack{Message: "Package deleted successfully"})
}

func (b *Backend) createCategory(c echo.Context) error {
	var in domain.CategoryInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	now := time.Now().UTC()
	active := true
	cat := domain.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    &active,
		CreatedAt:   &now,
	}

	b.mu.Lock()
	b.categories[cat.ID] = cat
	b.mu.Unlock()

	return c.JSON(http.StatusCreated, domain.Ack{Message: "Category created successfully", CategoryID: cat.ID})
}

func (b *Backend) updateCategory(c echo.Context) error {
	var in domain.CategoryInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cat, ok := b.categories[c.Param("id")]
	if !ok {
		return notFound("Category")
	}
	cat.Name, cat.Description, cat.Icon = in.Name, in.Description, in.Icon
	b.categories[cat.ID] = cat
	return c.JSON(http.StatusOK, domain.Ack{Message: "Category updated successfully"})
}

func (b *Backend) deleteCategory(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.categories[c.Param("id")]; !ok {
		return notFound("Category")
	}
	delete(b.categories, c.Param("id"))
	return c.JSON(http.StatusOK, domain.Ack{Message: "Category deleted successfully"})
}

func (b *Backend) allBookings(c echo.Context) error {
	b.mu.Lock()
	out := make([]domain.Booking, 0, len(b.bookings))
	for _, r := range b.bookings {
		bk := r.booking
		if u, ok := b.users[r.userID]; ok {
			bk.UserName = u.user.FullName()
			bk.UserEmail = u.user.Email
		}
		out = append(out, bk)
	}
	b.mu.Unlock()
	return c.JSON(http.StatusOK, sortedByCreated(out, func(bk domain.Booking) time.Time { return bk.CreatedAt }))
}

func (b *Backend) updateBookingStatus(c echo.Context) error {
	var in domain.BookingStatusInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.bookings[c.Param("id")]
	if !ok {
		return notFound("Booking")
	}
	r.booking.Status = in.Status
	return message(c, http.StatusOK, "Booking status updated successfully")
}

// --- Blog ---

func slugify(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	return strings.Join(fields, "-")
}

func (b *Backend) listPosts(c echo.Context) error {
	limit, offset := pageOf(c)
	status := c.QueryParam("status")

	b.mu.Lock()
	out := make([]domain.BlogPost, 0, len(b.posts))
	for _, p := range b.posts {
		if status != "" && !strings.EqualFold(p.Status, status) {
			continue
		}
		out = append(out, p)
	}
	b.mu.Unlock()

	out = sortedByCreated(out, func(p domain.BlogPost) time.Time {
		if p.CreatedAt == nil {
			return time.Time{}
		}
		return *p.CreatedAt
	})
	return c.JSON(http.StatusOK, window(out, limit, offset))
}

func (b *Backend) getPost(c echo.Context) error {
	b.mu.Lock()
	p, ok := b.posts[c.Param("id")]
	b.mu.Unlock()
	if !ok {
		return notFound("Blog post")
	}
	return c.JSON(http.StatusOK, p)
}

func (b *Backend) bindPost(c echo.Context) (domain.BlogPostInput, error) {
	var in domain.BlogPostInput
	if err := c.Bind(&in); err != nil {
		return in, badRequest("Invalid payload")
	}
	return in, c.Validate(&in)
}

func (b *Backend) createPost(c echo.Context) error {
	in, err := b.bindPost(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	author := in.AuthorID
	if author == nil {
		id, _ := c.Get(ctxUserID).(string)
		author = &id
	}
	status := in.Status
	if status == "" {
		status = "draft"
	}
	p := domain.BlogPost{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Slug:      slugify(in.Title),
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Thumbnail: in.Thumbnail,
		Status:    status,
		AuthorID:  author,
		Tags:      in.Tags,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	b.mu.Lock()
	b.posts[p.ID] = p
	b.mu.Unlock()

	return c.JSON(http.StatusCreated, domain.Ack{Message: "Blog post created successfully", PostID: p.ID})
}

func (b *Backend) updatePost(c echo.Context) error {
	in, err := b.bindPost(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		return notFound("Blog post")
	}
	now := time.Now().UTC()
	p.Title, p.Slug, p.Content = in.Title, slugify(in.Title), in.Content
	p.Excerpt, p.Thumbnail, p.Tags = in.Excerpt, in.Thumbnail, in.Tags
	if in.Status != "" {
		p.Status = in.Status
	}
	p.UpdatedAt = &now
	b.posts[p.ID] = p
	return c.JSON(http.StatusOK, domain.Ack{Message: "Blog post updated successfully"})
}

func (b *Backend) deletePost(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.posts[c.Param("id")]; !ok {
		return notFound("Blog post")
	}
	delete(b.posts, c.Param("id"))
	return c.JSON(http.StatusOK, domain.Ack{Message: "Blog post deleted successfully"})
}
