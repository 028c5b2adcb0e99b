package main

import (
	"context"
	"fmt"

	"github.com/wanderlust/travel-portal/internal/catalog"
	"github.com/wanderlust/travel-portal/internal/core/domain"
	"github.com/wanderlust/travel-portal/internal/session"
)

// sessionView is what whoami and the auth commands print.
type sessionView struct {
	State   string       `json:"state"`
	User    *domain.User `json:"user,omitempty"`
	IsAdmin bool         `json:"is_admin"`
}

func viewOf(s session.Snapshot) sessionView {
	return sessionView{State: s.State.String(), User: s.User, IsAdmin: s.IsAdmin()}
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login: -email and -password are required")
	}

	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	return a.print(viewOf(a.session.Snapshot()))
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := a.flags("register")
	var in domain.RegisterInput
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "password, at least 6 characters")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	phone := fs.String("phone", "", "phone number (optional)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *phone != "" {
		in.Phone = phone
	}

	if err := a.session.Register(ctx, in); err != nil {
		return err
	}
	return a.print(viewOf(a.session.Snapshot()))
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	a.session.Logout(ctx)
	return a.print(viewOf(a.session.Snapshot()))
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	return a.print(viewOf(a.session.Snapshot()))
}

func cmdRefresh(ctx context.Context, a *app, _ []string) error {
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}
	if err := a.session.RefreshToken(ctx); err != nil {
		return err
	}
	return a.print(viewOf(a.session.Snapshot()))
}

func cmdPackages(ctx context.Context, a *app, args []string) error {
	fs := a.flags("packages")
	var params domain.PackageListParams
	fs.IntVar(&params.Limit, "limit", 0, "page size")
	fs.IntVar(&params.Offset, "offset", 0, "page offset")
	fs.BoolVar(&params.Featured, "featured", false, "only featured packages")
	category := fs.String("category", "", "only packages of this category id")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var (
		out catalog.Listing[domain.Package]
		err error
	)
	if *category != "" {
		out, err = a.catalog.Packages.ByCategory(ctx, *category, domain.PageParams{Limit: params.Limit, Offset: params.Offset})
	} else {
		out, err = a.catalog.Packages.All(ctx, params)
	}
	if err != nil {
		return err
	}
	a.warnDegraded(out.Degraded, out.Reason)
	return a.print(out)
}

func cmdPackage(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("package"), args)
	if err != nil {
		return err
	}
	pkg, err := a.catalog.Packages.ByID(ctx, id)
	if err != nil {
		return err
	}
	return a.print(pkg)
}

func cmdQuote(ctx context.Context, a *app, args []string) error {
	fs := a.flags("quote")
	travelers := fs.Int("travelers", 1, "number of travelers")
	id, err := requireID(fs, args)
	if err != nil {
		return err
	}

	total, err := a.catalog.Bookings.Quote(ctx, id, *travelers)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"package_id": id, "travelers": *travelers, "total_amount": total})
}

func cmdCategories(ctx context.Context, a *app, _ []string) error {
	out, err := a.catalog.Categories.All(ctx)
	if err != nil {
		return err
	}
	a.warnDegraded(out.Degraded, out.Reason)
	return a.print(out)
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := a.flags("book")
	var in domain.BookingInput
	fs.StringVar(&in.PackageID, "package", "", "package id")
	fs.StringVar(&in.BookingDate, "date", "", "travel date, YYYY-MM-DD")
	fs.IntVar(&in.NumberOfPeople, "people", 1, "number of travelers")
	requests := fs.String("requests", "", "special requests (optional)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *requests != "" {
		in.SpecialRequests = requests
	}

	receipt, err := a.catalog.Bookings.Book(ctx, in)
	if err != nil {
		return err
	}
	return a.print(receipt)
}

func cmdBookings(ctx context.Context, a *app, _ []string) error {
	out, err := a.catalog.Bookings.Mine(ctx)
	if err != nil {
		return err
	}
	return a.print(out)
}

func cmdBooking(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("booking"), args)
	if err != nil {
		return err
	}
	bk, err := a.catalog.Bookings.ByID(ctx, id)
	if err != nil {
		return err
	}
	return a.print(bk)
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("cancel"), args)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Bookings.Cancel(ctx, id)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func cmdBlog(ctx context.Context, a *app, args []string) error {
	fs := a.flags("blog")
	var params domain.BlogListParams
	fs.IntVar(&params.Limit, "limit", 0, "page size")
	fs.IntVar(&params.Offset, "offset", 0, "page offset")
	fs.StringVar(&params.Status, "status", "", "only posts with this status")
	id, err := parse(fs, args)
	if err != nil {
		return err
	}

	if id != "" {
		post, err := a.catalog.Blog.ByID(ctx, id)
		if err != nil {
			return err
		}
		return a.print(post)
	}

	out, err := a.catalog.Blog.All(ctx, params)
	if err != nil {
		return err
	}
	a.warnDegraded(out.Degraded, out.Reason)
	return a.print(out)
}

func cmdStatus(ctx context.Context, a *app, _ []string) error {
	report := a.health.Check(ctx)
	if err := a.print(report); err != nil {
		return err
	}
	if !report.Healthy() {
		return fmt.Errorf("status %s", report.Status)
	}
	return nil
}
