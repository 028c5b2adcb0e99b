package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

func adminCommands() map[string]command {
	return map[string]command{
		"users":           {"list all users", adminUsers},
		"bookings":        {"list all bookings", adminBookings},
		"stats":           {"dashboard totals and recent bookings", adminStats},
		"status":          {"set a booking status: status ID STATUS", adminBookingStatus},
		"package-create":  {"create a package: package-create -f FILE", adminPackageCreate},
		"package-update":  {"update a package: package-update ID -f FILE", adminPackageUpdate},
		"package-delete":  {"delete a package: package-delete ID", adminPackageDelete},
		"category-create": {"create a category: category-create -f FILE", adminCategoryCreate},
		"category-update": {"update a category: category-update ID -f FILE", adminCategoryUpdate},
		"category-delete": {"delete a category: category-delete ID", adminCategoryDelete},
		"blog-create":     {"create a blog post: blog-create -f FILE", adminBlogCreate},
		"blog-update":     {"update a blog post: blog-update ID -f FILE", adminBlogUpdate},
		"blog-delete":     {"delete a blog post: blog-delete ID", adminBlogDelete},
	}
}

func cmdAdmin(ctx context.Context, a *app, args []string) error {
	subs := adminCommands()
	if len(args) == 0 {
		adminUsage(a, subs)
		return errUsage
	}
	sub, ok := subs[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown admin command %q\n", args[0])
		adminUsage(a, subs)
		return errUsage
	}
	if !a.session.IsAdmin() {
		a.log.Debug().Str("command", args[0]).Msg("running admin command without a cached admin user")
	}
	return sub.run(ctx, a, args[1:])
}

func adminUsage(a *app, subs map[string]command) {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.stderr, "usage: travelctl admin SUBCOMMAND [flags] [args]")
	for _, name := range names {
		fmt.Fprintf(a.stderr, "  %-16s %s\n", name, subs[name].summary)
	}
}

func adminUsers(ctx context.Context, a *app, _ []string) error {
	out, err := a.catalog.Users.All(ctx)
	if err != nil {
		return err
	}
	a.warnDegraded(out.Degraded, out.Reason)
	return a.print(out)
}

func adminBookings(ctx context.Context, a *app, _ []string) error {
	out, err := a.catalog.Bookings.All(ctx)
	if err != nil {
		return err
	}
	a.warnDegraded(out.Degraded, out.Reason)
	return a.print(out)
}

func adminStats(ctx context.Context, a *app, _ []string) error {
	st, err := a.catalog.Dashboard.Stats(ctx)
	if err != nil {
		return err
	}
	a.warnDegraded(st.Degraded, "one or more listings failed")
	return a.print(st)
}

func adminBookingStatus(ctx context.Context, a *app, args []string) error {
	fs := a.flags("status")
	id, err := requireID(fs, args)
	if err != nil {
		return err
	}
	status := fs.Arg(0)
	if status == "" {
		return fmt.Errorf("status: missing STATUS")
	}

	ack, err := a.catalog.Bookings.SetStatus(ctx, id, domain.BookingStatus(status))
	if err != nil {
		return err
	}
	return a.print(ack)
}

// withInput parses "-f FILE" plus an optional id and decodes the file into in.
func withInput(a *app, name string, args []string, needID bool, in any) (string, error) {
	fs := a.flags(name)
	path := fs.String("f", "", "JSON input file, - for stdin")
	var (
		id  string
		err error
	)
	if needID {
		id, err = requireID(fs, args)
	} else {
		_, err = parse(fs, args)
	}
	if err != nil {
		return "", err
	}
	return id, readJSON(*path, in)
}

func adminPackageCreate(ctx context.Context, a *app, args []string) error {
	var in domain.PackageInput
	if _, err := withInput(a, "package-create", args, false, &in); err != nil {
		return err
	}
	ack, err := a.catalog.Packages.Create(ctx, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminPackageUpdate(ctx context.Context, a *app, args []string) error {
	var in domain.PackageInput
	id, err := withInput(a, "package-update", args, true, &in)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Packages.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminPackageDelete(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("package-delete"), args)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Packages.Delete(ctx, id)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminCategoryCreate(ctx context.Context, a *app, args []string) error {
	var in domain.CategoryInput
	if _, err := withInput(a, "category-create", args, false, &in); err != nil {
		return err
	}
	ack, err := a.catalog.Categories.Create(ctx, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminCategoryUpdate(ctx context.Context, a *app, args []string) error {
	var in domain.CategoryInput
	id, err := withInput(a, "category-update", args, true, &in)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Categories.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminCategoryDelete(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("category-delete"), args)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminBlogCreate(ctx context.Context, a *app, args []string) error {
	var in domain.BlogPostInput
	if _, err := withInput(a, "blog-create", args, false, &in); err != nil {
		return err
	}
	ack, err := a.catalog.Blog.Create(ctx, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminBlogUpdate(ctx context.Context, a *app, args []string) error {
	var in domain.BlogPostInput
	id, err := withInput(a, "blog-update", args, true, &in)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Blog.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return a.print(ack)
}

func adminBlogDelete(ctx context.Context, a *app, args []string) error {
	id, err := requireID(a.flags("blog-delete"), args)
	if err != nil {
		return err
	}
	ack, err := a.catalog.Blog.Delete(ctx, id)
	if err != nil {
		return err
	}
	return a.print(ack)
}
