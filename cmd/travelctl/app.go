package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/catalog"
	"github.com/wanderlust/travel-portal/internal/core/ports"
	"github.com/wanderlust/travel-portal/internal/infrastructure/health"
	"github.com/wanderlust/travel-portal/internal/infrastructure/store"
	"github.com/wanderlust/travel-portal/internal/pkg/config"
	"github.com/wanderlust/travel-portal/internal/session"
	"github.com/wanderlust/travel-portal/pkg/logger"
)

const serviceName = "travelctl"

// errUsage marks errors caused by bad arguments; flag has already printed
// the details.
var errUsage = errors.New("usage error")

// app carries the wired dependencies of one invocation.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   ports.KeyValueStore
	client  *apiclient.Client
	session *session.Session
	catalog *catalog.Catalog
	health  *health.Checker
	stdout  io.Writer
	stderr  io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"login":      {"sign in: login -email E -password P", cmdLogin},
		"register":   {"create an account and sign in", cmdRegister},
		"logout":     {"sign out and forget the stored token", cmdLogout},
		"whoami":     {"show the signed-in user", cmdWhoami},
		"refresh":    {"re-read the user and rotate the token", cmdRefresh},
		"packages":   {"list packages: packages [-limit N] [-offset N] [-featured]", cmdPackages},
		"package":    {"show one package: package ID", cmdPackage},
		"quote":      {"price a trip: quote ID -travelers N", cmdQuote},
		"categories": {"list categories", cmdCategories},
		"book":       {"book a package: book -package ID -date YYYY-MM-DD -people N", cmdBook},
		"bookings":   {"list your bookings", cmdBookings},
		"booking":    {"show one of your bookings: booking ID", cmdBooking},
		"cancel":     {"cancel one of your bookings: cancel ID", cmdCancel},
		"blog":       {"list blog posts or show one: blog [ID] [-status S]", cmdBlog},
		"admin":      {"admin tasks: admin SUBCOMMAND (run 'admin' for the list)", cmdAdmin},
		"status":     {"check backend and storage health", cmdStatus},
	}
}

// run is main without the process globals so tests can drive it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, env envconfig.Lookuper) int {
	cmds := commands()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr, cmds)
		return 2
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr, cmds)
		return 2
	}

	a, closeFn, err := setup(ctx, stdout, stderr, env)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closeFn()

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func setup(ctx context.Context, stdout, stderr io.Writer, env envconfig.Lookuper) (*app, func(), error) {
	cfg, err := config.LoadFrom(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Output:  stderr,
		Service: serviceName,
	})
	log := logger.Component("cli")

	kv, closer, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}

	creds := apiclient.NewCredentials(ctx, kv, logger.Component("credentials"))
	client := apiclient.New(cfg.APIURL, creds,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithHeader("User-Agent", "travelctl"),
		apiclient.WithLogger(logger.Component("apiclient")),
	)
	sess := session.New(client, creds, kv, logger.Component("session"))
	sess.Restore(ctx)

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   kv,
		client:  client,
		session: sess,
		catalog: catalog.New(client,
			catalog.WithFallback(cfg.OfflineFallback),
			catalog.WithLogger(logger.Component("catalog")),
		),
		health: health.NewChecker(client, kv),
		stdout: stdout,
		stderr: stderr,
	}

	closeFn := func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("close state store")
		}
	}
	return a, closeFn, nil
}

func usage(w io.Writer, cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: travelctl COMMAND [flags] [args]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-11s %s\n", name, cmds[name].summary)
	}
}

// flags returns a FlagSet that reports errors instead of exiting.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse accepts a leading positional id as well as flags followed by the id.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if id == "" {
		id = fs.Arg(0)
	}
	return id, nil
}

func requireID(fs *flag.FlagSet, args []string) (string, error) {
	id, err := parse(fs, args)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%s: missing ID", fs.Name())
	}
	return id, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnDegraded tells the user that a listing is sample data.
func (a *app) warnDegraded(degraded bool, reason string) {
	if degraded {
		fmt.Fprintf(a.stderr, "warning: backend unavailable (%s), showing offline sample data\n", reason)
	}
}

// readJSON decodes the file at path into v; "-" reads stdin.
func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("missing -f input file")
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
