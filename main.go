package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"frecfind/internal/config"
	"frecfind/internal/domain"
	"frecfind/internal/engine"
	"frecfind/internal/eventbus"
	"frecfind/internal/open"
	"frecfind/internal/pathfilter"
	"frecfind/internal/picker"
	"frecfind/internal/policy"
	"frecfind/internal/track"
	"frecfind/internal/watch"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	setupLogging()

	// Subcommands first; everything else is the interactive search.
	if len(args) > 0 {
		switch args[0] {
		case "track":
			return runTrack(args[1:])
		case "watch":
			return runWatch(args[1:])
		case "doctor":
			return runDoctor(args[1:])
		}
	}

	return runSearch(args)
}

// runSearch runs the interactive file or directory search.
func runSearch(args []string) int {
	fs := flag.NewFlagSet("frecfind", flag.ExitOnError)
	dirs := fs.Bool("dirs", false, "Search directories instead of files")
	configPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	app, err := newApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind: %v\n", err)
		return 1
	}
	defer app.bus.Close()

	category := domain.CategoryFiles
	if *dirs {
		category = domain.CategoryDirs
	}

	warning := ""
	if !app.client.Installed() {
		warning = fmt.Sprintf("engine %q not found in PATH; searches will return nothing", app.cfg.Engine)
		fmt.Fprintf(os.Stderr, "frecfind: %s\n", warning)
		log.Printf("Engine missing: %s", warning)
	}

	model := picker.New(category, app.client, warning)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind: %v\n", err)
		return 1
	}

	choice := final.(picker.Model).Choice()
	if choice == nil {
		return 0
	}

	if category == domain.CategoryDirs {
		return app.pickWithinDir(choice.Resolved)
	}

	return app.openFile(choice.Resolved)
}

// runTrack records one usage event, hook-style, then exits. Failures are
// swallowed: recording is best-effort telemetry and a hook must never
// break its host.
func runTrack(args []string) int {
	fs := flag.NewFlagSet("frecfind track", flag.ExitOnError)
	kind := fs.String("kind", "", "Event kind: open, manual-save, auto-save, active-focus, directory-visit")
	path := fs.String("path", "", "Absolute path the event refers to")
	scheme := fs.String("scheme", domain.SchemeFile, "Origin scheme of the path")
	configPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *kind == "" || *path == "" {
		fmt.Fprintln(os.Stderr, "frecfind track: -kind and -path are required")
		return 2
	}
	// Only real files are trackable; anything else is a silent no-op so
	// editor hooks can fire unconditionally.
	if *scheme != domain.SchemeFile {
		return 0
	}

	app, err := newApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind track: %v\n", err)
		return 1
	}
	defer app.bus.Close()

	weight, err := app.table.WeightFor(domain.EventKind(*kind))
	if err != nil {
		log.Printf("Dropping usage event: %v", err)
		return 0
	}

	category := domain.CategoryFiles
	if domain.EventKind(*kind) == domain.KindDirVisit {
		category = domain.CategoryDirs
	}

	app.client.RecordUsage(context.Background(), *path, weight, category)
	return 0
}

// runWatch runs the filesystem event source until interrupted.
func runWatch(args []string) int {
	fs := flag.NewFlagSet("frecfind watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	roots := fs.Args()
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "frecfind watch: %v\n", err)
			return 1
		}
		roots = []string{cwd}
	}

	app, err := newApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind watch: %v\n", err)
		return 1
	}
	defer app.bus.Close()

	if !app.client.Installed() {
		fmt.Fprintf(os.Stderr, "frecfind watch: engine %q not found in PATH; updates will be dropped\n", app.cfg.Engine)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	tracker := track.New(app.bus, app.table, app.client, app.debounce())
	defer tracker.Close()

	watcher, err := watch.New(app.bus, app.debounce())
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind watch: %v\n", err)
		return 1
	}

	if err := watcher.Run(ctx, roots); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "frecfind watch: %v\n", err)
		return 1
	}
	return 0
}

// runDoctor reports the installation preconditions.
func runDoctor(args []string) int {
	fs := flag.NewFlagSet("frecfind doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	app, err := newApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind doctor: %v\n", err)
		return 1
	}
	defer app.bus.Close()

	fmt.Printf("config: %s\n", app.svc.Path())
	if app.client.Installed() {
		fmt.Printf("engine: %s (found)\n", app.cfg.Engine)
		return 0
	}
	fmt.Printf("engine: %s (NOT FOUND in PATH)\n", app.cfg.Engine)
	return 1
}

// app bundles the per-process immutable wiring.
type app struct {
	cfg    *config.Config
	svc    config.Service
	bus    eventbus.EventBus
	table  *policy.Table
	client *engine.Client
	opener *open.Opener
}

// newApp loads the configuration snapshot and builds every component from
// it; nothing reads configuration ad hoc after this point.
func newApp(configPath string) (*app, error) {
	var svc config.Service
	if configPath != "" {
		svc = config.NewServiceAt(configPath)
	} else {
		svc = config.NewService()
	}

	cfg, err := svc.Load()
	if err != nil {
		return nil, err
	}

	table, err := policy.NewTable(cfg.Weights)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	bus.Publish(eventbus.ConfigLoadedEvent{Path: svc.Path()})

	filter := pathfilter.New(cfg.Exclude)
	client, err := engine.New(cfg.Engine, engine.Options{
		ResultCap: cfg.ResultCap,
		Syntax:    cfg.Syntax,
		Case:      cfg.Case,
		HomeTilde: cfg.HomeTilde,
		Relative:  cfg.Relative,
	}, filter, bus)
	if err != nil {
		bus.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		svc:    svc,
		bus:    bus,
		table:  table,
		client: client,
		opener: open.New(cfg.EditorCommand, cfg.Preview),
	}, nil
}

func (a *app) debounce() time.Duration {
	ms := a.cfg.DebounceMs
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}

// openFile records the selection as an open and hands the file to the
// opener. An open failure is the one error the user actually sees.
func (a *app) openFile(path string) int {
	if weight, err := a.table.WeightFor(domain.KindOpen); err == nil {
		a.client.RecordUsage(context.Background(), path, weight, domain.CategoryFiles)
	}

	if err := a.opener.OpenFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "frecfind: %v\n", err)
		return 1
	}
	return 0
}

// pickWithinDir runs the one-shot nested listing pick inside a selected
// directory, then opens the chosen file.
func (a *app) pickWithinDir(dir string) int {
	if weight, err := a.table.WeightFor(domain.KindDirVisit); err == nil {
		a.client.RecordUsage(context.Background(), dir, weight, domain.CategoryDirs)
	}

	items, err := picker.ListDir(dir, a.cfg.ListingExclude, a.cfg.ListingCap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind: %v\n", err)
		return 1
	}

	model := picker.NewStatic(filepath.Base(dir), items)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "frecfind: %v\n", err)
		return 1
	}

	choice := final.(picker.StaticModel).Choice()
	if choice == nil {
		return 0
	}
	return a.openFile(choice.Resolved)
}

// setupLogging sends the stdlib logger to a per-user log file. Diagnostics
// live there; stderr stays quiet unless something is user-actionable.
func setupLogging() {
	dir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	logDir := filepath.Join(dir, "frecfind")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "frecfind.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return
	}
	log.SetOutput(logFile)
}
