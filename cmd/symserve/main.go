// Copyright 2025 The SymServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the symbol completion server and CLI application.

SymServe indexes the symbols of a source tree with per-language line
heuristics and serves ranked completions and symbol lookups. It can operate
as a MessagePack IPC server for editor integration, as an interactive CLI,
or as a one-shot exporter.

# Usage

Index the current directory and serve IPC on stdin/stdout:

	symserve

Index another tree and query it interactively:

	symserve -root ~/src/project -c

Index only some files, by exact name or by a fragment of the name:

	symserve -name main.go,Makefile -c
	symserve -pattern _test -c

Keep the index fresh while serving:

	symserve -root ~/src/project -watch

Export instead of serving:

	symserve -root . -export ctags -o tags
	symserve -root . -sqlite symbols.db
	symserve -load symbols.db -c

# Configuration

Runtime configuration lives in a TOML file, created with defaults at
~/.config/symserve/config.toml when missing:

	[index]
	extensions = []
	respect_gitignore = true
	max_file_size = 2097152

	[complete]
	fuzzy_threshold = 0.3
	prefix_weight = 1.0

	[server]
	max_limit = 64

	[watch]
	enabled = false
	debounce_ms = 300

Flags override the file.

# IPC Protocol

See package server. A completion request:

	{"id": "req1", "q": "pars", "l": 20}

# Command Line Flags

	-root string     Directory to index (default ".")
	-config string   Path to config.toml
	-reset-config    Rewrite the default config.toml and exit
	-d               Enable debug logging
	-c               Run the interactive CLI instead of the server
	-watch           Rebuild the index when files change
	-limit int       Results shown by the CLI
	-no-filter       Disable query filtering
	-ext string      Comma separated extensions to index
	-workers int     Parallel extraction workers
	-no-gitignore    Index files ignored by .gitignore
	-export string   Write the index in a format and exit
	-o string        Export output file (default stdout)
	-sqlite string   Write the index to a SQLite database and exit
	-load string     Load symbols from a SQLite database instead of indexing
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bastiangx/symserve/internal/cli"
	"github.com/bastiangx/symserve/internal/logger"
	"github.com/bastiangx/symserve/pkg/config"
	"github.com/bastiangx/symserve/pkg/discover"
	"github.com/bastiangx/symserve/pkg/engine"
	"github.com/bastiangx/symserve/pkg/export"
	"github.com/bastiangx/symserve/pkg/extract"
	"github.com/bastiangx/symserve/pkg/server"
	"github.com/bastiangx/symserve/pkg/watch"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "symserve"
)

// sigHandler is a simple handler for OS signals to exit normally. The
// returned context is cancelled just before exiting so an export or watcher
// in flight sees it; stop releases the handler without exiting.
func sigHandler() (ctx context.Context, stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	ctx, release := exitOnSignal(c, func() {
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	})
	return ctx, func() {
		signal.Stop(c)
		release()
	}
}

// exitOnSignal cancels ctx with the received signal as its cause and then
// calls exit. A release before any signal stops the watch and never calls
// exit.
func exitOnSignal(sigs <-chan os.Signal, exit func()) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(context.Background())
	released := make(chan struct{})
	go func() {
		select {
		case sig := <-sigs:
			cancel(fmt.Errorf("received %v", sig))
			exit()
		case <-released:
		}
	}()
	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(released)
			cancel(context.Canceled)
		})
	}
}

// main wires the packages together and only manages the flow.
func main() {
	ctx, stop := sigHandler()
	defer stop()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config.toml")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config.toml with default values and exit")
	root := flag.String("root", ".", "Directory to index")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive CLI")
	watchMode := flag.Bool("watch", false, "Rebuild the index when files change")
	limit := flag.Int("limit", 0, "Number of results shown by the CLI (default from config)")
	noFilter := flag.Bool("no-filter", false, "Disable query filtering")
	exts := flag.String("ext", "", "Comma separated extensions to index, e.g. .go,.py")
	names := flag.String("name", "", "Comma separated file names to index instead of extensions, e.g. main.go,Makefile")
	pattern := flag.String("pattern", "", "Index files whose name contains this text instead of filtering by extension")
	workers := flag.Int("workers", 0, "Parallel extraction workers (default from config)")
	noGitignore := flag.Bool("no-gitignore", false, "Index files ignored by .gitignore")
	exportFormat := flag.String("export", "", "Export format: "+strings.Join(export.Formats, ", "))
	output := flag.String("o", "", "Export output file (default stdout)")
	sqlitePath := flag.String("sqlite", "", "Write the index to a SQLite database and exit")
	loadPath := flag.String("load", "", "Load symbols from a SQLite database instead of indexing")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		path, _ := config.GetDefaultConfigPath()
		fmt.Fprintf(os.Stderr, "Config rewritten with defaults: %s\n", path)
		return
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	discoverOpts := cfg.DiscoverOptions()
	if *exts != "" {
		discoverOpts.Extensions = splitExtensions(*exts)
	}
	if *names != "" {
		discoverOpts.Names = splitList(*names)
	}
	discoverOpts.Pattern = *pattern
	if *noGitignore {
		discoverOpts.RespectGitignore = false
	}
	if *workers > 0 {
		cfg.Index.Workers = *workers
	}

	eng := engine.New(engine.Config{
		Root:     *root,
		Discover: discoverOpts,
		Workers:  cfg.Index.Workers,
		Complete: cfg.CompleteOptions(),
	}, engine.WithLogger(logger.New("index")))

	if *loadPath != "" {
		symbols, err := export.LoadSQLite(ctx, *loadPath)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *loadPath, err)
		}
		eng.Publish(symbols)
		log.Debugf("Loaded %d symbols from %s", len(symbols), *loadPath)
	} else if _, err := eng.Rebuild(); err != nil {
		log.Fatalf("Failed to index %s: %v", *root, err)
	}

	if *exportFormat != "" || *sqlitePath != "" {
		if err := runExport(ctx, eng, *root, *exportFormat, *output, *sqlitePath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	if (*watchMode || cfg.Watch.Enabled) && *loadPath == "" {
		if err := startWatcher(ctx, eng, cfg.Debounce()); err != nil {
			log.Fatalf("Failed to start watcher: %v", err)
		}
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		lim := cfg.CLI.DefaultLimit
		if *limit > 0 {
			lim = *limit
		}
		opts := []cli.Option{cli.WithLimit(lim), cli.WithHighlight(cfg.CLI.Highlight)}
		if *noFilter {
			opts = append(opts, cli.WithoutFilter())
		}
		if err := cli.NewInputHandler(eng, opts...).Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srvCfg := cfg.ServerOptions()
	if *noFilter {
		srvCfg.EnableFilter = false
	}
	srv := server.NewServer(eng, srvCfg, server.WithLogger(logger.New("ipc")))

	showStartupInfo(*root, eng.Stats())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func splitExtensions(list string) []string {
	out := splitList(list)
	for i, ext := range out {
		if !strings.HasPrefix(ext, ".") {
			out[i] = "." + ext
		}
	}
	return out
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runExport(ctx context.Context, eng *engine.Engine, root, format, output, sqlitePath string) error {
	symbols := eng.Snapshot().Store.Symbols()
	project := filepath.Base(root)
	if abs, err := filepath.Abs(root); err == nil {
		project = filepath.Base(abs)
	}
	exp := export.New(
		export.WithRegistry(eng.Registry()),
		export.WithProject(project),
		export.WithVersion(Version),
	)

	if sqlitePath != "" {
		if err := exp.WriteSQLite(ctx, sqlitePath, symbols); err != nil {
			return err
		}
		log.Infof("Wrote %d symbols to %s", len(symbols), sqlitePath)
	}
	if format == "" {
		return nil
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	return exp.Write(w, format, symbols)
}

func startWatcher(ctx context.Context, eng *engine.Engine, debounce time.Duration) error {
	cfg := eng.Config()
	filter, err := discover.NewFilter(cfg.Root, cfg.Discover)
	if err != nil {
		return err
	}
	wlog := logger.New("watch")
	w, err := watch.New(filter, func(paths []string) {
		wlog.Debugf("Rebuilding after %d changes", len(paths))
		if _, err := eng.Rebuild(); err != nil {
			wlog.Errorf("Rebuild failed: %v", err)
		}
	}, watch.WithDebounce(debounce), watch.WithLogger(wlog))
	if err != nil {
		return err
	}
	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			wlog.Errorf("Watcher stopped: %v", err)
		}
	}()
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["languages"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	langs := map[string]bool{}
	var names []string
	for _, f := range extract.DefaultRegistry().Families() {
		if !langs[f.Language] {
			langs[f.Language] = true
			names = append(names, f.Language)
		}
	}

	banner.Print("")
	banner.Print("[ " + AppName + " ] Symbol completions for source trees")
	banner.Print("", "version", Version)
	banner.Print("", "languages", strings.Join(names, ", "))
	banner.Print("")
	banner.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(root string, st engine.Stats) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" SymServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("root: ( %s )", root)
	log.Infof("index: %d symbols from %d files", st.Symbols, st.Files)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
