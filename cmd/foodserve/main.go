// Copyright 2025 The foodserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the foodserve search server and CLI [DBG] application.

foodserve loads a food catalog, builds an in-memory term index over names,
name fragments, ingredients, cultural origins and categories, and answers
free-text queries with ranked matches and did-you-mean suggestions. It
tolerates case differences, partial terms and typos.

# Usage

Start the server with the catalog from the config file:

	foodserve

Use a specific catalog and enable debug logs:

	foodserve -catalog data/food_mappings.json -d

Run in CLI mode for interactive testing:

	foodserve -c -limit 5

# Configuration

Runtime configuration is read from a TOML file, created with defaults in the
user config directory when missing:

	[catalog]
	path = "food_mappings.json"

	[search]
	max_results = 20
	max_suggestions = 5

	[server]
	max_limit = 64

Use -config to point at another file and -rebuild-config to reset one.

# IPC Protocol

The server reads msgpack requests from stdin and writes one msgpack response
per request to stdout. See package server for the message types.

	{"id": "req1", "q": "plaw", "l": 5}

# Catalogs

Catalogs are JSON files with a top level "food_mappings" object or TOML files
with [food_mappings."Name"] tables. Relative paths are looked up in the
working directory, next to the executable, in its data/ directory and in the
config directory.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/foodserve/internal/cli"
	"github.com/bastiangx/foodserve/internal/logger"
	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/bastiangx/foodserve/pkg/config"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/bastiangx/foodserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "foodserve"
	gh      = "https://github.com/bastiangx/foodserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow: flags, config, catalog, then server or CLI.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	catalogPath := flag.String("catalog", "", "Catalog file, .json or .toml (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, fmt.Sprintf("Number of results in CLI mode (default from config, %d)", defaultConfig.CLI.DefaultLimit))
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.SetDebug(*debugMode)

	if *rebuildConfig {
		path, err := config.RebuildConfigFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		return
	}

	appConfig, usedConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfigPath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *catalogPath == "" {
		*catalogPath = appConfig.Catalog.Path
	}
	resolvedCatalog := pathResolver.ResolveCatalog(*catalogPath)
	log.Debugf("Using catalog at: %s", resolvedCatalog)

	cat, err := catalog.Load(resolvedCatalog)
	if err != nil {
		log.Error("Failed to load catalog", "err", err)
		log.Print("Pass a catalog with -catalog or set [catalog] path in the config")
		os.Exit(1)
	}
	if cat.Len() == 0 {
		log.Warn("Catalog is empty, every search will come back empty")
	}

	engine := search.New(cat).WithBatchWorkers(appConfig.Server.BatchWorkers)

	// CLI is mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		cliLimit := *limit
		if cliLimit <= 0 {
			cliLimit = appConfig.CLI.DefaultLimit
		}
		log.Debug("Input info:", "limit", cliLimit, "showScores", appConfig.CLI.ShowScores)

		inputHandler := cli.NewInputHandler(engine, cliLimit, appConfig.CLI.ShowScores)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, usedConfigPath)
	showStartupInfo(resolvedCatalog, engine.Stats())

	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printVersion() {
	vlog := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ foodserve ] Forgiving food search with did-you-mean suggestions")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(catalogPath string, stats map[string]int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " foodserve ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalog: ( %s )", catalogPath)
	log.Info("index", "foods", stats["entities"], "terms", stats["terms"], "postings", stats["postings"])
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
