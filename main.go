package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/DeedleFake/pagegen/internal/cli"
	"github.com/DeedleFake/pagegen/internal/config"
	"github.com/DeedleFake/pagegen/internal/metrics"
	"github.com/alecthomas/kong"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"pagegen.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Data     string `help:"Record source (.json, .yaml, .db); overrides the configuration" placeholder:"PATH"`
	Template string `help:"Page template; overrides the configuration" placeholder:"PATH"`
	Root     string `help:"Site root that pages and the sitemap are written under" placeholder:"DIR"`
	BaseURL  string `name:"base-url" help:"Absolute URL of the site root, used in the sitemap"`
	Workers  int    `help:"Pages generated at once (0 uses the configuration)"`

	Build struct{} `cmd:"" default:"1" help:"Generate every page and the sitemap"`
	Check struct{} `cmd:"" help:"Render every page without writing and report leftover template tags"`
	Watch struct {
		Serve bool `help:"Also serve the site root while watching"`
	} `cmd:"" help:"Build, then rebuild whenever the data, template or configuration change"`
	Serve struct{} `cmd:"" help:"Serve the site root for previewing"`
}

// loadConfig reads the configuration file and applies the command
// line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}

	if CLI.Data != "" {
		cfg.Data = CLI.Data
	}
	if CLI.Template != "" {
		cfg.Template = CLI.Template
	}
	if CLI.Root != "" {
		cfg.Root = CLI.Root
	}
	if CLI.BaseURL != "" {
		cfg.BaseURL = CLI.BaseURL
	}
	if CLI.Workers > 0 {
		cfg.Workers = CLI.Workers
	}
	if CLI.Verbose {
		cfg.LogLevel = "debug"
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", CLI.Config, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("pagegen"),
		kong.Description("Generates static pages and a sitemap from page records and a template."),
	)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := cli.SignalContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rec := metrics.New()

	switch kctx.Command() {
	case "build":
		_, err = runBuild(ctx, cfg, logger, rec)
	case "check":
		err = runCheck(ctx, cfg, logger)
	case "watch":
		err = runWatch(ctx, cfg, logger, rec, CLI.Watch.Serve)
	case "serve":
		err = runServe(ctx, cfg.Addr, newServer(cfg.Root, rec), logger)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	stop()

	if err != nil {
		logger.Error("Command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
