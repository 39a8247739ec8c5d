package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/EdwardDiehl/file-indexer/internal"
	"github.com/EdwardDiehl/file-indexer/internal/mcpserver"
	pkgconfig "github.com/EdwardDiehl/file-indexer/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if roots := cmd.StringSlice("root"); len(roots) > 0 {
		cfg.Index.Roots = roots
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	eng, err := internal.NewEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	defer eng.Close()

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	return mcpserver.New(eng).ServeStdio()
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringSliceFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Root path to index and watch (repeatable, overrides config)",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "file-indexer",
		Usage:  "Reactive in-memory text-search engine over watched directories",
		Action: run,
		Flags:  appFlags(),
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve search tools over the Model Context Protocol on stdio",
				Action: runMCP,
				Flags:  appFlags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
