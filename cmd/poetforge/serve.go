package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		addr       string
		noCounter  bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve poems over HTTP",
		Long: `Start the JSON API:
  GET /api/poems              generate a poem (style, stanzas, lines, rhyme, scheme)
  GET /api/rhymes             list rhyme classes
  GET /api/rhymes/normalize   normalize a rhyme scheme spelling (scheme)
  GET /healthz                liveness probe
  GET /metrics                Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadEnv(envFile, verbose)

			path := resolveConfigPath(cmd, configPath)
			cfg, secrets, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(verbose)}))
			slog.SetDefault(logger)

			store, err := lexicon.Load(cfg.Lexicon.Path, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector := metrics.NewCollector(logger)
			engine := poet.New(store, poet.NewRand(cfg.Generation.Seed), logger, collector)

			var srv *server.Server
			if noCounter {
				srv = server.New(cfg, engine, nil, collector, logger)
			} else {
				poemCounter, err := openCounter(ctx, cfg, secrets)
				if err != nil {
					return err
				}
				defer poemCounter.Close()
				srv = server.New(cfg, engine, poemCounter, collector, logger)
			}

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to environment file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noCounter, "no-counter", false, "Do not number poems served by the API")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}
