package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/server"
	"github.com/gonewx/martianblue/pkg/store"
)

var serveFlags struct {
	configPath string
	addr       string
	driver     string
	dbPath     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contact and blog API",
	Long: `Starts the JSON API on the configured address.

Configuration is read from the embedded data/server.yaml unless --config is
given. --addr, --store and --db override the file values.

Example:
  martianblue serve --addr :8080 --store memory`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.configPath, "config", "", "Server config file (default: embedded data/server.yaml)")
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address")
	f.StringVar(&serveFlags.driver, "store", "", "Store driver: sqlite | gdata | memory")
	f.StringVar(&serveFlags.dbPath, "db", "", "SQLite database file")
}

// loadServeConfig 读取配置并应用命令行覆盖
func loadServeConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	cfg, err := config.LoadServerConfig(serveFlags.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = serveFlags.addr
	}
	if flags.Changed("store") {
		cfg.Store.Driver = serveFlags.driver
	}
	if flags.Changed("db") {
		cfg.Store.Path = serveFlags.dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	docs, err := store.Open(store.Options{
		Driver:  cfg.Store.Driver,
		Path:    cfg.Store.Path,
		AppName: cfg.Store.AppName,
	})
	if err != nil {
		return err
	}
	defer docs.Close()
	log.Info("store opened", zap.String("driver", cfg.Store.Driver), zap.String("path", cfg.Store.Path))

	repo := store.NewRepository(docs, store.WithRepoLogger(log.Named("store")))
	srv := server.New(repo,
		server.WithLogger(log.Named("server")),
		server.WithCORS(cfg.CORS),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Addr, cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		return nil
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
