package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/dependency_container"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/cache"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/router"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the safety HTTP API",
	RunE:  serveCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command, args []string) error {
	logger, flush, err := newLogger("api")
	if err != nil {
		return err
	}
	defer flush()
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, db, err := buildContainer(logger, cfg, 0)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer c.Close(logger)

	if err := broker.DeclareTopology(ctx, c.Broker, c.Topology); err != nil {
		return fmt.Errorf("failed to declare broker topology: %w", err)
	}
	startBackground(ctx, logger, cfg, c)
	go c.Inspector.Monitor(ctx, cfg.Metrics.DepthInterval, c.Observer)

	srv, err := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewSafetyRouter(c.PublicMiddlewares, c.HandlerTransport),
			router.NewAdminRouter(c.AdminMiddlewares, c.HandlerTransport),
		},
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

func buildContainer(logger *logrus.Logger, cfg *config.Config, maxConns int) (*dependency_container.Container, *database.DB, error) {
	db, err := database.NewDB(logger, &cfg.Database, maxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		DB:     db,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return c, db, nil
}

// startBackground keeps the local banned word snapshot in sync: it listens
// for invalidations and, when a file source is configured, loads and watches it.
func startBackground(ctx context.Context, logger *logrus.Logger, cfg *config.Config, c *dependency_container.Container) {
	go c.RedisListener.Listen(ctx, cache.InvalidationChannel)

	if c.BannedWordLoader == nil {
		return
	}
	if _, err := c.BannedWordLoader.Load(ctx); err != nil {
		logger.WithError(err).Error("failed to load banned word file")
	}
	if cfg.BannedWords.Watch {
		go func() {
			if err := c.BannedWordLoader.Watch(ctx); err != nil {
				logger.WithError(err).Error("banned word watcher stopped")
			}
		}()
	}
}
