package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the post-check and recall queue workers",
	RunE:  consumeCommand,
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}

func consumeCommand(cmd *cobra.Command, args []string) error {
	logger, flush, err := newLogger("consumer")
	if err != nil {
		return err
	}
	defer flush()
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// both consumers share the pool
	c, db, err := buildContainer(logger, cfg, 2*cfg.Consumer.Workers)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer c.Close(logger)

	if err := broker.DeclareTopology(ctx, c.Broker, c.Topology); err != nil {
		return err
	}
	startBackground(ctx, logger, cfg, c)

	metricsSrv := server.NewMetricsServer(cfg, logger)
	_ = metricsSrv.Run()
	defer func() { _ = metricsSrv.Shutdown() }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.PostSafetyConsumer.Run(gctx) })
	g.Go(func() error { return c.RecallConsumer.Run(gctx) })
	g.Go(func() error {
		c.Inspector.Monitor(gctx, cfg.Metrics.DepthInterval, c.Observer)
		return nil
	})

	logger.Info("consumers started")
	err = g.Wait()
	logger.Info("consumers stopped")
	return err
}
