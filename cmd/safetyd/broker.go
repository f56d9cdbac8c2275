package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var replayLimit int

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Manage the broker topology",
}

var topologyDeclareCmd = &cobra.Command{
	Use:   "declare",
	Short: "Declare exchanges, queues and bindings (idempotent)",
	RunE:  topologyDeclareCommand,
}

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect and replay the dead letter queue",
}

var dlqStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print message counts for every safety queue",
	RunE:  dlqStatsCommand,
}

var dlqReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Move dead-lettered messages back to their original queue",
	RunE:  dlqReplayCommand,
}

func init() {
	dlqReplayCmd.Flags().IntVar(&replayLimit, "limit", 100, "Maximum number of messages to replay")

	topologyCmd.AddCommand(topologyDeclareCmd)
	dlqCmd.AddCommand(dlqStatsCmd, dlqReplayCmd)
	rootCmd.AddCommand(topologyCmd, dlqCmd)
}

func withBroker(fn func(ctx context.Context, logger *logrus.Logger, conn *broker.Connection, t broker.Topology) error) error {
	logger, flush, err := newLogger("cli")
	if err != nil {
		return err
	}
	defer flush()
	cfg := config.GetConfig()

	conn := broker.NewConnection(logger, cfg.RabbitMQ.URL, cfg.RabbitMQ.ReconnectDelay)
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return fn(ctx, logger, conn, broker.NewTopology(cfg.RabbitMQ))
}

func topologyDeclareCommand(cmd *cobra.Command, args []string) error {
	return withBroker(func(ctx context.Context, logger *logrus.Logger, conn *broker.Connection, t broker.Topology) error {
		if err := broker.DeclareTopology(ctx, conn, t); err != nil {
			return err
		}
		logger.Info("topology declared")
		fmt.Printf("declared exchange %s with queues %v\n", t.Exchange, t.Queues())
		return nil
	})
}

func dlqStatsCommand(cmd *cobra.Command, args []string) error {
	return withBroker(func(ctx context.Context, logger *logrus.Logger, conn *broker.Connection, t broker.Topology) error {
		depths, err := broker.NewInspector(logger, conn, t).Depths(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(depths)
	})
}

func dlqReplayCommand(cmd *cobra.Command, args []string) error {
	if replayLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	return withBroker(func(ctx context.Context, logger *logrus.Logger, conn *broker.Connection, t broker.Topology) error {
		publisher := broker.NewPublisher(conn, t.Exchange)
		res, err := broker.NewReplayer(logger, conn, publisher, t).Replay(ctx, replayLimit)
		fmt.Printf("replayed %d, skipped %d\n", res.Replayed, res.Skipped)
		return err
	})
}
