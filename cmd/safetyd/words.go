package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/bannedword"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/cache"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage the shared banned word list",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the banned word list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(func(ctx context.Context, store *bannedword.Store) error {
			words, err := store.List(ctx)
			if err != nil {
				return err
			}
			for _, w := range words {
				fmt.Println(w)
			}
			return nil
		})
	},
}

var wordsAddCmd = &cobra.Command{
	Use:   "add WORD...",
	Short: "Add words and notify running processes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(func(ctx context.Context, store *bannedword.Store) error {
			return store.Add(ctx, "cli", args...)
		})
	},
}

var wordsRemoveCmd = &cobra.Command{
	Use:   "remove WORD...",
	Short: "Remove words and notify running processes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(func(ctx context.Context, store *bannedword.Store) error {
			return store.Remove(ctx, "cli", args...)
		})
	},
}

func init() {
	wordsCmd.AddCommand(wordsListCmd, wordsAddCmd, wordsRemoveCmd)
	rootCmd.AddCommand(wordsCmd)
}

func withWordStore(fn func(ctx context.Context, store *bannedword.Store) error) error {
	logger, flush, err := newLogger("cli")
	if err != nil {
		return err
	}
	defer flush()
	cfg := config.GetConfig()

	client, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	publisher := cache.NewRedisEventPublisher(client, cache.InvalidationChannel)
	store := bannedword.NewStore(logger, client, publisher, cfg.BannedWords.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, store)
}
