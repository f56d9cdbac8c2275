package main

import (
	"log"
	"os"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	infraLogger "github.com/bezhai/inner-bot-server-sub000/pkg/infra/logger"
	"github.com/bezhai/inner-bot-server-sub000/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "safetyd",
	Short: "safetyd - input and output safety enforcement for the chat backend",
	Long: `safetyd screens inbound chat messages before they reach the model and
re-checks generated replies after delivery, recalling the ones that fail.

  safetyd serve     run the safety HTTP API
  safetyd consume   run the post-check and recall workers`,
	Version:      version.String(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile := os.Getenv("ENV_FILE")
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil {
			log.Println("no .env file found, using system environment variables")
		}
		return config.Load(configPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Directory holding config.yaml (default: ./config or .)")
}

// newLogger builds the component logger; the returned func flushes it.
func newLogger(component string) (*logrus.Logger, func(), error) {
	return infraLogger.NewLogger(component)
}
