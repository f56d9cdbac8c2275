package main

import (
	"os"

	_ "github.com/bezhai/inner-bot-server-sub000/pkg/infra/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
