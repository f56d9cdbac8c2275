package main

import (
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/auth/jwt"
	"github.com/spf13/cobra"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin JWT for the dead letter endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := jwt.NewJwtManager(&config.GetConfig().Auth).CreateToken(tokenSubject)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "ops", "Subject recorded in the token")
	rootCmd.AddCommand(tokenCmd)
}
