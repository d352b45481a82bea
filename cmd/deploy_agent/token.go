package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/deploy-agent/internal/server"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the API",
	Long:  `Mint an HS256 bearer token signed with the shared secret, as an alternative to sending the secret in each request body.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim for the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", server.DefaultTokenTTL, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	secret := os.Getenv("SHARED_SECRET")
	if secret == "" {
		return fmt.Errorf("SHARED_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(secret, tokenTTL).GenerateToken(tokenEmail)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}

	fmt.Println(token)
	return nil
}
