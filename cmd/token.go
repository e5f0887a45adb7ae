package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a signed bearer token",
	Long: `Sign a short-lived HS256 bearer token for a kiosk or browser client,
using the same AUTH_JWT_SECRET the server validates with.

Example:
  facegate token lobby-kiosk --ttl 24h`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Duration("ttl", 12*time.Hour, "Token validity window")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET environment variable is required")
	}

	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return fmt.Errorf("flag error for --ttl: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   args[0],
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Println(signed)
	return nil
}
