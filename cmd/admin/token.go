package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-intel/pkg/config"
	pkgjwt "github.com/johnquangdev/meeting-intel/pkg/jwt"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the /api routes",
		Long: `Mint a bearer token signed with API_JWT_SECRET.

A zero --ttl produces a token without an expiry claim.`,
		RunE: runToken,
	}

	cmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject, e.g. a service name (required)")
	cmd.Flags().StringVar(&tokenRole, "role", "", "Optional role claim")
	cmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("API_JWT_SECRET is not set, tokens would not be checked")
	}

	manager := pkgjwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tokenTTL)
	token, err := manager.GenerateAccessToken(tokenSubject, tokenRole)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
