package main

import (
	"fmt"
	"strings"

	"github.com/arnavshah/roster-optimizer/pkg/auth"
	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/spf13/cobra"
)

var keyRateLimit int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openService()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		logger.Info().Msg("database migrated")
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen <name>",
	Short: "Issue and register a signed API key for a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openService()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if cfg.APIMasterSecret == "" {
			return fmt.Errorf("API_MASTER_SECRET is not set")
		}
		name := args[0]
		if strings.Contains(name, ".") {
			return fmt.Errorf("key name must not contain '.'")
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		limit := keyRateLimit
		if limit <= 0 {
			limit = cfg.DefaultRateLimit
		}
		key := auth.New(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(name)
		apiKey, err := database.RegisterKey(db, key, name, auth.KeyPreview(key), limit)
		if err != nil {
			return fmt.Errorf("key %s: %w", name, err)
		}

		logger.Info().Uint("key_id", apiKey.ID).Str("name", name).Msg("api key registered")
		fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", name, key)
		return nil
	},
}

func init() {
	keygenCmd.Flags().IntVar(&keyRateLimit, "rate-limit", 0, "daily request limit (defaults to DEFAULT_RATE_LIMIT)")
}
