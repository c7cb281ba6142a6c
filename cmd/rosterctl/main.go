package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arnavshah/roster-optimizer/pkg/config"
	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/arnavshah/roster-optimizer/pkg/logging"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "rosterctl",
	Short:        "Roster optimizer operator tool",
	Long:         "rosterctl runs the caregiver roster optimizer against the configured database and manages API keys.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, keygenCmd, rosterCmd, optimizeCmd, applyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.SetupWithWriter(cfg.Environment, os.Stderr)
	return nil
}

// openService connects to the database and builds the optimizer service
func openService() (*gorm.DB, *optimizer.Service, error) {
	if err := loadConfig(); err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := optimizer.New(database.NewStore(db, logger), cfg.OptimizerOptions(), logger)
	return db, svc, nil
}

// readInput decodes JSON from the named file, or stdin when path is "-"
func readInput(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
