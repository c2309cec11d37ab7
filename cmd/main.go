package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"artfoundation/cmd/buildCFG"
	"artfoundation/internal/repo"
)

const envPrefix = "ART"

var (
	configPath string
	envFile    string
)

func main() {
	zlog.Init()

	rootCmd := &cobra.Command{
		Use:   "artfoundation",
		Short: "Event registration, payments and artist accounts API",
		RunE:  runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file with overrides")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(log *zerolog.Logger) (*config.Config, error) {
	cfg := config.New()
	if err := cfg.Load(configPath, envFile, envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Info().Str("path", configPath).Msg("configuration loaded")
	return cfg, nil
}

func openRepository(cfg *config.Config, log *zerolog.Logger) (repo.Repository, error) {
	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build DB config: %w", err)
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	repository, err := repo.NewRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	log.Info().Msg("Database connected successfully")
	return repository, nil
}
