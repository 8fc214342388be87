package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/store"
	"github.com/vitgroww/roomie/internal/validator"
)

// setup builds the logger and decodes the config, exiting on failure.
func setup(command string) (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting",
		zap.String("command", command),
		zap.String("version", version),
		zap.String("config_file", viper.ConfigFileUsed()),
	)

	return logger, config
}

func openStore(ctx context.Context, path string, v *validator.Validator) (*store.SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("candidates database is not configured (set candidates.database or ROOMIE_DB)")
	}

	s, err := store.Open(path, v)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// loadCandidates reads the candidate pool from the JSON file when configured
// and from the database otherwise.
func loadCandidates(ctx context.Context, config *Config, v *validator.Validator, logger *zap.Logger) (*candidates.Candidates, error) {
	if file := strings.TrimSpace(config.Candidates.File); file != "" {
		pool, err := candidates.LoadFile(file, v)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded candidates", zap.String("file", file), zap.Int("count", pool.Len()))
		return pool, nil
	}

	s, err := openStore(ctx, config.Candidates.Database, v)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	pool, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	logger.Info("loaded candidates", zap.String("database", config.Candidates.Database), zap.Int("count", pool.Len()))
	return pool, nil
}
