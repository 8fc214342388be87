package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/validator"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import candidates from a JSON file into the database",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		importCandidates(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("database", "", "SQLite database path (default is roomie.db)")
	viper.BindPFlag("candidates.database", importCmd.Flags().Lookup("database"))
}

func importCandidates(path string) {
	ctx := context.Background()
	logger, config := setup("import")

	v := validator.New()
	pool, err := candidates.LoadFile(path, v)
	if err != nil {
		logger.Fatal("loading candidates", zap.String("file", path), zap.Error(err))
	}

	s, err := openStore(ctx, config.Candidates.Database, v)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	defer s.Close()

	if err := s.UpsertMany(ctx, pool.Items); err != nil {
		logger.Fatal("importing candidates", zap.Error(err))
	}

	total, err := s.Count(ctx)
	if err != nil {
		logger.Fatal("counting candidates", zap.Error(err))
	}

	logger.Info("imported candidates",
		zap.String("file", path),
		zap.String("database", config.Candidates.Database),
		zap.Int("imported", pool.Len()),
		zap.Int("total", total),
	)
}
