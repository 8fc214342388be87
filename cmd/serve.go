package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/httpapi"
	"github.com/vitgroww/roomie/internal/ranking"
	"github.com/vitgroww/roomie/internal/secrets"
	"github.com/vitgroww/roomie/internal/validator"
)

// tokenEnv holds the API token itself; ROOMIE_TOKEN_FILE points to a file with it.
const tokenEnv = "ROOMIE_TOKEN"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scoring and matching over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is :8080)")
	serveCmd.Flags().String("token-file", "", "file with the bearer token required by the API")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
	viper.BindPFlag("server.token-file", serveCmd.Flags().Lookup("token-file"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup("serve")

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	token, err := secrets.LoadOptional(apiTokenSource(config.Server))
	if err != nil {
		logger.Fatal("loading api token",
			zap.Error(err),
			zap.String("hint", "set ROOMIE_TOKEN_FILE or ROOMIE_TOKEN environment variable or the 'server.token-file' key in the configuration file"),
		)
	}
	if token == "" {
		logger.Warn("api token is not configured, authentication is disabled")
	}

	v := validator.New()
	s, err := openStore(ctx, config.Candidates.Database, v)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	defer s.Close()

	srv := httpapi.New(httpapi.Options{
		Address:     config.Server.Address,
		Token:       token,
		ExcludeFile: config.ExcludeFile,
		Ranking: ranking.Options{
			Workers:      config.Ranking.Workers,
			Limit:        config.Ranking.Limit,
			MinimumScore: config.Ranking.MinimumScore,
		},
	}, s, v, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

func apiTokenSource(cfg *ServerConfig) secrets.Source {
	return secrets.Source{
		Name:  "api token",
		Value: cfg.Token,
		Env:   tokenEnv,
		File:  cfg.TokenFile,
	}
}
