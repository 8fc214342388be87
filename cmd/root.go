package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitgroww/roomie/internal/roommate"
)

const (
	app = "roomie"
)

type Config struct {
	RequesterID string                 `mapstructure:"requester-id"`
	Preferences roommate.PreferenceSet `mapstructure:"preferences"`
	ExcludeFile string                 `mapstructure:"exclude-file"`
	Candidates  *CandidatesConfig      `mapstructure:"candidates"`
	Ranking     *RankingConfig         `mapstructure:"ranking"`
	Server      *ServerConfig          `mapstructure:"server"`
}

type CandidatesConfig struct {
	// File takes precedence over Database when both are set.
	File     string `mapstructure:"file"`
	Database string `mapstructure:"database"`
}

type RankingConfig struct {
	Limit        int  `mapstructure:"limit"`
	MinimumScore int  `mapstructure:"minimum-score"`
	Workers      int  `mapstructure:"workers"`
	BlockOnly    bool `mapstructure:"block-only"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "roomie ranks hostel roommate candidates by how well they match your preferences",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("candidates.database", "ROOMIE_DB"); err != nil {
		log.Fatalf("binding ROOMIE_DB environment variable: %v", err)
	}
	if err := viper.BindEnv("server.token-file", "ROOMIE_TOKEN_FILE"); err != nil {
		log.Fatalf("binding ROOMIE_TOKEN_FILE environment variable: %v", err)
	}

	viper.SetDefault("candidates.database", app+".db")
	viper.SetDefault("ranking.limit", 10)
	viper.SetDefault("server.address", ":8080")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is roomie.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{
		Candidates: &CandidatesConfig{},
		Ranking:    &RankingConfig{},
		Server:     &ServerConfig{},
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	return config, nil
}
