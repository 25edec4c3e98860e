// Package commands implements the CLI commands for soccer-rosters.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/soccer-rosters/internal/config"
	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "soccer-rosters",
	Short: "Collect NCAA soccer rosters from athletic department sites",
	Long: `soccer-rosters fetches roster pages for a list of NCAA soccer teams,
detects which site template each page uses and extracts normalized player
records.

Examples:
  # Scrape every team in a list for the 2025 season
  soccer-rosters scrape --teams teams.csv --season 2025 -o rosters.json

  # Division II teams only, as CSV
  soccer-rosters scrape --teams teams.csv --season 2025 --division II --format csv

  # Check which template a page uses
  soccer-rosters detect https://goheels.com/sports/mens-soccer/roster/2025`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.soccer-rosters.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))

	config.Defaults(viper.GetViper())
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".soccer-rosters")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ROSTERS")
	viper.AutomaticEnv()

	// A missing config file is fine.
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		Level: viper.GetString("log_level"),
		JSON:  viper.GetBool("log_json"),
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
