package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fsrace/writeburst/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "writeburst",
	Short: "Filesystem writeback race amplifier",
	Long: `Writeburst hammers a filesystem's writeback path by racing a data-layout
conversion (truncate and rewrite past the inline-data threshold) against an
asynchronous flush of the same files, across many pinned workers at once.

A crash-persistent state file records whether the previous run ended
cleanly; if it did not, the run is reported as crash evidence on the next
start.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.config/writeburst/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/writeburst")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WRITEBURST")
	// Replace dots with underscores for nested keys in env vars
	// e.g., WRITEBURST_BURST_TARGET_DIR for burst.target_dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
