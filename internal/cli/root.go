// Package cli implements the lokiq CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/architect-io/lokiq/pkg/loki"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lokiq",
	Short: "Query logs from Grafana Loki",
	Long: `lokiq is a CLI for querying a Grafana Loki instance over its HTTP API.

It runs LogQL range queries, lists label names and label values, and
formats results for the terminal. The instance address and API token can
be given as flags, stored with 'lokiq config set', or provided through
the GRAFANA_API_TOKEN environment variable.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lokiq/config.yaml)")
	rootCmd.PersistentFlags().String("addr", "", "Base URL of the Loki instance")
	rootCmd.PersistentFlags().String("token", "", "API token (default is $GRAFANA_API_TOKEN)")

	// Bind to viper
	_ = viper.BindPFlag(ConfigKeyAddress, rootCmd.PersistentFlags().Lookup("addr"))
	_ = viper.BindPFlag(ConfigKeyToken, rootCmd.PersistentFlags().Lookup("token"))
	viper.SetEnvPrefix("LOKIQ")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.lokiq")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Read config file if it exists
	_ = viper.ReadInConfig()
}

// newClient builds a loki client from the resolved configuration. The
// library handles the GRAFANA_API_TOKEN fallback when no token is set.
func newClient() (*loki.Client, error) {
	return loki.New(loki.Config{
		Address: viper.GetString(ConfigKeyAddress),
		Token:   viper.GetString(ConfigKeyToken),
	})
}
