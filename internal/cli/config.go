package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const (
	// ConfigKeyAddress is the viper/config key for the Loki base URL.
	ConfigKeyAddress = "address"

	// ConfigKeyToken is the viper/config key for the API token.
	ConfigKeyToken = "token"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  `Get and set lokiq CLI configuration values stored in ~/.lokiq/config.yaml.`,
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.lokiq/config.yaml.

Available keys:
  address    Base URL of the Loki instance.
  token      API token. Omit the value to be prompted with hidden input.

Examples:
  lokiq config set address https://logs-prod-008.grafana.net
  lokiq config set token`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			switch key {
			case ConfigKeyAddress, ConfigKeyToken:
				// valid
			default:
				return fmt.Errorf("unknown configuration key %q\n\nAvailable keys:\n  address\n  token", key)
			}

			var value string
			if len(args) == 2 {
				value = args[1]
			} else if key == ConfigKeyToken {
				v, err := promptSecret("API token: ")
				if err != nil {
					return err
				}
				value = v
			} else {
				return fmt.Errorf("a value is required for %q", key)
			}

			viper.Set(key, value)
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if key == ConfigKeyToken {
				fmt.Println("Set token")
			} else {
				fmt.Printf("Set %s = %s\n", key, value)
			}
			return nil
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value from ~/.lokiq/config.yaml.

Examples:
  lokiq config get address`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			value := viper.GetString(key)
			if value == "" {
				fmt.Printf("%s is not set\n", key)
			} else {
				fmt.Println(value)
			}
			return nil
		},
	}

	return cmd
}

func newConfigListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{ConfigKeyAddress, ConfigKeyToken} {
				value := viper.GetString(key)
				if value == "" {
					continue
				}
				if key == ConfigKeyToken {
					value = redactToken(value)
				}
				fmt.Printf("%s = %s\n", key, value)
			}
			return nil
		},
	}

	return cmd
}

// writeConfig persists the current viper state to ~/.lokiq/config.yaml.
func writeConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".lokiq")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}

// promptSecret reads a value without echoing it. Falls back to an error
// when stdin is not a TTY, since hidden input is impossible there.
func promptSecret(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("stdin is not a terminal; pass the value as an argument instead")
	}

	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(string(raw))
	if value == "" {
		return "", fmt.Errorf("no value entered")
	}
	return value, nil
}

// redactToken keeps just enough of a token to recognize it.
func redactToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
