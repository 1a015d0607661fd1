package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/branding"
	"github.com/stubtree-labs/stubtree/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage default settings",
	Long: `Read and write ` + branding.DisplayName() + ` defaults stored at ~/` + branding.HomeDir() + `/config.yaml.

Every key can also be set through the environment, e.g. ` + branding.EnvVar("REPORT") + `=accurate.
Command-line flags take precedence over both.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKnownKey(key) {
			return fmt.Errorf("unknown config key %q (known: %v)", key, config.Keys())
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(key))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := config.All()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range config.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", key, values[key])
		}
		return w.Flush()
	},
}
