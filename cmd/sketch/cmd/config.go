package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective interaction settings as YAML",
	Long: `Print the thresholds and rates the sketcher runs with, after applying
the file given with --config over the defaults. The output is a valid
config file.

Examples:
  sketch config > sketch.yaml
  sketch config --config sketch.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
