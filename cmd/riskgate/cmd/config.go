package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/riskgate/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
	Long: `Inspect or generate riskgate configuration.

Subcommands:
  show  - Print the default configuration as YAML
  init  - Write the default configuration to a file

Examples:
  riskgate config show
  riskgate config init riskgate.yaml`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the default configuration to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().SaveToFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
