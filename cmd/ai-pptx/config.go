package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beeper/ai-pptx/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and upgrade configuration files",
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print the documented example config",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), config.ExampleConfig)
	},
}

var configUpgradeCmd = &cobra.Command{
	Use:   "upgrade <file.yaml>",
	Short: "Print a YAML config merged onto the example config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		upgraded, err := config.Upgrade(data)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(upgraded)
		return err
	},
}

func init() {
	configCmd.AddCommand(configExampleCmd, configUpgradeCmd)
}
