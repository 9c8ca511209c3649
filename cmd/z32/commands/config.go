package commands

import (
	"fmt"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/printer"
	"github.com/dyluth/z32/internal/solver"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage solver configuration files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in constants to a YAML file",
	Long: `Write the built-in constants (anchor, declination, map scale, bounds,
locks, cipher length and reference points) to a YAML file for editing.

Fields left out of a configuration file keep their built-in values, so the
file can be trimmed to just the constants being changed.

An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Load the configuration named by --config (or the built-in defaults),
validate it and print the result as YAML.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitPath, "path", "p", "z32.yaml", "File to create")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Save(configInitPath, config.Default()); err != nil {
		return printer.Error(
			"failed to write configuration",
			err.Error(),
			[]string{
				"Remove the existing file first",
				fmt.Sprintf("Choose another path:\n     z32 config init --path other-%s", configInitPath),
			},
		)
	}
	printer.Success("Created %s\n", configInitPath)
	printer.Info("Edit it and run:\n  z32 solve --config %s\n", configInitPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return stageFailure(err, map[string]string{"Config": configLabel()})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return stageFailure(solver.ConfigError(fmt.Errorf("failed to marshal config: %w", err)), nil)
	}
	printer.Printf("%s", data)
	return nil
}
