package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/intradiff/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the intradiff config file",
	// Skips validation so a broken config can still be repaired.
	PersistentPreRun: func(*cobra.Command, []string) {},
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the default config file",
	Long: `Write a commented default config to PATH (default: .intradiff/config.yaml).
An existing file is left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value, keeping the file's comments",
	Example: `  intradiff config set render.mode side-by-side
  intradiff config set intraline.max_group_chars 20000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configMarkCmd = &cobra.Command{
	Use:   "mark TEXT COLOR",
	Short: "Always highlight TEXT with COLOR",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigMark,
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configSetCmd, configMarkCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := localConfigPath
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := configPath()
	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s in %s\n", args[0], args[1], path)
	return nil
}

func runConfigMark(cmd *cobra.Command, args []string) error {
	path := configPath()
	marks := append(append([]config.MarkConfig(nil), cfg.Marks...), config.MarkConfig{Text: args[0], Color: args[1]})
	if err := config.SaveMarks(path, marks); err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "marking %q with %s in %s\n", args[0], args[1], path)
	return nil
}
