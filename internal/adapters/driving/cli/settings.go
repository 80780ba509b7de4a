package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chatdesk settings stored in config.toml.

Keys:
  search.case_sensitive  initial case sensitivity (true/false)
  search.use_regex       initial regex mode (true/false)
  search.debounce_ms     idle time before a query is recompiled
  reply.delay_ms         mock reply latency
  reply.seed             mock reply seed (0 = random)
  logging.file           log file path (empty disables)
  logging.level          debug, info, warn or error
  logging.max_size_mb    log rotation size`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting (empty value resets it)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Key", "Value"}, rows)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	value := ""
	if len(args) == 2 {
		value = args[1]
	}
	if err := settingsService.Set(args[0], value); err != nil {
		return err
	}

	if value == "" {
		cmd.Printf("%s reset to default\n", args[0])
	} else {
		cmd.Printf("%s = %s\n", args[0], value)
	}
	return nil
}
