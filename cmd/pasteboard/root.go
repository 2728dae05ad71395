package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pasteboard/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "pasteboard",
		Short: "Pasteboard is a shared clipboard for your local network",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newListCmd(cfg, &jsonOutput),
		newPasteCmd(cfg, &jsonOutput),
		newUploadCmd(cfg, &jsonOutput),
		newGetCmd(cfg, &jsonOutput),
		newRmCmd(cfg, &jsonOutput),
		newClearCmd(cfg, &jsonOutput),
		newWatchCmd(cfg, &jsonOutput),
		newInfoCmd(cfg, &jsonOutput),
		newMigrateCmd(cfg, &jsonOutput),
		newAdminCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
