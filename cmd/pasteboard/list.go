package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				entries, err := client.List(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(entries)
				}
				return writeEntryList(entries)
			})
		},
	}
}
