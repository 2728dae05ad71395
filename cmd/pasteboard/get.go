package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newGetCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var bodyOnly bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				entry, err := client.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if bodyOnly {
					return writePlain("%s\n", entry.Body)
				}
				if *jsonOutput {
					return writeJSON(entry)
				}
				return writeEntryDetail(entry)
			})
		},
	}

	cmd.Flags().BoolVar(&bodyOnly, "body", false, "print only the entry body")

	return cmd
}
