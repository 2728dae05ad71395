package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newClearCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete everything without --yes")
			}
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.DeleteAll(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("deleted %d entries\n", resp.Count)
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every entry")

	return cmd
}
