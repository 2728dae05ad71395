package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				for _, path := range args {
					entries, err := client.UploadFile(cmd.Context(), path)
					if err != nil {
						return err
					}
					if *jsonOutput {
						if err := writeJSON(entries); err != nil {
							return err
						}
						continue
					}
					if err := writeEntryList(entries); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
