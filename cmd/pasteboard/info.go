package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server and database info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("name: %s\n", resp.Name)
				_ = writePlain("version: %s\n", resp.Version)
				_ = writePlain("entries: %d\n", resp.Entries)
				_ = writePlain("db_path: %s\n", cfg.DBPath)
				_ = writePlain("uploads_dir: %s\n", cfg.UploadsDir)
				return nil
			})
		},
	}
}
