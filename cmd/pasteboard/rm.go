package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete entries by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseIDArg(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return withClient(cfg, func(client *api.Client) error {
				for _, id := range ids {
					resp, err := client.Delete(cmd.Context(), id)
					if err != nil {
						return err
					}
					if *jsonOutput {
						if err := writeJSON(resp); err != nil {
							return err
						}
						continue
					}
					if resp.Deleted {
						if err := writePlain("deleted %d\n", id); err != nil {
							return err
						}
					} else {
						if err := writePlain("no entry %d\n", id); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
	}
}
