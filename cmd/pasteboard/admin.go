package main

import (
	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newAdminCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative maintenance commands",
	}

	cmd.AddCommand(newAdminSweepCmd(cfg, jsonOutput))

	return cmd
}

func newAdminSweepCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Find upload blobs no entry references; --apply deletes them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Sweep(cmd.Context(), apply)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}

				mode := "dry run"
				if !resp.DryRun {
					mode = "applied"
				}
				_ = writePlain("sweep (%s): %d orphan(s)\n", mode, resp.CandidateCount)
				for _, ref := range resp.Orphans {
					_ = writePlain("  %s\n", ref)
				}
				if !resp.DryRun {
					_ = writePlain("deleted: %d, failed: %d\n", resp.DeletedCount, resp.FailedCount)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "delete the orphaned blobs")

	return cmd
}
