package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/broadcast"
	"pasteboard/internal/config"
)

func newWatchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the realtime event stream until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withClient(cfg, func(client *api.Client) error {
				err := client.Watch(ctx, func(event broadcast.Event) {
					if *jsonOutput {
						_ = writeJSON(event)
						return
					}
					switch event.Type {
					case broadcast.EventCreated:
						if event.Entry != nil {
							_ = writePlain("+ %s\n", formatEntryLine(*event.Entry))
						}
					case broadcast.EventDeleted:
						_ = writePlain("- deleted %d\n", event.ID)
					case broadcast.EventAllDeleted:
						_ = writePlain("- cleared all entries\n")
					}
				})
				if ctx.Err() != nil {
					return nil
				}
				return err
			})
		},
	}
}
