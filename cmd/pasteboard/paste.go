package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pasteboard/internal/api"
	"pasteboard/internal/config"
)

func newPasteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "paste [text]",
		Short: "Submit text; reads stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if len(args) == 1 {
				content = args[0]
			} else {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(raw)
			}
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("nothing to paste")
			}

			return withClient(cfg, func(client *api.Client) error {
				entry, err := client.PasteText(cmd.Context(), content)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(entry)
				}
				return writePlain("%s\n", formatEntryLine(entry))
			})
		},
	}
}
