package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pasteboard/internal/blobstore"
	"pasteboard/internal/classify"
	"pasteboard/internal/config"
	"pasteboard/internal/server"
	"pasteboard/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the pasteboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			blobs, err := blobstore.NewLocalDir(cfg.UploadsDir)
			if err != nil {
				return err
			}

			detector, err := loadDetector(cfg)
			if err != nil {
				return err
			}

			srv := server.New(addr, st, blobs, detector, version, logger)
			srv.ConfigureUploadOptions(server.UploadOptions{
				MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
			})
			return srv.ListenAndServe()
		},
	}
}

func loadDetector(cfg *config.Config) (*classify.Detector, error) {
	if cfg.Classifier.RulesPath == "" {
		return classify.NewDetector(classify.DefaultRuleset()), nil
	}
	rules, err := classify.LoadRuleset(cfg.Classifier.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier rules: %w", err)
	}
	return classify.NewDetector(rules), nil
}
