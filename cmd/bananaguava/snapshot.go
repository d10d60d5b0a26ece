package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/yisuchen/bananaguava/internal/config"
	"github.com/yisuchen/bananaguava/internal/db"
	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/snapshot"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

func newSnapshotCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Refresh the prompt snapshot once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			gh := github.New(cfg.GitHub.BaseURL, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token)
			s := snapshot.NewService(gh, store.NewPromptStore(database), store.NewVocabStore(database), vocab.NewTable(), snapshot.Config{
				AcceptedLabel:   cfg.GitHub.AcceptedLabel,
				PendingLabel:    cfg.GitHub.PendingLabel,
				PerPage:         cfg.GitHub.PerPage,
				SeedVarsPath:    cfg.SeedVarsPath,
				DerivedVarsPath: cfg.DerivedVarsPath,
			})

			ctx := context.Background()
			stats, err := s.Refresh(ctx)
			if err != nil {
				return err
			}
			log.Printf("snapshot: %d accepted, %d preview, %d vocabulary keys",
				stats.Accepted, stats.Preview, stats.VocabKeys)

			if outDir != "" {
				if err := s.Export(ctx, outDir); err != nil {
					return err
				}
				log.Printf("exported gallery files to %s", outDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory to export data.json, data-preview.json, and variables.json")
	return cmd
}
