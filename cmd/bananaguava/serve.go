package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/yisuchen/bananaguava/internal/api"
	"github.com/yisuchen/bananaguava/internal/config"
	"github.com/yisuchen/bananaguava/internal/db"
	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/snapshot"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/submit"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
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

			promptStore := store.NewPromptStore(database)
			vocabStore := store.NewVocabStore(database)
			table := vocab.NewTable()

			// Growth writes always land in the local pool; the shared GitHub
			// pool issue needs a token to write.
			sinks := []vocab.Sink{vocabStore}
			if cfg.GitHub.Token != "" {
				sinks = append(sinks, github.NewVariablePool(gh, cfg.GitHub.AcceptedLabel))
			}
			reporter := vocab.NewReporter(table, sinks...)

			ctx := context.Background()
			go reporter.Run(ctx)

			snapshotter := snapshot.NewService(gh, promptStore, vocabStore, table, snapshot.Config{
				AcceptedLabel:   cfg.GitHub.AcceptedLabel,
				PendingLabel:    cfg.GitHub.PendingLabel,
				PerPage:         cfg.GitHub.PerPage,
				SeedVarsPath:    cfg.SeedVarsPath,
				DerivedVarsPath: cfg.DerivedVarsPath,
			})

			// An initial refresh failure is not fatal: the server comes up
			// with whatever the database already holds.
			if stats, err := snapshotter.Refresh(ctx); err != nil {
				log.Printf("initial snapshot: %v", err)
			} else {
				log.Printf("snapshot: %d accepted, %d preview, %d vocabulary keys",
					stats.Accepted, stats.Preview, stats.VocabKeys)
			}

			if cfg.SnapshotInterval > 0 {
				go runSnapshotTicker(ctx, snapshotter, cfg.SnapshotInterval)
			}

			var origins []string
			if cfg.AllowedOrigin != "" {
				origins = []string{cfg.AllowedOrigin}
			}
			router := api.NewRouter(api.Deps{
				PromptStore:    promptStore,
				Vocab:          table,
				Reporter:       reporter,
				Submit:         submit.NewService(gh, cfg.AuthSalt, cfg.GitHub.PendingLabel),
				Snapshot:       snapshotter,
				AllowedOrigins: origins,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// runSnapshotTicker refreshes the snapshot on a fixed interval until ctx is
// cancelled.
func runSnapshotTicker(ctx context.Context, s *snapshot.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				log.Printf("snapshot refresh: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
