package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/tvandinther/gitvault/pkg/progress"
	"github.com/tvandinther/gitvault/pkg/store"
	"github.com/tvandinther/gitvault/pkg/watcher"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the store and flush a session after each quiet burst of changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			reporter := progress.NewReporter(progress.NewTerminalSink(os.Stdout))
			var wg sync.WaitGroup
			wg.Add(1)
			go reporter.Run(ctx, &wg)

			process := reporter.NewProcess(&progress.ProcessReporterOptions{
				ReportPeriod: 30 * time.Second,
				Template: progress.ProcessTemplate{
					PresentAction: "watching for",
					PastAction:    "flushed",
					Subject:       "sessions",
				},
			})
			process.Start(ctx)

			reporter.Heading("Watching store")

			w := watcher.New(s.Root(), func(paths []string) {
				slog.Debug("store changed", "paths", len(paths))

				hash, err := s.FlushSession()
				if err != nil {
					if errors.Is(err, store.ErrNoSession) {
						return
					}
					reporter.Failure("failed to flush session: %v", err)
					return
				}

				process.Increment(1)
				reporter.Success("flushed session as %s", hash.String())
			}, &watcher.Options{Debounce: debounce})

			err = w.Watch(ctx)

			process.Done()
			reporter.Close()
			wg.Wait()

			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	watchCmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "quiet period before a flush")

	return watchCmd
}
