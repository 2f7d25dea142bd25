package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tvandinther/gitvault/pkg/store"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and flush the store's current session",
	}

	sessionCmd.AddCommand(newSessionShowCmd(), newSessionFlushCmd())

	return sessionCmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}

			session, err := s.CurrentSession()
			if err != nil {
				if errors.Is(err, store.ErrNoSession) {
					fmt.Println("no session open")
					return nil
				}
				return err
			}

			printKV(0, "Session", session.ID)
			printKV(0, "Started", formatTimestamp(session.StartTimestampMS))
			printKV(0, "Last activity", formatTimestamp(session.LastTimestampMS))

			return nil
		},
	}
}

func newSessionFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Commit the current session into store history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}

			hash, err := s.FlushSession()
			if err != nil {
				if errors.Is(err, store.ErrNoSession) {
					fmt.Println("no session to flush")
					return nil
				}
				return err
			}

			printKV(0, "Flushed", hash.String())

			return nil
		},
	}
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format(time.RFC3339) + " (" + strconv.FormatInt(ms, 10) + ")"
}
