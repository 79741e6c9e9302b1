package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/sessions"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse recorded session bookkeeping",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, _, err := openSessionStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list sessions")
		}
		if len(records) == 0 {
			presenter.Info("No sessions recorded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tTOOL CALLS\tMESSAGES\tCOMPACTIONS\tSUMMARIZED\tUPDATED")
		for _, record := range records {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%t\t%s\n",
				record.SessionID,
				record.ToolCallCount,
				record.MessageCount,
				len(record.CompactionEvents),
				record.Summarized(),
				record.UpdatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the full record for one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, _, err := openSessionStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		record, err := store.Load(ctx, args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to load session %s", args[0])
		}

		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to render session record")
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the sessions directory for live record changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := sessionStoreConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
			return errors.Wrap(err, "failed to create sessions directory")
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.Wrap(err, "failed to create watcher")
		}
		defer watcher.Close()

		if err := watcher.Add(config.BasePath); err != nil {
			return errors.Wrapf(err, "failed to watch %s", config.BasePath)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		presenter.Info(fmt.Sprintf("Watching %s (Ctrl-C to stop)", config.BasePath))
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				presenter.Info(fmt.Sprintf("%s %s", event.Op, event.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				presenter.Error(err, "watch error")
			}
		}
	},
}

func openSessionStore(ctx context.Context) (sessions.Store, *sessions.Config, error) {
	config, err := sessionStoreConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := sessions.NewStore(ctx, config)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open session store")
	}
	return store, config, nil
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsWatchCmd)
}
