package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardenhq/warden/pkg/hooks"
	"github.com/wardenhq/warden/pkg/logger"
	"github.com/wardenhq/warden/pkg/policy"
	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/sessions"
)

// Hook commands always exit 0: a missed advisory is better than
// blocking the host mid-task, so every failure below degrades to a log
// line.
var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Lifecycle hook entry points invoked by the host",
	Long: `Entry points the assistant host invokes at lifecycle events. Each
reads one JSON event payload from stdin, updates the session record, and
prints an advisory on stderr when warranted. Hook commands never exit
non-zero.`,
}

var preToolUseCmd = &cobra.Command{
	Use:   "pre-tool-use",
	Short: "Count a tool call and suggest /compact at thresholds",
	Run: func(cmd *cobra.Command, args []string) {
		runStatefulHook(cmd.Context(), func(h *hooks.Handlers) hooks.Handler { return h.PreToolUse })
	},
}

var preCompactCmd = &cobra.Command{
	Use:   "pre-compact",
	Short: "Record a compaction and snapshot session state",
	Run: func(cmd *cobra.Command, args []string) {
		runStatefulHook(cmd.Context(), func(h *hooks.Handlers) hooks.Handler { return h.PreCompact })
	},
}

var postEditCmd = &cobra.Command{
	Use:   "post-edit",
	Short: "Scan an edited file for leftover debug markers",
	Run: func(cmd *cobra.Command, args []string) {
		runStatelessHook(cmd.Context(), func(h *hooks.Handlers) hooks.Handler { return h.PostEdit })
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Scan every file modified this session for debug markers",
	Run: func(cmd *cobra.Command, args []string) {
		runStatelessHook(cmd.Context(), func(h *hooks.Handlers) hooks.Handler { return h.Stop })
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "session-end",
	Short: "Summarize the session and check pattern extraction eligibility",
	Run: func(cmd *cobra.Command, args []string) {
		runStatefulHook(cmd.Context(), func(h *hooks.Handlers) hooks.Handler { return h.SessionEnd })
	},
}

func init() {
	hookCmd.AddCommand(preToolUseCmd)
	hookCmd.AddCommand(preCompactCmd)
	hookCmd.AddCommand(postEditCmd)
	hookCmd.AddCommand(stopCmd)
	hookCmd.AddCommand(sessionEndCmd)
}

// hookConfig assembles the handler policy knobs from viper.
func hookConfig() hooks.Config {
	return hooks.Config{
		Thresholds:    policy.Every(viper.GetInt("counter.interval"), viper.GetInt("counter.limit")),
		Markers:       viper.GetStringSlice("scan.markers"),
		Excludes:      viper.GetStringSlice("scan.excludes"),
		MinMessages:   viper.GetInt("patterns.min_messages"),
		CandidatesDir: viper.GetString("patterns.candidates_dir"),
	}
}

func sessionStoreConfig() (*sessions.Config, error) {
	basePath := viper.GetString("sessions.dir")
	if basePath == "" {
		var err error
		if basePath, err = sessions.DefaultBasePath(); err != nil {
			return nil, err
		}
	}
	return &sessions.Config{
		StoreType: viper.GetString("sessions.store"),
		BasePath:  basePath,
	}, nil
}

func readHookEvent(ctx context.Context) (*hooks.Event, bool) {
	event, err := hooks.ReadEvent(os.Stdin)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("skipping hook, malformed event payload")
		return nil, false
	}
	return event, true
}

func runStatefulHook(ctx context.Context, pick func(*hooks.Handlers) hooks.Handler) {
	event, ok := readHookEvent(ctx)
	if !ok {
		return
	}

	config, err := sessionStoreConfig()
	if err != nil {
		logger.G(ctx).WithError(err).Warn("skipping hook, cannot resolve sessions directory")
		return
	}
	store, err := sessions.NewStore(ctx, config)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("skipping hook, cannot open session store")
		return
	}
	defer store.Close()

	mutex, err := sessions.NewMutex(config.BasePath)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("skipping hook, cannot create session lock")
		return
	}

	runner := hooks.NewRunner(store, mutex, presenter.New())
	runner.Run(ctx, event, pick(hooks.NewHandlers(hookConfig())))
}

func runStatelessHook(ctx context.Context, pick func(*hooks.Handlers) hooks.Handler) {
	event, ok := readHookEvent(ctx)
	if !ok {
		return
	}

	runner := hooks.NewRunner(nil, nil, presenter.New())
	runner.RunStateless(ctx, event, pick(hooks.NewHandlers(hookConfig())))
}
