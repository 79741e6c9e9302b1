package hooks

import (
	"context"

	"github.com/wardenhq/warden/pkg/logger"
	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/sessions"
)

// Runner executes a hook handler against the session store. The
// load-modify-save sequence runs under an exclusive per-session lock so
// concurrently dispatched hook processes never lose updates.
//
// Run never propagates failure to the caller. A hook that cannot load or
// persist its record degrades to in-memory state for the invocation and
// still emits its advisory; blocking the host over bookkeeping is worse
// than a missed update.
type Runner struct {
	store sessions.Store
	mutex *sessions.Mutex
	out   presenter.Presenter
}

// NewRunner creates a Runner over the given store and session mutex.
func NewRunner(store sessions.Store, mutex *sessions.Mutex, out presenter.Presenter) *Runner {
	return &Runner{store: store, mutex: mutex, out: out}
}

// Run applies a stateful handler: load the session record under the
// lock, invoke the handler, save, then print the advisory.
func (r *Runner) Run(ctx context.Context, event *Event, handler Handler) {
	log := logger.G(ctx).WithField("session_id", event.SessionID)

	var advisory string
	err := r.mutex.WithLock(ctx, event.SessionID, func() error {
		record, err := r.store.Load(ctx, event.SessionID)
		if err != nil {
			// Degraded: proceed with the zero record Load returned.
			log.WithError(err).Warn("failed to load session record, continuing with in-memory state")
		}

		updated, adv, err := handler(ctx, event, record)
		if err != nil {
			return err
		}
		advisory = adv

		if err := r.store.Save(ctx, updated); err != nil {
			log.WithError(err).Warn("failed to persist session record")
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("hook handler failed")
	}

	if advisory != "" {
		r.out.Advisory(advisory)
	}
}

// RunStateless applies a handler that never touches the session record,
// skipping the store and the lock entirely.
func (r *Runner) RunStateless(ctx context.Context, event *Event, handler Handler) {
	_, advisory, err := handler(ctx, event, sessions.Record{SessionID: event.SessionID})
	if err != nil {
		logger.G(ctx).WithError(err).WithField("session_id", event.SessionID).Warn("hook handler failed")
	}
	if advisory != "" {
		r.out.Advisory(advisory)
	}
}
