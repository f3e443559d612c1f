package syncer

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/connectivity"
)

// Event is delivered to the reload callback after a connectivity change.
// Report and Err are set only for online transitions.
type Event struct {
	Online bool
	Report ReplayReport
	Err    error
}

// Listen replays pending tasks whenever sig goes online and then calls
// onReload. Going offline only calls onReload. The returned function
// unsubscribes.
func (e *Engine) Listen(ctx context.Context, sig connectivity.Signal, onReload func(Event)) (cancel func()) {
	return sig.OnChange(func(online bool) {
		ev := Event{Online: online}
		if online {
			ev.Report, ev.Err = e.SyncPending(ctx)
			if ev.Err != nil {
				e.log.Warn(ctx, "replay on reconnect failed", "error", ev.Err)
			}
		}
		if onReload != nil {
			onReload(ev)
		}
	})
}
