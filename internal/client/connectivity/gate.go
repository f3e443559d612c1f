package connectivity

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// Status is the outcome of a gated remote call.
type Status int

const (
	// StatusOK means the remote call succeeded.
	StatusOK Status = iota
	// StatusRemoteFailed means the call was attempted and failed.
	StatusRemoteFailed
	// StatusSkipped means the client was offline and nothing was sent.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRemoteFailed:
		return "remote_failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result carries the status and, for StatusRemoteFailed, the error.
type Result struct {
	Status Status
	Err    error
}

func (r Result) OK() bool { return r.Status == StatusOK }

// Gate runs remote calls only while the Signal reports online.
type Gate struct {
	signal Signal
	log    logging.Logger
}

func NewGate(signal Signal, log logging.Logger) *Gate {
	return &Gate{signal: signal, log: log.With("module", "gate")}
}

func (g *Gate) IsOnline() bool {
	return g.signal.IsOnline()
}

// Do calls fn when online. A failure is logged at warn level and returned
// as StatusRemoteFailed, never as an error.
func (g *Gate) Do(ctx context.Context, op string, fn func(ctx context.Context) error) Result {
	if !g.signal.IsOnline() {
		g.log.Debug(ctx, "offline, remote call skipped", "op", op)
		return Result{Status: StatusSkipped}
	}
	if err := fn(ctx); err != nil {
		g.log.Warn(ctx, "remote call failed", "op", op, "error", err)
		return Result{Status: StatusRemoteFailed, Err: err}
	}
	return Result{Status: StatusOK}
}
