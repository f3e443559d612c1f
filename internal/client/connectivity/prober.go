package connectivity

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// Pinger checks server reachability. client.GRPCClient satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

const DefaultPingTimeout = 3 * time.Second

// Prober turns periodic pings into a Signal.
type Prober struct {
	*Switch
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger
}

func NewProber(p Pinger, interval time.Duration, log logging.Logger) *Prober {
	return &Prober{
		Switch:   NewSwitch(false),
		pinger:   p,
		interval: interval,
		timeout:  DefaultPingTimeout,
		log:      log.With("module", "connectivity"),
	}
}

// Check pings once and updates the state.
func (p *Prober) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.pinger.Ping(ctx)
	cancel()

	online := err == nil
	if p.Set(online) {
		if online {
			p.log.Info(ctx, "server reachable, switched to online mode")
		} else {
			p.log.Warn(ctx, "server unreachable, switched to offline mode", "error", err)
		}
	}
	return online
}

// Run probes every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
