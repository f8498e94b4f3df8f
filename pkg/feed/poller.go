package feed

import (
	"context"
	"time"

	"github.com/dd0wney/cantopo/pkg/logging"
)

// DefaultPollInterval matches the refresh cadence of the discovery
// collaborator.
const DefaultPollInterval = 15 * time.Second

// Source produces the current snapshot on demand.
type Source func(ctx context.Context) (Snapshot, error)

// Poller pulls snapshots from an in-process source on a fixed
// interval and delivers each to the consumer. It covers setups where
// the discovery collaborator lives in the same process and no socket
// feed is configured.
type Poller struct {
	source   Source
	consumer Consumer
	interval time.Duration
	logger   logging.Logger
}

// NewPoller creates a poller. A non-positive interval falls back to
// the default.
func NewPoller(source Source, consumer Consumer, interval time.Duration, logger logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Poller{
		source:   source,
		consumer: consumer,
		interval: interval,
		logger:   logger,
	}
}

// Run polls immediately, then on every interval tick, until the
// context is canceled. A failed poll keeps the previous snapshot on
// screen; the next tick retries.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("snapshot poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.source(ctx)
	if err != nil {
		p.logger.Warn("snapshot poll failed", logging.Error(err))
		return
	}
	p.consumer(snap)
}
