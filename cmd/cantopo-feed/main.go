// cantopo-feed publishes simulated vehicle-network snapshots for the
// visualizer to subscribe to. It stands in for the real discovery
// collaborator during development and demos.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cantopo/pkg/feed"
	"github.com/dd0wney/cantopo/pkg/logging"
	"github.com/dd0wney/cantopo/pkg/sim"
)

func main() {
	listenAddr := flag.String("listen", "tcp://127.0.0.1:40899", "Address to publish snapshots on")
	interval := flag.Duration("interval", 15*time.Second, "Snapshot publish interval")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Simulator seed")
	flag.Parse()

	logger := logging.NewDefaultLogger().With(logging.Component("cantopo-feed"))

	publisher, err := feed.NewPublisher(feed.NewNNGSocketFactory(), *listenAddr, logger)
	if err != nil {
		logger.Error("cannot start publisher", logging.Error(err))
		os.Exit(1)
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simulator := sim.New(*seed)

	publish := func() {
		snap, err := simulator.Snapshot(ctx)
		if err != nil {
			logger.Warn("snapshot generation failed", logging.Error(err))
			return
		}
		if err := publisher.Publish(snap); err != nil {
			logger.Warn("publish failed", logging.Error(err))
			return
		}
		logger.Info("snapshot published",
			logging.SnapshotID(snap.ID.String()),
			logging.Int("devices", len(snap.Devices)))
	}

	publish()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("feed stopped")
			return
		case <-ticker.C:
			publish()
		}
	}
}
