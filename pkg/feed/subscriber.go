package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"

	"github.com/dd0wney/cantopo/pkg/logging"
	"github.com/dd0wney/cantopo/pkg/metrics"
)

// recvTimeout bounds each blocking receive so the loop can notice
// context cancellation.
const recvTimeout = 500 * time.Millisecond

// Consumer receives decoded snapshots. Called from the subscriber
// goroutine; implementations hand the snapshot to the view and
// return quickly.
type Consumer func(Snapshot)

// Subscriber receives snapshots from a publisher and delivers the
// latest one to its consumer. If snapshots arrive faster than the
// consumer can take them, intermediates are simply superseded
// (last-write-wins), which is the behavior a live dashboard wants.
type Subscriber struct {
	sock     SubscribeSocket
	consumer Consumer
	logger   logging.Logger
	registry *metrics.Registry
}

// NewSubscriber creates a subscriber dialed to addr and subscribed to
// the snapshot topic.
func NewSubscriber(factory SocketFactory, addr string, consumer Consumer, logger logging.Logger, registry *metrics.Registry) (*Subscriber, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sock, err := factory.NewSubSocket()
	if err != nil {
		return nil, fmt.Errorf("create sub socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := sock.Subscribe([]byte(SnapshotTopic)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if err := sock.SetRecvDeadline(recvTimeout); err != nil {
		sock.Close()
		return nil, fmt.Errorf("set recv deadline: %w", err)
	}
	logger.Info("snapshot subscriber connected", logging.Addr(addr))
	return &Subscriber{
		sock:     sock,
		consumer: consumer,
		logger:   logger,
		registry: registry,
	}, nil
}

// Run receives until the context is canceled, then closes the socket.
func (s *Subscriber) Run(ctx context.Context) {
	defer s.sock.Close()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot subscriber stopped")
			return
		default:
		}

		msg, err := s.sock.Recv()
		if err != nil {
			if errors.Is(err, mangos.ErrRecvTimeout) {
				continue
			}
			s.logger.Warn("feed receive failed", logging.Error(err))
			continue
		}
		s.handle(msg)
	}
}

func (s *Subscriber) handle(msg []byte) {
	sep := bytes.IndexByte(msg, '|')
	if sep < 0 || string(msg[:sep]) != SnapshotTopic {
		if s.registry != nil {
			s.registry.FeedDecodeErrors.Inc()
		}
		s.logger.Warn("feed message without snapshot topic", logging.Int("bytes", len(msg)))
		return
	}
	payload := msg[sep+1:]

	snap, err := Decode(payload)
	if err != nil {
		if s.registry != nil {
			s.registry.FeedDecodeErrors.Inc()
		}
		s.logger.Warn("snapshot decode failed", logging.Error(err))
		return
	}

	if s.registry != nil {
		s.registry.RecordSnapshot(len(payload))
	}
	s.logger.Debug("snapshot received",
		logging.SnapshotID(snap.ID.String()),
		logging.Int("devices", len(snap.Devices)))
	s.consumer(snap)
}
