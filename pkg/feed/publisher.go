package feed

import (
	"fmt"

	"github.com/dd0wney/cantopo/pkg/logging"
)

// Publisher broadcasts snapshots on a pub socket. One publisher per
// bus network; subscribers that miss messages just catch the next
// snapshot, so there is no retransmission.
type Publisher struct {
	sock   Socket
	logger logging.Logger
}

// NewPublisher creates a publisher listening on addr.
func NewPublisher(factory SocketFactory, addr string, logger logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sock, err := factory.NewPubSocket()
	if err != nil {
		return nil, fmt.Errorf("create pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	logger.Info("snapshot publisher listening", logging.Addr(addr))
	return &Publisher{sock: sock, logger: logger}, nil
}

// Publish encodes and broadcasts one snapshot.
func (p *Publisher) Publish(s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	msg := append([]byte(SnapshotTopic+"|"), data...)
	if err := p.sock.Send(msg); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	p.logger.Debug("snapshot published",
		logging.SnapshotID(s.ID.String()),
		logging.Int("devices", len(s.Devices)),
		logging.Int("bytes", len(msg)))
	return nil
}

// Close closes the underlying socket.
func (p *Publisher) Close() error {
	return p.sock.Close()
}
