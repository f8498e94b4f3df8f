package feed

import (
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// SnapshotTopic prefixes every snapshot message on the feed.
const SnapshotTopic = "topo.snapshot"

// Socket is the transport-neutral socket the feed publishes and
// receives on.
type Socket interface {
	Send(data []byte) error
	Recv() ([]byte, error)
	Close() error
	Listen(addr string) error
	Dial(addr string) error
	SetRecvDeadline(d time.Duration) error
}

// SubscribeSocket adds topic subscription.
type SubscribeSocket interface {
	Socket
	Subscribe(topic []byte) error
}

// SocketFactory creates the pub/sub socket pair for a transport.
type SocketFactory interface {
	NewPubSocket() (Socket, error)
	NewSubSocket() (SubscribeSocket, error)
}

// nngSocket wraps a mangos.Socket to implement our Socket interface.
type nngSocket struct {
	sock mangos.Socket
}

func (s *nngSocket) Send(data []byte) error {
	return s.sock.Send(data)
}

func (s *nngSocket) Recv() ([]byte, error) {
	return s.sock.Recv()
}

func (s *nngSocket) Close() error {
	return s.sock.Close()
}

func (s *nngSocket) Listen(addr string) error {
	return s.sock.Listen(addr)
}

func (s *nngSocket) Dial(addr string) error {
	return s.sock.Dial(addr)
}

func (s *nngSocket) SetRecvDeadline(d time.Duration) error {
	return s.sock.SetOption(mangos.OptionRecvDeadline, d)
}

// nngSubSocket adds subscription capability.
type nngSubSocket struct {
	nngSocket
}

func (s *nngSubSocket) Subscribe(topic []byte) error {
	return s.sock.SetOption(mangos.OptionSubscribe, topic)
}

// NNGSocketFactory creates NNG/mangos sockets. This is the default
// feed transport.
type NNGSocketFactory struct{}

// NewNNGSocketFactory creates a new NNG socket factory.
func NewNNGSocketFactory() *NNGSocketFactory {
	return &NNGSocketFactory{}
}

func (f *NNGSocketFactory) NewPubSocket() (Socket, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, err
	}
	return &nngSocket{sock: sock}, nil
}

func (f *NNGSocketFactory) NewSubSocket() (SubscribeSocket, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, err
	}
	return &nngSubSocket{nngSocket{sock: sock}}, nil
}
