package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cantopo/pkg/topology"
)

// manualScheduler drives frames from the test instead of a ticker.
type manualScheduler struct {
	frames  chan time.Time
	stopped bool
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{frames: make(chan time.Time)}
}

func (s *manualScheduler) Frames() <-chan time.Time { return s.frames }
func (s *manualScheduler) Stop()                    { s.stopped = true }

type staticSource struct {
	frame topology.Frame
}

func (s *staticSource) Frame() topology.Frame { return s.frame }

func TestNewLoopNilCanvasIsNoSurface(t *testing.T) {
	_, err := NewLoop(nil, NewPainter(nil), &staticSource{}, nil)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestLoopPaintsOncePerTick(t *testing.T) {
	canvas := NewCellCanvas(800, 600)
	source := &staticSource{frame: topology.Frame{
		Nodes: []*topology.Node{{
			ID:       "can/a",
			Name:     "a",
			Position: topology.Position{X: 400, Y: 300},
			Radius:   18,
		}},
		Transform: *topology.NewTransform(0, 0, 0),
	}}

	rendered := make(chan string, 4)
	sched := newManualScheduler()
	loop, err := NewLoop(canvas, NewPainter(nil), source,
		func(s string) { rendered <- s },
		WithScheduler(sched))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	sched.frames <- time.Now()
	select {
	case out := <-rendered:
		assert.NotEmpty(t, out)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame rendered after a tick")
	}

	sched.frames <- time.Now()
	select {
	case <-rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame rendered after the second tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
	assert.True(t, sched.stopped, "teardown must stop the scheduler")
}

func TestLoopWithoutRendererCallbackStillPaints(t *testing.T) {
	// A bare recording canvas has no Render method; the loop paints
	// but publishes nothing.
	canvas := &recordingCanvas{}
	sched := newManualScheduler()
	called := false
	loop, err := NewLoop(canvas, NewPainter(nil), &staticSource{},
		func(string) { called = true },
		WithScheduler(sched))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	sched.frames <- time.Now()
	cancel()
	<-done

	assert.False(t, called)
	assert.NotEmpty(t, canvas.byKind("clear"), "paint still ran")
}
