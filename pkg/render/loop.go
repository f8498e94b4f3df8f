package render

import (
	"context"
	"time"

	"github.com/dd0wney/cantopo/pkg/logging"
	"github.com/dd0wney/cantopo/pkg/metrics"
	"github.com/dd0wney/cantopo/pkg/topology"
)

// DefaultFrameInterval targets roughly 30 frames per second.
const DefaultFrameInterval = 33 * time.Millisecond

// Scheduler hands out frame ticks. It exists so tests can drive
// frames manually and so teardown reliably cancels the pending frame.
type Scheduler interface {
	// Frames returns the tick channel.
	Frames() <-chan time.Time
	// Stop cancels the pending frame.
	Stop()
}

// TickerScheduler schedules frames on a fixed interval.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler creates a scheduler at the given interval. Zero
// falls back to the default frame interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{ticker: time.NewTicker(interval)}
}

func (s *TickerScheduler) Frames() <-chan time.Time { return s.ticker.C }
func (s *TickerScheduler) Stop()                    { s.ticker.Stop() }

// FrameSource yields the frame to paint. The loop re-reads it every
// tick so the freshest snapshot and transform state always win.
type FrameSource interface {
	Frame() topology.Frame
}

// Loop is the continuous redraw cycle. Every tick it reads the latest
// frame from its source, paints it, and publishes the rendered output.
// It reads view state by reference and never owns or mutates it.
type Loop struct {
	canvas    Canvas
	painter   *Painter
	source    FrameSource
	scheduler Scheduler
	onFrame   func(rendered string)
	logger    logging.Logger
	registry  *metrics.Registry
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithScheduler overrides the default ticker scheduler.
func WithScheduler(s Scheduler) LoopOption {
	return func(l *Loop) { l.scheduler = s }
}

// WithLogger sets the loop logger.
func WithLogger(logger logging.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// WithMetrics attaches a metrics registry for frame accounting.
func WithMetrics(r *metrics.Registry) LoopOption {
	return func(l *Loop) { l.registry = r }
}

// Renderer is the subset of Canvas implementations that can flatten
// themselves to displayable output.
type Renderer interface {
	Render() string
}

// NewLoop creates a render loop. A nil canvas is the
// capability-unavailable condition: it returns ErrNoSurface instead
// of starting a loop that would paint nothing, since that would
// otherwise produce a blank, unexplained dashboard.
func NewLoop(canvas Canvas, painter *Painter, source FrameSource, onFrame func(string), opts ...LoopOption) (*Loop, error) {
	if canvas == nil {
		return nil, ErrNoSurface
	}
	l := &Loop{
		canvas:  canvas,
		painter: painter,
		source:  source,
		onFrame: onFrame,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.scheduler == nil {
		l.scheduler = NewTickerScheduler(DefaultFrameInterval)
	}
	return l, nil
}

// Run paints frames until the context is canceled. Cancellation stops
// the scheduler, which cancels the pending frame request.
func (l *Loop) Run(ctx context.Context) {
	defer l.scheduler.Stop()
	l.logger.Debug("render loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("render loop torn down")
			return
		case <-l.scheduler.Frames():
			l.paintFrame()
		}
	}
}

func (l *Loop) paintFrame() {
	start := time.Now()
	frame := l.source.Frame()
	l.painter.Paint(l.canvas, frame)

	if l.onFrame != nil {
		if r, ok := l.canvas.(Renderer); ok {
			l.onFrame(r.Render())
		}
	}

	if l.registry != nil {
		l.registry.RecordFrame(time.Since(start), len(frame.Nodes))
		if !frame.TakenAt.IsZero() {
			l.registry.SetSnapshotAge(time.Since(frame.TakenAt))
		}
	}
}
