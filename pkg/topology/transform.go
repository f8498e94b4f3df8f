package topology

// Transform defaults; exposed as configuration, not hardcoded in the
// operations below.
const (
	DefaultMinScale = 0.3
	DefaultMaxScale = 3.0
	// DefaultZoomStep is chosen so roughly six clicks traverse the
	// full scale range.
	DefaultZoomStep = 1.2
)

// Transform maintains the zoom scale and pan offset, and converts
// between world space (layout coordinates) and screen space (canvas
// pixels) in both directions.
type Transform struct {
	Scale float64
	PanX  float64
	PanY  float64

	minScale float64
	maxScale float64
	zoomStep float64
}

// NewTransform creates a transform at unity scale with the given
// bounds. Zero bounds fall back to the defaults.
func NewTransform(minScale, maxScale, zoomStep float64) *Transform {
	if minScale == 0 {
		minScale = DefaultMinScale
	}
	if maxScale == 0 {
		maxScale = DefaultMaxScale
	}
	if zoomStep == 0 {
		zoomStep = DefaultZoomStep
	}
	return &Transform{
		Scale:    1,
		minScale: minScale,
		maxScale: maxScale,
		zoomStep: zoomStep,
	}
}

// WorldToScreen maps a world-space point to screen space.
func (t *Transform) WorldToScreen(p Position) Position {
	return Position{
		X: p.X*t.Scale + t.PanX,
		Y: p.Y*t.Scale + t.PanY,
	}
}

// ScreenToWorld maps a screen-space point back to world space.
func (t *Transform) ScreenToWorld(p Position) Position {
	return Position{
		X: (p.X - t.PanX) / t.Scale,
		Y: (p.Y - t.PanY) / t.Scale,
	}
}

// ZoomIn increases scale by one step, clamped to the maximum.
func (t *Transform) ZoomIn() {
	t.Scale = min(t.Scale*t.zoomStep, t.maxScale)
}

// ZoomOut decreases scale by one step, clamped to the minimum.
func (t *Transform) ZoomOut() {
	t.Scale = max(t.Scale/t.zoomStep, t.minScale)
}

// PanBy shifts the pan offset in screen pixels.
func (t *Transform) PanBy(dx, dy float64) {
	t.PanX += dx
	t.PanY += dy
}

// Reset restores unity scale and zero pan. Selection clearing is the
// view's responsibility; see View.ResetView.
func (t *Transform) Reset() {
	t.Scale = 1
	t.PanX = 0
	t.PanY = 0
}
