package render

import (
	"errors"
)

// ErrNoSurface is returned when no drawing surface is available. The
// render loop refuses to start in that case so a blank dashboard is
// reported upward instead of silently ignored.
var ErrNoSurface = errors.New("render: no drawing surface available")

// Canvas is a 2D drawing surface in screen-space pixels. Coordinates
// outside the surface are clipped, not errors.
type Canvas interface {
	// Clear erases the surface.
	Clear()
	// Size returns the surface dimensions in pixels.
	Size() (w, h float64)
	// FillCircle draws a filled disc.
	FillCircle(cx, cy, r float64, color string)
	// StrokeCircle draws a circle outline.
	StrokeCircle(cx, cy, r float64, color string)
	// Dot draws a single small marker.
	Dot(cx, cy float64, color string)
	// Line draws a straight segment.
	Line(x1, y1, x2, y2 float64, color string)
	// Text draws a label centered horizontally on x at baseline y.
	Text(x, y float64, s, color string)
}
