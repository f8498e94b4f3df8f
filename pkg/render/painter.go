package render

import (
	"math"

	"github.com/dd0wney/cantopo/pkg/topology"
)

// Painter draws one topology frame onto a canvas: connection lines
// first, then every node (fill, accent border, status dot, label).
// It holds no state of its own; the frame carries everything.
type Painter struct {
	palette *topology.Palette
	// SelectionColor emphasizes the border of the selected node.
	SelectionColor string
}

// NewPainter creates a painter using the given palette for status
// indicator colors. Nil falls back to the default palette.
func NewPainter(palette *topology.Palette) *Painter {
	if palette == nil {
		palette = topology.DefaultPalette()
	}
	return &Painter{
		palette:        palette,
		SelectionColor: "#FFFFFF",
	}
}

// Paint clears the canvas and draws the frame under its transform.
// An empty frame leaves the canvas blank; it is not an error.
func (p *Painter) Paint(c Canvas, frame topology.Frame) {
	c.Clear()

	t := frame.Transform

	byID := make(map[string]*topology.Node, len(frame.Nodes))
	for _, n := range frame.Nodes {
		byID[n.ID] = n
	}

	// Connections under nodes. No current discovery path populates
	// them, but the drawing path supports edge data.
	for _, n := range frame.Nodes {
		from := t.WorldToScreen(n.Position)
		for _, peerID := range n.Connections {
			peer, ok := byID[peerID]
			if !ok {
				continue
			}
			to := t.WorldToScreen(peer.Position)
			c.Line(from.X, from.Y, to.X, to.Y, n.AccentColor)
		}
	}

	for _, n := range frame.Nodes {
		center := t.WorldToScreen(n.Position)
		r := n.Radius * t.Scale

		c.FillCircle(center.X, center.Y, r, n.FillColor)

		borderColor := n.AccentColor
		if n.ID == frame.SelectedID {
			borderColor = p.SelectionColor
			c.StrokeCircle(center.X, center.Y, r+2*t.Scale, borderColor)
		}
		c.StrokeCircle(center.X, center.Y, r, borderColor)

		// Status dot sits top-right of the node.
		offset := r * math.Sqrt2 / 2
		c.Dot(center.X+offset, center.Y-offset, p.palette.StatusColor(n.Status))

		c.Text(center.X, center.Y+r+PixelsPerCellY, n.Name, "#CCCCCC")
	}
}
