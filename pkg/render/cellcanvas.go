package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell aspect: terminal cells are roughly twice as tall as wide, so a
// virtual pixel space of 8x16 px per cell keeps circles round.
const (
	PixelsPerCellX = 8.0
	PixelsPerCellY = 16.0
)

type cell struct {
	r     rune
	color string
}

// CellCanvas renders a virtual pixel space onto a terminal cell grid
// with lipgloss-colored runes. It implements Canvas.
type CellCanvas struct {
	pxW, pxH float64
	cols     int
	rows     int
	cells    []cell
}

// NewCellCanvas creates a canvas covering the given virtual pixel
// dimensions.
func NewCellCanvas(pxW, pxH float64) *CellCanvas {
	cols := int(math.Ceil(pxW / PixelsPerCellX))
	rows := int(math.Ceil(pxH / PixelsPerCellY))
	return &CellCanvas{
		pxW:   pxW,
		pxH:   pxH,
		cols:  cols,
		rows:  rows,
		cells: make([]cell, cols*rows),
	}
}

// Cols returns the grid width in cells.
func (c *CellCanvas) Cols() int { return c.cols }

// Rows returns the grid height in cells.
func (c *CellCanvas) Rows() int { return c.rows }

// CellToPixel maps a terminal cell coordinate to the virtual pixel at
// its center. Pointer events arrive in cells; hit-testing wants
// pixels.
func (c *CellCanvas) CellToPixel(col, row int) (x, y float64) {
	return float64(col)*PixelsPerCellX + PixelsPerCellX/2,
		float64(row)*PixelsPerCellY + PixelsPerCellY/2
}

// Clear erases the grid.
func (c *CellCanvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{}
	}
}

// Size returns the virtual pixel dimensions.
func (c *CellCanvas) Size() (float64, float64) {
	return c.pxW, c.pxH
}

func (c *CellCanvas) set(col, row int, r rune, color string) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = cell{r: r, color: color}
}

func (c *CellCanvas) setPixel(x, y float64, r rune, color string) {
	c.set(int(x/PixelsPerCellX), int(y/PixelsPerCellY), r, color)
}

// FillCircle draws a filled disc by testing each covered cell's pixel
// center against the radius.
func (c *CellCanvas) FillCircle(cx, cy, r float64, color string) {
	minCol := int((cx - r) / PixelsPerCellX)
	maxCol := int((cx + r) / PixelsPerCellX)
	minRow := int((cy - r) / PixelsPerCellY)
	maxRow := int((cy + r) / PixelsPerCellY)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			px, py := c.CellToPixel(col, row)
			if math.Hypot(px-cx, py-cy) <= r {
				c.set(col, row, '█', color)
			}
		}
	}
}

// StrokeCircle draws a circle outline by sampling the circumference.
func (c *CellCanvas) StrokeCircle(cx, cy, r float64, color string) {
	// Sample density proportional to circumference in cells.
	steps := int(math.Max(16, r))
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		c.setPixel(cx+r*math.Cos(a), cy+r*math.Sin(a), '▒', color)
	}
}

// Dot draws a single-cell marker.
func (c *CellCanvas) Dot(cx, cy float64, color string) {
	c.setPixel(cx, cy, '●', color)
}

// Line draws a segment by stepping one cell-width at a time.
func (c *CellCanvas) Line(x1, y1, x2, y2 float64, color string) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		c.setPixel(x1, y1, '·', color)
		return
	}
	steps := int(dist/math.Min(PixelsPerCellX, PixelsPerCellY)*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.setPixel(x1+dx*t, y1+dy*t, '·', color)
	}
}

// Text draws a label centered horizontally on x.
func (c *CellCanvas) Text(x, y float64, s, color string) {
	runes := []rune(s)
	row := int(y / PixelsPerCellY)
	startCol := int(x/PixelsPerCellX) - len(runes)/2
	for i, r := range runes {
		c.set(startCol+i, row, r, color)
	}
}

// Render flattens the grid to a lipgloss-styled string, batching runs
// of same-colored cells to keep the output compact.
func (c *CellCanvas) Render() string {
	var out strings.Builder
	var run strings.Builder
	for row := 0; row < c.rows; row++ {
		runColor := ""
		run.Reset()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			r := cl.r
			if r == 0 {
				r = ' '
			}
			if cl.color != runColor {
				flush()
				runColor = cl.color
			}
			run.WriteRune(r)
		}
		flush()
		if row < c.rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
