package render

import (
	"math"

	"egg-hunt/internal/scene"
)

const (
	// HeaderRows is the banner pinned to the top of the screen.
	HeaderRows = 1
	// HUDRows is the status area pinned to the bottom.
	HUDRows = 2
)

// Rect is a block of content cells. Row 0 is the first row under the header.
type Rect struct {
	Col, Row int
	W, H     int
}

// Contains reports whether the cell lies inside the rect.
func (r Rect) Contains(col, row int) bool {
	return col >= r.Col && col < r.Col+r.W && row >= r.Row && row < r.Row+r.H
}

// Viewport maps the virtual canvas onto terminal cells. The canvas width is
// spread across all columns; a row is twice as tall as a column is wide, so
// glyphs keep roughly the proportions they have in pixels.
type Viewport struct {
	Cols, Rows  int
	CanvasWidth float64
}

// NewViewport builds a viewport for a cols×rows terminal.
func NewViewport(cols, rows int, canvasWidth float64) Viewport {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if canvasWidth <= 0 {
		canvasWidth = float64(cols)
	}
	return Viewport{Cols: cols, Rows: rows, CanvasWidth: canvasWidth}
}

// ContentRows is the number of rows showing the canvas.
func (v Viewport) ContentRows() int {
	return max(1, v.Rows-HeaderRows-HUDRows)
}

// ColPx is the canvas width of one column.
func (v Viewport) ColPx() float64 {
	return v.CanvasWidth / float64(max(v.Cols, 1))
}

// RowPx is the canvas height of one row.
func (v Viewport) RowPx() float64 {
	return 2 * v.ColPx()
}

// HeightPx is the canvas height visible at once.
func (v Viewport) HeightPx() float64 {
	return float64(v.ContentRows()) * v.RowPx()
}

// MaxOffset is the furthest the canvas can scroll.
func (v Viewport) MaxOffset(canvasHeight float64) float64 {
	return math.Max(0, canvasHeight-v.HeightPx())
}

// ClampOffset keeps offset inside [0, MaxOffset].
func (v Viewport) ClampOffset(offset, canvasHeight float64) float64 {
	return math.Min(math.Max(offset, 0), v.MaxOffset(canvasHeight))
}

// PointAt returns the canvas point at the top-left of a content cell.
func (v Viewport) PointAt(col, row int, offset float64) scene.Point {
	return scene.Point{
		Top:  offset + float64(row)*v.RowPx(),
		Left: float64(col) * v.ColPx(),
	}
}

// Footprint returns the cells an element covers at time t (seconds since
// the session started), including its sway.
func (v Viewport) Footprint(el scene.Element, offset, t float64) Rect {
	p := el.Placement
	size := p.SizePx * p.Scale
	if size <= 0 {
		size = p.SizePx
	}
	dx, dy := Sway(p.Animation, t)
	colPx, rowPx := v.ColPx(), v.RowPx()
	return Rect{
		Col: int(math.Floor((p.Left + dx) / colPx)),
		Row: int(math.Floor((p.Top + dy - offset) / rowPx)),
		W:   max(1, int(math.Round(size/colPx))),
		H:   max(1, int(math.Round(size/rowPx))),
	}
}

// Visible reports whether any part of r lies in the content area.
func (v Viewport) Visible(r Rect) bool {
	return r.Col+r.W > 0 && r.Col < v.Cols && r.Row+r.H > 0 && r.Row < v.ContentRows()
}
