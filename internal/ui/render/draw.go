package render

import (
	"github.com/charmbracelet/x/cellbuf"
)

// Draw is a single content rendering operation.
type Draw struct {
	Rect    cellbuf.Rectangle // area to draw in
	Content string            // rendered ANSI string
	Z       int               // lower = back, higher = front
}
