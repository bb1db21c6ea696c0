package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// DisplayContext collects the draws of one frame and paints them by Z-index.
type DisplayContext struct {
	draws []drawOp
	order int
}

func NewDisplayContext() *DisplayContext {
	return &DisplayContext{draws: make([]drawOp, 0, 16)}
}

func (dl *DisplayContext) AddDraw(rect cellbuf.Rectangle, content string, z int) {
	dl.order++
	dl.draws = append(dl.draws, drawOp{
		Draw:  Draw{Rect: rect, Content: content, Z: z},
		order: dl.order,
	})
}

// AddFill fills a rectangle with the provided rune and style.
func (dl *DisplayContext) AddFill(rect cellbuf.Rectangle, ch rune, style lipgloss.Style, z int) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return
	}
	line := style.Render(strings.Repeat(string(ch), rect.Dx()))
	lines := make([]string, rect.Dy())
	for i := range lines {
		lines[i] = line
	}
	dl.AddDraw(rect, strings.Join(lines, "\n"), z)
}

func (dl *DisplayContext) Clear() {
	dl.draws = dl.draws[:0]
	dl.order = 0
}

// Render paints the draws onto buf, lowest Z first. Draws with equal Z keep
// the order they were added in.
func (dl *DisplayContext) Render(buf *cellbuf.Buffer) {
	ops := make([]drawOp, len(dl.draws))
	copy(ops, dl.draws)
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Z != ops[j].Z {
			return ops[i].Z < ops[j].Z
		}
		return ops[i].order < ops[j].order
	})
	for _, op := range ops {
		cellbuf.SetContentRect(buf, op.Content, op.Rect)
	}
}

func (dl *DisplayContext) RenderToString(width, height int) string {
	buf := cellbuf.NewBuffer(width, height)
	dl.Render(buf)
	return strings.ReplaceAll(cellbuf.Render(buf), "\r", "")
}

// DrawList returns a copy of all draws in insertion order.
func (dl *DisplayContext) DrawList() []Draw {
	result := make([]Draw, len(dl.draws))
	for i, op := range dl.draws {
		result[i] = op.Draw
	}
	return result
}

func (dl *DisplayContext) Len() int {
	return len(dl.draws)
}

type drawOp struct {
	Draw
	order int
}
