package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

func TestDisplayContext_AddDraw(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 10, 1), "test", 0)

	draws := dl.DrawList()
	if len(draws) != 1 {
		t.Fatalf("AddDraw: expected 1 draw, got %d", len(draws))
	}
	if draws[0].Content != "test" {
		t.Errorf("AddDraw: expected content 'test', got '%s'", draws[0].Content)
	}
}

func TestDisplayContext_HigherZWins(t *testing.T) {
	dl := NewDisplayContext()

	// added front-first so insertion order alone would be wrong
	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "Front", 1)
	dl.AddDraw(cellbuf.Rect(0, 0, 10, 1), "Background", 0)

	output := dl.RenderToString(10, 1)
	if !strings.HasPrefix(output, "Front") {
		t.Errorf("expected 'Front' on top, got: %q", output)
	}
}

func TestDisplayContext_EqualZKeepsInsertionOrder(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "first", 3)
	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "later", 3)

	output := dl.RenderToString(5, 1)
	if !strings.Contains(output, "later") {
		t.Errorf("expected the later draw on top, got: %q", output)
	}
}

func TestDisplayContext_NestedOverlaysStack(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 6, 1), "inner!", OverlayZ(1))
	dl.AddDraw(cellbuf.Rect(0, 0, 6, 1), "outer!", OverlayZ(0))
	dl.AddDraw(cellbuf.Rect(0, 0, 6, 1), "status", ZStatus)

	output := dl.RenderToString(6, 1)
	if !strings.Contains(output, "inner!") {
		t.Errorf("expected nested overlay on top, got: %q", output)
	}
}

func TestDisplayContext_AddFill(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddFill(cellbuf.Rect(0, 0, 3, 2), '.', lipgloss.NewStyle(), 0)
	dl.AddFill(cellbuf.Rect(0, 0, 0, 2), '#', lipgloss.NewStyle(), 1)

	if dl.Len() != 1 {
		t.Fatalf("expected empty fill to be skipped, got %d draws", dl.Len())
	}
	output := dl.RenderToString(3, 2)
	if output != "...\n..." {
		t.Errorf("unexpected fill output: %q", output)
	}
}

func TestEmptyDisplayContext(t *testing.T) {
	dl := NewDisplayContext()
	buf := cellbuf.NewBuffer(10, 1)
	dl.Render(buf)
	_ = cellbuf.Render(buf)
}

func TestDisplayContext_Reuse(t *testing.T) {
	dl := NewDisplayContext()

	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "Frame1", 0)
	if dl.Len() != 1 {
		t.Errorf("Expected 1 op, got %d", dl.Len())
	}

	dl.Clear()
	if dl.Len() != 0 {
		t.Errorf("Expected 0 ops after clear, got %d", dl.Len())
	}

	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "Frame2", 0)
	if dl.Len() != 1 {
		t.Errorf("Expected 1 op after reuse, got %d", dl.Len())
	}
}
