package pipeline

import (
	"testing"
)

func TestImageWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"board_pinout.png", `0.9\textwidth`},
		{"Block_Diagram.png", `0.9\textwidth`},
		{"dimensions.jpg", `0.6\textwidth`},
		{"schematic.pdf", `\textwidth`},
		{"topology.svg", `0.7\textwidth`},
		{"photo.jpg", `0.8\textwidth`},
	}

	for _, tt := range tests {
		if got := imageWidth(tt.name); got != tt.want {
			t.Errorf("imageWidth(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFigureLabel(t *testing.T) {
	t.Parallel()

	if got := figureLabel("top_view.v2.png"); got != "fig:top-view-v2-png" {
		t.Errorf("figureLabel() = %q", got)
	}
}

func TestImageTransformer_Splitting(t *testing.T) {
	t.Parallel()

	run := newRun(Options{})
	doc := imageTransformer{}.Transform(Segment(`See ![a](x.png "t") and ![b](<y.png>) end`), run)

	if len(doc) != 5 {
		t.Fatalf("len(doc) = %d, want 5: %#v", len(doc), doc)
	}
	if img := doc[1].(Image); img.Alt != "a" || img.RawPath != "x.png" || img.Resolved() {
		t.Errorf("doc[1] = %#v", img)
	}
	if img := doc[3].(Image); img.RawPath != "y.png" {
		t.Errorf("doc[3] = %#v", img)
	}
	if len(run.notes) != 2 {
		t.Errorf("notes = %v, want two", run.notes)
	}
}

func TestImageTransformer_TableRowUntouched(t *testing.T) {
	t.Parallel()

	doc := imageTransformer{}.Transform(Segment("| ![a](x.png) | b |"), newRun(Options{}))
	if _, ok := doc[0].(Raw); !ok || len(doc) != 1 {
		t.Errorf("table row should stay raw: %#v", doc)
	}
}
