package chunk

import (
	"strings"
	"testing"

	"github.com/hazyhaar/scribe/caption"
)

func cuesEverySecond(n int, text string) []caption.Cue {
	cues := make([]caption.Cue, n)
	for i := range cues {
		cues[i] = caption.Cue{Start: float64(i), Text: text}
	}
	return cues
}

func TestChunk_Empty(t *testing.T) {
	w := NewWindower(Options{})
	if got := w.Chunk(nil, 120); got != nil {
		t.Errorf("empty cues: got %v, want nil", got)
	}
}

func TestChunk_SingleWindow(t *testing.T) {
	// WHAT: Cues within one window become one chunk spanning to duration.
	w := NewWindower(Options{MaxSeconds: 60})
	chunks := w.Chunk(cuesEverySecond(5, "hi"), 30)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Start != 0 || c.End != 30 {
		t.Errorf("span: got [%v,%v], want [0,30]", c.Start, c.End)
	}
	if c.Text != "hi hi hi hi hi" {
		t.Errorf("text: got %q", c.Text)
	}
	if len(c.Cues) != 5 {
		t.Errorf("cues: got %d, want 5", len(c.Cues))
	}
}

func TestChunk_TimeBound(t *testing.T) {
	// WHAT: The window closes when elapsed time reaches MaxSeconds.
	// WHY: Chunks must stay time-addressable at a predictable granularity.
	w := NewWindower(Options{MaxSeconds: 10, MaxChars: 1 << 20})
	chunks := w.Chunk(cuesEverySecond(25, "x"), 25)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	wantStarts := []float64{0, 10, 20}
	for i, c := range chunks {
		if c.Start != wantStarts[i] {
			t.Errorf("chunk[%d].Start: got %v, want %v", i, c.Start, wantStarts[i])
		}
	}
}

func TestChunk_CharBound(t *testing.T) {
	// WHAT: The window also closes when joined text would exceed MaxChars.
	long := strings.Repeat("w", 50)
	w := NewWindower(Options{MaxSeconds: 1 << 20, MaxChars: 120})
	chunks := w.Chunk(cuesEverySecond(6, long), 6)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Text) > 120 {
			t.Errorf("chunk[%d]: %d chars > 120", i, len(c.Text))
		}
	}
}

func TestChunk_GapFree(t *testing.T) {
	// WHAT: Ordered chunks are non-overlapping and span without gaps:
	// each chunk ends exactly where the next begins.
	w := NewWindower(Options{MaxSeconds: 7})
	chunks := w.Chunk(cuesEverySecond(40, "word"), 40)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want >= 2", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i-1].End != chunks[i].Start {
			t.Errorf("gap between chunk[%d] and [%d]: end=%v start=%v",
				i-1, i, chunks[i-1].End, chunks[i].Start)
		}
	}
	last := chunks[len(chunks)-1]
	if last.End != 40 {
		t.Errorf("last end: got %v, want 40", last.End)
	}
}

func TestChunk_UnknownDuration(t *testing.T) {
	// WHAT: With duration 0 the last chunk ends at its final cue's start.
	w := NewWindower(Options{MaxSeconds: 60})
	chunks := w.Chunk(cuesEverySecond(3, "a"), 0)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].End != 2 {
		t.Errorf("end: got %v, want 2", chunks[0].End)
	}
}
