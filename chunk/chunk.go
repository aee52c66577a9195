// CLAUDE:SUMMARY Groups parsed cues into non-overlapping, gap-free, time-bounded retrieval chunks.
// Package chunk groups caption cues into the time-bounded units that get
// embedded, stored and searched. The grouping policy is a pluggable
// Strategy; Windower is the default deterministic one.
package chunk

import (
	"strings"

	"github.com/hazyhaar/scribe/caption"
)

// Chunk is a contiguous, time-bounded slice of a transcript.
type Chunk struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Cues  []caption.Cue `json:"cues,omitempty"`
}

// Strategy turns an ordered cue sequence into non-overlapping chunks that
// collectively span the transcript without gaps. totalDuration bounds the
// last chunk's end; pass 0 when the video duration is unknown.
type Strategy interface {
	Chunk(cues []caption.Cue, totalDuration float64) []Chunk
}

// Options bound the default windowing strategy. A window closes as soon
// as adding the next cue would exceed either limit.
type Options struct {
	MaxSeconds float64 `json:"max_seconds" yaml:"max_seconds"`
	MaxChars   int     `json:"max_chars" yaml:"max_chars"`
}

func (o *Options) defaults() {
	if o.MaxSeconds <= 0 {
		o.MaxSeconds = 60
	}
	if o.MaxChars <= 0 {
		o.MaxChars = 1200
	}
}

// Windower accumulates consecutive cues into one chunk until the elapsed
// time or the accumulated text would exceed the configured bounds. Each
// chunk's end time is the next chunk's start; the last chunk ends at
// totalDuration (or its last cue's start when the duration is unknown).
type Windower struct {
	opts Options
}

// NewWindower creates the default chunking strategy.
func NewWindower(opts Options) *Windower {
	opts.defaults()
	return &Windower{opts: opts}
}

// Chunk implements Strategy.
func (w *Windower) Chunk(cues []caption.Cue, totalDuration float64) []Chunk {
	if len(cues) == 0 {
		return nil
	}

	var chunks []Chunk
	var group []caption.Cue
	chars := 0

	flush := func() {
		if len(group) == 0 {
			return
		}
		texts := make([]string, len(group))
		for i, c := range group {
			texts[i] = c.Text
		}
		chunks = append(chunks, Chunk{
			Text:  strings.Join(texts, " "),
			Start: group[0].Start,
			Cues:  group,
		})
		group = nil
		chars = 0
	}

	for _, cue := range cues {
		if len(group) > 0 {
			elapsed := cue.Start - group[0].Start
			if elapsed >= w.opts.MaxSeconds || chars+1+len(cue.Text) > w.opts.MaxChars {
				flush()
			}
		}
		if len(group) > 0 {
			chars++ // joining space
		}
		group = append(group, cue)
		chars += len(cue.Text)
	}
	flush()

	// Derive end times: each chunk ends where the next begins, the last
	// one at the video duration when known.
	for i := range chunks {
		switch {
		case i+1 < len(chunks):
			chunks[i].End = chunks[i+1].Start
		case totalDuration > chunks[i].Start:
			chunks[i].End = totalDuration
		default:
			chunks[i].End = chunks[i].Cues[len(chunks[i].Cues)-1].Start
		}
	}
	return chunks
}
