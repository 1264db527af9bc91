package transcription

import (
	"strings"
	"unicode/utf8"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
)

// terminal marks close the current segment. Commas are included on purpose:
// the engine's cues are short sub-sentence fragments, which reads better on
// screen for dense scripts. Revisit if cue granularity becomes a problem.
const terminalMarks = "。！？.!?,，"

// Segmenter groups a parallel word/timestamp stream into
// punctuation-delimited segments
type Segmenter struct {
}

// NewSegmenter creates a segmenter
func NewSegmenter() *Segmenter {
	res := Segmenter{}
	goapp.Log.Info().Msg("Segmenter")
	return &res
}

// Segment scans words and timestamps in lockstep and emits a segment at
// every terminal punctuation mark and at the end of the stream. Timestamps
// are [startMs, endMs] pairs. Segmentation is best effort: missing or
// mismatched inputs return an empty list, never an error.
func (sp *Segmenter) Segment(timestamps [][]int, words []string) []api.Segment {
	if len(timestamps) == 0 || len(words) == 0 || len(timestamps) != len(words) {
		goapp.Log.Debug().Int("timestamps", len(timestamps)).Int("words", len(words)).
			Msg("no usable timing data, skip segmentation")
		return nil
	}

	var res []api.Segment
	current := api.Segment{}
	for i, word := range words {
		if IsMarkup(word) {
			continue
		}
		ts := timestamps[i]
		if len(ts) < 2 {
			continue
		}
		startSec := float64(ts[0]) / 1000.0
		endSec := float64(ts[1]) / 1000.0

		if !current.HasTiming {
			current.Start = startSec
			current.HasTiming = true
		}
		// no separator between words: scripts like Chinese carry none
		current.Text += word
		current.End = endSec
		current.Words = append(current.Words, api.WordTiming{Word: word, Start: startSec, End: endSec})

		if isTerminal(word) || i == len(words)-1 {
			if strings.TrimSpace(current.Text) != "" {
				res = append(res, current)
			}
			current = api.Segment{}
		}
	}
	return res
}

func isTerminal(word string) bool {
	return utf8.RuneCountInString(word) == 1 && strings.Contains(terminalMarks, word)
}
