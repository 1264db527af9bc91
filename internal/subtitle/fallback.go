package subtitle

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/airenas/go-app/pkg/goapp"
)

var sentenceEndRe = regexp.MustCompile(`[。！？.!?]`)

const (
	minSentenceSeconds  = 2.0
	secondsPerChar      = 0.4
	sentenceTerminators = "。！？.!?"
	restoredTerminator  = "。"
)

// TimedSentence is a sentence with synthesized timing, seconds.
type TimedSentence struct {
	Text  string
	Start float64
	End   float64
}

// SentenceSplitter synthesizes subtitle timing for transcripts that carry no
// timestamps at all
type SentenceSplitter struct {
}

// NewSentenceSplitter creates a fallback sentence splitter
func NewSentenceSplitter() *SentenceSplitter {
	res := SentenceSplitter{}
	goapp.Log.Info().Msg("SentenceSplitter")
	return &res
}

// SplitAndEstimate splits text on sentence-ending punctuation and assigns
// sequential timing from zero: each sentence lasts at least 2 s, longer ones
// 0.4 s per character. The timing is approximate by construction and must
// not be confused with engine-measured timestamps.
func (sp *SentenceSplitter) SplitAndEstimate(fullText string) []TimedSentence {
	var res []TimedSentence
	clock := 0.0
	for _, part := range sentenceEndRe.Split(fullText, -1) {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		duration := float64(utf8.RuneCountInString(sentence)) * secondsPerChar
		if duration < minSentenceSeconds {
			duration = minSentenceSeconds
		}
		if !endsWithTerminator(sentence) {
			sentence += restoredTerminator
		}
		res = append(res, TimedSentence{Text: sentence, Start: clock, End: clock + duration})
		clock += duration
	}
	return res
}

func endsWithTerminator(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	return last != utf8.RuneError && strings.ContainsRune(sentenceTerminators, last)
}
