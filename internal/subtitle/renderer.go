package subtitle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
)

// Output formats.
const (
	FormatText = "text"
	FormatSRT  = "srt"
	FormatVTT  = "vtt"
	FormatJSON = "json"
)

// Formats lists supported render formats.
func Formats() []string {
	return []string{FormatText, FormatSRT, FormatVTT, FormatJSON}
}

// Extension returns the output file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatJSON:
		return ".json"
	}
	return ".txt"
}

// cue is one timed subtitle block ready for rendering.
type cue struct {
	index int
	start float64
	end   float64
	text  string
}

// cueSource yields cues from one timing source. Sources are consulted in
// strict order; the first non-empty one wins.
type cueSource func(res *api.TranscriptionResult) []cue

// Renderer emits a TranscriptionResult in one of the supported formats
type Renderer struct {
	splitter *SentenceSplitter
	sources  []cueSource
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	res := Renderer{splitter: NewSentenceSplitter()}
	res.sources = []cueSource{res.formattedCues, res.segmentCues, res.fallbackCues}
	goapp.Log.Info().Msg("Renderer")
	return &res
}

// Render produces the final output string. A failed result renders as an
// error message for text/srt/vtt; JSON always serializes the result as-is,
// so callers wanting structured error data should request JSON. An unknown
// format falls back to plain text. Render never returns a Go error: any
// internal failure comes back as a displayable message.
func (sp *Renderer) Render(res *api.TranscriptionResult, format string) string {
	if format == FormatJSON {
		return sp.renderJSON(res)
	}
	if !res.Success {
		return fmt.Sprintf("transcription failed: %s", errorText(res))
	}
	switch format {
	case FormatSRT:
		return sp.renderSRT(res)
	case FormatVTT:
		return sp.renderVTT(res)
	case FormatText:
		return res.Text
	}
	goapp.Log.Warn().Str("format", format).Msg("unknown format, render as text")
	return res.Text
}

func errorText(res *api.TranscriptionResult) string {
	if res.Error != "" {
		return res.Error
	}
	return "unknown error"
}

func (sp *Renderer) renderSRT(res *api.TranscriptionResult) string {
	var b strings.Builder
	for _, c := range sp.cues(res) {
		fmt.Fprintf(&b, "%d\n", c.index)
		fmt.Fprintf(&b, "%s --> %s\n", ToSrtTime(c.start), ToSrtTime(c.end))
		fmt.Fprintf(&b, "%s\n\n", c.text)
	}
	return b.String()
}

func (sp *Renderer) renderVTT(res *api.TranscriptionResult) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range sp.cues(res) {
		fmt.Fprintf(&b, "%s --> %s\n", ToVttTime(c.start), ToVttTime(c.end))
		fmt.Fprintf(&b, "%s\n\n", c.text)
	}
	return b.String()
}

// cues queries the tiered sources in priority order: formatted segments,
// then raw segments, then the synthetic full-text fallback.
func (sp *Renderer) cues(res *api.TranscriptionResult) []cue {
	for _, source := range sp.sources {
		if cs := source(res); len(cs) > 0 {
			return cs
		}
	}
	return nil
}

func (sp *Renderer) formattedCues(res *api.TranscriptionResult) []cue {
	cues := make([]cue, 0, len(res.FormattedSegments))
	for _, fs := range res.FormattedSegments {
		cues = append(cues, cue{index: fs.Index, start: fs.StartTime, end: fs.EndTime, text: fs.Text})
	}
	return cues
}

func (sp *Renderer) segmentCues(res *api.TranscriptionResult) []cue {
	cues := make([]cue, 0, len(res.Segments))
	for i, seg := range res.Segments {
		cues = append(cues, cue{index: i + 1, start: seg.Start, end: seg.End, text: seg.Text})
	}
	return cues
}

func (sp *Renderer) fallbackCues(res *api.TranscriptionResult) []cue {
	sentences := sp.splitter.SplitAndEstimate(res.Text)
	cues := make([]cue, 0, len(sentences))
	for i, s := range sentences {
		cues = append(cues, cue{index: i + 1, start: s.Start, end: s.End, text: s.Text})
	}
	return cues
}

// renderJSON serializes the whole result, UTF-8 with non-ASCII preserved,
// 2-space indentation.
func (sp *Renderer) renderJSON(res *api.TranscriptionResult) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		goapp.Log.Error().Err(err).Msg("can't serialize result")
		return fmt.Sprintf("transcription failed: %s", err.Error())
	}
	return strings.TrimRight(buf.String(), "\n")
}
