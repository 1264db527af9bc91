package transcription

import (
	"time"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/utils"
)

// Builder turns a raw engine result into a TranscriptionResult
type Builder struct {
	cleaner   *Cleaner
	segmenter *Segmenter
}

// NewBuilder creates a result builder
func NewBuilder() *Builder {
	res := Builder{cleaner: NewCleaner(), segmenter: NewSegmenter()}
	goapp.Log.Info().Msg("Builder")
	return &res
}

// Build assembles the final result. An engine result with no text at all is
// reported as success=false with an error string, not as a Go error: the
// caller branches on data.
func (sp *Builder) Build(raw *api.RawResult) *api.TranscriptionResult {
	defer utils.MeasureTime("build result", time.Now())
	if raw == nil || raw.Text == "" {
		return &api.TranscriptionResult{
			Success:  false,
			Error:    "no transcription result from engine",
			Text:     "",
			Segments: []api.Segment{},
		}
	}
	cleaned := sp.cleaner.Clean(raw.Text)
	segments := sp.segmenter.Segment(raw.Timestamp, raw.Words)
	if segments == nil {
		segments = []api.Segment{}
	}
	lang := raw.Language
	if lang == "" {
		lang = "unknown"
	}
	return &api.TranscriptionResult{
		Success:    true,
		Text:       cleaned,
		Segments:   segments,
		Language:   lang,
		Duration:   raw.Duration,
		Confidence: raw.Confidence,
	}
}

// BuildWithTimestamps additionally attaches the flattened 1-based
// formatted-segment view used for subtitle rendering.
func (sp *Builder) BuildWithTimestamps(raw *api.RawResult) *api.TranscriptionResult {
	res := sp.Build(raw)
	if !res.Success || len(res.Segments) == 0 {
		return res
	}
	formatted := make([]api.FormattedSegment, 0, len(res.Segments))
	for i, seg := range res.Segments {
		formatted = append(formatted, api.FormattedSegment{
			Index:     i + 1,
			StartTime: seg.Start,
			EndTime:   seg.End,
			Text:      seg.Text,
		})
	}
	res.FormattedSegments = formatted
	return res
}

// SupportedLanguages lists language hints accepted by the engine.
func SupportedLanguages() []string {
	return []string{"auto", "zh", "en", "ja", "ko", "es", "fr", "de", "it", "pt", "ru"}
}
