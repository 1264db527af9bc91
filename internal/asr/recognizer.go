package asr

import (
	"context"

	"github.com/AfeiFun/ASR/internal/api"
)

// Options tune one recognition call.
type Options struct {
	// Language is a hint ("auto" lets the engine detect).
	Language string
	// BatchSize is the engine batching size in seconds of audio.
	BatchSize int
	// UseNormalization asks the engine for inverse text normalization.
	UseNormalization bool
}

// Recognizer turns an audio file into a raw engine result.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string, opts Options) (*api.RawResult, error)
}
