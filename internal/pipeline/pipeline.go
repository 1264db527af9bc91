package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/asr"
	"github.com/AfeiFun/ASR/internal/media"
	"github.com/AfeiFun/ASR/internal/subtitle"
	"github.com/AfeiFun/ASR/internal/transcription"
	"github.com/AfeiFun/ASR/internal/utils"
)

// MediaProcessor validates input media and extracts audio tracks.
type MediaProcessor interface {
	ValidateVideo(ctx context.Context, videoPath string) *media.VideoValidation
	ExtractAudio(ctx context.Context, videoPath, outPath string) (string, error)
	ValidateAudio(path string) *media.AudioValidation
}

// Fetcher resolves and downloads remote media.
type Fetcher interface {
	Info(ctx context.Context, url string) (*api.VideoInfo, error)
	DownloadAudio(ctx context.Context, url, dir string) (string, error)
}

// Options tune one pipeline run.
type Options struct {
	Language       string
	BatchSize      int
	WithTimestamps bool
	KeepAudio      bool
}

// Pipeline drives validate -> extract -> recognize -> build. All
// collaborators are injected; the pipeline holds no global state.
type Pipeline struct {
	recognizer asr.Recognizer
	media      MediaProcessor
	fetcher    Fetcher
	builder    *transcription.Builder
}

// New creates a pipeline
func New(recognizer asr.Recognizer, mediaProc MediaProcessor, fetcher Fetcher) (*Pipeline, error) {
	if recognizer == nil {
		return nil, fmt.Errorf("no recognizer")
	}
	if mediaProc == nil {
		return nil, fmt.Errorf("no media processor")
	}
	res := &Pipeline{recognizer: recognizer, media: mediaProc, fetcher: fetcher,
		builder: transcription.NewBuilder()}
	goapp.Log.Info().Msg("Pipeline")
	return res, nil
}

// TranscribeFile transcribes a local video file. Input and extraction
// problems are hard errors; engine-side failures come back as a
// success=false result.
func (sp *Pipeline) TranscribeFile(ctx context.Context, videoPath string, opts Options) (*api.TranscriptionResult, error) {
	defer utils.MeasureTime("transcribe file", time.Now())

	validation := sp.media.ValidateVideo(ctx, videoPath)
	if !validation.Valid {
		return nil, fmt.Errorf("invalid input: %s", validation.Error)
	}
	goapp.Log.Info().Float64("duration", validation.Duration).Float64("fps", validation.FPS).
		Str("file", videoPath).Msg("video ok")

	audioPath, err := sp.media.ExtractAudio(ctx, videoPath, "")
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	defer sp.finishAudio(videoPath, audioPath, opts.KeepAudio)

	if av := sp.media.ValidateAudio(audioPath); !av.Valid {
		return nil, fmt.Errorf("invalid extracted audio: %s", av.Error)
	}
	return sp.recognize(ctx, audioPath, opts), nil
}

// TranscribeURL downloads the audio stream of a remote video and
// transcribes it. The downloaded files are removed afterwards.
func (sp *Pipeline) TranscribeURL(ctx context.Context, url string, opts Options) (*api.TranscriptionResult, error) {
	defer utils.MeasureTime("transcribe url", time.Now())
	if sp.fetcher == nil {
		return nil, fmt.Errorf("no downloader configured")
	}
	info, err := sp.fetcher.Info(ctx, url)
	if err != nil {
		return nil, err
	}
	goapp.Log.Info().Str("title", info.Title).Float64("duration", info.Duration).Msg("resolved")

	dir, err := os.MkdirTemp("", "asr-url-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			goapp.Log.Warn().Err(err).Msg("can't drop download dir")
		}
	}()

	audioPath, err := sp.fetcher.DownloadAudio(ctx, url, dir)
	if err != nil {
		return nil, err
	}
	if av := sp.media.ValidateAudio(audioPath); !av.Valid {
		return nil, fmt.Errorf("invalid downloaded audio: %s", av.Error)
	}
	return sp.recognize(ctx, audioPath, opts), nil
}

func (sp *Pipeline) recognize(ctx context.Context, audioPath string, opts Options) *api.TranscriptionResult {
	raw, err := sp.recognizer.Recognize(ctx, audioPath, asr.Options{
		Language:         opts.Language,
		BatchSize:        opts.BatchSize,
		UseNormalization: true,
	})
	if err != nil {
		goapp.Log.Error().Err(err).Msg("recognition failed")
		return &api.TranscriptionResult{
			Success:  false,
			Error:    fmt.Sprintf("transcription failed: %v", err),
			Segments: []api.Segment{},
		}
	}
	if opts.WithTimestamps {
		return sp.builder.BuildWithTimestamps(raw)
	}
	return sp.builder.Build(raw)
}

// finishAudio keeps the extracted track next to the input when asked,
// otherwise removes it.
func (sp *Pipeline) finishAudio(videoPath, audioPath string, keep bool) {
	if keep {
		target := withSuffix(videoPath, "_audio.wav")
		if err := os.Rename(audioPath, target); err != nil {
			goapp.Log.Warn().Err(err).Msg("can't keep audio file")
			return
		}
		goapp.Log.Info().Str("audio", target).Msg("audio kept")
		return
	}
	if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
		goapp.Log.Warn().Err(err).Msg("can't drop temp audio")
	}
}

// OutputPath derives the default output file for an input path and format:
// `<stem>_transcription<ext>`.
func OutputPath(inputPath, format string) string {
	return withSuffix(inputPath, "_transcription"+subtitle.Extension(format))
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), stem+suffix)
}
