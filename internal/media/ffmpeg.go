package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/utils"
)

var supportedVideoExts = []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"}

// SupportedVideoFormats lists accepted video container extensions.
func SupportedVideoFormats() []string {
	res := make([]string, len(supportedVideoExts))
	copy(res, supportedVideoExts)
	return res
}

// VideoValidation is the outcome of probing a video file. Invalid files are
// reported as data, not as a Go error.
type VideoValidation struct {
	Valid    bool
	Error    string
	Duration float64
	Width    int
	Height   int
	FPS      float64
	Format   string
}

// Extractor validates media files and extracts audio tracks with ffmpeg
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
}

// NewExtractor creates a media extractor
func NewExtractor() *Extractor {
	res := Extractor{ffmpegPath: "ffmpeg", ffprobePath: "ffprobe"}
	goapp.Log.Info().Msg("Extractor")
	return &res
}

// ValidateVideo checks that the file exists, carries a supported extension
// and can be probed.
func (sp *Extractor) ValidateVideo(ctx context.Context, videoPath string) *VideoValidation {
	if _, err := os.Stat(videoPath); err != nil {
		return &VideoValidation{Valid: false, Error: fmt.Sprintf("file does not exist: %s", videoPath)}
	}
	ext := strings.ToLower(filepath.Ext(videoPath))
	if !isSupportedExt(ext) {
		return &VideoValidation{Valid: false,
			Error: fmt.Sprintf("unsupported video format: %s, supported: %s", ext, strings.Join(supportedVideoExts, ", "))}
	}
	info, err := sp.probe(ctx, videoPath)
	if err != nil {
		return &VideoValidation{Valid: false, Error: fmt.Sprintf("can't read video file: %v", err)}
	}
	info.Format = ext
	return info
}

// ExtractAudio writes a mono 16 kHz WAV track of the video. When outPath is
// empty a temp file is created; the caller owns cleanup.
func (sp *Extractor) ExtractAudio(ctx context.Context, videoPath, outPath string) (string, error) {
	defer utils.MeasureTime("extract audio", time.Now())
	if outPath == "" {
		f, err := os.CreateTemp("", "asr-audio-*.wav")
		if err != nil {
			return "", fmt.Errorf("create temp audio: %w", err)
		}
		outPath = f.Name()
		_ = f.Close()
	}
	cmd := exec.CommandContext(ctx, sp.ffmpegPath,
		"-y", "-i", videoPath,
		"-vn",
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	goapp.Log.Info().Str("audio", outPath).Msg("extracted")
	return outPath, nil
}

type probeOut struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (sp *Extractor) probe(ctx context.Context, path string) (*VideoValidation, error) {
	cmd := exec.CommandContext(ctx, sp.ffprobePath,
		"-v", "error",
		"-show_streams", "-show_format",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	var parsed probeOut
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	res := &VideoValidation{Valid: true}
	res.Duration, _ = strconv.ParseFloat(parsed.Format.Duration, 64)
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			res.Width = s.Width
			res.Height = s.Height
			res.FPS = parseFrameRate(s.AvgFrameRate)
			break
		}
	}
	return res, nil
}

// parseFrameRate parses ffprobe's "num/den" rate notation.
func parseFrameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		res, _ := strconv.ParseFloat(s, 64)
		return res
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func isSupportedExt(ext string) bool {
	for _, e := range supportedVideoExts {
		if e == ext {
			return true
		}
	}
	return false
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
