package download

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/utils"
)

var illegalFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Downloader fetches remote video/audio via the yt-dlp executable
type Downloader struct {
	ytDlpPath   string
	infoTimeout time.Duration
	dlTimeout   time.Duration
}

// NewDownloader creates a yt-dlp backed downloader
func NewDownloader(ytDlpPath string) *Downloader {
	if ytDlpPath == "" {
		ytDlpPath = "yt-dlp"
	}
	res := Downloader{ytDlpPath: ytDlpPath, infoTimeout: 30 * time.Second, dlTimeout: 30 * time.Minute}
	goapp.Log.Info().Str("yt-dlp", ytDlpPath).Msg("Downloader")
	return &res
}

// Check probes the yt-dlp executable and returns its version.
func (sp *Downloader) Check(ctx context.Context) (string, error) {
	ctx, cancelF := context.WithTimeout(ctx, 10*time.Second)
	defer cancelF()
	out, err := exec.CommandContext(ctx, sp.ytDlpPath, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp not available: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Info resolves URL metadata without downloading.
func (sp *Downloader) Info(ctx context.Context, rawURL string) (*api.VideoInfo, error) {
	defer utils.MeasureTime("video info", time.Now())
	ctx, cancelF := context.WithTimeout(ctx, sp.infoTimeout)
	defer cancelF()

	cmd := exec.CommandContext(ctx, sp.ytDlpPath, "--no-download", "--dump-json", "--no-warnings", rawURL)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("can't get video info: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("can't get video info: %w", err)
	}
	info := &api.VideoInfo{}
	if err := json.Unmarshal(out, info); err != nil {
		return nil, fmt.Errorf("parse video info: %w", err)
	}
	if info.Title == "" {
		info.Title = "Unknown Title"
	}
	if info.WebpageURL == "" {
		info.WebpageURL = rawURL
	}
	if utf8.RuneCountInString(info.Description) > 500 {
		info.Description = string([]rune(info.Description)[:500]) + "..."
	}
	return info, nil
}

// DownloadAudio fetches an audio-only WAV stream into dir (a fresh temp dir
// when empty) and returns the downloaded file path.
func (sp *Downloader) DownloadAudio(ctx context.Context, rawURL, dir string) (string, error) {
	defer utils.MeasureTime("download audio", time.Now())
	info, err := sp.Info(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir, err = os.MkdirTemp("", "asr-download-")
		if err != nil {
			return "", fmt.Errorf("create download dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	safeTitle := SanitizeFilename(info.Title)
	template := filepath.Join(dir, safeTitle+".%(ext)s")

	ctx, cancelF := context.WithTimeout(ctx, sp.dlTimeout)
	defer cancelF()
	cmd := exec.CommandContext(ctx, sp.ytDlpPath,
		"-o", template,
		"--no-warnings",
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		rawURL,
	)
	goapp.Log.Info().Str("title", info.Title).Msg("downloading audio")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("download failed: %w: %s", err, tail(string(out)))
	}
	files, err := filepath.Glob(filepath.Join(dir, safeTitle+".*"))
	if err != nil || len(files) == 0 {
		return "", fmt.Errorf("downloaded file not found in %s", dir)
	}
	goapp.Log.Info().Str("file", files[0]).Msg("downloaded")
	return files[0], nil
}

// IsSupportedURL reports whether the URL looks fetchable: parses as an
// absolute URL and resolves to a titled video.
func (sp *Downloader) IsSupportedURL(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	info, err := sp.Info(ctx, rawURL)
	return err == nil && info.Title != ""
}

// SanitizeFilename strips characters that are illegal in file names, caps
// length at 200 and never returns an empty name.
func SanitizeFilename(name string) string {
	res := illegalFileChars.ReplaceAllString(name, "_")
	if utf8.RuneCountInString(res) > 200 {
		res = string([]rune(res)[:200])
	}
	res = strings.TrimSpace(res)
	if res == "" {
		res = "video"
	}
	return res
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, " | ")
}
