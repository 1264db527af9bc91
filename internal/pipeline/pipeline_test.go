package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/asr"
	"github.com/AfeiFun/ASR/internal/media"
)

type fakeRecognizer struct {
	raw      *api.RawResult
	err      error
	gotPath  string
	gotOpts  asr.Options
}

func (f *fakeRecognizer) Recognize(_ context.Context, audioPath string, opts asr.Options) (*api.RawResult, error) {
	f.gotPath = audioPath
	f.gotOpts = opts
	return f.raw, f.err
}

type fakeMedia struct {
	videoValid bool
	audioValid bool
	extracted  string
	extractErr error
}

func (f *fakeMedia) ValidateVideo(_ context.Context, videoPath string) *media.VideoValidation {
	if !f.videoValid {
		return &media.VideoValidation{Valid: false, Error: "bad video"}
	}
	return &media.VideoValidation{Valid: true, Duration: 10, FPS: 25}
}

func (f *fakeMedia) ExtractAudio(_ context.Context, videoPath, outPath string) (string, error) {
	return f.extracted, f.extractErr
}

func (f *fakeMedia) ValidateAudio(path string) *media.AudioValidation {
	if !f.audioValid {
		return &media.AudioValidation{Valid: false, Error: "bad audio"}
	}
	return &media.AudioValidation{Valid: true, Duration: 10, SampleRate: 16000, Channels: 1}
}

type fakeFetcher struct {
	info    *api.VideoInfo
	infoErr error
	audio   string
	dlErr   error
}

func (f *fakeFetcher) Info(_ context.Context, url string) (*api.VideoInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeFetcher) DownloadAudio(_ context.Context, url, dir string) (string, error) {
	return f.audio, f.dlErr
}

func tempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipeline_TranscribeFile(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "<|zh|>你好。", Language: "zh"}}
	m := &fakeMedia{videoValid: true, audioValid: true, extracted: tempAudio(t)}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	res, err := p.TranscribeFile(context.Background(), "in.mp4", Options{Language: "zh"})
	if err != nil {
		t.Fatalf("TranscribeFile() failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("result failed: %s", res.Error)
	}
	if res.Text != "你好。" {
		t.Errorf("Text = %q, want 你好。", res.Text)
	}
	if rec.gotOpts.Language != "zh" || !rec.gotOpts.UseNormalization {
		t.Errorf("engine opts = %+v", rec.gotOpts)
	}
}

func TestPipeline_TranscribeFile_InvalidVideo(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "x"}}
	m := &fakeMedia{videoValid: false}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := p.TranscribeFile(context.Background(), "in.mp4", Options{}); err == nil {
		t.Error("TranscribeFile() succeeded with invalid video")
	}
}

func TestPipeline_TranscribeFile_ExtractError(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "x"}}
	m := &fakeMedia{videoValid: true, extractErr: fmt.Errorf("no audio track")}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := p.TranscribeFile(context.Background(), "in.mp4", Options{}); err == nil {
		t.Error("TranscribeFile() succeeded with extraction failure")
	}
}

func TestPipeline_TranscribeFile_EngineErrorAsData(t *testing.T) {
	rec := &fakeRecognizer{err: fmt.Errorf("engine down")}
	m := &fakeMedia{videoValid: true, audioValid: true, extracted: tempAudio(t)}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	res, err := p.TranscribeFile(context.Background(), "in.mp4", Options{})
	if err != nil {
		t.Fatalf("engine failure must not surface as Go error, got %v", err)
	}
	if res.Success {
		t.Error("result succeeded, want failure")
	}
	if !strings.Contains(res.Error, "engine down") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestPipeline_TranscribeFile_RemovesTempAudio(t *testing.T) {
	audio := tempAudio(t)
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "x"}}
	m := &fakeMedia{videoValid: true, audioValid: true, extracted: audio}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := p.TranscribeFile(context.Background(), "in.mp4", Options{}); err != nil {
		t.Fatalf("TranscribeFile() failed: %v", err)
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Error("temp audio not removed")
	}
}

func TestPipeline_TranscribeFile_WithTimestamps(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{
		Text:      "你好。",
		Timestamp: [][]int{{0, 200}, {200, 400}, {400, 500}},
		Words:     []string{"你", "好", "。"},
	}}
	m := &fakeMedia{videoValid: true, audioValid: true, extracted: tempAudio(t)}
	p, err := New(rec, m, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	res, err := p.TranscribeFile(context.Background(), "in.mp4", Options{WithTimestamps: true})
	if err != nil {
		t.Fatalf("TranscribeFile() failed: %v", err)
	}
	if len(res.FormattedSegments) != 1 {
		t.Errorf("formatted segments = %d, want 1", len(res.FormattedSegments))
	}
}

func TestPipeline_TranscribeURL(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "hello."}}
	m := &fakeMedia{videoValid: true, audioValid: true}
	f := &fakeFetcher{info: &api.VideoInfo{Title: "clip", Duration: 12}, audio: tempAudio(t)}
	p, err := New(rec, m, f)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	res, err := p.TranscribeURL(context.Background(), "https://example.com/v/1", Options{})
	if err != nil {
		t.Fatalf("TranscribeURL() failed: %v", err)
	}
	if !res.Success || res.Text != "hello." {
		t.Errorf("result = %+v", res)
	}
}

func TestPipeline_TranscribeURL_NoFetcher(t *testing.T) {
	rec := &fakeRecognizer{raw: &api.RawResult{Text: "x"}}
	p, err := New(rec, &fakeMedia{videoValid: true, audioValid: true}, nil)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := p.TranscribeURL(context.Background(), "https://example.com", Options{}); err == nil {
		t.Error("TranscribeURL() succeeded without a downloader")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		want   string
	}{
		{name: "text", input: "clip.mp4", format: "text", want: "clip_transcription.txt"},
		{name: "srt", input: "/tmp/clip.mp4", format: "srt", want: "/tmp/clip_transcription.srt"},
		{name: "vtt", input: "a.b.mkv", format: "vtt", want: "a.b_transcription.vtt"},
		{name: "json", input: "clip.webm", format: "json", want: "clip_transcription.json"},
		{name: "unknown format", input: "clip.mp4", format: "docx", want: "clip_transcription.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input, tt.format); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
