package media

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// AudioValidation is the outcome of probing an extracted WAV file.
type AudioValidation struct {
	Valid      bool
	Error      string
	Duration   float64
	SampleRate int
	Channels   int
	Samples    int
}

// ValidateAudio decodes the WAV file and reports duration, sample rate and
// channel count. A broken file yields {Valid:false, Error}, not a Go error.
func (sp *Extractor) ValidateAudio(path string) *AudioValidation {
	f, err := os.Open(path)
	if err != nil {
		return &AudioValidation{Valid: false, Error: fmt.Sprintf("can't open audio file: %v", err)}
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil || !d.WasPCMAccessed() {
		return &AudioValidation{Valid: false, Error: fmt.Sprintf("can't read audio data: %v", err)}
	}
	if !d.IsValidFile() {
		return &AudioValidation{Valid: false, Error: "not a valid WAV file"}
	}
	frames := buf.NumFrames()
	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return &AudioValidation{Valid: false, Error: "missing audio format info"}
	}
	return &AudioValidation{
		Valid:      true,
		Duration:   float64(frames) / float64(buf.Format.SampleRate),
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    frames,
	}
}

// EncodeWAV writes mono PCM samples as a 16-bit WAV file.
func EncodeWAV(path string, samples []int, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	e := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           samples,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := e.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return e.Close()
}
