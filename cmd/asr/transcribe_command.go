package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/asr"
	"github.com/AfeiFun/ASR/internal/download"
	"github.com/AfeiFun/ASR/internal/media"
	"github.com/AfeiFun/ASR/internal/pipeline"
	"github.com/AfeiFun/ASR/internal/subtitle"
)

func newTranscribeCommand(engineURL, ytDlpPath *string) *cobra.Command {
	var output string
	var format string
	var language string
	var batchSize int
	var withTimestamps bool
	var keepAudio bool

	cmd := &cobra.Command{
		Use:   "transcribe <video file or URL>",
		Short: "Transcribe a local video file or a remote video URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			recognizer, err := asr.NewClient(*engineURL)
			if err != nil {
				return err
			}
			p, err := pipeline.New(recognizer, media.NewExtractor(), download.NewDownloader(*ytDlpPath))
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Language:       language,
				BatchSize:      batchSize,
				WithTimestamps: withTimestamps || format == subtitle.FormatSRT || format == subtitle.FormatVTT,
				KeepAudio:      keepAudio,
			}

			res, err := run(ctx, p, input, opts)
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("transcription failed: %s", res.Error)
			}

			rendered := subtitle.NewRenderer().Render(res, format)
			if output == "" {
				output = pipeline.OutputPath(input, format)
				if isURL(input) {
					output = "transcription" + subtitle.Extension(format)
				}
			}
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("output: %s\n", output)
			fmt.Printf("language: %s, segments: %d\n", res.Language, len(res.Segments))
			fmt.Printf("\npreview:\n%s\n", preview(res.Text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: derived from input)")
	cmd.Flags().StringVarP(&format, "format", "f", subtitle.FormatText, "Output format: text, srt, vtt or json")
	cmd.Flags().StringVarP(&language, "language", "l", "auto", "Language hint (auto, zh, en, ja, ko, ...)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 8, "Engine batching size")
	cmd.Flags().BoolVar(&withTimestamps, "timestamps", false, "Attach formatted segments with timestamps")
	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "Keep the extracted audio file")

	return cmd
}

func run(ctx context.Context, p *pipeline.Pipeline, input string, opts pipeline.Options) (*api.TranscriptionResult, error) {
	if isURL(input) {
		return p.TranscribeURL(ctx, input, opts)
	}
	return p.TranscribeFile(ctx, input, opts)
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= 200 {
		return text
	}
	return string([]rune(text)[:200]) + "..."
}
