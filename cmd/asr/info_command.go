package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AfeiFun/ASR/internal/download"
	"github.com/AfeiFun/ASR/internal/transcription"
)

func newInfoCommand(ytDlpPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <URL>",
		Short: "Show metadata of a remote video without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := download.NewDownloader(*ytDlpPath)
			if _, err := d.Check(ctx); err != nil {
				return err
			}
			info, err := d.Info(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language hints",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range transcription.SupportedLanguages() {
				fmt.Println(l)
			}
			return nil
		},
	}
}
