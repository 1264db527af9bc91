package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var engineURL string
	var ytDlpPath string

	rootCmd := &cobra.Command{
		Use:           "asr",
		Short:         "Video to text transcription tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&engineURL, "engine-url", envOr("ASR_ENGINE_URL", "http://localhost:8001/recognize"), "Recognition engine URL")
	rootCmd.PersistentFlags().StringVar(&ytDlpPath, "ytdlp", envOr("ASR_YTDLP", "yt-dlp"), "Path to the yt-dlp executable")

	rootCmd.AddCommand(newTranscribeCommand(&engineURL, &ytDlpPath))
	rootCmd.AddCommand(newInfoCommand(&ytDlpPath))
	rootCmd.AddCommand(newLanguagesCommand())

	return rootCmd
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
