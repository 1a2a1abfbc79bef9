package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscribeCmd(configPath *string) *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe one local file and store it as the latest record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			text, err := a.transcription.TranscribeFile(ctx, args[0])
			if err != nil {
				return err
			}
			if !summarize {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			res, err := a.summary.Summarize(ctx, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "print the meeting summary instead of the transcript")
	return cmd
}
