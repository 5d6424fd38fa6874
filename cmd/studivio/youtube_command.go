package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studivio/internal/services/llm"
	"studivio/internal/services/youtube"
)

func newYouTubeCommand(ctx *commandContext) *cobra.Command {
	var transcriptOnly bool

	cmd := &cobra.Command{
		Use:   "youtube <url|video-id>",
		Short: "Fetch a video transcript and print its study notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.localPipeline()
			if err != nil {
				return err
			}
			videoID := strings.TrimSpace(args[0])
			if strings.Contains(videoID, "/") {
				videoID, err = youtube.VideoID(videoID)
				if err != nil {
					return err
				}
			}

			transcript, err := pipeline.Transcripts.Transcript(cmd.Context(), videoID)
			if err != nil {
				return fmt.Errorf("fetch transcript for %s: %w", videoID, err)
			}
			out := cmd.OutOrStdout()
			if transcriptOnly {
				fmt.Fprintln(out, transcript)
				return nil
			}
			summary, err := pipeline.SummariseText(cmd.Context(), transcript, llm.ContentYouTube)
			if err != nil {
				return userFacing(err)
			}
			fmt.Fprintln(out, summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&transcriptOnly, "transcript-only", false, "Print the transcript without summarising it")
	return cmd
}
