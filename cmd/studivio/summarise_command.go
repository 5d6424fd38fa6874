package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studivio/internal/extract"
	"studivio/internal/services/llm"
	"studivio/internal/textutil"
)

func newSummariseCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summarise",
		Aliases: []string{"summarize"},
		Short:   "Summarise local files without storing a note",
	}
	cmd.AddCommand(newSummarisePDFCommand(ctx))
	cmd.AddCommand(newSummariseTextCommand(ctx))
	return cmd
}

func newSummarisePDFCommand(ctx *commandContext) *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "pdf <file>",
		Short: "Extract a PDF and print its study notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.localPipeline()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			name := filepath.Base(path)
			if err := pipeline.Extractor.ValidatePDF(name, int64(len(data))); err != nil {
				return err
			}
			doc, err := pipeline.Extractor.PDF(data)
			if err != nil {
				return fmt.Errorf("extract %s: %w", name, err)
			}

			out := cmd.OutOrStdout()
			if showText {
				fmt.Fprintln(out, doc.Text)
				return nil
			}
			summary, err := pipeline.SummariseText(cmd.Context(), doc.Text, llm.ContentPDF)
			if err != nil {
				return userFacing(err)
			}
			fmt.Fprintf(out, "# %s\n\n%s\n", textutil.DeriveTitle(name), summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showText, "text-only", false, "Print the extracted text instead of summarising it")
	return cmd
}

func newSummariseTextCommand(ctx *commandContext) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Summarise a plain-text transcript (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.localPipeline()
			if err != nil {
				return err
			}
			var data []byte
			if args[0] == "-" {
				data, err = readAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			summary, err := pipeline.SummariseText(cmd.Context(), string(data), strings.ToLower(contentType))
			if err != nil {
				return userFacing(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&contentType, "type", "t", llm.ContentGeneral, "Prompt template: general, pdf, audio, or youtube")
	return cmd
}

// readAll reads stdin up to the default PDF ceiling.
func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, extract.DefaultLimits().MaxPDFBytes))
}
