package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studivio/internal/store"
	"studivio/internal/textutil"
)

const noteDateLayout = "2006-01-02 15:04"

func newNotesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Inspect stored notes",
	}
	cmd.AddCommand(newNotesListCommand(ctx))
	return cmd
}

func newNotesListCommand(ctx *commandContext) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			user = strings.TrimSpace(user)
			if user == "" {
				return errors.New("--user is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			notes, err := st.ListNotesByUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintf(out, "No notes for %s\n", user)
				return nil
			}

			rows := make([][]string, 0, len(notes))
			for _, n := range notes {
				rows = append(rows, []string{
					n.ID,
					n.Title,
					n.ContentType,
					strconv.Itoa(textutil.WordCount(n.Content)),
					n.CreatedAt.Local().Format(noteDateLayout),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{Header: "ID"},
				{Header: "Title", MaxWidth: 48},
				{Header: "Type"},
				{Header: "Words", AlignEnd: true},
				{Header: "Created"},
			}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Owner username")
	return cmd
}
