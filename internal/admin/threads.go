package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

func newThreadsCommand(o *options) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List threads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				p, err := e.forum.ThreadsPage(ctx, page, size)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				headerColor.Fprintf(out, "Threads, page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
				printSummaries(out, p.Threads)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "threads per page (0 uses the default)")
	return cmd
}

func printSummaries(out io.Writer, threads []models.ThreadSummary) {
	if len(threads) == 0 {
		warnColor.Fprintln(out, "  no threads")
		return
	}
	for _, t := range threads {
		tag := "-"
		if t.TagName != nil {
			tag = *t.TagName
		}
		last := "-"
		if t.LastMessageAt != nil {
			last = t.LastMessageAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "  #%-5d %-30s %-12s [%s] %d msgs, last %s\n",
			t.ID, t.Title, t.UserName, tag, t.MessageCount, last)
	}
}

func newSearchCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search message contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				hits, err := e.forum.Search(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				headerColor.Fprintf(out, "%d result(s) for %q\n", len(hits), args[0])
				for _, h := range hits {
					fmt.Fprintf(out, "  #%d in %q by %s: %s\n", h.ID, h.ThreadTitle, h.UserName, h.Content)
				}
				return nil
			})
		},
	}
}
