package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/analytics"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Long: `Display task analytics including:
- Counts by status, priority and category
- Overdue tasks
- Completions over the last week`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.signIn(); err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), analytics.Compute(s.board.All(), time.Now()))
			return nil
		},
	}
}

func writeStats(w io.Writer, r analytics.Report) {
	fmt.Fprintln(w, "TaskDeck Stats")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  %-12s %d\n", "Total:", r.Total)
	fmt.Fprintf(w, "  %-12s %d\n", "Overdue:", r.Overdue)

	section := func(title string, counts []analytics.Count) {
		fmt.Fprintf(w, "\n%s:\n", title)
		if len(counts) == 0 {
			fmt.Fprintln(w, "  (none)")
			return
		}
		for _, c := range counts {
			fmt.Fprintf(w, "  %-12s %d\n", c.Label+":", c.Value)
		}
	}
	section("By status", r.ByStatus)
	section("By priority", r.ByPriority)
	section("By category", r.ByCategory)
	section(fmt.Sprintf("Completed (last %d days)", analytics.TimelineDays), r.Timeline)
}
