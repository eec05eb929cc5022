package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskdeck/internal/query"
	"taskdeck/internal/task"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks matching the given filters",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().StringP("search", "s", "", "Match title or description (case-insensitive)")
	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("priority", "p", "", "Filter by priority (High, Medium, Low)")
	cmd.Flags().String("status", "", "Filter by status (active, completed)")
	cmd.Flags().StringP("date", "d", "", "Filter by due date (today, week, month)")
	cmd.Flags().String("sort", "", "Sort by due, priority, title or created")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.signIn(); err != nil {
		return err
	}

	c, err := listCriteria(cmd, s.board.Criteria())
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	s.board.SetCriteria(c)
	return writeTasks(cmd.OutOrStdout(), output, s.board.View().Tasks)
}

// listCriteria overlays the flags that were set on base.
func listCriteria(cmd *cobra.Command, base query.Criteria) (query.Criteria, error) {
	flags := cmd.Flags()
	c := base

	c.Search, _ = flags.GetString("search")
	c.Category, _ = flags.GetString("category")

	if v, _ := flags.GetString("priority"); v != "" {
		p, ok := task.ParsePriority(v)
		if !ok {
			return c, fmt.Errorf("invalid priority %q", v)
		}
		c.Priority = p
	}
	if v, _ := flags.GetString("status"); v != "" {
		st, ok := task.ParseStatus(v)
		if !ok {
			return c, fmt.Errorf("invalid status %q", v)
		}
		c.Status = st
	}
	if v, _ := flags.GetString("date"); v != "" {
		r := query.ParseDateRange(v)
		if r == query.AnyDate {
			return c, fmt.Errorf("invalid date range %q", v)
		}
		c.Dates = r
	}
	if flags.Changed("sort") {
		v, _ := flags.GetString("sort")
		c.Sort = query.ParseSortKey(v)
	}
	if flags.Changed("desc") {
		desc, _ := flags.GetBool("desc")
		c.Direction = query.Ascending
		if desc {
			c.Direction = query.Descending
		}
	}
	return c, nil
}

func writeTasks(w io.Writer, format string, tasks []task.Task) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRIORITY\tSTATUS\tDUE\tSUBTASKS")
		for _, t := range tasks {
			done, total := t.SubtaskProgress()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
				shortID(t.ID), t.Title, t.Category, t.Priority, t.Status, task.FormatDate(t.Due), done, total)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
