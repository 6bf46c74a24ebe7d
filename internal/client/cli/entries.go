package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophjournal/internal/client/api"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04"

func (a *App) listCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List journal entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.client.ListEntries(cmd.Context(), category)
			if err != nil {
				return explain(err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No entries")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTITLE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date.Local().Format(dateLayout), e.Category, e.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show entries of this category")
	return cmd
}

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.client.GetEntry(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			printEntry(a.out, e)
			return nil
		},
	}
}

func (a *App) addCmd() *cobra.Command {
	var title, category, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new entry; content is read from stdin unless --content is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("content") {
				var err error
				if content, err = GetMultiline(a.in, "Content", a.out); err != nil {
					return err
				}
			}
			e, err := a.client.CreateEntry(cmd.Context(), title, content, category)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Created %s\n", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "entry title")
	cmd.Flags().StringVar(&category, "category", "personal", "personal, work, ideas or goals")
	cmd.Flags().StringVar(&content, "content", "", "entry text")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// editCmd fetches the current entry so unset flags keep their values.
func (a *App) editCmd() *cobra.Command {
	var title, category, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry's title, category or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.client.GetEntry(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			if cmd.Flags().Changed("title") {
				cur.Title = title
			}
			if cmd.Flags().Changed("category") {
				cur.Category = category
			}
			if cmd.Flags().Changed("content") {
				cur.Content = content
			}

			e, err := a.client.UpdateEntry(cmd.Context(), cur.ID, cur.Title, cur.Content, cur.Category)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Updated %s\n", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&content, "content", "", "new text")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteEntry(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}
			fmt.Fprintln(a.out, "Journal entry deleted")
			return nil
		},
	}
}

func (a *App) summaryCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show entry counts per category and per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Summary(cmd.Context(), days)
			if err != nil {
				return explain(err)
			}
			printSummary(a.out, s)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window in days (server default when 0)")
	return cmd
}

func (a *App) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all entries to object storage and print a download link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := a.client.Export(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Exported %d entries\n%s\n", x.Count, x.URL)
			return nil
		},
	}
}

func printEntry(w io.Writer, e *api.Entry) {
	fmt.Fprintf(w, "%s\n%s | %s\n\n%s\n", e.Title, e.Date.Local().Format(dateLayout), e.Category, e.Content)
}

func printSummary(w io.Writer, s *api.Summary) {
	fmt.Fprintf(w, "Last %d days: %d entries\n", s.Days, s.Total)

	cats := make([]string, 0, len(s.PerCategory))
	for c := range s.PerCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(w, "  %-10s %d\n", c, s.PerCategory[c])
	}

	days := make([]string, 0, len(s.PerDay))
	for d := range s.PerDay {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		fmt.Fprintf(w, "  %s %s\n", d, strings.Repeat("#", s.PerDay[d]))
	}
}
