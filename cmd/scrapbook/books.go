package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scrapbook-go/internal/app"
	"scrapbook-go/internal/scrapbook"
)

const timeFormat = "2006-01-02 15:04:05"

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// titleWidth is what is left of the terminal for a title column after the
// fixed-width columns and table borders.
func titleWidth(fixed int) int {
	return max(12, getTerminalWidth()-fixed)
}

var createCmd = &cobra.Command{
	Use:   "create [TITLE]",
	Short: "Create a scrapbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		cover, _ := cmd.Flags().GetString("cover")

		a, err := newApp(cmd.Context(), "Create")
		if err != nil {
			return err
		}
		defer a.Close()

		title := ""
		if len(args) > 0 {
			title = args[0]
		}

		sb, err := a.Create(cmd.Context(), title, style, cover)
		if err != nil {
			return fmt.Errorf("creating scrapbook: %w", err)
		}

		fmt.Printf("Created %q (%s)\n", sb.Title, sb.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scrapbooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "List")
		if err != nil {
			return err
		}
		defer a.Close()

		books, err := a.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(books) == 0 {
			fmt.Println("No scrapbooks yet.")
			return nil
		}

		width := titleWidth(36 + 8 + 19 + 16)
		t := newTable(cmd)
		t.AppendHeader(table.Row{"ID", "Title", "Style", "Created"})
		for _, sb := range books {
			t.AppendRow(table.Row{
				sb.ID.String(),
				runewidth.Truncate(sb.Title, width, "..."),
				sb.PageStyle,
				sb.CreationDate.Local().Format(timeFormat),
			})
		}
		t.Render()
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a scrapbook and its pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Show")
		if err != nil {
			return err
		}
		defer a.Close()

		sb, err := a.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		pages, err := a.Pages(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Title:   %s\n", sb.Title)
		fmt.Printf("ID:      %s\n", sb.ID)
		fmt.Printf("Style:   %s\n", sb.PageStyle)
		fmt.Printf("Created: %s\n", sb.CreationDate.Local().Format(timeFormat))
		fmt.Printf("Updated: %s\n", sb.UpdatedAt.Local().Format(timeFormat))
		fmt.Printf("Pages:   %d\n\n", len(pages))

		width := titleWidth(6 + 36 + 6 + 14 + 6 + 6 + 20)
		t := newTable(cmd)
		t.AppendHeader(table.Row{"Page", "Element", "Kind", "Content", "Position", "Scale", "Rotation"})
		for i, p := range pages {
			for _, el := range scrapbook.RenderOrder(p.Elements) {
				t.AppendRow(table.Row{
					i + 1,
					el.ID.String(),
					el.Kind(),
					runewidth.Truncate(describeElement(&el), width, "..."),
					fmt.Sprintf("%.0f,%.0f", el.Position.X, el.Position.Y),
					fmt.Sprintf("%.2f", el.Scale),
					fmt.Sprintf("%.0f°", el.Rotation),
				})
			}
		}
		t.Render()
		return nil
	},
}

func describeElement(el *scrapbook.Element) string {
	switch el.Kind() {
	case scrapbook.TextElement:
		return fmt.Sprintf("%q %s %gpt", el.TextValue(), el.TextColor, el.FontSize)
	case scrapbook.ImageElement:
		return fmt.Sprintf("%d bytes", len(el.ImageData))
	default:
		return ""
	}
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a scrapbook's title, page style or cover",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts app.EditOptions
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			opts.Title = &title
		}
		if cmd.Flags().Changed("style") {
			style, _ := cmd.Flags().GetString("style")
			opts.Style = &style
		}
		opts.CoverPath, _ = cmd.Flags().GetString("cover")
		opts.ResetCover, _ = cmd.Flags().GetBool("reset-cover")

		a, err := newApp(cmd.Context(), "Update")
		if err != nil {
			return err
		}
		defer a.Close()

		sb, err := a.Update(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("updating scrapbook: %w", err)
		}

		fmt.Printf("Updated %q (%s, %s)\n", sb.Title, sb.ID, sb.PageStyle)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a scrapbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting scrapbook: %w", err)
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"#", "Operation", "Started", "Status", "Duration", "Parameters"})
		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			t.AppendRow(table.Row{
				op.ID,
				op.Name,
				op.StartedAt.Local().Format(timeFormat),
				op.Status,
				duration,
				op.Parameters,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("style", "s", "", "Page style: Plain, Lined, Grid or Dotted")
	createCmd.Flags().String("cover", "", "Cover image file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("style", "s", "", "New page style")
	editCmd.Flags().String("cover", "", "New cover image file")
	editCmd.Flags().Bool("reset-cover", false, "Replace the cover with a generated placeholder")
	editCmd.MarkFlagsMutuallyExclusive("cover", "reset-cover")

	rootCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
