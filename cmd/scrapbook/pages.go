package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"scrapbook-go/internal/app"
	"scrapbook-go/internal/render"
	"scrapbook-go/internal/scrapbook"
)

// pageIndex reads the 1-based --page flag as a 0-based index.
func pageIndex(cmd *cobra.Command) int {
	page, _ := cmd.Flags().GetInt("page")
	return page - 1
}

func elementOptions(cmd *cobra.Command) app.ElementOptions {
	var opts app.ElementOptions
	if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")
		opts.Position = &scrapbook.Point{X: x, Y: y}
	}
	opts.Color, _ = cmd.Flags().GetString("color")
	opts.FontSize, _ = cmd.Flags().GetFloat64("font-size")
	opts.FontName, _ = cmd.Flags().GetString("font")
	return opts
}

func printElement(verb string, el scrapbook.Element) {
	fmt.Printf("%s %s %s at %.0f,%.0f scale %.2f rotation %.0f°\n",
		verb, el.Kind(), el.ID, el.Position.X, el.Position.Y, el.Scale, el.Rotation)
}

// page command
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage pages",
}

var pageListCmd = &cobra.Command{
	Use:   "list ID",
	Short: "List the pages of a scrapbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Pages")
		if err != nil {
			return err
		}
		defer a.Close()

		pages, err := a.Pages(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"#", "Page", "Elements", "Drawing"})
		for i, p := range pages {
			drawing := ""
			if p.HasDrawing() {
				drawing = fmt.Sprintf("%d bytes", len(p.DrawingData))
			}
			t.AppendRow(table.Row{i + 1, p.ID.String(), len(p.Elements), drawing})
		}
		t.Render()
		return nil
	},
}

var pageAddCmd = &cobra.Command{
	Use:   "add ID",
	Short: "Append an empty page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddPage")
		if err != nil {
			return err
		}
		defer a.Close()

		index, err := a.AddPage(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("adding page: %w", err)
		}
		fmt.Printf("Added page %d\n", index+1)
		return nil
	},
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete ID PAGE",
	Short: "Delete a page (the only page cannot be deleted)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page number %q", args[1])
		}

		a, err := newApp(cmd.Context(), "DeletePage")
		if err != nil {
			return err
		}
		defer a.Close()

		deleted, err := a.DeletePage(cmd.Context(), args[0], page-1)
		if err != nil {
			return fmt.Errorf("deleting page: %w", err)
		}
		if !deleted {
			fmt.Println("Page kept: a scrapbook needs at least one page")
			return nil
		}
		fmt.Printf("Deleted page %d\n", page)
		return nil
	},
}

// element command
var elementCmd = &cobra.Command{
	Use:   "element",
	Short: "Place and arrange elements on pages",
}

var elementAddTextCmd = &cobra.Command{
	Use:   "add-text ID TEXT",
	Short: "Place a text element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddText")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.AddText(cmd.Context(), args[0], pageIndex(cmd), args[1], elementOptions(cmd))
		if err != nil {
			return fmt.Errorf("adding text: %w", err)
		}
		printElement("Added", el)
		return nil
	},
}

var elementAddImageCmd = &cobra.Command{
	Use:   "add-image ID FILE",
	Short: "Place an image element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddImage")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.AddImage(cmd.Context(), args[0], pageIndex(cmd), args[1], elementOptions(cmd))
		if err != nil {
			return fmt.Errorf("adding image: %w", err)
		}
		printElement("Added", el)
		return nil
	},
}

var elementAddStickerCmd = &cobra.Command{
	Use:   "add-sticker ID NAME",
	Short: "Place a sticker (" + strings.Join(render.StickerNames(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddSticker")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.AddSticker(cmd.Context(), args[0], pageIndex(cmd), args[1], elementOptions(cmd))
		if err != nil {
			return fmt.Errorf("adding sticker: %w", err)
		}
		printElement("Added", el)
		return nil
	},
}

var elementMoveCmd = &cobra.Command{
	Use:   "move ID ELEMENT",
	Short: "Drag an element by --dx, --dy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dx, _ := cmd.Flags().GetFloat64("dx")
		dy, _ := cmd.Flags().GetFloat64("dy")

		a, err := newApp(cmd.Context(), "MoveElement")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.MoveElement(cmd.Context(), args[0], args[1], dx, dy)
		if err != nil {
			return fmt.Errorf("moving element: %w", err)
		}
		printElement("Moved", el)
		return nil
	},
}

var elementScaleCmd = &cobra.Command{
	Use:   "scale ID ELEMENT FACTOR",
	Short: "Pinch an element by FACTOR",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		factor, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q", args[2])
		}

		a, err := newApp(cmd.Context(), "ScaleElement")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.ScaleElement(cmd.Context(), args[0], args[1], factor)
		if err != nil {
			return fmt.Errorf("scaling element: %w", err)
		}
		printElement("Scaled", el)
		return nil
	},
}

var elementRotateCmd = &cobra.Command{
	Use:   "rotate ID ELEMENT",
	Short: "Rotate an element clockwise by --degrees",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		degrees, _ := cmd.Flags().GetFloat64("degrees")

		a, err := newApp(cmd.Context(), "RotateElement")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.RotateElement(cmd.Context(), args[0], args[1], degrees)
		if err != nil {
			return fmt.Errorf("rotating element: %w", err)
		}
		printElement("Rotated", el)
		return nil
	},
}

var elementFrontCmd = &cobra.Command{
	Use:   "front ID ELEMENT",
	Short: "Bring an element to the front",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "FrontElement")
		if err != nil {
			return err
		}
		defer a.Close()

		el, err := a.FrontElement(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("reordering element: %w", err)
		}
		printElement("Raised", el)
		return nil
	},
}

var elementRemoveCmd = &cobra.Command{
	Use:   "remove ID ELEMENT",
	Short: "Remove an element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "RemoveElement")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveElement(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("removing element: %w", err)
		}
		fmt.Printf("Removed %s\n", args[1])
		return nil
	},
}

// drawing command
var drawingCmd = &cobra.Command{
	Use:   "drawing",
	Short: "Manage page drawings",
}

var drawingSetCmd = &cobra.Command{
	Use:   "set ID FILE",
	Short: "Replace a page drawing with the strokes in a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "SetDrawing")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetDrawing(cmd.Context(), args[0], pageIndex(cmd), args[1]); err != nil {
			return fmt.Errorf("setting drawing: %w", err)
		}
		fmt.Printf("Drawing set on page %d\n", pageIndex(cmd)+1)
		return nil
	},
}

var drawingClearCmd = &cobra.Command{
	Use:   "clear ID",
	Short: "Remove a page drawing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ClearDrawing")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearDrawing(cmd.Context(), args[0], pageIndex(cmd)); err != nil {
			return fmt.Errorf("clearing drawing: %w", err)
		}
		fmt.Printf("Drawing cleared on page %d\n", pageIndex(cmd)+1)
		return nil
	},
}

func addPageFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("page", "p", 1, "Page number")
}

func addPlacementFlags(cmd *cobra.Command) {
	addPageFlag(cmd)
	cmd.Flags().Float64("x", scrapbook.DefaultPosition.X, "Horizontal position of the element centre")
	cmd.Flags().Float64("y", scrapbook.DefaultPosition.Y, "Vertical position of the element centre")
}

func init() {
	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageDeleteCmd)
	rootCmd.AddCommand(pageCmd)

	addPlacementFlags(elementAddTextCmd)
	elementAddTextCmd.Flags().String("color", "", "Text colour as #RRGGBB")
	elementAddTextCmd.Flags().Float64("font-size", 0, "Font size in points")
	elementAddTextCmd.Flags().String("font", "", "Font name")
	addPlacementFlags(elementAddImageCmd)
	addPlacementFlags(elementAddStickerCmd)
	elementMoveCmd.Flags().Float64("dx", 0, "Horizontal translation")
	elementMoveCmd.Flags().Float64("dy", 0, "Vertical translation")
	elementRotateCmd.Flags().Float64("degrees", 90, "Clockwise rotation")

	elementCmd.AddCommand(elementAddTextCmd)
	elementCmd.AddCommand(elementAddImageCmd)
	elementCmd.AddCommand(elementAddStickerCmd)
	elementCmd.AddCommand(elementMoveCmd)
	elementCmd.AddCommand(elementScaleCmd)
	elementCmd.AddCommand(elementRotateCmd)
	elementCmd.AddCommand(elementFrontCmd)
	elementCmd.AddCommand(elementRemoveCmd)
	rootCmd.AddCommand(elementCmd)

	addPageFlag(drawingSetCmd)
	addPageFlag(drawingClearCmd)
	drawingCmd.AddCommand(drawingSetCmd)
	drawingCmd.AddCommand(drawingClearCmd)
	rootCmd.AddCommand(drawingCmd)
}
