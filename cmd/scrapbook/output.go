package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"scrapbook-go/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render ID",
	Short: "Render every page to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp(cmd.Context(), "Render")
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.Render(cmd.Context(), args[0], out)
		if err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var slideshowCmd = &cobra.Command{
	Use:   "slideshow ID",
	Short: "Write an animated GIF slideshow, or play it live into a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		live, _ := cmd.Flags().GetBool("live")

		a, err := newApp(cmd.Context(), "Slideshow")
		if err != nil {
			return err
		}
		defer a.Close()

		if !live {
			if err := a.SlideshowGIF(cmd.Context(), args[0], out); err != nil {
				return fmt.Errorf("writing slideshow: %w", err)
			}
			fmt.Printf("Slideshow written to %s\n", out)
			return nil
		}

		fmt.Println("Playing slideshow, press Ctrl-C to stop")
		return a.PlaySlideshow(cmd.Context(), args[0], func(index int, frame image.Image) error {
			data, err := render.EncodePNG(frame)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}
			fmt.Printf("Showing page %d\n", index+1)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Write a scrapbook archive to the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Export")
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := a.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		fmt.Printf("Exported as %s\n", key)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import KEY",
	Short: "Restore a scrapbook archive from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Import")
		if err != nil {
			return err
		}
		defer a.Close()

		sb, err := a.Import(cmd.Context(), args[0], func() (string, error) {
			return readPassphrase("Passphrase: ")
		})
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		fmt.Printf("Imported %q (%s)\n", sb.Title, sb.ID)
		return nil
	},
}

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List archives in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListArchives")
		if err != nil {
			return err
		}
		defer a.Close()

		keys, err := a.ListArchives(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("No archives.")
			return nil
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("out", "o", ".", "Output directory")

	rootCmd.AddCommand(slideshowCmd)
	slideshowCmd.Flags().StringP("out", "o", "slideshow.gif", "Output file")
	slideshowCmd.Flags().Bool("live", false, "Cycle pages into --out at the configured interval")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(archivesCmd)
}
