package cli

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/ocr/tesseract"
	"github.com/mmynk/billscan/internal/parser"
)

func scanCmd() *cobra.Command {
	var alternate bool
	var crop string
	var lang string
	var parse bool

	c := &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Run OCR on a receipt photo and print the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			opts := ocr.Options{Mode: ocr.ModeFor(alternate)}
			if crop != "" {
				rect, err := parseCrop(crop)
				if err != nil {
					return err
				}
				opts.Crop = &rect
			}

			engine := tesseract.New(tesseract.Options{Language: lang})
			text, err := engine.Recognize(cmd.Context(), img, opts)
			if err != nil {
				return err
			}
			text = ocr.Clean(text)

			if parse {
				printReceipt(cmd.OutOrStdout(), parser.ParseReceipt(text))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	c.Flags().BoolVar(&alternate, "alternate", false, "use block segmentation instead of single column")
	c.Flags().StringVar(&crop, "crop", "", "crop to x,y,w,h before recognition")
	c.Flags().StringVar(&lang, "lang", "eng", "tesseract language")
	c.Flags().BoolVar(&parse, "parse", false, "parse the recognised text instead of printing it")
	return c
}

// parseCrop reads "x,y,w,h" into a rectangle.
func parseCrop(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("crop %q: want x,y,w,h", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("crop %q: %w", s, err)
		}
		n[i] = v
	}
	if n[0] < 0 || n[1] < 0 || n[2] <= 0 || n[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("crop %q: offsets must be non-negative and size positive", s)
	}
	return image.Rect(n[0], n[1], n[0]+n[2], n[1]+n[3]), nil
}
