package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/parser"
)

func parseCmd() *cobra.Command {
	var tokens bool

	c := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse receipt text into priced lines (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			receipt := parser.ParseReceipt(text)
			printReceipt(cmd.OutOrStdout(), receipt)

			if tokens {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Price tokens"))
				for i, line := range strings.Split(text, "\n") {
					if found := parser.PriceTokens(line); len(found) > 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, strings.Join(found, " | "))
					}
				}
			}
			return nil
		},
	}

	c.Flags().BoolVar(&tokens, "tokens", false, "also list every price-like token per line")
	return c
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func printReceipt(w io.Writer, receipt *models.Receipt) {
	fmt.Fprintln(w, titleStyle.Render("Receipt"))
	for _, e := range receipt.Entries {
		if !e.Valid {
			fmt.Fprintf(w, "%3d  %s\n", e.Line, dimStyle.Render("(no price)"))
			continue
		}
		fmt.Fprintf(w, "%3d  %-32s %8s\n", e.Line, e.Description, money(e.Cost))
	}
	fmt.Fprintf(w, "     %-32s %8s\n", "Total", money(receipt.TotalCost()))
}
