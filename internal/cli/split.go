package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/reconcile"
	"github.com/mmynk/billscan/internal/session"
)

func splitCmd() *cobra.Command {
	var receiptPath string
	var planPath string
	var epsilon float64

	c := &cobra.Command{
		Use:   "split",
		Short: "Split a receipt between people according to a YAML plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readInput(cmd, receiptPath)
			if err != nil {
				return err
			}
			plan, err := loadPlan(planPath)
			if err != nil {
				return err
			}

			sess := session.New(epsilon)
			sess.ParseText(text)
			if err := plan.Apply(sess); err != nil {
				return err
			}

			totals, err := sess.Summary()
			if err != nil {
				return err
			}
			d, err := sess.Check(plan.ExpectedTotal)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sess.Receipt.TotalCost(), totals, d)
			return nil
		},
	}

	c.Flags().StringVarP(&receiptPath, "receipt", "r", "", "receipt text file, - for stdin (required)")
	c.Flags().StringVarP(&planPath, "plan", "p", "", "YAML plan of participants, claims and tip (required)")
	c.Flags().Float64Var(&epsilon, "epsilon", reconcile.DefaultEpsilon, "reconciliation tolerance")

	_ = c.MarkFlagRequired("receipt")
	_ = c.MarkFlagRequired("plan")
	return c
}

func printSummary(w io.Writer, total float64, totals []calculator.PersonTotal, d *reconcile.Discrepancy) {
	fmt.Fprintln(w, titleStyle.Render("Summary"))
	for _, pt := range totals {
		fmt.Fprintf(w, "%s  %s\n", nameStyle.Render(pt.Participant), money(pt.Total))
		for _, it := range pt.Items {
			fmt.Fprintf(w, "    %-30s %8s\n", it.Description, dimStyle.Render(money(it.Amount)))
		}
	}
	fmt.Fprintf(w, "Receipt total  %s\n", money(total))

	if d != nil {
		fmt.Fprintln(w, warnStyle.Render("Warning: "+d.String()))
		return
	}
	fmt.Fprintln(w, okStyle.Render("Everything is accounted for."))
}
