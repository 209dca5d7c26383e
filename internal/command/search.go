package command

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocerydash/internal/core"
)

var searchCmd = &cobra.Command{
	Use:   "search <export-file> <term>",
	Short: "Find purchases of an item across a receipt export",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.TrimSpace(args[1])
		if term == "" {
			return fmt.Errorf("search term must not be empty")
		}

		records, _, err := readDataset(args[0])
		if err != nil {
			return err
		}
		result := core.Search(records, term)
		printSearchResult(cmd, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func printSearchResult(cmd *cobra.Command, r core.SearchResult) {
	out := cmd.OutOrStdout()

	if len(r.Records) == 0 {
		fmt.Fprintf(out, "No purchases match %q\n", r.Term)
		return
	}

	fmt.Fprintf(out, "%d purchases of %q, total %s\n\n", len(r.Records), r.Term, r.TotalSpent)

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Date\tItem\tStore\tQty\tTotal\n")
	for _, rec := range r.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g %s\t%s\n",
			rec.Date, rec.Item, rec.Store, rec.EffectiveQuantity(), rec.Unit, rec.Total)
	}
	w.Flush()

	fmt.Fprintf(out, "\nBy date\n")
	w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, h := range r.History {
		fmt.Fprintf(w, "  %s\t%g\t%s\n", h.Date, h.Quantity, h.Total)
	}
	w.Flush()

	if len(r.Prices) > 0 {
		fmt.Fprintf(out, "\nUnit price over time\n")
		w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		for _, p := range r.Prices {
			fmt.Fprintf(w, "  %s\t%s\n", p.Date, p.Price)
		}
		w.Flush()
	}
}
