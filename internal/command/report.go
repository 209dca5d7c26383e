package command

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocerydash/internal/core"
)

var reportCmd = &cobra.Command{
	Use:   "report <export-file>",
	Short: "Print spending aggregates for a receipt export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, stats, err := readDataset(args[0])
		if err != nil {
			return err
		}
		summary := core.Summarize(records)
		printReport(cmd, summary, stats.Accepted, stats.Dropped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func printReport(cmd *cobra.Command, s core.Summary, accepted, dropped int) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Rows: %d accepted, %d dropped\n\n", accepted, dropped)

	fmt.Fprintf(out, "Trips\n")
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Total spent\t%s\n", s.Trips.TotalSpent)
	fmt.Fprintf(w, "  Trips\t%d\n", s.Trips.TotalTrips)
	fmt.Fprintf(w, "  Avg per trip\t%s\n", dollars(s.Trips.AvgPerTrip))
	fmt.Fprintf(w, "  Items\t%d\n", s.Trips.TotalItems)
	w.Flush()

	fmt.Fprintf(out, "\nCategories\n")
	w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, c := range s.Categories {
		fmt.Fprintf(w, "  %s\t%s\t%s%%\n", c.Name, c.Total, strconv.FormatFloat(c.Percent, 'f', 1, 64))
	}
	w.Flush()

	fmt.Fprintf(out, "\nStores\n")
	w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, st := range s.Stores {
		fmt.Fprintf(w, "  %s\t%s\n", st.Name, st.Total)
	}
	w.Flush()

	fmt.Fprintf(out, "\nMonthly\n")
	w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, m := range s.Months {
		fmt.Fprintf(w, "  %s\t%s\n", m.Month, m.Total)
	}
	w.Flush()

	fmt.Fprintf(out, "\nMost bought items\n")
	w = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Item\tTimes\tTotal\tAvg Price\tCategory\n")
	for _, item := range s.TopItems {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\n", item.Name, item.Count, item.Total, dollars(item.AvgPrice), item.Category)
	}
	w.Flush()
}

// dollars renders a float dollar amount already rounded to two decimals.
func dollars(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
