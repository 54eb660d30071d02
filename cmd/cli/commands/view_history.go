package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/pkg/core/services"
	"github.com/jakechorley/random-duties/pkg/db"
)

// ViewHistoryCmd creates the viewHistory command
func ViewHistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewHistory [week]",
		Short: "Show recorded duties (all weeks, or one week such as 2026-W43)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var week string
			if len(args) > 0 {
				week = args[0]
			}

			app.Logger.Debug("viewHistory command", zap.String("week", week))

			records, err := services.ViewHistory(app.Ctx, app.Store, app.Logger, week)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No duties recorded yet.")
				return nil
			}

			for _, record := range records {
				printHistoryRecord(cmd.OutOrStdout(), record)
			}
			return nil
		},
	}
}

func printHistoryRecord(w io.Writer, record db.HistoryRecord) {
	fmt.Fprintf(w, "\nWeek %s", record.Week)
	if record.Origin != "" {
		fmt.Fprintf(w, " (%s", record.Origin)
		if record.Origin == db.OriginGenerated {
			fmt.Fprintf(w, ", seed %d", record.Seed)
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)

	for _, da := range record.Assignment.SortedByWeekDays(record.WeekDays) {
		fmt.Fprintf(w, "  %-10s %s\n", da.Day, strings.Join(da.EmployeeIDs, ", "))
	}

	fmt.Fprintf(w, "  One week ago:  %s\n", joinOrDash(record.OneWeekAgo))
	fmt.Fprintf(w, "  Two weeks ago: %s\n", joinOrDash(record.TwoWeeksAgo))
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
