package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/random-duties/pkg/core/services"
)

// ListAvailabilityCmd creates the listAvailability command
func ListAvailabilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listAvailability",
		Short: "Show the availability sheet and how many people each duty day can draw on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("listAvailability command")

			overview, err := services.ListAvailability(app.Ctx, app.Source, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			printAvailability(cmd.OutOrStdout(), overview, app.Cfg.DutySize)
			return nil
		},
	}
}

func printAvailability(w io.Writer, overview *services.AvailabilityOverview, dutySize int) {
	const (
		colorReset  = "\033[0m"
		colorGreen  = "\033[32m"
		colorRed    = "\033[31m"
		colorYellow = "\033[33m"
	)

	fmt.Fprintf(w, "\nFound %d employees\n\n", len(overview.Sheet.Table))

	fmt.Fprintf(w, "%-12s %6s %6s %6s\n", "Day", "A", "other", "U")
	for _, day := range overview.Days {
		color := colorGreen
		switch {
		case day.Volunteers+day.Neutral < dutySize:
			color = colorRed
		case day.Volunteers < dutySize:
			color = colorYellow
		}
		fmt.Fprintf(w, "%s%-12s %6d %6d %6d%s\n", color, day.Day, day.Volunteers, day.Neutral, day.Unavailable, colorReset)
	}
	fmt.Fprintln(w)
}
