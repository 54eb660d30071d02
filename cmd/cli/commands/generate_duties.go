package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/pkg/core/services"
)

// GenerateDutiesCmd creates the generateDuties command
func GenerateDutiesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateDuties",
		Short: "Randomly assign next week's duties and record them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weekFlag, _ := cmd.Flags().GetString("week")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")
			notify, _ := cmd.Flags().GetBool("notify")

			week, err := resolveWeek(weekFlag, time.Now())
			if err != nil {
				return err
			}

			opts := services.GenerateOptions{
				Week:   week,
				DryRun: dryRun,
				Force:  force,
				Notify: notify,
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetInt64("seed")
				opts.Seed = &seed
			}

			app.Logger.Debug("generateDuties command",
				zap.String("week", week.String()),
				zap.Bool("dry_run", dryRun),
				zap.Bool("force", force),
				zap.Bool("notify", notify))

			result, err := services.GenerateDuties(
				app.Ctx,
				app.Store,
				app.Source,
				app.Notifier,
				app.Cfg,
				app.Logger,
				opts,
			)
			if err != nil {
				return err
			}

			printGenerateResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for random decisions (a random seed is recorded when omitted)")
	cmd.Flags().String("week", "", "ISO week to schedule, e.g. 2026-W43 (defaults to next week)")
	cmd.Flags().Bool("dry-run", false, "Print the roster without saving it")
	cmd.Flags().Bool("force", false, "Replace duties already recorded for the week")
	cmd.Flags().Bool("notify", false, "E-mail the roster to the configured recipients")

	return cmd
}

func printGenerateResult(w io.Writer, result *services.GenerateResult) {
	fmt.Fprintf(w, "\n%s\n", result.Roster)

	if len(result.UnderStaffed) > 0 {
		fmt.Fprintf(w, "⚠️  %d day(s) are short of people\n", len(result.UnderStaffed))
	}

	fmt.Fprintf(w, "Seed: %d\n", result.Record.Seed)
	if result.Saved {
		fmt.Fprintf(w, "✓ Saved duties for week %s\n", result.Week)
	} else {
		fmt.Fprintln(w, "Dry run - nothing saved")
	}

	for _, to := range result.Notified {
		fmt.Fprintf(w, "  ✓ Roster sent to %s\n", to)
	}
	for _, fe := range result.FailedEmails {
		fmt.Fprintf(w, "  ✗ %s: %s\n", fe.Email, fe.Error)
	}
	fmt.Fprintln(w)
}
