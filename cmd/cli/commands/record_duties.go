package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/random-duties/pkg/core/duties"
	"github.com/jakechorley/random-duties/pkg/core/services"
)

// RecordDutiesCmd creates the recordDuties command
func RecordDutiesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordDuties <assignment.yaml>",
		Short: "Record a hand-edited roster as the week's duties",
		Long: `Record a hand-edited roster as the week's duties.

The file maps each day to the people on duty, either as a mapping

  Monday: [alice, bob]
  Tuesday: [carol]

or as a list of {day, employees} entries. Day order is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekFlag, _ := cmd.Flags().GetString("week")
			force, _ := cmd.Flags().GetBool("force")

			week, err := resolveWeek(weekFlag, time.Now())
			if err != nil {
				return err
			}

			assignment, err := loadAssignmentFile(args[0])
			if err != nil {
				return err
			}

			app.Logger.Debug("recordDuties command",
				zap.String("file", args[0]),
				zap.String("week", week.String()),
				zap.Bool("force", force))

			record, err := services.RecordDuties(app.Ctx, app.Store, app.Cfg, app.Logger, week, assignment, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Recorded %d people for week %s (record %s)\n\n", len(record.OneWeekAgo), record.Week, record.ID)
			return nil
		},
	}

	cmd.Flags().String("week", "", "ISO week the roster belongs to, e.g. 2026-W43 (defaults to next week)")
	cmd.Flags().Bool("force", false, "Replace duties already recorded for the week")

	return cmd
}

func loadAssignmentFile(path string) (duties.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assignment file: %w", err)
	}
	defer f.Close()

	return parseAssignment(f)
}

// parseAssignment accepts a day -> ids mapping or a list of day entries, keeping document order
func parseAssignment(r io.Reader) (duties.Assignment, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse assignment file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("assignment file is empty")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var assignment duties.Assignment
		if err := root.Decode(&assignment); err != nil {
			return nil, fmt.Errorf("failed to parse assignment list: %w", err)
		}
		return assignment, nil

	case yaml.MappingNode:
		assignment := make(duties.Assignment, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			var ids []string
			if err := root.Content[i+1].Decode(&ids); err != nil {
				return nil, fmt.Errorf("failed to parse employees for %s: %w", root.Content[i].Value, err)
			}
			if ids == nil {
				ids = []string{}
			}
			assignment = append(assignment, duties.DayAssignment{Day: root.Content[i].Value, EmployeeIDs: ids})
		}
		return assignment, nil
	}

	return nil, fmt.Errorf("assignment file must be a mapping or a list at line %d", root.Line)
}
