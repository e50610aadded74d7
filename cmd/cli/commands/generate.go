package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgrosjean/presentoir/pkg/core/recurrence"
	"github.com/mgrosjean/presentoir/pkg/core/services"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// GenerateSlotsCmd creates the generateSlots command
func GenerateSlotsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSlots <activity_type_id> <weekday> <frequency>",
		Short: "Generate a recurring series of slots up to an end date",
		Long: `Expands a recurring series (weekly, biweekly or monthly) into concrete
slots and inserts them in a single transaction. The --end flag is
required; open-ended series are not supported.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekday, ok := weekdayNames[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("unknown weekday %q", args[1])
			}

			frequency, err := recurrence.ParseFrequency(args[2])
			if err != nil {
				return err
			}

			startDate, _ := cmd.Flags().GetString("start")
			endDate, _ := cmd.Flags().GetString("end")
			startTime, _ := cmd.Flags().GetString("start-time")
			endTime, _ := cmd.Flags().GetString("end-time")
			minParticipants, _ := cmd.Flags().GetInt("min")
			maxParticipants, _ := cmd.Flags().GetInt("max")
			notes, _ := cmd.Flags().GetString("notes")

			slots, err := services.GenerateSlots(app.Ctx, app.Database, app.Clock, app.Logger, services.GenerateSlotsInput{
				ActivityTypeID:  args[0],
				Weekday:         weekday,
				StartTime:       startTime,
				EndTime:         endTime,
				Frequency:       frequency,
				StartDate:       startDate,
				EndDate:         endDate,
				MinParticipants: minParticipants,
				MaxParticipants: maxParticipants,
				Notes:           notes,
			})
			if err != nil {
				return err
			}

			if len(slots) == 0 {
				fmt.Println("\nNo occurrences in the requested range; nothing created.")
				return nil
			}

			fmt.Printf("\n✓ %d slot(s) created!\n\n", len(slots))
			for i, slot := range slots {
				fmt.Printf("  %2d. %s %s-%s\n", i+1, slot.Date, slot.StartTime, slot.EndTime)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("start", "", "First date to consider (YYYY-MM-DD, default today)")
	cmd.Flags().String("end", "", "Last date to consider, inclusive (YYYY-MM-DD, required)")
	cmd.Flags().String("start-time", "09:00", "Slot start time (HH:MM)")
	cmd.Flags().String("end-time", "11:00", "Slot end time (HH:MM)")
	cmd.Flags().Int("min", 1, "Minimum participants")
	cmd.Flags().Int("max", 2, "Maximum participants")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.MarkFlagRequired("end")

	return cmd
}

// AutoGenerateCmd creates the autoGenerate command
func AutoGenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoGenerate",
		Short: "Generate slots from activity type recurrence rules over the configured horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			horizonDays, _ := cmd.Flags().GetInt("horizon")
			if horizonDays == 0 {
				horizonDays = app.Cfg.GenerationHorizonDays
			}

			slots, err := services.GenerateFromActivityTypes(app.Ctx, app.Database, app.Clock, app.Logger, horizonDays)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Auto-generation complete: %d new slot(s) over the next %d days.\n\n",
				len(slots), horizonDays)

			return nil
		},
	}

	cmd.Flags().Int("horizon", 0, "Days ahead to generate (default from config)")

	return cmd
}
