package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgrosjean/presentoir/pkg/core/services"
	"github.com/mgrosjean/presentoir/pkg/db"
)

// ListSlotsCmd creates the listSlots command
func ListSlotsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listSlots",
		Short: "List distribution slots, optionally filtered by activity and date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			activityTypeID, _ := cmd.Flags().GetString("activity-type")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			all, _ := cmd.Flags().GetBool("all")

			slots, err := services.ListSlots(app.Ctx, app.Database, db.SlotFilter{
				ActivityTypeID: activityTypeID,
				DateFrom:       from,
				DateTo:         to,
				OnlyActive:     !all,
			})
			if err != nil {
				return err
			}

			if len(slots) == 0 {
				fmt.Println("No slots found.")
				return nil
			}

			fmt.Printf("\n%d slot(s):\n\n", len(slots))
			for _, slot := range slots {
				status := ""
				if !slot.Active {
					status = " [inactive]"
				}
				fmt.Printf("  %s  %s %s-%s  (%d-%d participants)%s\n",
					slot.ID, slot.Date, slot.StartTime, slot.EndTime,
					slot.MinParticipants, slot.MaxParticipants, status)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("activity-type", "", "Filter by activity type ID")
	cmd.Flags().String("from", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest date to include (YYYY-MM-DD)")
	cmd.Flags().Bool("all", false, "Include deactivated slots")

	return cmd
}

// CreateSlotCmd creates the createSlot command
func CreateSlotCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createSlot <activity_type_id> <date> <start_time> <end_time>",
		Short: "Create a single distribution slot",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			minParticipants, _ := cmd.Flags().GetInt("min")
			maxParticipants, _ := cmd.Flags().GetInt("max")
			notes, _ := cmd.Flags().GetString("notes")
			supervisorID, _ := cmd.Flags().GetString("supervisor")

			slot, err := services.CreateSlot(app.Ctx, app.Database, app.Logger, services.CreateSlotInput{
				ActivityTypeID:  args[0],
				Date:            args[1],
				StartTime:       args[2],
				EndTime:         args[3],
				MinParticipants: minParticipants,
				MaxParticipants: maxParticipants,
				Notes:           notes,
				SupervisorID:    supervisorID,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Slot created!\n\n")
			fmt.Printf("Slot ID: %s\n", slot.ID)
			fmt.Printf("Date:    %s %s-%s\n\n", slot.Date, slot.StartTime, slot.EndTime)

			return nil
		},
	}

	cmd.Flags().Int("min", 1, "Minimum participants")
	cmd.Flags().Int("max", 2, "Maximum participants")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().String("supervisor", "", "Supervisor volunteer ID")

	return cmd
}

// UpdateSlotCmd creates the updateSlot command
func UpdateSlotCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateSlot <slot_id>",
		Short: "Update a slot's times, capacity or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch db.SlotPatch
			if cmd.Flags().Changed("start-time") {
				v, _ := cmd.Flags().GetString("start-time")
				patch.StartTime = &v
			}
			if cmd.Flags().Changed("end-time") {
				v, _ := cmd.Flags().GetString("end-time")
				patch.EndTime = &v
			}
			if cmd.Flags().Changed("min") {
				v, _ := cmd.Flags().GetInt("min")
				patch.MinParticipants = &v
			}
			if cmd.Flags().Changed("max") {
				v, _ := cmd.Flags().GetInt("max")
				patch.MaxParticipants = &v
			}
			if cmd.Flags().Changed("notes") {
				v, _ := cmd.Flags().GetString("notes")
				patch.Notes = &v
			}
			if cmd.Flags().Changed("supervisor") {
				v, _ := cmd.Flags().GetString("supervisor")
				patch.SupervisorID = &v
			}
			includeInactive, _ := cmd.Flags().GetBool("include-inactive")

			slot, err := services.UpdateSlot(app.Ctx, app.Database, app.Logger, args[0], patch, includeInactive)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Slot updated!\n\n")
			fmt.Printf("Date:         %s %s-%s\n", slot.Date, slot.StartTime, slot.EndTime)
			fmt.Printf("Participants: %d-%d\n\n", slot.MinParticipants, slot.MaxParticipants)

			return nil
		},
	}

	cmd.Flags().String("start-time", "", "New start time (HH:MM)")
	cmd.Flags().String("end-time", "", "New end time (HH:MM)")
	cmd.Flags().Int("min", 0, "New minimum participants")
	cmd.Flags().Int("max", 0, "New maximum participants")
	cmd.Flags().String("notes", "", "New notes")
	cmd.Flags().String("supervisor", "", "New supervisor volunteer ID")
	cmd.Flags().Bool("include-inactive", false, "Allow updating a deactivated slot")

	return cmd
}

// DeactivateSlotCmd creates the deactivateSlot command
func DeactivateSlotCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivateSlot <slot_id>",
		Short: "Deactivate a slot so it no longer accepts registrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeactivateSlot(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Slot %s deactivated.\n\n", args[0])
			return nil
		},
	}
}
