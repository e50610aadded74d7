package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgrosjean/presentoir/pkg/core/services"
)

// ApproveCmd creates the approve command
func ApproveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <registration_id>",
		Short: "Confirm a pending or provisional registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := services.Approve(app.Ctx, app.Database, app.Notifier, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Registration %s is now %s.\n\n", reg.ID, reg.Status)
			return nil
		},
	}
}

// RejectCmd creates the reject command
func RejectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <registration_id>",
		Short: "Reject a pending or provisional registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := services.Reject(app.Ctx, app.Database, app.Notifier, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Registration %s is now %s.\n\n", reg.ID, reg.Status)
			return nil
		},
	}
}

// ProvisionalCmd creates the provisional command
func ProvisionalCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "provisional <registration_id>",
		Short: "Move a pending registration to provisional",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := services.MarkProvisional(app.Ctx, app.Database, app.Notifier, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Registration %s is now %s.\n\n", reg.ID, reg.Status)
			return nil
		},
	}
}

// PendingCmd creates the pending command
func PendingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending and provisional registrations in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := services.PendingQueue(app.Ctx, app.Database, app.Evaluator, app.Logger)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No registrations awaiting review.")
				return nil
			}

			fmt.Printf("\n%d registration(s) awaiting review:\n\n", len(entries))
			for i, entry := range entries {
				fmt.Printf("  %2d. %s  volunteer=%s  slot=%s (%s)  status=%s  priority=%s (%d this month)\n",
					i+1, entry.Registration.ID, entry.Registration.VolunteerID,
					entry.Registration.SlotID, entry.SlotDate,
					entry.Registration.Status, entry.Tier, entry.MonthCount)
			}
			fmt.Println()

			return nil
		},
	}
}
