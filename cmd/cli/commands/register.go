package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgrosjean/presentoir/pkg/core/services"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// RegisterCmd creates the register command
func RegisterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <volunteer_id> <slot_id>",
		Short: "Register a volunteer for a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")
			force, _ := cmd.Flags().GetBool("force")

			reg, err := services.Register(app.Ctx, app.Database, app.Evaluator, app.Notifier, app.Clock, app.Logger, services.RegisterInput{
				VolunteerID: args[0],
				SlotID:      args[1],
				Notes:       notes,
				Force:       force,
			})
			if err != nil {
				var ruleErr *errs.RuleViolationError
				if errors.As(err, &ruleErr) {
					fmt.Printf("\n✗ Registration blocked:\n")
					for _, rule := range ruleErr.Rules {
						fmt.Printf("  - %s\n", rule)
					}
					fmt.Println("\nUse --force to create a provisional registration anyway.")
				}
				return err
			}

			fmt.Printf("\n✓ Registration created!\n\n")
			fmt.Printf("Registration ID: %s\n", reg.ID)
			fmt.Printf("Status:          %s\n\n", reg.Status)

			return nil
		},
	}

	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().Bool("force", false, "Override rule violations; the registration is created provisional")

	return cmd
}

// WithdrawCmd creates the withdraw command
func WithdrawCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <registration_id> <volunteer_id>",
		Short: "Withdraw a volunteer's own registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Withdraw(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Registration %s withdrawn.\n\n", args[0])
			return nil
		},
	}
}
