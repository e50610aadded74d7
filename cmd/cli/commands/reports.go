package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mgrosjean/presentoir/pkg/core/services"
)

// SubmitReportCmd creates the submitReport command
func SubmitReportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitReport <volunteer_id> <year> <month>",
		Short: "Submit a volunteer activity report for a month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}
			month, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("month must be a number: %w", err)
			}

			slotID, _ := cmd.Flags().GetString("slot")
			hours, _ := cmd.Flags().GetFloat64("hours")
			placements, _ := cmd.Flags().GetInt("placements")
			videos, _ := cmd.Flags().GetInt("videos")
			bibleStudies, _ := cmd.Flags().GetInt("studies")
			notes, _ := cmd.Flags().GetString("notes")

			report, err := services.SubmitReport(app.Ctx, app.Database, app.Logger, services.SubmitReportInput{
				VolunteerID:  args[0],
				SlotID:       slotID,
				Year:         year,
				Month:        month,
				Hours:        hours,
				Placements:   placements,
				Videos:       videos,
				BibleStudies: bibleStudies,
				Notes:        notes,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Report submitted!\n\n")
			fmt.Printf("Report ID: %s\n\n", report.ID)

			return nil
		},
	}

	cmd.Flags().String("slot", "", "Slot the report documents (requires a confirmed registration)")
	cmd.Flags().Float64("hours", 0, "Hours spent")
	cmd.Flags().Int("placements", 0, "Publications placed")
	cmd.Flags().Int("videos", 0, "Videos shown")
	cmd.Flags().Int("studies", 0, "Bible studies")
	cmd.Flags().String("notes", "", "Free-form notes")

	return cmd
}

// ApproveReportCmd creates the approveReport command
func ApproveReportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approveReport <report_id> <approver_id>",
		Short: "Approve a submitted report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.ApproveReport(app.Ctx, app.Database, app.Clock, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Report %s approved.\n\n", report.ID)
			return nil
		},
	}
}

// PublishReportCmd creates the publishReport command
func PublishReportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishReport <report_id>",
		Short: "Toggle a report's public visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hide, _ := cmd.Flags().GetBool("hide")

			report, err := services.SetReportVisibility(app.Ctx, app.Database, app.Logger, args[0], !hide)
			if err != nil {
				return err
			}

			visibility := "public"
			if !report.Public {
				visibility = "private"
			}
			fmt.Printf("\n✓ Report %s is now %s.\n\n", report.ID, visibility)

			return nil
		},
	}

	cmd.Flags().Bool("hide", false, "Make the report private instead of public")

	return cmd
}

// ListPublicReportsCmd creates the listReports command
func ListPublicReportsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listReports <year> <month>",
		Short: "List publicly visible reports for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}
			month, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("month must be a number: %w", err)
			}

			reports, err := services.ListPublicReports(app.Ctx, app.Database, year, month)
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Println("No public reports for that month.")
				return nil
			}

			fmt.Printf("\n%d report(s) for %d-%02d:\n\n", len(reports), year, month)
			for _, report := range reports {
				fmt.Printf("  %s  volunteer=%s  hours=%.1f  placements=%d  videos=%d  studies=%d\n",
					report.ID, report.VolunteerID, report.Hours,
					report.Placements, report.Videos, report.BibleStudies)
			}
			fmt.Println()

			return nil
		},
	}
}
