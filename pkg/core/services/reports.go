package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// ReportServiceStore defines the database operations needed for the
// report lifecycle
type ReportServiceStore interface {
	GetReport(ctx context.Context, id string) (model.Report, error)
	InsertReport(ctx context.Context, report *model.Report) error
	UpdateReport(ctx context.Context, report *model.Report) error
	ListReports(ctx context.Context, filter db.ReportFilter) ([]model.Report, error)
	ListRegistrations(ctx context.Context, filter db.RegistrationFilter) ([]model.Registration, error)
	GetVolunteer(ctx context.Context, id string) (model.Volunteer, error)
	GetProfile(ctx context.Context, id string) (model.Profile, error)
}

// SubmitReportInput describes a monthly activity report submission
type SubmitReportInput struct {
	VolunteerID  string
	SlotID       string // optional: the slot the report documents
	Year         int
	Month        int
	Hours        float64
	Placements   int
	Videos       int
	BibleStudies int
	Notes        string
}

// SubmitReport records a volunteer's activity figures. When the report
// references a slot, the volunteer must hold a confirmed registration
// for it.
func SubmitReport(ctx context.Context, store ReportServiceStore, logger *zap.Logger, in SubmitReportInput) (model.Report, error) {
	if in.Month < 1 || in.Month > 12 {
		return model.Report{}, errs.Validationf("month %d out of range 1..12", in.Month)
	}
	if in.Year < 2000 {
		return model.Report{}, errs.Validationf("year %d is not plausible", in.Year)
	}
	if in.Hours < 0 || in.Placements < 0 || in.Videos < 0 || in.BibleStudies < 0 {
		return model.Report{}, errs.Validationf("report counters must be non-negative")
	}

	if _, err := store.GetVolunteer(ctx, in.VolunteerID); err != nil {
		return model.Report{}, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	if in.SlotID != "" {
		confirmed, err := store.ListRegistrations(ctx, db.RegistrationFilter{
			SlotID:      in.SlotID,
			VolunteerID: in.VolunteerID,
			Statuses:    []model.Status{model.StatusConfirmed},
		})
		if err != nil {
			return model.Report{}, fmt.Errorf("failed to check registrations for slot: %w", err)
		}
		if len(confirmed) == 0 {
			return model.Report{}, errs.Validationf("no confirmed registration for slot %s", in.SlotID)
		}
	}

	report := model.Report{
		ID:           uuid.New().String(),
		VolunteerID:  in.VolunteerID,
		SlotID:       in.SlotID,
		Year:         in.Year,
		Month:        in.Month,
		Hours:        in.Hours,
		Placements:   in.Placements,
		Videos:       in.Videos,
		BibleStudies: in.BibleStudies,
		Notes:        in.Notes,
	}

	if err := store.InsertReport(ctx, &report); err != nil {
		return model.Report{}, fmt.Errorf("failed to insert report: %w", err)
	}

	logger.Info("Report submitted",
		zap.String("report_id", report.ID),
		zap.String("volunteer_id", in.VolunteerID),
		zap.Int("year", in.Year),
		zap.Int("month", in.Month))

	return report, nil
}

// ApproveReport stamps a report as approved by the given profile.
// Only administrators and supervisors may approve.
func ApproveReport(ctx context.Context, store ReportServiceStore, clock Clock, logger *zap.Logger, reportID, approverID string) (model.Report, error) {
	report, err := store.GetReport(ctx, reportID)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to fetch report: %w", err)
	}

	approver, err := store.GetProfile(ctx, approverID)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to fetch approver profile: %w", err)
	}
	if approver.Role != model.RoleAdmin && approver.Role != model.RoleSupervisor {
		return model.Report{}, errs.Forbiddenf("profile %s may not approve reports", approverID)
	}

	now := clock.Now()
	report.Approved = true
	report.ApprovedBy = approverID
	report.ApprovedAt = &now

	if err := store.UpdateReport(ctx, &report); err != nil {
		return model.Report{}, fmt.Errorf("failed to update report: %w", err)
	}

	logger.Info("Report approved",
		zap.String("report_id", reportID),
		zap.String("approver_id", approverID))

	return report, nil
}

// SetReportVisibility toggles whether a report appears on the public
// summary. Visibility is independent of approval.
func SetReportVisibility(ctx context.Context, store ReportServiceStore, logger *zap.Logger, reportID string, public bool) (model.Report, error) {
	report, err := store.GetReport(ctx, reportID)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to fetch report: %w", err)
	}

	report.Public = public
	if err := store.UpdateReport(ctx, &report); err != nil {
		return model.Report{}, fmt.Errorf("failed to update report: %w", err)
	}

	logger.Info("Report visibility changed",
		zap.String("report_id", reportID),
		zap.Bool("public", public))

	return report, nil
}

// ListPublicReports returns the publicly visible reports for a month
func ListPublicReports(ctx context.Context, store ReportServiceStore, year, month int) ([]model.Report, error) {
	reports, err := store.ListReports(ctx, db.ReportFilter{Year: year, Month: month, OnlyPublic: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list public reports: %w", err)
	}
	return reports, nil
}
