package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// mockReportStore implements ReportServiceStore for testing
type mockReportStore struct {
	reports       map[string]model.Report
	registrations []model.Registration
	volunteers    map[string]model.Volunteer
	profiles      map[string]model.Profile
	listed        []model.Report
	inserted      []model.Report
	updated       []model.Report
}

func (m *mockReportStore) GetReport(ctx context.Context, id string) (model.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return model.Report{}, errs.NotFound("report", id)
	}
	return report, nil
}

func (m *mockReportStore) InsertReport(ctx context.Context, report *model.Report) error {
	m.inserted = append(m.inserted, *report)
	return nil
}

func (m *mockReportStore) UpdateReport(ctx context.Context, report *model.Report) error {
	m.updated = append(m.updated, *report)
	m.reports[report.ID] = *report
	return nil
}

func (m *mockReportStore) ListReports(ctx context.Context, filter db.ReportFilter) ([]model.Report, error) {
	return m.listed, nil
}

func (m *mockReportStore) ListRegistrations(ctx context.Context, filter db.RegistrationFilter) ([]model.Registration, error) {
	var out []model.Registration
	for _, reg := range m.registrations {
		if filter.SlotID != "" && reg.SlotID != filter.SlotID {
			continue
		}
		if filter.VolunteerID != "" && reg.VolunteerID != filter.VolunteerID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if reg.Status == status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, reg)
	}
	return out, nil
}

func (m *mockReportStore) GetVolunteer(ctx context.Context, id string) (model.Volunteer, error) {
	vol, ok := m.volunteers[id]
	if !ok {
		return model.Volunteer{}, errs.NotFound("volunteer", id)
	}
	return vol, nil
}

func (m *mockReportStore) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return model.Profile{}, errs.NotFound("profile", id)
	}
	return profile, nil
}

func newReportStore() *mockReportStore {
	return &mockReportStore{
		reports: map[string]model.Report{},
		volunteers: map[string]model.Volunteer{
			"vol-1": {ID: "vol-1", ProfileID: "profile-1"},
		},
		profiles: map[string]model.Profile{
			"profile-1": {ID: "profile-1", Role: model.RoleVolunteer},
			"admin-1":   {ID: "admin-1", Role: model.RoleAdmin},
			"sup-1":     {ID: "sup-1", Role: model.RoleSupervisor},
		},
	}
}

func reportInput() SubmitReportInput {
	return SubmitReportInput{
		VolunteerID: "vol-1",
		Year:        2024,
		Month:       6,
		Hours:       4.5,
		Placements:  3,
	}
}

func TestSubmitReport_Success(t *testing.T) {
	store := newReportStore()

	report, err := SubmitReport(context.Background(), store, zap.NewNop(), reportInput())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 4.5, report.Hours)
	assert.False(t, report.Approved)
	assert.False(t, report.Public)
	require.Len(t, store.inserted, 1)
}

func TestSubmitReport_MonthOutOfRange(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		in := reportInput()
		in.Month = month

		_, err := SubmitReport(context.Background(), newReportStore(), zap.NewNop(), in)
		var validationErr *errs.ValidationError
		assert.ErrorAs(t, err, &validationErr, "month %d", month)
	}
}

func TestSubmitReport_NegativeCounters(t *testing.T) {
	in := reportInput()
	in.Hours = -1

	_, err := SubmitReport(context.Background(), newReportStore(), zap.NewNop(), in)
	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSubmitReport_SlotRequiresConfirmedRegistration(t *testing.T) {
	store := newReportStore()
	store.registrations = []model.Registration{
		{ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending},
	}

	in := reportInput()
	in.SlotID = "slot-1"

	_, err := SubmitReport(context.Background(), store, zap.NewNop(), in)
	require.Error(t, err)

	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSubmitReport_SlotWithConfirmedRegistration(t *testing.T) {
	store := newReportStore()
	store.registrations = []model.Registration{
		{ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusConfirmed},
	}

	in := reportInput()
	in.SlotID = "slot-1"

	report, err := SubmitReport(context.Background(), store, zap.NewNop(), in)
	require.NoError(t, err)
	assert.Equal(t, "slot-1", report.SlotID)
}

func TestApproveReport_ByAdmin(t *testing.T) {
	store := newReportStore()
	store.reports["report-1"] = model.Report{ID: "report-1", VolunteerID: "vol-1"}
	clock := fixedClock{now: time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)}

	report, err := ApproveReport(context.Background(), store, clock, zap.NewNop(), "report-1", "admin-1")
	require.NoError(t, err)

	assert.True(t, report.Approved)
	assert.Equal(t, "admin-1", report.ApprovedBy)
	require.NotNil(t, report.ApprovedAt)
	assert.Equal(t, clock.Now(), *report.ApprovedAt)
}

func TestApproveReport_BySupervisor(t *testing.T) {
	store := newReportStore()
	store.reports["report-1"] = model.Report{ID: "report-1", VolunteerID: "vol-1"}

	report, err := ApproveReport(context.Background(), store, fixedClock{now: time.Now()}, zap.NewNop(), "report-1", "sup-1")
	require.NoError(t, err)
	assert.True(t, report.Approved)
}

func TestApproveReport_VolunteerForbidden(t *testing.T) {
	store := newReportStore()
	store.reports["report-1"] = model.Report{ID: "report-1", VolunteerID: "vol-1"}

	_, err := ApproveReport(context.Background(), store, fixedClock{}, zap.NewNop(), "report-1", "profile-1")
	require.Error(t, err)

	var forbiddenErr *errs.ForbiddenError
	assert.ErrorAs(t, err, &forbiddenErr)
	assert.Empty(t, store.updated)
}

func TestSetReportVisibility_Toggle(t *testing.T) {
	store := newReportStore()
	store.reports["report-1"] = model.Report{ID: "report-1", VolunteerID: "vol-1"}

	report, err := SetReportVisibility(context.Background(), store, zap.NewNop(), "report-1", true)
	require.NoError(t, err)
	assert.True(t, report.Public)

	report, err = SetReportVisibility(context.Background(), store, zap.NewNop(), "report-1", false)
	require.NoError(t, err)
	assert.False(t, report.Public)
}

func TestListPublicReports(t *testing.T) {
	store := newReportStore()
	store.listed = []model.Report{{ID: "report-1", Public: true}}

	reports, err := ListPublicReports(context.Background(), store, 2024, 6)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
