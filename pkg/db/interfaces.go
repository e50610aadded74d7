// Package db defines the data-access boundary of the scheduling core:
// store interfaces and the filter types services pass down so that
// date ranges, status sets, and active flags are applied by the store,
// not by callers scanning whole tables.
package db

import (
	"context"
	"time"

	"github.com/mgrosjean/presentoir/pkg/core/model"
)

// SlotFilter narrows a slot listing. Zero-valued fields are not applied.
type SlotFilter struct {
	ActivityTypeID string
	DateFrom       string // "2006-01-02", inclusive
	DateTo         string // "2006-01-02", inclusive
	OnlyActive     bool
}

// SlotPatch carries a partial slot update; nil fields are left unchanged
type SlotPatch struct {
	StartTime       *string
	EndTime         *string
	MinParticipants *int
	MaxParticipants *int
	Notes           *string
	SupervisorID    *string
	Active          *bool
}

// RegistrationFilter narrows a registration listing
type RegistrationFilter struct {
	SlotID      string
	VolunteerID string
	Statuses    []model.Status
}

// ReportFilter narrows a report listing
type ReportFilter struct {
	VolunteerID string
	Year        int
	Month       int
	OnlyPublic  bool
}

// PendingEntry is a registration awaiting review joined with its slot
// date, as needed to order the approval queue
type PendingEntry struct {
	Registration model.Registration
	SlotDate     string // "2006-01-02"
}

// SlotStore provides slot catalog operations
type SlotStore interface {
	GetSlot(ctx context.Context, id string) (model.Slot, error)
	ListSlots(ctx context.Context, filter SlotFilter) ([]model.Slot, error)
	InsertSlot(ctx context.Context, slot *model.Slot) error
	// InsertSlots inserts a generated batch in one transaction;
	// a failure leaves no partial batch behind
	InsertSlots(ctx context.Context, slots []model.Slot) error
	UpdateSlot(ctx context.Context, id string, patch SlotPatch) (model.Slot, error)
}

// ActivityTypeStore provides activity type reads for slot generation
type ActivityTypeStore interface {
	GetActivityType(ctx context.Context, id string) (model.ActivityType, error)
	ListActivityTypes(ctx context.Context, onlyActive bool) ([]model.ActivityType, error)
}

// RegistrationStore provides registration ledger operations.
// InsertRegistration re-checks the monthly cap inside its own
// transaction when enforceCap is set; callers pass false for forced
// replacement sign-ups, which are allowed past the cap. The partial
// unique index on (volunteer, slot) over non-rejected rows backstops
// duplicate races, surfaced as errs.ConflictError.
type RegistrationStore interface {
	GetRegistration(ctx context.Context, id string) (model.Registration, error)
	InsertRegistration(ctx context.Context, reg *model.Registration, monthlyLimit int, enforceCap bool) error
	DeleteRegistration(ctx context.Context, id string) error
	UpdateRegistrationStatus(ctx context.Context, id string, status model.Status) (model.Registration, error)
	ListRegistrations(ctx context.Context, filter RegistrationFilter) ([]model.Registration, error)
	ListPendingEntries(ctx context.Context) ([]PendingEntry, error)
	CountForVolunteerInMonth(ctx context.Context, volunteerID string, year int, month time.Month) (int, error)
	HasRegistrationForSlot(ctx context.Context, volunteerID, slotID string) (bool, error)
	CountConfirmedForSlot(ctx context.Context, slotID string) (int, error)
}

// ReportStore provides activity report operations
type ReportStore interface {
	GetReport(ctx context.Context, id string) (model.Report, error)
	InsertReport(ctx context.Context, report *model.Report) error
	UpdateReport(ctx context.Context, report *model.Report) error
	ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error)
}

// VolunteerStore provides volunteer and profile reads
type VolunteerStore interface {
	GetVolunteer(ctx context.Context, id string) (model.Volunteer, error)
	GetProfile(ctx context.Context, id string) (model.Profile, error)
}

// NotificationStore records in-app notifications
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
}

// Database is the full store contract implemented by pkg/postgres
type Database interface {
	SlotStore
	ActivityTypeStore
	RegistrationStore
	ReportStore
	VolunteerStore
	NotificationStore
}
