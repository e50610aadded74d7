package model

import "time"

// Status is the lifecycle state of a registration
type Status string

const (
	StatusPending     Status = "pending"
	StatusProvisional Status = "provisional"
	StatusConfirmed   Status = "confirmed"
	StatusRejected    Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProvisional, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status allows no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// Counts reports whether a registration in this status counts toward
// the monthly cap and the duplicate-slot rule. Rejected never counts.
func (s Status) Counts() bool {
	return s != StatusRejected
}

// Role is a profile's access level
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleVolunteer  Role = "volunteer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSupervisor || r == RoleVolunteer
}

// NotificationKind identifies a registration status notification
type NotificationKind string

const (
	NotifyInscriptionConfirmed   NotificationKind = "inscription_confirmed"
	NotifyInscriptionRejected    NotificationKind = "inscription_rejected"
	NotifyInscriptionProvisional NotificationKind = "inscription_provisional"
)

// RecurrenceRule describes when slots for an activity type recur.
// Weekdays uses 0=Sunday..6=Saturday; WeeksOfMonth uses 1..4.
type RecurrenceRule struct {
	Enabled      bool
	Weekdays     []int
	WeeksOfMonth []int
	StartTime    string // "15:04"
	EndTime      string // "15:04"
}

// ActivityType represents a kind of activity slots can be created for
type ActivityType struct {
	ID           string
	Name         string
	Description  string
	DefaultStart string // "15:04"
	DefaultEnd   string // "15:04"
	DefaultMin   int    // default minimum participants for generated slots
	DefaultMax   int    // default maximum participants for generated slots
	Recurrence   RecurrenceRule
	AutoGenerate bool
	ApproverID   string // Profile ID, empty if unset
	Active       bool
}

// Slot represents a bookable time window for one activity type on one date
type Slot struct {
	ID              string
	ActivityTypeID  string
	Date            string // "2006-01-02"
	StartTime       string // "15:04"
	EndTime         string // "15:04"
	MinParticipants int
	MaxParticipants int
	Active          bool
	Notes           string
	SupervisorID    string // Profile ID, empty if unassigned
}

// Profile represents a person's identity and access level
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	Active    bool
}

// Volunteer represents a person who can register for slots
type Volunteer struct {
	ID                   string
	ProfileID            string
	Elder                bool
	MinisterialAssistant bool
	Pioneer              bool
	Notes                string
}

// Registration is one volunteer's claim on one slot
type Registration struct {
	ID          string
	SlotID      string
	VolunteerID string
	CreatedAt   time.Time
	Status      Status
	Notes       string
}

// Report records a volunteer's activity figures for one month,
// optionally tied to the slot it documents
type Report struct {
	ID           string
	VolunteerID  string
	SlotID       string // empty if not tied to a slot
	Year         int
	Month        int
	Hours        float64
	Placements   int
	Videos       int
	BibleStudies int
	Approved     bool
	ApprovedBy   string // Profile ID
	ApprovedAt   *time.Time
	Public       bool
	Notes        string
}

// Notification is an in-app notification row created alongside email dispatch
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Kind      NotificationKind
	Read      bool
	CreatedAt time.Time
}
