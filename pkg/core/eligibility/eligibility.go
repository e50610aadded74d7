// Package eligibility decides whether a volunteer may register for a
// slot and how pending registrations should be prioritised. It reads
// ledger state and never mutates anything.
package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/mgrosjean/presentoir/pkg/core/model"
)

// Rule names a registration rule a candidate registration violates
type Rule string

const (
	RuleMonthlyLimitReached Rule = "monthly-limit-reached"
	RuleAlreadyRegistered   Rule = "already-registered-this-slot"
)

// Tier is a priority hint for ordering the pending-approval queue.
// Lower values are surfaced first.
type Tier int

const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	}
	return "unknown"
}

// Ledger provides the registration counts the evaluator needs.
// Rejected registrations never count toward any of these.
type Ledger interface {
	CountForVolunteerInMonth(ctx context.Context, volunteerID string, year int, month time.Month) (int, error)
	HasRegistrationForSlot(ctx context.Context, volunteerID, slotID string) (bool, error)
	CountConfirmedForSlot(ctx context.Context, slotID string) (int, error)
}

// Limits holds the tunable eligibility constants
type Limits struct {
	// MonthlyLimit is the maximum non-rejected registrations a
	// volunteer may hold within one calendar month
	MonthlyLimit int
	// PriorityHighMax and PriorityMediumMax are the upper month counts
	// for the high and medium tiers
	PriorityHighMax   int
	PriorityMediumMax int
}

// DefaultLimits matches the constants the congregation has run with so far
func DefaultLimits() Limits {
	return Limits{MonthlyLimit: 2, PriorityHighMax: 2, PriorityMediumMax: 4}
}

// Evaluator applies registration rules against ledger state
type Evaluator struct {
	ledger Ledger
	limits Limits
}

// NewEvaluator creates an evaluator over the given ledger
func NewEvaluator(ledger Ledger, limits Limits) *Evaluator {
	return &Evaluator{ledger: ledger, limits: limits}
}

// Limits returns the limits the evaluator was built with
func (e *Evaluator) Limits() Limits {
	return e.limits
}

// Result is the outcome of evaluating one candidate registration
type Result struct {
	// Violations holds every violated rule, in rule order
	Violations []Rule
	// AtCapacity is set when the slot's confirmed registrations have
	// reached its maximum. Not a violation: it flips the registration
	// into replacement (provisional) semantics instead of blocking.
	AtCapacity bool
	// MonthCount is the volunteer's non-rejected registration count in
	// the slot's month, as seen during evaluation
	MonthCount int
}

// RuleNames returns the violated rule names as plain strings
func (r Result) RuleNames() []string {
	names := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		names[i] = string(v)
	}
	return names
}

// Evaluate checks every rule for the volunteer against the slot and
// returns all violations, not just the first
func (e *Evaluator) Evaluate(ctx context.Context, volunteerID string, slot model.Slot) (Result, error) {
	var result Result

	slotDate, err := time.Parse("2006-01-02", slot.Date)
	if err != nil {
		return result, fmt.Errorf("failed to parse slot date %q: %w", slot.Date, err)
	}

	count, err := e.ledger.CountForVolunteerInMonth(ctx, volunteerID, slotDate.Year(), slotDate.Month())
	if err != nil {
		return result, fmt.Errorf("failed to count registrations for month: %w", err)
	}
	result.MonthCount = count
	if count >= e.limits.MonthlyLimit {
		result.Violations = append(result.Violations, RuleMonthlyLimitReached)
	}

	registered, err := e.ledger.HasRegistrationForSlot(ctx, volunteerID, slot.ID)
	if err != nil {
		return result, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if registered {
		result.Violations = append(result.Violations, RuleAlreadyRegistered)
	}

	confirmed, err := e.ledger.CountConfirmedForSlot(ctx, slot.ID)
	if err != nil {
		return result, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}
	if confirmed >= slot.MaxParticipants {
		result.AtCapacity = true
	}

	return result, nil
}

// Priority derives the volunteer's tier for the given month from how
// many registrations they already hold; fewer registrations surface
// first in the approval queue
func (e *Evaluator) Priority(ctx context.Context, volunteerID string, year int, month time.Month) (Tier, error) {
	_, tier, err := e.MonthStanding(ctx, volunteerID, year, month)
	return tier, err
}

// MonthStanding returns the volunteer's non-rejected registration
// count for the month together with the tier it maps to
func (e *Evaluator) MonthStanding(ctx context.Context, volunteerID string, year int, month time.Month) (int, Tier, error) {
	count, err := e.ledger.CountForVolunteerInMonth(ctx, volunteerID, year, month)
	if err != nil {
		return 0, TierLow, fmt.Errorf("failed to count registrations for month: %w", err)
	}
	return count, e.limits.TierFor(count), nil
}

// TierFor maps a month count onto a priority tier
func (l Limits) TierFor(count int) Tier {
	switch {
	case count <= l.PriorityHighMax:
		return TierHigh
	case count <= l.PriorityMediumMax:
		return TierMedium
	default:
		return TierLow
	}
}
