package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrences_WeeklySundaysOfJanuary(t *testing.T) {
	// January 2024 starts on a Monday; the Sundays are the 7th, 14th,
	// 21st and 28th
	occurrences, err := Occurrences(date(2024, time.January, 1), time.Sunday, Weekly, date(2024, time.January, 31))
	require.NoError(t, err)

	require.Len(t, occurrences, 4)
	assert.Equal(t, date(2024, time.January, 7), occurrences[0])
	assert.Equal(t, date(2024, time.January, 14), occurrences[1])
	assert.Equal(t, date(2024, time.January, 21), occurrences[2])
	assert.Equal(t, date(2024, time.January, 28), occurrences[3])
}

func TestOccurrences_StartOnMatchingWeekday(t *testing.T) {
	// 2024-01-07 is itself a Sunday and must be included
	occurrences, err := Occurrences(date(2024, time.January, 7), time.Sunday, Weekly, date(2024, time.January, 14))
	require.NoError(t, err)

	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2024, time.January, 7), occurrences[0])
}

func TestOccurrences_EndBoundaryInclusive(t *testing.T) {
	occurrences, err := Occurrences(date(2024, time.January, 1), time.Sunday, Weekly, date(2024, time.January, 7))
	require.NoError(t, err)

	require.Len(t, occurrences, 1)
	assert.Equal(t, date(2024, time.January, 7), occurrences[0])
}

func TestOccurrences_Biweekly(t *testing.T) {
	occurrences, err := Occurrences(date(2024, time.January, 1), time.Sunday, Biweekly, date(2024, time.February, 29))
	require.NoError(t, err)

	require.Len(t, occurrences, 4)
	assert.Equal(t, date(2024, time.January, 7), occurrences[0])
	assert.Equal(t, date(2024, time.January, 21), occurrences[1])
	assert.Equal(t, date(2024, time.February, 4), occurrences[2])
	assert.Equal(t, date(2024, time.February, 18), occurrences[3])
}

func TestOccurrences_MonthlyStepsFourWeeks(t *testing.T) {
	occurrences, err := Occurrences(date(2024, time.January, 1), time.Sunday, Monthly, date(2024, time.March, 31))
	require.NoError(t, err)

	require.Len(t, occurrences, 3)
	assert.Equal(t, date(2024, time.January, 7), occurrences[0])
	assert.Equal(t, date(2024, time.February, 4), occurrences[1])
	assert.Equal(t, date(2024, time.March, 3), occurrences[2])
}

func TestOccurrences_EmptyRangeIsNotAnError(t *testing.T) {
	// Range ends before the first Sunday is reached
	occurrences, err := Occurrences(date(2024, time.January, 1), time.Sunday, Weekly, date(2024, time.January, 5))
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestOccurrences_EndBeforeStart(t *testing.T) {
	_, err := Occurrences(date(2024, time.February, 1), time.Sunday, Weekly, date(2024, time.January, 1))
	require.Error(t, err)

	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOccurrences_InvalidFrequency(t *testing.T) {
	_, err := Occurrences(date(2024, time.January, 1), time.Sunday, Frequency("daily"), date(2024, time.January, 31))
	require.Error(t, err)

	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("Weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, f)

	_, err = ParseFrequency("fortnightly")
	assert.Error(t, err)
}

func TestIntervalDays(t *testing.T) {
	assert.Equal(t, 7, Weekly.IntervalDays())
	assert.Equal(t, 14, Biweekly.IntervalDays())
	assert.Equal(t, 28, Monthly.IntervalDays())
}

func TestRuleOccurrences_SecondSundayOfEachMonth(t *testing.T) {
	rule := model.RecurrenceRule{
		Enabled:      true,
		Weekdays:     []int{0}, // Sunday
		WeeksOfMonth: []int{2},
	}

	occurrences, err := RuleOccurrences(rule, date(2024, time.January, 1), date(2024, time.March, 31))
	require.NoError(t, err)

	require.Len(t, occurrences, 3)
	assert.Equal(t, date(2024, time.January, 14), occurrences[0])
	assert.Equal(t, date(2024, time.February, 11), occurrences[1])
	assert.Equal(t, date(2024, time.March, 10), occurrences[2])
}

func TestRuleOccurrences_MultipleWeekdaysAndWeeks(t *testing.T) {
	rule := model.RecurrenceRule{
		Enabled:      true,
		Weekdays:     []int{2, 4}, // Tuesday and Thursday
		WeeksOfMonth: []int{1, 3},
	}

	occurrences, err := RuleOccurrences(rule, date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)

	// First and third Tuesday and Thursday of January 2024
	require.Len(t, occurrences, 4)
	assert.Equal(t, date(2024, time.January, 2), occurrences[0])
	assert.Equal(t, date(2024, time.January, 4), occurrences[1])
	assert.Equal(t, date(2024, time.January, 16), occurrences[2])
	assert.Equal(t, date(2024, time.January, 18), occurrences[3])
}

func TestRuleOccurrences_DisabledRule(t *testing.T) {
	rule := model.RecurrenceRule{
		Enabled:      false,
		Weekdays:     []int{0},
		WeeksOfMonth: []int{1},
	}

	occurrences, err := RuleOccurrences(rule, date(2024, time.January, 1), date(2024, time.March, 31))
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestMidnight(t *testing.T) {
	in := time.Date(2024, time.June, 15, 18, 30, 12, 400, time.UTC)
	assert.Equal(t, date(2024, time.June, 15), Midnight(in))
}
