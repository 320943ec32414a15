package service

import (
	"testing"
	"time"

	"hub-crm-api/modules/event/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seedWindow(start string, duration time.Duration) (time.Time, time.Time) {
	t, err := time.Parse("2006-01-02T15:04", start)
	if err != nil {
		panic(err)
	}
	return t, t.Add(duration)
}

func TestExpandNone(t *testing.T) {
	start, end := seedWindow("2024-01-07T10:00", time.Hour)

	windows := Expand(entity.RecurrenceRule{RepeatType: entity.RepeatNone}, start, end)

	require.Len(t, windows, 1)
	assert.Equal(t, start, windows[0].StartsAt)
	assert.Equal(t, end, windows[0].EndsAt)
}

func TestExpandWeeklyCount(t *testing.T) {
	// Three one-hour windows, one week apart.
	start, end := seedWindow("2024-01-07T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatWeekly,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndCount,
		RepeatCount:    intPtr(3),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-01-07T10:00", windows[0].StartsAt.Format("2006-01-02T15:04"))
	assert.Equal(t, "2024-01-14T10:00", windows[1].StartsAt.Format("2006-01-02T15:04"))
	assert.Equal(t, "2024-01-21T10:00", windows[2].StartsAt.Format("2006-01-02T15:04"))
	for _, w := range windows {
		assert.Equal(t, time.Hour, w.EndsAt.Sub(w.StartsAt))
	}
}

func TestExpandCountTerminationAllTypes(t *testing.T) {
	start, end := seedWindow("2024-03-15T09:30", 90*time.Minute)

	for _, repeatType := range []entity.RepeatType{
		entity.RepeatDaily, entity.RepeatWeekly, entity.RepeatMonthly, entity.RepeatYearly,
	} {
		rule := entity.RecurrenceRule{
			RepeatType:     repeatType,
			RepeatInterval: 1,
			RepeatEndType:  entity.RepeatEndCount,
			RepeatCount:    intPtr(5),
		}

		windows := Expand(rule, start, end)

		require.Len(t, windows, 5, "repeat type %s", repeatType)
		for _, w := range windows {
			assert.Equal(t, 90*time.Minute, w.EndsAt.Sub(w.StartsAt), "repeat type %s", repeatType)
		}
	}
}

func TestExpandCountOfOneEmitsSeedOnly(t *testing.T) {
	start, end := seedWindow("2024-01-07T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatDaily,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndCount,
		RepeatCount:    intPtr(1),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 1)
	assert.Equal(t, start, windows[0].StartsAt)
}

func TestExpandWeeklyTargetWeekday(t *testing.T) {
	// Seed on a Wednesday; all subsequent occurrences land on Mondays.
	start, end := seedWindow("2024-01-03T19:00", 2*time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:      entity.RepeatWeekly,
		RepeatInterval:  1,
		RepeatEndType:   entity.RepeatEndCount,
		RepeatCount:     intPtr(4),
		RepeatDayOfWeek: strPtr("monday"),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 4)
	assert.Equal(t, time.Wednesday, windows[0].StartsAt.Weekday())
	assert.Equal(t, "2024-01-08T19:00", windows[1].StartsAt.Format("2006-01-02T15:04"))
	for _, w := range windows[1:] {
		assert.Equal(t, time.Monday, w.StartsAt.Weekday())
	}
}

func TestExpandWeeklySameWeekdayNeverRepeatsDay(t *testing.T) {
	// Seed already on the target weekday: advance a full interval, not zero days.
	start, end := seedWindow("2024-01-08T10:00", time.Hour) // a Monday
	rule := entity.RecurrenceRule{
		RepeatType:      entity.RepeatWeekly,
		RepeatInterval:  2,
		RepeatEndType:   entity.RepeatEndCount,
		RepeatCount:     intPtr(3),
		RepeatDayOfWeek: strPtr("monday"),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-01-08", windows[0].StartsAt.Format("2006-01-02"))
	assert.Equal(t, "2024-01-22", windows[1].StartsAt.Format("2006-01-02"))
	assert.Equal(t, "2024-02-05", windows[2].StartsAt.Format("2006-01-02"))
}

func TestExpandWeeklyUnknownWeekdayFallsBackToInterval(t *testing.T) {
	start, end := seedWindow("2024-01-07T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:      entity.RepeatWeekly,
		RepeatInterval:  2,
		RepeatEndType:   entity.RepeatEndCount,
		RepeatCount:     intPtr(2),
		RepeatDayOfWeek: strPtr("someday"),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 2)
	assert.Equal(t, "2024-01-21", windows[1].StartsAt.Format("2006-01-02"))
}

func TestExpandMonthlyDayOfMonthClampsShortMonths(t *testing.T) {
	// Leap year: 31 Jan -> 29 Feb -> 31 Mar.
	start, end := seedWindow("2024-01-31T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:       entity.RepeatMonthly,
		RepeatInterval:   1,
		RepeatEndType:    entity.RepeatEndCount,
		RepeatCount:      intPtr(3),
		RepeatDayOfMonth: intPtr(31),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-02-29T10:00", windows[1].StartsAt.Format("2006-01-02T15:04"))
	assert.Equal(t, "2024-03-31T10:00", windows[2].StartsAt.Format("2006-01-02T15:04"))
}

func TestExpandMonthlyDayOfMonthClampNonLeapYear(t *testing.T) {
	start, end := seedWindow("2023-01-31T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:       entity.RepeatMonthly,
		RepeatInterval:   1,
		RepeatEndType:    entity.RepeatEndCount,
		RepeatCount:      intPtr(2),
		RepeatDayOfMonth: intPtr(31),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 2)
	assert.Equal(t, "2023-02-28T10:00", windows[1].StartsAt.Format("2006-01-02T15:04"))
}

func TestExpandMonthlyNthWeekday(t *testing.T) {
	// First Sunday of each month.
	start, end := seedWindow("2024-01-07T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:        entity.RepeatMonthly,
		RepeatInterval:    1,
		RepeatEndType:     entity.RepeatEndCount,
		RepeatCount:       intPtr(3),
		RepeatDayOfWeek:   strPtr("sunday"),
		RepeatWeekOfMonth: strPtr("first"),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-02-04", windows[1].StartsAt.Format("2006-01-02"))
	assert.Equal(t, "2024-03-03", windows[2].StartsAt.Format("2006-01-02"))
	for _, w := range windows {
		assert.Equal(t, time.Sunday, w.StartsAt.Weekday())
	}
}

func TestExpandMonthlyLastWeekday(t *testing.T) {
	// Last Friday of each month.
	start, end := seedWindow("2024-01-26T18:00", 3*time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:        entity.RepeatMonthly,
		RepeatInterval:    1,
		RepeatEndType:     entity.RepeatEndCount,
		RepeatCount:       intPtr(3),
		RepeatDayOfWeek:   strPtr("friday"),
		RepeatWeekOfMonth: strPtr("last"),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-02-23", windows[1].StartsAt.Format("2006-01-02"))
	assert.Equal(t, "2024-03-29", windows[2].StartsAt.Format("2006-01-02"))
}

func TestExpandMonthlyNoRefinementNormalizesShortMonths(t *testing.T) {
	// The plain monthly branch keeps the numeric day and lets short months
	// roll forward, as the original generator did.
	start, end := seedWindow("2024-01-31T10:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatMonthly,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndCount,
		RepeatCount:    intPtr(2),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 2)
	assert.Equal(t, "2024-03-02", windows[1].StartsAt.Format("2006-01-02"))
}

func TestExpandEndDateStops(t *testing.T) {
	start, end := seedWindow("2024-01-07T10:00", time.Hour)
	endDate := time.Date(2024, 1, 21, 23, 59, 0, 0, time.UTC)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatWeekly,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndDate,
		RepeatEndDate:  &endDate,
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 3)
	assert.Equal(t, "2024-01-21", windows[2].StartsAt.Format("2006-01-02"))
}

func TestExpandNeverEndsCapsAtSafetyLimit(t *testing.T) {
	start, end := seedWindow("2024-01-01T08:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatDaily,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndNever,
	}

	windows := Expand(rule, start, end)

	assert.Len(t, windows, maxGeneratedOccurrences)
}

func TestExpandYearlyLeapDay(t *testing.T) {
	start, end := seedWindow("2024-02-29T12:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:     entity.RepeatYearly,
		RepeatInterval: 1,
		RepeatEndType:  entity.RepeatEndCount,
		RepeatCount:    intPtr(2),
	}

	windows := Expand(rule, start, end)

	require.Len(t, windows, 2)
	// AddDate normalizes 29 Feb 2025 to 1 Mar 2025.
	assert.Equal(t, "2025-03-01", windows[1].StartsAt.Format("2006-01-02"))
}

func TestExpandOutputIsChronological(t *testing.T) {
	start, end := seedWindow("2024-01-03T19:00", time.Hour)
	rule := entity.RecurrenceRule{
		RepeatType:      entity.RepeatWeekly,
		RepeatInterval:  1,
		RepeatEndType:   entity.RepeatEndCount,
		RepeatCount:     intPtr(10),
		RepeatDayOfWeek: strPtr("friday"),
	}

	windows := Expand(rule, start, end)

	for i := 1; i < len(windows); i++ {
		assert.True(t, windows[i].StartsAt.After(windows[i-1].StartsAt))
	}
}

func TestValidateRule(t *testing.T) {
	start, end := seedWindow("2024-01-07T10:00", time.Hour)

	t.Run("zero interval rejected", func(t *testing.T) {
		rule := entity.RecurrenceRule{RepeatType: entity.RepeatWeekly, RepeatInterval: 0}
		appErr := ValidateRule(rule, start, end)
		require.NotNil(t, appErr)
	})

	t.Run("negative interval rejected", func(t *testing.T) {
		rule := entity.RecurrenceRule{RepeatType: entity.RepeatDaily, RepeatInterval: -2}
		appErr := ValidateRule(rule, start, end)
		require.NotNil(t, appErr)
	})

	t.Run("count mode requires a count", func(t *testing.T) {
		rule := entity.RecurrenceRule{
			RepeatType:     entity.RepeatWeekly,
			RepeatInterval: 1,
			RepeatEndType:  entity.RepeatEndCount,
		}
		appErr := ValidateRule(rule, start, end)
		require.NotNil(t, appErr)
	})

	t.Run("date mode requires an end date", func(t *testing.T) {
		rule := entity.RecurrenceRule{
			RepeatType:     entity.RepeatWeekly,
			RepeatInterval: 1,
			RepeatEndType:  entity.RepeatEndDate,
		}
		appErr := ValidateRule(rule, start, end)
		require.NotNil(t, appErr)
	})

	t.Run("day of month bounds", func(t *testing.T) {
		rule := entity.RecurrenceRule{
			RepeatType:       entity.RepeatMonthly,
			RepeatInterval:   1,
			RepeatDayOfMonth: intPtr(32),
		}
		appErr := ValidateRule(rule, start, end)
		require.NotNil(t, appErr)
	})

	t.Run("none skips rule validation", func(t *testing.T) {
		rule := entity.RecurrenceRule{RepeatType: entity.RepeatNone}
		assert.Nil(t, ValidateRule(rule, start, end))
	})

	t.Run("valid weekly rule", func(t *testing.T) {
		rule := entity.RecurrenceRule{
			RepeatType:     entity.RepeatWeekly,
			RepeatInterval: 1,
			RepeatEndType:  entity.RepeatEndCount,
			RepeatCount:    intPtr(3),
		}
		assert.Nil(t, ValidateRule(rule, start, end))
	})
}
