package service

import (
	"fmt"
	"strings"
	"time"

	"hub-crm-api/core/errors"
	"hub-crm-api/modules/event/entity"
)

// maxGeneratedOccurrences is the safety valve for runaway rules
// (repeat_end_type = never).
const maxGeneratedOccurrences = 1000

// Window is one generated occurrence window. Every window produced from a
// rule keeps the seed window's duration.
type Window struct {
	StartsAt time.Time
	EndsAt   time.Time
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(name *string) (time.Weekday, bool) {
	if name == nil {
		return 0, false
	}
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(*name))]
	return wd, ok
}

// ValidateRule rejects malformed rules before expansion. The expander itself
// assumes a valid rule.
func ValidateRule(rule entity.RecurrenceRule, seedStart, seedEnd time.Time) *errors.AppError {
	if seedStart.IsZero() || seedEnd.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "Start and end dates are required", nil)
	}
	if seedEnd.Before(seedStart) {
		return errors.NewAppError(errors.ErrInvalidInput, "End date must not be before start date", nil)
	}

	switch rule.RepeatType {
	case "", entity.RepeatNone:
		return nil
	case entity.RepeatDaily, entity.RepeatWeekly, entity.RepeatMonthly, entity.RepeatYearly:
	default:
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Unknown repeat type %q", rule.RepeatType), nil)
	}

	if rule.RepeatInterval < 1 {
		return errors.NewAppError(errors.ErrInvalidInput, "Repeat interval must be at least 1", nil)
	}

	switch rule.RepeatEndType {
	case "", entity.RepeatEndNever:
	case entity.RepeatEndDate:
		if rule.RepeatEndDate == nil {
			return errors.NewAppError(errors.ErrInvalidInput, "Repeat end date is required", nil)
		}
	case entity.RepeatEndCount:
		if rule.RepeatCount == nil || *rule.RepeatCount < 1 {
			return errors.NewAppError(errors.ErrInvalidInput, "Repeat count must be at least 1", nil)
		}
	default:
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Unknown repeat end type %q", rule.RepeatEndType), nil)
	}

	if rule.RepeatDayOfMonth != nil && (*rule.RepeatDayOfMonth < 1 || *rule.RepeatDayOfMonth > 31) {
		return errors.NewAppError(errors.ErrInvalidInput, "Repeat day of month must be between 1 and 31", nil)
	}

	return nil
}

// Expand turns a recurrence rule plus a seed window into the full ordered
// list of occurrence windows. The seed window is always emitted first and
// every window preserves the seed duration. Output is capped at
// maxGeneratedOccurrences entries.
func Expand(rule entity.RecurrenceRule, seedStart, seedEnd time.Time) []Window {
	if rule.RepeatType == "" || rule.RepeatType == entity.RepeatNone {
		return []Window{{StartsAt: seedStart, EndsAt: seedEnd}}
	}

	duration := seedEnd.Sub(seedStart)
	windows := []Window{{StartsAt: seedStart, EndsAt: seedStart.Add(duration)}}
	count := 1
	current := seedStart

	for {
		if shouldStop(rule, current, count) {
			break
		}

		next, ok := nextStart(rule, current)
		if !ok {
			break
		}
		current = next

		if shouldStop(rule, current, count) {
			break
		}

		windows = append(windows, Window{StartsAt: current, EndsAt: current.Add(duration)})
		count++

		if count >= maxGeneratedOccurrences {
			break
		}
	}

	return windows
}

func shouldStop(rule entity.RecurrenceRule, current time.Time, count int) bool {
	if rule.RepeatEndType == entity.RepeatEndCount && rule.RepeatCount != nil && count >= *rule.RepeatCount {
		return true
	}
	if rule.RepeatEndType == entity.RepeatEndDate && rule.RepeatEndDate != nil && current.After(*rule.RepeatEndDate) {
		return true
	}
	return false
}

func nextStart(rule entity.RecurrenceRule, current time.Time) (time.Time, bool) {
	interval := rule.RepeatInterval

	switch rule.RepeatType {
	case entity.RepeatDaily:
		return current.AddDate(0, 0, interval), true

	case entity.RepeatWeekly:
		if target, ok := parseWeekday(rule.RepeatDayOfWeek); ok {
			daysToAdd := (int(target) - int(current.Weekday()) + 7) % 7
			if daysToAdd == 0 {
				// Same weekday: jump a full interval, never the same day twice.
				daysToAdd = 7 * interval
			}
			return current.AddDate(0, 0, daysToAdd), true
		}
		return current.AddDate(0, 0, 7*interval), true

	case entity.RepeatMonthly:
		if rule.RepeatWeekOfMonth != nil {
			if target, ok := parseWeekday(rule.RepeatDayOfWeek); ok {
				return nextNthWeekday(current, interval, *rule.RepeatWeekOfMonth, target), true
			}
		}
		if rule.RepeatDayOfMonth != nil {
			return nextDayOfMonth(current, interval, *rule.RepeatDayOfMonth), true
		}
		// Same numeric day of month; short months normalize forward, which
		// matches the source behavior for this branch.
		return current.AddDate(0, interval, 0), true

	case entity.RepeatYearly:
		return current.AddDate(interval, 0, 0), true
	}

	return time.Time{}, false
}

// nextNthWeekday finds e.g. the "second tuesday" or "last friday" of the
// month `interval` months after current, keeping current's clock time.
func nextNthWeekday(current time.Time, interval int, weekOfMonth string, target time.Weekday) time.Time {
	firstOfMonth := time.Date(current.Year(), current.Month()+time.Month(interval), 1,
		current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), current.Location())

	if strings.EqualFold(weekOfMonth, entity.WeekLast) {
		day := firstOfMonth.AddDate(0, 1, -1) // last day of the target month
		for day.Weekday() != target {
			day = day.AddDate(0, 0, -1)
		}
		return day
	}

	day := firstOfMonth
	for day.Weekday() != target {
		day = day.AddDate(0, 0, 1)
	}

	weekIndex := -1
	switch strings.ToLower(weekOfMonth) {
	case entity.WeekFirst:
		weekIndex = 0
	case entity.WeekSecond:
		weekIndex = 1
	case entity.WeekThird:
		weekIndex = 2
	case entity.WeekFourth:
		weekIndex = 3
	}
	if weekIndex > 0 {
		day = day.AddDate(0, 0, weekIndex*7)
	}
	return day
}

// nextDayOfMonth advances by interval months and clamps the day to the
// length of the resulting month (31 Jan -> 28/29 Feb).
func nextDayOfMonth(current time.Time, interval int, dayOfMonth int) time.Time {
	firstOfMonth := time.Date(current.Year(), current.Month()+time.Month(interval), 1,
		current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), current.Location())

	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	day := dayOfMonth
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day,
		current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), current.Location())
}
