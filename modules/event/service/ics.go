package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/modules/event/entity"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// BuildICSBySlug renders an iCalendar feed for the event: one VEVENT per
// stored occurrence, plus an RRULE on the first VEVENT when the event
// recurs, so subscribing clients understand the pattern. Returns the
// download filename and the serialized calendar.
func (s *EventService) BuildICSBySlug(ctx context.Context, eventSlug string) (string, string, *errors.AppError) {
	event, err := s.repo.GetEventBySlug(ctx, eventSlug)
	if err != nil {
		return "", "", errors.NewAppError(errors.ErrGetFailed, "Failed to load event", nil)
	}
	if event == nil {
		return "", "", errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	occurrences, err := s.repo.GetOccurrencesByEventID(ctx, event.ID)
	if err != nil {
		return "", "", errors.NewAppError(errors.ErrGetFailed, "Failed to load occurrences", nil)
	}
	if len(occurrences) == 0 {
		return "", "", errors.NewAppError(errors.ErrNotFound, "No occurrences found for this event", nil)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//TheHub//Event Calendar//EN")

	now := time.Now()
	for i, occ := range occurrences {
		ve := cal.AddEvent(fmt.Sprintf("%s@%s", occ.ID, event.Slug))
		ve.SetDtStampTime(now)
		ve.SetStartAt(occ.StartsAt.UTC())
		ve.SetEndAt(occ.EndsAt.UTC())
		ve.SetSummary(event.Title)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if loc := occ.EffectiveLocation(event); loc != "" {
			ve.SetLocation(loc)
		}
		ve.SetStatus(ical.ObjectStatusConfirmed)
		ve.SetSequence(0)

		if i == 0 && event.Recurring() {
			if rule, ok := rruleString(event.RecurrenceRule); ok {
				ve.AddRrule(rule)
			}
		}
	}

	filename := event.Slug + ".ics"
	logger.Info("EventService:BuildICSBySlug:Success", "event_id", event.ID, "occurrences", len(occurrences))
	return filename, cal.Serialize(), nil
}

// rruleString maps a recurrence rule onto an RFC 5545 RRULE value. Rules
// whose semantics have no RRULE equivalent return ok=false and the feed
// falls back to the enumerated VEVENTs alone.
func rruleString(rule entity.RecurrenceRule) (string, bool) {
	opt := rrule.ROption{Interval: rule.RepeatInterval}

	switch rule.RepeatType {
	case entity.RepeatDaily:
		opt.Freq = rrule.DAILY
	case entity.RepeatWeekly:
		opt.Freq = rrule.WEEKLY
		if wd, ok := rruleWeekday(rule.RepeatDayOfWeek); ok {
			opt.Byweekday = []rrule.Weekday{wd}
		}
	case entity.RepeatMonthly:
		opt.Freq = rrule.MONTHLY
		if rule.RepeatWeekOfMonth != nil {
			wd, ok := rruleWeekday(rule.RepeatDayOfWeek)
			if !ok {
				return "", false
			}
			nth, ok := weekOfMonthOrdinal(*rule.RepeatWeekOfMonth)
			if !ok {
				return "", false
			}
			opt.Byweekday = []rrule.Weekday{wd.Nth(nth)}
		} else if rule.RepeatDayOfMonth != nil {
			opt.Bymonthday = []int{*rule.RepeatDayOfMonth}
		}
	case entity.RepeatYearly:
		opt.Freq = rrule.YEARLY
	default:
		return "", false
	}

	switch rule.RepeatEndType {
	case entity.RepeatEndCount:
		if rule.RepeatCount != nil {
			opt.Count = *rule.RepeatCount
		}
	case entity.RepeatEndDate:
		if rule.RepeatEndDate != nil {
			opt.Until = rule.RepeatEndDate.UTC()
		}
	}

	return opt.RRuleString(), true
}

func rruleWeekday(name *string) (rrule.Weekday, bool) {
	if name == nil {
		return rrule.MO, false
	}
	switch strings.ToLower(strings.TrimSpace(*name)) {
	case "monday":
		return rrule.MO, true
	case "tuesday":
		return rrule.TU, true
	case "wednesday":
		return rrule.WE, true
	case "thursday":
		return rrule.TH, true
	case "friday":
		return rrule.FR, true
	case "saturday":
		return rrule.SA, true
	case "sunday":
		return rrule.SU, true
	}
	return rrule.MO, false
}

func weekOfMonthOrdinal(weekOfMonth string) (int, bool) {
	switch strings.ToLower(weekOfMonth) {
	case entity.WeekFirst:
		return 1, true
	case entity.WeekSecond:
		return 2, true
	case entity.WeekThird:
		return 3, true
	case entity.WeekFourth:
		return 4, true
	case entity.WeekLast:
		return -1, true
	}
	return 0, false
}
