package entity

import (
	"time"

	"hub-crm-api/core/entity"

	"github.com/google/uuid"
)

// Visibility controls where an event is listed.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// RepeatType is the unit a recurrence rule advances by.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// RepeatEndType is the termination policy of a recurrence rule.
type RepeatEndType string

const (
	RepeatEndNever RepeatEndType = "never"
	RepeatEndDate  RepeatEndType = "date"
	RepeatEndCount RepeatEndType = "count"
)

// Week-of-month refinements for monthly rules.
const (
	WeekFirst  = "first"
	WeekSecond = "second"
	WeekThird  = "third"
	WeekFourth = "fourth"
	WeekLast   = "last"
)

// RecurrenceRule is the pattern used to expand one seed window into many
// occurrences. For monthly rules, week-of-month + day-of-week takes
// precedence over day-of-month when both are set.
type RecurrenceRule struct {
	RepeatType        RepeatType    `db:"repeat_type" json:"repeat_type"`
	RepeatInterval    int           `db:"repeat_interval" json:"repeat_interval"`
	RepeatEndType     RepeatEndType `db:"repeat_end_type" json:"repeat_end_type"`
	RepeatEndDate     *time.Time    `db:"repeat_end_date" json:"repeat_end_date,omitempty"`
	RepeatCount       *int          `db:"repeat_count" json:"repeat_count,omitempty"`
	RepeatDayOfMonth  *int          `db:"repeat_day_of_month" json:"repeat_day_of_month,omitempty"`
	RepeatDayOfWeek   *string       `db:"repeat_day_of_week" json:"repeat_day_of_week,omitempty"`
	RepeatWeekOfMonth *string       `db:"repeat_week_of_month" json:"repeat_week_of_month,omitempty"`
}

// Event is a one-off or recurring activity definition. The recurrence rule
// is fixed once occurrences have been generated.
type Event struct {
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Location    string     `db:"location" json:"location"`
	Slug        string     `db:"slug" json:"slug"`
	Visibility  Visibility `db:"visibility" json:"visibility"`
	RecurrenceRule
	entity.BaseEntity
}

// Recurring reports whether the event carries a repeating rule.
func (e *Event) Recurring() bool {
	return e.RepeatType != "" && e.RepeatType != RepeatNone
}

// Occurrence is one concrete time-bounded instance of an event.
type Occurrence struct {
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Location  *string   `db:"location" json:"location,omitempty"`
	MaxSpaces *int      `db:"max_spaces" json:"max_spaces,omitempty"`
	entity.BaseEntity
}

// EffectiveLocation is the occurrence location override, falling back to the
// event's own location.
func (o *Occurrence) EffectiveLocation(event *Event) string {
	if o.Location != nil && *o.Location != "" {
		return *o.Location
	}
	return event.Location
}
