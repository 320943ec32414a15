package dto

import (
	"time"

	"hub-crm-api/modules/event/entity"
)

// CreateEventRequest creates an event and, when a recurrence rule is
// present, generates its occurrences from the seed window in one step.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility"`

	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	MaxSpaces *int      `json:"max_spaces,omitempty"`

	RepeatType        string     `json:"repeat_type"`
	RepeatInterval    int        `json:"repeat_interval"`
	RepeatEndType     string     `json:"repeat_end_type"`
	RepeatEndDate     *time.Time `json:"repeat_end_date,omitempty"`
	RepeatCount       *int       `json:"repeat_count,omitempty"`
	RepeatDayOfMonth  *int       `json:"repeat_day_of_month,omitempty"`
	RepeatDayOfWeek   *string    `json:"repeat_day_of_week,omitempty"`
	RepeatWeekOfMonth *string    `json:"repeat_week_of_month,omitempty"`
}

// Rule assembles the recurrence fields into an entity rule, defaulting the
// interval and termination policy the way the original form handling did.
func (r *CreateEventRequest) Rule() entity.RecurrenceRule {
	repeatType := entity.RepeatType(r.RepeatType)
	if repeatType == "" {
		repeatType = entity.RepeatNone
	}
	interval := r.RepeatInterval
	if interval == 0 {
		interval = 1
	}
	endType := entity.RepeatEndType(r.RepeatEndType)
	if endType == "" {
		endType = entity.RepeatEndNever
	}
	return entity.RecurrenceRule{
		RepeatType:        repeatType,
		RepeatInterval:    interval,
		RepeatEndType:     endType,
		RepeatEndDate:     r.RepeatEndDate,
		RepeatCount:       r.RepeatCount,
		RepeatDayOfMonth:  r.RepeatDayOfMonth,
		RepeatDayOfWeek:   r.RepeatDayOfWeek,
		RepeatWeekOfMonth: r.RepeatWeekOfMonth,
	}
}

type UpdateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility"`
}

// CreateOccurrenceRequest adds occurrences to an existing event. A rule here
// batch-generates windows exactly like event creation does.
type CreateOccurrenceRequest struct {
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  *string   `json:"location,omitempty"`
	MaxSpaces *int      `json:"max_spaces,omitempty"`

	RepeatType        string     `json:"repeat_type"`
	RepeatInterval    int        `json:"repeat_interval"`
	RepeatEndType     string     `json:"repeat_end_type"`
	RepeatEndDate     *time.Time `json:"repeat_end_date,omitempty"`
	RepeatCount       *int       `json:"repeat_count,omitempty"`
	RepeatDayOfMonth  *int       `json:"repeat_day_of_month,omitempty"`
	RepeatDayOfWeek   *string    `json:"repeat_day_of_week,omitempty"`
	RepeatWeekOfMonth *string    `json:"repeat_week_of_month,omitempty"`
}

func (r *CreateOccurrenceRequest) Rule() entity.RecurrenceRule {
	req := CreateEventRequest{
		RepeatType:        r.RepeatType,
		RepeatInterval:    r.RepeatInterval,
		RepeatEndType:     r.RepeatEndType,
		RepeatEndDate:     r.RepeatEndDate,
		RepeatCount:       r.RepeatCount,
		RepeatDayOfMonth:  r.RepeatDayOfMonth,
		RepeatDayOfWeek:   r.RepeatDayOfWeek,
		RepeatWeekOfMonth: r.RepeatWeekOfMonth,
	}
	return req.Rule()
}

// UpdateOccurrenceRequest moves a single occurrence; no sibling occurrences
// are touched.
type UpdateOccurrenceRequest struct {
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  *string   `json:"location,omitempty"`
	MaxSpaces *int      `json:"max_spaces,omitempty"`
}

type EventResponse struct {
	Event       *entity.Event       `json:"event"`
	Occurrences []entity.Occurrence `json:"occurrences"`
}
