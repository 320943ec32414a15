package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recipient is who a notification goes to. UserID is set when the recipient
// is a hub user, nil for ad-hoc email-only recipients.
type Recipient struct {
	UserID *uuid.UUID
	Name   string
	Email  string
}

// RotaUpdate describes a change to a rota's assignees, sent to the rota owner.
type RotaUpdate struct {
	RotaID          uuid.UUID
	Role            string
	EventTitle      string
	OccurrenceStart *time.Time
	Change          string
}

// RotaReminder is an upcoming commitment for one assignee on one occurrence.
type RotaReminder struct {
	Role       string
	EventTitle string
	Location   string
	StartsAt   time.Time
	EndsAt     time.Time
}

// Dispatcher delivers rota notifications. Implementations persist a
// notification row and attempt email delivery.
type Dispatcher interface {
	SendRotaUpdateNotification(ctx context.Context, to Recipient, update RotaUpdate) error
	SendUpcomingRotaReminder(ctx context.Context, to Recipient, reminder RotaReminder) error
}
