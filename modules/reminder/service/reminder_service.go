package service

import (
	"context"
	"sync"
	"time"

	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	contactEntity "hub-crm-api/modules/contact/entity"
	eventEntity "hub-crm-api/modules/event/entity"
	notifService "hub-crm-api/modules/notification/service"
	rotaEntity "hub-crm-api/modules/rota/entity"

	"github.com/google/uuid"
)

// DefaultDaysAhead mirrors how far out reminders look when the caller does
// not say otherwise.
const DefaultDaysAhead = 3

// Assignment is one person's commitment to one rota slot on one occurrence.
type Assignment struct {
	Contact    contactEntity.Contact  `json:"contact"`
	Rota       rotaEntity.Rota        `json:"rota"`
	Event      eventEntity.Event      `json:"event"`
	Occurrence eventEntity.Occurrence `json:"occurrence"`
}

type SweepError struct {
	Contact string `json:"contact"`
	Event   string `json:"event"`
	Rota    string `json:"rota"`
	Error   string `json:"error"`
}

// SweepSummary reports one reminder dispatch run. TotalContacts counts
// unique recipients; TotalAssignments counts tuples, one email each.
type SweepSummary struct {
	TotalContacts    int          `json:"total_contacts"`
	TotalAssignments int          `json:"total_assignments"`
	Sent             int          `json:"sent"`
	Failed           int          `json:"failed"`
	Errors           []SweepError `json:"errors"`
}

// RotaStore is the slice of the rota repository the resolver needs.
type RotaStore interface {
	GetAll(ctx context.Context) ([]rotaEntity.Rota, error)
}

// EventStore is the slice of the event repository the resolver needs.
type EventStore interface {
	GetAllEvents(ctx context.Context) ([]eventEntity.Event, error)
	GetAllOccurrences(ctx context.Context) ([]eventEntity.Occurrence, error)
}

// ContactStore is the slice of the contact repository the resolver needs.
type ContactStore interface {
	GetAll(ctx context.Context) ([]contactEntity.Contact, error)
}

type ReminderServiceInterface interface {
	FindUpcoming(ctx context.Context, daysAhead int) ([]Assignment, *errors.AppError)
	Dispatch(ctx context.Context, daysAhead int) (*SweepSummary, *errors.AppError)
}

type ReminderService struct {
	rotas    RotaStore
	events   EventStore
	contacts ContactStore
	notifier notifService.Dispatcher

	now func() time.Time
}

func NewReminderService(rotas RotaStore, events EventStore, contacts ContactStore, notifier notifService.Dispatcher) *ReminderService {
	return &ReminderService{
		rotas:    rotas,
		events:   events,
		contacts: contacts,
		notifier: notifier,
		now:      time.Now,
	}
}

// FindUpcoming walks every rota's applicable occurrences restricted to the
// calendar day daysAhead from now, and emits one assignment per registered
// assignee with a reachable contact. Ad-hoc signups carry no contact record
// and are skipped.
func (s *ReminderService) FindUpcoming(ctx context.Context, daysAhead int) ([]Assignment, *errors.AppError) {
	if daysAhead < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Days ahead must not be negative", nil)
	}

	target := s.now().AddDate(0, 0, daysAhead)
	dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rotas, err := s.rotas.GetAll(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rotas", nil)
	}
	events, err := s.events.GetAllEvents(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events", nil)
	}
	occurrences, err := s.events.GetAllOccurrences(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrences", nil)
	}
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load contacts", nil)
	}

	eventsByID := make(map[uuid.UUID]*eventEntity.Event, len(events))
	for i := range events {
		eventsByID[events[i].ID] = &events[i]
	}
	contactsByID := make(map[string]*contactEntity.Contact, len(contacts))
	for i := range contacts {
		contactsByID[contacts[i].ID.String()] = &contacts[i]
	}

	// Occurrences starting inside the target calendar day, grouped by event.
	onTarget := func(occ *eventEntity.Occurrence) bool {
		return !occ.StartsAt.Before(dayStart) && occ.StartsAt.Before(dayEnd)
	}
	targetByEvent := make(map[uuid.UUID][]eventEntity.Occurrence)
	occurrencesByID := make(map[string]*eventEntity.Occurrence, len(occurrences))
	for i := range occurrences {
		occ := &occurrences[i]
		occurrencesByID[occ.ID.String()] = occ
		if onTarget(occ) {
			targetByEvent[occ.EventID] = append(targetByEvent[occ.EventID], *occ)
		}
	}

	var assignments []Assignment
	for i := range rotas {
		rota := &rotas[i]
		event, ok := eventsByID[rota.EventID]
		if !ok {
			continue
		}

		var relevant []eventEntity.Occurrence
		if pinned := rota.PinnedOccurrence(); pinned != "" {
			if occ, ok := occurrencesByID[pinned]; ok && onTarget(occ) {
				relevant = []eventEntity.Occurrence{*occ}
			}
		} else {
			relevant = targetByEvent[rota.EventID]
		}

		for _, occurrence := range relevant {
			occID := occurrence.ID.String()
			for _, assignee := range rota.Assignees {
				if !assignee.Registered() {
					continue
				}
				// An assignee with an effective occurrence only belongs to
				// that occurrence; one without belongs to all of them.
				if eff := assignee.EffectiveOccurrence(rota); eff != "" && eff != occID {
					continue
				}
				contact, ok := contactsByID[assignee.ContactID]
				if !ok || contact.Email == "" {
					continue
				}
				assignments = append(assignments, Assignment{
					Contact:    *contact,
					Rota:       *rota,
					Event:      *event,
					Occurrence: occurrence,
				})
			}
		}
	}

	return assignments, nil
}

// Dispatch sends one reminder per assignment, concurrently, and aggregates
// once every send has settled. Send failures are recorded, never fatal.
func (s *ReminderService) Dispatch(ctx context.Context, daysAhead int) (*SweepSummary, *errors.AppError) {
	assignments, appErr := s.FindUpcoming(ctx, daysAhead)
	if appErr != nil {
		return nil, appErr
	}

	uniqueContacts := make(map[uuid.UUID]bool)
	for _, a := range assignments {
		uniqueContacts[a.Contact.ID] = true
	}

	summary := &SweepSummary{
		TotalContacts:    len(uniqueContacts),
		TotalAssignments: len(assignments),
		Errors:           []SweepError{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, assignment := range assignments {
		wg.Add(1)
		go func(a Assignment) {
			defer wg.Done()

			reminder := notifService.RotaReminder{
				Role:       a.Rota.Role,
				EventTitle: a.Event.Title,
				Location:   a.Occurrence.EffectiveLocation(&a.Event),
				StartsAt:   a.Occurrence.StartsAt,
				EndsAt:     a.Occurrence.EndsAt,
			}
			recipient := notifService.Recipient{
				Name:  a.Contact.DisplayName(),
				Email: a.Contact.Email,
			}
			err := s.notifier.SendUpcomingRotaReminder(ctx, recipient, reminder)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, SweepError{
					Contact: a.Contact.Email,
					Event:   a.Event.Title,
					Rota:    a.Rota.Role,
					Error:   err.Error(),
				})
				return
			}
			summary.Sent++
		}(assignment)
	}
	wg.Wait()

	logger.Info("ReminderService:Dispatch:Done",
		"contacts", summary.TotalContacts,
		"assignments", summary.TotalAssignments,
		"sent", summary.Sent,
		"failed", summary.Failed)
	return summary, nil
}
