package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	contactEntity "hub-crm-api/modules/contact/entity"
	eventEntity "hub-crm-api/modules/event/entity"
	notifService "hub-crm-api/modules/notification/service"
	rotaEntity "hub-crm-api/modules/rota/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderStores struct {
	rotas       []rotaEntity.Rota
	events      []eventEntity.Event
	occurrences []eventEntity.Occurrence
	contacts    []contactEntity.Contact
}

func (f *fakeReminderStores) GetAll(ctx context.Context) ([]rotaEntity.Rota, error) {
	return f.rotas, nil
}

func (f *fakeReminderStores) GetAllEvents(ctx context.Context) ([]eventEntity.Event, error) {
	return f.events, nil
}

func (f *fakeReminderStores) GetAllOccurrences(ctx context.Context) ([]eventEntity.Occurrence, error) {
	return f.occurrences, nil
}

type fakeContactStore struct {
	contacts []contactEntity.Contact
}

func (f *fakeContactStore) GetAll(ctx context.Context) ([]contactEntity.Contact, error) {
	return f.contacts, nil
}

type fakeDispatcher struct {
	mu        sync.Mutex
	reminders []notifService.RotaReminder
	emails    []string
	failFor   map[string]bool
}

func (f *fakeDispatcher) SendRotaUpdateNotification(ctx context.Context, to notifService.Recipient, update notifService.RotaUpdate) error {
	return nil
}

func (f *fakeDispatcher) SendUpcomingRotaReminder(ctx context.Context, to notifService.Recipient, reminder notifService.RotaReminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to.Email] {
		return errors.New("smtp unavailable")
	}
	f.reminders = append(f.reminders, reminder)
	f.emails = append(f.emails, to.Email)
	return nil
}

type reminderFixture struct {
	svc      *ReminderService
	sender   *fakeDispatcher
	now      time.Time
	event    eventEntity.Event
	occToday eventEntity.Occurrence
	occSoon  eventEntity.Occurrence
	occLate  eventEntity.Occurrence
	contact  contactEntity.Contact
}

// newReminderFixture fixes "now" at 2024-01-01 09:00 UTC with occurrences
// today, in 3 days (two slots would be added by tests), and in 10 days.
func newReminderFixture() *reminderFixture {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	event := eventEntity.Event{
		Title:    "Sunday Service",
		Location: "Main Hall",
	}
	event.ID = uuid.New()

	mkOcc := func(start time.Time) eventEntity.Occurrence {
		occ := eventEntity.Occurrence{
			EventID:  event.ID,
			StartsAt: start,
			EndsAt:   start.Add(90 * time.Minute),
		}
		occ.ID = uuid.New()
		return occ
	}

	contact := contactEntity.Contact{
		FirstName: "Sam",
		LastName:  "Reed",
		Email:     "sam@example.com",
	}
	contact.ID = uuid.New()

	f := &reminderFixture{
		now:      now,
		event:    event,
		occToday: mkOcc(now.Add(2 * time.Hour)),
		occSoon:  mkOcc(time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)),
		occLate:  mkOcc(time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)),
		contact:  contact,
	}
	return f
}

func (f *reminderFixture) build(rotas ...rotaEntity.Rota) *ReminderService {
	stores := &fakeReminderStores{
		rotas:       rotas,
		events:      []eventEntity.Event{f.event},
		occurrences: []eventEntity.Occurrence{f.occToday, f.occSoon, f.occLate},
	}
	f.sender = &fakeDispatcher{failFor: map[string]bool{}}
	svc := NewReminderService(stores, stores, &fakeContactStore{contacts: []contactEntity.Contact{f.contact}}, f.sender)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return svc
}

func (f *reminderFixture) rota(role string, occurrenceID string, assignees ...rotaEntity.Assignee) rotaEntity.Rota {
	rota := rotaEntity.Rota{
		EventID:   f.event.ID,
		Role:      role,
		Capacity:  10,
		Assignees: assignees,
		Version:   1,
	}
	rota.ID = uuid.New()
	if occurrenceID != "" {
		rota.OccurrenceID = &occurrenceID
	}
	return rota
}

func TestFindUpcomingPinnedRota(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", f.occSoon.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	assignments, appErr := svc.FindUpcoming(context.Background(), 3)
	require.Nil(t, appErr)
	require.Len(t, assignments, 1)
	assert.Equal(t, f.occSoon.ID, assignments[0].Occurrence.ID)
	assert.Equal(t, "Welcome Team", assignments[0].Rota.Role)
	assert.Equal(t, "sam@example.com", assignments[0].Contact.Email)
}

func TestFindUpcomingOutsideWindow(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", f.occToday.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
		f.rota("Tea & Coffee", f.occLate.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	// Looking 3 days out covers neither today nor day 10.
	assignments, appErr := svc.FindUpcoming(context.Background(), 3)
	require.Nil(t, appErr)
	assert.Empty(t, assignments)

	assignments, appErr = svc.FindUpcoming(context.Background(), 0)
	require.Nil(t, appErr)
	require.Len(t, assignments, 1)
	assert.Equal(t, f.occToday.ID, assignments[0].Occurrence.ID)
}

func TestFindUpcomingUnpinnedRotaMatchesWindowOccurrences(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", "",
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	// An unpinned assignee belongs to every occurrence, but only the one
	// inside the window is due a reminder.
	assignments, appErr := svc.FindUpcoming(context.Background(), 3)
	require.Nil(t, appErr)
	require.Len(t, assignments, 1)
	assert.Equal(t, f.occSoon.ID, assignments[0].Occurrence.ID)
}

func TestFindUpcomingAssigneePinnedToOtherOccurrence(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", "",
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), f.occLate.ID.String())),
	)

	assignments, appErr := svc.FindUpcoming(context.Background(), 3)
	require.Nil(t, appErr)
	assert.Empty(t, assignments)
}

func TestFindUpcomingSkipsAdHocAndMissingContacts(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", f.occSoon.ID.String(),
			rotaEntity.NewAdHocAssignee("Pat", "pat@example.com", ""),
			rotaEntity.NewRegisteredAssignee(uuid.NewString(), ""),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	assignments, appErr := svc.FindUpcoming(context.Background(), 3)
	require.Nil(t, appErr)
	require.Len(t, assignments, 1)
	assert.Equal(t, f.contact.ID, assignments[0].Contact.ID)
}

func TestFindUpcomingNegativeDays(t *testing.T) {
	f := newReminderFixture()
	svc := f.build()

	_, appErr := svc.FindUpcoming(context.Background(), -1)
	require.NotNil(t, appErr)
}

func TestDispatchCountsContactsAndAssignments(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", f.occSoon.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
		f.rota("Tea & Coffee", f.occSoon.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	summary, appErr := svc.Dispatch(context.Background(), 3)
	require.Nil(t, appErr)

	// One person on two rotas gets two reminders.
	assert.Equal(t, 1, summary.TotalContacts)
	assert.Equal(t, 2, summary.TotalAssignments)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.Len(t, f.sender.reminders, 2)
	assert.Equal(t, []string{"sam@example.com", "sam@example.com"}, f.sender.emails)
}

func TestDispatchRecordsSendFailures(t *testing.T) {
	f := newReminderFixture()
	svc := f.build(
		f.rota("Welcome Team", f.occSoon.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)
	f.sender.failFor["sam@example.com"] = true

	summary, appErr := svc.Dispatch(context.Background(), 3)
	require.Nil(t, appErr)
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "sam@example.com", summary.Errors[0].Contact)
	assert.Equal(t, "Sunday Service", summary.Errors[0].Event)
	assert.Equal(t, "Welcome Team", summary.Errors[0].Rota)
	assert.Equal(t, "smtp unavailable", summary.Errors[0].Error)
}

func TestDispatchReminderPayload(t *testing.T) {
	f := newReminderFixture()
	hall := "Side Room"
	f.occSoon.Location = &hall
	svc := f.build(
		f.rota("Welcome Team", f.occSoon.ID.String(),
			rotaEntity.NewRegisteredAssignee(f.contact.ID.String(), "")),
	)

	summary, appErr := svc.Dispatch(context.Background(), 3)
	require.Nil(t, appErr)
	require.Equal(t, 1, summary.Sent)

	reminder := f.sender.reminders[0]
	assert.Equal(t, "Welcome Team", reminder.Role)
	assert.Equal(t, "Sunday Service", reminder.EventTitle)
	assert.Equal(t, "Side Room", reminder.Location)
	assert.Equal(t, f.occSoon.StartsAt, reminder.StartsAt)
	assert.Equal(t, f.occSoon.EndsAt, reminder.EndsAt)
}
