package service

import (
	"context"
	"strings"
	"time"

	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/utils"
	"hub-crm-api/modules/event/dto"
	"hub-crm-api/modules/event/entity"
	"hub-crm-api/modules/event/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListEvents(ctx context.Context) ([]entity.Event, *errors.AppError)
	ListPublicEvents(ctx context.Context) ([]entity.Event, *errors.AppError)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError)
	DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError
	AddOccurrences(ctx context.Context, eventID uuid.UUID, req *dto.CreateOccurrenceRequest) ([]entity.Occurrence, *errors.AppError)
	UpdateOccurrence(ctx context.Context, id uuid.UUID, req *dto.UpdateOccurrenceRequest) (*entity.Occurrence, *errors.AppError)
	DeleteOccurrence(ctx context.Context, id uuid.UUID) *errors.AppError
	CalendarOccurrences(ctx context.Context, from, to time.Time) ([]entity.Occurrence, *errors.AppError)
	BuildICSBySlug(ctx context.Context, eventSlug string) (string, string, *errors.AppError)
}

type EventService struct {
	repo repository.EventRepositoryInterface
}

func NewEventService(repo repository.EventRepositoryInterface) *EventService {
	return &EventService{repo: repo}
}

// CreateEvent stores the event and, when it recurs, expands the seed window
// into the full occurrence list in the same call. The recurrence rule is
// immutable afterwards.
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	logger.Info("EventService:CreateEvent:Start", "title", req.Title)

	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	rule := req.Rule()
	if appErr := ValidateRule(rule, req.StartsAt, req.EndsAt); appErr != nil {
		return nil, appErr
	}

	visibility := entity.Visibility(req.Visibility)
	switch visibility {
	case "":
		visibility = entity.VisibilityPublic
	case entity.VisibilityPublic, entity.VisibilityPrivate, entity.VisibilityInternal:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown visibility", nil)
	}

	event := &entity.Event{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Slug:           s.uniqueSlug(ctx, req.Title),
		Visibility:     visibility,
		RecurrenceRule: rule,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		logger.Error("EventService:CreateEvent:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create event", nil)
	}

	windows := Expand(rule, req.StartsAt, req.EndsAt)
	occurrences := make([]entity.Occurrence, 0, len(windows))
	for _, w := range windows {
		occurrences = append(occurrences, entity.Occurrence{
			EventID:   created.ID,
			StartsAt:  w.StartsAt,
			EndsAt:    w.EndsAt,
			MaxSpaces: req.MaxSpaces,
		})
	}

	persisted, err := s.repo.CreateOccurrences(ctx, occurrences)
	if err != nil {
		logger.Error("EventService:CreateEvent:CreateOccurrences:Error", "error", err, "event_id", created.ID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create occurrences", nil)
	}

	logger.Info("EventService:CreateEvent:Success", "event_id", created.ID, "occurrences", len(persisted))
	return &dto.EventResponse{Event: created, Occurrences: persisted}, nil
}

func (s *EventService) uniqueSlug(ctx context.Context, title string) string {
	base := slug.Make(title)
	existing, err := s.repo.GetEventBySlug(ctx, base)
	if err != nil || existing == nil {
		return base
	}
	return base + "-" + strings.ToLower(utils.GenerateID())
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	occurrences, err := s.repo.GetOccurrencesByEventID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load occurrences", nil)
	}

	return &dto.EventResponse{Event: event, Occurrences: occurrences}, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]entity.Event, *errors.AppError) {
	events, err := s.repo.GetAllEvents(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", nil)
	}
	return events, nil
}

func (s *EventService) ListPublicEvents(ctx context.Context) ([]entity.Event, *errors.AppError) {
	events, err := s.repo.GetEventsByVisibility(ctx, entity.VisibilityPublic)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", nil)
	}
	return events, nil
}

// UpdateEvent edits the descriptive fields only; the recurrence rule stays
// as generated.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	if req.Visibility != "" {
		event.Visibility = entity.Visibility(req.Visibility)
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		logger.Error("EventService:UpdateEvent:Error", "error", err, "event_id", id)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event", nil)
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load event", nil)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		logger.Error("EventService:DeleteEvent:Error", "error", err, "event_id", id)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete event", nil)
	}

	logger.Info("EventService:DeleteEvent:Success", "event_id", id)
	return nil
}

// AddOccurrences appends occurrences to an existing event. A recurrence
// rule on the request batch-generates windows; otherwise a single
// occurrence is added.
func (s *EventService) AddOccurrences(ctx context.Context, eventID uuid.UUID, req *dto.CreateOccurrenceRequest) ([]entity.Occurrence, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	rule := req.Rule()
	if appErr := ValidateRule(rule, req.StartsAt, req.EndsAt); appErr != nil {
		return nil, appErr
	}

	windows := Expand(rule, req.StartsAt, req.EndsAt)
	occurrences := make([]entity.Occurrence, 0, len(windows))
	for _, w := range windows {
		occurrences = append(occurrences, entity.Occurrence{
			EventID:   eventID,
			StartsAt:  w.StartsAt,
			EndsAt:    w.EndsAt,
			Location:  req.Location,
			MaxSpaces: req.MaxSpaces,
		})
	}

	persisted, err := s.repo.CreateOccurrences(ctx, occurrences)
	if err != nil {
		logger.Error("EventService:AddOccurrences:Error", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create occurrences", nil)
	}

	logger.Info("EventService:AddOccurrences:Success", "event_id", eventID, "occurrences", len(persisted))
	return persisted, nil
}

// UpdateOccurrence moves one occurrence only; siblings generated from the
// same rule are untouched.
func (s *EventService) UpdateOccurrence(ctx context.Context, id uuid.UUID, req *dto.UpdateOccurrenceRequest) (*entity.Occurrence, *errors.AppError) {
	occ, err := s.repo.GetOccurrenceByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load occurrence", nil)
	}
	if occ == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Occurrence not found", nil)
	}

	if req.EndsAt.Before(req.StartsAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End date must not be before start date", nil)
	}

	occ.StartsAt = req.StartsAt
	occ.EndsAt = req.EndsAt
	occ.Location = req.Location
	occ.MaxSpaces = req.MaxSpaces

	if err := s.repo.UpdateOccurrence(ctx, occ); err != nil {
		logger.Error("EventService:UpdateOccurrence:Error", "error", err, "occurrence_id", id)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update occurrence", nil)
	}
	return occ, nil
}

func (s *EventService) DeleteOccurrence(ctx context.Context, id uuid.UUID) *errors.AppError {
	occ, err := s.repo.GetOccurrenceByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load occurrence", nil)
	}
	if occ == nil {
		return errors.NewAppError(errors.ErrNotFound, "Occurrence not found", nil)
	}

	if err := s.repo.DeleteOccurrence(ctx, id); err != nil {
		logger.Error("EventService:DeleteOccurrence:Error", "error", err, "occurrence_id", id)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete occurrence", nil)
	}
	return nil
}

func (s *EventService) CalendarOccurrences(ctx context.Context, from, to time.Time) ([]entity.Occurrence, *errors.AppError) {
	occurrences, err := s.repo.GetOccurrencesInRange(ctx, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load occurrences", nil)
	}
	return occurrences, nil
}
