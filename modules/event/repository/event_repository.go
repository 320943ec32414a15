package repository

import (
	"context"
	"database/sql"
	"time"

	"hub-crm-api/core/database"
	"hub-crm-api/core/logger"
	"hub-crm-api/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event and occurrence database operations
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]entity.Event, error)
	GetEventsByVisibility(ctx context.Context, visibility entity.Visibility) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	CreateOccurrences(ctx context.Context, occurrences []entity.Occurrence) ([]entity.Occurrence, error)
	GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*entity.Occurrence, error)
	GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Occurrence, error)
	GetOccurrencesInRange(ctx context.Context, from, to time.Time) ([]entity.Occurrence, error)
	GetAllOccurrences(ctx context.Context) ([]entity.Occurrence, error)
	UpdateOccurrence(ctx context.Context, occurrence *entity.Occurrence) error
	DeleteOccurrence(ctx context.Context, id uuid.UUID) error
}

const eventColumns = `id, title, description, location, slug, visibility,
	repeat_type, repeat_interval, repeat_end_type, repeat_end_date, repeat_count,
	repeat_day_of_month, repeat_day_of_week, repeat_week_of_month,
	created_at, updated_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, description, location, slug, visibility,
			repeat_type, repeat_interval, repeat_end_type, repeat_end_date, repeat_count,
			repeat_day_of_month, repeat_day_of_week, repeat_week_of_month)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.Description, event.Location, event.Slug, event.Visibility,
		event.RepeatType, event.RepeatInterval, event.RepeatEndType, event.RepeatEndDate, event.RepeatCount,
		event.RepeatDayOfMonth, event.RepeatDayOfWeek, event.RepeatWeekOfMonth)
	if err != nil {
		logger.Error("EventRepository:CreateEvent:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID:Error:", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetEventBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventBySlug:Error:", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetAllEvents(ctx context.Context) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY title`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query)
	if err != nil {
		logger.Error("EventRepository:GetAllEvents:Error:", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) GetEventsByVisibility(ctx context.Context, visibility entity.Visibility) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE visibility = $1 ORDER BY title`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, visibility)
	if err != nil {
		logger.Error("EventRepository:GetEventsByVisibility:Error:", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, visibility = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, event.ID, event.Title, event.Description, event.Location, event.Visibility)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent:Error:", err)
		return err
	}
	return nil
}

// DeleteEvent removes the event; occurrences and rotas cascade via foreign keys.
func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent:Error:", err)
		return err
	}
	return nil
}

// ===================== Occurrences =====================

const occurrenceColumns = `id, event_id, starts_at, ends_at, location, max_spaces, created_at, updated_at`

func (r *EventRepository) CreateOccurrences(ctx context.Context, occurrences []entity.Occurrence) ([]entity.Occurrence, error) {
	if len(occurrences) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO occurrences (event_id, starts_at, ends_at, location, max_spaces)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + occurrenceColumns

	created := make([]entity.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		var row entity.Occurrence
		err := r.DB.GetContext(ctx, &row, query,
			occ.EventID, occ.StartsAt, occ.EndsAt, occ.Location, occ.MaxSpaces)
		if err != nil {
			logger.Error("EventRepository:CreateOccurrences:Error:", err)
			return created, err
		}
		created = append(created, row)
	}

	return created, nil
}

func (r *EventRepository) GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*entity.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE id = $1`

	var occ entity.Occurrence
	err := r.DB.GetContext(ctx, &occ, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetOccurrenceByID:Error:", err)
		return nil, err
	}

	return &occ, nil
}

func (r *EventRepository) GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE event_id = $1 ORDER BY starts_at`

	var occurrences []entity.Occurrence
	err := r.DB.SelectContext(ctx, &occurrences, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetOccurrencesByEventID:Error:", err)
		return nil, err
	}

	return occurrences, nil
}

func (r *EventRepository) GetOccurrencesInRange(ctx context.Context, from, to time.Time) ([]entity.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE starts_at >= $1 AND starts_at <= $2 ORDER BY starts_at`

	var occurrences []entity.Occurrence
	err := r.DB.SelectContext(ctx, &occurrences, query, from, to)
	if err != nil {
		logger.Error("EventRepository:GetOccurrencesInRange:Error:", err)
		return nil, err
	}

	return occurrences, nil
}

func (r *EventRepository) GetAllOccurrences(ctx context.Context) ([]entity.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences ORDER BY starts_at`

	var occurrences []entity.Occurrence
	err := r.DB.SelectContext(ctx, &occurrences, query)
	if err != nil {
		logger.Error("EventRepository:GetAllOccurrences:Error:", err)
		return nil, err
	}

	return occurrences, nil
}

func (r *EventRepository) UpdateOccurrence(ctx context.Context, occurrence *entity.Occurrence) error {
	query := `
		UPDATE occurrences
		SET starts_at = $2, ends_at = $3, location = $4, max_spaces = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		occurrence.ID, occurrence.StartsAt, occurrence.EndsAt, occurrence.Location, occurrence.MaxSpaces)
	if err != nil {
		logger.Error("EventRepository:UpdateOccurrence:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteOccurrence(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM occurrences WHERE id = $1`, id)
	if err != nil {
		logger.Error("EventRepository:DeleteOccurrence:Error:", err)
		return err
	}
	return nil
}
