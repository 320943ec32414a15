package service

import (
	"context"
	"sort"
	"strings"

	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/utils"
	eventEntity "hub-crm-api/modules/event/entity"
	rotaEntity "hub-crm-api/modules/rota/entity"
	rotaService "hub-crm-api/modules/rota/service"
	"hub-crm-api/modules/signup/dto"

	"github.com/google/uuid"
)

// maxBatchRetries bounds how often a whole signup batch is re-validated and
// re-applied after losing a version race.
const maxBatchRetries = 3

// RotaStore is the slice of the rota repository the signup flow needs.
type RotaStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*rotaEntity.Rota, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]rotaEntity.Rota, error)
	GetAll(ctx context.Context) ([]rotaEntity.Rota, error)
	GetBySignupToken(ctx context.Context, token string) (*rotaEntity.Rota, error)
	UpdateAssignees(ctx context.Context, id uuid.UUID, assignees rotaEntity.AssigneeList, expectedVersion int) (bool, error)
}

// EventStore is the slice of the event repository the signup flow needs.
type EventStore interface {
	GetAllEvents(ctx context.Context) ([]eventEntity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*eventEntity.Occurrence, error)
	GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID) ([]eventEntity.Occurrence, error)
}

// RateLimiter throttles public signup submissions per submitter email.
type RateLimiter interface {
	IncrementSignupAttempt(ctx context.Context, key string) error
	IsSignupBlocked(ctx context.Context, key string) (bool, error)
}

type SignupServiceInterface interface {
	ListPublicRotas(ctx context.Context) ([]dto.PublicEventRotas, *errors.AppError)
	SubmitSignup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResult, *errors.AppError)
	GetTokenRota(ctx context.Context, token string) (*dto.PublicEventRotas, *errors.AppError)
	SubmitTokenSignup(ctx context.Context, token string, req *dto.TokenSignupRequest) (*dto.SignupResult, *errors.AppError)
}

type SignupService struct {
	rotas   RotaStore
	events  EventStore
	limiter RateLimiter
}

func NewSignupService(rotas RotaStore, events EventStore, limiter RateLimiter) *SignupService {
	return &SignupService{rotas: rotas, events: events, limiter: limiter}
}

// ListPublicRotas returns every event that has a public rota, with each
// rota's per-occurrence fill state, sorted by event title.
func (s *SignupService) ListPublicRotas(ctx context.Context) ([]dto.PublicEventRotas, *errors.AppError) {
	allRotas, err := s.rotas.GetAll(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rotas", nil)
	}

	events, err := s.events.GetAllEvents(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events", nil)
	}
	eventsByID := make(map[uuid.UUID]*eventEntity.Event, len(events))
	for i := range events {
		eventsByID[events[i].ID] = &events[i]
	}

	grouped := make(map[uuid.UUID]*dto.PublicEventRotas)
	for i := range allRotas {
		rota := &allRotas[i]
		if rota.Visibility != "" && rota.Visibility != rotaEntity.VisibilityPublic {
			continue
		}
		event, ok := eventsByID[rota.EventID]
		if !ok {
			continue
		}

		group, ok := grouped[rota.EventID]
		if !ok {
			group = &dto.PublicEventRotas{
				EventID:     event.ID.String(),
				Title:       event.Title,
				Description: event.Description,
				Location:    event.Location,
			}
			grouped[rota.EventID] = group
		}

		occurrences, err := s.events.GetOccurrencesByEventID(ctx, rota.EventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrences", nil)
		}
		group.Rotas = append(group.Rotas, s.publicRota(rota, occurrences))
	}

	out := make([]dto.PublicEventRotas, 0, len(grouped))
	for _, group := range grouped {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *SignupService) publicRota(rota *rotaEntity.Rota, occurrences []eventEntity.Occurrence) dto.PublicRota {
	pub := dto.PublicRota{
		RotaID:   rota.ID.String(),
		Role:     rota.Role,
		Notes:    rota.Notes,
		Capacity: rota.Capacity,
	}
	for _, occ := range occurrences {
		id := occ.ID.String()
		if !rota.AppliesTo(id) {
			continue
		}
		signedUp := len(rota.AssigneesFor(id))
		location := ""
		if occ.Location != nil {
			location = *occ.Location
		}
		pub.Occurrences = append(pub.Occurrences, dto.PublicOccurrenceSlot{
			OccurrenceID: id,
			StartsAt:     occ.StartsAt,
			EndsAt:       occ.EndsAt,
			Location:     location,
			SignedUp:     signedUp,
			Capacity:     rota.Capacity,
			Full:         signedUp >= rota.Capacity,
		})
	}
	return pub
}

// SubmitSignup validates and applies one public signup batch. All selections
// are staged in memory first; nothing is persisted unless the whole batch
// validates and fits, so a rejected batch never leaves partial signups
// behind.
func (s *SignupService) SubmitSignup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResult, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Name and email are required", nil)
	}
	if !utils.IsValidEmail(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "A valid email address is required", nil)
	}
	if len(req.Selections) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Please select at least one rota and occurrence to sign up for", nil)
	}

	limiterKey := strings.ToLower(email)
	if s.limiter != nil {
		blocked, err := s.limiter.IsSignupBlocked(ctx, limiterKey)
		if err != nil {
			logger.Error("SignupService:SubmitSignup:RateLimit:Error:", err)
		} else if blocked {
			return nil, errors.NewAppError(errors.ErrRateLimited, "Too many signup attempts, please try again later", nil)
		}
		if err := s.limiter.IncrementSignupAttempt(ctx, limiterKey); err != nil {
			logger.Error("SignupService:SubmitSignup:RateLimit:Error:", err)
		}
	}

	selections := make([]Selection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		selections = append(selections, Selection{RotaID: sel.RotaID, OccurrenceID: sel.OccurrenceID})
	}

	for attempt := 0; attempt < maxBatchRetries; attempt++ {
		retry, appErr := s.applyBatch(ctx, selections, name, email)
		if appErr != nil {
			return nil, appErr
		}
		if !retry {
			return &dto.SignupResult{Message: "Successfully signed up for selected rotas!"}, nil
		}
		logger.Warn("SignupService:SubmitSignup:VersionConflict", "attempt", attempt+1)
	}

	return nil, errors.NewAppError(errors.ErrVersionConflict, "Signups changed while processing, please try again", nil)
}

// applyBatch runs one validate-stage-persist cycle. It reports retry=true
// when a version race was detected before anything was written.
func (s *SignupService) applyBatch(ctx context.Context, selections []Selection, name, email string) (bool, *errors.AppError) {
	detector, appErr := s.snapshot(ctx, selections)
	if appErr != nil {
		return false, appErr
	}

	if errs := detector.Validate(selections, email); len(errs) > 0 {
		return false, errors.NewAppError(errors.ErrClash, strings.Join(errs, "; "), nil)
	}

	// Stage every selection against working copies so capacity consumed by
	// an earlier selection in this batch is visible to later ones.
	staged := make(map[string]*rotaEntity.Rota)
	var capacityErrs []string
	for _, sel := range selections {
		rota := staged[sel.RotaID]
		if rota == nil {
			snap := detector.rotaByID(sel.RotaID)
			working := *snap
			working.Assignees = append(rotaEntity.AssigneeList{}, snap.Assignees...)
			rota = &working
			staged[sel.RotaID] = rota
		}

		if capErr := rotaService.AddAdHoc(rota, sel.OccurrenceID, name, email); capErr != nil {
			capacityErrs = append(capacityErrs, capErr.Message)
		}
	}
	if len(capacityErrs) > 0 {
		return false, errors.NewAppError(errors.ErrCapacityExceeded, strings.Join(capacityErrs, "; "), nil)
	}

	persisted := 0
	for _, rota := range staged {
		applied, err := s.rotas.UpdateAssignees(ctx, rota.ID, rota.Assignees, rota.Version)
		if err != nil {
			return false, errors.NewAppError(errors.ErrUpdateFailed, "Failed to save signup", nil)
		}
		if !applied {
			if persisted == 0 {
				return true, nil
			}
			// Part of the batch is already written; re-running would
			// double-book the submitter, so surface the conflict instead.
			return false, errors.NewAppError(errors.ErrVersionConflict,
				"Some signups were saved but others conflicted with a concurrent change, please review your signups", nil)
		}
		persisted++
	}
	return false, nil
}

// snapshot loads every rota on any involved event plus the occurrences the
// selections resolve to.
func (s *SignupService) snapshot(ctx context.Context, selections []Selection) (*ClashDetector, *errors.AppError) {
	detector := &ClashDetector{Occurrences: make(map[string]eventEntity.Occurrence)}

	seenEvents := make(map[uuid.UUID]bool)
	seenRotas := make(map[string]bool)
	for _, sel := range selections {
		rotaID, err := uuid.Parse(sel.RotaID)
		if err != nil {
			continue // surfaces as "Rota not found" during validation
		}
		rota, err := s.rotas.GetByID(ctx, rotaID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rotas", nil)
		}
		if rota == nil || seenEvents[rota.EventID] {
			continue
		}
		seenEvents[rota.EventID] = true

		eventRotas, err := s.rotas.GetByEventID(ctx, rota.EventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rotas", nil)
		}
		for _, r := range eventRotas {
			if !seenRotas[r.ID.String()] {
				seenRotas[r.ID.String()] = true
				detector.Rotas = append(detector.Rotas, r)
			}
		}
	}

	for _, sel := range selections {
		target := detector.EffectiveOccurrence(sel)
		if target == "" {
			continue
		}
		if _, ok := detector.Occurrences[target]; ok {
			continue
		}
		occID, err := uuid.Parse(target)
		if err != nil {
			continue
		}
		occ, err := s.events.GetOccurrenceByID(ctx, occID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrences", nil)
		}
		if occ != nil {
			detector.Occurrences[target] = *occ
		}
	}

	return detector, nil
}

// GetTokenRota resolves a shareable signup link to its rota and fill state.
func (s *SignupService) GetTokenRota(ctx context.Context, token string) (*dto.PublicEventRotas, *errors.AppError) {
	rota, err := s.rotas.GetBySignupToken(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invalid signup link", nil)
	}

	event, err := s.events.GetEventByID(ctx, rota.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	occurrences, err := s.events.GetOccurrencesByEventID(ctx, rota.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrences", nil)
	}

	return &dto.PublicEventRotas{
		EventID:     event.ID.String(),
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Rotas:       []dto.PublicRota{s.publicRota(rota, occurrences)},
	}, nil
}

// SubmitTokenSignup applies a signup to the single rota behind a shareable
// link, one selection per chosen occurrence.
func (s *SignupService) SubmitTokenSignup(ctx context.Context, token string, req *dto.TokenSignupRequest) (*dto.SignupResult, *errors.AppError) {
	rota, err := s.rotas.GetBySignupToken(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invalid signup link", nil)
	}

	signup := &dto.SignupRequest{Name: req.Name, Email: req.Email}
	if len(req.OccurrenceIDs) == 0 {
		signup.Selections = []dto.SignupSelection{{RotaID: rota.ID.String()}}
	} else {
		for _, occID := range req.OccurrenceIDs {
			signup.Selections = append(signup.Selections, dto.SignupSelection{
				RotaID:       rota.ID.String(),
				OccurrenceID: occID,
			})
		}
	}
	return s.SubmitSignup(ctx, signup)
}
