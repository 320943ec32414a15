package service

import (
	"context"

	"hub-crm-api/core/config"
	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/params"
	"hub-crm-api/core/utils"
	contactEntity "hub-crm-api/modules/contact/entity"
	eventEntity "hub-crm-api/modules/event/entity"
	notifService "hub-crm-api/modules/notification/service"
	"hub-crm-api/modules/rota/dto"
	"hub-crm-api/modules/rota/entity"
	"hub-crm-api/modules/rota/repository"

	"github.com/google/uuid"
)

// maxAssigneeRetries bounds the optimistic retry loop when concurrent
// writers race on the same rota's assignee list.
const maxAssigneeRetries = 3

// ContactReader is the slice of the contact repository the rota service needs.
type ContactReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*contactEntity.Contact, error)
	GetAll(ctx context.Context) ([]contactEntity.Contact, error)
}

// EventReader is the slice of the event repository the rota service needs.
type EventReader interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	GetAllEvents(ctx context.Context) ([]eventEntity.Event, error)
	GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*eventEntity.Occurrence, error)
	GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID) ([]eventEntity.Occurrence, error)
}

type RotaServiceInterface interface {
	CreateRota(ctx context.Context, req *dto.CreateRotaRequest) (*entity.Rota, *errors.AppError)
	GetRota(ctx context.Context, id uuid.UUID) (*dto.RotaDetailResponse, *errors.AppError)
	ListRotas(ctx context.Context, queryParams params.QueryParams) (*dto.PaginatedRotaList, *errors.AppError)
	UpdateRota(ctx context.Context, id uuid.UUID, req *dto.UpdateRotaRequest) (*entity.Rota, *errors.AppError)
	DeleteRota(ctx context.Context, id uuid.UUID) *errors.AppError
	AddAssignees(ctx context.Context, id uuid.UUID, req *dto.AddAssigneesRequest) (*entity.Rota, *errors.AppError)
	RemoveAssignee(ctx context.Context, id uuid.UUID, index int) (*entity.Rota, *errors.AppError)
	EnsureSignupLink(ctx context.Context, id uuid.UUID) (string, *errors.AppError)
}

type RotaService struct {
	repo     repository.RotaRepositoryInterface
	events   EventReader
	contacts ContactReader
	notifier notifService.Dispatcher
}

func NewRotaService(repo repository.RotaRepositoryInterface, events EventReader, contacts ContactReader, notifier notifService.Dispatcher) *RotaService {
	return &RotaService{repo: repo, events: events, contacts: contacts, notifier: notifier}
}

func (s *RotaService) CreateRota(ctx context.Context, req *dto.CreateRotaRequest) (*entity.Rota, *errors.AppError) {
	if req.Role == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Role is required", nil)
	}
	if req.Capacity < 1 {
		req.Capacity = 1
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid event id", nil)
	}
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if req.OccurrenceID != nil && *req.OccurrenceID != "" {
		occID, err := uuid.Parse(*req.OccurrenceID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid occurrence id", nil)
		}
		occ, err := s.events.GetOccurrenceByID(ctx, occID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrence", nil)
		}
		if occ == nil || occ.EventID != eventID {
			return nil, errors.NewAppError(errors.ErrNotFound, "Occurrence not found for this event", nil)
		}
	} else {
		req.OccurrenceID = nil
	}

	visibility := entity.Visibility(req.Visibility)
	switch visibility {
	case "":
		visibility = entity.VisibilityPublic
	case entity.VisibilityPublic, entity.VisibilityPrivate:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown visibility", nil)
	}

	var ownerID *uuid.UUID
	if req.OwnerID != nil && *req.OwnerID != "" {
		parsed, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid owner id", nil)
		}
		ownerID = &parsed
	}

	token := utils.GenerateSignupToken()
	rota := &entity.Rota{
		EventID:      eventID,
		OccurrenceID: req.OccurrenceID,
		Role:         req.Role,
		Capacity:     req.Capacity,
		Notes:        req.Notes,
		OwnerID:      ownerID,
		Visibility:   visibility,
		SignupToken:  &token,
		Assignees:    entity.AssigneeList{},
	}

	created, err := s.repo.Create(ctx, rota)
	if err != nil {
		logger.Error("RotaService:CreateRota:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create rota", nil)
	}
	return created, nil
}

func (s *RotaService) GetRota(ctx context.Context, id uuid.UUID) (*dto.RotaDetailResponse, *errors.AppError) {
	rota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Rota not found", nil)
	}

	event, err := s.events.GetEventByID(ctx, rota.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", nil)
	}

	var occurrence *eventEntity.Occurrence
	if rota.OccurrenceID != nil {
		if occID, parseErr := uuid.Parse(*rota.OccurrenceID); parseErr == nil {
			occurrence, _ = s.events.GetOccurrenceByID(ctx, occID)
		}
	}

	eventOccurrences, err := s.events.GetOccurrencesByEventID(ctx, rota.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load occurrences", nil)
	}

	link := ""
	if rota.SignupToken != nil {
		link = s.signupLink(*rota.SignupToken)
	}

	return &dto.RotaDetailResponse{
		Rota:                  rota,
		Event:                 event,
		Occurrence:            occurrence,
		EventOccurrences:      eventOccurrences,
		AssigneesByOccurrence: s.groupAssignees(ctx, rota),
		SignupLink:            link,
	}, nil
}

// groupAssignees resolves contact details for every assignee and buckets
// them by effective occurrence. Entries with no resolvable occurrence land
// under the "unassigned" key, as the original admin view showed them.
func (s *RotaService) groupAssignees(ctx context.Context, rota *entity.Rota) map[string][]dto.AssigneeView {
	grouped := make(map[string][]dto.AssigneeView)

	for i, a := range rota.Assignees {
		view := dto.AssigneeView{Index: i}
		if a.Registered() {
			contactID := a.ContactID
			view.ContactID = &contactID
			view.Name = "Unknown Contact"
			if parsed, err := uuid.Parse(a.ContactID); err == nil {
				if contact, err := s.contacts.GetByID(ctx, parsed); err == nil && contact != nil {
					view.Name = contact.DisplayName()
					view.Email = contact.Email
				}
			}
		} else {
			view.Name = a.Name
			view.Email = a.Email
		}

		key := a.EffectiveOccurrence(rota)
		if key == "" {
			key = "unassigned"
		} else {
			view.OccurrenceID = key
		}
		grouped[key] = append(grouped[key], view)
	}
	return grouped
}

func (s *RotaService) ListRotas(ctx context.Context, queryParams params.QueryParams) (*dto.PaginatedRotaList, *errors.AppError) {
	page, err := s.repo.GetPage(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list rotas", nil)
	}

	events, err := s.events.GetAllEvents(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events", nil)
	}
	titles := make(map[uuid.UUID]string, len(events))
	for _, e := range events {
		titles[e.ID] = e.Title
	}

	items := make([]dto.RotaListItem, 0, len(page.Items))
	for _, rota := range page.Items {
		title, ok := titles[rota.EventID]
		if !ok {
			title = "Unknown Event"
		}
		items = append(items, dto.RotaListItem{Rota: rota, EventTitle: title})
	}

	return &dto.PaginatedRotaList{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

func (s *RotaService) UpdateRota(ctx context.Context, id uuid.UUID, req *dto.UpdateRotaRequest) (*entity.Rota, *errors.AppError) {
	rota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Rota not found", nil)
	}

	if req.Role != "" {
		rota.Role = req.Role
	}
	if req.Capacity >= 1 {
		rota.Capacity = req.Capacity
	}
	rota.Notes = req.Notes
	if req.Visibility != "" {
		visibility := entity.Visibility(req.Visibility)
		if visibility != entity.VisibilityPublic && visibility != entity.VisibilityPrivate {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown visibility", nil)
		}
		rota.Visibility = visibility
	}
	if req.OwnerID != nil {
		if *req.OwnerID == "" {
			rota.OwnerID = nil
		} else {
			parsed, parseErr := uuid.Parse(*req.OwnerID)
			if parseErr != nil {
				return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid owner id", nil)
			}
			rota.OwnerID = &parsed
		}
	}

	if err := s.repo.Update(ctx, rota); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update rota", nil)
	}

	s.notifyOwner(ctx, rota, "Rota details were updated")
	return rota, nil
}

func (s *RotaService) DeleteRota(ctx context.Context, id uuid.UUID) *errors.AppError {
	rota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return errors.NewAppError(errors.ErrNotFound, "Rota not found", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete rota", nil)
	}
	return nil
}

// AddAssignees applies the capacity engine under the rota's version guard,
// retrying on concurrent writes.
func (s *RotaService) AddAssignees(ctx context.Context, id uuid.UUID, req *dto.AddAssigneesRequest) (*entity.Rota, *errors.AppError) {
	if len(req.ContactIDs) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "No contacts provided", nil)
	}

	rota, appErr := s.mutateAssignees(ctx, id, func(rota *entity.Rota) *errors.AppError {
		return AddAssignees(rota, req.OccurrenceID, req.ContactIDs)
	})
	if appErr != nil {
		return nil, appErr
	}

	s.notifyOwner(ctx, rota, "New assignees were added")
	return rota, nil
}

func (s *RotaService) RemoveAssignee(ctx context.Context, id uuid.UUID, index int) (*entity.Rota, *errors.AppError) {
	rota, appErr := s.mutateAssignees(ctx, id, func(rota *entity.Rota) *errors.AppError {
		return RemoveAssignee(rota, index)
	})
	if appErr != nil {
		return nil, appErr
	}

	s.notifyOwner(ctx, rota, "An assignee was removed")
	return rota, nil
}

// mutateAssignees is the optimistic read-modify-write loop shared by every
// assignee mutation: reload, apply, write guarded by the version read.
func (s *RotaService) mutateAssignees(ctx context.Context, id uuid.UUID, apply func(*entity.Rota) *errors.AppError) (*entity.Rota, *errors.AppError) {
	for attempt := 0; attempt < maxAssigneeRetries; attempt++ {
		rota, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
		}
		if rota == nil {
			return nil, errors.NewAppError(errors.ErrNotFound, "Rota not found", nil)
		}

		if appErr := apply(rota); appErr != nil {
			return nil, appErr
		}

		applied, err := s.repo.UpdateAssignees(ctx, rota.ID, rota.Assignees, rota.Version)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update assignees", nil)
		}
		if applied {
			rota.Version++
			return rota, nil
		}
		logger.Warn("RotaService:mutateAssignees:VersionConflict", "rota_id", id.String(), "attempt", attempt+1)
	}

	return nil, errors.NewAppError(errors.ErrVersionConflict, "Rota was modified concurrently, please retry", nil)
}

// EnsureSignupLink returns the shareable public signup link, minting the
// rota's token if an older record has none.
func (s *RotaService) EnsureSignupLink(ctx context.Context, id uuid.UUID) (string, *errors.AppError) {
	rota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to load rota", nil)
	}
	if rota == nil {
		return "", errors.NewAppError(errors.ErrNotFound, "Rota not found", nil)
	}

	if rota.SignupToken == nil {
		if err := s.repo.SetSignupToken(ctx, id, utils.GenerateSignupToken()); err != nil {
			return "", errors.NewAppError(errors.ErrUpdateFailed, "Failed to mint signup token", nil)
		}
		// Reread in case a concurrent minter won; the guarded update keeps
		// the first token.
		rota, err = s.repo.GetByID(ctx, id)
		if err != nil || rota == nil || rota.SignupToken == nil {
			return "", errors.NewAppError(errors.ErrInternalServer, "Failed to load signup token", nil)
		}
	}

	return s.signupLink(*rota.SignupToken), nil
}

func (s *RotaService) signupLink(token string) string {
	base := "http://localhost:7070"
	if cfg, ok := config.GetSafe(); ok && cfg.App.BaseURL != "" {
		base = cfg.App.BaseURL
	}
	return base + "/signup/rota/" + token
}

// notifyOwner tells the rota owner about a change. Failures never affect the
// mutation that triggered them.
func (s *RotaService) notifyOwner(ctx context.Context, rota *entity.Rota, change string) {
	if s.notifier == nil || rota.OwnerID == nil {
		return
	}

	owner, err := s.contacts.GetByID(ctx, *rota.OwnerID)
	if err != nil || owner == nil || owner.Email == "" {
		return
	}

	update := notifService.RotaUpdate{
		RotaID: rota.ID,
		Role:   rota.Role,
		Change: change,
	}
	if event, err := s.events.GetEventByID(ctx, rota.EventID); err == nil && event != nil {
		update.EventTitle = event.Title
	}
	if rota.OccurrenceID != nil {
		if occID, parseErr := uuid.Parse(*rota.OccurrenceID); parseErr == nil {
			if occ, err := s.events.GetOccurrenceByID(ctx, occID); err == nil && occ != nil {
				start := occ.StartsAt
				update.OccurrenceStart = &start
			}
		}
	}

	recipient := notifService.Recipient{
		Name:  owner.DisplayName(),
		Email: owner.Email,
	}
	if err := s.notifier.SendRotaUpdateNotification(ctx, recipient, update); err != nil {
		logger.Error("RotaService:notifyOwner:Error:", err)
	}
}
