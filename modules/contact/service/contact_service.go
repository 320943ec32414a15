package service

import (
	"context"

	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/params"
	"hub-crm-api/core/utils"
	"hub-crm-api/modules/contact/entity"
	"hub-crm-api/modules/contact/repository"

	"github.com/google/uuid"
)

type ContactServiceInterface interface {
	Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, *errors.AppError)
	Search(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedContactEntity, *errors.AppError)
}

type ContactService struct {
	repo repository.ContactRepositoryInterface
}

func NewContactService(repo repository.ContactRepositoryInterface) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, *errors.AppError) {
	if contact.Email != "" && !utils.IsValidEmail(contact.Email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid email address", nil)
	}

	created, err := s.repo.Create(ctx, contact)
	if err != nil {
		logger.Error("ContactService:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create contact", nil)
	}
	return created, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, *errors.AppError) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error("ContactService:GetByID:Error", "error", err, "contact_id", id)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load contact", nil)
	}
	if contact == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Contact not found", nil)
	}
	return contact, nil
}

func (s *ContactService) Search(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedContactEntity, *errors.AppError) {
	page, err := s.repo.Search(ctx, queryParams)
	if err != nil {
		logger.Error("ContactService:Search:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to search contacts", nil)
	}
	return page, nil
}
