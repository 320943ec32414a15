package repository

import (
	"context"
	"database/sql"

	"hub-crm-api/core/database"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/params"
	"hub-crm-api/modules/contact/entity"

	"github.com/google/uuid"
)

type ContactRepository struct {
	DB database.Database
}

func NewContactRepository(db database.Database) *ContactRepository {
	return &ContactRepository{DB: db}
}

// ContactRepositoryInterface defines the repository contract
type ContactRepositoryInterface interface {
	Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	GetAll(ctx context.Context) ([]entity.Contact, error)
	Search(ctx context.Context, params params.QueryParams) (*entity.PaginatedContactEntity, error)
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, first_name, last_name, email, phone, created_at, updated_at
	`

	var created entity.Contact
	err := r.DB.GetContext(ctx, &created, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone)
	if err != nil {
		logger.Error("ContactRepository:Create:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, created_at, updated_at
		FROM contacts WHERE id = $1
	`

	var contact entity.Contact
	err := r.DB.GetContext(ctx, &contact, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ContactRepository:GetByID:Error:", err)
		return nil, err
	}

	return &contact, nil
}

func (r *ContactRepository) GetAll(ctx context.Context) ([]entity.Contact, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, created_at, updated_at
		FROM contacts
		ORDER BY last_name, first_name
	`

	var contacts []entity.Contact
	err := r.DB.SelectContext(ctx, &contacts, query)
	if err != nil {
		logger.Error("ContactRepository:GetAll:Error:", err)
		return nil, err
	}

	return contacts, nil
}

func (r *ContactRepository) Search(ctx context.Context, params params.QueryParams) (*entity.PaginatedContactEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize
	pattern := "%" + params.Search + "%"

	baseQuery := `FROM contacts WHERE ($1 = '%%' OR first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)`

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, pattern)
	if err != nil {
		logger.Error("ContactRepository:Search:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT id, first_name, last_name, email, phone, created_at, updated_at ` + baseQuery + `
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`

	var contacts []entity.Contact
	err = r.DB.SelectContext(ctx, &contacts, query, pattern, params.PageSize, offset)
	if err != nil {
		logger.Error("ContactRepository:Search:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedContactEntity{
		Items:      contacts,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}
