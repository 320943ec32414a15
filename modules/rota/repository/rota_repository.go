package repository

import (
	"context"
	"database/sql"

	"hub-crm-api/core/database"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/params"
	"hub-crm-api/modules/rota/entity"

	"github.com/google/uuid"
)

// RotaRepository handles rota database operations
type RotaRepository struct {
	DB database.Database
}

func NewRotaRepository(db database.Database) *RotaRepository {
	return &RotaRepository{DB: db}
}

// RotaRepositoryInterface defines the repository contract
type RotaRepositoryInterface interface {
	Create(ctx context.Context, rota *entity.Rota) (*entity.Rota, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Rota, error)
	GetBySignupToken(ctx context.Context, token string) (*entity.Rota, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Rota, error)
	GetAll(ctx context.Context) ([]entity.Rota, error)
	GetPage(ctx context.Context, params params.QueryParams) (*entity.PaginatedRotaEntity, error)
	Update(ctx context.Context, rota *entity.Rota) error
	UpdateAssignees(ctx context.Context, id uuid.UUID, assignees entity.AssigneeList, expectedVersion int) (bool, error)
	SetSignupToken(ctx context.Context, id uuid.UUID, token string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const rotaColumns = `id, event_id, occurrence_id, role, capacity, notes, owner_id,
	visibility, signup_token, assignees, version, created_at, updated_at`

func (r *RotaRepository) Create(ctx context.Context, rota *entity.Rota) (*entity.Rota, error) {
	query := `
		INSERT INTO rotas (event_id, occurrence_id, role, capacity, notes, owner_id,
			visibility, signup_token, assignees, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, NOW(), NOW())
		RETURNING ` + rotaColumns

	var created entity.Rota
	err := r.DB.GetContext(ctx, &created, query,
		rota.EventID, rota.OccurrenceID, rota.Role, rota.Capacity, rota.Notes,
		rota.OwnerID, rota.Visibility, rota.SignupToken, rota.Assignees)
	if err != nil {
		logger.Error("RotaRepository:Create:Error:", err)
		return nil, err
	}
	return &created, nil
}

func (r *RotaRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Rota, error) {
	var rota entity.Rota
	query := `SELECT ` + rotaColumns + ` FROM rotas WHERE id = $1`
	err := r.DB.GetContext(ctx, &rota, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RotaRepository:GetByID:Error:", err)
		return nil, err
	}
	return &rota, nil
}

func (r *RotaRepository) GetBySignupToken(ctx context.Context, token string) (*entity.Rota, error) {
	var rota entity.Rota
	query := `SELECT ` + rotaColumns + ` FROM rotas WHERE signup_token = $1`
	err := r.DB.GetContext(ctx, &rota, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RotaRepository:GetBySignupToken:Error:", err)
		return nil, err
	}
	return &rota, nil
}

func (r *RotaRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Rota, error) {
	var rotas []entity.Rota
	query := `SELECT ` + rotaColumns + ` FROM rotas WHERE event_id = $1 ORDER BY created_at ASC`
	err := r.DB.SelectContext(ctx, &rotas, query, eventID)
	if err != nil {
		logger.Error("RotaRepository:GetByEventID:Error:", err)
		return nil, err
	}
	return rotas, nil
}

func (r *RotaRepository) GetAll(ctx context.Context) ([]entity.Rota, error) {
	var rotas []entity.Rota
	query := `SELECT ` + rotaColumns + ` FROM rotas ORDER BY created_at ASC`
	err := r.DB.SelectContext(ctx, &rotas, query)
	if err != nil {
		logger.Error("RotaRepository:GetAll:Error:", err)
		return nil, err
	}
	return rotas, nil
}

// GetPage lists rotas with optional search over the role and the owning
// event's title.
func (r *RotaRepository) GetPage(ctx context.Context, params params.QueryParams) (*entity.PaginatedRotaEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `FROM rotas r JOIN events e ON e.id = r.event_id`
	args := []any{}
	if params.Search != "" {
		baseQuery += ` WHERE r.role ILIKE $1 OR e.title ILIKE $1`
		args = append(args, "%"+params.Search+"%")
	}

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, `SELECT COUNT(*) `+baseQuery, args...)
	if err != nil {
		logger.Error("RotaRepository:GetPage:Count:Error:", err)
		return nil, err
	}

	query := `SELECT r.id, r.event_id, r.occurrence_id, r.role, r.capacity, r.notes,
			r.owner_id, r.visibility, r.signup_token, r.assignees, r.version,
			r.created_at, r.updated_at ` + baseQuery + `
		ORDER BY r.created_at DESC`
	if params.Search != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, params.PageSize, offset)

	var rotas []entity.Rota
	err = r.DB.SelectContext(ctx, &rotas, query, args...)
	if err != nil {
		logger.Error("RotaRepository:GetPage:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedRotaEntity{
		Items:      rotas,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

// Update rewrites the descriptive fields; assignees and version move only
// through UpdateAssignees.
func (r *RotaRepository) Update(ctx context.Context, rota *entity.Rota) error {
	query := `
		UPDATE rotas
		SET role = $2, capacity = $3, notes = $4, owner_id = $5, visibility = $6,
			updated_at = NOW()
		WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, rota.ID, rota.Role, rota.Capacity,
		rota.Notes, rota.OwnerID, rota.Visibility)
	if err != nil {
		logger.Error("RotaRepository:Update:Error:", err)
		return err
	}
	return nil
}

// UpdateAssignees writes the assignee list guarded by the version the caller
// read. Returns false without error when another writer got there first.
func (r *RotaRepository) UpdateAssignees(ctx context.Context, id uuid.UUID, assignees entity.AssigneeList, expectedVersion int) (bool, error) {
	query := `
		UPDATE rotas
		SET assignees = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2`
	result, err := r.DB.SQLx().ExecContext(ctx, query, id, expectedVersion, assignees)
	if err != nil {
		logger.Error("RotaRepository:UpdateAssignees:Error:", err)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error("RotaRepository:UpdateAssignees:RowsAffected:Error:", err)
		return false, err
	}
	return affected == 1, nil
}

func (r *RotaRepository) SetSignupToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE rotas SET signup_token = $2, updated_at = NOW() WHERE id = $1 AND signup_token IS NULL`
	err := r.DB.ExecContext(ctx, query, id, token)
	if err != nil {
		logger.Error("RotaRepository:SetSignupToken:Error:", err)
		return err
	}
	return nil
}

func (r *RotaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM rotas WHERE id = $1`, id)
	if err != nil {
		logger.Error("RotaRepository:Delete:Error:", err)
		return err
	}
	return nil
}
