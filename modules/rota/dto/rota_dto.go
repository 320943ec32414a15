package dto

import (
	eventEntity "hub-crm-api/modules/event/entity"
	"hub-crm-api/modules/rota/entity"
)

type CreateRotaRequest struct {
	EventID      string  `json:"event_id" validate:"required"`
	OccurrenceID *string `json:"occurrence_id,omitempty"`
	Role         string  `json:"role" validate:"required"`
	Capacity     int     `json:"capacity"`
	Notes        string  `json:"notes"`
	OwnerID      *string `json:"owner_id,omitempty"`
	Visibility   string  `json:"visibility"`
}

type UpdateRotaRequest struct {
	Role       string  `json:"role"`
	Capacity   int     `json:"capacity"`
	Notes      string  `json:"notes"`
	OwnerID    *string `json:"owner_id,omitempty"`
	Visibility string  `json:"visibility"`
}

type AddAssigneesRequest struct {
	ContactIDs   []string `json:"contact_ids" validate:"required"`
	OccurrenceID string   `json:"occurrence_id,omitempty"`
}

type RemoveAssigneeRequest struct {
	Index int `json:"index"`
}

// AssigneeView is a display-ready assignee with contact details resolved.
// ContactID is nil for ad-hoc public signups.
type AssigneeView struct {
	ContactID    *string `json:"contact_id,omitempty"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	OccurrenceID string  `json:"occurrence_id,omitempty"`
	Index        int     `json:"index"`
}

type RotaListItem struct {
	entity.Rota
	EventTitle string `json:"event_title"`
}

type PaginatedRotaList struct {
	Items      []RotaListItem `json:"items"`
	TotalItems int            `json:"total_items"`
	PageNumber int            `json:"page_number"`
	PageSize   int            `json:"page_size"`
}

type RotaDetailResponse struct {
	Rota                  *entity.Rota              `json:"rota"`
	Event                 *eventEntity.Event        `json:"event,omitempty"`
	Occurrence            *eventEntity.Occurrence   `json:"occurrence,omitempty"`
	EventOccurrences      []eventEntity.Occurrence  `json:"event_occurrences"`
	AssigneesByOccurrence map[string][]AssigneeView `json:"assignees_by_occurrence"`
	SignupLink            string                    `json:"signup_link,omitempty"`
}
