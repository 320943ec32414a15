package dto

import "time"

type SignupSelection struct {
	RotaID       string `json:"rota_id" validate:"required"`
	OccurrenceID string `json:"occurrence_id,omitempty"`
}

type SignupRequest struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required"`
	Selections []SignupSelection `json:"selections"`
}

// TokenSignupRequest is a signup scoped to one rota via its shareable link.
type TokenSignupRequest struct {
	Name          string   `json:"name" validate:"required"`
	Email         string   `json:"email" validate:"required"`
	OccurrenceIDs []string `json:"occurrence_ids"`
}

type SignupResult struct {
	Message string `json:"message"`
}

// PublicOccurrenceSlot is one occurrence of a rota with its fill state.
type PublicOccurrenceSlot struct {
	OccurrenceID string    `json:"occurrence_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Location     string    `json:"location,omitempty"`
	SignedUp     int       `json:"signed_up"`
	Capacity     int       `json:"capacity"`
	Full         bool      `json:"full"`
}

type PublicRota struct {
	RotaID      string                 `json:"rota_id"`
	Role        string                 `json:"role"`
	Notes       string                 `json:"notes,omitempty"`
	Capacity    int                    `json:"capacity"`
	Occurrences []PublicOccurrenceSlot `json:"occurrences"`
}

type PublicEventRotas struct {
	EventID     string       `json:"event_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	Rotas       []PublicRota `json:"rotas"`
}
