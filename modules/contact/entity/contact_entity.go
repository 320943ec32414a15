package entity

import (
	"strings"

	"hub-crm-api/core/entity"
)

// Contact is a person known to the hub. Rota assignees reference contacts
// by id; ad-hoc public signups do not.
type Contact struct {
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	Phone     *string `db:"phone" json:"phone,omitempty"`
	entity.BaseEntity
}

// DisplayName renders "First Last", falling back to the email address when
// both names are blank.
func (c *Contact) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return c.Email
	}
	return name
}

type PaginatedContactEntity = entity.Pagination[Contact]
