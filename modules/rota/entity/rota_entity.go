package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"hub-crm-api/core/entity"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Rota is a volunteer roster for one role on an event. A nil OccurrenceID
// means the rota applies to every occurrence of the event. Capacity is
// enforced per applicable occurrence, not across the whole rota.
type Rota struct {
	EventID      uuid.UUID    `db:"event_id" json:"event_id"`
	OccurrenceID *string      `db:"occurrence_id" json:"occurrence_id,omitempty"`
	Role         string       `db:"role" json:"role"`
	Capacity     int          `db:"capacity" json:"capacity"`
	Notes        string       `db:"notes" json:"notes"`
	OwnerID      *uuid.UUID   `db:"owner_id" json:"owner_id,omitempty"`
	Visibility   Visibility   `db:"visibility" json:"visibility"`
	SignupToken  *string      `db:"signup_token" json:"signup_token,omitempty"`
	Assignees    AssigneeList `db:"assignees" json:"assignees"`
	Version      int          `db:"version" json:"version"`
	entity.BaseEntity
}

// PinnedOccurrence is the rota's own occurrence id, or "" when unpinned.
func (r *Rota) PinnedOccurrence() string {
	if r.OccurrenceID != nil {
		return *r.OccurrenceID
	}
	return ""
}

// AppliesTo reports whether the rota covers the given occurrence: an
// unpinned rota covers every occurrence of its event.
func (r *Rota) AppliesTo(occurrenceID string) bool {
	return r.OccurrenceID == nil || *r.OccurrenceID == occurrenceID
}

// AssigneesFor returns the assignees whose effective occurrence equals the
// target. Pass "" for "no specific occurrence".
func (r *Rota) AssigneesFor(occurrenceID string) []Assignee {
	var out []Assignee
	for _, a := range r.Assignees {
		if a.EffectiveOccurrence(r) == occurrenceID {
			out = append(out, a)
		}
	}
	return out
}

// Assignee is one slot-claim on a rota. Registered claims carry a ContactID;
// ad-hoc public signups carry Name and Email instead. Historical records use
// several JSON shapes (bare string, {contactId}, {id}, {name,email}) which
// all normalize on read; entries read from storage round-trip byte-for-byte
// so untouched history is never rewritten.
type Assignee struct {
	ContactID    string
	Name         string
	Email        string
	OccurrenceID *string

	raw json.RawMessage
}

// NewRegisteredAssignee claims a slot for an existing contact.
func NewRegisteredAssignee(contactID, occurrenceID string) Assignee {
	a := Assignee{ContactID: contactID}
	if occurrenceID != "" {
		a.OccurrenceID = &occurrenceID
	}
	return a
}

// NewAdHocAssignee claims a slot for a public signup with no contact record.
func NewAdHocAssignee(name, email, occurrenceID string) Assignee {
	a := Assignee{Name: name, Email: email}
	if occurrenceID != "" {
		a.OccurrenceID = &occurrenceID
	}
	return a
}

// Registered reports whether the claim resolves to a contact record.
func (a Assignee) Registered() bool {
	return a.ContactID != ""
}

// AdHoc reports whether the claim is an unregistered public signup.
func (a Assignee) AdHoc() bool {
	return a.ContactID == "" && a.Email != ""
}

// EffectiveOccurrence resolves which occurrence the claim counts against:
// the assignee's own occurrence id when set, else the rota's. Returns ""
// when neither is set.
func (a Assignee) EffectiveOccurrence(rota *Rota) string {
	if a.OccurrenceID != nil && *a.OccurrenceID != "" {
		return *a.OccurrenceID
	}
	return rota.PinnedOccurrence()
}

type assigneeJSON struct {
	ContactID    string  `json:"contactId,omitempty"`
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Email        string  `json:"email,omitempty"`
	OccurrenceID *string `json:"occurrenceId,omitempty"`
}

func (a *Assignee) UnmarshalJSON(data []byte) error {
	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		// Legacy bare string entry: the string is the contact id and the
		// claim inherits the rota's own occurrence.
		*a = Assignee{ContactID: s, raw: raw}
		return nil
	}

	var obj assigneeJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	parsed := Assignee{OccurrenceID: obj.OccurrenceID, raw: raw}
	switch {
	case obj.ContactID != "":
		parsed.ContactID = obj.ContactID
	case obj.ID != "":
		parsed.ContactID = obj.ID
	case obj.Name != "" || obj.Email != "":
		parsed.Name = obj.Name
		parsed.Email = obj.Email
	default:
		return errors.New("assignee entry has no contact id, name or email")
	}

	*a = parsed
	return nil
}

func (a Assignee) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	if a.Registered() {
		return json.Marshal(assigneeJSON{ContactID: a.ContactID, OccurrenceID: a.OccurrenceID})
	}
	return json.Marshal(assigneeJSON{Name: a.Name, Email: a.Email, OccurrenceID: a.OccurrenceID})
}

// AssigneeList stores the ordered assignee array as a JSONB column.
type AssigneeList []Assignee

func (l AssigneeList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Assignee{})
	}
	return json.Marshal(l)
}

func (l *AssigneeList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

type PaginatedRotaEntity = entity.Pagination[Rota]
