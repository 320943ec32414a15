package service

import (
	"fmt"

	"hub-crm-api/core/errors"
	"hub-crm-api/modules/rota/entity"
)

// The capacity engine mutates a rota's assignee list in memory under the
// per-occurrence capacity invariant. Persistence and concurrency control are
// the caller's concern, so these functions stay directly testable.

// AddAssignees appends registered contacts to the rota for one occurrence.
// All-or-nothing on capacity: if current + requested exceeds capacity nothing
// is added. Candidates already holding a slot for the target occurrence are
// silently dropped rather than double-booked.
func AddAssignees(rota *entity.Rota, occurrenceID string, contactIDs []string) *errors.AppError {
	target := occurrenceID
	if target == "" {
		target = rota.PinnedOccurrence()
	}

	current := rota.AssigneesFor(target)
	if len(current)+len(contactIDs) > rota.Capacity {
		return errors.NewAppError(errors.ErrCapacityExceeded,
			fmt.Sprintf("Cannot add %d contact(s). This occurrence can only have %d assignee(s) and currently has %d.",
				len(contactIDs), rota.Capacity, len(current)),
			map[string]interface{}{
				"capacity":  rota.Capacity,
				"current":   len(current),
				"requested": len(contactIDs),
			})
	}

	taken := make(map[string]bool, len(current))
	for _, a := range current {
		if a.Registered() {
			taken[a.ContactID] = true
		}
	}

	for _, contactID := range contactIDs {
		if taken[contactID] {
			continue
		}
		rota.Assignees = append(rota.Assignees, entity.NewRegisteredAssignee(contactID, target))
		taken[contactID] = true
	}
	return nil
}

// AddAdHoc appends one public signup to the rota for one occurrence. Unlike
// the admin path it admits entries one at a time, so the check is a plain
// "is this occurrence already full".
func AddAdHoc(rota *entity.Rota, occurrenceID, name, email string) *errors.AppError {
	target := occurrenceID
	if target == "" {
		target = rota.PinnedOccurrence()
	}

	if len(rota.AssigneesFor(target)) >= rota.Capacity {
		return errors.NewAppError(errors.ErrCapacityExceeded,
			fmt.Sprintf("Rota %q is full for this occurrence", rota.Role), nil)
	}

	rota.Assignees = append(rota.Assignees, entity.NewAdHocAssignee(name, email, target))
	return nil
}

// RemoveAssignee splices out the entry at the given position in the full
// assignee array. The index is positional across all occurrences, exactly as
// the list was last read.
func RemoveAssignee(rota *entity.Rota, index int) *errors.AppError {
	if index < 0 || index >= len(rota.Assignees) {
		return errors.NewAppError(errors.ErrInvalidInput, "Index out of range", nil)
	}
	rota.Assignees = append(rota.Assignees[:index], rota.Assignees[index+1:]...)
	return nil
}
