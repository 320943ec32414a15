package service

import (
	"encoding/json"
	"testing"

	"hub-crm-api/core/errors"
	"hub-crm-api/modules/rota/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinnedRota(occurrenceID string, capacity int) *entity.Rota {
	r := &entity.Rota{Role: "Welcome Team", Capacity: capacity}
	if occurrenceID != "" {
		r.OccurrenceID = &occurrenceID
	}
	return r
}

func TestAddAssigneesCapacityInvariant(t *testing.T) {
	rota := pinnedRota("occ-1", 2)

	appErr := AddAssignees(rota, "occ-1", []string{"contact-a", "contact-b"})
	require.Nil(t, appErr)
	assert.Len(t, rota.AssigneesFor("occ-1"), 2)

	appErr = AddAssignees(rota, "occ-1", []string{"contact-c"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCapacityExceeded, appErr.Code)
	assert.Equal(t, `Cannot add 1 contact(s). This occurrence can only have 2 assignee(s) and currently has 2.`, appErr.Message)
	// All-or-nothing: the failed call left the list untouched.
	assert.Len(t, rota.AssigneesFor("occ-1"), 2)
}

func TestAddAssigneesAllOrNothing(t *testing.T) {
	rota := pinnedRota("occ-1", 3)
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a", "contact-b"}))

	// Two more would exceed capacity even though one would fit.
	appErr := AddAssignees(rota, "occ-1", []string{"contact-c", "contact-d"})
	require.NotNil(t, appErr)
	assert.Len(t, rota.Assignees, 2)
}

func TestAddAssigneesCapacityIsPerOccurrence(t *testing.T) {
	rota := pinnedRota("", 1)

	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a"}))
	require.Nil(t, AddAssignees(rota, "occ-2", []string{"contact-a"}))

	appErr := AddAssignees(rota, "occ-1", []string{"contact-b"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCapacityExceeded, appErr.Code)
}

func TestAddAssigneesDeduplicates(t *testing.T) {
	rota := pinnedRota("occ-1", 5)
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a"}))

	// Re-adding the same contact passes but appends nothing.
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a", "contact-b"}))
	assert.Len(t, rota.Assignees, 2)

	// Duplicates within one call collapse too.
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-c", "contact-c"}))
	assert.Len(t, rota.Assignees, 3)
}

func TestAddAssigneesDefaultsToRotaOccurrence(t *testing.T) {
	rota := pinnedRota("occ-1", 2)

	require.Nil(t, AddAssignees(rota, "", []string{"contact-a"}))
	require.Len(t, rota.Assignees, 1)
	assert.Equal(t, "occ-1", rota.Assignees[0].EffectiveOccurrence(rota))
}

func TestAddAssigneesCountsLegacyEntries(t *testing.T) {
	// A legacy bare-string assignee counts against the rota's own occurrence.
	rota := pinnedRota("occ-1", 1)
	var legacy entity.Assignee
	require.NoError(t, json.Unmarshal([]byte(`"contact-a"`), &legacy))
	rota.Assignees = entity.AssigneeList{legacy}

	appErr := AddAssignees(rota, "occ-1", []string{"contact-b"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCapacityExceeded, appErr.Code)
}

func TestAddAdHoc(t *testing.T) {
	rota := pinnedRota("occ-1", 1)

	require.Nil(t, AddAdHoc(rota, "occ-1", "Pat", "pat@example.com"))

	appErr := AddAdHoc(rota, "occ-1", "Sam", "sam@example.com")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCapacityExceeded, appErr.Code)
	assert.Equal(t, `Rota "Welcome Team" is full for this occurrence`, appErr.Message)
	assert.Len(t, rota.Assignees, 1)
}

func TestRemoveAssignee(t *testing.T) {
	rota := pinnedRota("occ-1", 5)
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a", "contact-b", "contact-c"}))

	require.Nil(t, RemoveAssignee(rota, 1))
	require.Len(t, rota.Assignees, 2)
	assert.Equal(t, "contact-a", rota.Assignees[0].ContactID)
	assert.Equal(t, "contact-c", rota.Assignees[1].ContactID)
}

func TestRemoveAssigneeIndexOutOfRange(t *testing.T) {
	rota := pinnedRota("occ-1", 2)
	require.Nil(t, AddAssignees(rota, "occ-1", []string{"contact-a"}))

	for _, index := range []int{-1, 1, 5} {
		appErr := RemoveAssignee(rota, index)
		require.NotNil(t, appErr, "index %d", index)
		assert.Equal(t, "Index out of range", appErr.Message)
	}
	assert.Len(t, rota.Assignees, 1)
}
