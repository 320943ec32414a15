package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func occID(s string) *string { return &s }

func TestAssigneeUnmarshalLegacyShapes(t *testing.T) {
	t.Run("bare string is a contact id", func(t *testing.T) {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(`"contact-1"`), &a))
		assert.True(t, a.Registered())
		assert.Equal(t, "contact-1", a.ContactID)
		assert.Nil(t, a.OccurrenceID)
	})

	t.Run("contactId object", func(t *testing.T) {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(`{"contactId":"contact-2","occurrenceId":"occ-1"}`), &a))
		assert.True(t, a.Registered())
		assert.Equal(t, "contact-2", a.ContactID)
		require.NotNil(t, a.OccurrenceID)
		assert.Equal(t, "occ-1", *a.OccurrenceID)
	})

	t.Run("id object treated as contactId", func(t *testing.T) {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(`{"id":"contact-3"}`), &a))
		assert.True(t, a.Registered())
		assert.Equal(t, "contact-3", a.ContactID)
	})

	t.Run("name and email is an ad-hoc signup", func(t *testing.T) {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Pat Li","email":"pat@example.com","occurrenceId":"occ-2"}`), &a))
		assert.False(t, a.Registered())
		assert.True(t, a.AdHoc())
		assert.Equal(t, "Pat Li", a.Name)
		assert.Equal(t, "pat@example.com", a.Email)
	})

	t.Run("empty object rejected", func(t *testing.T) {
		var a Assignee
		assert.Error(t, json.Unmarshal([]byte(`{}`), &a))
	})
}

func TestAssigneeRoundTripPreservesStoredForm(t *testing.T) {
	// Historical entries must come back byte-for-byte so stored lists are
	// never rewritten by a read-modify-write.
	inputs := []string{
		`"contact-1"`,
		`{"id":"contact-3"}`,
		`{"contactId":"contact-2","occurrenceId":"occ-1"}`,
	}
	for _, in := range inputs {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(in), &a))
		out, err := json.Marshal(a)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	}
}

func TestNewAssigneesMarshalTagged(t *testing.T) {
	reg, err := json.Marshal(NewRegisteredAssignee("contact-1", "occ-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"contactId":"contact-1","occurrenceId":"occ-1"}`, string(reg))

	adhoc, err := json.Marshal(NewAdHocAssignee("Pat", "pat@example.com", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Pat","email":"pat@example.com"}`, string(adhoc))
}

func TestEffectiveOccurrence(t *testing.T) {
	pinned := &Rota{OccurrenceID: occID("occ-rota")}
	unpinned := &Rota{}

	t.Run("assignee occurrence wins", func(t *testing.T) {
		a := Assignee{ContactID: "c", OccurrenceID: occID("occ-own")}
		assert.Equal(t, "occ-own", a.EffectiveOccurrence(pinned))
	})

	t.Run("legacy entry inherits the rota's occurrence", func(t *testing.T) {
		var a Assignee
		require.NoError(t, json.Unmarshal([]byte(`"contact-1"`), &a))
		assert.Equal(t, "occ-rota", a.EffectiveOccurrence(pinned))
		assert.Equal(t, "", a.EffectiveOccurrence(unpinned))
	})
}

func TestRotaAppliesTo(t *testing.T) {
	unpinned := &Rota{}
	assert.True(t, unpinned.AppliesTo("anything"))

	pinned := &Rota{OccurrenceID: occID("occ-1")}
	assert.True(t, pinned.AppliesTo("occ-1"))
	assert.False(t, pinned.AppliesTo("occ-2"))
}

func TestAssigneesFor(t *testing.T) {
	rota := &Rota{OccurrenceID: occID("occ-1")}
	var legacy Assignee
	require.NoError(t, json.Unmarshal([]byte(`"contact-1"`), &legacy))
	rota.Assignees = AssigneeList{
		legacy,
		NewRegisteredAssignee("contact-2", "occ-1"),
		NewAdHocAssignee("Pat", "pat@example.com", "occ-2"),
	}

	assert.Len(t, rota.AssigneesFor("occ-1"), 2)
	assert.Len(t, rota.AssigneesFor("occ-2"), 1)
	assert.Empty(t, rota.AssigneesFor("occ-3"))
}
