package service

import (
	"testing"
	"time"

	coreEntity "hub-crm-api/core/entity"
	eventEntity "hub-crm-api/modules/event/entity"
	rotaEntity "hub-crm-api/modules/rota/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clashFixture struct {
	eventID  uuid.UUID
	occX     string
	occY     string
	rotaA    rotaEntity.Rota // pinned to occX, pat already signed up
	rotaB    rotaEntity.Rota // unpinned, covers every occurrence
	detector *ClashDetector
}

func newClashFixture(t *testing.T) *clashFixture {
	t.Helper()

	f := &clashFixture{eventID: uuid.New()}
	occXID := uuid.New()
	occYID := uuid.New()
	f.occX = occXID.String()
	f.occY = occYID.String()

	f.rotaA = rotaEntity.Rota{
		EventID:      f.eventID,
		OccurrenceID: &f.occX,
		Role:         "Welcome Team",
		Capacity:     3,
		Assignees: rotaEntity.AssigneeList{
			rotaEntity.NewAdHocAssignee("Pat Li", "pat@example.com", f.occX),
		},
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}
	f.rotaB = rotaEntity.Rota{
		EventID:    f.eventID,
		Role:       "Coffee",
		Capacity:   2,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}

	f.detector = &ClashDetector{
		Rotas: []rotaEntity.Rota{f.rotaA, f.rotaB},
		Occurrences: map[string]eventEntity.Occurrence{
			f.occX: {
				EventID:    f.eventID,
				StartsAt:   time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC),
				EndsAt:     time.Date(2024, 1, 7, 11, 0, 0, 0, time.UTC),
				BaseEntity: coreEntity.BaseEntity{ID: occXID},
			},
			f.occY: {
				EventID:    f.eventID,
				StartsAt:   time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC),
				EndsAt:     time.Date(2024, 1, 14, 11, 0, 0, 0, time.UTC),
				BaseEntity: coreEntity.BaseEntity{ID: occYID},
			},
		},
	}
	return f
}

func TestValidateAcceptsCleanBatch(t *testing.T) {
	f := newClashFixture(t)

	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occY},
	}, "sam@example.com")

	assert.Empty(t, errs)
}

func TestValidateIntraBatchDoubleClaim(t *testing.T) {
	f := newClashFixture(t)

	// Two different rotas, same effective occurrence: one via explicit
	// choice, one via the pinned rota's own occurrence.
	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaA.ID.String()},
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occX},
	}, "sam@example.com")

	require.Len(t, errs, 1)
	assert.Equal(t, "Your rota selections are clashing, please change one of your rota signups", errs[0])
}

func TestValidateIntraBatchCheckRunsFirst(t *testing.T) {
	f := newClashFixture(t)

	// pat also has a prior commitment on occX, but the double-claim wins
	// and stays deliberately vague.
	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaA.ID.String()},
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occX},
	}, "pat@example.com")

	require.Len(t, errs, 1)
	assert.Equal(t, "Your rota selections are clashing, please change one of your rota signups", errs[0])
}

func TestValidatePriorCommitmentAcrossRotas(t *testing.T) {
	f := newClashFixture(t)

	// pat holds a slot on occX via rota A; signing up for rota B on the
	// same occurrence is a clash even though rota B itself is empty.
	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occX},
	}, "PAT@Example.com")

	require.Len(t, errs, 1)
	assert.Equal(t, "You are already signed up for a rota on 07/01/2024, 10:00", errs[0])
}

func TestValidatePriorCommitmentOtherOccurrenceIsFine(t *testing.T) {
	f := newClashFixture(t)

	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occY},
	}, "pat@example.com")

	assert.Empty(t, errs)
}

func TestValidateMissingRotasAccumulate(t *testing.T) {
	f := newClashFixture(t)
	missing1 := uuid.New().String()
	missing2 := uuid.New().String()

	errs := f.detector.Validate([]Selection{
		{RotaID: missing1},
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occY},
		{RotaID: missing2},
	}, "sam@example.com")

	require.Len(t, errs, 2)
	assert.Equal(t, "Rota not found: "+missing1, errs[0])
	assert.Equal(t, "Rota not found: "+missing2, errs[1])
}

func TestValidateUnknownOccurrenceFallsBackToGenericTime(t *testing.T) {
	f := newClashFixture(t)
	delete(f.detector.Occurrences, f.occX)

	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occX},
	}, "pat@example.com")

	require.Len(t, errs, 1)
	assert.Equal(t, "You are already signed up for a rota on this occurrence", errs[0])
}

func TestValidateRegisteredAssigneeDoesNotBlockEmail(t *testing.T) {
	f := newClashFixture(t)
	// A registered contact entry never matches by email, whatever the
	// contact's address happens to be.
	f.detector.Rotas[0].Assignees = rotaEntity.AssigneeList{
		rotaEntity.NewRegisteredAssignee(uuid.New().String(), f.occX),
	}

	errs := f.detector.Validate([]Selection{
		{RotaID: f.rotaB.ID.String(), OccurrenceID: f.occX},
	}, "pat@example.com")

	assert.Empty(t, errs)
}
