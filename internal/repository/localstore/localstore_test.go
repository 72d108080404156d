package localstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestPlanStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	plan := models.BreedingPlan{
		ID:        "p1",
		Name:      "LOTE A",
		StartDate: "2024-03-01",
		Status:    models.PlanSynchronizing,
		Ewes:      []models.BreedingPlanEwe{models.NewBreedingPlanEwe("e1")},
	}
	require.NoError(t, s.Plans().Create(ctx, plan))

	got, err := s.Plans().Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "LOTE A", got.Name)
	require.Len(t, got.Ewes, 1)
	assert.Equal(t, models.ResultPending, got.Ewes[0].Results.At(1))

	got.Status = models.PlanBreeding
	require.NoError(t, s.Plans().Update(ctx, got))

	all, err := s.Plans().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.PlanBreeding, all[0].Status)

	require.NoError(t, s.Plans().Delete(ctx, "p1"))
	_, err = s.Plans().Get(ctx, "p1")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestSheepStore_Patch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Sheep().Create(ctx, models.Sheep{
		ID: "e1", Sex: models.SexFemale, Status: models.SheepActive,
	}))

	pregnant := true
	sire := "ram-1"
	require.NoError(t, s.Sheep().Patch(ctx, "e1", models.SheepPatch{Pregnant: &pregnant, SireID: &sire}))

	got, err := s.Sheep().Get(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, got.Pregnant)
	assert.Equal(t, "ram-1", got.SireID)

	err = s.Sheep().Patch(ctx, "missing", models.SheepPatch{Pregnant: &pregnant})
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestManejoStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Manejos().Update(context.Background(), models.Manejo{ID: "nope"})
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestEmptyStoreReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)

	plans, err := s.Plans().GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}
