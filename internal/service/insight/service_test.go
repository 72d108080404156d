package insight

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

type fakeAI struct {
	completeText string
	completeErr  error
	jsonPayload  string
	jsonErr      error
	lastPrompt   string
}

func (f *fakeAI) Complete(_ context.Context, _, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.completeText, f.completeErr
}

func (f *fakeAI) CompleteJSON(_ context.Context, _, prompt string, out any) error {
	f.lastPrompt = prompt
	if f.jsonErr != nil {
		return f.jsonErr
	}
	return json.Unmarshal([]byte(f.jsonPayload), out)
}

type fakeSheepStore struct {
	flock []models.Sheep
}

func (f *fakeSheepStore) Get(_ context.Context, id string) (models.Sheep, error) {
	for _, s := range f.flock {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Sheep{}, fault.NotFoundf("sheep %s", id)
}

func (f *fakeSheepStore) List(_ context.Context) ([]models.Sheep, error) { return f.flock, nil }
func (f *fakeSheepStore) Create(_ context.Context, _ models.Sheep) error { return nil }
func (f *fakeSheepStore) Patch(_ context.Context, _ string, _ models.SheepPatch) error {
	return nil
}

type fakePlanStore struct {
	plans []models.BreedingPlan
}

func (f *fakePlanStore) GetAll(_ context.Context) ([]models.BreedingPlan, error) {
	return f.plans, nil
}
func (f *fakePlanStore) Get(_ context.Context, _ string) (models.BreedingPlan, error) {
	return models.BreedingPlan{}, nil
}
func (f *fakePlanStore) Create(_ context.Context, _ models.BreedingPlan) error { return nil }
func (f *fakePlanStore) Update(_ context.Context, _ models.BreedingPlan) error { return nil }
func (f *fakePlanStore) Delete(_ context.Context, _ string) error              { return nil }

func TestSheepAdvisory_UnknownAnimal(t *testing.T) {
	svc := NewService(&fakeSheepStore{}, &fakePlanStore{}, &fakeAI{}, zap.NewNop())

	_, err := svc.SheepAdvisory(context.Background(), "missing")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestSheepAdvisory_FallbackOnAIFailure(t *testing.T) {
	store := &fakeSheepStore{flock: []models.Sheep{{ID: "s1", Name: "Luna", Tag: "042"}}}
	ai := &fakeAI{completeErr: errors.New("timeout")}
	svc := NewService(store, &fakePlanStore{}, ai, zap.NewNop())

	text, err := svc.SheepAdvisory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, advisoryFallback, text)
}

func TestSheepAdvisory_PromptCarriesRegistryData(t *testing.T) {
	store := &fakeSheepStore{flock: []models.Sheep{{ID: "s1", Name: "Luna", Tag: "042", WeightKg: 58.5, Famacha: 2}}}
	ai := &fakeAI{completeText: "Animal in good condition."}
	svc := NewService(store, &fakePlanStore{}, ai, zap.NewNop())

	text, err := svc.SheepAdvisory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Animal in good condition.", text)
	assert.Contains(t, ai.lastPrompt, "Luna")
	assert.Contains(t, ai.lastPrompt, "#042")
	assert.Contains(t, ai.lastPrompt, "58.5kg")
}

func TestFlockDigest_EmptyFlockSkipsModel(t *testing.T) {
	ai := &fakeAI{jsonErr: errors.New("should not be called")}
	svc := NewService(&fakeSheepStore{}, &fakePlanStore{}, ai, zap.NewNop())

	insights, err := svc.FlockDigest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, insights)
	assert.Empty(t, ai.lastPrompt)
}

func TestFlockDigest_ParsesInsights(t *testing.T) {
	store := &fakeSheepStore{flock: []models.Sheep{
		{ID: "s1", Tag: "042", Status: models.SheepActive},
		{ID: "s2", Tag: "043", Status: models.SheepCulled},
	}}
	plan := models.BreedingPlan{ID: "p1", Ewes: []models.BreedingPlanEwe{models.NewBreedingPlanEwe("s1")}}
	ai := &fakeAI{jsonPayload: `{"insights":[{"priority":"high","category":"health","title":"Check FAMACHA","detail":"Tag 042 needs a parasite check.","target_ids":["s1"]}]}`}
	svc := NewService(store, &fakePlanStore{plans: []models.BreedingPlan{plan}}, ai, zap.NewNop())

	insights, err := svc.FlockDigest(context.Background())
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "high", insights[0].Priority)
	assert.Equal(t, []string{"s1"}, insights[0].TargetIDs)
	// culled animals are excluded from the snapshot
	assert.NotContains(t, ai.lastPrompt, "043")
	assert.Contains(t, ai.lastPrompt, "in_breeding_plan")
}

func TestFlockDigest_EmptyOnAIFailure(t *testing.T) {
	store := &fakeSheepStore{flock: []models.Sheep{{ID: "s1", Status: models.SheepActive}}}
	ai := &fakeAI{jsonErr: errors.New("rate limited")}
	svc := NewService(store, &fakePlanStore{}, ai, zap.NewNop())

	insights, err := svc.FlockDigest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, insights)
}
