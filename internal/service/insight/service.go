// Package insight produces AI-backed husbandry advisories: a short technical
// opinion per animal and a prioritized digest for the whole flock. AI
// failures degrade to fallback content rather than surfacing errors.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/repository"
	"github.com/mamadbah2/ovinet/pkg/clients/anthropic"
)

const (
	advisorySystem = "You are a sheep husbandry specialist. Answer with a short technical opinion, four sentences at most."
	digestSystem   = "You are a sheep husbandry specialist reviewing a flock snapshot. " +
		"Reply with JSON only: {\"insights\": [{\"priority\": \"high|medium|low\", \"category\": string, " +
		"\"title\": string, \"detail\": string, \"rationale\": string, \"target_ids\": [string]}]}."

	advisoryFallback = "Analysis unavailable at the moment."
)

// Service builds prompts from the stores and delegates to the AI client.
type Service struct {
	sheep  repository.SheepStore
	plans  repository.PlanStore
	ai     anthropic.Client
	logger *zap.Logger
}

// NewService wires an insight service instance.
func NewService(sheep repository.SheepStore, plans repository.PlanStore, ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sheep: sheep, plans: plans, ai: ai, logger: logger}
}

// SheepAdvisory returns a short technical opinion on one animal. The animal
// must exist; AI unavailability yields the fallback text, not an error.
func (s *Service) SheepAdvisory(ctx context.Context, sheepID string) (string, error) {
	animal, err := s.sheep.Get(ctx, sheepID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Assess this animal: name %s (tag #%s), sex %s, born %s, weight %.1fkg, FAMACHA %d, body score %.1f, pregnant %t, status %s.",
		animal.Name, animal.Tag, animal.Sex, animal.BirthDate, animal.WeightKg, animal.Famacha, animal.BodyScore, animal.Pregnant, animal.Status,
	)

	text, err := s.ai.Complete(ctx, advisorySystem, prompt)
	if err != nil {
		s.logger.Warn("sheep advisory failed", zap.String("sheep_id", sheepID), zap.Error(err))
		return advisoryFallback, nil
	}
	return text, nil
}

// flockSnapshot is the per-animal slice of registry data sent to the model.
type flockSnapshot struct {
	ID        string  `json:"id"`
	Tag       string  `json:"tag"`
	BirthDate string  `json:"birth_date"`
	WeightKg  float64 `json:"weight_kg"`
	BodyScore float64 `json:"body_score,omitempty"`
	Famacha   int     `json:"famacha,omitempty"`
	Pregnant  bool    `json:"pregnant"`
	InPlan    bool    `json:"in_breeding_plan"`
	Attempt   int     `json:"breeding_attempt,omitempty"`
}

type digestResponse struct {
	Insights []models.Insight `json:"insights"`
}

// FlockDigest returns prioritized insights across the active flock. An empty
// flock yields an empty digest without calling the model.
func (s *Service) FlockDigest(ctx context.Context) ([]models.Insight, error) {
	flock, err := s.sheep.List(ctx)
	if err != nil {
		return nil, fault.Storage("list sheep", err)
	}

	plans, err := s.plans.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("list plans", err)
	}
	attempts := map[string]int{}
	for _, plan := range plans {
		for _, ewe := range plan.Ewes {
			attempts[ewe.EweID] = ewe.Attempt
		}
	}

	var snapshot []flockSnapshot
	for _, animal := range flock {
		if animal.Status != models.SheepActive {
			continue
		}
		attempt, inPlan := attempts[animal.ID]
		snapshot = append(snapshot, flockSnapshot{
			ID:        animal.ID,
			Tag:       animal.Tag,
			BirthDate: animal.BirthDate,
			WeightKg:  animal.WeightKg,
			BodyScore: animal.BodyScore,
			Famacha:   animal.Famacha,
			Pregnant:  animal.Pregnant,
			InPlan:    inPlan,
			Attempt:   attempt,
		})
	}
	if len(snapshot) == 0 {
		return []models.Insight{}, nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal flock snapshot: %w", err)
	}

	prompt := fmt.Sprintf("Today is %s. Review this flock snapshot and produce technical insights: %s",
		time.Now().Format("2006-01-02"), payload)

	var resp digestResponse
	if err := s.ai.CompleteJSON(ctx, digestSystem, prompt, &resp); err != nil {
		s.logger.Warn("flock digest failed", zap.Error(err))
		return []models.Insight{}, nil
	}
	if resp.Insights == nil {
		return []models.Insight{}, nil
	}
	return resp.Insights, nil
}
