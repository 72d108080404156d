// Package breeding orchestrates the estrus-cycle protocol: plan lifecycle,
// per-ewe state transitions and the pregnancy side effects propagated onto
// the flock registry.
package breeding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/repository"
	"github.com/mamadbah2/ovinet/internal/service/recurrence"
)

// Service implements the breeding-cycle tracker over the plan and sheep
// stores.
type Service struct {
	plans  repository.PlanStore
	sheep  repository.SheepStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a breeding service instance.
func NewService(plans repository.PlanStore, sheep repository.SheepStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		plans:  plans,
		sheep:  sheep,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// ListPlans returns every breeding plan.
func (s *Service) ListPlans(ctx context.Context) ([]models.BreedingPlan, error) {
	plans, err := s.plans.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("list breeding plans", err)
	}
	return plans, nil
}

// GetPlan returns a single plan by id.
func (s *Service) GetPlan(ctx context.Context, id string) (models.BreedingPlan, error) {
	return s.loadPlan(ctx, id)
}

// CreatePlan registers a new breeding batch. The initial ewe list may be
// empty; animals can be added later. Every initial animal must satisfy the
// eligibility invariant: female, active, not pregnant and not already a
// member of any plan.
func (s *Service) CreatePlan(ctx context.Context, name, startDate, syncDate string, initialEweIDs []string) (models.BreedingPlan, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return models.BreedingPlan{}, fault.Validationf("plan name is required")
	}
	if _, err := recurrence.ParseDate(startDate); err != nil {
		return models.BreedingPlan{}, fault.Validationf("invalid start date %q", startDate)
	}
	if syncDate != "" {
		if _, err := recurrence.ParseDate(syncDate); err != nil {
			return models.BreedingPlan{}, fault.Validationf("invalid synchronization date %q", syncDate)
		}
	}

	existing, err := s.plans.GetAll(ctx)
	if err != nil {
		return models.BreedingPlan{}, fault.Storage("list breeding plans", err)
	}

	// Name uniqueness among non-completed plans is a soft rule: log, don't
	// reject.
	for _, p := range existing {
		if p.Status != models.PlanCompleted && strings.EqualFold(p.Name, name) {
			s.logger.Warn("duplicate active plan name", zap.String("name", name), zap.String("existing_plan", p.ID))
			break
		}
	}

	plan := models.BreedingPlan{
		ID:        s.newID(),
		Name:      name,
		SyncDate:  syncDate,
		StartDate: startDate,
		Status:    models.PlanSynchronizing,
		Ewes:      []models.BreedingPlanEwe{},
		CreatedAt: s.now(),
	}

	seen := make(map[string]bool, len(initialEweIDs))
	for _, eweID := range initialEweIDs {
		if seen[eweID] {
			return models.BreedingPlan{}, fault.Conflictf("sheep %s is listed twice in the initial batch", eweID)
		}
		if err := s.checkEligibility(ctx, eweID, existing); err != nil {
			return models.BreedingPlan{}, err
		}
		seen[eweID] = true
		plan.Ewes = append(plan.Ewes, models.NewBreedingPlanEwe(eweID))
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("create breeding plan", err)
	}

	s.logger.Info("breeding plan created",
		zap.String("plan_id", plan.ID),
		zap.String("name", plan.Name),
		zap.Int("ewes", len(plan.Ewes)))
	return plan, nil
}

// UpdatePlanStatus advances a plan through its protocol phases. Backwards
// transitions are rejected.
func (s *Service) UpdatePlanStatus(ctx context.Context, planID string, status models.PlanStatus) (models.BreedingPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	if planPhase(status) < planPhase(plan.Status) {
		return models.BreedingPlan{}, fault.InvalidStatef("plan %s cannot move back from %s to %s", planID, plan.Status, status)
	}

	plan.Status = status
	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}
	return plan, nil
}

// AddEwe appends a fresh cycle record to the plan. The single-active-
// membership invariant is enforced here: an animal already present in any
// plan is rejected with a conflict.
func (s *Service) AddEwe(ctx context.Context, planID, eweID string) (models.BreedingPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	all, err := s.plans.GetAll(ctx)
	if err != nil {
		return models.BreedingPlan{}, fault.Storage("list breeding plans", err)
	}
	if err := s.checkEligibility(ctx, eweID, all); err != nil {
		return models.BreedingPlan{}, err
	}

	plan.Ewes = append(plan.Ewes, models.NewBreedingPlanEwe(eweID))
	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}

	s.logger.Info("ewe added to plan", zap.String("plan_id", planID), zap.String("ewe_id", eweID))
	return plan, nil
}

// RemoveEwe drops the animal from the plan, then unconditionally clears the
// pregnancy flags on the registry, freeing her for future plans. The plan
// update lands first; a registry patch failing afterwards is reported as a
// partial failure so the operator knows the flags still need clearing.
func (s *Service) RemoveEwe(ctx context.Context, planID, eweID string) (models.BreedingPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	idx := plan.FindEwe(eweID)
	if idx < 0 {
		return models.BreedingPlan{}, fault.NotFoundf("ewe %s is not in plan %s", eweID, planID)
	}

	plan.Ewes = append(plan.Ewes[:idx], plan.Ewes[idx+1:]...)
	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}

	if err := s.clearPregnancy(ctx, eweID); err != nil {
		return models.BreedingPlan{}, fault.PartialFailure("ewe removed from plan but registry flags not cleared", err)
	}

	s.logger.Info("ewe removed from plan", zap.String("plan_id", planID), zap.String("ewe_id", eweID))
	return plan, nil
}

// MoveEwe transfers an animal between plans, resetting her to a fresh cycle
// in the target. The source removal is applied first; a failure persisting
// the target after the source succeeded surfaces as a partial failure.
// Re-running the same move is a no-op once the animal is already in the
// target plan.
func (s *Service) MoveEwe(ctx context.Context, sourcePlanID, targetPlanID, eweID string) error {
	if sourcePlanID == targetPlanID {
		return fault.Validationf("source and target plan are the same")
	}

	source, err := s.loadPlan(ctx, sourcePlanID)
	if err != nil {
		return err
	}
	target, err := s.loadPlan(ctx, targetPlanID)
	if err != nil {
		return err
	}

	if target.FindEwe(eweID) >= 0 {
		// Retry after a partial failure: the insert already happened.
		if idx := source.FindEwe(eweID); idx >= 0 {
			source.Ewes = append(source.Ewes[:idx], source.Ewes[idx+1:]...)
			if err := s.plans.Update(ctx, source); err != nil {
				return fault.Storage("update source plan", err)
			}
		}
		return nil
	}

	idx := source.FindEwe(eweID)
	if idx < 0 {
		return fault.NotFoundf("ewe %s is not in plan %s", eweID, sourcePlanID)
	}

	removed := source.Ewes[idx]
	source.Ewes = append(source.Ewes[:idx], source.Ewes[idx+1:]...)
	if err := s.plans.Update(ctx, source); err != nil {
		return fault.Storage("update source plan", err)
	}

	target.Ewes = append(target.Ewes, models.NewBreedingPlanEwe(eweID))
	if err := s.plans.Update(ctx, target); err != nil {
		// Best effort rollback; if the source cannot be restored either, the
		// ewe is in neither plan and the caller must be told.
		source.Ewes = append(source.Ewes, removed)
		if rbErr := s.plans.Update(ctx, source); rbErr != nil {
			s.logger.Error("move rollback failed",
				zap.String("ewe_id", eweID),
				zap.String("source_plan", sourcePlanID),
				zap.Error(rbErr))
			return fault.PartialFailure("ewe removed from source but not inserted into target", err)
		}
		return fault.Storage("update target plan", err)
	}

	s.logger.Info("ewe moved between plans",
		zap.String("ewe_id", eweID),
		zap.String("source_plan", sourcePlanID),
		zap.String("target_plan", targetPlanID))
	return nil
}

// ConfirmHeat records the operator's estrus observation. Clearing a
// detection also reverts any in-progress ram assignment.
func (s *Service) ConfirmHeat(ctx context.Context, planID, eweID string, detected bool) (models.BreedingPlan, error) {
	plan, ewe, err := s.loadEwe(ctx, planID, eweID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	ewe.HeatDetected = detected
	if detected {
		ewe.HeatDate = recurrence.FormatDate(s.now())
	} else {
		ewe.HeatDate = ""
		ewe.SireID = ""
		ewe.FirstMatingDate = ""
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}
	return plan, nil
}

// AssignRam sets the sire and first mating date. Heat must have been
// confirmed first.
func (s *Service) AssignRam(ctx context.Context, planID, eweID, sireID, date string) (models.BreedingPlan, error) {
	if sireID == "" {
		return models.BreedingPlan{}, fault.Validationf("sire id is required")
	}

	plan, ewe, err := s.loadEwe(ctx, planID, eweID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	if !ewe.HeatDetected {
		return models.BreedingPlan{}, fault.InvalidStatef("cannot assign ram to ewe %s before heat confirmation", eweID)
	}

	if date == "" {
		date = recurrence.FormatDate(s.now())
	} else if _, err := recurrence.ParseDate(date); err != nil {
		return models.BreedingPlan{}, fault.Validationf("invalid mating date %q", date)
	}

	ewe.SireID = sireID
	ewe.FirstMatingDate = date

	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}
	return plan, nil
}

// RecordCycleResult stores a pregnancy-check outcome. Cycle N may only be
// diagnosed once cycle N-1 came back empty. A pregnant result finalizes the
// record and propagates pregnancy onto the registry; an empty third cycle
// exhausts the protocol.
func (s *Service) RecordCycleResult(ctx context.Context, planID, eweID string, cycle int, result models.CycleResult) (models.BreedingPlan, error) {
	if cycle < 1 || cycle > models.MaxCycles {
		return models.BreedingPlan{}, fault.Validationf("cycle must be between 1 and %d", models.MaxCycles)
	}
	if result != models.ResultPregnant && result != models.ResultEmpty {
		return models.BreedingPlan{}, fault.Validationf("result must be pregnant or empty")
	}

	plan, ewe, err := s.loadEwe(ctx, planID, eweID)
	if err != nil {
		return models.BreedingPlan{}, err
	}

	if ewe.Finalized {
		return models.BreedingPlan{}, fault.InvalidStatef("ewe %s already finalized the protocol", eweID)
	}
	if cycle > 1 && ewe.Results.At(cycle-1) != models.ResultEmpty {
		return models.BreedingPlan{}, fault.InvalidStatef("cycle %d requires cycle %d to be empty", cycle, cycle-1)
	}

	ewe.Results.Set(cycle, result)

	switch {
	case result == models.ResultPregnant:
		ewe.Finalized = true
		pregnant := true
		patch := models.SheepPatch{Pregnant: &pregnant}
		if ewe.SireID != "" {
			sire := ewe.SireID
			patch.SireID = &sire
		}
		if err := s.sheep.Patch(ctx, eweID, patch); err != nil {
			return models.BreedingPlan{}, fault.Storage("propagate pregnancy to registry", err)
		}
	case cycle == models.MaxCycles:
		// Protocol exhausted; the ewe is a culling candidate.
		ewe.Finalized = true
	default:
		ewe.Attempt = cycle + 1
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return models.BreedingPlan{}, fault.Storage("update breeding plan", err)
	}

	s.logger.Info("cycle result recorded",
		zap.String("plan_id", planID),
		zap.String("ewe_id", eweID),
		zap.Int("cycle", cycle),
		zap.String("result", string(result)))
	return plan, nil
}

// DiscardEwe marks the animal as culled in the registry and clears her
// pregnancy flags. The plan entry is retained as breeding history.
func (s *Service) DiscardEwe(ctx context.Context, planID, eweID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.FindEwe(eweID) < 0 {
		return fault.NotFoundf("ewe %s is not in plan %s", eweID, planID)
	}

	pregnant := false
	clearedSire := ""
	status := models.SheepCulled
	patch := models.SheepPatch{Pregnant: &pregnant, SireID: &clearedSire, Status: &status}
	if err := s.sheep.Patch(ctx, eweID, patch); err != nil {
		return fault.Storage("mark sheep culled", err)
	}

	s.logger.Info("ewe discarded", zap.String("plan_id", planID), zap.String("ewe_id", eweID))
	return nil
}

// DeletePlan removes an empty plan. Plans still holding ewes are protected:
// members must be removed or moved first so their registry flags are
// released explicitly.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if len(plan.Ewes) > 0 {
		return fault.Preconditionf("plan %s still has %d ewes", planID, len(plan.Ewes))
	}

	if err := s.plans.Delete(ctx, planID); err != nil {
		return fault.Storage("delete breeding plan", err)
	}

	s.logger.Info("breeding plan deleted", zap.String("plan_id", planID))
	return nil
}

// AvailableEwes returns the eligibility pool for new plan memberships:
// female, active, not pregnant and not already assigned to any plan.
func (s *Service) AvailableEwes(ctx context.Context) ([]models.Sheep, error) {
	flock, err := s.sheep.List(ctx)
	if err != nil {
		return nil, fault.Storage("list sheep", err)
	}
	plans, err := s.plans.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("list breeding plans", err)
	}

	assigned := assignedEweIDs(plans)

	var out []models.Sheep
	for _, sh := range flock {
		if sh.Sex == models.SexFemale && sh.Status == models.SheepActive && !sh.Pregnant && !assigned[sh.ID] {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Service) loadPlan(ctx context.Context, id string) (models.BreedingPlan, error) {
	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return models.BreedingPlan{}, fault.NotFoundf("breeding plan %s", id)
		}
		return models.BreedingPlan{}, fault.Storage("get breeding plan", err)
	}
	return plan, nil
}

// loadEwe returns the plan along with a pointer into its ewe slice, so
// callers mutate the entry in place before persisting the whole plan.
func (s *Service) loadEwe(ctx context.Context, planID, eweID string) (models.BreedingPlan, *models.BreedingPlanEwe, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return models.BreedingPlan{}, nil, err
	}
	idx := plan.FindEwe(eweID)
	if idx < 0 {
		return models.BreedingPlan{}, nil, fault.NotFoundf("ewe %s is not in plan %s", eweID, planID)
	}
	return plan, &plan.Ewes[idx], nil
}

func (s *Service) checkEligibility(ctx context.Context, eweID string, allPlans []models.BreedingPlan) error {
	sh, err := s.sheep.Get(ctx, eweID)
	if err != nil {
		if isNotFound(err) {
			return fault.NotFoundf("sheep %s", eweID)
		}
		return fault.Storage("get sheep", err)
	}

	switch {
	case sh.Sex != models.SexFemale:
		return fault.Validationf("sheep %s is not female", eweID)
	case sh.Status != models.SheepActive:
		return fault.Validationf("sheep %s is not active", eweID)
	case sh.Pregnant:
		return fault.Validationf("sheep %s is already pregnant", eweID)
	}

	if assignedEweIDs(allPlans)[eweID] {
		return fault.Conflictf("sheep %s is already assigned to a breeding plan", eweID)
	}
	return nil
}

func (s *Service) clearPregnancy(ctx context.Context, eweID string) error {
	pregnant := false
	clearedSire := ""
	patch := models.SheepPatch{Pregnant: &pregnant, SireID: &clearedSire}
	return s.sheep.Patch(ctx, eweID, patch)
}

func assignedEweIDs(plans []models.BreedingPlan) map[string]bool {
	ids := make(map[string]bool)
	for _, p := range plans {
		for _, e := range p.Ewes {
			ids[e.EweID] = true
		}
	}
	return ids
}

func planPhase(s models.PlanStatus) int {
	switch s {
	case models.PlanSynchronizing:
		return 0
	case models.PlanBreeding:
		return 1
	case models.PlanCompleted:
		return 2
	}
	return -1
}

func isNotFound(err error) bool {
	return errors.Is(err, fault.ErrNotFound)
}
