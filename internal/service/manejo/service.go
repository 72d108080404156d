// Package manejo manages scheduled husbandry tasks: creation against the
// recurrence rules, completion with series advance, and the calendar views
// derived from the recurrence projector.
package manejo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/repository"
	"github.com/mamadbah2/ovinet/internal/service/recurrence"
)

// CreateInput carries the operator-supplied fields for a new task.
type CreateInput struct {
	Title            string
	Kind             models.ManejoKind
	Recurrence       models.Recurrence
	RecurrenceConfig models.RecurrenceConfig
	PlannedDate      string
	PlannedTime      string
	Procedure        string
	Notes            string
	SheepIDs         []string
	GroupID          string
	// AutoAdjust replaces a planned date inconsistent with the recurrence
	// rule by the next date the rule produces, instead of rejecting it.
	AutoAdjust bool
}

// Service implements task orchestration over the manejo store.
type Service struct {
	store  repository.ManejoStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a manejo service instance.
func NewService(store repository.ManejoStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// List returns every task sorted by planned date.
func (s *Service) List(ctx context.Context) ([]models.Manejo, error) {
	tasks, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("list manejos", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].PlannedDate != tasks[j].PlannedDate {
			return tasks[i].PlannedDate < tasks[j].PlannedDate
		}
		return tasks[i].PlannedTime < tasks[j].PlannedTime
	})
	return tasks, nil
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id string) (models.Manejo, error) {
	return s.load(ctx, id)
}

// Create registers a new pending task. The planned date must be consistent
// with the recurrence rule unless AutoAdjust is set; the recurrence series
// reference (start date, occurrence count) is stamped here.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Manejo, error) {
	title := strings.ToUpper(strings.TrimSpace(in.Title))
	if title == "" {
		return models.Manejo{}, fault.Validationf("task title is required")
	}
	if _, err := recurrence.ParseDate(in.PlannedDate); err != nil {
		return models.Manejo{}, fault.Validationf("invalid planned date %q", in.PlannedDate)
	}
	if in.GroupID != "" && len(in.SheepIDs) > 0 {
		return models.Manejo{}, fault.Validationf("task targets either a group or a sheep list, not both")
	}

	recur := in.Recurrence
	if recur == "" {
		recur = models.RecurNone
	}

	plannedDate := in.PlannedDate
	if ok, reason := recurrence.ValidateDate(recur, in.RecurrenceConfig, plannedDate); !ok {
		if !in.AutoAdjust {
			return models.Manejo{}, fault.Validationf("planned date inconsistent with recurrence rule: %s", reason)
		}
		adjusted, found := recurrence.AutoAdjust(plannedDate, recur, in.RecurrenceConfig)
		if !found {
			return models.Manejo{}, fault.Validationf("no valid date can be derived from the recurrence rule")
		}
		plannedDate = adjusted
	}

	cfg := in.RecurrenceConfig
	cfg.ReferenceStartDate = plannedDate
	cfg.OccurrenceCount = 0

	kind := in.Kind
	if kind == "" {
		kind = models.KindRecurring
	}
	plannedTime := in.PlannedTime
	if plannedTime == "" {
		plannedTime = "08:00"
	}

	m := models.Manejo{
		ID:               s.newID(),
		Title:            title,
		Kind:             kind,
		Recurrence:       recur,
		RecurrenceConfig: cfg,
		PlannedDate:      plannedDate,
		PlannedTime:      plannedTime,
		Status:           models.ManejoPending,
		Procedure:        in.Procedure,
		Notes:            in.Notes,
		SheepIDs:         in.SheepIDs,
		GroupID:          in.GroupID,
		CreatedAt:        s.now(),
	}

	if err := s.store.Create(ctx, m); err != nil {
		return models.Manejo{}, fault.Storage("create manejo", err)
	}

	s.logger.Info("manejo created",
		zap.String("manejo_id", m.ID),
		zap.String("title", m.Title),
		zap.String("recurrence", string(m.Recurrence)),
		zap.String("planned_date", m.PlannedDate))
	return m, nil
}

// Update applies manager edits to a pending task and stamps the edit audit
// fields. Completed or cancelled tasks are immutable.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (models.Manejo, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return models.Manejo{}, err
	}
	if m.Status != models.ManejoPending {
		return models.Manejo{}, fault.InvalidStatef("manejo %s is %s and cannot be edited", id, m.Status)
	}

	title := strings.ToUpper(strings.TrimSpace(in.Title))
	if title == "" {
		return models.Manejo{}, fault.Validationf("task title is required")
	}

	recur := in.Recurrence
	if recur == "" {
		recur = models.RecurNone
	}
	if ok, reason := recurrence.ValidateDate(recur, in.RecurrenceConfig, in.PlannedDate); !ok {
		return models.Manejo{}, fault.Validationf("planned date inconsistent with recurrence rule: %s", reason)
	}

	// The series reference survives edits; only rule parameters change.
	cfg := in.RecurrenceConfig
	cfg.ReferenceStartDate = m.RecurrenceConfig.ReferenceStartDate
	cfg.OccurrenceCount = m.RecurrenceConfig.OccurrenceCount
	if cfg.ReferenceStartDate == "" {
		cfg.ReferenceStartDate = in.PlannedDate
	}

	m.Title = title
	m.Kind = in.Kind
	m.Recurrence = recur
	m.RecurrenceConfig = cfg
	m.PlannedDate = in.PlannedDate
	if in.PlannedTime != "" {
		m.PlannedTime = in.PlannedTime
	}
	m.Procedure = in.Procedure
	m.Notes = in.Notes
	m.SheepIDs = in.SheepIDs
	m.GroupID = in.GroupID
	m.EditedByManager = true
	m.LastEditedAt = s.now()

	if err := s.store.Update(ctx, m); err != nil {
		return models.Manejo{}, fault.Storage("update manejo", err)
	}
	return m, nil
}

// Complete marks a pending task done and, for recurring tasks whose series
// has not ended, seeds the next pending instance from the recurrence rule.
// The returned manejo is the completed one; next is non-nil when a follow-up
// was created.
func (s *Service) Complete(ctx context.Context, id, worker, notes, executionDate string) (models.Manejo, *models.Manejo, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return models.Manejo{}, nil, err
	}
	if m.Status != models.ManejoPending {
		return models.Manejo{}, nil, fault.InvalidStatef("manejo %s is already %s", id, m.Status)
	}

	if executionDate == "" {
		executionDate = recurrence.FormatDate(s.now())
	} else if _, err := recurrence.ParseDate(executionDate); err != nil {
		return models.Manejo{}, nil, fault.Validationf("invalid execution date %q", executionDate)
	}

	m.Status = models.ManejoDone
	m.ExecutionDate = executionDate
	m.Worker = strings.ToUpper(strings.TrimSpace(worker))
	if notes != "" {
		m.Notes = strings.ToUpper(notes)
	}

	if err := s.store.Update(ctx, m); err != nil {
		return models.Manejo{}, nil, fault.Storage("update manejo", err)
	}

	nextDate, nextCount, ok := recurrence.AdvanceAfterCompletion(m)
	if !ok {
		return m, nil, nil
	}

	follow := m
	follow.ID = s.newID()
	follow.Status = models.ManejoPending
	follow.PlannedDate = nextDate
	follow.ExecutionDate = ""
	follow.Worker = ""
	follow.RecurrenceConfig.OccurrenceCount = nextCount
	follow.EditedByManager = false
	follow.LastEditedAt = time.Time{}
	follow.CreatedAt = s.now()

	if err := s.store.Create(ctx, follow); err != nil {
		// The completion itself is already persisted; losing the follow-up
		// must be reported, not swallowed.
		return m, nil, fault.PartialFailure("task completed but next occurrence not created", err)
	}

	s.logger.Info("recurring manejo advanced",
		zap.String("manejo_id", m.ID),
		zap.String("next_id", follow.ID),
		zap.String("next_date", nextDate),
		zap.Int("occurrence", nextCount))
	return m, &follow, nil
}

// Cancel marks a pending task cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (models.Manejo, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return models.Manejo{}, err
	}
	if m.Status != models.ManejoPending {
		return models.Manejo{}, fault.InvalidStatef("manejo %s is already %s", id, m.Status)
	}

	m.Status = models.ManejoCancelled
	if err := s.store.Update(ctx, m); err != nil {
		return models.Manejo{}, fault.Storage("update manejo", err)
	}
	return m, nil
}

// Delete removes a task permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fault.Storage("delete manejo", err)
	}
	return nil
}

// ValidateDate checks a candidate planned date against a rule without
// persisting anything, returning a suggested replacement on mismatch.
func (s *Service) ValidateDate(recur models.Recurrence, cfg models.RecurrenceConfig, date string) (bool, string, string) {
	ok, reason := recurrence.ValidateDate(recur, cfg, date)
	if ok {
		return true, "", ""
	}
	suggested, _ := recurrence.AutoAdjust(date, recur, cfg)
	return false, reason, suggested
}

// CalendarYear projects every task over the given calendar year.
func (s *Service) CalendarYear(ctx context.Context, year int) ([]recurrence.Occurrence, error) {
	return s.Agenda(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
}

// Agenda projects every task over an inclusive date window, sorted ascending
// by date then planned time. Projections are recomputed on every call.
func (s *Service) Agenda(ctx context.Context, from, to string) ([]recurrence.Occurrence, error) {
	if _, err := recurrence.ParseDate(from); err != nil {
		return nil, fault.Validationf("invalid window start %q", from)
	}
	if _, err := recurrence.ParseDate(to); err != nil {
		return nil, fault.Validationf("invalid window end %q", to)
	}

	tasks, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("list manejos", err)
	}

	var out []recurrence.Occurrence
	for _, m := range tasks {
		if m.Status == models.ManejoCancelled {
			continue
		}
		// Done recurring tasks already seeded their follow-up; projecting
		// them again would duplicate the series.
		if m.Status == models.ManejoDone && m.Recurrence != models.RecurNone {
			out = append(out, recurrence.Project(models.Manejo{
				ID:          m.ID,
				Title:       m.Title,
				Kind:        m.Kind,
				Recurrence:  models.RecurNone,
				PlannedDate: m.PlannedDate,
				PlannedTime: m.PlannedTime,
				Status:      m.Status,
			}, from, to)...)
			continue
		}
		out = append(out, recurrence.Project(m, from, to)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Manejo.PlannedTime < out[j].Manejo.PlannedTime
	})
	return out, nil
}

func (s *Service) load(ctx context.Context, id string) (models.Manejo, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return models.Manejo{}, fault.NotFoundf("manejo %s", id)
		}
		return models.Manejo{}, fault.Storage("get manejo", err)
	}
	return m, nil
}
