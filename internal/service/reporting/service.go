// Package reporting aggregates the flock registry, breeding plans and task
// board into weekly reports and short text summaries for the shepherd group.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/repository"
	"github.com/mamadbah2/ovinet/internal/service/recurrence"
)

// Exporter is the optional spreadsheet sink for generated reports.
type Exporter interface {
	AppendReport(ctx context.Context, report models.FlockReport) error
}

// Service computes flock analytics over the persisted stores.
type Service struct {
	sheep    repository.SheepStore
	plans    repository.PlanStore
	manejos  repository.ManejoStore
	reports  repository.ReportStore
	exporter Exporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. exporter may be nil when
// no spreadsheet is configured.
func NewService(sheep repository.SheepStore, plans repository.PlanStore, manejos repository.ManejoStore, reports repository.ReportStore, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sheep:    sheep,
		plans:    plans,
		manejos:  manejos,
		reports:  reports,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateWeeklyReport builds the aggregate for the seven days ending today,
// persists it and appends it to the spreadsheet when one is configured.
func (s *Service) GenerateWeeklyReport(ctx context.Context) (models.FlockReport, error) {
	end := s.now()
	start := end.AddDate(0, 0, -7)

	report, err := s.buildReport(ctx, start, end)
	if err != nil {
		return models.FlockReport{}, err
	}

	if err := s.reports.SaveFlockReport(ctx, report); err != nil {
		return models.FlockReport{}, fmt.Errorf("save flock report: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendReport(ctx, report); err != nil {
			// Export failures do not invalidate the persisted report.
			s.logger.Warn("sheet export failed", zap.Error(err))
		}
	}

	return report, nil
}

func (s *Service) buildReport(ctx context.Context, start, end time.Time) (models.FlockReport, error) {
	flock, err := s.sheep.List(ctx)
	if err != nil {
		return models.FlockReport{}, fmt.Errorf("load flock: %w", err)
	}
	plans, err := s.plans.GetAll(ctx)
	if err != nil {
		return models.FlockReport{}, fmt.Errorf("load plans: %w", err)
	}
	tasks, err := s.manejos.GetAll(ctx)
	if err != nil {
		return models.FlockReport{}, fmt.Errorf("load tasks: %w", err)
	}

	report := models.FlockReport{
		PeriodStart: start,
		PeriodEnd:   end,
		CreatedAt:   s.now(),
	}

	var totalWeight float64
	var weighed int
	for _, animal := range flock {
		report.TotalSheep++
		if animal.Status == models.SheepActive {
			report.ActiveSheep++
		}
		if animal.Pregnant {
			report.PregnantEwes++
		}
		if animal.WeightKg > 0 {
			totalWeight += animal.WeightKg
			weighed++
		}
	}
	if weighed > 0 {
		report.AverageWeightKg = totalWeight / float64(weighed)
	}

	for _, plan := range plans {
		for _, ewe := range plan.Ewes {
			report.EwesInPlans++
			switch {
			case ewe.Finalized && ewe.Results.At(ewe.Attempt) == models.ResultPregnant:
				report.ConfirmedPregnant++
			case ewe.Attempt >= models.MaxCycles && ewe.Results.At(models.MaxCycles) == models.ResultEmpty:
				report.CullingCandidates++
			}
		}
	}

	startDay := recurrence.FormatDate(start)
	endDay := recurrence.FormatDate(end)
	today := recurrence.FormatDate(s.now())
	for _, task := range tasks {
		switch task.Status {
		case models.ManejoDone:
			if task.ExecutionDate >= startDay && task.ExecutionDate <= endDay {
				report.TasksCompleted++
			}
		case models.ManejoPending:
			report.TasksPending++
			if task.PlannedDate < today {
				report.TasksOverdue++
			}
		}
	}

	return report, nil
}

// FormatReport renders a flock report as a plain-text digest.
func (s *Service) FormatReport(report models.FlockReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flock report %s - %s\n", report.PeriodStart.Format(recurrence.DateLayout), report.PeriodEnd.Format(recurrence.DateLayout))
	fmt.Fprintf(&b, "Animals: %d total, %d active, %d pregnant\n", report.TotalSheep, report.ActiveSheep, report.PregnantEwes)
	fmt.Fprintf(&b, "Breeding: %d ewes in plans, %d confirmed pregnant, %d culling candidates\n", report.EwesInPlans, report.ConfirmedPregnant, report.CullingCandidates)
	fmt.Fprintf(&b, "Tasks: %d completed this week, %d pending, %d overdue", report.TasksCompleted, report.TasksPending, report.TasksOverdue)
	if report.AverageWeightKg > 0 {
		fmt.Fprintf(&b, "\nAverage weight: %.1f kg", report.AverageWeightKg)
	}
	return b.String()
}

// FormatAgenda renders a projected task list as a plain-text daily digest.
func (s *Service) FormatAgenda(day string, occurrences []recurrence.Occurrence) string {
	if len(occurrences) == 0 {
		return fmt.Sprintf("Agenda %s: nothing scheduled.", day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Agenda %s (%d tasks)\n", day, len(occurrences))
	for _, occ := range occurrences {
		line := fmt.Sprintf("- %s %s", occ.Manejo.PlannedTime, occ.Manejo.Title)
		if occ.Manejo.Worker != "" {
			line += " (" + occ.Manejo.Worker + ")"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
