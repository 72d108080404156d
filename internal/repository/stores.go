// Package repository declares the persistence contracts the services depend
// on. Two backends implement them with identical semantics: MongoDB and a
// JSON-file local store used when no database is configured.
package repository

import (
	"context"

	"github.com/mamadbah2/ovinet/internal/domain/models"
)

// SheepStore is the flock registry collaborator. The breeding module reads
// the full registry for eligibility pools and patches pregnancy, sire and
// status fields as cycle outcomes land.
type SheepStore interface {
	Get(ctx context.Context, id string) (models.Sheep, error)
	List(ctx context.Context) ([]models.Sheep, error)
	Create(ctx context.Context, sheep models.Sheep) error
	Patch(ctx context.Context, id string, patch models.SheepPatch) error
}

// PlanStore persists breeding plans.
type PlanStore interface {
	GetAll(ctx context.Context) ([]models.BreedingPlan, error)
	Get(ctx context.Context, id string) (models.BreedingPlan, error)
	Create(ctx context.Context, plan models.BreedingPlan) error
	Update(ctx context.Context, plan models.BreedingPlan) error
	Delete(ctx context.Context, id string) error
}

// ManejoStore persists scheduled tasks.
type ManejoStore interface {
	GetAll(ctx context.Context) ([]models.Manejo, error)
	Get(ctx context.Context, id string) (models.Manejo, error)
	Create(ctx context.Context, manejo models.Manejo) error
	Update(ctx context.Context, manejo models.Manejo) error
	Delete(ctx context.Context, id string) error
}

// ReportStore persists generated flock reports.
type ReportStore interface {
	SaveFlockReport(ctx context.Context, report models.FlockReport) error
}
