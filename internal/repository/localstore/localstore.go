// Package localstore implements the persistence contracts on flat JSON
// files, used when no MongoDB connection is configured. One file per
// aggregate, rewritten whole on every mutation; fine for the human-paced
// interaction rate this application serves.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

// Store is the JSON-file fallback backend.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New prepares the data directory and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func readFile[T any](s *Store, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func writeFile[T any](s *Store, name string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// Sheep returns the sheep registry store.
func (s *Store) Sheep() *SheepStore { return &SheepStore{store: s} }

// Plans returns the breeding plan store.
func (s *Store) Plans() *PlanStore { return &PlanStore{store: s} }

// Manejos returns the scheduled task store.
func (s *Store) Manejos() *ManejoStore { return &ManejoStore{store: s} }

// Reports returns the flock report store.
func (s *Store) Reports() *ReportStore { return &ReportStore{store: s} }

const (
	sheepFile   = "sheep.json"
	plansFile   = "breeding_plans.json"
	manejosFile = "manejos.json"
	reportsFile = "flock_reports.json"
)

// SheepStore keeps registry records in sheep.json.
type SheepStore struct {
	store *Store
}

func (s *SheepStore) Get(ctx context.Context, id string) (models.Sheep, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	flock, err := readFile[models.Sheep](s.store, sheepFile)
	if err != nil {
		return models.Sheep{}, err
	}
	for _, sh := range flock {
		if sh.ID == id {
			return sh, nil
		}
	}
	return models.Sheep{}, fault.NotFoundf("sheep %s", id)
}

func (s *SheepStore) List(ctx context.Context) ([]models.Sheep, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return readFile[models.Sheep](s.store, sheepFile)
}

func (s *SheepStore) Create(ctx context.Context, sheep models.Sheep) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	flock, err := readFile[models.Sheep](s.store, sheepFile)
	if err != nil {
		return err
	}
	return writeFile(s.store, sheepFile, append(flock, sheep))
}

func (s *SheepStore) Patch(ctx context.Context, id string, patch models.SheepPatch) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	flock, err := readFile[models.Sheep](s.store, sheepFile)
	if err != nil {
		return err
	}
	for i := range flock {
		if flock[i].ID != id {
			continue
		}
		if patch.Pregnant != nil {
			flock[i].Pregnant = *patch.Pregnant
		}
		if patch.SireID != nil {
			flock[i].SireID = *patch.SireID
		}
		if patch.Status != nil {
			flock[i].Status = *patch.Status
		}
		return writeFile(s.store, sheepFile, flock)
	}
	return fault.NotFoundf("sheep %s", id)
}

// PlanStore keeps breeding plans in breeding_plans.json.
type PlanStore struct {
	store *Store
}

func (s *PlanStore) GetAll(ctx context.Context) ([]models.BreedingPlan, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return readFile[models.BreedingPlan](s.store, plansFile)
}

func (s *PlanStore) Get(ctx context.Context, id string) (models.BreedingPlan, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	plans, err := readFile[models.BreedingPlan](s.store, plansFile)
	if err != nil {
		return models.BreedingPlan{}, err
	}
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.BreedingPlan{}, fault.NotFoundf("breeding plan %s", id)
}

func (s *PlanStore) Create(ctx context.Context, plan models.BreedingPlan) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	plans, err := readFile[models.BreedingPlan](s.store, plansFile)
	if err != nil {
		return err
	}
	return writeFile(s.store, plansFile, append(plans, plan))
}

func (s *PlanStore) Update(ctx context.Context, plan models.BreedingPlan) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	plans, err := readFile[models.BreedingPlan](s.store, plansFile)
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].ID == plan.ID {
			plans[i] = plan
			return writeFile(s.store, plansFile, plans)
		}
	}
	return fault.NotFoundf("breeding plan %s", plan.ID)
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	plans, err := readFile[models.BreedingPlan](s.store, plansFile)
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].ID == id {
			return writeFile(s.store, plansFile, append(plans[:i], plans[i+1:]...))
		}
	}
	return fault.NotFoundf("breeding plan %s", id)
}

// ManejoStore keeps scheduled tasks in manejos.json.
type ManejoStore struct {
	store *Store
}

func (s *ManejoStore) GetAll(ctx context.Context) ([]models.Manejo, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return readFile[models.Manejo](s.store, manejosFile)
}

func (s *ManejoStore) Get(ctx context.Context, id string) (models.Manejo, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks, err := readFile[models.Manejo](s.store, manejosFile)
	if err != nil {
		return models.Manejo{}, err
	}
	for _, m := range tasks {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Manejo{}, fault.NotFoundf("manejo %s", id)
}

func (s *ManejoStore) Create(ctx context.Context, m models.Manejo) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks, err := readFile[models.Manejo](s.store, manejosFile)
	if err != nil {
		return err
	}
	return writeFile(s.store, manejosFile, append(tasks, m))
}

func (s *ManejoStore) Update(ctx context.Context, m models.Manejo) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks, err := readFile[models.Manejo](s.store, manejosFile)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == m.ID {
			tasks[i] = m
			return writeFile(s.store, manejosFile, tasks)
		}
	}
	return fault.NotFoundf("manejo %s", m.ID)
}

func (s *ManejoStore) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks, err := readFile[models.Manejo](s.store, manejosFile)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return writeFile(s.store, manejosFile, append(tasks[:i], tasks[i+1:]...))
		}
	}
	return fault.NotFoundf("manejo %s", id)
}

// ReportStore appends flock reports to flock_reports.json.
type ReportStore struct {
	store *Store
}

func (s *ReportStore) SaveFlockReport(ctx context.Context, report models.FlockReport) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	reports, err := readFile[models.FlockReport](s.store, reportsFile)
	if err != nil {
		return err
	}
	return writeFile(s.store, reportsFile, append(reports, report))
}
