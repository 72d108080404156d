// Package mongodb implements the persistence contracts on MongoDB, one
// collection per aggregate.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

const (
	sheepCollection   = "sheep"
	plansCollection   = "breeding_plans"
	manejosCollection = "manejos"
	reportsCollection = "flock_reports"
)

// Repository bundles the MongoDB-backed stores behind a single connection.
type Repository struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &Repository{client: client, dbName: dbName}, nil
}

// Close disconnects from MongoDB.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Sheep returns the sheep registry store.
func (r *Repository) Sheep() *SheepStore { return &SheepStore{repo: r} }

// Plans returns the breeding plan store.
func (r *Repository) Plans() *PlanStore { return &PlanStore{repo: r} }

// Manejos returns the scheduled task store.
func (r *Repository) Manejos() *ManejoStore { return &ManejoStore{repo: r} }

// Reports returns the flock report store.
func (r *Repository) Reports() *ReportStore { return &ReportStore{repo: r} }

// SheepStore persists registry records in the sheep collection.
type SheepStore struct {
	repo *Repository
}

func (s *SheepStore) Get(ctx context.Context, id string) (models.Sheep, error) {
	var sheep models.Sheep
	err := s.repo.collection(sheepCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&sheep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sheep{}, fault.NotFoundf("sheep %s", id)
	}
	if err != nil {
		return models.Sheep{}, fmt.Errorf("find sheep %s: %w", id, err)
	}
	return sheep, nil
}

func (s *SheepStore) List(ctx context.Context) ([]models.Sheep, error) {
	cursor, err := s.repo.collection(sheepCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list sheep: %w", err)
	}
	defer cursor.Close(ctx)

	var flock []models.Sheep
	if err := cursor.All(ctx, &flock); err != nil {
		return nil, fmt.Errorf("decode sheep: %w", err)
	}
	return flock, nil
}

func (s *SheepStore) Create(ctx context.Context, sheep models.Sheep) error {
	if _, err := s.repo.collection(sheepCollection).InsertOne(ctx, sheep); err != nil {
		return fmt.Errorf("insert sheep: %w", err)
	}
	return nil
}

func (s *SheepStore) Patch(ctx context.Context, id string, patch models.SheepPatch) error {
	set := bson.M{}
	if patch.Pregnant != nil {
		set["pregnant"] = *patch.Pregnant
	}
	if patch.SireID != nil {
		set["sire_id"] = *patch.SireID
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.repo.collection(sheepCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("patch sheep %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fault.NotFoundf("sheep %s", id)
	}
	return nil
}

// PlanStore persists breeding plans.
type PlanStore struct {
	repo *Repository
}

func (s *PlanStore) GetAll(ctx context.Context) ([]models.BreedingPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.repo.collection(plansCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list breeding plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []models.BreedingPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("decode breeding plans: %w", err)
	}
	return plans, nil
}

func (s *PlanStore) Get(ctx context.Context, id string) (models.BreedingPlan, error) {
	var plan models.BreedingPlan
	err := s.repo.collection(plansCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.BreedingPlan{}, fault.NotFoundf("breeding plan %s", id)
	}
	if err != nil {
		return models.BreedingPlan{}, fmt.Errorf("find breeding plan %s: %w", id, err)
	}
	return plan, nil
}

func (s *PlanStore) Create(ctx context.Context, plan models.BreedingPlan) error {
	if _, err := s.repo.collection(plansCollection).InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("insert breeding plan: %w", err)
	}
	return nil
}

func (s *PlanStore) Update(ctx context.Context, plan models.BreedingPlan) error {
	res, err := s.repo.collection(plansCollection).ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	if err != nil {
		return fmt.Errorf("update breeding plan %s: %w", plan.ID, err)
	}
	if res.MatchedCount == 0 {
		return fault.NotFoundf("breeding plan %s", plan.ID)
	}
	return nil
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	res, err := s.repo.collection(plansCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete breeding plan %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fault.NotFoundf("breeding plan %s", id)
	}
	return nil
}

// ManejoStore persists scheduled tasks.
type ManejoStore struct {
	repo *Repository
}

func (s *ManejoStore) GetAll(ctx context.Context) ([]models.Manejo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "planned_date", Value: 1}})
	cursor, err := s.repo.collection(manejosCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list manejos: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Manejo
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode manejos: %w", err)
	}
	return tasks, nil
}

func (s *ManejoStore) Get(ctx context.Context, id string) (models.Manejo, error) {
	var m models.Manejo
	err := s.repo.collection(manejosCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Manejo{}, fault.NotFoundf("manejo %s", id)
	}
	if err != nil {
		return models.Manejo{}, fmt.Errorf("find manejo %s: %w", id, err)
	}
	return m, nil
}

func (s *ManejoStore) Create(ctx context.Context, m models.Manejo) error {
	if _, err := s.repo.collection(manejosCollection).InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert manejo: %w", err)
	}
	return nil
}

func (s *ManejoStore) Update(ctx context.Context, m models.Manejo) error {
	res, err := s.repo.collection(manejosCollection).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("update manejo %s: %w", m.ID, err)
	}
	if res.MatchedCount == 0 {
		return fault.NotFoundf("manejo %s", m.ID)
	}
	return nil
}

func (s *ManejoStore) Delete(ctx context.Context, id string) error {
	res, err := s.repo.collection(manejosCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete manejo %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fault.NotFoundf("manejo %s", id)
	}
	return nil
}

// ReportStore persists generated flock reports.
type ReportStore struct {
	repo *Repository
}

func (s *ReportStore) SaveFlockReport(ctx context.Context, report models.FlockReport) error {
	if _, err := s.repo.collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert flock report: %w", err)
	}
	return nil
}
