package models

import "time"

// PlanStatus reflects where a breeding batch is in its protocol.
type PlanStatus string

const (
	PlanSynchronizing PlanStatus = "synchronizing"
	PlanBreeding      PlanStatus = "breeding"
	PlanCompleted     PlanStatus = "completed"
)

// CycleResult is the outcome of a single pregnancy-check cycle.
type CycleResult string

const (
	ResultPending  CycleResult = "pending"
	ResultPregnant CycleResult = "pregnant"
	ResultEmpty    CycleResult = "empty"
)

// MaxCycles is the number of sequential breeding attempts the protocol allows
// before an open ewe becomes a culling candidate.
const MaxCycles = 3

// CycleResults holds the outcome of each of the three protocol cycles.
type CycleResults struct {
	First  CycleResult `bson:"1" json:"1"`
	Second CycleResult `bson:"2" json:"2"`
	Third  CycleResult `bson:"3" json:"3"`
}

// NewCycleResults returns results with every cycle still pending.
func NewCycleResults() CycleResults {
	return CycleResults{First: ResultPending, Second: ResultPending, Third: ResultPending}
}

// At returns the result recorded for the given cycle (1..3).
func (c CycleResults) At(cycle int) CycleResult {
	switch cycle {
	case 1:
		return c.First
	case 2:
		return c.Second
	case 3:
		return c.Third
	}
	return ""
}

// Set records a result for the given cycle (1..3).
func (c *CycleResults) Set(cycle int, result CycleResult) {
	switch cycle {
	case 1:
		c.First = result
	case 2:
		c.Second = result
	case 3:
		c.Third = result
	}
}

// BreedingPlanEwe is the per-animal state inside a breeding plan. An animal
// appears in at most one plan at a time.
type BreedingPlanEwe struct {
	EweID           string       `bson:"ewe_id" json:"ewe_id"`
	HeatDetected    bool         `bson:"heat_detected" json:"heat_detected"`
	HeatDate        string       `bson:"heat_date,omitempty" json:"heat_date,omitempty"`
	SireID          string       `bson:"sire_id,omitempty" json:"sire_id,omitempty"`
	FirstMatingDate string       `bson:"first_mating_date,omitempty" json:"first_mating_date,omitempty"`
	Attempt         int          `bson:"attempt" json:"attempt"`
	Results         CycleResults `bson:"results" json:"results"`
	Finalized       bool         `bson:"finalized" json:"finalized"`
}

// NewBreedingPlanEwe builds a fresh cycle record for an animal entering a plan.
func NewBreedingPlanEwe(eweID string) BreedingPlanEwe {
	return BreedingPlanEwe{
		EweID:   eweID,
		Attempt: 1,
		Results: NewCycleResults(),
	}
}

// BreedingPlan groups ewes going through a synchronized breeding protocol with
// a single start date.
type BreedingPlan struct {
	ID        string            `bson:"_id" json:"id"`
	Name      string            `bson:"name" json:"name"`
	SyncDate  string            `bson:"sync_date,omitempty" json:"sync_date,omitempty"`
	StartDate string            `bson:"start_date" json:"start_date"`
	Status    PlanStatus        `bson:"status" json:"status"`
	Ewes      []BreedingPlanEwe `bson:"ewes" json:"ewes"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// FindEwe returns the index of the entry for eweID, or -1.
func (p *BreedingPlan) FindEwe(eweID string) int {
	for i := range p.Ewes {
		if p.Ewes[i].EweID == eweID {
			return i
		}
	}
	return -1
}
