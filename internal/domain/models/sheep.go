package models

import "time"

// Sex identifies the animal's sex.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// SheepStatus tracks whether the animal is still part of the productive flock.
type SheepStatus string

const (
	SheepActive   SheepStatus = "active"
	SheepCulled   SheepStatus = "culled"
	SheepDeceased SheepStatus = "deceased"
)

// Sheep is the registry record for a single animal. The breeding module only
// ever mutates Pregnant, SireID and Status; everything else belongs to the
// flock registry itself.
type Sheep struct {
	ID        string      `bson:"_id" json:"id"`
	Tag       string      `bson:"tag" json:"tag"`
	Name      string      `bson:"name" json:"name"`
	BirthDate string      `bson:"birth_date" json:"birth_date"`
	Sex       Sex         `bson:"sex" json:"sex"`
	BreedID   string      `bson:"breed_id" json:"breed_id"`
	Origin    string      `bson:"origin,omitempty" json:"origin,omitempty"`
	PaddockID string      `bson:"paddock_id,omitempty" json:"paddock_id,omitempty"`
	GroupID   string      `bson:"group_id,omitempty" json:"group_id,omitempty"`
	WeightKg  float64     `bson:"weight_kg" json:"weight_kg"`
	BodyScore float64     `bson:"body_score,omitempty" json:"body_score,omitempty"`
	Famacha   int         `bson:"famacha,omitempty" json:"famacha,omitempty"`
	Status    SheepStatus `bson:"status" json:"status"`
	Pregnant  bool        `bson:"pregnant" json:"pregnant"`
	SireID    string      `bson:"sire_id,omitempty" json:"sire_id,omitempty"`
	DamID     string      `bson:"dam_id,omitempty" json:"dam_id,omitempty"`
	Notes     string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}

// SheepPatch is a partial update applied to a registry record. Nil fields are
// left untouched; SireID distinguishes "clear" (pointer to empty string) from
// "no change" (nil).
type SheepPatch struct {
	Pregnant *bool
	SireID   *string
	Status   *SheepStatus
}
