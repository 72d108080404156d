package models

import "time"

// ManejoKind distinguishes routine husbandry work from seasonal or unplanned
// interventions.
type ManejoKind string

const (
	KindRecurring ManejoKind = "recurring"
	KindSeasonal  ManejoKind = "seasonal"
	KindUnplanned ManejoKind = "unplanned"
)

// ManejoStatus is the lifecycle state of a scheduled task.
type ManejoStatus string

const (
	ManejoPending   ManejoStatus = "pending"
	ManejoDone      ManejoStatus = "done"
	ManejoCancelled ManejoStatus = "cancelled"
)

// Recurrence selects the rule used to derive follow-up occurrences.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

// RecurrenceConfig carries the parameters of a recurrence rule. Only the
// fields matching the task's Recurrence are honored:
//
//	daily   -> IntervalDays
//	weekly  -> Weekdays (0=Sunday .. 6=Saturday)
//	monthly -> DayOfMonth
//	yearly  -> MonthsOfYear (0=January .. 11=December)
//
// DurationDays, ReferenceStartDate and OccurrenceCount apply to every rule:
// the series ends once a projected date passes ReferenceStartDate plus
// DurationDays.
type RecurrenceConfig struct {
	IntervalDays       int    `bson:"interval_days,omitempty" json:"interval_days,omitempty"`
	Weekdays           []int  `bson:"weekdays,omitempty" json:"weekdays,omitempty"`
	DayOfMonth         int    `bson:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	MonthsOfYear       []int  `bson:"months_of_year,omitempty" json:"months_of_year,omitempty"`
	DurationDays       int    `bson:"duration_days,omitempty" json:"duration_days,omitempty"`
	ReferenceStartDate string `bson:"reference_start_date,omitempty" json:"reference_start_date,omitempty"`
	OccurrenceCount    int    `bson:"occurrence_count,omitempty" json:"occurrence_count,omitempty"`
}

// Manejo is a scheduled husbandry task. Targets are either a group, an
// explicit list of animals, or neither (a general task).
type Manejo struct {
	ID               string           `bson:"_id" json:"id"`
	Title            string           `bson:"title" json:"title"`
	Kind             ManejoKind       `bson:"kind" json:"kind"`
	Recurrence       Recurrence       `bson:"recurrence" json:"recurrence"`
	RecurrenceConfig RecurrenceConfig `bson:"recurrence_config" json:"recurrence_config"`
	PlannedDate      string           `bson:"planned_date" json:"planned_date"`
	PlannedTime      string           `bson:"planned_time" json:"planned_time"`
	ExecutionDate    string           `bson:"execution_date,omitempty" json:"execution_date,omitempty"`
	Worker           string           `bson:"worker,omitempty" json:"worker,omitempty"`
	Status           ManejoStatus     `bson:"status" json:"status"`
	Procedure        string           `bson:"procedure,omitempty" json:"procedure,omitempty"`
	Notes            string           `bson:"notes,omitempty" json:"notes,omitempty"`
	SheepIDs         []string         `bson:"sheep_ids,omitempty" json:"sheep_ids,omitempty"`
	GroupID          string           `bson:"group_id,omitempty" json:"group_id,omitempty"`
	EditedByManager  bool             `bson:"edited_by_manager" json:"edited_by_manager"`
	LastEditedAt     time.Time        `bson:"last_edited_at,omitempty" json:"last_edited_at,omitempty"`
	CreatedAt        time.Time        `bson:"created_at" json:"created_at"`
}
