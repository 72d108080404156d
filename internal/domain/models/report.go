package models

import "time"

// FlockReport is the weekly aggregate persisted to MongoDB and exported to the
// operator spreadsheet.
type FlockReport struct {
	PeriodStart       time.Time `bson:"period_start" json:"period_start"`
	PeriodEnd         time.Time `bson:"period_end" json:"period_end"`
	TotalSheep        int       `bson:"total_sheep" json:"total_sheep"`
	ActiveSheep       int       `bson:"active_sheep" json:"active_sheep"`
	PregnantEwes      int       `bson:"pregnant_ewes" json:"pregnant_ewes"`
	EwesInPlans       int       `bson:"ewes_in_plans" json:"ewes_in_plans"`
	ConfirmedPregnant int       `bson:"confirmed_pregnant" json:"confirmed_pregnant"`
	CullingCandidates int       `bson:"culling_candidates" json:"culling_candidates"`
	TasksCompleted    int       `bson:"tasks_completed" json:"tasks_completed"`
	TasksPending      int       `bson:"tasks_pending" json:"tasks_pending"`
	TasksOverdue      int       `bson:"tasks_overdue" json:"tasks_overdue"`
	AverageWeightKg   float64   `bson:"average_weight_kg" json:"average_weight_kg"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// Insight is one entry of the AI flock digest.
type Insight struct {
	Priority  string   `json:"priority"`
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Detail    string   `json:"detail"`
	Rationale string   `json:"rationale,omitempty"`
	TargetIDs []string `json:"target_ids,omitempty"`
}

// OutboundMessageRequest represents requests to send a notification manually
// via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
