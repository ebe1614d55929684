package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Feature is a unit of scope on a project version. EffortHours is the
// authoritative estimate; the task breakdown, when present, should sum to it
// but is not re-validated here; callers deriving allocations from tasks
// recompute role totals themselves.
type Feature struct {
	ID                int64              `json:"id"`
	VersionID         int64              `json:"version_id"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Priority          int                `json:"priority"`
	EffortHours       decimal.Decimal    `json:"effort_hours"`
	EffortStoryPoints *int               `json:"effort_story_points,omitempty"`
	SuggestedEffort   *decimal.Decimal   `json:"suggested_effort,omitempty"`
	SuggestedApproved bool               `json:"suggested_approved"`
	Tasks             []FeatureTask      `json:"tasks,omitempty"`
	Allocations       []EffortAllocation `json:"effort_allocations,omitempty"`
}

// FeatureTask is one line of a feature's task breakdown, stored as JSONB.
type FeatureTask struct {
	Name        string          `json:"name"`
	EffortHours decimal.Decimal `json:"effort_hours"`
	Role        string          `json:"role"`
}

// EffortAllocation distributes a feature's effort across roles. Percentages
// are expected to sum to 100 but effort hours are authoritative.
type EffortAllocation struct {
	ID            int64            `json:"id"`
	FeatureID     int64            `json:"feature_id"`
	Role          string           `json:"role"`
	AllocationPct decimal.Decimal  `json:"allocation_pct"`
	EffortHours   decimal.Decimal  `json:"effort_hours"`
	FTE           *decimal.Decimal `json:"fte,omitempty"`
}

// FeaturePatch carries optional feature field updates. A non-nil EffortHours
// triggers the governance effort gate.
type FeaturePatch struct {
	Name              *string             `json:"name,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Priority          *int                `json:"priority,omitempty"`
	EffortHours       *decimal.Decimal    `json:"effort_hours,omitempty"`
	EffortStoryPoints *int                `json:"effort_story_points,omitempty"`
	Allocations       []EffortAllocation  `json:"effort_allocations,omitempty"`
	Tasks             []FeatureTask       `json:"tasks,omitempty"`
}

// AllocationsByFeature groups allocations by feature ID, the shape the
// calculation engine consumes.
func AllocationsByFeature(features []*Feature) map[int64][]EffortAllocation {
	out := make(map[int64][]EffortAllocation, len(features))
	for _, f := range features {
		if len(f.Allocations) > 0 {
			out[f.ID] = f.Allocations
		}
	}
	return out
}

// RoleHoursFromTasks sums task hours per role, treating blank roles as
// "Unassigned". Used to derive allocations when a task breakdown is edited.
func RoleHoursFromTasks(tasks []FeatureTask) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range tasks {
		role := strings.TrimSpace(t.Role)
		if role == "" {
			role = "Unassigned"
		}
		out[role] = out[role].Add(t.EffortHours)
	}
	return out
}
