package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Revenue models supported by the pricing engine.
const (
	RevenueFixed     = "fixed"
	RevenueTM        = "t_m"
	RevenueMilestone = "milestone"
)

// Version lifecycle statuses. A version entering StatusWon is locked
// atomically and stays immutable until explicitly unlocked.
const (
	StatusDraft     = "draft"
	StatusReview    = "review"
	StatusSubmitted = "submitted"
	StatusWon       = "won"
)

type Project struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	ClientName          string           `json:"client_name,omitempty"`
	RevenueModel        string           `json:"revenue_model"`
	Currency            string           `json:"currency"`
	SprintDurationWeeks int              `json:"sprint_duration_weeks"`
	FixedRevenue        *decimal.Decimal `json:"fixed_revenue,omitempty"`
	CreatedBy           int64            `json:"created_by"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// ProjectVersion is an immutable-once-locked snapshot of a plan. New
// material changes happen only on an unlocked version.
type ProjectVersion struct {
	ID                   int64           `json:"id"`
	ProjectID            int64           `json:"project_id"`
	VersionNumber        int             `json:"version_number"`
	Status               string          `json:"status"`
	IsLocked             bool            `json:"is_locked"`
	LockedBy             *int64          `json:"locked_by,omitempty"`
	LockedAt             *time.Time      `json:"locked_at,omitempty"`
	CreatedBy            int64           `json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	EstimationAuthority  string          `json:"estimation_authority,omitempty"`
	ContingencyPct       decimal.Decimal `json:"contingency_pct"`
	ManagementReservePct decimal.Decimal `json:"management_reserve_pct"`
	Notes                string          `json:"notes,omitempty"`
}

// SprintConfig overrides the process-wide sprint defaults per version.
type SprintConfig struct {
	VersionID           int64 `json:"version_id"`
	DurationWeeks       int   `json:"duration_weeks"`
	WorkingDaysPerMonth int   `json:"working_days_per_month"`
	HoursPerDay         int   `json:"hours_per_day"`
}

// ProjectPatch carries optional project field updates.
type ProjectPatch struct {
	Name                *string          `json:"name,omitempty"`
	ClientName          *string          `json:"client_name,omitempty"`
	RevenueModel        *string          `json:"revenue_model,omitempty"`
	Currency            *string          `json:"currency,omitempty"`
	SprintDurationWeeks *int             `json:"sprint_duration_weeks,omitempty"`
	FixedRevenue        *decimal.Decimal `json:"fixed_revenue,omitempty"`
}

// VersionPatch carries optional version field updates. Only fields the
// governance layer allows while a version is unlocked.
type VersionPatch struct {
	ContingencyPct       *decimal.Decimal `json:"contingency_pct,omitempty"`
	ManagementReservePct *decimal.Decimal `json:"management_reserve_pct,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}
