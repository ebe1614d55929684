package model

import "github.com/shopspring/decimal"

// Sprint plan row kinds.
const (
	RowSprintWeek = "sprint-week"
	RowPhase      = "phase"
)

// SprintPlanRow is one line of the manually edited capacity plan. It is
// independent of the derived sprint-capacity calculation. Allocations map a
// role to an FTE fraction (1 = full time, 0.5 = half).
type SprintPlanRow struct {
	ID          int64                      `json:"id"`
	VersionID   int64                      `json:"version_id"`
	RowType     string                     `json:"row_type"`
	SprintNum   *int                       `json:"sprint_num,omitempty"`
	WeekNum     *int                       `json:"week_num,omitempty"`
	Phase       string                     `json:"phase,omitempty"`
	Allocations map[string]decimal.Decimal `json:"allocations"`
	SortOrder   int                        `json:"sort_order"`
}
