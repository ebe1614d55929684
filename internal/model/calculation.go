package model

import "github.com/shopspring/decimal"

// CostBreakdown is the buffered cost figure for a version.
type CostBreakdown struct {
	BaseCost             decimal.Decimal `json:"base_cost"`
	RiskBuffer           decimal.Decimal `json:"risk_buffer"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	ContingencyPct       decimal.Decimal `json:"contingency_pct"`
	ManagementReservePct decimal.Decimal `json:"management_reserve_pct"`
}

// RevenueBreakdown is the revenue figure with the model that produced it.
type RevenueBreakdown struct {
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueModel string          `json:"revenue_model"`
}

// Profitability sets revenue against the buffered total cost. Margins are
// nil when revenue is zero (undefined ratio, not an error).
type Profitability struct {
	Revenue              decimal.Decimal  `json:"revenue"`
	Cost                 decimal.Decimal  `json:"cost"`
	GrossMarginPct       *decimal.Decimal `json:"gross_margin_pct"`
	NetMarginPct         *decimal.Decimal `json:"net_margin_pct"`
	MarginBelowThreshold bool             `json:"margin_below_threshold"`
}

// ReverseMargin is the revenue and per-day billing rate required to hit a
// target margin. The billing rate is nil when the version carries no
// effort to spread it over.
type ReverseMargin struct {
	TargetMarginPct     decimal.Decimal  `json:"target_margin_pct"`
	RequiredRevenue     decimal.Decimal  `json:"required_revenue"`
	RequiredBillingRate *decimal.Decimal `json:"required_billing_rate"`
}

// SprintAllocation is the derived capacity plan for a version's roster:
// contingency-inflated effort spread over sprint capacity.
type SprintAllocation struct {
	SprintCapacityHours decimal.Decimal `json:"sprint_capacity_hours"`
	TotalEffortHours    decimal.Decimal `json:"total_effort_hours"`
	SprintsRequired     int             `json:"sprints_required"`
	EffortPerSprint     decimal.Decimal `json:"effort_per_sprint"`
}
