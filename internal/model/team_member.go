package model

import "github.com/shopspring/decimal"

// TeamMember is a role on a project version's roster. Rate overrides are
// optional; when absent the org-wide role rate applies. All resolved rates
// are per day; monthly and hourly figures convert once, at resolution time.
type TeamMember struct {
	ID                int64            `json:"id"`
	VersionID         int64            `json:"version_id"`
	Role              string           `json:"role"`
	MemberName        string           `json:"member_name,omitempty"`
	CostRatePerDay    *decimal.Decimal `json:"cost_rate_per_day,omitempty"`
	BillingRatePerDay *decimal.Decimal `json:"billing_rate_per_day,omitempty"`
	MonthlyCostRate   *decimal.Decimal `json:"monthly_cost_rate,omitempty"`
	HourlyBillingRate *decimal.Decimal `json:"hourly_billing_rate,omitempty"`
	UtilizationPct    decimal.Decimal  `json:"utilization_pct"`
	WorkingDaysPerMonth int            `json:"working_days_per_month"`
	HoursPerDay         int            `json:"hours_per_day"`
}

// TeamMemberPatch carries optional member field updates.
type TeamMemberPatch struct {
	Role                *string          `json:"role,omitempty"`
	MemberName          *string          `json:"member_name,omitempty"`
	CostRatePerDay      *decimal.Decimal `json:"cost_rate_per_day,omitempty"`
	BillingRatePerDay   *decimal.Decimal `json:"billing_rate_per_day,omitempty"`
	MonthlyCostRate     *decimal.Decimal `json:"monthly_cost_rate,omitempty"`
	HourlyBillingRate   *decimal.Decimal `json:"hourly_billing_rate,omitempty"`
	UtilizationPct      *decimal.Decimal `json:"utilization_pct,omitempty"`
	WorkingDaysPerMonth *int             `json:"working_days_per_month,omitempty"`
	HoursPerDay         *int             `json:"hours_per_day,omitempty"`
}
