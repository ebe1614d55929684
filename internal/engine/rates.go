package engine

import (
	"strings"

	"github.com/pricecast/backend/internal/model"
	"github.com/shopspring/decimal"
)

// RatePair is the organization default (cost, billing) per-day rate for a
// role.
type RatePair struct {
	Cost    decimal.Decimal
	Billing decimal.Decimal
}

// RateTable maps role names to organization default rates. Lookup is exact
// first, then case-insensitive after trimming whitespace.
type RateTable map[string]RatePair

// ForRole returns the default rates for a role, or a zero pair when the
// role is blank or unknown.
func (t RateTable) ForRole(role string) RatePair {
	r := strings.TrimSpace(role)
	if r == "" {
		return RatePair{}
	}
	if pair, ok := t[r]; ok {
		return pair
	}
	lower := strings.ToLower(r)
	for k, pair := range t {
		if strings.ToLower(k) == lower {
			return pair
		}
	}
	return RatePair{}
}

// ResolveCostRatePerDay resolves a member's effective cost per day.
// Precedence: explicit per-day override, monthly rate divided by working
// days, organization default for the role. Zero divisors resolve to zero,
// never an error: a missing rate is financially meaningful as zero.
func ResolveCostRatePerDay(m *model.TeamMember, rates RateTable) decimal.Decimal {
	if m.CostRatePerDay != nil && m.CostRatePerDay.IsPositive() {
		return *m.CostRatePerDay
	}
	if m.MonthlyCostRate != nil && m.MonthlyCostRate.IsPositive() && m.WorkingDaysPerMonth > 0 {
		return m.MonthlyCostRate.Div(decimal.NewFromInt(int64(m.WorkingDaysPerMonth)))
	}
	return rates.ForRole(m.Role).Cost
}

// ResolveBillingRatePerDay resolves a member's effective billing per day.
// Precedence: explicit per-day override, hourly rate times hours per day,
// organization default for the role.
func ResolveBillingRatePerDay(m *model.TeamMember, rates RateTable) decimal.Decimal {
	if m.BillingRatePerDay != nil && m.BillingRatePerDay.IsPositive() {
		return *m.BillingRatePerDay
	}
	if m.HourlyBillingRate != nil && m.HourlyBillingRate.IsPositive() && m.HoursPerDay > 0 {
		return m.HourlyBillingRate.Mul(decimal.NewFromInt(int64(m.HoursPerDay)))
	}
	return rates.ForRole(m.Role).Billing
}
