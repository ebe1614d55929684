package model

import "github.com/shopspring/decimal"

// RoleRate is the organization-wide default cost and billing rate for a
// role. Rates are per day. Role names match case-insensitively at lookup.
type RoleRate struct {
	ID                int64           `json:"id"`
	Role              string          `json:"role"`
	CostRatePerDay    decimal.Decimal `json:"cost_rate_per_day"`
	BillingRatePerDay decimal.Decimal `json:"billing_rate_per_day"`
}
