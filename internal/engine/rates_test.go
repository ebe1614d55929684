package engine

import (
	"testing"

	"github.com/pricecast/backend/internal/model"
)

func TestRateTable_ForRole(t *testing.T) {
	table := RateTable{"QA": {Cost: dec("400"), Billing: dec("600")}}

	if got := table.ForRole("QA").Cost; !got.Equal(dec("400")) {
		t.Errorf("exact match cost = %s, want 400", got)
	}
	if got := table.ForRole("  qa ").Billing; !got.Equal(dec("600")) {
		t.Errorf("case-insensitive match billing = %s, want 600", got)
	}
	if got := table.ForRole("Designer"); !got.Cost.IsZero() || !got.Billing.IsZero() {
		t.Errorf("unknown role = %+v, want zero pair", got)
	}
	if got := table.ForRole(""); !got.Cost.IsZero() {
		t.Errorf("blank role = %+v, want zero pair", got)
	}
}

func TestResolveCostRatePerDay_Precedence(t *testing.T) {
	rates := RateTable{"Developer": {Cost: dec("450")}}

	m := &model.TeamMember{Role: "Developer", CostRatePerDay: decPtr("600")}
	if got := ResolveCostRatePerDay(m, rates); !got.Equal(dec("600")) {
		t.Errorf("per-day override: got %s, want 600", got)
	}

	m = &model.TeamMember{Role: "Developer", MonthlyCostRate: decPtr("10000"), WorkingDaysPerMonth: 20}
	if got := ResolveCostRatePerDay(m, rates); !got.Equal(dec("500")) {
		t.Errorf("monthly conversion: got %s, want 500", got)
	}

	m = &model.TeamMember{Role: "Developer"}
	if got := ResolveCostRatePerDay(m, rates); !got.Equal(dec("450")) {
		t.Errorf("org default: got %s, want 450", got)
	}
}

func TestResolveCostRatePerDay_ZeroWorkingDays_SkipsMonthly(t *testing.T) {
	m := &model.TeamMember{Role: "Developer", MonthlyCostRate: decPtr("10000"), WorkingDaysPerMonth: 0}
	if got := ResolveCostRatePerDay(m, nil); !got.IsZero() {
		t.Errorf("got %s, want 0", got)
	}
}

func TestResolveBillingRatePerDay_Precedence(t *testing.T) {
	rates := RateTable{"Developer": {Billing: dec("700")}}

	m := &model.TeamMember{Role: "Developer", BillingRatePerDay: decPtr("900")}
	if got := ResolveBillingRatePerDay(m, rates); !got.Equal(dec("900")) {
		t.Errorf("per-day override: got %s, want 900", got)
	}

	m = &model.TeamMember{Role: "Developer", HourlyBillingRate: decPtr("100"), HoursPerDay: 8}
	if got := ResolveBillingRatePerDay(m, rates); !got.Equal(dec("800")) {
		t.Errorf("hourly conversion: got %s, want 800", got)
	}

	m = &model.TeamMember{Role: "Developer"}
	if got := ResolveBillingRatePerDay(m, rates); !got.Equal(dec("700")) {
		t.Errorf("org default: got %s, want 700", got)
	}
}
