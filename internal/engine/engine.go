// Package engine is the deterministic financial calculation core. Every
// function is pure: identical input yields bit-identical decimal output.
// All arithmetic stays in exact decimals; rounding to two places (half up)
// happens only at each function's declared output boundary.
package engine

import (
	"strings"

	"github.com/pricecast/backend/internal/config"
	"github.com/pricecast/backend/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round is the single output-boundary rounding point: two decimal places,
// half up. Internal running sums are never rounded.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Engine computes cost, revenue, margin, capacity and reverse-margin
// figures from team/feature/rate snapshots. It holds only configuration
// and no mutable state, so one instance is safe for concurrent use.
type Engine struct {
	cfg config.Calculation
}

func New(cfg config.Calculation) *Engine {
	return &Engine{cfg: cfg}
}

// contingencyMultiplier returns the seniority contingency for a role,
// matched by case-insensitive substring.
func (e *Engine) contingencyMultiplier(role string) decimal.Decimal {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return e.cfg.ContingencyDefault
	}
	if strings.Contains(r, "junior") || strings.Contains(r, "jr ") {
		return e.cfg.ContingencyJunior
	}
	if strings.Contains(r, "senior") || strings.Contains(r, "sr ") || strings.Contains(r, "lead") {
		return e.cfg.ContingencySenior
	}
	return e.cfg.ContingencyDefault
}

// fallbackMember picks the member whose role, rate, hours and utilization
// price a feature that has no explicit allocations: the first member in
// roster order. A deliberate simplification, isolated here so the policy
// can change without touching the summation logic.
func fallbackMember(team []*model.TeamMember) *model.TeamMember {
	if len(team) == 0 {
		return nil
	}
	return team[0]
}

// memberByRole finds the team member whose role exactly equals the
// allocation's role string. Allocation-to-member matching is exact;
// only the org rate table matches case-insensitively.
func memberByRole(team []*model.TeamMember, role string) *model.TeamMember {
	for _, m := range team {
		if m.Role == role {
			return m
		}
	}
	return nil
}

// CostPerDay is the effective cost of a member per day at their
// utilization: resolved rate divided by the utilization fraction. A fully
// idle member (utilization 0) costs nothing chargeable by this metric.
func (e *Engine) CostPerDay(m *model.TeamMember, rates RateTable) decimal.Decimal {
	rate := ResolveCostRatePerDay(m, rates)
	util := m.UtilizationPct.Div(hundred)
	if util.IsZero() {
		return decimal.Zero
	}
	return Round(rate.Div(util))
}

// TotalEffortHours sums base effort hours across features, no contingency.
func (e *Engine) TotalEffortHours(features []*model.Feature) decimal.Decimal {
	total := decimal.Zero
	for _, f := range features {
		total = total.Add(f.EffortHours)
	}
	return total
}

// TotalEffortHoursWithTaskContingency sums effort hours with the seniority
// contingency applied per allocation role. Features without allocations get
// the default multiplier on their base hours.
func (e *Engine) TotalEffortHoursWithTaskContingency(
	features []*model.Feature,
	allocations map[int64][]model.EffortAllocation,
) decimal.Decimal {
	total := decimal.Zero
	for _, f := range features {
		allocs := allocations[f.ID]
		if len(allocs) > 0 {
			for _, a := range allocs {
				total = total.Add(a.EffortHours.Mul(e.contingencyMultiplier(a.Role)))
			}
		} else {
			total = total.Add(f.EffortHours.Mul(e.cfg.ContingencyDefault))
		}
	}
	return Round(total)
}

// BaseCost is the sum over features of effort hours * contingency * cost per
// hour. Cost per hour for a role comes from the exactly-matching team
// member, or the org default rate with configured default hours and
// utilization when no member carries that role. Features without
// allocations are priced through the fallback member policy.
func (e *Engine) BaseCost(
	team []*model.TeamMember,
	features []*model.Feature,
	allocations map[int64][]model.EffortAllocation,
	rates RateTable,
) decimal.Decimal {
	total := decimal.Zero
	for _, f := range features {
		allocs := allocations[f.ID]
		if len(allocs) > 0 {
			for _, a := range allocs {
				roleHours := a.EffortHours.Mul(e.contingencyMultiplier(a.Role))
				if m := memberByRole(team, a.Role); m != nil {
					costRate := ResolveCostRatePerDay(m, rates)
					hoursPerDay := e.memberHoursPerDay(m)
					util := m.UtilizationPct.Div(hundred)
					if hoursPerDay.IsPositive() && util.IsPositive() {
						costPerHour := costRate.Div(hoursPerDay.Mul(util))
						total = total.Add(roleHours.Mul(costPerHour))
					}
				} else {
					costRate := rates.ForRole(a.Role).Cost
					hoursPerDay := decimal.NewFromInt(int64(e.cfg.DefaultHoursPerDay))
					util := e.cfg.DefaultUtilizationPct.Div(hundred)
					if costRate.IsPositive() && hoursPerDay.IsPositive() && util.IsPositive() {
						costPerHour := costRate.Div(hoursPerDay.Mul(util))
						total = total.Add(roleHours.Mul(costPerHour))
					}
				}
			}
			continue
		}

		mult := e.cfg.ContingencyDefault
		if m := fallbackMember(team); m != nil {
			mult = e.contingencyMultiplier(m.Role)
		}
		roleHours := f.EffortHours.Mul(mult)
		if m := fallbackMember(team); m != nil {
			costRate := ResolveCostRatePerDay(m, rates)
			hoursPerDay := e.memberHoursPerDay(m)
			util := m.UtilizationPct.Div(hundred)
			if hoursPerDay.IsPositive() && util.IsPositive() {
				costPerHour := costRate.Div(hoursPerDay.Mul(util))
				total = total.Add(roleHours.Mul(costPerHour))
			}
		}
	}
	return Round(total)
}

// memberHoursPerDay is the member's hours per day, or the configured
// default when the member carries zero.
func (e *Engine) memberHoursPerDay(m *model.TeamMember) decimal.Decimal {
	if m.HoursPerDay > 0 {
		return decimal.NewFromInt(int64(m.HoursPerDay))
	}
	return decimal.NewFromInt(int64(e.cfg.DefaultHoursPerDay))
}

// CostWithBuffers applies the contingency and management-reserve
// percentages to a base cost. Returns (base, risk buffer, total).
func (e *Engine) CostWithBuffers(
	baseCost, contingencyPct, managementReservePct decimal.Decimal,
) (base, riskBuffer, total decimal.Decimal) {
	contingency := baseCost.Mul(contingencyPct.Div(hundred))
	reserve := baseCost.Mul(managementReservePct.Div(hundred))
	riskBuffer = Round(contingency.Add(reserve))
	total = Round(baseCost.Add(riskBuffer))
	return baseCost, riskBuffer, total
}

// Revenue branches on the project's revenue model. Fixed returns the fixed
// figure verbatim; milestone sums the supplied amounts; time & materials
// prices effort days at the resolved billing rate. The T&M fallback uses an
// 8-hour day when no team member matches a role, asymmetric with the cost
// path's configured default, preserved deliberately.
func (e *Engine) Revenue(
	project *model.Project,
	team []*model.TeamMember,
	features []*model.Feature,
	allocations map[int64][]model.EffortAllocation,
	rates RateTable,
	milestoneAmounts []decimal.Decimal,
) decimal.Decimal {
	if project.RevenueModel == model.RevenueFixed && project.FixedRevenue != nil && !project.FixedRevenue.IsZero() {
		return *project.FixedRevenue
	}

	if project.RevenueModel == model.RevenueMilestone && len(milestoneAmounts) > 0 {
		total := decimal.Zero
		for _, amount := range milestoneAmounts {
			total = total.Add(amount)
		}
		return total
	}

	if project.RevenueModel == model.RevenueTM {
		eight := decimal.NewFromInt(8)
		total := decimal.Zero
		for _, f := range features {
			allocs := allocations[f.ID]
			if len(allocs) > 0 {
				for _, a := range allocs {
					if m := memberByRole(team, a.Role); m != nil {
						billing := ResolveBillingRatePerDay(m, rates)
						hoursPerDay := eight
						if m.HoursPerDay > 0 {
							hoursPerDay = decimal.NewFromInt(int64(m.HoursPerDay))
						}
						if hoursPerDay.IsPositive() {
							total = total.Add(a.EffortHours.Div(hoursPerDay).Mul(billing))
						}
					} else {
						billing := rates.ForRole(a.Role).Billing
						if billing.IsPositive() {
							total = total.Add(a.EffortHours.Div(eight).Mul(billing))
						}
					}
				}
				continue
			}
			if m := fallbackMember(team); m != nil {
				billing := ResolveBillingRatePerDay(m, rates)
				hoursPerDay := eight
				if m.HoursPerDay > 0 {
					hoursPerDay = decimal.NewFromInt(int64(m.HoursPerDay))
				}
				if hoursPerDay.IsPositive() {
					total = total.Add(f.EffortHours.Div(hoursPerDay).Mul(billing))
				}
			}
		}
		return Round(total)
	}

	return decimal.Zero
}

// GrossMargin is (revenue - cost) / revenue * 100, or nil when revenue is
// zero: the ratio is undefined, not an error.
func (e *Engine) GrossMargin(revenue, cost decimal.Decimal) *decimal.Decimal {
	if revenue.IsZero() {
		return nil
	}
	m := Round(revenue.Sub(cost).Div(revenue).Mul(hundred))
	return &m
}

// NetMargin is gross margin applied to the buffered total cost.
func (e *Engine) NetMargin(revenue, totalCost decimal.Decimal) *decimal.Decimal {
	return e.GrossMargin(revenue, totalCost)
}

// ReverseMarginRevenue solves cost / (1 - target/100) for the revenue that
// achieves the target margin. Zero when the target is unattainable.
func (e *Engine) ReverseMarginRevenue(cost, targetMarginPct decimal.Decimal) decimal.Decimal {
	if targetMarginPct.GreaterThanOrEqual(hundred) {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Sub(targetMarginPct.Div(hundred))
	if !factor.IsPositive() {
		return decimal.Zero
	}
	return Round(cost.Div(factor))
}

// ReverseMarginBillingRate is the per-day billing rate that achieves the
// target margin: required revenue over total effort days (8-hour days).
func (e *Engine) ReverseMarginBillingRate(
	totalCost, totalEffortHours, targetMarginPct decimal.Decimal,
) decimal.Decimal {
	if !totalEffortHours.IsPositive() {
		return decimal.Zero
	}
	required := e.ReverseMarginRevenue(totalCost, targetMarginPct)
	effortDays := totalEffortHours.Div(decimal.NewFromInt(8))
	if !effortDays.IsPositive() {
		return decimal.Zero
	}
	return Round(required.Div(effortDays))
}

// daysInSprint is floor(working days per month * duration weeks / 2), the
// halving convention treats a sprint as two working weeks of the month.
func (e *Engine) daysInSprint(workingDaysPerMonth, durationWeeks int) int {
	return workingDaysPerMonth * durationWeeks / 2
}

// SprintCapacity is the sum over members of sprint days * hours per day *
// utilization. A nil sprint config falls back to configured defaults.
func (e *Engine) SprintCapacity(team []*model.TeamMember, sc *model.SprintConfig) decimal.Decimal {
	workingDays := e.cfg.DefaultWorkingDaysPerMonth
	weeks := e.cfg.DefaultSprintDurationWeeks
	if sc != nil {
		workingDays = sc.WorkingDaysPerMonth
		weeks = sc.DurationWeeks
	}
	days := e.daysInSprint(workingDays, weeks)
	if days <= 0 {
		days = e.daysInSprint(e.cfg.DefaultWorkingDaysPerMonth, e.cfg.DefaultSprintDurationWeeks)
	}
	sprintDays := decimal.NewFromInt(int64(days))

	total := decimal.Zero
	for _, m := range team {
		capacity := sprintDays.
			Mul(decimal.NewFromInt(int64(m.HoursPerDay))).
			Mul(m.UtilizationPct.Div(hundred))
		total = total.Add(capacity)
	}
	return Round(total)
}

// ContingencyAdjustedEffort inflates the task-contingency effort total by
// the version-level contingency percentage. This is the effort figure
// sprint planning and reverse-margin rates spread over capacity.
func (e *Engine) ContingencyAdjustedEffort(
	features []*model.Feature,
	allocations map[int64][]model.EffortAllocation,
	contingencyPct decimal.Decimal,
) decimal.Decimal {
	effort := e.TotalEffortHoursWithTaskContingency(features, allocations)
	factor := decimal.NewFromInt(1).Add(contingencyPct.Div(hundred))
	return Round(effort.Mul(factor))
}

// SprintsRequired is ceil(effort / capacity); zero when capacity is not
// positive, never a division by zero.
func (e *Engine) SprintsRequired(totalEffortHours, sprintCapacity decimal.Decimal) int {
	if !sprintCapacity.IsPositive() {
		return 0
	}
	return int(totalEffortHours.Div(sprintCapacity).Ceil().IntPart())
}

// EffortOverrideExceedsThreshold reports whether an effort change is large
// enough to demand senior approval and a justification. Any change away
// from a zero previous estimate exceeds.
func (e *Engine) EffortOverrideExceedsThreshold(previous, proposed decimal.Decimal) bool {
	if previous.IsZero() {
		return !proposed.IsZero()
	}
	pctChange := proposed.Sub(previous).Div(previous).Mul(hundred).Abs()
	return pctChange.GreaterThan(e.cfg.EffortOverrideThreshold)
}

// MarginBelowThreshold reports whether a margin sits under the warning
// threshold. An undefined (nil) margin never warns.
func (e *Engine) MarginBelowThreshold(marginPct *decimal.Decimal) bool {
	if marginPct == nil {
		return false
	}
	return marginPct.LessThan(e.cfg.MarginWarningThreshold)
}

// SprintPlanCost prices the manually edited sprint plan: per row, per role,
// FTE * resolved cost rate per day * days per sprint, then buffers applied.
// Returns (base, risk buffer, total).
func (e *Engine) SprintPlanCost(
	rows []*model.SprintPlanRow,
	team []*model.TeamMember,
	rates RateTable,
	sc *model.SprintConfig,
	contingencyPct, managementReservePct decimal.Decimal,
) (base, riskBuffer, total decimal.Decimal) {
	workingDays := e.cfg.DefaultWorkingDaysPerMonth
	weeks := e.cfg.DefaultSprintDurationWeeks
	if sc != nil {
		workingDays = sc.WorkingDaysPerMonth
		weeks = sc.DurationWeeks
	}
	days := e.daysInSprint(workingDays, weeks)
	if days <= 0 {
		days = 10
	}
	daysPerSprint := decimal.NewFromInt(int64(days))

	// Day rates by role: roster order wins, org defaults fill the roles
	// that appear only in the plan.
	roleToRate := make(map[string]decimal.Decimal)
	for _, m := range team {
		r := strings.TrimSpace(m.Role)
		if r == "" {
			continue
		}
		if _, ok := roleToRate[r]; !ok {
			roleToRate[r] = ResolveCostRatePerDay(m, rates)
		}
	}
	for _, row := range rows {
		for role := range row.Allocations {
			r := strings.TrimSpace(role)
			if r == "" {
				continue
			}
			if _, ok := roleToRate[r]; !ok {
				roleToRate[r] = rates.ForRole(r).Cost
			}
		}
	}

	sum := decimal.Zero
	for _, row := range rows {
		for role, fte := range row.Allocations {
			rate := roleToRate[strings.TrimSpace(role)]
			sum = sum.Add(fte.Mul(rate).Mul(daysPerSprint))
		}
	}
	return e.CostWithBuffers(Round(sum), contingencyPct, managementReservePct)
}
