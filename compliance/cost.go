/*
cost.go - Labor cost calculation with statutory overtime premium

PURPOSE:
  Converts shifts into regular/overtime hours and cost. Hours beyond the
  daily cap are overtime and carry the statutory premium multiplier
  (minimum 1.4).

PRECISION:
  All arithmetic is decimal.Decimal; float64 never touches money until
  the API edge. Rounding discipline: aggregate first, round last. Per-
  shift results are rounded at output; CalculateTotalCost sums the
  UNROUNDED per-shift values and rounds the totals once. Round is
  half-up (decimal's half-away-from-zero; all inputs are non-negative).

SEE ALSO:
  - hours.go: The same daily-cap split drives the overtime ceilings
  - report/generator.go: Uses these figures for per-employee rows
*/
package compliance

import "github.com/shopspring/decimal"

// LaborCost is the derived cost breakdown for a shift or shift set.
// Invariants: TotalHours = RegularHours + OvertimeHours and
// TotalCost = RegularCost + OvertimeCost, to 2-decimal rounding.
type LaborCost struct {
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	RegularHours       decimal.Decimal `json:"regular_hours"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	RegularCost        decimal.Decimal `json:"regular_cost"`
	OvertimeCost       decimal.Decimal `json:"overtime_cost"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
}

// CostVariance compares actual spend against budget.
type CostVariance struct {
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`
	IsOverBudget       bool            `json:"is_over_budget"`
}

// LaborCostCalculator computes cost breakdowns. Stateless apart from
// the config; safe for concurrent use.
type LaborCostCalculator struct {
	config ComplianceConfig
}

func NewLaborCostCalculator(config ComplianceConfig) *LaborCostCalculator {
	return &LaborCostCalculator{config: config}
}

// CalculateShiftCost returns the rounded cost breakdown for one shift.
func (c *LaborCostCalculator) CalculateShiftCost(shift ShiftData) LaborCost {
	return c.rawShiftCost(shift).rounded()
}

// CalculateTotalCost sums the per-shift breakdowns element-wise,
// aggregating unrounded values and rounding once at the end. The rate
// field reports the first non-zero rate seen (informational only when
// shifts carry mixed rates).
func (c *LaborCostCalculator) CalculateTotalCost(shifts []ShiftData) LaborCost {
	total := LaborCost{
		HourlyRate:         decimal.Zero,
		TotalHours:         decimal.Zero,
		RegularHours:       decimal.Zero,
		OvertimeHours:      decimal.Zero,
		RegularCost:        decimal.Zero,
		OvertimeCost:       decimal.Zero,
		TotalCost:          decimal.Zero,
		OvertimeMultiplier: c.config.Multiplier(),
	}
	for _, shift := range shifts {
		cost := c.rawShiftCost(shift)
		total.TotalHours = total.TotalHours.Add(cost.TotalHours)
		total.RegularHours = total.RegularHours.Add(cost.RegularHours)
		total.OvertimeHours = total.OvertimeHours.Add(cost.OvertimeHours)
		total.RegularCost = total.RegularCost.Add(cost.RegularCost)
		total.OvertimeCost = total.OvertimeCost.Add(cost.OvertimeCost)
		total.TotalCost = total.TotalCost.Add(cost.TotalCost)
		if total.HourlyRate.IsZero() && !shift.HourlyRate.IsZero() {
			total.HourlyRate = shift.HourlyRate
		}
	}
	return total.rounded()
}

// EstimateWeeklyCost is CalculateTotalCost over a planned week of shifts.
// Kept as a named operation because scheduling callers budget per week.
func (c *LaborCostCalculator) EstimateWeeklyCost(shifts []ShiftData) LaborCost {
	return c.CalculateTotalCost(shifts)
}

// CalculateVariance compares actual against budgeted spend.
// A zero budget guards the percentage division: percentage is 0.
func (c *LaborCostCalculator) CalculateVariance(budgeted, actual decimal.Decimal) CostVariance {
	variance := actual.Sub(budgeted)
	percentage := decimal.Zero
	if budgeted.IsPositive() {
		percentage = variance.Div(budgeted).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return CostVariance{
		Variance:           variance.Round(2),
		VariancePercentage: percentage,
		IsOverBudget:       variance.IsPositive(),
	}
}

// rawShiftCost computes the unrounded breakdown for one shift.
func (c *LaborCostCalculator) rawShiftCost(shift ShiftData) LaborCost {
	totalHours := decimalFromFloat(shift.WorkedHours())
	maxDaily := decimalFromFloat(c.config.MaxDailyHours)
	multiplier := c.config.Multiplier()

	regularHours := decimal.Min(totalHours, maxDaily)
	overtimeHours := decimal.Max(totalHours.Sub(maxDaily), decimal.Zero)

	regularCost := regularHours.Mul(shift.HourlyRate)
	overtimeCost := overtimeHours.Mul(shift.HourlyRate).Mul(multiplier)

	return LaborCost{
		HourlyRate:         shift.HourlyRate,
		TotalHours:         totalHours,
		RegularHours:       regularHours,
		OvertimeHours:      overtimeHours,
		RegularCost:        regularCost,
		OvertimeCost:       overtimeCost,
		TotalCost:          regularCost.Add(overtimeCost),
		OvertimeMultiplier: multiplier,
	}
}

// rounded rounds every hour and money field to 2 decimals at output.
func (lc LaborCost) rounded() LaborCost {
	return LaborCost{
		HourlyRate:         lc.HourlyRate.Round(2),
		TotalHours:         lc.TotalHours.Round(2),
		RegularHours:       lc.RegularHours.Round(2),
		OvertimeHours:      lc.OvertimeHours.Round(2),
		RegularCost:        lc.RegularCost.Round(2),
		OvertimeCost:       lc.OvertimeCost.Round(2),
		TotalCost:          lc.TotalCost.Round(2),
		OvertimeMultiplier: lc.OvertimeMultiplier,
	}
}

func decimalFromFloat(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }
