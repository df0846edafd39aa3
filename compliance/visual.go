/*
visual.go - Presentation mapping of violations to indicators

Thin by design: thresholds and copy only, no business logic. Keeps
presentation concerns out of the validators so the UI layer can render
badges straight from validator output.

THRESHOLDS:
  Shortfall/excess  >5h -> critical, >2h -> high, else medium.
  Violation count   >5 -> critical, 3-5 -> high, 1-2 -> medium,
                    zero with warnings -> low.
*/
package compliance

import "fmt"

// IndicatorStatus is the coarse traffic-light state for UI badges.
type IndicatorStatus string

const (
	StatusCompliant IndicatorStatus = "compliant"
	StatusWarning   IndicatorStatus = "warning"
	StatusViolation IndicatorStatus = "violation"
)

// Severity grades how far past a limit a finding is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Indicator is the human-facing rendering of a violation or a summary.
type Indicator struct {
	Status    IndicatorStatus `json:"status"`
	Color     string          `json:"color"`
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
	QuickFixes []string       `json:"quick_fixes,omitempty"`
}

// VisualComplianceGenerator maps violations to indicators.
type VisualComplianceGenerator struct{}

func NewVisualComplianceGenerator() *VisualComplianceGenerator {
	return &VisualComplianceGenerator{}
}

// ForViolation renders a single violation as a severity-tagged indicator.
func (g *VisualComplianceGenerator) ForViolation(v Violation) Indicator {
	gap := v.Actual() - v.Limit()
	if v.ViolationType() == ViolationRestPeriod {
		gap = v.Limit() - v.Actual() // shortfall, not excess
	}

	severity := severityForGap(gap)
	switch v.ViolationType() {
	case ViolationRestPeriod:
		return Indicator{
			Status:   StatusViolation,
			Color:    colorFor(severity),
			Severity: severity,
			Message:  fmt.Sprintf("Rest period too short: %.1fh of required %.1fh (%s)", v.Actual(), v.Limit(), v.ViolationScope()),
			QuickFixes: []string{
				"Move the shift start later",
				"Swap the shift to another employee",
			},
		}
	default:
		return Indicator{
			Status:   StatusViolation,
			Color:    colorFor(severity),
			Severity: severity,
			Message:  fmt.Sprintf("Working hours exceeded: %.1fh over the %.1fh limit (%s)", v.Actual(), v.Limit(), v.ViolationScope()),
			QuickFixes: []string{
				"Shorten the shift",
				"Split the shift across employees",
			},
		}
	}
}

// ForSummary renders a violation/warning count as a single badge.
func (g *VisualComplianceGenerator) ForSummary(violations, warnings int) Indicator {
	switch {
	case violations > 5:
		return summaryIndicator(StatusViolation, SeverityCritical, violations)
	case violations >= 3:
		return summaryIndicator(StatusViolation, SeverityHigh, violations)
	case violations >= 1:
		return summaryIndicator(StatusViolation, SeverityMedium, violations)
	case warnings > 0:
		return Indicator{
			Status:   StatusWarning,
			Color:    colorFor(SeverityLow),
			Severity: SeverityLow,
			Message:  fmt.Sprintf("%d warning(s), no violations", warnings),
		}
	default:
		return Indicator{
			Status:   StatusCompliant,
			Color:    "green",
			Severity: SeverityLow,
			Message:  "Fully compliant",
		}
	}
}

func summaryIndicator(status IndicatorStatus, severity Severity, count int) Indicator {
	return Indicator{
		Status:   status,
		Color:    colorFor(severity),
		Severity: severity,
		Message:  fmt.Sprintf("%d compliance violation(s)", count),
	}
}

func severityForGap(hours float64) Severity {
	switch {
	case hours > 5:
		return SeverityCritical
	case hours > 2:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

func colorFor(s Severity) string {
	switch s {
	case SeverityCritical:
		return "red"
	case SeverityHigh:
		return "orange"
	case SeverityMedium:
		return "yellow"
	default:
		return "blue"
	}
}
