/*
Package factory provides JSON to Go compliance-config conversion and
jurisdiction presets.

PURPOSE:
  Converts JSON config definitions into compliance.ComplianceConfig
  values and ships ready-to-use statutory presets keyed on a
  jurisdiction enum. Config selection without code changes: an ops
  person picks a jurisdiction, or a customer on a custom agreement
  supplies overrides in JSON.

JSON SCHEMA:
  {
    "jurisdiction": "norway",
    "max_daily_hours": 9,
    "max_weekly_hours": 40,
    "min_daily_rest": 11,
    "min_weekly_rest": 35,
    "publish_deadline_days": 14,
    "max_overtime_per_week": 10,
    "max_overtime_per_4_weeks": 25,
    "max_overtime_per_year": 200,
    "overtime_multiplier": 1.4
  }

  Fields left at zero inherit the jurisdiction preset, so a custom
  config only states its deviations.

USAGE:
  cfg, err := factory.ForJurisdiction(factory.JurisdictionNorway)
  cfg, err := factory.ParseConfig(jsonStr)

SEE ALSO:
  - compliance/types.go: ComplianceConfig definition and defaults
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// JURISDICTIONS
// =============================================================================

// Jurisdiction selects a statutory preset.
type Jurisdiction string

const (
	// JurisdictionNorway is the Arbeidsmiljøloven default set.
	JurisdictionNorway Jurisdiction = "norway"

	// JurisdictionEU is the Working Time Directive (2003/88/EC) floor:
	// looser caps than the Norwegian set, no 4-week overtime horizon.
	JurisdictionEU Jurisdiction = "eu_directive"

	// JurisdictionCustom marks a config assembled from JSON overrides.
	JurisdictionCustom Jurisdiction = "custom"
)

// ForJurisdiction returns the preset for a jurisdiction key.
func ForJurisdiction(j Jurisdiction) (compliance.ComplianceConfig, error) {
	switch j {
	case JurisdictionNorway:
		return compliance.NorwayConfig(), nil
	case JurisdictionEU:
		return compliance.ComplianceConfig{
			MaxDailyHours:        13, // 24h minus the 11h daily rest
			MaxWeeklyHours:       48,
			MinDailyRest:         11,
			MinWeeklyRest:        35, // 24h weekly + 11h daily, contiguous
			PublishDeadlineDays:  0,  // directive sets no publish deadline
			MaxOvertimePerWeek:   48,
			MaxOvertimePer4Weeks: 192,
			MaxOvertimePerYear:   416,
			OvertimeMultiplier:   1.4,
		}, nil
	case JurisdictionCustom:
		// Custom has no preset of its own; parse it from JSON.
		return compliance.ComplianceConfig{}, fmt.Errorf("%w: custom requires a JSON definition", compliance.ErrUnknownJurisdiction)
	default:
		return compliance.ComplianceConfig{}, fmt.Errorf("%w: %q", compliance.ErrUnknownJurisdiction, j)
	}
}

// Jurisdictions lists the selectable presets.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{JurisdictionNorway, JurisdictionEU}
}

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of a compliance config.
// Zero-valued fields inherit from the jurisdiction preset.
type ConfigJSON struct {
	Jurisdiction         Jurisdiction `json:"jurisdiction,omitempty"`
	MaxDailyHours        float64      `json:"max_daily_hours,omitempty"`
	MaxWeeklyHours       float64      `json:"max_weekly_hours,omitempty"`
	MinDailyRest         float64      `json:"min_daily_rest,omitempty"`
	MinWeeklyRest        float64      `json:"min_weekly_rest,omitempty"`
	PublishDeadlineDays  int          `json:"publish_deadline_days,omitempty"`
	MaxOvertimePerWeek   float64      `json:"max_overtime_per_week,omitempty"`
	MaxOvertimePer4Weeks float64      `json:"max_overtime_per_4_weeks,omitempty"`
	MaxOvertimePerYear   float64      `json:"max_overtime_per_year,omitempty"`
	OvertimeMultiplier   float64      `json:"overtime_multiplier,omitempty"`
}

// ParseConfig parses a JSON string into a ComplianceConfig, layering
// overrides on top of the jurisdiction preset (Norway when omitted).
func ParseConfig(jsonStr string) (compliance.ComplianceConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return compliance.ComplianceConfig{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return FromJSON(cj)
}

// FromJSON converts the JSON shape into a ComplianceConfig.
func FromJSON(cj ConfigJSON) (compliance.ComplianceConfig, error) {
	base := compliance.NorwayConfig()
	switch cj.Jurisdiction {
	case "", JurisdictionNorway, JurisdictionCustom:
		// Norway defaults
	default:
		preset, err := ForJurisdiction(cj.Jurisdiction)
		if err != nil {
			return compliance.ComplianceConfig{}, err
		}
		base = preset
	}

	if cj.MaxDailyHours > 0 {
		base.MaxDailyHours = cj.MaxDailyHours
	}
	if cj.MaxWeeklyHours > 0 {
		base.MaxWeeklyHours = cj.MaxWeeklyHours
	}
	if cj.MinDailyRest > 0 {
		base.MinDailyRest = cj.MinDailyRest
	}
	if cj.MinWeeklyRest > 0 {
		base.MinWeeklyRest = cj.MinWeeklyRest
	}
	if cj.PublishDeadlineDays > 0 {
		base.PublishDeadlineDays = cj.PublishDeadlineDays
	}
	if cj.MaxOvertimePerWeek > 0 {
		base.MaxOvertimePerWeek = cj.MaxOvertimePerWeek
	}
	if cj.MaxOvertimePer4Weeks > 0 {
		base.MaxOvertimePer4Weeks = cj.MaxOvertimePer4Weeks
	}
	if cj.MaxOvertimePerYear > 0 {
		base.MaxOvertimePerYear = cj.MaxOvertimePerYear
	}
	if cj.OvertimeMultiplier > 0 {
		base.OvertimeMultiplier = cj.OvertimeMultiplier
	}
	return base, nil
}

// ToJSON converts a config back to its JSON shape (admin UI round-trip).
func ToJSON(j Jurisdiction, cfg compliance.ComplianceConfig) ConfigJSON {
	return ConfigJSON{
		Jurisdiction:         j,
		MaxDailyHours:        cfg.MaxDailyHours,
		MaxWeeklyHours:       cfg.MaxWeeklyHours,
		MinDailyRest:         cfg.MinDailyRest,
		MinWeeklyRest:        cfg.MinWeeklyRest,
		PublishDeadlineDays:  cfg.PublishDeadlineDays,
		MaxOvertimePerWeek:   cfg.MaxOvertimePerWeek,
		MaxOvertimePer4Weeks: cfg.MaxOvertimePer4Weeks,
		MaxOvertimePerYear:   cfg.MaxOvertimePerYear,
		OvertimeMultiplier:   cfg.OvertimeMultiplier,
	}
}
