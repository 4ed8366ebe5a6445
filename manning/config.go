package manning

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/manning-engine/generic"
)

// =============================================================================
// CONFIG - Immutable engine configuration
// =============================================================================

// Aggregation selects how several per-resource values collapse to one
// group-level value (standard shifts, quadrature).
type Aggregation string

const (
	// AggregateFirst takes the first defined value, resources ordered by name.
	AggregateFirst Aggregation = "first"
	// AggregateMean averages the defined values.
	AggregateMean Aggregation = "mean"
)

// Columns names the identifier and attribute columns of the input tables.
type Columns struct {
	Group            string `json:"group"`
	Resource         string `json:"resource"`
	Rate             string `json:"rate"`
	Quadrature       string `json:"quadrature"`
	Absenteeism      string `json:"absenteeism"`
	VacationCoverage string `json:"vacation_coverage"`
}

// CrewDivisor divides the crew size of resources whose name contains Match
// (case-insensitive). Used for machines that are crewed as a multi-unit cell.
type CrewDivisor struct {
	Match   string          `json:"match"`
	Divisor decimal.Decimal `json:"divisor"`
}

// Config is passed by value into every stage. Stages never modify it.
type Config struct {
	StandardShiftHours       decimal.Decimal `json:"standard_shift_hours"`
	Groups                   []string        `json:"groups"`
	ShiftKeywordExclusions   []string        `json:"shift_keyword_exclusions"`
	YearTokens               []string        `json:"year_tokens"`
	SampleSize               int             `json:"sample_size"`
	CrewDivisors             []CrewDivisor   `json:"crew_divisors"`
	IndirectRoles            []string        `json:"indirect_roles"`
	Columns                  Columns         `json:"columns"`
	StandardShiftAggregation Aggregation     `json:"standard_shift_aggregation"`
	QuadratureAggregation    Aggregation     `json:"quadrature_aggregation"`
	Workers                  int             `json:"workers"`
}

// DefaultConfig returns the plant's standard configuration.
func DefaultConfig() Config {
	return Config{
		StandardShiftHours:     decimal.NewFromInt(8),
		Groups:                 []string{"Stampa", "Fustellatura", "Piega_incolla", "Villavara"},
		ShiftKeywordExclusions: []string{"turni", "giorno", "ore", "standard", "medio"},
		YearTokens:             []string{"2025", "2026"},
		SampleSize:             5,
		CrewDivisors: []CrewDivisor{
			{Match: "Mastercut", Divisor: decimal.NewFromInt(5)},
		},
		IndirectRoles: []string{"Indiretti", "Attrezzisti", "Voltapile"},
		Columns: Columns{
			Group:            "Gruppo_risorse",
			Resource:         "Risorsa",
			Rate:             "Velocità_LL",
			Quadrature:       "Quadratura",
			Absenteeism:      "Assenteismo",
			VacationCoverage: "Copertura_ferie",
		},
		StandardShiftAggregation: AggregateFirst,
		QuadratureAggregation:    AggregateFirst,
		Workers:                  1,
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if !c.StandardShiftHours.IsPositive() {
		return &generic.ConfigError{Field: "standard_shift_hours", Message: "must be positive"}
	}
	if c.SampleSize < 0 {
		return &generic.ConfigError{Field: "sample_size", Message: "must not be negative"}
	}
	if c.Workers < 1 {
		return &generic.ConfigError{Field: "workers", Message: "must be at least 1"}
	}
	for _, d := range c.CrewDivisors {
		if strings.TrimSpace(d.Match) == "" {
			return &generic.ConfigError{Field: "crew_divisors", Message: "match must not be empty"}
		}
		if !d.Divisor.IsPositive() {
			return &generic.ConfigError{Field: "crew_divisors", Message: "divisor for " + d.Match + " must be positive"}
		}
	}
	cols := map[string]string{
		"columns.group":             c.Columns.Group,
		"columns.resource":          c.Columns.Resource,
		"columns.rate":              c.Columns.Rate,
		"columns.quadrature":        c.Columns.Quadrature,
		"columns.absenteeism":       c.Columns.Absenteeism,
		"columns.vacation_coverage": c.Columns.VacationCoverage,
	}
	for field, v := range cols {
		if strings.TrimSpace(v) == "" {
			return &generic.ConfigError{Field: field, Message: "must not be empty"}
		}
	}
	for field, a := range map[string]Aggregation{
		"standard_shift_aggregation": c.StandardShiftAggregation,
		"quadrature_aggregation":     c.QuadratureAggregation,
	} {
		if a != AggregateFirst && a != AggregateMean {
			return &generic.ConfigError{Field: field, Message: "must be first or mean"}
		}
	}
	return nil
}

func (c Config) shiftHours() generic.Quantity {
	return generic.QDecimal(c.StandardShiftHours)
}

// classifier builds the period-column classifier, optionally with the
// shift-table keyword exclusions.
func (c Config) classifier(withExclusions bool) generic.Classifier {
	var excl []string
	if withExclusions {
		excl = c.ShiftKeywordExclusions
	}
	return generic.NewClassifier(c.YearTokens, c.SampleSize, excl)
}

// AdjustedCrew applies the crew divisor matching resource, if any.
func (c Config) AdjustedCrew(resource string, crew generic.Quantity) generic.Quantity {
	name := strings.ToLower(resource)
	for _, d := range c.CrewDivisors {
		if strings.Contains(name, strings.ToLower(d.Match)) {
			return crew.Div(generic.QDecimal(d.Divisor))
		}
	}
	return crew
}

// IsIndirect reports whether resource is a support role counted at face value.
func (c Config) IsIndirect(resource string) bool {
	for _, r := range c.IndirectRoles {
		if r == resource {
			return true
		}
	}
	return false
}

// orderGroups returns the configured groups followed by any other groups
// found in the data, alphabetically.
func (c Config) orderGroups(found map[string]bool) (ordered []string, unknown []string) {
	known := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		known[g] = true
		ordered = append(ordered, g)
	}
	for g := range found {
		if !known[g] {
			unknown = append(unknown, g)
		}
	}
	sortStrings(unknown)
	return append(ordered, unknown...), unknown
}
