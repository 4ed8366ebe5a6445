/*
Package factory provides JSON to Go engine configuration conversion.

PURPOSE:
  Converts JSON configuration documents into manning.Config and the
  workbook sheet mapping. Every field is optional: a field left out keeps
  the plant default, so a document only states what differs.

JSON SCHEMA:
  {
    "standard_shift_hours": 8,
    "groups": ["Stampa", "Fustellatura", "Piega_incolla", "Villavara"],
    "shift_keyword_exclusions": ["turni", "giorno", "ore", "standard", "medio"],
    "year_tokens": ["2025", "2026"],
    "sample_size": 5,
    "crew_divisors": [{"match": "Mastercut", "divisor": 5}],
    "indirect_roles": ["Indiretti", "Attrezzisti", "Voltapile"],
    "columns": {"group": "Gruppo_risorse", "rate": "Velocità_LL"},
    "aggregation": {"standard_shifts": "first", "quadrature": "first"},
    "workers": 4,
    "sheets": {"volumes": "volumi_bgt", "shifts": "turni"}
  }

USAGE:
  f := factory.NewConfigFactory()
  settings, err := f.ParseConfig(jsonString)
  pipeline, err := manning.NewPipeline(settings.Engine)
  ds, err := workbook.Load(r, settings.Sheets)

SEE ALSO:
  - manning/config.go: Config and DefaultConfig
  - workbook/reader.go: Sheets
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
	"github.com/warp/manning-engine/workbook"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of the engine configuration.
// Nil fields keep their default.
type ConfigJSON struct {
	StandardShiftHours     *float64          `json:"standard_shift_hours,omitempty"`
	Groups                 []string          `json:"groups,omitempty"`
	ShiftKeywordExclusions []string          `json:"shift_keyword_exclusions,omitempty"`
	YearTokens             []string          `json:"year_tokens,omitempty"`
	SampleSize             *int              `json:"sample_size,omitempty"`
	CrewDivisors           []CrewDivisorJSON `json:"crew_divisors,omitempty"`
	IndirectRoles          []string          `json:"indirect_roles,omitempty"`
	Columns                *ColumnsJSON      `json:"columns,omitempty"`
	Aggregation            *AggregationJSON  `json:"aggregation,omitempty"`
	Workers                *int              `json:"workers,omitempty"`
	Sheets                 *SheetsJSON       `json:"sheets,omitempty"`
}

// CrewDivisorJSON divides the crew of resources whose name contains Match.
type CrewDivisorJSON struct {
	Match   string  `json:"match"`
	Divisor float64 `json:"divisor"`
}

// ColumnsJSON overrides individual column names.
type ColumnsJSON struct {
	Group            string `json:"group,omitempty"`
	Resource         string `json:"resource,omitempty"`
	Rate             string `json:"rate,omitempty"`
	Quadrature       string `json:"quadrature,omitempty"`
	Absenteeism      string `json:"absenteeism,omitempty"`
	VacationCoverage string `json:"vacation_coverage,omitempty"`
}

// AggregationJSON selects how per-resource values collapse per group.
type AggregationJSON struct {
	StandardShifts string `json:"standard_shifts,omitempty"` // first, mean
	Quadrature     string `json:"quadrature,omitempty"`      // first, mean
}

// SheetsJSON overrides individual sheet names.
type SheetsJSON struct {
	Volumes     string `json:"volumes,omitempty"`
	Crews       string `json:"crews,omitempty"`
	Calendar    string `json:"calendar,omitempty"`
	Shifts      string `json:"shifts,omitempty"`
	Absenteeism string `json:"absenteeism,omitempty"`
	Efficiency  string `json:"efficiency,omitempty"`
}

// Settings is a parsed configuration document.
type Settings struct {
	Engine manning.Config
	Sheets workbook.Sheets
}

// Defaults returns the plant defaults.
func Defaults() Settings {
	return Settings{Engine: manning.DefaultConfig(), Sheets: workbook.DefaultSheets()}
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON configuration to Go structs.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseConfig parses a JSON document. An empty document yields the defaults.
func (f *ConfigFactory) ParseConfig(jsonStr string) (Settings, error) {
	if jsonStr == "" {
		return Defaults(), nil
	}
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return Settings{}, fmt.Errorf("%w: failed to parse config JSON: %v", generic.ErrInvalidConfig, err)
	}
	return f.FromJSON(cj)
}

// LoadConfigFile reads and parses a configuration file. Files ending in
// .yaml or .yml are YAML with the same keys as the JSON schema.
func (f *ConfigFactory) LoadConfigFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseYAML(data)
	}
	return f.ParseConfig(string(data))
}

// ParseYAML parses a YAML document by re-encoding it as JSON, so both
// formats share one schema and one set of defaults.
func (f *ConfigFactory) ParseYAML(data []byte) (Settings, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("%w: failed to parse config YAML: %v", generic.ErrInvalidConfig, err)
	}
	if doc == nil {
		return Defaults(), nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: config YAML is not a JSON-compatible document: %v", generic.ErrInvalidConfig, err)
	}
	return f.ParseConfig(string(js))
}

// FromJSON overlays cj on the defaults and validates the result.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (Settings, error) {
	s := Defaults()
	cfg := &s.Engine

	if cj.StandardShiftHours != nil {
		cfg.StandardShiftHours = decimal.NewFromFloat(*cj.StandardShiftHours)
	}
	if cj.Groups != nil {
		cfg.Groups = cj.Groups
	}
	if cj.ShiftKeywordExclusions != nil {
		cfg.ShiftKeywordExclusions = cj.ShiftKeywordExclusions
	}
	if cj.YearTokens != nil {
		cfg.YearTokens = cj.YearTokens
	}
	if cj.SampleSize != nil {
		cfg.SampleSize = *cj.SampleSize
	}
	if cj.CrewDivisors != nil {
		cfg.CrewDivisors = make([]manning.CrewDivisor, len(cj.CrewDivisors))
		for i, d := range cj.CrewDivisors {
			cfg.CrewDivisors[i] = manning.CrewDivisor{Match: d.Match, Divisor: decimal.NewFromFloat(d.Divisor)}
		}
	}
	if cj.IndirectRoles != nil {
		cfg.IndirectRoles = cj.IndirectRoles
	}
	if c := cj.Columns; c != nil {
		override(&cfg.Columns.Group, c.Group)
		override(&cfg.Columns.Resource, c.Resource)
		override(&cfg.Columns.Rate, c.Rate)
		override(&cfg.Columns.Quadrature, c.Quadrature)
		override(&cfg.Columns.Absenteeism, c.Absenteeism)
		override(&cfg.Columns.VacationCoverage, c.VacationCoverage)
	}
	if a := cj.Aggregation; a != nil {
		if a.StandardShifts != "" {
			cfg.StandardShiftAggregation = manning.Aggregation(a.StandardShifts)
		}
		if a.Quadrature != "" {
			cfg.QuadratureAggregation = manning.Aggregation(a.Quadrature)
		}
	}
	if cj.Workers != nil {
		cfg.Workers = *cj.Workers
	}
	if sh := cj.Sheets; sh != nil {
		override(&s.Sheets.Volumes, sh.Volumes)
		override(&s.Sheets.Crews, sh.Crews)
		override(&s.Sheets.Calendar, sh.Calendar)
		override(&s.Sheets.Shifts, sh.Shifts)
		override(&s.Sheets.Absenteeism, sh.Absenteeism)
		override(&s.Sheets.Efficiency, sh.Efficiency)
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ToJSON renders settings as a complete JSON document.
func (f *ConfigFactory) ToJSON(s Settings) ConfigJSON {
	cfg := s.Engine
	hours := cfg.StandardShiftHours.InexactFloat64()
	sample := cfg.SampleSize
	workers := cfg.Workers
	divisors := make([]CrewDivisorJSON, len(cfg.CrewDivisors))
	for i, d := range cfg.CrewDivisors {
		divisors[i] = CrewDivisorJSON{Match: d.Match, Divisor: d.Divisor.InexactFloat64()}
	}
	return ConfigJSON{
		StandardShiftHours:     &hours,
		Groups:                 cfg.Groups,
		ShiftKeywordExclusions: cfg.ShiftKeywordExclusions,
		YearTokens:             cfg.YearTokens,
		SampleSize:             &sample,
		CrewDivisors:           divisors,
		IndirectRoles:          cfg.IndirectRoles,
		Columns: &ColumnsJSON{
			Group:            cfg.Columns.Group,
			Resource:         cfg.Columns.Resource,
			Rate:             cfg.Columns.Rate,
			Quadrature:       cfg.Columns.Quadrature,
			Absenteeism:      cfg.Columns.Absenteeism,
			VacationCoverage: cfg.Columns.VacationCoverage,
		},
		Aggregation: &AggregationJSON{
			StandardShifts: string(cfg.StandardShiftAggregation),
			Quadrature:     string(cfg.QuadratureAggregation),
		},
		Workers: &workers,
		Sheets: &SheetsJSON{
			Volumes:     s.Sheets.Volumes,
			Crews:       s.Sheets.Crews,
			Calendar:    s.Sheets.Calendar,
			Shifts:      s.Sheets.Shifts,
			Absenteeism: s.Sheets.Absenteeism,
			Efficiency:  s.Sheets.Efficiency,
		},
	}
}
