package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/manning-engine/api"
	"github.com/warp/manning-engine/factory"
	"github.com/warp/manning-engine/manning"
	"github.com/warp/manning-engine/workbook"
)

func scenarioReport(t *testing.T, id string) *manning.Report {
	t.Helper()
	ds, ok := api.ScenarioDataset(id)
	require.True(t, ok)
	r, err := compute(context.Background(), ds, factory.Defaults(), zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestExplorer_Commands(t *testing.T) {
	var out bytes.Buffer
	ex := &explorer{report: scenarioReport(t, "missing_rates"), out: &out}

	tests := map[string]struct {
		line     string
		contains []string
	}{
		"groups":         {"groups", []string{"Stampa", "Villavara"}},
		"show":           {"show Stampa", []string{"Stampa", "2026-01", "2026-03"}},
		"show unknown":   {"show Nowhere", []string{"Unknown group: Nowhere"}},
		"show no arg":    {"show", []string{"Usage: show <group>"}},
		"plant":          {"plant", []string{"Month", "2026-02"}},
		"warnings":       {"warnings Villavara", []string{"undefined_rate", "Line_V1"}},
		"table":          {"table plant", []string{manning.ColDirect}},
		"table unknown":  {"table bogus", []string{"unknown result table", "shifts"}},
		"help":           {"help", []string{"export <file>"}},
		"unknown":        {"dance", []string{"Unknown command: dance"}},
		"case folding":   {"PLANT", []string{"Month"}},
		"group w/ space": {"warnings   Stampa  ", []string{"Press_B"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out.Reset()
			assert.True(t, ex.handle(tc.line))
			for _, want := range tc.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestExplorer_Quit(t *testing.T) {
	ex := &explorer{report: &manning.Report{}, out: &bytes.Buffer{}}

	assert.False(t, ex.handle("quit"))
	assert.False(t, ex.handle("exit"))
	assert.True(t, ex.handle(""))
}

func TestExplorer_Export(t *testing.T) {
	var out bytes.Buffer
	ex := &explorer{report: scenarioReport(t, "standard_plant"), out: &out}
	path := filepath.Join(t.TempDir(), "out", "results.xlsx")

	require.True(t, ex.handle("export "+path))
	assert.Contains(t, out.String(), "Written")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	tbl, err := workbook.ReadTable(f, manning.ResultPlant)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}
