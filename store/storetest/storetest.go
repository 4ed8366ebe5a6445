// Package storetest holds the behavioural suite every manning.RunStore
// implementation must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// SampleRun builds a small run with a defined and an undefined cell.
func SampleRun(id string, createdAt time.Time) manning.Run {
	return manning.Run{
		ID:        id,
		Source:    "plan_" + id + ".xlsx",
		CreatedAt: createdAt,
		Config:    manning.DefaultConfig(),
		Report: &manning.Report{
			Groups: []manning.GroupResult{{
				Group: "Stampa",
				Rollup: []manning.RollupRow{
					{Group: "Stampa", Period: "2026-01", Direct: generic.Q(2.165625), Indirect: generic.QInt(3), Total: generic.Q(5.165625)},
				},
			}},
			Plant: []manning.PlantRow{
				{Period: "2026-01", Direct: generic.Q(2.165625), Indirect: generic.QInt(3), Total: generic.Q(5.165625)},
				{Period: "2026-02", Direct: generic.Undefined, Indirect: generic.QInt(3), Total: generic.Undefined},
			},
			Warnings: []manning.Warning{
				{Code: manning.WarnNoData, Group: "Villavara", Message: "no data for group Villavara"},
			},
		},
	}
}

// Run exercises save, get, list and delete against s.
func Run(t *testing.T, s manning.RunStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		want := SampleRun("run-1", base)
		require.NoError(t, s.SaveRun(ctx, want))

		got, err := s.GetRun(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, want.Source, got.Source)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, want.Config.Groups, got.Config.Groups)
		assert.True(t, want.Config.StandardShiftHours.Equal(got.Config.StandardShiftHours))

		require.NotNil(t, got.Report)
		require.Len(t, got.Report.Plant, 2)
		assert.True(t, got.Report.Plant[0].Total.Equal(generic.Q(5.165625)))
		assert.False(t, got.Report.Plant[1].Total.Valid, "undefined survives storage")
		assert.Equal(t, want.Report.Warnings, got.Report.Warnings)
	})

	t.Run("list newest first", func(t *testing.T) {
		require.NoError(t, s.SaveRun(ctx, SampleRun("run-2", base.Add(time.Hour))))

		runs, err := s.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-2", runs[0].ID)
		assert.Equal(t, "run-1", runs[1].ID)
		assert.Equal(t, 1, runs[1].Groups)
		assert.Equal(t, 2, runs[1].Months)
		assert.Equal(t, 1, runs[1].Warnings)
	})

	t.Run("save replaces", func(t *testing.T) {
		r := SampleRun("run-1", base)
		r.Source = "replan.xlsx"
		require.NoError(t, s.SaveRun(ctx, r))

		got, err := s.GetRun(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, "replan.xlsx", got.Source)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteRun(ctx, "run-1"))

		_, err := s.GetRun(ctx, "run-1")
		assert.ErrorIs(t, err, generic.ErrRunNotFound)
		assert.True(t, generic.IsNotFound(err))

		err = s.DeleteRun(ctx, "run-1")
		assert.ErrorIs(t, err, generic.ErrRunNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.GetRun(ctx, "nope")
		assert.ErrorIs(t, err, generic.ErrRunNotFound)
	})
}
