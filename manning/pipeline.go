package manning

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/warp/manning-engine/generic"
)

// =============================================================================
// PIPELINE - Composes the stages into one run
// =============================================================================

// Pipeline runs the manning computation for a fixed configuration.
// It holds no per-run state; one Pipeline may serve concurrent runs.
type Pipeline struct {
	cfg Config
	log zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes run and warning logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline validates cfg and returns a pipeline bound to it.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, log: zerolog.Nop()}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run computes every group of ds and the plant totals. Only structural
// problems in ds return an error; everything else is reported through
// Report.Warnings. Running twice on the same dataset yields equal reports.
func (p *Pipeline) Run(ctx context.Context, ds Dataset) (*Report, error) {
	start := time.Now()
	log := p.log.With().Str("component", "pipeline").Logger()

	in, normWarnings, err := Normalize(ds, p.cfg)
	if err != nil {
		log.Error().Err(err).Msg("dataset rejected")
		return nil, err
	}

	ws := &warnings{}
	ws.extend(normWarnings)

	groups, unknown := p.cfg.orderGroups(in.Groups())
	for _, g := range unknown {
		ws.addf(WarnUnknownGroup, "", g, "group %s is not configured; computed after the configured groups", g)
	}

	results := make([]GroupResult, len(groups))
	groupWarnings := make([][]Warning, len(groups))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Workers)
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], groupWarnings[i] = computeGroup(g, in, p.cfg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Groups: make([]GroupResult, 0, len(results))}
	for i, r := range results {
		ws.extend(groupWarnings[i])
		if r.Empty() {
			ws.addf(WarnNoData, "", r.Group, "no data for group %s", r.Group)
		}
		report.Groups = append(report.Groups, r)
		report.Rollup = append(report.Rollup, r.Rollup...)
	}
	report.Plant = PlantTotals(report.Rollup)
	report.Warnings = ws.list

	for _, w := range report.Warnings {
		log.Warn().
			Str("code", string(w.Code)).
			Str("table", w.Table).
			Str("group", w.Group).
			Str("resource", w.Resource).
			Str("period", string(w.Period)).
			Msg(w.Message)
	}
	log.Info().
		Int("groups", len(report.Groups)).
		Int("months", len(report.Plant)).
		Int("warnings", len(report.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("run complete")
	return report, nil
}

// computeGroup runs the per-group stages. It only reads in.
func computeGroup(group string, in *Inputs, cfg Config) (GroupResult, []Warning) {
	ws := &warnings{}
	res := GroupResult{Group: group}

	res.Volumes, res.Resources = volumeOverview(group, in)

	shifts, w := ComputeShiftDemand(group, in, cfg)
	ws.extend(w)
	res.Shifts = shifts

	headcount, w := ComputeHeadcount(group, in, cfg)
	ws.extend(w)
	res.Headcount = headcount

	res.Indirect = ComputeIndirect(group, in, cfg)
	res.Rollup = Rollup(res.Headcount, res.Indirect)
	res.Summary = Summarize(res.Shifts, res.Headcount)
	return res, ws.list
}

// volumeOverview totals the group's volume per month and lists the
// per-resource volumes, months ascending then resource name.
func volumeOverview(group string, in *Inputs) ([]VolumePoint, []VolumeRecord) {
	var resources []VolumeRecord
	totals := map[generic.YearMonth][]generic.Quantity{}
	var periods []generic.YearMonth
	for _, v := range in.Volumes {
		if v.Group != group {
			continue
		}
		resources = append(resources, v)
		if _, seen := totals[v.Period]; !seen {
			periods = append(periods, v.Period)
		}
		totals[v.Period] = append(totals[v.Period], v.Volume)
	}
	generic.SortMonths(periods)
	points := make([]VolumePoint, len(periods))
	for i, p := range periods {
		points[i] = VolumePoint{Period: p, Volume: generic.Sum(totals[p]...)}
	}

	rank := make(map[generic.YearMonth]int, len(periods))
	for i, p := range periods {
		rank[p] = i
	}
	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].Period != resources[j].Period {
			return rank[resources[i].Period] < rank[resources[j].Period]
		}
		return resources[i].Resource < resources[j].Resource
	})
	return points, resources
}
