/*
main.go - Batch command line for the manning engine

PURPOSE:
  Computes a manning report from a planning workbook (or a built-in
  scenario) without a server: prints the summary, optionally writes the
  result workbook, optionally opens an interactive explorer.

FLAGS:
  -input      Planning workbook (.xlsx)
  -scenario   Built-in scenario instead of -input (standard_plant, ...)
  -config     Engine configuration (.json, .yaml)
  -output     Write all result tables to this .xlsx
  -format     Summary format: text|json|csv (csv prints the rollup table)
  -explore    Open the interactive explorer after computing
  -push-url   Pushgateway URL to push run metrics to
  -log-level  zerolog level (default: warn, env MANNING_LOG_LEVEL)

EXAMPLES:
  manning -input plan_2026.xlsx -output fabbisogno_2026.xlsx
  manning -scenario missing_rates -format json
  manning -input plan_2026.xlsx -config plant.yaml -explore
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"

	"github.com/warp/manning-engine/api"
	"github.com/warp/manning-engine/factory"
	"github.com/warp/manning-engine/formatter"
	"github.com/warp/manning-engine/manning"
	"github.com/warp/manning-engine/metrics"
	"github.com/warp/manning-engine/workbook"
)

func main() {
	// Define flags
	input := flag.String("input", "", "Planning workbook (.xlsx)")
	scenario := flag.String("scenario", "", "Built-in scenario to compute instead of -input")
	configPath := flag.String("config", "", "Engine configuration file (.json, .yaml)")
	output := flag.String("output", "", "Write result tables to this .xlsx file")
	format := flag.String("format", "text", "Output format: text|json|csv")
	explore := flag.Bool("explore", false, "Open the interactive explorer")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	logLevel := flag.String("log-level", envOr("MANNING_LOG_LEVEL", "warn"), "Log level")
	flag.Parse()

	log := newLogger(*logLevel)

	// Validate flags
	if (*input == "") == (*scenario == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -input or -scenario is required")
		fmt.Fprintln(os.Stderr, "\nUsage:")
		flag.PrintDefaults()
		os.Exit(2)
	}
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(2)
	}

	settings := factory.Defaults()
	if *configPath != "" {
		s, err := factory.NewConfigFactory().LoadConfigFile(*configPath)
		if err != nil {
			fail(err)
		}
		settings = s
	}

	// Load dataset
	var ds manning.Dataset
	source := *input
	if *scenario != "" {
		var ok bool
		ds, ok = api.ScenarioDataset(*scenario)
		if !ok {
			fail(fmt.Errorf("unknown scenario %q", *scenario))
		}
		source = "scenario:" + *scenario
	} else {
		var err error
		ds, err = workbook.LoadFile(*input, settings.Sheets)
		if workbook.IsMissingSheet(err) {
			fmt.Fprintln(os.Stderr, "Hint: sheet names can be remapped with the \"sheets\" section of -config")
		}
		if err != nil {
			fail(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Compute
	report, err := compute(ctx, ds, settings, log)
	if err != nil {
		fail(err)
	}
	log.Info().Str("source", source).Int("groups", len(report.Groups)).Msg("report computed")

	// Output based on format
	switch *format {
	case "json":
		fmt.Println(formatter.FormatJSON(report))
	case "csv":
		t, _ := report.Table(manning.ResultRollup)
		fmt.Print(formatter.FormatCSV(t))
	default:
		fmt.Print(formatter.FormatText(report))
	}

	if *output != "" {
		if err := writeResults(*output, report); err != nil {
			fail(err)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", *output)
	}

	// Handle metrics pushing
	if *pushGateway != "" {
		if err := push.New(*pushGateway, "manning").Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Metrics successfully pushed to Pushgateway")
		}
	}

	if *explore {
		if err := runExplorer(ctx, report, source); err != nil {
			fail(err)
		}
	}
}

func compute(ctx context.Context, ds manning.Dataset, settings factory.Settings, log zerolog.Logger) (*manning.Report, error) {
	start := time.Now()
	p, err := manning.NewPipeline(settings.Engine, manning.WithLogger(log))
	if err != nil {
		metrics.ObserveFailure(err, time.Since(start))
		return nil, err
	}
	report, err := p.Run(ctx, ds)
	if err != nil {
		metrics.ObserveFailure(err, time.Since(start))
		return nil, err
	}
	metrics.ObserveReport(report, time.Since(start))
	return report, nil
}

func writeResults(path string, report *manning.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := workbook.Write(f, report.Tables()...); err != nil {
		f.Close()
		return fmt.Errorf("write results: %w", err)
	}
	return f.Close()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
