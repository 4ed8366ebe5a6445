package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/warp/manning-engine/formatter"
	"github.com/warp/manning-engine/manning"
)

const explorerHelp = `Commands:
  groups               List groups with headline figures
  show <group>         Month-by-month detail of one group
  plant                Plant totals per month
  warnings [group]     List warnings, optionally for one group
  table <name>         Print a result table as CSV (shifts, headcount, ...)
  export <file>        Write every result table to an .xlsx file
  help                 This text
  quit                 Leave the explorer`

// explorer answers commands about one computed report.
type explorer struct {
	report *manning.Report
	out    io.Writer
}

func runExplorer(ctx context.Context, report *manning.Report, source string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "manning> ",
		HistoryFile:     historyFilePath(),
		AutoComplete:    completer(report),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()

	ex := &explorer{report: report, out: rl.Stdout()}
	fmt.Fprintf(ex.out, "Exploring %s (type 'help' for commands)\n", source)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ex.handle(strings.TrimSpace(line)) {
			return nil
		}
	}
}

// handle runs one command and reports whether the explorer continues.
func (ex *explorer) handle(line string) bool {
	if line == "" {
		return true
	}
	parts := strings.Fields(line)
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch strings.ToLower(parts[0]) {
	case "groups":
		for _, g := range ex.report.Groups {
			if g.Empty() {
				fmt.Fprintf(ex.out, "  %-16s (no data)\n", g.Group)
				continue
			}
			fmt.Fprintf(ex.out, "  %-16s headcount %s, shifts %s required / %s standard\n", g.Group,
				g.Summary.MeanHeadcount.StringFixed(2),
				g.Summary.MeanRequiredShifts.StringFixed(2),
				g.Summary.MeanStandardShifts.StringFixed(2))
		}
	case "show":
		if arg == "" {
			fmt.Fprintln(ex.out, "Usage: show <group>")
			return true
		}
		g := ex.report.Group(arg)
		if g == nil {
			fmt.Fprintf(ex.out, "Unknown group: %s\n", arg)
			return true
		}
		fmt.Fprint(ex.out, formatter.FormatGroup(g))
	case "plant":
		fmt.Fprint(ex.out, formatter.FormatPlant(ex.report.Plant))
	case "warnings":
		fmt.Fprint(ex.out, formatter.FormatWarnings(ex.report.Warnings, arg))
	case "table":
		t, err := ex.report.Table(arg)
		if err != nil {
			fmt.Fprintf(ex.out, "%v (one of: %s)\n", err, strings.Join(manning.ResultTables(), ", "))
			return true
		}
		fmt.Fprint(ex.out, formatter.FormatCSV(t))
	case "export":
		if arg == "" {
			fmt.Fprintln(ex.out, "Usage: export <file.xlsx>")
			return true
		}
		if err := writeResults(arg, ex.report); err != nil {
			fmt.Fprintf(ex.out, "Export failed: %v\n", err)
			return true
		}
		fmt.Fprintf(ex.out, "Written %s\n", arg)
	case "help", "?":
		fmt.Fprintln(ex.out, explorerHelp)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(ex.out, "Unknown command: %s (try 'help')\n", parts[0])
	}
	return true
}

func completer(report *manning.Report) *readline.PrefixCompleter {
	groups := make([]readline.PrefixCompleterInterface, 0, len(report.Groups))
	for _, g := range report.Groups {
		groups = append(groups, readline.PcItem(g.Group))
	}
	tables := make([]readline.PrefixCompleterInterface, 0, len(manning.ResultTables()))
	for _, t := range manning.ResultTables() {
		tables = append(tables, readline.PcItem(t))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("groups"),
		readline.PcItem("show", groups...),
		readline.PcItem("plant"),
		readline.PcItem("warnings", groups...),
		readline.PcItem("table", tables...),
		readline.PcItem("export"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// historyFilePath returns the explorer history file, or "" for none.
func historyFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "manning")
	_ = os.MkdirAll(dir, 0o750)
	return filepath.Join(dir, "explore_history")
}
