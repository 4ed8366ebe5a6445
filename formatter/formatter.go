// Package formatter renders manning reports for terminals and files.
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// places is the rounding used for display. Stored values keep full precision.
const places = 2

// ReportData is the condensed view shared by the text and JSON formats.
type ReportData struct {
	Groups   []GroupLine                 `json:"groups"`
	Plant    []manning.PlantRow          `json:"plant"`
	Warnings map[manning.WarningCode]int `json:"warnings"`
}

// GroupLine is one group's headline figures.
type GroupLine struct {
	Group   string               `json:"group"`
	Empty   bool                 `json:"empty"`
	Summary manning.GroupSummary `json:"summary"`
}

func prepareReportData(r *manning.Report) ReportData {
	data := ReportData{
		Plant:    r.Plant,
		Warnings: manning.CountByCode(r.Warnings),
	}
	for _, g := range r.Groups {
		data.Groups = append(data.Groups, GroupLine{Group: g.Group, Empty: g.Empty(), Summary: g.Summary})
	}
	return data
}

// FormatText returns the text representation of the report: per-group
// headline figures, plant totals and warning counts.
func FormatText(r *manning.Report) string {
	data := prepareReportData(r)
	var sb strings.Builder

	sb.WriteString("GROUPS\n")
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Group\tShifts req.\tShifts std.\tGap\tHeadcount\tQuadr. %\tAbs. %\tVac. %")
	for _, g := range data.Groups {
		if g.Empty {
			fmt.Fprintf(tw, "%s\t(no data)\t\t\t\t\t\t\n", g.Group)
			continue
		}
		s := g.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", g.Group,
			fixed(s.MeanRequiredShifts), fixed(s.MeanStandardShifts), fixed(s.MeanShiftGap),
			fixed(s.MeanHeadcount), fixed(s.QuadraturePct), fixed(s.AbsenteeismPct), fixed(s.VacationPct))
	}
	tw.Flush()

	sb.WriteString("\nPLANT\n")
	sb.WriteString(FormatPlant(data.Plant))

	sb.WriteString("\n")
	sb.WriteString(FormatWarningCounts(data.Warnings))
	return sb.String()
}

// FormatPlant renders plant totals, one month per line.
func FormatPlant(rows []manning.PlantRow) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tDirect\tIndirect\tTotal\t")
	for _, p := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", p.Period, fixed(p.Direct), fixed(p.Indirect), fixed(p.Total))
	}
	tw.Flush()
	return sb.String()
}

// FormatWarningCounts renders warning counts by code in code order.
func FormatWarningCounts(counts map[manning.WarningCode]int) string {
	if len(counts) == 0 {
		return "No warnings\n"
	}
	codes := make([]string, 0, len(counts))
	total := 0
	for c, n := range counts {
		codes = append(codes, string(c))
		total += n
	}
	sort.Strings(codes)

	var sb strings.Builder
	fmt.Fprintf(&sb, "WARNINGS (%d)\n", total)
	for _, c := range codes {
		fmt.Fprintf(&sb, "  %-26s %d\n", c, counts[manning.WarningCode(c)])
	}
	return sb.String()
}

// FormatWarnings lists warnings one per line, optionally limited to group.
func FormatWarnings(ws []manning.Warning, group string) string {
	var sb strings.Builder
	for _, w := range ws {
		if group != "" && w.Group != group {
			continue
		}
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "No warnings\n"
	}
	return sb.String()
}

// FormatGroup renders the month-by-month view of one group.
func FormatGroup(g *manning.GroupResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", g.Group)
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tReq.\tStd.\tBase\t+Quadr.\t+Abs.\t+Vac.\tDirect\tIndirect\tTotal\t")
	for _, m := range g.Months() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", m.Period,
			fixed(m.RequiredShifts), fixed(m.StandardShifts), fixed(m.BaseHeadcount),
			fixed(m.DeltaQuadrature), fixed(m.DeltaAbsenteeism), fixed(m.DeltaVacation),
			fixed(m.FinalHeadcount), fixed(m.Indirect), fixed(m.Total))
	}
	tw.Flush()
	return sb.String()
}

// FormatJSON returns the JSON representation of the report summary.
func FormatJSON(r *manning.Report) string {
	jsonBytes, _ := json.MarshalIndent(prepareReportData(r), "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns t as CSV. Undefined cells are empty; numbers keep
// full precision.
func FormatCSV(t *generic.Table) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write(t.Header())
	row := make([]string, len(t.Columns))
	for i := 0; i < t.Len(); i++ {
		for j := range t.Columns {
			row[j] = t.Cell(i, j).String()
		}
		writer.Write(row)
	}

	writer.Flush()
	return sb.String()
}

func fixed(q generic.Quantity) string {
	return q.StringFixed(places)
}
