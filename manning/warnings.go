package manning

import (
	"fmt"
	"sort"

	"github.com/warp/manning-engine/generic"
)

// WarningCode classifies a non-fatal condition.
type WarningCode string

const (
	WarnMissingPeriodColumns    WarningCode = "missing_period_columns"
	WarnUnresolvedPeriod        WarningCode = "unresolved_period"
	WarnUnresolvedJoin          WarningCode = "unresolved_join"
	WarnUndefinedRate           WarningCode = "undefined_rate"
	WarnDivisionByZero          WarningCode = "division_by_zero"
	WarnAggregationDisagreement WarningCode = "aggregation_disagreement"
	WarnDuplicateKey            WarningCode = "duplicate_key"
	WarnUnknownGroup            WarningCode = "unknown_group"
	WarnNoData                  WarningCode = "no_data"
)

// Warning is a per-cell or per-table condition that did not stop the run.
type Warning struct {
	Code     WarningCode       `json:"code"`
	Table    string            `json:"table,omitempty"`
	Group    string            `json:"group,omitempty"`
	Resource string            `json:"resource,omitempty"`
	Period   generic.YearMonth `json:"period,omitempty"`
	Message  string            `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// warnings accumulates warnings, dropping exact duplicates.
type warnings struct {
	list []Warning
	seen map[Warning]bool
}

func (ws *warnings) add(w Warning) {
	if ws.seen == nil {
		ws.seen = map[Warning]bool{}
	}
	if ws.seen[w] {
		return
	}
	ws.seen[w] = true
	ws.list = append(ws.list, w)
}

func (ws *warnings) addf(code WarningCode, table, group string, format string, args ...any) {
	ws.add(Warning{Code: code, Table: table, Group: group, Message: fmt.Sprintf(format, args...)})
}

func (ws *warnings) extend(other []Warning) {
	for _, w := range other {
		ws.add(w)
	}
}

// CountByCode tallies warnings per code.
func CountByCode(ws []Warning) map[WarningCode]int {
	out := map[WarningCode]int{}
	for _, w := range ws {
		out[w.Code]++
	}
	return out
}

func sortStrings(s []string) { sort.Strings(s) }
