package generic

// LongRow is one (entity, period) pair of a melted table.
type LongRow struct {
	IDs   []string // identifier values, in the order requested
	Label Cell     // period column label
	Value Cell
}

// ID returns the i-th identifier value, or "".
func (r LongRow) ID(i int) string {
	if i < 0 || i >= len(r.IDs) {
		return ""
	}
	return r.IDs[i]
}

// Melt reshapes the period columns of t into long rows, one per
// (row, period column) pair, row-major within each column so that output
// follows the source column order. Identifier columns must exist.
func Melt(t *Table, idColumns []string, periodCols []int) ([]LongRow, error) {
	if err := t.Require(idColumns...); err != nil {
		return nil, err
	}
	ids := make([]int, len(idColumns))
	for i, name := range idColumns {
		ids[i] = t.Index(name)
	}

	n := t.Len()
	rows := make([]LongRow, 0, n*len(periodCols))
	for _, pc := range periodCols {
		if pc < 0 || pc >= len(t.Columns) {
			continue
		}
		label := t.Columns[pc].Label
		for r := 0; r < n; r++ {
			keys := make([]string, len(ids))
			for i, ic := range ids {
				keys[i] = t.Cell(r, ic).String()
			}
			rows = append(rows, LongRow{IDs: keys, Label: label, Value: t.Cell(r, pc)})
		}
	}
	return rows, nil
}
