package generic

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL - One typed spreadsheet value
// =============================================================================

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single value as supplied by the dataset loader. Column labels
// are cells too, because a spreadsheet header may be a real date.
type Cell struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
	Date   time.Time
}

var Empty = Cell{}

func Num(v float64) Cell                { return Cell{Kind: CellNumber, Number: decimal.NewFromFloat(v)} }
func NumDecimal(d decimal.Decimal) Cell { return Cell{Kind: CellNumber, Number: d} }
func Date(t time.Time) Cell             { return Cell{Kind: CellDate, Date: t} }

// Text builds a text cell. Blank text is an empty cell.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Empty
	}
	return Cell{Kind: CellText, Text: s}
}

// QuantityCell converts a quantity to a cell; undefined becomes empty.
func QuantityCell(q Quantity) Cell {
	if !q.Valid {
		return Empty
	}
	return NumDecimal(q.Value)
}

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String renders the cell the way it appears as a column name or id value.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellText:
		return strings.TrimSpace(c.Text)
	case CellDate:
		if c.Date.Hour() == 0 && c.Date.Minute() == 0 && c.Date.Second() == 0 {
			return c.Date.Format("2006-01-02")
		}
		return c.Date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Quantity reads the cell as a number. Text is parsed; dates and blanks are undefined.
func (c Cell) Quantity() Quantity {
	switch c.Kind {
	case CellNumber:
		return QDecimal(c.Number)
	case CellText:
		return ParseQuantity(c.Text)
	default:
		return Undefined
	}
}

// =============================================================================
// TABLE - Column-oriented parsed sheet
// =============================================================================

type Column struct {
	Label  Cell
	Values []Cell
}

func (c Column) Name() string { return c.Label.String() }

// Table is a parsed sheet. Columns may be ragged; missing trailing values
// read as empty.
type Table struct {
	Name    string
	Columns []Column
}

// NewTable creates a table with the given column labels.
func NewTable(name string, labels ...Cell) *Table {
	t := &Table{Name: name, Columns: make([]Column, len(labels))}
	for i, l := range labels {
		t.Columns[i].Label = l
	}
	return t
}

// NewTextTable creates a table whose labels are all text.
func NewTextTable(name string, labels ...string) *Table {
	cells := make([]Cell, len(labels))
	for i, l := range labels {
		cells[i] = Text(l)
	}
	return NewTable(name, cells...)
}

// AppendRow adds a row. Extra cells are dropped, missing ones are empty.
func (t *Table) AppendRow(cells ...Cell) {
	n := t.Len()
	for i := range t.Columns {
		col := &t.Columns[i]
		for len(col.Values) < n {
			col.Values = append(col.Values, Empty)
		}
		v := Empty
		if i < len(cells) {
			v = cells[i]
		}
		col.Values = append(col.Values, v)
	}
}

// Len is the number of rows, i.e. the longest column.
func (t *Table) Len() int {
	n := 0
	for _, c := range t.Columns {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}

// Index returns the position of the column named name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), empty when out of range.
func (t *Table) Cell(row, col int) Cell {
	if col < 0 || col >= len(t.Columns) {
		return Empty
	}
	vals := t.Columns[col].Values
	if row < 0 || row >= len(vals) {
		return Empty
	}
	return vals[row]
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name()
	}
	return names
}

// Require checks that every named column exists.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if t.Index(n) < 0 {
			return &MissingColumnError{Table: t.Name, Column: n}
		}
	}
	return nil
}
