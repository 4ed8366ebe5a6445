/*
Package workbook reads the planning workbook into tables and writes result
tables back to xlsx.

READING:
  Each sheet becomes a generic.Table. The first row is the header. Header
  and data cells keep their type: numbers stay numbers, cells formatted as
  dates (Excel serials with a date number format) become dates, anything
  else is text. This lets the period classifier see date headers the way
  the planners typed them.

WRITING:
  One sheet per table, column order preserved, undefined cells blank.

SEE ALSO:
  - generic/table.go: Table, Cell
  - manning/tables.go: result tables
*/
package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// Sheets maps each input table role to its sheet name.
type Sheets struct {
	Volumes     string `json:"volumes"`
	Crews       string `json:"crews"`
	Calendar    string `json:"calendar"`
	Shifts      string `json:"shifts"`
	Absenteeism string `json:"absenteeism"`
	Efficiency  string `json:"efficiency"`
}

// DefaultSheets returns the sheet names of the standard planning workbook.
func DefaultSheets() Sheets {
	return Sheets{
		Volumes:     manning.TableVolumes,
		Crews:       manning.TableCrews,
		Calendar:    manning.TableCalendar,
		Shifts:      manning.TableShifts,
		Absenteeism: manning.TableAbsenteeism,
		Efficiency:  manning.TableEfficiency,
	}
}

// LoadFile opens path and loads the dataset from it.
func LoadFile(path string, sheets Sheets) (manning.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return manning.Dataset{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return Load(f, sheets)
}

// Load reads the six input sheets from an xlsx stream. A missing sheet is
// a *generic.SheetError wrapping generic.ErrMissingTable.
func Load(r io.Reader, sheets Sheets) (manning.Dataset, error) {
	if r == nil {
		return manning.Dataset{}, generic.ErrNoWorkbook
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return manning.Dataset{}, fmt.Errorf("%w: %v", generic.ErrNoWorkbook, err)
	}
	defer f.Close()

	var ds manning.Dataset
	targets := []struct {
		sheet string
		dst   **generic.Table
	}{
		{sheets.Volumes, &ds.Volumes},
		{sheets.Crews, &ds.Crews},
		{sheets.Calendar, &ds.Calendar},
		{sheets.Shifts, &ds.Shifts},
		{sheets.Absenteeism, &ds.Absenteeism},
		{sheets.Efficiency, &ds.Efficiency},
	}
	for _, tgt := range targets {
		t, err := ReadTable(f, tgt.sheet)
		if err != nil {
			return manning.Dataset{}, err
		}
		*tgt.dst = t
	}
	return ds, nil
}

// ReadTable reads one sheet into a table.
func ReadTable(f *excelize.File, sheet string) (*generic.Table, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &generic.SheetError{Sheet: sheet}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &generic.SheetError{Sheet: sheet, Err: err}
	}
	t := &generic.Table{Name: sheet}
	if len(rows) == 0 {
		return t, nil
	}

	r := newCellReader(f, sheet)
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	t.Columns = make([]generic.Column, width)
	for c := 0; c < width; c++ {
		t.Columns[c].Label = r.cell(rows[0], 0, c)
	}
	for i := 1; i < len(rows); i++ {
		cells := make([]generic.Cell, width)
		for c := 0; c < width; c++ {
			cells[c] = r.cell(rows[i], i, c)
		}
		t.AppendRow(cells...)
	}
	if r.err != nil {
		return nil, &generic.SheetError{Sheet: sheet, Err: r.err}
	}
	return dropBlankColumns(t), nil
}

// dropBlankColumns removes columns with no label and no values, which
// spreadsheets leave behind after deleted content.
func dropBlankColumns(t *generic.Table) *generic.Table {
	kept := t.Columns[:0]
	for _, col := range t.Columns {
		if col.Label.IsEmpty() && allEmpty(col.Values) {
			continue
		}
		kept = append(kept, col)
	}
	t.Columns = kept
	return t
}

func allEmpty(cells []generic.Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// =============================================================================
// CELL TYPING
// =============================================================================

type cellReader struct {
	f         *excelize.File
	sheet     string
	date1904  bool
	dateStyle map[int]bool
	err       error
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{f: f, sheet: sheet, dateStyle: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// cell types the raw value at (row, col) of the sheet.
func (r *cellReader) cell(row []string, rowIdx, col int) generic.Cell {
	if col >= len(row) {
		return generic.Empty
	}
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return generic.Empty
	}
	name, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
	if err != nil {
		r.fail(err)
		return generic.Text(raw)
	}
	if typ, err := r.f.GetCellType(r.sheet, name); err == nil &&
		(typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString) {
		return generic.Text(raw)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return generic.Text(raw)
	}
	if r.isDate(name) {
		serial, _ := strconv.ParseFloat(raw, 64)
		if t, err := excelize.ExcelDateToTime(serial, r.date1904); err == nil {
			return generic.Date(t)
		}
	}
	return generic.NumDecimal(d)
}

func (r *cellReader) isDate(cell string) bool {
	id, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := r.dateStyle[id]; ok {
		return v
	}
	style, err := r.f.GetStyle(id)
	v := err == nil && isDateFormat(style)
	r.dateStyle[id] = v
	return v
}

func (r *cellReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// isDateFormat reports whether a number format renders dates.
func isDateFormat(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		return isDatePattern(*s.CustomNumFmt)
	}
	switch id := s.NumFmt; {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDatePattern inspects a custom format code outside quoted literals and
// bracketed sections. Elapsed-time formats ([h]:mm) are not dates.
func isDatePattern(code string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, ch := range strings.ToLower(code) {
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(ch)
		}
	}
	plain := b.String()
	return strings.ContainsAny(plain, "yd") || (strings.Contains(plain, "m") && !strings.ContainsAny(plain, "hs"))
}

// IsMissingSheet reports whether err is a missing-sheet error.
func IsMissingSheet(err error) bool {
	return errors.Is(err, generic.ErrMissingTable)
}
