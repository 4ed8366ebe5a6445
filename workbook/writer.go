package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

const maxSheetName = 31

// Write renders tables into one xlsx workbook, one sheet per table in
// the given order.
func Write(w io.Writer, tables ...*generic.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := map[string]bool{}
	for i, t := range tables {
		name := uniqueSheetName(sheetName(t.Name, i), used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %q: %w", name, err)
		}
		if err := writeTable(f, name, t); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

// Bytes renders tables into an in-memory xlsx workbook.
func Bytes(tables ...*generic.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tables...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDataset writes the six input tables under the given sheet names,
// producing a workbook Load can read back.
func WriteDataset(w io.Writer, ds manning.Dataset, sheets Sheets) error {
	named := func(t *generic.Table, name string) *generic.Table {
		if t == nil {
			return &generic.Table{Name: name}
		}
		c := *t
		c.Name = name
		return &c
	}
	return Write(w,
		named(ds.Volumes, sheets.Volumes),
		named(ds.Crews, sheets.Crews),
		named(ds.Calendar, sheets.Calendar),
		named(ds.Shifts, sheets.Shifts),
		named(ds.Absenteeism, sheets.Absenteeism),
		named(ds.Efficiency, sheets.Efficiency),
	)
}

func writeTable(f *excelize.File, sheet string, t *generic.Table) error {
	header := make([]any, len(t.Columns))
	for c, col := range t.Columns {
		header[c] = cellValue(col.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r := 0; r < t.Len(); r++ {
		row := make([]any, len(t.Columns))
		for c := range t.Columns {
			row[c] = cellValue(t.Cell(r, c))
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(r+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(c generic.Cell) any {
	switch c.Kind {
	case generic.CellNumber:
		return c.Number.InexactFloat64()
	case generic.CellText:
		return c.Text
	case generic.CellDate:
		return c.Date
	default:
		return nil
	}
}

func sheetName(name string, i int) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet" + strconv.Itoa(i+1)
	}
	if rs := []rune(name); len(rs) > maxSheetName {
		name = string(rs[:maxSheetName])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := "_" + strconv.Itoa(n)
		rs := []rune(name)
		if len(rs)+len(suffix) > maxSheetName {
			rs = rs[:maxSheetName-len(suffix)]
		}
		candidate = string(rs) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
