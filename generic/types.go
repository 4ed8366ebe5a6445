/*
Package generic provides the domain-agnostic primitives of the manning engine.

PURPOSE:
  The manning pipeline consumes heterogeneous spreadsheet tables and emits
  monthly result tables. Everything that does not know about shifts, crews
  or headcount lives here: numeric quantities that may be undefined, typed
  table cells, period-column detection, wide-to-long reshaping and
  year-month resolution.

KEY CONCEPTS IN THIS FILE (types.go):
  - Quantity: a decimal value that may be undefined

UNDEFINED PROPAGATION:
  Spreadsheet inputs are full of holes: a resource without a rate, a month
  missing from the calendar, a zero divisor. None of these abort a run.
  They surface as an undefined Quantity, and every arithmetic operation
  propagates undefined instead of coercing it to zero or infinity:

    Q(10).Div(Q(0))        -> undefined
    Undefined.Add(Q(1))    -> undefined
    Sum(Q(1), Undefined)   -> 1        (undefined terms are skipped)
    Sum(Undefined)         -> undefined (nothing to sum is not zero)

PRECISION:
  Values are decimal.Decimal, so the headcount cascade reproduces exact
  figures (100 / 0.8 * 1.05 * 1.10 = 144.375) without float drift.

SEE ALSO:
  - table.go: Cell, Column, Table
  - classify.go: period-column classifier rules
  - melt.go: wide to long reshaping
  - period.go: YearMonth resolution
*/
package generic

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// QUANTITY - Decimal value that may be undefined
// =============================================================================

// Quantity is a decimal value with an explicit defined flag. The zero value
// is undefined, which keeps "no data" distinguishable from a real zero.
type Quantity struct {
	Value decimal.Decimal
	Valid bool
}

// Undefined is the undefined quantity.
var Undefined = Quantity{}

// Q builds a defined quantity from a float.
func Q(v float64) Quantity {
	return Quantity{Value: decimal.NewFromFloat(v), Valid: true}
}

// QInt builds a defined quantity from an integer.
func QInt(v int64) Quantity {
	return Quantity{Value: decimal.NewFromInt(v), Valid: true}
}

// QDecimal builds a defined quantity from a decimal.
func QDecimal(d decimal.Decimal) Quantity {
	return Quantity{Value: d, Valid: true}
}

// ParseQuantity parses a numeric string. Both "1.5" and "1,5" are accepted.
// Anything else yields Undefined.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	if s == "" {
		return Undefined
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		if strings.Count(s, ",") != 1 || strings.Contains(s, ".") {
			return Undefined
		}
		d, err = decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err != nil {
			return Undefined
		}
	}
	return QDecimal(d)
}

func (q Quantity) Add(o Quantity) Quantity {
	if !q.Valid || !o.Valid {
		return Undefined
	}
	return QDecimal(q.Value.Add(o.Value))
}

func (q Quantity) Sub(o Quantity) Quantity {
	if !q.Valid || !o.Valid {
		return Undefined
	}
	return QDecimal(q.Value.Sub(o.Value))
}

func (q Quantity) Mul(o Quantity) Quantity {
	if !q.Valid || !o.Valid {
		return Undefined
	}
	return QDecimal(q.Value.Mul(o.Value))
}

// Div divides q by o. A zero or undefined divisor yields Undefined.
func (q Quantity) Div(o Quantity) Quantity {
	if !q.Valid || !o.Valid || o.Value.IsZero() {
		return Undefined
	}
	return QDecimal(q.Value.Div(o.Value))
}

func (q Quantity) IsZero() bool     { return q.Valid && q.Value.IsZero() }
func (q Quantity) IsPositive() bool { return q.Valid && q.Value.IsPositive() }

// Equal reports whether both quantities are undefined or both hold the same value.
func (q Quantity) Equal(o Quantity) bool {
	if q.Valid != o.Valid {
		return false
	}
	return !q.Valid || q.Value.Equal(o.Value)
}

// Float64 returns the value as a float; ok is false when undefined.
func (q Quantity) Float64() (v float64, ok bool) {
	if !q.Valid {
		return 0, false
	}
	return q.Value.InexactFloat64(), true
}

func (q Quantity) String() string {
	if !q.Valid {
		return "undefined"
	}
	return q.Value.String()
}

// StringFixed renders q rounded to places, or "-" when undefined. Display only.
func (q Quantity) StringFixed(places int32) string {
	if !q.Valid {
		return "-"
	}
	return q.Value.StringFixed(places)
}

// MarshalJSON encodes a defined quantity as a bare JSON number and an
// undefined one as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return []byte(q.Value.String()), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*q = Undefined
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = QDecimal(d)
	return nil
}

// =============================================================================
// AGGREGATES
// =============================================================================

// Sum adds the defined terms. It is Undefined when no term is defined.
func Sum(qs ...Quantity) Quantity {
	total := Undefined
	for _, q := range qs {
		if !q.Valid {
			continue
		}
		if !total.Valid {
			total = q
			continue
		}
		total = total.Add(q)
	}
	return total
}

// First returns the first defined quantity, or Undefined.
func First(qs ...Quantity) Quantity {
	for _, q := range qs {
		if q.Valid {
			return q
		}
	}
	return Undefined
}

// Mean averages the defined terms. It is Undefined when no term is defined.
func Mean(qs ...Quantity) Quantity {
	n := int64(0)
	for _, q := range qs {
		if q.Valid {
			n++
		}
	}
	if n == 0 {
		return Undefined
	}
	return Sum(qs...).Div(QInt(n))
}

// Distinct reports how many different defined values appear in qs.
func Distinct(qs ...Quantity) int {
	var seen []decimal.Decimal
outer:
	for _, q := range qs {
		if !q.Valid {
			continue
		}
		for _, s := range seen {
			if s.Equal(q.Value) {
				continue outer
			}
		}
		seen = append(seen, q.Value)
	}
	return len(seen)
}
