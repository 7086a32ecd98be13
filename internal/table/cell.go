package table

import (
	"encoding/json"
	"strconv"

	"github.com/oakwood-commons/jex/internal/document"
)

// CellClass drives per-cell styling and alignment.
type CellClass int

const (
	ClassMissing CellClass = iota // key absent in this row
	ClassString
	ClassEmptyString
	ClassNumber
	ClassTrue
	ClassFalse
	ClassNull
	ClassContainer // non-empty object/array, shown collapsed
	ClassEmptyContainer
)

// Cell is one rendered grid entry plus its source value. Rendering is
// lossy (containers collapse to markers, long text truncates at draw
// time); Value keeps the original for selectors and clipboard copy.
type Cell struct {
	Text  string
	Class CellClass
	Value *document.Value
}

// alignRight reports whether the cell renders right-aligned.
func (c Cell) alignRight() bool { return c.Class == ClassNumber }

// renderCell projects a single JSON value into its cell form. floatPrec is
// the significand digit count for non-integer numbers.
func renderCell(v *document.Value, floatPrec int) Cell {
	switch v.Kind() {
	case document.KindNull:
		return Cell{Text: "null", Class: ClassNull, Value: v}
	case document.KindBool:
		if v.Bool() {
			return Cell{Text: "true", Class: ClassTrue, Value: v}
		}
		return Cell{Text: "false", Class: ClassFalse, Value: v}
	case document.KindNumber:
		return Cell{Text: renderNumber(v, floatPrec), Class: ClassNumber, Value: v}
	case document.KindString:
		s := v.Str()
		if s == "" {
			return Cell{Text: `""`, Class: ClassEmptyString, Value: v}
		}
		// Show the JSON encoding when the raw text would be ambiguous or
		// unprintable (embedded quotes, control characters, ...).
		if enc, err := json.Marshal(s); err == nil && string(enc) != `"`+s+`"` {
			return Cell{Text: string(enc), Class: ClassString, Value: v}
		}
		return Cell{Text: s, Class: ClassString, Value: v}
	case document.KindArray:
		if v.Len() == 0 {
			return Cell{Text: "[]", Class: ClassEmptyContainer, Value: v}
		}
		return Cell{Text: "[…]", Class: ClassContainer, Value: v}
	case document.KindObject:
		if v.Len() == 0 {
			return Cell{Text: "{}", Class: ClassEmptyContainer, Value: v}
		}
		return Cell{Text: "{…}", Class: ClassContainer, Value: v}
	}
	return Cell{Text: "", Class: ClassMissing}
}

func renderNumber(v *document.Value, floatPrec int) string {
	if _, ok := v.Int(); ok {
		return v.NumberLiteral()
	}
	f, err := v.Float()
	if err != nil {
		return v.NumberLiteral()
	}
	if floatPrec <= 0 {
		floatPrec = 8
	}
	return strconv.FormatFloat(f, 'g', floatPrec, 64)
}

// PlainText returns the cell's clipboard form: strings copy their raw
// contents, everything else copies its JSON encoding.
func (c Cell) PlainText() string {
	if c.Value == nil {
		return ""
	}
	if c.Value.Kind() == document.KindString {
		return c.Value.Str()
	}
	return c.Value.String()
}
