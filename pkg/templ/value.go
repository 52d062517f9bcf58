package templ

import (
	"fmt"
	"math"
	"strconv"
)

type valueKind int

const (
	textValue valueKind = iota
	numberValue
)

// Value is a single metadata field: either text or a number.
type Value struct {
	kind valueKind
	text string
	num  float64
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: textValue, text: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: numberValue, num: n}
}

// Int returns a numeric value from an integer.
func Int(n int) Value {
	return Number(float64(n))
}

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool {
	return v.kind == numberValue
}

// String formats the value for display. Integral numbers are zero padded
// to two digits ("2" -> "02").
func (v Value) String() string {
	if v.kind == textValue {
		return v.text
	}
	if v.num == math.Trunc(v.num) && !math.IsInf(v.num, 0) {
		return fmt.Sprintf("%02d", int64(v.num))
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Metadata maps field names to values for one render call.
type Metadata map[string]Value

// Lookup returns the display string for key and whether it was present.
func (m Metadata) Lookup(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Get returns the display string for key, or "" when absent.
func (m Metadata) Get(key string) string {
	s, _ := m.Lookup(key)
	return s
}
