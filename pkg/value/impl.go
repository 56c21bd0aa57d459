/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package value

import (
	"bytes"
	"fmt"
	"strconv"
)

// Num returns numeric value f
func Num(f float64) Value {
	return Value{f: f}
}

// Sysmis returns the system-missing numeric value
func Sysmis() Value {
	return Value{f: SYSMIS}
}

// Str returns a string value of the given width built from b.
// b is copied, truncated or right-padded with spaces
func Str(b []byte, width int) Value {
	checkStringWidth(width)
	s := make([]byte, width)
	n := copy(s, b)
	for i := n; i < width; i++ {
		s[i] = space
	}
	return Value{s: s}
}

// StrString is Str for Go strings
func StrString(s string, width int) Value {
	return Str([]byte(s), width)
}

// New returns the initial value for a cell of the given width:
// SYSMIS for numeric cells, all spaces for string cells
func New(width int) Value {
	if width == NumericWidth {
		return Sysmis()
	}
	return Str(nil, width)
}

// IsNum returns true if v is a numeric value
func (v Value) IsNum() bool {
	return v.s == nil
}

// Width returns 0 for numbers, string length for strings
func (v Value) Width() int {
	return len(v.s)
}

// Num returns the numeric content. Panics if v is a string
func (v Value) Num() float64 {
	if v.s != nil {
		panic("numeric access to string value")
	}
	return v.f
}

// Bytes returns the padded string content. Panics if v is numeric.
// The returned slice must not be modified
func (v Value) Bytes() []byte {
	if v.s == nil {
		panic("string access to numeric value")
	}
	return v.s
}

// Trimmed returns the string content without trailing spaces
func (v Value) Trimmed() string {
	return string(bytes.TrimRight(v.Bytes(), " "))
}

// IsSysmis returns true if v is SYSMIS (numeric) or all spaces (string)
func (v Value) IsSysmis() bool {
	if v.s == nil {
		return v.f == SYSMIS
	}
	for _, c := range v.s {
		if c != space {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v
func (v Value) Clone() Value {
	if v.s == nil {
		return v
	}
	s := make([]byte, len(v.s))
	copy(s, v.s)
	return Value{s: s}
}

// Resize returns v with a new width. Strings are truncated or space-padded.
// Panics when switching between numeric and string widths
func (v Value) Resize(width int) Value {
	if (v.s == nil) != (width == NumericWidth) {
		panic(fmt.Sprintf("can't resize value of width %d to width %d", v.Width(), width))
	}
	if v.s == nil || len(v.s) == width {
		return v
	}
	return Str(v.s, width)
}

// NeedsResize returns true if a value of width oldWidth must be changed to be represented at newWidth.
// Dropping only trailing spaces does not need a resize
func (v Value) NeedsResize(oldWidth, newWidth int) bool {
	if oldWidth == newWidth {
		return false
	}
	if (oldWidth == NumericWidth) != (newWidth == NumericWidth) {
		return true
	}
	if newWidth > oldWidth {
		return false
	}
	for _, c := range v.s[newWidth:] {
		if c != space {
			return true
		}
	}
	return false
}

// Equal compares two values of the same width
func (v Value) Equal(o Value) bool {
	if v.s == nil || o.s == nil {
		return v.s == nil && o.s == nil && v.f == o.f
	}
	return bytes.Equal(v.s, o.s)
}

// Compare returns -1, 0 or 1. Numbers are ordered on the real line with SYSMIS below
// every other number; strings are compared bytewise
func Compare(a, b Value) int {
	if a.s == nil {
		return CompareNum(a.f, b.Num())
	}
	return bytes.Compare(a.s, b.Bytes())
}

// CompareNum orders numbers with SYSMIS as the smallest value
func CompareNum(a, b float64) int {
	switch {
	case a == b:
		return 0
	case a == SYSMIS:
		return -1
	case b == SYSMIS:
		return 1
	case a < b:
		return -1
	default:
		return 1
	}
}

// String is a debugging representation
func (v Value) String() string {
	if v.s != nil {
		return strconv.Quote(string(v.s))
	}
	if v.f == SYSMIS {
		return "."
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}
