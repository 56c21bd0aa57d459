/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"fmt"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// NewMissingValues returns an empty set for values of the given width
func NewMissingValues(width int) MissingValues {
	return MissingValues{width: width}
}

// Width returns the width of values in the set
func (mv *MissingValues) Width() int { return mv.width }

// IsEmpty returns true if there are no user-missing values
func (mv *MissingValues) IsEmpty() bool { return mv.n == 0 && !mv.hasRange }

// NValues returns the number of discrete values
func (mv *MissingValues) NValues() int { return mv.n }

// Value returns discrete value i
func (mv *MissingValues) Value(i int) value.Value { return mv.values[i] }

// Values returns the discrete values
func (mv *MissingValues) Values() []value.Value {
	res := make([]value.Value, mv.n)
	copy(res, mv.values[:mv.n])
	return res
}

// HasRange returns true if the set contains a range
func (mv *MissingValues) HasRange() bool { return mv.hasRange }

// Range returns the range bounds
func (mv *MissingValues) Range() (low, high float64) { return mv.low, mv.high }

// Clear removes all values
func (mv *MissingValues) Clear() {
	*mv = MissingValues{width: mv.width}
}

// IsAcceptable returns true if v, of the set's width, may be added.
// Bytes of string values beyond MVMaxString must be spaces
func (mv *MissingValues) IsAcceptable(v value.Value) bool {
	if v.Width() != mv.width {
		return false
	}
	if v.IsNum() {
		return true
	}
	for _, c := range v.Bytes()[min(MVMaxString, mv.width):] {
		if c != ' ' {
			return false
		}
	}
	return true
}

// AddValue adds a discrete value. Returns false if there is no room or v is not acceptable
func (mv *MissingValues) AddValue(v value.Value) bool {
	if !mv.IsAcceptable(v) {
		return false
	}
	limit := 3
	if mv.hasRange {
		limit = 1
	}
	if mv.n >= limit {
		return false
	}
	mv.values[mv.n] = v.Clone()
	mv.n++
	return true
}

// AddNum adds a numeric discrete value
func (mv *MissingValues) AddNum(f float64) bool {
	if mv.width != value.NumericWidth {
		panic("numeric missing value for string variable")
	}
	return mv.AddValue(value.Num(f))
}

// AddStr adds a string discrete value. s may be longer than the width if the excess is spaces
func (mv *MissingValues) AddStr(s []byte) bool {
	if mv.width == value.NumericWidth {
		panic("string missing value for numeric variable")
	}
	for len(s) > mv.width {
		if s[len(s)-1] != ' ' {
			return false
		}
		s = s[:len(s)-1]
	}
	return mv.AddValue(value.Str(s, mv.width))
}

// AddRange adds [low, high]. Only possible for numeric sets with at most one discrete value
func (mv *MissingValues) AddRange(low, high float64) bool {
	if mv.width != value.NumericWidth {
		panic("missing range for string variable")
	}
	if low > high || mv.hasRange || mv.n > 1 {
		return false
	}
	mv.hasRange = true
	mv.low, mv.high = low, high
	return true
}

// IsResizable returns true if every value survives a resize to width
func (mv *MissingValues) IsResizable(width int) bool {
	if (mv.width == value.NumericWidth) != (width == value.NumericWidth) {
		return mv.IsEmpty()
	}
	for i := 0; i < mv.n; i++ {
		if mv.values[i].NeedsResize(mv.width, width) {
			return false
		}
	}
	return true
}

// Resize changes the width of the set. Panics unless IsResizable
func (mv *MissingValues) Resize(width int) {
	if !mv.IsResizable(width) {
		panic(fmt.Sprintf("missing values of width %d can't be resized to %d", mv.width, width))
	}
	for i := 0; i < mv.n; i++ {
		mv.values[i] = mv.values[i].Resize(width)
	}
	mv.width = width
}

// IsValueMissing returns true if v is missing under class
func (mv *MissingValues) IsValueMissing(v value.Value, class MVClass) bool {
	if v.IsNum() {
		return mv.IsNumMissing(v.Num(), class)
	}
	return mv.IsStrMissing(v.Bytes(), class)
}

// IsNumMissing returns true if f is missing under class
func (mv *MissingValues) IsNumMissing(f float64, class MVClass) bool {
	if f == value.SYSMIS {
		return class&MVSystem != 0
	}
	return class&MVUser != 0 && mv.isNumUserMissing(f)
}

// IsStrMissing returns true if s is missing under class. An all-spaces string is system-missing
func (mv *MissingValues) IsStrMissing(s []byte, class MVClass) bool {
	if class&MVSystem != 0 && isBlank(s) {
		return true
	}
	if class&MVUser == 0 {
		return false
	}
	for i := 0; i < mv.n; i++ {
		if string(mv.values[i].Bytes()) == string(s) {
			return true
		}
	}
	return false
}

func (mv *MissingValues) isNumUserMissing(f float64) bool {
	for i := 0; i < mv.n; i++ {
		if mv.values[i].Num() == f {
			return true
		}
	}
	return mv.hasRange && mv.low <= f && f <= mv.high
}

func (mv *MissingValues) String() string {
	parts := make([]string, 0, 3)
	if mv.hasRange {
		low, high := "LO", "HI"
		if mv.low != value.LOWEST {
			low = value.Num(mv.low).String()
		}
		if mv.high != value.HIGHEST {
			high = value.Num(mv.high).String()
		}
		parts = append(parts, low+" THRU "+high)
	}
	for i := 0; i < mv.n; i++ {
		parts = append(parts, mv.values[i].String())
	}
	return strings.Join(parts, "; ")
}

func isBlank(s []byte) bool {
	for _, c := range s {
		if c != ' ' {
			return false
		}
	}
	return true
}
