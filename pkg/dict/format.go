/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// FormatType is an input/output format type
type FormatType int

const (
	FmtF FormatType = iota
	FmtComma
	FmtDot
	FmtDollar
	FmtPct
	FmtE
	FmtN
	FmtZ
	FmtDate
	FmtADate
	FmtEDate
	FmtSDate
	FmtTime
	FmtDateTime
	FmtA
	FmtAHex
)

// Format is a print or write format
type Format struct {
	Type FormatType
	W    int
	D    int
}

type formatInfo struct {
	name   string
	minW   int
	maxW   int
	str    bool
	hasDec bool
}

var formats = map[FormatType]formatInfo{
	FmtF:        {"F", 1, 40, false, true},
	FmtComma:    {"COMMA", 1, 40, false, true},
	FmtDot:      {"DOT", 1, 40, false, true},
	FmtDollar:   {"DOLLAR", 2, 40, false, true},
	FmtPct:      {"PCT", 2, 40, false, true},
	FmtE:        {"E", 6, 40, false, true},
	FmtN:        {"N", 1, 40, false, true},
	FmtZ:        {"Z", 1, 40, false, true},
	FmtDate:     {"DATE", 9, 40, false, false},
	FmtADate:    {"ADATE", 8, 40, false, false},
	FmtEDate:    {"EDATE", 8, 40, false, false},
	FmtSDate:    {"SDATE", 8, 40, false, false},
	FmtTime:     {"TIME", 5, 40, false, true},
	FmtDateTime: {"DATETIME", 17, 40, false, true},
	FmtA:        {"A", 1, value.MaxStringWidth, true, false},
	FmtAHex:     {"AHEX", 2, 2 * value.MaxStringWidth, true, false},
}

// DefaultFormat returns F8.2 for numeric widths and Aw for strings
func DefaultFormat(width int) Format {
	if width == value.NumericWidth {
		return Format{Type: FmtF, W: 8, D: 2}
	}
	return Format{Type: FmtA, W: width}
}

// IsString returns true for formats of string variables
func (f Format) IsString() bool {
	return formats[f.Type].str
}

// VarWidth returns the variable width the format applies to
func (f Format) VarWidth() int {
	switch f.Type {
	case FmtA:
		return f.W
	case FmtAHex:
		return f.W / 2
	}
	return value.NumericWidth
}

// CheckWidthCompat checks that the format can be used with a variable of the given width
func (f Format) CheckWidthCompat(width int) error {
	if err := f.Check(); err != nil {
		return err
	}
	if f.IsString() != (width > 0) {
		return ErrIncompatible("%s format used with variable of width %d", f, width)
	}
	if f.IsString() && f.VarWidth() != width {
		return ErrIncompatible("%s format used with string variable of width %d", f, width)
	}
	return nil
}

// Check validates width and decimals
func (f Format) Check() error {
	info, ok := formats[f.Type]
	if !ok {
		return ErrInvalid("unknown format type %d", f.Type)
	}
	if f.W < info.minW || f.W > info.maxW {
		return ErrInvalid("%s format width %d is outside [%d, %d]", info.name, f.W, info.minW, info.maxW)
	}
	if f.Type == FmtAHex && f.W%2 != 0 {
		return ErrInvalid("AHEX format width %d is odd", f.W)
	}
	if f.D < 0 || (!info.hasDec && f.D > 0) || (f.D > 0 && f.D >= f.W) {
		return ErrInvalid("format %s has bad decimals", f)
	}
	return nil
}

func (f Format) String() string {
	info := formats[f.Type]
	if info.hasDec && !info.str {
		return fmt.Sprintf("%s%d.%d", info.name, f.W, f.D)
	}
	return fmt.Sprintf("%s%d", info.name, f.W)
}

// ParseFormat parses specifications like F8.2, A10 or DATE11
func ParseFormat(s string) (Format, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := strings.IndexAny(s, "0123456789")
	if i <= 0 {
		return Format{}, ErrInvalid("format «%s»", s)
	}
	name, spec := s[:i], s[i:]
	f := Format{Type: -1}
	for t, info := range formats {
		if info.name == name {
			f.Type = t
			break
		}
	}
	if f.Type < 0 {
		return Format{}, ErrInvalid("unknown format type «%s»", name)
	}
	w, d, hasDot := strings.Cut(spec, ".")
	var err error
	if f.W, err = strconv.Atoi(w); err != nil {
		return Format{}, ErrInvalid("format «%s»: %v", s, err)
	}
	if hasDot {
		if f.D, err = strconv.Atoi(d); err != nil {
			return Format{}, ErrInvalid("format «%s»: %v", s, err)
		}
	}
	return f, f.Check()
}
