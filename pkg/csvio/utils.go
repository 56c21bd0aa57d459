/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// dictionary makes the dictionary of a file from its header and first rows
func dictionary(header []string, rows [][]string, encoding string) (*dict.Dictionary, error) {
	d, err := dict.New(encoding)
	if err != nil {
		return nil, err
	}
	enc := d.Encoder().NewEncoder()
	for col, cell := range header {
		name, format, err := parseHeaderCell(cell)
		if err != nil {
			return nil, headerErr(col, err)
		}
		if format == nil {
			f := sniff(rows, col, func(s string) int {
				b, err := enc.String(s)
				if err != nil {
					return len(s)
				}
				return len(b)
			})
			format = &f
		}
		v, err := d.AddVar(name, format.VarWidth())
		if err != nil {
			return nil, headerErr(col, err)
		}
		if err := v.SetBothFormats(*format); err != nil {
			return nil, headerErr(col, err)
		}
	}
	return d, nil
}

func headerErr(col int, err error) error {
	return fmt.Errorf("header column %d: %w", col+1, err)
}

// parseHeaderCell splits "name(FORMAT)" into the name and the format, nil if not given
func parseHeaderCell(cell string) (string, *dict.Format, error) {
	cell = strings.TrimSpace(cell)
	open := strings.IndexByte(cell, '(')
	if open < 0 || !strings.HasSuffix(cell, ")") {
		return cell, nil, nil
	}
	f, err := dict.ParseFormat(cell[open+1 : len(cell)-1])
	if err != nil {
		return "", nil, err
	}
	if err := f.Check(); err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(cell[:open]), &f, nil
}

// sniff returns the format of column col: F8.2 if all its non-missing cells are numbers,
// otherwise a string format as wide as the widest cell
func sniff(rows [][]string, col int, byteLen func(string) int) dict.Format {
	numeric := true
	width := 1
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := row[col]
		width = max(width, byteLen(cell))
		if _, err := parseNum(cell); err != nil {
			numeric = false
		}
	}
	if numeric {
		return dict.DefaultFormat(value.NumericWidth)
	}
	return dict.DefaultFormat(min(width, value.MaxStringWidth))
}

func parseNum(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == sysmisCell {
		return value.SYSMIS, nil
	}
	return strconv.ParseFloat(cell, 64)
}

func trimRight(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return b
}
