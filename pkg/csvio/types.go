/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
)

// Options configure reading and writing CSV files
type Options struct {
	// Encoding of the file, UTF-8 if empty. Dictionaries made by Open use it for string cells
	Encoding string

	// Comma is the field delimiter, ',' if zero
	Comma rune

	// SniffRows is the number of data rows used to infer the types of columns the header does not annotate
	SniffRows int

	// TypedHeader makes writers annotate every header cell with the print format, as in "x(F8.2)"
	TypedHeader bool

	// Labels makes writers output value labels instead of values that have one
	Labels bool

	// Formatted makes writers round numbers to the decimals of their print format
	Formatted bool
}

type source struct {
	csv     *csv.Reader
	d       *dict.Dictionary
	encoder *encoding.Encoder
	pending [][]string
	line    int
	warned  bool
}

type sink struct {
	csv     *csv.Writer
	out     io.WriteCloser
	d       *dict.Dictionary
	decoder *encoding.Decoder
	opts    Options
	record  []string
}
