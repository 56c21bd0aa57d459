/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/transform"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

// Open reads a CSV file with a header row. Each header cell names a variable and may give its
// format in parentheses, as in "name(A8)" or "x(F8.2)". Columns without a format are numeric
// if every non-empty cell of the first Options.SniffRows rows is a number, strings as wide as
// their longest cell otherwise
func Open(in io.Reader, opts Options, cfg *settings.Settings) (*dict.Dictionary, *casestream.Reader, error) {
	src, err := newSource(in, opts)
	if err != nil {
		return nil, nil, err
	}
	header, err := src.csv.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeaderError
	}
	if err != nil {
		return nil, nil, ErrParse(1, "%v", err)
	}
	src.line = 1
	sniffRows := opts.SniffRows
	if sniffRows <= 0 {
		sniffRows = DefaultSniffRows
	}
	for len(src.pending) < sniffRows {
		rec, err := src.csv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, ErrParse(src.line+len(src.pending)+1, "%v", err)
		}
		src.pending = append(src.pending, rec)
	}
	d, err := dictionary(header, src.pending, opts.Encoding)
	if err != nil {
		return nil, nil, err
	}
	src.d = d
	src.encoder = d.Encoder().NewEncoder()
	return d, casestream.NewSequential(src, d.Proto(), casestream.UnknownCount, cfg), nil
}

// NewReader reads the records of a CSV file without a header as cases of d.
// String cells are converted from the file encoding to the encoding of d
func NewReader(in io.Reader, d *dict.Dictionary, opts Options, cfg *settings.Settings) (*casestream.Reader, error) {
	src, err := newSource(in, opts)
	if err != nil {
		return nil, err
	}
	src.d = d
	src.encoder = d.Encoder().NewEncoder()
	return casestream.NewSequential(src, d.Proto(), casestream.UnknownCount, cfg), nil
}

// NewWriter returns a writer of the cases of d to out as CSV, starting with a header row.
// Destroy flushes the output; MakeReader flushes it and returns an empty reader
func NewWriter(out io.Writer, d *dict.Dictionary, opts Options, cfg *settings.Settings) (*casestream.Writer, error) {
	enc, err := dict.LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	s := &sink{
		out:     transform.NewWriter(out, enc.NewEncoder()),
		d:       d,
		decoder: d.Encoder().NewDecoder(),
		opts:    opts,
		record:  make([]string, d.NVars()),
	}
	s.csv = csv.NewWriter(s.out)
	if opts.Comma != 0 {
		s.csv.Comma = opts.Comma
	}
	if err := s.csv.Write(s.header()); err != nil {
		return nil, err
	}
	return casestream.NewWriter(s, d.Proto(), cfg), nil
}

func newSource(in io.Reader, opts Options) (*source, error) {
	enc, err := dict.LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(transform.NewReader(in, enc.NewDecoder()))
	r.FieldsPerRecord = -1
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	return &source{csv: r}, nil
}
