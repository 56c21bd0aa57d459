/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func (s *source) Read(_ *casestream.Reader) (*ccase.Case, error) {
	record, err := s.next()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, ErrParse(s.line+1, "%v", err)
	}
	return s.parse(record)
}

func (s *source) Destroy(_ *casestream.Reader) error {
	s.pending = nil
	return nil
}

func (s *source) next() ([]string, error) {
	if len(s.pending) > 0 {
		rec := s.pending[0]
		s.pending = s.pending[1:]
		s.line++
		return rec, nil
	}
	rec, err := s.csv.Read()
	if err == nil {
		s.line++
	}
	return rec, err
}

func (s *source) parse(record []string) (*ccase.Case, error) {
	if len(record) != s.d.NVars() {
		return nil, ErrParse(s.line, "%d fields, expected %d", len(record), s.d.NVars())
	}
	c := s.d.NewCase()
	for i, cell := range record {
		v := s.d.Var(i)
		if v.IsNumeric() {
			f, err := parseNum(cell)
			if err != nil {
				c.Unref()
				return nil, ErrParse(s.line, "«%s»: %v", v.Name(), err)
			}
			c.SetNum(i, f)
			continue
		}
		b, err := s.encoder.Bytes([]byte(cell))
		if err != nil {
			c.Unref()
			return nil, ErrParse(s.line, "«%s»: %v", v.Name(), err)
		}
		if len(b) > v.Width() && !s.warned {
			logger.Warning(fmt.Sprintf("line %d: value of «%s» is longer than %d bytes and was truncated", s.line, v.Name(), v.Width()))
			s.warned = true
		}
		c.SetValue(i, value.Str(b, v.Width()))
	}
	return c, nil
}

func (s *sink) Write(_ *casestream.Writer, c *ccase.Case) error {
	defer c.Unref()
	for i := range s.record {
		cell, err := s.cell(s.d.Var(i), c.Value(i))
		if err != nil {
			return err
		}
		s.record[i] = cell
	}
	return s.csv.Write(s.record)
}

func (s *sink) Destroy(_ *casestream.Writer) error {
	return s.close()
}

func (s *sink) MakeReader(w *casestream.Writer) (*casestream.Reader, error) {
	if err := s.close(); err != nil {
		return nil, err
	}
	return casestream.NewEmpty(w.Proto(), nil), nil
}

func (s *sink) close() error {
	if s.out == nil {
		return nil
	}
	s.csv.Flush()
	err := s.csv.Error()
	if cerr := s.out.Close(); err == nil {
		err = cerr
	}
	s.out = nil
	return err
}

func (s *sink) header() []string {
	header := make([]string, s.d.NVars())
	for i, v := range s.d.Vars() {
		header[i] = v.Name()
		if s.opts.TypedHeader || v.IsString() {
			header[i] = fmt.Sprintf("%s(%s)", v.Name(), v.PrintFormat())
		}
	}
	return header
}

func (s *sink) cell(v *dict.Variable, val value.Value) (string, error) {
	if s.opts.Labels {
		if label, ok := v.LookupValueLabel(val); ok {
			return label, nil
		}
	}
	if val.IsNum() {
		return s.formatNum(val.Num(), v.PrintFormat()), nil
	}
	b, err := s.decoder.Bytes(val.Bytes())
	if err != nil {
		return "", fmt.Errorf("«%s»: %w", v.Name(), err)
	}
	return string(trimRight(b)), nil
}

func (s *sink) formatNum(f float64, format dict.Format) string {
	if f == value.SYSMIS {
		return ""
	}
	if s.opts.Formatted && !format.IsString() {
		return strconv.FormatFloat(f, 'f', format.D, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
