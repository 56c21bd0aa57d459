/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

type filterSource struct {
	sub     *Reader
	include func(*ccase.Case) bool
	destroy func() error
	exclude *Writer
}

func (f *filterSource) Read(_ *Reader) (*ccase.Case, error) {
	for {
		c := f.sub.Read()
		if c == nil {
			return nil, nil
		}
		if f.include(c) {
			return c, nil
		}
		f.reject(c)
	}
}

// Destroy sends the cases not read yet that would be excluded to the exclude writer
func (f *filterSource) Destroy(_ *Reader) error {
	if f.exclude != nil {
		for c := f.sub.Read(); c != nil; c = f.sub.Read() {
			if f.include(c) {
				c.Unref()
			} else {
				f.exclude.Write(c)
			}
		}
	}
	f.sub.Destroy()
	if f.destroy != nil {
		return f.destroy()
	}
	return nil
}

func (f *filterSource) reject(c *ccase.Case) {
	if f.exclude != nil {
		f.exclude.Write(c)
	} else {
		c.Unref()
	}
}

// Filter returns a reader of the cases of sub for which include returns true.
// Other cases go to exclude unless it is nil; exclude stays owned by the caller and
// gets all excluded cases of sub once the returned reader is destroyed
func Filter(sub *Reader, include func(*ccase.Case) bool, destroy func() error, exclude *Writer) *Reader {
	nCases := int64(UnknownCount)
	if sub.nCases == 0 {
		nCases = 0
	}
	r := newReader(&filterSource{sub: sub, include: include, destroy: destroy, exclude: exclude}, sub.proto, nCases, sub.cfg, nil)
	taint.Propagate(sub.taint, r.taint)
	if exclude != nil {
		taint.Propagate(exclude.taint, r.taint)
	}
	return r
}

// FilterWeight drops the cases whose weight under d is missing, zero or negative.
// If warnOnInvalid is not nil and true, the first dropped case logs a warning and clears it.
// Returns sub if d is not weighted
func FilterWeight(sub *Reader, d *dict.Dictionary, warnOnInvalid *bool, exclude *Writer) *Reader {
	weight := d.Weight()
	if weight == nil {
		return sub
	}
	idx := weight.CaseIndex()
	return Filter(sub, func(c *ccase.Case) bool {
		w := c.Num(idx)
		if w > 0 && !weight.IsNumMissing(w, dict.MVAny) {
			return true
		}
		if warnOnInvalid != nil && *warnOnInvalid {
			logger.Warning(fmt.Sprintf("at least one case in the data read had a weight value that was user-missing, system-missing, zero, or negative; these case(s) were ignored (weight variable «%s»)", weight.Name()))
			*warnOnInvalid = false
		}
		return false
	}, nil, exclude)
}

// FilterMissing drops the cases where any of vars has a value missing under class.
// The number of dropped cases is added to *nMissing if it is not nil.
// Returns sub if vars is empty or class is dict.MVNone
func FilterMissing(sub *Reader, vars []*dict.Variable, class dict.MVClass, nMissing *int64, exclude *Writer) *Reader {
	if len(vars) == 0 || class == dict.MVNone {
		return sub
	}
	vars = append([]*dict.Variable(nil), vars...)
	return Filter(sub, func(c *ccase.Case) bool {
		for _, v := range vars {
			if v.IsValueMissing(c.Value(v.CaseIndex()), class) {
				if nMissing != nil {
					*nMissing++
				}
				return false
			}
		}
		return true
	}, nil, exclude)
}
