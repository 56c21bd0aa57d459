/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/covariance"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

type descAccumulator struct {
	v       *dict.Variable
	moments *covariance.Moments
	min     float64
	max     float64
	sum     float64
}

// Descriptives computes univariate statistics of numeric variables, one result per split
// group. Consumes ds.Reader
func Descriptives(ds Dataset, opts DescriptivesOptions) ([]DescriptivesResult, error) {
	if len(opts.Vars) == 0 {
		ds.Reader.Destroy()
		return nil, procError(procDescriptives, ErrInvalidOptions("no variables"))
	}
	vars, err := lookupNumeric(ds.Dict, opts.Vars)
	if err != nil {
		ds.Reader.Destroy()
		return nil, procError(procDescriptives, err)
	}
	if opts.Exclude == dict.MVNone {
		opts.Exclude = dict.MVAny
	}

	var res []DescriptivesResult
	warn := true
	err = ForEachSplit(ds, func(split SplitGroup, r *casestream.Reader) error {
		r = casestream.FilterWeight(r, ds.Dict, &warn, nil)
		if opts.Listwise {
			r = casestream.FilterMissing(r, vars, opts.Exclude, nil, nil)
		}
		accs := make([]*descAccumulator, len(vars))
		for i, v := range vars {
			accs[i] = &descAccumulator{v: v, moments: covariance.NewMoments(covariance.MomentKurtosis), min: value.SYSMIS, max: value.SYSMIS}
		}
		validN := 0.0
		for c := r.Read(); c != nil; c = r.Read() {
			w := dict.CaseWeight(ds.Dict.Weight(), c, nil)
			valid := true
			for _, a := range accs {
				valid = a.add(c, w, opts.Exclude) && valid
			}
			if valid {
				validN += w
			}
			c.Unref()
		}
		err := r.Err()
		if !r.Destroy() {
			return readerErr(err)
		}
		dr := DescriptivesResult{Split: split, ValidN: validN}
		for _, a := range accs {
			dr.Vars = append(dr.Vars, a.result())
		}
		res = append(res, dr)
		return nil
	})
	if err != nil {
		return nil, procError(procDescriptives, err)
	}
	return res, nil
}

func (a *descAccumulator) add(c *ccase.Case, w float64, exclude dict.MVClass) bool {
	x := a.v.Num(c)
	if a.v.IsNumMissing(x, exclude) {
		return false
	}
	a.moments.Add(x, w)
	a.sum += w * x
	if a.min == value.SYSMIS || x < a.min {
		a.min = x
	}
	if a.max == value.SYSMIS || x > a.max {
		a.max = x
	}
	return true
}

func (a *descAccumulator) result() Descriptive {
	d := Descriptive{Var: a.v, Min: a.min, Max: a.max, Sum: a.sum, Stats: a.moments.Calculate()}
	if d.Stats.W <= 0 {
		d.Sum = value.SYSMIS
	}
	return d
}
