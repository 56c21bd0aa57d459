/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// FromReader feeds every case of r to cv, reading a clone of r for the first pass of a
// two-pass accumulator, and destroys r. A reader error is returned as is
func FromReader(r *casestream.Reader, cv *Covariance) (*Matrices, error) {
	if cv.passes == TwoPass {
		pass1 := r.Clone()
		for c := pass1.Read(); c != nil; c = pass1.Read() {
			cv.AccumulatePass1(c)
			c.Unref()
		}
		err := pass1.Err()
		if err == nil {
			err = r.Err()
		}
		if !pass1.Destroy() {
			r.Destroy()
			return nil, streamErr(err)
		}
	}
	for c := r.Read(); c != nil; c = r.Read() {
		if cv.passes == TwoPass {
			cv.AccumulatePass2(c)
		} else {
			cv.Accumulate(c)
		}
		c.Unref()
	}
	err := r.Err()
	if !r.Destroy() {
		return nil, streamErr(err)
	}
	return cv.Calculate()
}

func streamErr(err error) error {
	if err == nil {
		return casestream.ErrTaintedError
	}
	return err
}

// Significance returns the significance of correlation r over a sample of weight w,
// tails is OneTailed or TwoTailed. SYSMIS if undefined
func Significance(r, w float64, tails int) float64 {
	if r == value.SYSMIS || w <= 2 {
		return value.SYSMIS
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt((w-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: w - 2}
	return float64(tails) * dist.CDF(-math.Abs(t))
}
