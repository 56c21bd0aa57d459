/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
)

// NewMoments returns an accumulator of moments up to highest
func NewMoments(highest Moment) *Moments {
	return &Moments{max: highest}
}

// New returns a covariance accumulator over numeric vars. Cases are weighted by weight
// (nil for unit weights) and a value is missing if it is missing under exclude
func New(vars []*dict.Variable, weight *dict.Variable, exclude dict.MVClass, missing Missing, passes Passes) *Covariance {
	if len(vars) == 0 {
		panic("covariance of no variables")
	}
	for _, v := range vars {
		if !v.IsNumeric() {
			panic(dict.ErrInvalid("covariance of string variable «%s»", v.Name()))
		}
	}
	k := len(vars)
	return &Covariance{
		vars:    vars,
		weight:  weight,
		exclude: exclude,
		missing: missing,
		passes:  passes,
		warn:    true,
		n:       mat.NewDense(k, k, nil),
		mean:    mat.NewDense(k, k, nil),
		ssq:     mat.NewDense(k, k, nil),
		cross:   mat.NewDense(k, k, nil),
	}
}
