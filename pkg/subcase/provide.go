/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package subcase

import "github.com/lemenkov/pspp-sub003/pkg/dict"

// New returns an empty subcase
func New() *Subcase {
	return &Subcase{}
}

// NewField returns a subcase of one field
func NewField(index, width int, dir Direction) *Subcase {
	sc := New()
	sc.AddAlways(index, width, dir)
	return sc
}

// NewVars returns a subcase over vars, all in direction dir
func NewVars(vars []*dict.Variable, dir Direction) *Subcase {
	sc := New()
	for _, v := range vars {
		sc.AddVar(v, dir)
	}
	return sc
}
