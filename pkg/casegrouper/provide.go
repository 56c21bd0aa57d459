/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casegrouper

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

// NewFunc groups reader by sameGroup. A nil sameGroup makes the whole reader one group,
// none if it is empty. destroy, if not nil, is called by Destroy
func NewFunc(reader *casestream.Reader, sameGroup SameGroupFunc, destroy func()) *Grouper {
	return &Grouper{reader: reader, sameGroup: sameGroup, destroy: destroy, taint: reader.Taint().Clone()}
}

// NewBySubcase groups reader, which must be sorted by sc, into runs equal under sc
func NewBySubcase(reader *casestream.Reader, sc *subcase.Subcase) *Grouper {
	if sc.IsEmpty() {
		return NewFunc(reader, nil, nil)
	}
	sc = sc.Clone()
	return NewFunc(reader, func(a, b *ccase.Case) bool { return sc.Equal(a, b) }, nil)
}

// NewByVars groups reader into runs with equal values of vars
func NewByVars(reader *casestream.Reader, vars []*dict.Variable) *Grouper {
	return NewBySubcase(reader, subcase.NewVars(vars, subcase.Ascend))
}

// NewSplits groups reader by the split variables of d
func NewSplits(reader *casestream.Reader, d *dict.Dictionary) *Grouper {
	return NewByVars(reader, d.SplitVars())
}
