/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// DistinctFunc is called once per tie block with the block's value, number of cases and total weight
type DistinctFunc func(val float64, n int64, weight float64)

type appendRank struct {
	sub      *Reader
	varIdx   int
	weight   *dict.Variable
	opts     rank.Options
	errs     *rank.Error
	distinct DistinctFunc

	nCommon  int64
	block    rank.Block
	rank     float64
	prev     float64
	havePrev bool
}

// AppendRank returns the cases of sub, which must be sorted on v, with one more numeric slot holding
// the rank of v under ties. w is the weight variable or nil. Problems with the input are added to
// *errs if it is not nil. distinct, if not nil, is called once per tie block
func AppendRank(sub *Reader, v, w *dict.Variable, ties rank.Ties, errs *rank.Error, distinct DistinctFunc) *Reader {
	ar := &appendRank{
		sub:      sub,
		varIdx:   v.CaseIndex(),
		weight:   w,
		opts:     rank.Options{Ties: ties},
		errs:     errs,
		distinct: distinct,
	}
	proto := sub.proto.AddWidth(value.NumericWidth)
	n := sub.proto.N()
	return NewTranslator(sub, proto, func(c *ccase.Case) *ccase.Case {
		r := ar.translate(c)
		c = c.UnshareAndResize(proto)
		c.SetNum(n, r)
		return c
	}, nil)
}

func (ar *appendRank) translate(c *ccase.Case) float64 {
	val := c.Num(ar.varIdx)
	if ar.havePrev && val < ar.prev {
		ar.flag(rank.TiesIgnored)
	}
	ar.prev, ar.havePrev = val, true

	if ar.nCommon > 1 {
		ar.nCommon--
		return ar.rank
	}

	weight := ar.caseWeight(c)
	ar.nCommon = 1
	for k := int64(0); ; k++ {
		next := ar.sub.Peek(k)
		if next == nil {
			break
		}
		same := next.Num(ar.varIdx) == val
		if same {
			weight += ar.caseWeight(next)
			ar.nCommon++
		}
		next.Unref()
		if !same {
			break
		}
	}
	ar.block = rank.Block{C: weight, CC1: ar.block.CC, CC: ar.block.CC + weight, I: ar.block.I + 1}
	ar.rank = ar.opts.Rank(ar.block)
	if ar.distinct != nil {
		ar.distinct(val, ar.nCommon, weight)
	}
	return ar.rank
}

func (ar *appendRank) caseWeight(c *ccase.Case) float64 {
	if ar.weight == nil {
		return 1
	}
	w := c.Num(ar.weight.CaseIndex())
	if w < 0 {
		ar.flag(rank.NegativeWeight)
	}
	return w
}

func (ar *appendRank) flag(e rank.Error) {
	if ar.errs != nil {
		*ar.errs |= e
	}
}

type distinctSource struct {
	sub       *Reader
	key       *dict.Variable
	weightIdx int
	n         int
}

// Distinct returns one case per run of cases of sub with equal key, the last of the run.
// The total weight of the run replaces the value of weight, or is appended as a numeric slot
// if weight is nil. sub must be sorted on key
func Distinct(sub *Reader, key, weight *dict.Variable) *Reader {
	src := &distinctSource{sub: sub, key: key, weightIdx: -1, n: sub.proto.N()}
	proto := sub.proto
	if weight != nil {
		src.weightIdx = weight.CaseIndex()
	} else {
		proto = proto.AddWidth(value.NumericWidth)
	}
	nCases := int64(UnknownCount)
	if sub.nCases == 0 {
		nCases = 0
	}
	r := newReader(src, proto, nCases, sub.cfg, nil)
	taint.Propagate(sub.taint, r.taint)
	return r
}

func (d *distinctSource) Read(r *Reader) (*ccase.Case, error) {
	var cc float64
	idx := d.key.CaseIndex()
	for {
		c := d.sub.Read()
		if c == nil {
			return nil, nil
		}
		if d.weightIdx >= 0 {
			cc += c.Num(d.weightIdx)
		} else {
			cc++
		}
		next := d.sub.Peek(0)
		if next != nil {
			same := next.Value(idx).Equal(c.Value(idx))
			next.Unref()
			if same {
				c.Unref()
				continue
			}
		}
		if d.weightIdx >= 0 {
			c = c.Unshare()
			c.SetNum(d.weightIdx, cc)
		} else {
			c = c.UnshareAndResize(r.proto)
			c.SetNum(d.n, cc)
		}
		return c, nil
	}
}

func (d *distinctSource) Destroy(_ *Reader) error {
	d.sub.Destroy()
	return nil
}
