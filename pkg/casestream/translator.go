/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"fmt"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// TranslateFunc turns one case of the upstream reader into one case of the translator's proto.
// It takes ownership of its argument
type TranslateFunc func(c *ccase.Case) *ccase.Case

// IndexedTranslateFunc is a TranslateFunc that also gets the 0-based position of the case in the stream
type IndexedTranslateFunc func(c *ccase.Case, idx int64) *ccase.Case

// translatorSource keeps state between cases, so every clone of it reads through a shim
type translatorSource struct {
	sub       *Reader
	translate TranslateFunc
	destroy   func() error
}

func (t *translatorSource) Read(_ *Reader) (*ccase.Case, error) {
	c := t.sub.Read()
	if c == nil {
		return nil, nil
	}
	return t.translate(c), nil
}

func (t *translatorSource) Destroy(_ *Reader) error {
	t.sub.Destroy()
	if t.destroy != nil {
		return t.destroy()
	}
	return nil
}

// statelessShared is shared by the clones of a stateless translator
type statelessShared struct {
	translate IndexedTranslateFunc
	destroy   func() error
	refs      int
}

type statelessSource struct {
	shared *statelessShared
	sub    *Reader
	pos    int64
}

func (t *statelessSource) Read(_ *Reader) (*ccase.Case, error) {
	c := t.sub.Read()
	if c == nil {
		return nil, nil
	}
	res := t.shared.translate(c, t.pos)
	t.pos++
	return res, nil
}

func (t *statelessSource) Peek(_ *Reader, idx int64) (*ccase.Case, error) {
	c := t.sub.Peek(idx)
	if c == nil {
		return nil, nil
	}
	return t.shared.translate(c, t.pos+idx), nil
}

func (t *statelessSource) Clone(r *Reader) *Reader {
	t.shared.refs++
	clone := &statelessSource{shared: t.shared, sub: t.sub.Clone(), pos: t.pos}
	res := newReader(clone, r.proto, r.nCases, r.cfg, nil)
	taint.Propagate(clone.sub.taint, res.taint)
	return res
}

func (t *statelessSource) Destroy(_ *Reader) error {
	t.sub.Destroy()
	t.shared.refs--
	if t.shared.refs == 0 && t.shared.destroy != nil {
		return t.shared.destroy()
	}
	return nil
}

// NewTranslator returns a reader of proto cases produced by translate from the cases of sub,
// one for one. translate may keep state between calls. destroy, if not nil, is called when the
// reader is destroyed
func NewTranslator(sub *Reader, proto *caseproto.Proto, translate TranslateFunc, destroy func() error) *Reader {
	r := newReader(&translatorSource{sub: sub, translate: translate, destroy: destroy}, proto, sub.nCases, sub.cfg, nil)
	taint.Propagate(sub.taint, r.taint)
	return r
}

// NewStatelessTranslator is NewTranslator for a translate function that depends only on the case
// and its position. Clones and look-ahead go straight to sub, so random access is preserved.
// destroy is called once the last clone is destroyed
func NewStatelessTranslator(sub *Reader, proto *caseproto.Proto, translate IndexedTranslateFunc, destroy func() error) *Reader {
	src := &statelessSource{shared: &statelessShared{translate: translate, destroy: destroy, refs: 1}, sub: sub}
	r := newReader(src, proto, sub.nCases, sub.cfg, nil)
	taint.Propagate(sub.taint, r.taint)
	return r
}

// Project returns a reader of cases made of the fields of sc, in field order.
// Returns sub itself if sc lists every slot of sub in natural order
func Project(sub *Reader, sc *subcase.Subcase) *Reader {
	if isIdentity(sc, sub.proto) {
		return sub
	}
	sc = sc.Clone()
	return NewStatelessTranslator(sub, sc.Proto(), func(c *ccase.Case, _ int64) *ccase.Case {
		res := sc.Project(c)
		c.Unref()
		return res
	}, nil)
}

// Resize returns a reader of proto cases, widening the string slots of sub that are narrower
// in proto. Returns sub itself if nothing is to be widened
func Resize(sub *Reader, proto *caseproto.Proto) *Reader {
	if sub.proto.Equal(proto) {
		return sub
	}
	mask := sub.proto.NarrowerStringWidths(proto)
	if !mask.Any() {
		panic(fmt.Sprintf("resizing %v to %v narrows strings", sub.proto, proto))
	}
	return NewStatelessTranslator(sub, proto, func(c *ccase.Case, _ int64) *ccase.Case {
		return c.UnshareAndResize(proto)
	}, nil)
}

// AppendNumeric returns a reader of the cases of sub with one more numeric slot set to compute(c, idx),
// where idx is the 0-based position of the case
func AppendNumeric(sub *Reader, compute func(c *ccase.Case, idx int64) float64, destroy func() error) *Reader {
	proto := sub.proto.AddWidth(0)
	n := sub.proto.N()
	return NewStatelessTranslator(sub, proto, func(c *ccase.Case, idx int64) *ccase.Case {
		f := compute(c, idx)
		c = c.UnshareAndResize(proto)
		c.SetNum(n, f)
		return c
	}, destroy)
}

// AppendArithmetic appends a numeric slot holding first, first+inc, first+2*inc, ...
func AppendArithmetic(sub *Reader, first, inc float64) *Reader {
	return AppendNumeric(sub, func(_ *ccase.Case, idx int64) float64 {
		return first + float64(idx)*inc
	}, nil)
}

// Counter returns sub, counting the cases read into *counter starting from initial
func Counter(sub *Reader, counter *int64, initial int64) *Reader {
	*counter = initial
	return NewTranslator(sub, sub.proto, func(c *ccase.Case) *ccase.Case {
		*counter++
		return c
	}, nil)
}

// Select returns a reader of cases first, first+step, ... not beyond last of sub, counted from 1.
// last < 0 means no limit
func Select(sub *Reader, first, last, step int64) *Reader {
	if step < 1 || first < 1 {
		panic(fmt.Sprintf("invalid case selection %d, %d, %d", first, last, step))
	}
	sub.Advance(first - 1)
	if last >= 0 {
		sub.Truncate(max(0, last-first+1))
	}
	if step == 1 {
		return sub
	}
	var n int64
	return Filter(sub, func(_ *ccase.Case) bool {
		ok := n%step == 0
		n++
		return ok
	}, nil, nil)
}

func isIdentity(sc *subcase.Subcase, proto *caseproto.Proto) bool {
	if sc.NFields() != proto.N() {
		return false
	}
	for i := 0; i < sc.NFields(); i++ {
		f := sc.Field(i)
		if f.Index != i || f.Width != proto.Width(i) {
			return false
		}
	}
	return true
}
