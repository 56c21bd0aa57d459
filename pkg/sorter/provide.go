/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package sorter

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/pagestore"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

// NewWriter returns a writer whose reader yields the written cases sorted by sc.
// Equal cases keep the order they were written in. A nil cfg means settings.Default()
func NewWriter(sc *subcase.Subcase, proto *caseproto.Proto, cfg *settings.Settings) *casestream.Writer {
	if cfg == nil {
		cfg = settings.Default()
	}
	sink := &sortSink{
		sc:       sc.Clone(),
		proto:    proto,
		cfg:      cfg,
		metrics:  imetrics.Global(),
		capacity: cfg.SortBuffers(pagestore.CaseBytes(proto)),
	}
	return casestream.NewWriter(sink, proto, cfg)
}

// Execute sorts input by sc and destroys it
func Execute(input *casestream.Reader, sc *subcase.Subcase) *casestream.Reader {
	w := NewWriter(sc, input.Proto(), input.Settings())
	input.Transfer(w)
	return w.MakeReader()
}

// Execute1Var sorts input ascending by v and destroys it
func Execute1Var(input *casestream.Reader, v *dict.Variable) *casestream.Reader {
	return Execute(input, subcase.NewVars([]*dict.Variable{v}, subcase.Ascend))
}
