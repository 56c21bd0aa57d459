/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"math"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// NewSequential returns a reader over impl. nCases is the exact number of cases or UnknownCount.
// A nil cfg means settings.Default()
func NewSequential(impl Source, proto *caseproto.Proto, nCases int64, cfg *settings.Settings) *Reader {
	return newReader(impl, proto, nCases, cfg, nil)
}

// NewRandom returns a reader over a source with random access. Clones of the reader share src,
// which is told to Advance once every clone has read past a case
func NewRandom(proto *caseproto.Proto, nCases int64, src RandomSource, cfg *settings.Settings) *Reader {
	return newReader(newRandomShared(src).newSource(), proto, nCases, cfg, nil)
}

// NewEmpty returns a reader without cases
func NewEmpty(proto *caseproto.Proto, cfg *settings.Settings) *Reader {
	return NewRandom(proto, 0, &casesSource{}, cfg)
}

// FromCases returns a reader over cases, taking ownership of them
func FromCases(proto *caseproto.Proto, cases []*ccase.Case, cfg *settings.Settings) *Reader {
	for _, c := range cases {
		if !c.Proto().Equal(proto) {
			panic(ErrIncompatibleProto(c.Proto(), proto))
		}
	}
	return NewRandom(proto, int64(len(cases)), &casesSource{cases: cases}, cfg)
}

// NewMemWriter returns a writer keeping all cases in memory
func NewMemWriter(proto *caseproto.Proto, cfg *settings.Settings) *Writer {
	return newWindowWriter(proto, cfg, math.MaxInt64)
}

// NewTmpfileWriter returns a writer keeping all cases in a temporary page store
func NewTmpfileWriter(proto *caseproto.Proto, cfg *settings.Settings) *Writer {
	return newWindowWriter(proto, cfg, 0)
}

// NewAutopagingWriter returns a writer keeping cases in memory while they fit into the workspace,
// moving them to a temporary page store afterwards
func NewAutopagingWriter(proto *caseproto.Proto, cfg *settings.Settings) *Writer {
	if cfg == nil {
		cfg = settings.Default()
	}
	return newWindowWriter(proto, cfg, workspaceCases(proto, cfg))
}

// NewTranslatorWriter returns a writer of proto cases which writes translate(c) to sub.
// translate takes ownership of its argument and may return nil to drop it.
// destroy, if not nil, is called once when the writer is destroyed or turned into a reader
func NewTranslatorWriter(sub *Writer, proto *caseproto.Proto, translate func(*ccase.Case) *ccase.Case, destroy func() error) *Writer {
	w := newWriter(&translatorSink{sub: sub, translate: translate, destroy: destroy}, proto, sub.cfg)
	taint.Propagate(sub.taint, w.taint)
	return w
}

// NewWriter returns a writer over a custom sink
func NewWriter(impl Sink, proto *caseproto.Proto, cfg *settings.Settings) *Writer {
	return newWriter(impl, proto, cfg)
}

func newWindowWriter(proto *caseproto.Proto, cfg *settings.Settings, maxInCore int64) *Writer {
	if cfg == nil {
		cfg = settings.Default()
	}
	return newWriter(&windowSink{window: newWindow(proto, cfg, maxInCore)}, proto, cfg)
}

func newWriter(impl Sink, proto *caseproto.Proto, cfg *settings.Settings) *Writer {
	if cfg == nil {
		cfg = settings.Default()
	}
	return &Writer{impl: impl, proto: proto, taint: taint.New(), cfg: cfg}
}
