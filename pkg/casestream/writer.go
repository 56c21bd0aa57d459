/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// Proto returns the proto of accepted cases
func (w *Writer) Proto() *caseproto.Proto { return w.proto }

// Taint returns the taint of the writer
func (w *Writer) Taint() *taint.Taint { return w.taint }

// NCases returns the number of cases written so far
func (w *Writer) NCases() int64 { return w.nCases }

// Write takes ownership of c
func (w *Writer) Write(c *ccase.Case) {
	if !c.Proto().Equal(w.proto) {
		panic(ErrIncompatibleProto(c.Proto(), w.proto))
	}
	if w.taint.IsTainted() {
		c.Unref()
		return
	}
	if err := w.impl.Write(w, c); err != nil {
		w.ForceError(err)
		return
	}
	w.nCases++
}

// Destroy discards the writer. Returns false if an error was detected on it
func (w *Writer) Destroy() bool {
	if w == nil {
		return true
	}
	if err := w.impl.Destroy(w); err != nil {
		w.ForceError(err)
	}
	return w.taint.Destroy()
}

// MakeReader converts the writer into a reader over the written cases. The writer must not be used afterwards.
// Errors on the writer taint the reader
func (w *Writer) MakeReader() *Reader {
	r, err := w.impl.MakeReader(w)
	if err != nil {
		w.ForceError(err)
		r = NewEmpty(w.proto, w.cfg)
	}
	taint.Propagate(w.taint, r.taint)
	w.taint.Destroy()
	return r
}

// Error returns true if the writer or anything it depends on had an error
func (w *Writer) Error() bool {
	return w.taint.IsTainted()
}

// Err returns the first error detected by the writer itself
func (w *Writer) Err() error {
	return w.err
}

// ForceError taints the writer. err may be nil
func (w *Writer) ForceError(err error) {
	if err == nil {
		err = ErrForcedError
	}
	if w.err == nil {
		w.err = err
		logger.Error(fmt.Sprintf("case writer %v: %v", w.proto, err))
		imetrics.Global().Increase(imetrics.TaintedStreams, "", 1)
	}
	w.taint.Set()
}

// windowSink collects cases in a window
type windowSink struct {
	window *window
}

func (s *windowSink) Write(_ *Writer, c *ccase.Case) error {
	return s.window.push(c)
}

func (s *windowSink) Destroy(_ *Writer) error {
	if s.window == nil {
		return nil
	}
	return s.window.destroy()
}

func (s *windowSink) MakeReader(w *Writer) (*Reader, error) {
	src := &windowSource{window: s.window}
	s.window = nil
	return NewRandom(w.proto, src.window.count(), src, w.cfg), nil
}

// translatorSink translates cases before writing them to another writer
type translatorSink struct {
	sub       *Writer
	translate func(*ccase.Case) *ccase.Case
	destroy   func() error
}

func (s *translatorSink) Write(_ *Writer, c *ccase.Case) error {
	if out := s.translate(c); out != nil {
		s.sub.Write(out)
	}
	return nil
}

func (s *translatorSink) Destroy(_ *Writer) error {
	s.sub.Destroy()
	return s.callDestroy()
}

func (s *translatorSink) MakeReader(_ *Writer) (*Reader, error) {
	r := s.sub.MakeReader()
	return r, s.callDestroy()
}

func (s *translatorSink) callDestroy() error {
	if s.destroy == nil {
		return nil
	}
	return s.destroy()
}
