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
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// Proto returns the proto of the cases
func (r *Reader) Proto() *caseproto.Proto { return r.proto }

// Settings returns the settings the reader was created with
func (r *Reader) Settings() *settings.Settings { return r.cfg }

// Taint returns the taint of the reader, for use with taint.Propagate
func (r *Reader) Taint() *taint.Taint { return r.taint }

// Read returns the next case, nil at the end of the stream or after an error.
// The caller owns the returned case
func (r *Reader) Read() *ccase.Case {
	if r.nCases == 0 || r.taint.IsTainted() {
		r.nCases = 0
		return nil
	}
	if r.nCases != UnknownCount {
		r.nCases--
	}
	c, err := r.impl.Read(r)
	if err != nil {
		r.ForceError(err)
		c.Unref()
		c = nil
	}
	if c == nil {
		r.nCases = 0
		return nil
	}
	if !c.Proto().Equal(r.proto) {
		panic(ErrIncompatibleProto(c.Proto(), r.proto))
	}
	return c
}

// Peek returns case idx ahead of the current one without consuming anything, nil past the end.
// Readers without look-ahead are buffered on first Peek
func (r *Reader) Peek(idx int64) *ccase.Case {
	if idx < r.nCases && !r.taint.IsTainted() {
		peeker, ok := r.impl.(PeekSource)
		if !ok {
			r.insertShim()
			peeker = r.impl.(PeekSource)
		}
		c, err := peeker.Peek(r, idx)
		if err != nil {
			r.ForceError(err)
			c = nil
		}
		if c != nil {
			return c
		}
		if r.taint.IsTainted() {
			r.nCases = 0
		}
	}
	if r.nCases > idx {
		r.nCases = idx
	}
	return nil
}

// IsEmpty returns true if no case remains or the reader is tainted
func (r *Reader) IsEmpty() bool {
	if r.nCases == 0 {
		return true
	}
	c := r.Peek(0)
	if c == nil {
		return true
	}
	c.Unref()
	return false
}

// Clone returns an independent reader over the remaining cases. Both share the same taint
func (r *Reader) Clone() *Reader {
	cloner, ok := r.impl.(CloneSource)
	if !ok {
		r.insertShim()
		cloner = r.impl.(CloneSource)
	}
	return cloner.Clone(r)
}

// Destroy releases the reader. Returns false if an error was detected on it or downstream of it
func (r *Reader) Destroy() bool {
	if r == nil {
		return true
	}
	if err := r.impl.Destroy(r); err != nil {
		r.ForceError(err)
	}
	return r.taint.Destroy()
}

// Error returns true if the reader, a clone, or anything it depends on had an error
func (r *Reader) Error() bool {
	return r.taint.IsTainted()
}

// Err returns the first error detected by this reader itself
func (r *Reader) Err() error {
	return r.err
}

// ForceError taints the reader. err may be nil
func (r *Reader) ForceError(err error) {
	if err == nil {
		err = ErrForcedError
	}
	if r.err == nil {
		r.err = err
		logger.Error(fmt.Sprintf("case stream %v: %v", r.proto, err))
		imetrics.Global().Increase(imetrics.TaintedStreams, "", 1)
	}
	r.taint.Set()
}

// NCases returns the upper bound of remaining cases, UnknownCount if not known
func (r *Reader) NCases() int64 { return r.nCases }

// Count returns the number of remaining cases, counting a clone if the number is not known
func (r *Reader) Count() int64 {
	if r.nCases == UnknownCount {
		r.nCases = r.countCases(UnknownCount)
	}
	return r.nCases
}

// Truncate limits the reader to at most n more cases
func (r *Reader) Truncate(n int64) {
	if r.nCases == UnknownCount {
		r.nCases = r.countCases(n)
	}
	if r.nCases > n {
		r.nCases = n
	}
}

// Advance skips up to n cases and returns the number skipped
func (r *Reader) Advance(n int64) int64 {
	var i int64
	for ; i < n; i++ {
		c := r.Read()
		if c == nil {
			break
		}
		c.Unref()
	}
	return i
}

// Transfer writes all remaining cases to w, propagating errors, and destroys r
func (r *Reader) Transfer(w *Writer) {
	taint.Propagate(r.taint, w.taint)
	for c := r.Read(); c != nil; c = r.Read() {
		w.Write(c)
	}
	r.Destroy()
}

// ReadAll returns all remaining cases and destroys r. Returns false if r was tainted
func (r *Reader) ReadAll() ([]*ccase.Case, bool) {
	var res []*ccase.Case
	for c := r.Read(); c != nil; c = r.Read() {
		res = append(res, c)
	}
	return res, r.Destroy()
}

func (r *Reader) countCases(limit int64) int64 {
	clone := r.Clone()
	n := clone.Advance(limit)
	clone.Destroy()
	return n
}

// insertShim replaces the implementation of r by a random reader over a window buffering
// the old implementation, which makes r clonable and peekable
func (r *Reader) insertShim() {
	sub := &Reader{
		impl:   r.impl,
		proto:  r.proto,
		taint:  r.taint,
		nCases: r.nCases,
		cfg:    r.cfg,
		err:    r.err,
	}
	shim := &shimSource{sub: sub, window: newWindow(r.proto, r.cfg, workspaceCases(r.proto, r.cfg))}
	r.impl = newRandomShared(shim).newSource()
	r.taint = taint.New()
	r.err = nil
	taint.Propagate(sub.taint, r.taint)
}

func newReader(impl Source, proto *caseproto.Proto, nCases int64, cfg *settings.Settings, t *taint.Taint) *Reader {
	if cfg == nil {
		cfg = settings.Default()
	}
	if t == nil {
		t = taint.New()
	}
	return &Reader{impl: impl, proto: proto, taint: t, nCases: nCases, cfg: cfg}
}
