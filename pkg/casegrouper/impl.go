/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casegrouper

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// Next returns a reader over the next group, false after the last group.
// Errors of the group reader are reported by Destroy
func (g *Grouper) Next() (*casestream.Reader, bool) {
	if g.reader == nil {
		return nil, false
	}
	if g.sameGroup == nil {
		r := g.reader
		g.reader = nil
		if r.IsEmpty() {
			r.Destroy()
			return nil, false
		}
		return r, true
	}

	first := g.reader.Read()
	if first == nil {
		return nil, false
	}
	w := casestream.NewAutopagingWriter(g.reader.Proto(), g.reader.Settings())
	w.Write(first.Ref())
	for {
		next := g.reader.Peek(0)
		if next == nil {
			break
		}
		same := g.sameGroup(first, next)
		next.Unref()
		if !same {
			break
		}
		w.Write(g.reader.Read())
	}
	first.Unref()
	r := w.MakeReader()
	taint.Propagate(g.reader.Taint(), r.Taint())
	return r, true
}

// Destroy releases the grouper and the reader it groups. Returns false if the reader or
// any group reader had an error
func (g *Grouper) Destroy() bool {
	if g == nil {
		return true
	}
	g.reader.Destroy()
	if g.destroy != nil {
		g.destroy()
	}
	ok := !g.taint.HasTaintedSuccessor()
	g.taint.Destroy()
	return ok
}
