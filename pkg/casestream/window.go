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
	"github.com/lemenkov/pspp-sub003/pkg/pagestore"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

// window is a queue of cases: pushed at the head, dropped from the tail, read at any position.
// It starts in memory and moves to a page store once it holds more than maxInCore cases
type window struct {
	proto     *caseproto.Proto
	cfg       *settings.Settings
	maxInCore int64

	cases []*ccase.Case
	head  int

	store *pagestore.Store
}

func newWindow(proto *caseproto.Proto, cfg *settings.Settings, maxInCore int64) *window {
	return &window{proto: proto, cfg: cfg, maxInCore: maxInCore}
}

func (w *window) count() int64 {
	if w.store != nil {
		return w.store.Len()
	}
	return int64(len(w.cases) - w.head)
}

func (w *window) onDisk() bool { return w.store != nil }

// push takes ownership of c
func (w *window) push(c *ccase.Case) error {
	if w.store != nil {
		defer c.Unref()
		return w.store.Append(c)
	}
	w.cases = append(w.cases, c)
	if w.count() > w.maxInCore {
		return w.spill()
	}
	return nil
}

// get returns a reference to case idx counted from the tail
func (w *window) get(idx int64) (*ccase.Case, error) {
	if idx < 0 || idx >= w.count() {
		return nil, pagestore.ErrOutOfRange(idx, 0, w.count())
	}
	if w.store != nil {
		return w.store.Get(w.store.Start() + idx)
	}
	return w.cases[w.head+int(idx)].Ref(), nil
}

// popTail drops the n oldest cases
func (w *window) popTail(n int64) error {
	if n > w.count() {
		panic(fmt.Sprintf("popping %d cases from a window of %d", n, w.count()))
	}
	if w.store != nil {
		return w.store.DeleteHead(n)
	}
	for i := 0; i < int(n); i++ {
		w.cases[w.head].Unref()
		w.cases[w.head] = nil
		w.head++
	}
	if w.head > len(w.cases)/2 {
		w.cases = append(w.cases[:0], w.cases[w.head:]...)
		w.head = 0
	}
	return nil
}

func (w *window) destroy() error {
	if w.store != nil {
		err := w.store.Release()
		w.store = nil
		return err
	}
	for _, c := range w.cases[w.head:] {
		c.Unref()
	}
	w.cases = nil
	w.head = 0
	return nil
}

func (w *window) spill() error {
	store, err := pagestore.New(w.proto, w.cfg, pagestore.WithComponent(componentWindow))
	if err != nil {
		return err
	}
	n := w.count()
	for _, c := range w.cases[w.head:] {
		if err == nil {
			err = store.Append(c)
		}
		c.Unref()
	}
	w.cases = nil
	w.head = 0
	w.store = store
	imetrics.Global().Increase(imetrics.CasesSpilled, componentWindow, float64(n))
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("case window of %d cases %v moved to %s", n, w.proto, store.Path()))
	}
	return err
}

// workspaceCases returns how many cases of proto fit into the workspace, at least 4
func workspaceCases(proto *caseproto.Proto, cfg *settings.Settings) int64 {
	return int64(max(cfg.Workspace/pagestore.CaseBytes(proto), minWorkspaceCases))
}
