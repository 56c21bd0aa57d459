/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package sorter

import (
	"fmt"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/pagestore"
)

func (s *sortSink) Write(_ *casestream.Writer, c *ccase.Case) error {
	e := &pending{c: c, seq: s.seq}
	s.seq++
	if s.tree == nil {
		s.buf = append(s.buf, e)
		if len(s.buf) == s.capacity {
			s.tree = newLoserTree(s.buf, s.lessPending)
			s.buf = nil
		}
		return nil
	}
	i, w := s.tree.winner()
	if err := s.output(w); err != nil {
		e.c.Unref()
		return err
	}
	e.run = w.run
	if s.sc.Compare(c, w.c) < 0 {
		e.run++
	}
	w.c.Unref()
	s.tree.replace(i, e)
	return nil
}

func (s *sortSink) Destroy(_ *casestream.Writer) error {
	leaves := s.buf
	if s.tree != nil {
		leaves = s.tree.leaves
	}
	for _, e := range leaves {
		if e != nil {
			e.c.Unref()
		}
	}
	s.buf, s.tree = nil, nil
	if s.store == nil {
		return nil
	}
	err := s.store.Release()
	s.store = nil
	return err
}

func (s *sortSink) MakeReader(w *casestream.Writer) (*casestream.Reader, error) {
	s.metrics.Increase(imetrics.SortedCases, component, float64(s.seq))
	if s.store == nil {
		return s.sortInMemory(w), nil
	}
	if err := s.drain(); err != nil {
		return nil, s.fail(err)
	}
	if err := s.merge(); err != nil {
		return nil, s.fail(err)
	}
	final := s.runs[0]
	store := s.store
	s.store = nil
	return casestream.NewStoreReader(store, final.start, final.end, s.cfg), nil
}

func (s *sortSink) sortInMemory(w *casestream.Writer) *casestream.Reader {
	entries := s.buf
	if s.tree != nil {
		entries = s.tree.leaves
	}
	cases := make([]*ccase.Case, len(entries))
	for i, e := range entries {
		cases[i] = e.c
	}
	s.buf, s.tree = nil, nil
	slices.SortStableFunc(cases, s.sc.Compare)
	return casestream.FromCases(w.Proto(), cases, s.cfg)
}

// output appends the winner of the selection tree to its run, starting the run if needed
func (s *sortSink) output(e *pending) error {
	if s.store == nil {
		store, err := pagestore.New(s.proto, s.cfg, pagestore.WithComponent(component), pagestore.WithMetrics(s.metrics))
		if err != nil {
			return err
		}
		s.store = store
		s.runs = append(s.runs, run{})
		s.curRun = e.run
	}
	if e.run != s.curRun {
		s.endRun()
		s.runs = append(s.runs, run{start: s.store.End(), end: s.store.End()})
		s.curRun = e.run
	}
	if err := s.store.Append(e.c); err != nil {
		return err
	}
	s.runs[len(s.runs)-1].end = s.store.End()
	return nil
}

func (s *sortSink) endRun() {
	s.metrics.Increase(imetrics.SortRuns, component, 1)
	if logger.IsVerbose() {
		last := s.runs[len(s.runs)-1]
		logger.Verbose(fmt.Sprintf("sort run %d: %d cases", len(s.runs)-1, last.end-last.start))
	}
}

// drain writes the cases left in the selection tree
func (s *sortSink) drain() error {
	for {
		i, e := s.tree.winner()
		if e == nil {
			break
		}
		err := s.output(e)
		e.c.Unref()
		s.tree.replace(i, nil)
		if err != nil {
			return err
		}
	}
	s.endRun()
	s.tree = nil
	return nil
}

// merge merges runs in order, at most maxMergeOrder at a time, until one is left
func (s *sortSink) merge() error {
	fanIn := min(maxMergeOrder, max(2, len(s.runs)))
	for len(s.runs) > 1 {
		var merged []run
		for i := 0; i < len(s.runs); i += fanIn {
			group := s.runs[i:min(i+fanIn, len(s.runs))]
			if len(group) == 1 {
				merged = append(merged, group[0])
				continue
			}
			r, err := s.mergeGroup(group)
			if err != nil {
				return err
			}
			merged = append(merged, r)
			if err := s.dropConsumed(append(slices.Clone(merged), s.runs[i+len(group):]...)); err != nil {
				return err
			}
		}
		s.runs = merged
		s.metrics.Increase(imetrics.SortMergePasses, component, 1)
		if logger.IsVerbose() {
			logger.Verbose(fmt.Sprintf("sort merge pass: %d runs left", len(s.runs)))
		}
	}
	return s.dropConsumed(s.runs)
}

func (s *sortSink) mergeGroup(group []run) (run, error) {
	leaves := make([]*cursor, len(group))
	for i, r := range group {
		cur := &cursor{src: i, pos: r.start, end: r.end}
		if err := s.advance(cur); err != nil {
			return run{}, err
		}
		if cur.c != nil {
			leaves[i] = cur
		}
	}
	tree := newLoserTree(leaves, func(a, b *cursor) bool {
		if cmp := s.sc.Compare(a.c, b.c); cmp != 0 {
			return cmp < 0
		}
		return a.src < b.src
	})

	res := run{start: s.store.End()}
	for {
		i, cur := tree.winner()
		if cur == nil {
			break
		}
		err := s.store.Append(cur.c)
		cur.c.Unref()
		if err == nil {
			err = s.advance(cur)
		}
		if err != nil {
			return run{}, err
		}
		if cur.c == nil {
			cur = nil
		}
		tree.replace(i, cur)
	}
	res.end = s.store.End()
	return res, nil
}

func (s *sortSink) advance(cur *cursor) error {
	if cur.pos >= cur.end {
		cur.c = nil
		return nil
	}
	c, err := s.store.Get(cur.pos)
	if err != nil {
		return err
	}
	cur.c = c
	cur.pos++
	return nil
}

// dropConsumed frees the store space before the first live run
func (s *sortSink) dropConsumed(live []run) error {
	first := s.store.End()
	for _, r := range live {
		first = min(first, r.start)
	}
	if n := first - s.store.Start(); n > 0 {
		return s.store.DeleteHead(n)
	}
	return nil
}

func (s *sortSink) lessPending(a, b *pending) bool {
	if a.run != b.run {
		return a.run < b.run
	}
	if cmp := s.sc.Compare(a.c, b.c); cmp != 0 {
		return cmp < 0
	}
	return a.seq < b.seq
}

func (s *sortSink) fail(err error) error {
	if s.store != nil {
		s.store.Release()
		s.store = nil
	}
	return err
}
