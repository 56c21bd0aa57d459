/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
)

// shimSource buffers the cases of a sequential reader in a window so that they can be
// read at random by clones and look-ahead
type shimSource struct {
	sub    *Reader
	window *window
}

func (s *shimSource) ReadAt(idx int64) (*ccase.Case, error) {
	for s.window.count() <= idx {
		c := s.sub.Read()
		if c == nil {
			return nil, nil
		}
		if err := s.window.push(c); err != nil {
			return nil, err
		}
	}
	return s.window.get(idx)
}

func (s *shimSource) Advance(n int64) error {
	return s.window.popTail(n)
}

func (s *shimSource) Destroy() error {
	s.sub.Destroy()
	return s.window.destroy()
}

// windowSource reads the cases a writer collected in a window
type windowSource struct {
	window *window
}

func (s *windowSource) ReadAt(idx int64) (*ccase.Case, error) {
	if idx >= s.window.count() {
		return nil, nil
	}
	return s.window.get(idx)
}

func (s *windowSource) Advance(n int64) error {
	return s.window.popTail(n)
}

func (s *windowSource) Destroy() error {
	return s.window.destroy()
}

// casesSource reads a slice of cases it owns
type casesSource struct {
	cases []*ccase.Case
	head  int
}

func (s *casesSource) ReadAt(idx int64) (*ccase.Case, error) {
	i := int64(s.head) + idx
	if i >= int64(len(s.cases)) {
		return nil, nil
	}
	return s.cases[i].Ref(), nil
}

func (s *casesSource) Advance(n int64) error {
	for ; n > 0; n-- {
		s.cases[s.head].Unref()
		s.cases[s.head] = nil
		s.head++
	}
	return nil
}

func (s *casesSource) Destroy() error {
	for _, c := range s.cases[s.head:] {
		c.Unref()
	}
	s.cases = nil
	return nil
}
