/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
)

// randomShared is the state shared by all clones of a reader over a RandomSource.
// Offsets are absolute positions, minOffset is the position the source's index 0 refers to
type randomShared struct {
	src       RandomSource
	sources   []*randomSource
	minOffset int64
}

type randomSource struct {
	shared *randomShared
	offset int64
}

func newRandomShared(src RandomSource) *randomShared {
	return &randomShared{src: src}
}

func (s *randomShared) newSource() *randomSource {
	return s.newSourceAt(s.minOffset)
}

func (s *randomShared) newSourceAt(offset int64) *randomSource {
	rs := &randomSource{shared: s, offset: offset}
	s.sources = append(s.sources, rs)
	return rs
}

// advance lets the source drop the cases no clone can read anymore
func (s *randomShared) advance() error {
	if len(s.sources) == 0 {
		return nil
	}
	newMin := s.sources[0].offset
	for _, rs := range s.sources[1:] {
		newMin = min(newMin, rs.offset)
	}
	if newMin <= s.minOffset {
		return nil
	}
	n := newMin - s.minOffset
	s.minOffset = newMin
	return s.src.Advance(n)
}

func (rs *randomSource) Read(_ *Reader) (*ccase.Case, error) {
	c, err := rs.shared.src.ReadAt(rs.offset - rs.shared.minOffset)
	if err != nil || c == nil {
		return nil, err
	}
	rs.offset++
	if err := rs.shared.advance(); err != nil {
		c.Unref()
		return nil, err
	}
	return c, nil
}

func (rs *randomSource) Peek(_ *Reader, idx int64) (*ccase.Case, error) {
	return rs.shared.src.ReadAt(rs.offset - rs.shared.minOffset + idx)
}

func (rs *randomSource) Clone(r *Reader) *Reader {
	clone := rs.shared.newSourceAt(rs.offset)
	return newReader(clone, r.proto, r.nCases, r.cfg, r.taint.Clone())
}

func (rs *randomSource) Destroy(_ *Reader) error {
	s := rs.shared
	for i, other := range s.sources {
		if other == rs {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			break
		}
	}
	if len(s.sources) == 0 {
		return s.src.Destroy()
	}
	return s.advance()
}
