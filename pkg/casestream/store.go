/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/pagestore"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

// storeSource reads cases [start, end) of a page store. Cases before start are dropped
// from the store as readers advance
type storeSource struct {
	store      *pagestore.Store
	start, end int64
}

// NewStoreReader returns a reader over cases [start, end) of store. The reader takes over
// the caller's reference to store, all cases of store before end must not be needed by anyone else
func NewStoreReader(store *pagestore.Store, start, end int64, cfg *settings.Settings) *Reader {
	src := &storeSource{store: store, start: start, end: end}
	return NewRandom(store.Proto(), end-start, src, cfg)
}

func (s *storeSource) ReadAt(idx int64) (*ccase.Case, error) {
	if s.start+idx >= s.end {
		return nil, nil
	}
	return s.store.Get(s.start + idx)
}

func (s *storeSource) Advance(n int64) error {
	s.start += n
	if head := s.start - s.store.Start(); head > 0 {
		return s.store.DeleteHead(head)
	}
	return nil
}

func (s *storeSource) Destroy() error {
	return s.store.Release()
}
