/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"fmt"
	"os"

	"github.com/untillpro/goutils/logger"
	"github.com/valyala/bytebufferpool"
	bolt "go.etcd.io/bbolt"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
)

// Proto returns the proto of stored cases
func (s *Store) Proto() *caseproto.Proto { return s.proto }

// Path returns the backing file name
func (s *Store) Path() string { return s.path }

// Start returns the index of the first readable case
func (s *Store) Start() int64 { return s.start }

// End returns the number of cases ever appended
func (s *Store) End() int64 { return s.end }

// Len returns the number of readable cases
func (s *Store) Len() int64 { return s.end - s.start }

// Ref adds a reference
func (s *Store) Ref() *Store {
	s.refs++
	return s
}

// Append stores c after the last case
func (s *Store) Append(c *ccase.Case) error {
	if s.db == nil {
		return ErrReleasedError
	}
	if !c.Proto().Equal(s.proto) {
		panic(caseproto.ErrNotConformable(c.Proto(), s.proto))
	}
	s.tail.B = appendCase(s.tail.B, c)
	s.end++
	if s.end%s.perBlock == 0 {
		block := uint64((s.end - 1) / s.perBlock)
		data := make([]byte, len(s.tail.B))
		copy(data, s.tail.B)
		s.tail.Reset()
		s.pending[block] = data
		if len(s.pending) >= pendingBlocks {
			return s.Flush()
		}
	}
	return nil
}

// Get returns case idx
func (s *Store) Get(idx int64) (*ccase.Case, error) {
	if s.db == nil {
		return nil, ErrReleasedError
	}
	if idx < s.start || idx >= s.end {
		return nil, ErrOutOfRange(idx, s.start, s.end)
	}
	block := uint64(idx / s.perBlock)
	ofs := int(idx%s.perBlock) * s.caseBytes
	data, err := s.block(block)
	if err != nil {
		return nil, err
	}
	if ofs+s.caseBytes > len(data) {
		return nil, ErrCorrupted(block, len(data))
	}
	return decodeCase(s.proto, data[ofs:ofs+s.caseBytes]), nil
}

// Flush commits full blocks to the file
func (s *Store) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(blocksBucketName))
		for block, data := range s.pending {
			if err := bucket.Put(blockKey(block), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	for block, data := range s.pending {
		s.cachePut(block, data)
		if logger.IsTrace() {
			logger.Trace(fmt.Sprintf("%s: block %d written", s.path, block))
		}
	}
	s.metrics.Increase(imetrics.PagesWritten, s.component, float64(len(s.pending)))
	s.pending = make(map[uint64][]byte, pendingBlocks)
	return nil
}

// DeleteHead makes the first n readable cases unreadable. Blocks holding only
// deleted cases are returned to the file's free list
func (s *Store) DeleteHead(n int64) error {
	if s.db == nil {
		return ErrReleasedError
	}
	if n < 0 || n > s.Len() {
		return ErrOutOfRange(s.start+n, s.start, s.end+1)
	}
	firstBlock := uint64(s.start / s.perBlock)
	s.start += n
	lastFree := uint64(s.start / s.perBlock)
	if lastFree <= firstBlock {
		return nil
	}
	var stored []uint64
	for block := firstBlock; block < lastFree; block++ {
		if _, ok := s.pending[block]; ok {
			delete(s.pending, block)
			continue
		}
		stored = append(stored, block)
		s.cacheDel(block)
	}
	if s.lastBlock != nil && s.lastBlockNo < lastFree {
		s.lastBlock = nil
	}
	if len(stored) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(blocksBucketName))
		for _, block := range stored {
			if err := bucket.Delete(blockKey(block)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Release drops a reference. The last release closes and removes the file
func (s *Store) Release() error {
	s.refs--
	if s.refs > 0 {
		return nil
	}
	if s.db == nil {
		return nil
	}
	first, last := uint64(s.start/s.perBlock), uint64(s.end/s.perBlock)
	for block := first; block <= last; block++ {
		s.cacheDel(block)
	}
	bytebufferpool.Put(s.tail)
	s.tail = nil
	s.pending = nil
	s.lastBlock = nil
	err := s.db.Close()
	s.db = nil
	if rmErr := os.Remove(s.path); err == nil {
		err = rmErr
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("%s: removed after %d cases", s.path, s.end))
	}
	return err
}

func (s *Store) block(block uint64) ([]byte, error) {
	if s.lastBlock != nil && s.lastBlockNo == block {
		return s.lastBlock, nil
	}
	if block == uint64(s.end/s.perBlock) {
		return s.tail.B, nil
	}
	if data, ok := s.pending[block]; ok {
		return data, nil
	}
	data, ok := s.cacheGet(block)
	if ok {
		s.metrics.Increase(imetrics.PageCacheHits, s.component, 1)
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			stored := tx.Bucket([]byte(blocksBucketName)).Get(blockKey(block))
			if stored == nil {
				return ErrCorrupted(block, 0)
			}
			data = make([]byte, len(stored))
			copy(data, stored)
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.metrics.Increase(imetrics.PagesRead, s.component, 1)
		s.cachePut(block, data)
		if logger.IsTrace() {
			logger.Trace(fmt.Sprintf("%s: block %d read", s.path, block))
		}
	}
	s.lastBlockNo, s.lastBlock = block, data
	return data, nil
}
