/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"encoding/binary"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
)

var (
	pageCache     *fastcache.Cache
	pageCacheOnce sync.Once
)

func initPageCache(maxBytes int) {
	pageCacheOnce.Do(func() {
		pageCache = fastcache.New(maxBytes)
	})
}

func (s *Store) cacheKey(block uint64) []byte {
	key := make([]byte, 0, storeIDSize+8)
	key = append(key, s.id[:]...)
	return binary.BigEndian.AppendUint64(key, block)
}

func (s *Store) cachePut(block uint64, data []byte) {
	if pageCache == nil || len(data) > maxCachedBlock {
		return
	}
	pageCache.Set(s.cacheKey(block), data)
}

func (s *Store) cacheGet(block uint64) ([]byte, bool) {
	if pageCache == nil {
		return nil, false
	}
	return pageCache.HasGet(nil, s.cacheKey(block))
}

func (s *Store) cacheDel(block uint64) {
	if pageCache != nil {
		pageCache.Del(s.cacheKey(block))
	}
}
