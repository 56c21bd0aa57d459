/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"
	bolt "go.etcd.io/bbolt"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
)

// Store is an append-only array of cases of one proto kept in a temporary
// page-structured file. Cases are packed into fixed-size blocks; full blocks are
// written to the file and read back through a process-wide page cache.
//
// A store is shared by reference counting and removed from disk when the last
// reference is released. Not safe for concurrent use
type Store struct {
	id        uuid.UUID
	path      string
	db        *bolt.DB
	proto     *caseproto.Proto
	caseBytes int
	perBlock  int64
	refs      int

	// start is the first readable case, end is the number of appended cases
	start int64
	end   int64

	// tail collects the cases of the block being filled
	tail *bytebufferpool.ByteBuffer

	// pending holds full blocks not yet committed to the file
	pending map[uint64][]byte

	// lastBlock memoizes the most recently read block
	lastBlockNo uint64
	lastBlock   []byte

	metrics   imetrics.IMetrics
	component string
}

// Option configures a Store
type Option func(*Store)
