/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/untillpro/goutils/logger"
	"github.com/valyala/bytebufferpool"
	bolt "go.etcd.io/bbolt"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

// New creates an empty store in cfg.TmpDir with one reference
func New(proto *caseproto.Proto, cfg *settings.Settings, opts ...Option) (*Store, error) {
	initPageCache(cfg.PageCacheBytes)

	id := uuid.New()
	path := filepath.Join(cfg.TmpDir, filePrefix+id.String()+fileSuffix)
	db, err := bolt.Open(path, fileMode, &bolt.Options{
		NoSync:         true,
		NoGrowSync:     true,
		NoFreelistSync: true,
		FreelistType:   bolt.FreelistMapType,
		PageSize:       max(cfg.PageSize, os.Getpagesize()),
	})
	if err != nil {
		return nil, fmt.Errorf("creating page store in %s: %w", cfg.TmpDir, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(blocksBucketName))
		return err
	}); err != nil {
		// notest
		db.Close()
		os.Remove(path)
		return nil, err
	}

	caseBytes := CaseBytes(proto)
	s := &Store{
		id:        id,
		path:      path,
		db:        db,
		proto:     proto,
		caseBytes: caseBytes,
		perBlock:  int64(max(1, cfg.PageSize/caseBytes)),
		refs:      1,
		tail:      bytebufferpool.Get(),
		pending:   make(map[uint64][]byte, pendingBlocks),
		metrics:   imetrics.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("%s: created for %v, %d cases per block", path, proto, s.perBlock))
	}
	return s, nil
}

// WithMetrics reports page traffic to m
func WithMetrics(m imetrics.IMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithComponent labels the metrics of the store
func WithComponent(name string) Option {
	return func(s *Store) { s.component = name }
}
