/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package sorter

import (
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/pagestore"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

// run is a sorted range [start, end) of the spill store
type run struct {
	start, end int64
}

// pending is a case waiting in the selection tree. run is the run it will be written to,
// seq its position in the input
type pending struct {
	c   *ccase.Case
	run int
	seq int64
}

// cursor reads a run during a merge. src orders equal keys by run
type cursor struct {
	c   *ccase.Case
	src int
	pos int64
	end int64
}

// sortSink sorts the cases written to it by replacement selection into runs kept in one
// spill store, then merges the runs. Inputs that fit into the selection tree never reach the store
type sortSink struct {
	sc      *subcase.Subcase
	proto   *caseproto.Proto
	cfg     *settings.Settings
	metrics imetrics.IMetrics

	// buf collects the first cases until the selection tree is full
	buf      []*pending
	capacity int
	tree     *loserTree[pending]
	seq      int64

	store  *pagestore.Store
	runs   []run
	curRun int
}
