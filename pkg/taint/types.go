/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package taint

// Taint is a node of the error propagation graph attached to streams.
//
// A taint that becomes tainted taints every successor and marks every predecessor
// as having a tainted successor. Not safe for concurrent use
type Taint struct {
	refs             int
	tainted          bool
	taintedSuccessor bool
	successors       []*Taint
	predecessors     []*Taint
}
