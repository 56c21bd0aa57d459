/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package taint

import "golang.org/x/exp/slices"

// Clone returns another reference to t. Both report the same state
func (t *Taint) Clone() *Taint {
	t.refs++
	return t
}

// Destroy drops a reference. When the last reference goes the node is removed from the graph
// and its predecessors are linked straight to its successors.
// Returns false if t had a tainted successor
func (t *Taint) Destroy() bool {
	if t == nil {
		return true
	}
	ok := !t.taintedSuccessor
	t.refs--
	if t.refs == 0 {
		for _, pred := range t.predecessors {
			for _, succ := range t.successors {
				Propagate(pred, succ)
			}
		}
		for _, pred := range t.predecessors {
			pred.successors = remove(pred.successors, t)
		}
		for _, succ := range t.successors {
			succ.predecessors = remove(succ.predecessors, t)
		}
		t.predecessors, t.successors = nil, nil
	}
	return ok
}

// Set taints t and propagates
func (t *Taint) Set() {
	if !t.tainted {
		t.setTaint()
	}
}

// IsTainted returns true if t or any of its predecessors were tainted
func (t *Taint) IsTainted() bool {
	return t.tainted
}

// HasTaintedSuccessor returns true if t or any of its successors were tainted
func (t *Taint) HasTaintedSuccessor() bool {
	return t.taintedSuccessor
}

// ResetSuccessorTaint clears the successor flag unless a successor is still tainted
func (t *Taint) ResetSuccessorTaint() {
	if !t.taintedSuccessor || t.tainted {
		return
	}
	for _, succ := range t.successors {
		if succ.taintedSuccessor {
			return
		}
	}
	t.taintedSuccessor = false
}

// Propagate makes to a successor of from: taint of from flows to to,
// and taint of to is visible from from as a tainted successor
func Propagate(from, to *Taint) {
	if from == to {
		return
	}
	if !slices.Contains(from.successors, to) {
		from.successors = append(from.successors, to)
	}
	if !slices.Contains(to.predecessors, from) {
		to.predecessors = append(to.predecessors, from)
	}
	if from.tainted && !to.tainted {
		to.setTaint()
	} else if to.taintedSuccessor && !from.taintedSuccessor {
		from.setTaintedSuccessor()
	}
}

func (t *Taint) setTaint() {
	t.tainted = true
	t.taintedSuccessor = true
	for _, succ := range t.successors {
		if !succ.tainted {
			succ.setTaint()
		}
	}
	for _, pred := range t.predecessors {
		if !pred.taintedSuccessor {
			pred.setTaintedSuccessor()
		}
	}
}

func (t *Taint) setTaintedSuccessor() {
	t.taintedSuccessor = true
	for _, pred := range t.predecessors {
		if !pred.taintedSuccessor {
			pred.setTaintedSuccessor()
		}
	}
}

func remove(list []*Taint, t *Taint) []*Taint {
	if i := slices.Index(list, t); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
