/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package sorter

// loserTree is a tournament tree over k leaves. Internal node n keeps the loser of the match
// between its subtrees, nodes[0] keeps the overall winner. Leaf i has tree position k+i,
// the children of position n are 2n and 2n+1. Empty leaves lose to everything
type loserTree[T any] struct {
	nodes  []int
	leaves []*T
	less   func(a, b *T) bool
}

// newLoserTree plays the tournament between leaves, nil leaves are empty
func newLoserTree[T any](leaves []*T, less func(a, b *T) bool) *loserTree[T] {
	lt := &loserTree[T]{nodes: make([]int, len(leaves)), leaves: leaves, less: less}
	lt.build()
	return lt
}

func (lt *loserTree[T]) build() {
	k := len(lt.leaves)
	winners := make([]int, 2*k)
	for i := 0; i < k; i++ {
		winners[k+i] = i
	}
	for n := k - 1; n >= 1; n-- {
		l, r := winners[2*n], winners[2*n+1]
		if lt.beats(r, l) {
			winners[n], lt.nodes[n] = r, l
		} else {
			winners[n], lt.nodes[n] = l, r
		}
	}
	lt.nodes[0] = winners[1]
}

// winner returns the leaf index of the smallest entry, nil entry if all leaves are empty
func (lt *loserTree[T]) winner() (int, *T) {
	w := lt.nodes[0]
	return w, lt.leaves[w]
}

// replace stores e, nil to empty the leaf, into leaf i which must be the winner, and replays its matches
func (lt *loserTree[T]) replace(i int, e *T) {
	lt.leaves[i] = e
	w := i
	for n := (i + len(lt.leaves)) / 2; n >= 1; n /= 2 {
		if lt.beats(lt.nodes[n], w) {
			lt.nodes[n], w = w, lt.nodes[n]
		}
	}
	lt.nodes[0] = w
}

func (lt *loserTree[T]) beats(a, b int) bool {
	ea, eb := lt.leaves[a], lt.leaves[b]
	if ea == nil {
		return false
	}
	if eb == nil {
		return true
	}
	return lt.less(ea, eb)
}
