/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pool

// Pool is a scoped allocator. Byte slices handed out by a pool and cleanup functions
// registered with it live until the pool is destroyed
type Pool struct {
	parent     *Pool
	blocks     [][]byte
	used       int
	large      [][]byte
	gizmos     []gizmo
	nextSerial uint64
	destroyed  bool
}

// Mark remembers the allocation state of a pool, see Pool.Release
type Mark struct {
	nBlocks int
	nLarge  int
	used    int
	serial  uint64
}

type gizmoKind int

const (
	gizmoCleanup gizmoKind = iota
	gizmoChild
)

type gizmo struct {
	kind    gizmoKind
	serial  uint64
	cleanup func()
	child   *Pool
}
