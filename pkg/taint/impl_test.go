/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package taint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	require := require.New(t)

	upstream := New()
	downstream := New()
	Propagate(upstream, downstream)

	require.False(downstream.IsTainted())
	upstream.Set()
	require.True(upstream.IsTainted())
	require.True(downstream.IsTainted())
	require.True(upstream.HasTaintedSuccessor())

	require.False(downstream.Destroy())
	require.False(upstream.Destroy())
}

func TestPropagation(t *testing.T) {
	require := require.New(t)

	t.Run("should taint successor linked after the fact", func(t *testing.T) {
		a, b := New(), New()
		a.Set()
		Propagate(a, b)
		require.True(b.IsTainted())
	})

	t.Run("should mark predecessors when successor is tainted", func(t *testing.T) {
		a, b, c := New(), New(), New()
		Propagate(a, b)
		Propagate(b, c)
		c.Set()
		require.False(a.IsTainted())
		require.True(a.HasTaintedSuccessor())
		require.True(b.HasTaintedSuccessor())
		require.False(a.Destroy())
	})

	t.Run("should ignore self propagation", func(t *testing.T) {
		a := New()
		Propagate(a, a)
		require.Empty(a.successors)
	})
}

func TestDestroyRelinks(t *testing.T) {
	require := require.New(t)

	a, b, c := New(), New(), New()
	Propagate(a, b)
	Propagate(b, c)
	require.True(b.Destroy())

	require.Equal([]*Taint{c}, a.successors)
	require.Equal([]*Taint{a}, c.predecessors)

	a.Set()
	require.True(c.IsTainted())
}

func TestClone(t *testing.T) {
	require := require.New(t)

	a := New()
	peer := a.Clone()
	b := New()
	Propagate(a, b)
	b.Set()

	require.False(a.Destroy())
	require.True(peer.HasTaintedSuccessor())
	require.False(peer.Destroy())
	require.Empty(b.predecessors)
}

func TestResetSuccessorTaint(t *testing.T) {
	require := require.New(t)

	a, b := New(), New()
	Propagate(a, b)
	b.Set()
	require.True(a.HasTaintedSuccessor())

	a.ResetSuccessorTaint()
	require.True(a.HasTaintedSuccessor(), "successor still tainted")

	c := New()
	c.setTaintedSuccessor()
	c.ResetSuccessorTaint()
	require.False(c.HasTaintedSuccessor())
}
