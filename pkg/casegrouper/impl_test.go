/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casegrouper

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

func reader(cfg *settings.Settings, keys ...float64) *casestream.Reader {
	cases := make([]*ccase.Case, len(keys))
	for i, k := range keys {
		cases[i] = ccase.FromNums(k, float64(i))
	}
	return casestream.FromCases(caseproto.New(0, 0), cases, cfg)
}

// groups reads all groups of g as lists of (key, position) and destroys g
func groups(require *require.Assertions, g *Grouper) [][][2]float64 {
	var res [][][2]float64
	for r, ok := g.Next(); ok; r, ok = g.Next() {
		var group [][2]float64
		for c := r.Read(); c != nil; c = r.Read() {
			group = append(group, [2]float64{c.Num(0), c.Num(1)})
			c.Unref()
		}
		require.True(r.Destroy())
		res = append(res, group)
	}
	require.True(g.Destroy())
	return res
}

func TestBasicUsage(t *testing.T) {
	require := require.New(t)
	cfg := settings.New(settings.WithTmpDir(t.TempDir()))
	byKey := subcase.NewField(0, 0, subcase.Ascend)

	t.Run("should group runs of equal keys", func(t *testing.T) {
		got := groups(require, NewBySubcase(reader(cfg, 1, 1, 2, 3, 3, 3), byKey))
		require.Equal([][][2]float64{
			{{1, 0}, {1, 1}},
			{{2, 2}},
			{{3, 3}, {3, 4}, {3, 5}},
		}, got)
	})

	t.Run("should start a new group when a key comes back", func(t *testing.T) {
		got := groups(require, NewBySubcase(reader(cfg, 1, 2, 1), byKey))
		require.Len(got, 3)
	})

	t.Run("should make one group without keys", func(t *testing.T) {
		got := groups(require, NewBySubcase(reader(cfg, 3, 1, 2), subcase.New()))
		require.Len(got, 1)
		require.Len(got[0], 3)
		require.Empty(groups(require, NewFunc(reader(cfg), nil, nil)))
		require.Empty(groups(require, NewBySubcase(reader(cfg), byKey)))
	})

	t.Run("should count and clone groups", func(t *testing.T) {
		g := NewBySubcase(reader(cfg, 5, 5, 5, 6), byKey)
		r, ok := g.Next()
		require.True(ok)
		require.Equal(int64(3), r.Count())
		clone := r.Clone()
		require.True(clone.Destroy())
		require.True(r.Destroy())
		require.True(g.Destroy())
	})

	t.Run("should group by split variables", func(t *testing.T) {
		d := dict.NewUTF8()
		s := d.AddVarAssert("s", 0)
		d.AddVarAssert("x", 0)
		require.NoError(d.SetSplitVars([]*dict.Variable{s}, dict.SplitSeparate))
		r := casestream.FromCases(d.Proto(), []*ccase.Case{
			ccase.FromNums(1, 10), ccase.FromNums(1, 11), ccase.FromNums(2, 12),
		}, cfg)
		got := groups(require, NewSplits(r, d))
		require.Equal([][][2]float64{{{1, 10}, {1, 11}}, {{2, 12}}}, got)
	})

	t.Run("should call destroy", func(t *testing.T) {
		called := false
		g := NewFunc(reader(cfg, 1), func(a, b *ccase.Case) bool { return true }, func() { called = true })
		require.True(g.Destroy())
		require.True(called)
	})
}

func TestConcatenation(t *testing.T) {
	require := require.New(t)
	cfg := settings.New(settings.WithTmpDir(t.TempDir()), settings.WithWorkspace(64))
	byKey := subcase.NewField(0, 0, subcase.Ascend)
	f := fuzz.New().NilChance(0).NumElements(0, 300)

	for i := 0; i < 20; i++ {
		var raw []uint8
		f.Fuzz(&raw)
		keys := make([]float64, len(raw))
		for j, b := range raw {
			keys[j] = float64(b % 8)
		}
		slices.Sort(keys)

		var flat []float64
		for _, group := range groups(require, NewBySubcase(reader(cfg, keys...), byKey)) {
			require.NotEmpty(group)
			for j, kp := range group {
				require.Equal(group[0][0], kp[0])
				require.Equal(float64(len(flat)), kp[1], j)
				flat = append(flat, kp[0])
			}
		}
		require.Equal(len(keys), len(flat))
		if len(keys) > 0 {
			require.Equal(keys, flat)
		}
	}
}

func TestTaint(t *testing.T) {
	require := require.New(t)
	cfg := settings.New(settings.WithTmpDir(t.TempDir()))
	byKey := subcase.NewField(0, 0, subcase.Ascend)

	t.Run("should report an error of a group", func(t *testing.T) {
		g := NewBySubcase(reader(cfg, 1, 2), byKey)
		r, ok := g.Next()
		require.True(ok)
		r.ForceError(nil)
		require.False(r.Destroy())
		r, ok = g.Next()
		require.True(ok)
		require.True(r.Destroy())
		require.False(g.Destroy())
	})

	t.Run("should report an error of the grouped reader", func(t *testing.T) {
		input := reader(cfg, 1, 1, 2)
		g := NewBySubcase(input, byKey)
		input.ForceError(nil)
		r, ok := g.Next()
		require.False(ok)
		require.Nil(r)
		require.False(g.Destroy())
	})
}
