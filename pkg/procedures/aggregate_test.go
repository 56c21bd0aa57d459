/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/pool"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func TestAggregate(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	t.Run("should sum presorted groups", func(t *testing.T) {
		ds := newDataset(cfg, newDict("G", "V"), []any{1, 2}, []any{1, 3}, []any{2, 5}, []any{2, 7})
		res, err := Aggregate(ds, AggregateOptions{
			Break:     []SortKey{{Name: "G"}},
			Presorted: true,
			Vars:      []AggregateVar{{Dest: "S", Func: AggSum, Src: "V"}},
		})
		require.NoError(err)
		require.Equal(2, res.Dict.NVars())
		require.Equal("S", res.Dict.Var(1).Name())
		require.Equal(dict.Format{Type: dict.FmtF, W: 8, D: 2}, res.Dict.Var(1).PrintFormat())
		require.Equal([][]any{{1.0, 5.0}, {2.0, 12.0}}, readRows(t, res))
	})

	t.Run("should sort unsorted input", func(t *testing.T) {
		ds := newDataset(cfg, newDict("G", "V"), []any{2, 5}, []any{1, 2}, []any{2, 7}, []any{1, 3})
		res, err := Aggregate(ds, AggregateOptions{
			Break: []SortKey{{Name: "G"}},
			Vars:  []AggregateVar{{Dest: "S", Func: AggSum, Src: "V"}},
		})
		require.NoError(err)
		require.Equal([][]any{{1.0, 5.0}, {2.0, 12.0}}, readRows(t, res))
	})

	vars := []AggregateVar{
		{Dest: "SUM", Func: AggSum, Src: "V"},
		{Dest: "MEAN", Func: AggMean, Src: "V"},
		{Dest: "SD", Func: AggSD, Src: "V"},
		{Dest: "MIN", Func: AggMin, Src: "V"},
		{Dest: "MAX", Func: AggMax, Src: "V"},
		{Dest: "NALL", Func: AggN},
		{Dest: "NV", Func: AggN, Src: "V"},
		{Dest: "NUALL", Func: AggNU},
		{Dest: "NMISS", Func: AggNMiss, Src: "V"},
		{Dest: "NUMISS", Func: AggNUMiss, Src: "V"},
		{Dest: "FIRST", Func: AggFirst, Src: "V"},
		{Dest: "LAST", Func: AggLast, Src: "V"},
		{Dest: "PGT", Func: AggPGT, Src: "V", Args: []value.Value{value.Num(2)}},
		{Dest: "FLT", Func: AggFLT, Src: "V", Args: []value.Value{value.Num(2)}},
		{Dest: "CIN", Func: AggCIn, Src: "V", Args: []value.Value{value.Num(2), value.Num(3)}},
		{Dest: "POUT", Func: AggPOut, Src: "V", Args: []value.Value{value.Num(2), value.Num(3)}},
	}
	groups := func() Dataset {
		return newDataset(cfg, newDict("G", "V"),
			[]any{1, 3}, []any{1, 1}, []any{1, nil}, []any{1, 4}, []any{1, 2}, []any{2, 10})
	}

	t.Run("should calculate every function", func(t *testing.T) {
		res, err := Aggregate(groups(), AggregateOptions{Break: []SortKey{{Name: "G"}}, Vars: vars})
		require.NoError(err)
		rows := readRows(t, res)
		require.Len(rows, 2)

		g1 := rows[0]
		require.Equal(1.0, g1[0])
		require.Equal(10.0, g1[1])
		require.Equal(2.5, g1[2])
		require.InDelta(math.Sqrt(5.0/3), g1[3], tolerance)
		require.Equal([]any{1.0, 4.0, 5.0, 4.0, 5.0, 1.0, 1.0, 3.0, 2.0, 50.0, 0.25, 2.0, 50.0}, g1[4:])

		g2 := rows[1]
		require.Equal([]any{2.0, 10.0, 10.0, nil, 10.0, 10.0, 1.0, 1.0, 1.0, 0.0, 0.0, 10.0, 10.0, 100.0, 0.0, 0.0, 100.0}, g2)
	})

	t.Run("should make aggregates with missing sources missing columnwise", func(t *testing.T) {
		res, err := Aggregate(groups(), AggregateOptions{Break: []SortKey{{Name: "G"}}, Missing: Columnwise, Vars: vars})
		require.NoError(err)
		g1 := readRows(t, res)[0]
		require.Equal([]any{1.0, nil, nil, nil, nil, nil, 5.0, 4.0, 5.0, 1.0, 1.0, nil, nil, nil, nil, nil, nil}, g1)
	})

	t.Run("should weight cases", func(t *testing.T) {
		d := newDict("G", "V", "W")
		d.SetWeight(d.LookupVar("W"))
		ds := newDataset(cfg, d, []any{1, 1, 1}, []any{1, 2, 2}, []any{1, 3, 0})
		res, err := Aggregate(ds, AggregateOptions{
			Break: []SortKey{{Name: "G"}},
			Vars: []AggregateVar{
				{Dest: "S", Func: AggSum, Src: "V"},
				{Dest: "M", Func: AggMean, Src: "V"},
				{Dest: "N", Func: AggN},
				{Dest: "NU", Func: AggNU},
			},
		})
		require.NoError(err)
		row := readRows(t, res)[0]
		require.Equal(5.0, row[1])
		require.InDelta(5.0/3, row[2], tolerance)
		require.Equal(3.0, row[3])
		require.Equal(3.0, row[4])
	})

	t.Run("should take string minimum and maximum", func(t *testing.T) {
		ds := newDataset(cfg, newDict("G", "S:3"),
			[]any{1, "b"}, []any{1, "a"}, []any{1, ""}, []any{1, "c"}, []any{2, ""})
		res, err := Aggregate(ds, AggregateOptions{
			Break: []SortKey{{Name: "G"}},
			Vars: []AggregateVar{
				{Dest: "LO", Func: AggMin, Src: "S"},
				{Dest: "HI", Func: AggMax, Src: "S"},
				{Dest: "FIRST", Func: AggFirst, Src: "S"},
				{Dest: "PIN", Func: AggPIn, Src: "S", Args: []value.Value{value.StrString("b", 1), value.StrString("cc", 2)}},
			},
		})
		require.NoError(err)
		require.Equal(3, res.Dict.LookupVar("LO").Width())
		rows := readRows(t, res)
		require.Equal([]any{1.0, "a", "c", "b"}, rows[0][:4])
		require.InDelta(200.0/3, rows[0][4], tolerance)
		require.Equal([]any{2.0, "", "", "", nil}, rows[1])
	})

	t.Run("should keep string results of each group in a child pool", func(t *testing.T) {
		parent := pool.New()
		cleanups := 0
		parent.RegisterCleanup(func() { cleanups++ })
		ds := newDataset(cfg, newDict("G", "S:2"),
			[]any{1, "x"}, []any{1, "y"}, []any{1, "z"}, []any{2, "p"}, []any{2, "q"}, []any{3, "m"})
		res, err := Aggregate(ds, AggregateOptions{
			Break:     []SortKey{{Name: "G"}},
			Presorted: true,
			Pool:      parent,
			Vars: []AggregateVar{
				{Dest: "FIRST", Func: AggFirst, Src: "S"},
				{Dest: "LAST", Func: AggLast, Src: "S"},
				{Dest: "HI", Func: AggMax, Src: "S"},
			},
		})
		require.NoError(err)
		require.False(parent.IsDestroyed())
		require.Zero(cleanups)
		require.Equal([][]any{{1.0, "x", "z", "z"}, {2.0, "p", "q", "q"}, {3.0, "m", "m", "m"}}, readRows(t, res))
		parent.Destroy()
		require.Equal(1, cleanups)
	})

	t.Run("should swap arguments out of order", func(t *testing.T) {
		res, err := Aggregate(groups(), AggregateOptions{
			Break: []SortKey{{Name: "G"}},
			Vars:  []AggregateVar{{Dest: "CIN", Func: AggCIn, Src: "V", Args: []value.Value{value.Num(3), value.Num(2)}}},
		})
		require.NoError(err)
		require.Equal(2.0, readRows(t, res)[0][1])
	})

	t.Run("should add aggregates to every case", func(t *testing.T) {
		d := newDict("G", "V")
		d.LookupVar("V").SetLabel("value")
		ds := newDataset(cfg, d, []any{1, 2}, []any{1, 3}, []any{2, 5})
		res, err := Aggregate(ds, AggregateOptions{
			Break: []SortKey{{Name: "G"}},
			Mode:  AggregateAddVariables,
			Vars:  []AggregateVar{{Dest: "S", Label: "sum of V", Func: AggSum, Src: "V"}},
		})
		require.NoError(err)
		require.Equal(3, res.Dict.NVars())
		require.Equal("value", res.Dict.LookupVar("V").Label())
		require.Equal("sum of V", res.Dict.LookupVar("S").Label())
		require.Equal([][]any{{1.0, 2.0, 5.0}, {1.0, 3.0, 5.0}, {2.0, 5.0, 5.0}}, readRows(t, res))
	})

	t.Run("should aggregate all cases without break variables", func(t *testing.T) {
		res, err := Aggregate(groups(), AggregateOptions{Vars: []AggregateVar{{Dest: "N", Func: AggN}}})
		require.NoError(err)
		require.Equal([][]any{{6.0}}, readRows(t, res))
	})

	t.Run("should reject bad definitions", func(t *testing.T) {
		cases := []struct {
			name   string
			spec   AggregateVar
			target error
		}{
			{"unknown source", AggregateVar{Dest: "X", Func: AggSum, Src: "nope"}, dict.ErrNotFoundError},
			{"missing source", AggregateVar{Dest: "X", Func: AggMean}, ErrInvalidOptionsError},
			{"source of NMISS", AggregateVar{Dest: "X", Func: AggNMiss}, ErrInvalidOptionsError},
			{"missing argument", AggregateVar{Dest: "X", Func: AggPGT, Src: "V"}, ErrInvalidOptionsError},
			{"string argument", AggregateVar{Dest: "X", Func: AggPGT, Src: "V", Args: []value.Value{value.StrString("a", 1)}}, ErrInvalidOptionsError},
			{"duplicate name", AggregateVar{Dest: "G", Func: AggN}, dict.ErrDuplicateNameError},
			{"invalid name", AggregateVar{Dest: "1X", Func: AggN}, dict.ErrInvalidError},
			{"unknown function", AggregateVar{Dest: "X", Func: aggFuncCount}, ErrInvalidOptionsError},
		}
		for _, c := range cases {
			_, err := Aggregate(groups(), AggregateOptions{Break: []SortKey{{Name: "G"}}, Vars: []AggregateVar{c.spec}})
			require.ErrorIs(err, c.target, c.name)
		}

		_, err := Aggregate(groups(), AggregateOptions{Break: []SortKey{{Name: "G"}}})
		require.ErrorIs(err, ErrInvalidOptionsError)

		d := newDict("G", "S:2")
		_, err = Aggregate(newDataset(cfg, d), AggregateOptions{Vars: []AggregateVar{{Dest: "X", Func: AggSum, Src: "S"}}})
		require.ErrorIs(err, ErrInvalidOptionsError)
	})

	t.Run("should fail on a reader error", func(t *testing.T) {
		ds := groups()
		ds.Reader.ForceError(nil)
		_, err := Aggregate(ds, AggregateOptions{Vars: []AggregateVar{{Dest: "N", Func: AggN}}})
		require.ErrorIs(err, ErrStreamError)
	})
}

func TestParseAggregateFunc(t *testing.T) {
	require := require.New(t)

	f, err := ParseAggregateFunc("numiss")
	require.NoError(err)
	require.Equal(AggNUMiss, f)

	f, err = ParseAggregateFunc("PIN")
	require.NoError(err)
	require.Equal(AggPIn, f)

	_, err = ParseAggregateFunc("MEDIAN")
	require.ErrorIs(err, ErrInvalidOptionsError)
}
