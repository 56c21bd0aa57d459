/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/procedures"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

func TestParseAggregateVar(t *testing.T) {
	t.Run("should parse a function over a source variable", func(t *testing.T) {
		require := require.New(t)
		av, err := parseAggregateVar("TOTAL 'sum of x' = SUM(X)")
		require.NoError(err)
		require.Equal("TOTAL", av.Dest)
		require.Equal("sum of x", av.Label)
		require.Equal(procedures.AggSum, av.Func)
		require.Equal("X", av.Src)
		require.Empty(av.Args)
		require.False(av.IncludeUserMissing)
	})

	t.Run("should parse numeric and string arguments", func(t *testing.T) {
		require := require.New(t)
		av, err := parseAggregateVar("P=PIN(X, -1.5, 5)")
		require.NoError(err)
		require.Equal(procedures.AggPIn, av.Func)
		require.Len(av.Args, 2)
		require.Equal(-1.5, av.Args[0].Num())
		require.Equal(5.0, av.Args[1].Num())

		av, err = parseAggregateVar(`F = FGT(S, "it's")`)
		require.NoError(err)
		require.Len(av.Args, 1)
		require.False(av.Args[0].IsNum())
		require.Equal("it's", av.Args[0].Trimmed())

		av, err = parseAggregateVar(`F = FLT(S, 'don''t')`)
		require.NoError(err)
		require.Equal("don't", av.Args[0].Trimmed())
	})

	t.Run("should parse functions without a source", func(t *testing.T) {
		require := require.New(t)
		for _, s := range []string{"N=N", "N = N()"} {
			av, err := parseAggregateVar(s)
			require.NoError(err, s)
			require.Equal(procedures.AggN, av.Func)
			require.Empty(av.Src)
		}
	})

	t.Run("should parse the user-missing marker", func(t *testing.T) {
		require := require.New(t)
		av, err := parseAggregateVar("M = MEAN.(X.1)")
		require.NoError(err)
		require.True(av.IncludeUserMissing)
		require.Equal("X.1", av.Src)
	})

	t.Run("should reject bad definitions", func(t *testing.T) {
		require := require.New(t)
		_, err := parseAggregateVar("SUM(X)")
		require.ErrorIs(err, ErrBadArgs)
		_, err = parseAggregateVar("S = SUM(X")
		require.ErrorIs(err, ErrBadArgs)
		_, err = parseAggregateVar("S = MEDIAN(X)")
		require.ErrorIs(err, procedures.ErrInvalidOptionsError)
	})
}

func TestParseSortKeys(t *testing.T) {
	require := require.New(t)

	keys, err := parseSortKeys([]string{"A", "B(D)", "C(a)", "D (DOWN)"})
	require.NoError(err)
	require.Equal([]procedures.SortKey{
		{Name: "A", Dir: subcase.Ascend},
		{Name: "B", Dir: subcase.Descend},
		{Name: "C", Dir: subcase.Ascend},
		{Name: "D", Dir: subcase.Descend},
	}, keys)

	_, err = parseSortKeys([]string{"A(X)"})
	require.ErrorIs(err, ErrBadArgs)
	_, err = parseSortKeys([]string{"A B"})
	require.ErrorIs(err, ErrBadArgs)
}

func TestParseRankSpec(t *testing.T) {
	require := require.New(t)

	spec, err := parseRankSpec("rank")
	require.NoError(err)
	require.Equal(rank.FuncRank, spec.Func)
	require.Zero(spec.NTiles)
	require.Empty(spec.Into)

	spec, err = parseRankSpec("NTILES(4) INTO Q1 Q2")
	require.NoError(err)
	require.Equal(rank.FuncNTiles, spec.Func)
	require.Equal(4, spec.NTiles)
	require.Equal([]string{"Q1", "Q2"}, spec.Into)

	_, err = parseRankSpec("PERCENT(4)")
	require.ErrorIs(err, ErrBadArgs)
	_, err = parseRankSpec("MEDIAN")
	require.ErrorIs(err, ErrBadArgs)
}
