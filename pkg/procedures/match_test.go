/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func TestMatchFiles(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	fileA := func() MatchFile {
		return MatchFile{Dataset: newDataset(cfg, newDict("K", "a"), []any{1, 10}, []any{2, 20}), Name: "A"}
	}
	fileB := func() MatchFile {
		return MatchFile{Dataset: newDataset(cfg, newDict("K", "b"), []any{1, 100}, []any{3, 300}), Name: "B"}
	}

	t.Run("should match files by key", func(t *testing.T) {
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{fileA(), fileB()}, By: []string{"K"}})
		require.NoError(err)
		require.Equal(3, res.Dict.NVars())
		require.Equal([][]any{
			{1.0, 10.0, 100.0},
			{2.0, 20.0, nil},
			{3.0, nil, 300.0},
		}, readRows(t, res))
	})

	t.Run("should flag the files contributing to each case", func(t *testing.T) {
		a, b := fileA(), fileB()
		a.In, b.In = "inA", "inB"
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}, By: []string{"K"}})
		require.NoError(err)
		require.Equal(dict.Format{Type: dict.FmtF, W: 1}, res.Dict.LookupVar("inA").PrintFormat())
		require.Equal([][]any{
			{1.0, 10.0, 100.0, 1.0, 1.0},
			{2.0, 20.0, nil, 1.0, 0.0},
			{3.0, nil, 300.0, 0.0, 1.0},
		}, readRows(t, res))
	})

	t.Run("should make one case per duplicate key", func(t *testing.T) {
		a := MatchFile{Dataset: newDataset(cfg, newDict("K", "a"), []any{1, 10}, []any{1, 11}, []any{2, 20})}
		b := MatchFile{Dataset: newDataset(cfg, newDict("K", "b"), []any{1, 100}, []any{2, 200})}
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}, By: []string{"K"}, First: "first", Last: "last"})
		require.NoError(err)
		require.Equal([][]any{
			{1.0, 10.0, 100.0, 1.0, 0.0},
			{1.0, 11.0, nil, 0.0, 1.0},
			{2.0, 20.0, 200.0, 1.0, 1.0},
		}, readRows(t, res))
	})

	t.Run("should look up tables", func(t *testing.T) {
		a := MatchFile{Dataset: newDataset(cfg, newDict("K", "a"), []any{1, 10}, []any{1, 11}, []any{2, 20}, []any{4, 40})}
		tbl := MatchFile{Dataset: newDataset(cfg, newDict("K", "t"), []any{1, 7}, []any{3, 9}, []any{4, 8}), Table: true}
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, tbl}, By: []string{"K"}})
		require.NoError(err)
		require.Equal([]any{7.0, 7.0, nil, 8.0}, column(readRows(t, res), 2))
	})

	t.Run("should join files side by side without keys", func(t *testing.T) {
		a := MatchFile{Dataset: newDataset(cfg, newDict("a"), []any{1}, []any{2}, []any{3})}
		b := MatchFile{Dataset: newDataset(cfg, newDict("b"), []any{10}, []any{20})}
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}})
		require.NoError(err)
		require.Equal([][]any{{1.0, 10.0}, {2.0, 20.0}, {3.0, nil}}, readRows(t, res))
	})

	t.Run("should keep the first file's value of a shared variable", func(t *testing.T) {
		da := newDict("K", "s:2")
		db := newDict("K", "s:4")
		db.LookupVar("s").SetLabel("text")
		db.LookupVar("s").AddValueLabel(value.StrString("cdef", 4), "four")
		a := MatchFile{Dataset: newDataset(cfg, da, []any{1, "ab"}, []any{3, "xy"})}
		b := MatchFile{Dataset: newDataset(cfg, db, []any{1, "zzzz"}, []any{2, "cdef"})}
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}, By: []string{"K"}})
		require.NoError(err)
		s := res.Dict.LookupVar("s")
		require.Equal(4, s.Width())
		require.Equal("text", s.Label())
		require.Equal(1, s.ValueLabels().Len())
		require.Equal([]any{"ab", "cdef", "xy"}, column(readRows(t, res), 1))
	})

	t.Run("should warn about mixed encodings", func(t *testing.T) {
		latin, err := dict.New("ISO-8859-1")
		require.NoError(err)
		latin.AddVarAssert("K", value.NumericWidth)
		latin.AddVarAssert("s", 3)
		a := MatchFile{Dataset: newDataset(cfg, newDict("K", "s:3"), []any{1, "abc"})}
		b := MatchFile{Dataset: newDataset(cfg, latin, []any{2, "def"})}
		res, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}, By: []string{"K"}})
		require.NoError(err)
		require.Equal("UTF-8", res.Dict.Encoding())
		require.Len(readRows(t, res), 2)
	})

	t.Run("should reject variables of different types", func(t *testing.T) {
		a := MatchFile{Dataset: newDataset(cfg, newDict("K", "x"))}
		b := MatchFile{Dataset: newDataset(cfg, newDict("K", "x:3"))}
		_, err := MatchFiles(MatchOptions{Files: []MatchFile{a, b}, By: []string{"K"}})
		require.ErrorIs(err, dict.ErrIncompatibleError)
	})

	t.Run("should detect unsorted input", func(t *testing.T) {
		a := MatchFile{Dataset: newDataset(cfg, newDict("K", "a"), []any{2, 20}, []any{1, 10})}
		_, err := MatchFiles(MatchOptions{Files: []MatchFile{a, fileB()}, By: []string{"K"}})
		require.ErrorIs(err, ErrInvalidOptionsError)
	})

	t.Run("should reject bad options", func(t *testing.T) {
		_, err := MatchFiles(MatchOptions{})
		require.ErrorIs(err, ErrInvalidOptionsError)

		_, err = MatchFiles(MatchOptions{Files: []MatchFile{fileA(), fileB()}, By: []string{"nope"}})
		require.ErrorIs(err, dict.ErrNotFoundError)

		tbl := fileB()
		tbl.Table = true
		_, err = MatchFiles(MatchOptions{Files: []MatchFile{fileA(), tbl}})
		require.ErrorIs(err, ErrInvalidOptionsError)

		a := fileA()
		a.In = "K"
		_, err = MatchFiles(MatchOptions{Files: []MatchFile{a, fileB()}, By: []string{"K"}})
		require.ErrorIs(err, dict.ErrDuplicateNameError)
	})
}
