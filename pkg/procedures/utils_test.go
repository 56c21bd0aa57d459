/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

const tolerance = 1e-9

func testSettings(t *testing.T) *settings.Settings {
	return settings.New(settings.WithTmpDir(t.TempDir()))
}

// newDict returns a dictionary with a variable per name. Names are numeric unless a width
// follows them as "name:width"
func newDict(names ...string) *dict.Dictionary {
	d := dict.NewUTF8()
	for _, n := range names {
		width := value.NumericWidth
		name, w, found := strings.Cut(n, ":")
		if found {
			width, _ = strconv.Atoi(w)
		}
		d.AddVarAssert(name, width)
	}
	return d
}

func toValue(x any, width int) value.Value {
	switch x := x.(type) {
	case nil:
		return value.New(width)
	case int:
		return value.Num(float64(x))
	case float64:
		return value.Num(x)
	case string:
		return value.StrString(x, width)
	}
	panic(fmt.Sprintf("unsupported cell %v", x))
}

// newDataset returns a dataset over rows. A nil cell is SYSMIS or blanks
func newDataset(cfg *settings.Settings, d *dict.Dictionary, rows ...[]any) Dataset {
	proto := d.Proto()
	cases := make([]*ccase.Case, len(rows))
	for i, row := range rows {
		c := ccase.New(proto)
		for j, x := range row {
			c.SetValue(j, toValue(x, d.Var(j).Width()))
		}
		cases[i] = c
	}
	return Dataset{Dict: d, Reader: casestream.FromCases(proto, cases, cfg)}
}

// readRows reads all cases of ds as rows of numbers and trimmed strings, SYSMIS as nil
func readRows(t *testing.T, ds Dataset) [][]any {
	cases, ok := ds.Reader.ReadAll()
	require.True(t, ok)
	var rows [][]any
	for _, c := range cases {
		row := make([]any, c.N())
		for i := range row {
			v := c.Value(i)
			switch {
			case !v.IsNum():
				row[i] = v.Trimmed()
			case v.Num() == value.SYSMIS:
				row[i] = nil
			default:
				row[i] = v.Num()
			}
		}
		rows = append(rows, row)
		c.Unref()
	}
	return rows
}

func column(rows [][]any, i int) []any {
	res := make([]any, len(rows))
	for j, r := range rows {
		res[j] = r[i]
	}
	return res
}

func TestForEachSplit(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	t.Run("should call once per split group", func(t *testing.T) {
		d := newDict("g:3", "x")
		require.NoError(d.SetSplitVars([]*dict.Variable{d.LookupVar("g")}, dict.SplitLayered))
		ds := newDataset(cfg, d, []any{"a", 1}, []any{"a", 2}, []any{"b", 3}, []any{"a", 4})
		var labels []string
		var counts []int64
		err := ForEachSplit(ds, func(split SplitGroup, r *casestream.Reader) error {
			labels = append(labels, split.Label())
			counts = append(counts, r.Count())
			require.Equal(dict.SplitLayered, split.Type)
			r.Destroy()
			return nil
		})
		require.NoError(err)
		require.Equal([]string{"g = a", "g = b", "g = a"}, labels)
		require.Equal([]int64{2, 1, 1}, counts)
	})

	t.Run("should make one group without split variables", func(t *testing.T) {
		calls := 0
		err := ForEachSplit(newDataset(cfg, newDict("x"), []any{1}, []any{2}), func(split SplitGroup, r *casestream.Reader) error {
			calls++
			require.Empty(split.Vars)
			require.Equal(int64(2), r.Count())
			r.Destroy()
			return nil
		})
		require.NoError(err)
		require.Equal(1, calls)

		err = ForEachSplit(newDataset(cfg, newDict("x")), func(SplitGroup, *casestream.Reader) error {
			calls++
			return nil
		})
		require.NoError(err)
		require.Equal(1, calls)
	})

	t.Run("should stop on the first error", func(t *testing.T) {
		d := newDict("g")
		require.NoError(d.SetSplitVars(d.Vars(), dict.SplitSeparate))
		testErr := fmt.Errorf("test error")
		calls := 0
		err := ForEachSplit(newDataset(cfg, d, []any{1}, []any{2}), func(_ SplitGroup, r *casestream.Reader) error {
			calls++
			r.Destroy()
			return testErr
		})
		require.ErrorIs(err, testErr)
		require.Equal(1, calls)
	})

	t.Run("should report a reader error", func(t *testing.T) {
		ds := newDataset(cfg, newDict("x"), []any{1})
		ds.Reader.ForceError(nil)
		err := ForEachSplit(ds, func(_ SplitGroup, r *casestream.Reader) error {
			r.Destroy()
			return nil
		})
		require.ErrorIs(err, ErrStreamError)
	})
}

func TestSortCases(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	t.Run("should sort stably on several keys", func(t *testing.T) {
		ds := newDataset(cfg, newDict("a", "b:2", "seq"),
			[]any{2, "x", 1}, []any{1, "y", 2}, []any{2, "a", 3}, []any{1, "y", 4}, []any{nil, "z", 5})
		res, err := SortCases(ds, []SortKey{{Name: "a", Dir: subcase.Descend}, {Name: "b", Dir: subcase.Ascend}})
		require.NoError(err)
		rows := readRows(t, res)
		require.Equal([]any{3.0, 1.0, 2.0, 4.0, 5.0}, column(rows, 2))
	})

	t.Run("should sort beyond the memory budget", func(t *testing.T) {
		small := settings.New(settings.WithTmpDir(t.TempDir()), settings.WithBuffers(8, 8), settings.WithPageSize(512))
		const n = 20000
		d := newDict("key", "seq")
		rows := make([][]any, n)
		for i := range rows {
			rows[i] = []any{(i * 7919) % 101, i}
		}
		res, err := SortCases(newDataset(small, d, rows...), []SortKey{{Name: "key"}})
		require.NoError(err)
		sorted := readRows(t, res)
		require.Len(sorted, n)
		for i := 1; i < n; i++ {
			prev, cur := sorted[i-1], sorted[i]
			require.LessOrEqual(prev[0].(float64), cur[0].(float64))
			if prev[0] == cur[0] {
				require.Less(prev[1].(float64), cur[1].(float64))
			}
		}
	})

	t.Run("should reject bad keys", func(t *testing.T) {
		_, err := SortCases(newDataset(cfg, newDict("a")), nil)
		require.ErrorIs(err, ErrInvalidOptionsError)
		_, err = SortCases(newDataset(cfg, newDict("a")), []SortKey{{Name: "nope"}})
		require.ErrorIs(err, dict.ErrNotFoundError)
		_, err = SortCases(newDataset(cfg, newDict("a")), []SortKey{{Name: "a"}, {Name: "A"}})
		require.ErrorIs(err, ErrInvalidOptionsError)
	})
}
