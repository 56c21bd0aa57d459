/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

var errTest = errors.New("test read error")

// seqSource produces cases 1..n, failing instead of producing case failAt if it is positive
type seqSource struct {
	n, i      int
	failAt    int
	destroyed bool
}

func (s *seqSource) Read(_ *Reader) (*ccase.Case, error) {
	if s.failAt > 0 && s.i+1 == s.failAt {
		return nil, errTest
	}
	if s.i >= s.n {
		return nil, nil
	}
	s.i++
	return ccase.FromNums(float64(s.i)), nil
}

func (s *seqSource) Destroy(_ *Reader) error {
	s.destroyed = true
	return nil
}

func testSettings(t *testing.T, opts ...settings.Option) *settings.Settings {
	return settings.New(append([]settings.Option{settings.WithTmpDir(t.TempDir())}, opts...)...)
}

func numbers(from, to int) []*ccase.Case {
	var res []*ccase.Case
	for i := from; i <= to; i++ {
		res = append(res, ccase.FromNums(float64(i)))
	}
	return res
}

// column reads slot idx of all cases of r and destroys it
func column(require *require.Assertions, r *Reader, idx int) []float64 {
	var res []float64
	for c := r.Read(); c != nil; c = r.Read() {
		res = append(res, c.Num(idx))
		c.Unref()
	}
	require.True(r.Destroy())
	return res
}

func seq(from, to int) []float64 {
	var res []float64
	for i := from; i <= to; i++ {
		res = append(res, float64(i))
	}
	return res
}

func TestBasicUsage(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)
	proto := caseproto.New(0)

	t.Run("should read cases in order", func(t *testing.T) {
		r := FromCases(proto, numbers(1, 5), cfg)
		require.Equal(int64(5), r.Count())
		require.False(r.IsEmpty())
		require.Equal(seq(1, 5), column(require, r, 0))
	})

	t.Run("should peek without consuming", func(t *testing.T) {
		r := FromCases(proto, numbers(1, 5), cfg)
		c := r.Peek(3)
		require.Equal(4.0, c.Num(0))
		c.Unref()
		require.Nil(r.Peek(5))
		require.Equal(seq(1, 5), column(require, r, 0))
	})

	t.Run("should clone independent cursors", func(t *testing.T) {
		r := FromCases(proto, numbers(1, 5), cfg)
		r.Read().Unref()
		clone := r.Clone()
		require.Equal(int64(4), clone.NCases())
		require.Equal(seq(2, 5), column(require, clone, 0))
		require.Equal(seq(2, 5), column(require, r, 0))
	})

	t.Run("should be empty", func(t *testing.T) {
		r := NewEmpty(proto, cfg)
		require.True(r.IsEmpty())
		require.Nil(r.Read())
		require.Equal(int64(0), r.Count())
		require.True(r.Destroy())
	})

	t.Run("should advance and truncate", func(t *testing.T) {
		r := FromCases(proto, numbers(1, 10), cfg)
		require.Equal(int64(2), r.Advance(2))
		r.Truncate(3)
		require.Equal(seq(3, 5), column(require, r, 0))

		r = FromCases(proto, numbers(1, 3), cfg)
		require.Equal(int64(3), r.Advance(10))
		require.True(r.IsEmpty())
		require.True(r.Destroy())
	})

	t.Run("should panic on a case of another proto", func(t *testing.T) {
		require.Panics(func() { FromCases(proto, []*ccase.Case{ccase.FromNums(1, 2)}, cfg) })
		w := NewMemWriter(proto, cfg)
		require.Panics(func() { w.Write(ccase.FromNums(1, 2)) })
		require.True(w.Destroy())
	})
}

func TestSequential(t *testing.T) {
	require := require.New(t)
	proto := caseproto.New(0)

	t.Run("should count and clone through a shim", func(t *testing.T) {
		src := &seqSource{n: 10}
		r := NewSequential(src, proto, UnknownCount, testSettings(t))
		require.Equal(int64(10), r.Count())
		c := r.Peek(0)
		require.Equal(1.0, c.Num(0))
		c.Unref()
		clone := r.Clone()
		require.Equal(seq(1, 10), column(require, r, 0))
		require.False(src.destroyed)
		require.Equal(seq(1, 10), column(require, clone, 0))
		require.True(src.destroyed)
	})

	t.Run("should truncate an unknown count", func(t *testing.T) {
		r := NewSequential(&seqSource{n: 10}, proto, UnknownCount, testSettings(t))
		r.Truncate(3)
		require.Equal(int64(3), r.NCases())
		require.Equal(seq(1, 3), column(require, r, 0))
	})

	t.Run("should move a large look-ahead to disk", func(t *testing.T) {
		cfg := testSettings(t, settings.WithWorkspace(64))
		before := imetrics.Global().Value(imetrics.CasesSpilled, componentWindow)
		r := NewSequential(&seqSource{n: 100}, proto, UnknownCount, cfg)
		clone := r.Clone()
		require.Equal(seq(1, 100), column(require, clone, 0))
		require.Equal(before+9, imetrics.Global().Value(imetrics.CasesSpilled, componentWindow))
		require.Equal(seq(1, 100), column(require, r, 0))
	})
}

func TestWriters(t *testing.T) {
	require := require.New(t)
	proto := caseproto.New(0, 3)
	row := func(i int) *ccase.Case {
		return ccase.FromValues(proto, value.Num(float64(i)), value.StrString(string(rune('a'+i%26)), 3))
	}

	writers := map[string]func(cfg *settings.Settings) *Writer{
		"memory":     func(cfg *settings.Settings) *Writer { return NewMemWriter(proto, cfg) },
		"tmpfile":    func(cfg *settings.Settings) *Writer { return NewTmpfileWriter(proto, cfg) },
		"autopaging": func(cfg *settings.Settings) *Writer { return NewAutopagingWriter(proto, cfg) },
	}
	for name, newWriter := range writers {
		t.Run("should read back what was written to a "+name+" writer", func(t *testing.T) {
			cfg := testSettings(t, settings.WithWorkspace(80), settings.WithPageSize(512))
			w := newWriter(cfg)
			for i := 0; i < 200; i++ {
				w.Write(row(i))
			}
			require.Equal(int64(200), w.NCases())
			r := w.MakeReader()
			require.Equal(int64(200), r.Count())

			clone := r.Clone()
			for i := 0; i < 200; i++ {
				c := r.Read()
				require.True(ccase.Equal(row(i), c), i)
				c.Unref()
			}
			require.Nil(r.Read())
			require.True(r.Destroy())
			require.Equal(int64(200), int64(len(column(require, clone, 0))))
		})
	}

	t.Run("should copy a reader through an autopaging writer", func(t *testing.T) {
		cfg := testSettings(t)
		w := NewAutopagingWriter(caseproto.New(0), cfg)
		FromCases(caseproto.New(0), numbers(1, 20), cfg).Transfer(w)
		require.Equal(seq(1, 20), column(require, w.MakeReader(), 0))
	})

	t.Run("should translate written cases", func(t *testing.T) {
		cfg := testSettings(t)
		sub := NewMemWriter(caseproto.New(0), cfg)
		destroyed := 0
		w := NewTranslatorWriter(sub, caseproto.New(0, 0), func(c *ccase.Case) *ccase.Case {
			defer c.Unref()
			if c.Num(0) < 0 {
				return nil
			}
			return ccase.FromNums(c.Num(0) + c.Num(1))
		}, func() error {
			destroyed++
			return nil
		})
		w.Write(ccase.FromNums(1, 2))
		w.Write(ccase.FromNums(-1, 2))
		w.Write(ccase.FromNums(3, 4))
		require.Equal([]float64{3, 7}, column(require, w.MakeReader(), 0))
		require.Equal(1, destroyed)
	})
}

func TestTaint(t *testing.T) {
	require := require.New(t)
	proto := caseproto.New(0)

	t.Run("should end a failed reader early", func(t *testing.T) {
		r := NewSequential(&seqSource{n: 10, failAt: 3}, proto, UnknownCount, testSettings(t))
		for i := 1; i <= 2; i++ {
			c := r.Read()
			require.Equal(float64(i), c.Num(0))
			c.Unref()
		}
		require.Nil(r.Read())
		require.True(r.Error())
		require.ErrorIs(r.Err(), errTest)
		require.Nil(r.Read())
		require.False(r.Destroy())
	})

	t.Run("should pass a read error to the written reader", func(t *testing.T) {
		cfg := testSettings(t)
		r := NewSequential(&seqSource{n: 10, failAt: 5}, proto, UnknownCount, cfg)
		w := NewMemWriter(proto, cfg)
		r.Transfer(w)
		require.True(w.Error())
		out := w.MakeReader()
		require.True(out.Error())
		require.Nil(out.Read())
		require.False(out.Destroy())
	})

	t.Run("should report a taint set before reading through translators", func(t *testing.T) {
		cfg := testSettings(t)
		r := FromCases(proto, numbers(1, 3), cfg)
		r.ForceError(nil)
		require.ErrorIs(r.Err(), ErrForcedError)
		f := Filter(AppendArithmetic(r, 0, 1), func(*ccase.Case) bool { return true }, nil, nil)
		require.Nil(f.Read())
		require.False(f.Destroy())
	})

	t.Run("should share taint between clones", func(t *testing.T) {
		r := FromCases(proto, numbers(1, 3), testSettings(t))
		clone := r.Clone()
		clone.ForceError(errTest)
		require.True(r.Error())
		require.False(clone.Destroy())
		require.False(r.Destroy())
	})
}

func TestTranslators(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)
	proto := caseproto.New(0)

	t.Run("should project fields", func(t *testing.T) {
		p := caseproto.New(0, 3, 0)
		rows := []*ccase.Case{
			ccase.FromValues(p, value.Num(1), value.StrString("a", 3), value.Num(10)),
			ccase.FromValues(p, value.Num(2), value.StrString("b", 3), value.Num(20)),
		}
		all := subcase.New()
		all.AddProto(p)
		r := FromCases(p, rows, cfg)
		require.Same(r, Project(r, all))

		sc := subcase.New()
		sc.Add(2, 0, subcase.Ascend)
		sc.Add(1, 3, subcase.Ascend)
		pr := Project(r, sc)
		require.Equal([]int{0, 3}, pr.Proto().Widths())
		c := pr.Read()
		require.Equal(10.0, c.Num(0))
		require.Equal("a  ", string(c.Str(1)))
		c.Unref()
		require.Equal([]float64{20}, column(require, pr, 0))
	})

	t.Run("should widen strings", func(t *testing.T) {
		p := caseproto.New(0, 2)
		r := FromCases(p, []*ccase.Case{ccase.FromValues(p, value.Num(1), value.StrString("ab", 2))}, cfg)
		require.Same(r, Resize(r, p))
		wide := caseproto.New(0, 5)
		rr := Resize(r, wide)
		c := rr.Read()
		require.True(c.Proto().Equal(wide))
		require.Equal("ab   ", string(c.Str(1)))
		c.Unref()
		require.True(rr.Destroy())
		require.Panics(func() { Resize(FromCases(wide, nil, cfg), p) })
	})

	t.Run("should select every step-th case", func(t *testing.T) {
		require.Equal([]float64{2, 5, 8}, column(require, Select(FromCases(proto, numbers(1, 10), cfg), 2, 9, 3), 0))
		require.Equal(seq(4, 10), column(require, Select(FromCases(proto, numbers(1, 10), cfg), 4, -1, 1), 0))
	})

	t.Run("should append an arithmetic sequence", func(t *testing.T) {
		r := AppendArithmetic(FromCases(proto, numbers(1, 3), cfg), 10, 5)
		require.Equal(2, r.Proto().N())
		r.Read().Unref()
		clone := r.Clone()
		require.Equal([]float64{15, 20}, column(require, clone, 1))
		require.Equal([]float64{15, 20}, column(require, r, 1))
	})

	t.Run("should count cases", func(t *testing.T) {
		var n int64
		r := Counter(FromCases(proto, numbers(1, 4), cfg), &n, 100)
		require.Equal(int64(100), n)
		column(require, r, 0)
		require.Equal(int64(104), n)
	})

	t.Run("should send excluded cases to a writer", func(t *testing.T) {
		exclude := NewMemWriter(proto, cfg)
		destroyed := false
		r := Filter(FromCases(proto, numbers(1, 10), cfg), func(c *ccase.Case) bool {
			return int(c.Num(0))%2 == 0
		}, func() error {
			destroyed = true
			return nil
		}, exclude)
		for _, want := range []float64{2, 4} {
			c := r.Read()
			require.Equal(want, c.Num(0))
			c.Unref()
		}
		require.True(r.Destroy())
		require.True(destroyed)
		require.Equal([]float64{1, 3, 5, 7, 9}, column(require, exclude.MakeReader(), 0))
	})
}

func TestDictionaryFilters(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	d := dict.NewUTF8()
	x := d.AddVarAssert("x", 0)
	w := d.AddVarAssert("w", 0)
	mv := dict.NewMissingValues(0)
	require.True(mv.AddNum(9))
	require.NoError(x.SetMissingValues(mv))
	proto := d.Proto()
	rows := func(pairs ...float64) []*ccase.Case {
		var res []*ccase.Case
		for i := 0; i < len(pairs); i += 2 {
			res = append(res, ccase.FromValues(proto, value.Num(pairs[i]), value.Num(pairs[i+1])))
		}
		return res
	}

	t.Run("should drop invalid weights once warned", func(t *testing.T) {
		r := FromCases(proto, rows(1, 1, 2, 0, 3, -1, 4, value.SYSMIS, 5, 2), cfg)
		require.Same(r, FilterWeight(r, d, nil, nil))

		d.SetWeight(w)
		defer d.SetWeight(nil)
		warn := true
		require.Equal([]float64{1, 5}, column(require, FilterWeight(r, d, &warn, nil), 0))
		require.False(warn)
	})

	t.Run("should drop missing values by class", func(t *testing.T) {
		var n int64
		vars := []*dict.Variable{x}
		r := FilterMissing(FromCases(proto, rows(1, 1, 9, 1, value.SYSMIS, 1, 4, 1), cfg), vars, dict.MVAny, &n, nil)
		require.Equal([]float64{1, 4}, column(require, r, 0))
		require.Equal(int64(2), n)

		r = FilterMissing(FromCases(proto, rows(1, 1, 9, 1, value.SYSMIS, 1, 4, 1), cfg), vars, dict.MVSystem, nil, nil)
		require.Equal([]float64{1, 9, 4}, column(require, r, 0))

		r = FromCases(proto, nil, cfg)
		require.Same(r, FilterMissing(r, vars, dict.MVNone, nil, nil))
		require.True(r.Destroy())
	})
}

func TestRank(t *testing.T) {
	require := require.New(t)
	cfg := testSettings(t)

	d := dict.NewUTF8()
	v := d.AddVarAssert("v", 0)
	w := d.AddVarAssert("w", 0)
	proto := d.Proto()
	rows := func(pairs ...float64) *Reader {
		var res []*ccase.Case
		for i := 0; i < len(pairs); i += 2 {
			res = append(res, ccase.FromValues(proto, value.Num(pairs[i]), value.Num(pairs[i+1])))
		}
		return FromCases(proto, res, cfg)
	}

	type block struct {
		val, n, weight float64
	}

	t.Run("should average tied ranks", func(t *testing.T) {
		var errs rank.Error
		var blocks []block
		r := AppendRank(rows(10, 1, 20, 1, 20, 1, 30, 1), v, nil, rank.TiesMean, &errs, func(val float64, n int64, weight float64) {
			blocks = append(blocks, block{val, float64(n), weight})
		})
		require.Equal([]float64{1, 2.5, 2.5, 4}, column(require, r, 2))
		require.Equal([]block{{10, 1, 1}, {20, 2, 2}, {30, 1, 1}}, blocks)
		require.Zero(errs)
	})

	t.Run("should weight ranks", func(t *testing.T) {
		var errs rank.Error
		r := AppendRank(rows(1, 2, 1, 1, 2, 1, 3, -1), v, w, rank.TiesMean, &errs, nil)
		ranks := column(require, r, 2)
		require.Equal([]float64{2, 2, 4}, ranks[:3])
		require.Equal(rank.NegativeWeight, errs)
	})

	t.Run("should condense ties", func(t *testing.T) {
		r := AppendRank(rows(1, 1, 1, 1, 5, 1, 7, 1, 7, 1), v, nil, rank.TiesCondense, nil, nil)
		require.Equal([]float64{1, 1, 2, 3, 3}, column(require, r, 2))
	})

	t.Run("should flag unsorted input", func(t *testing.T) {
		var errs rank.Error
		r := AppendRank(rows(2, 1, 1, 1, 3, 1), v, nil, rank.TiesMean, &errs, nil)
		require.Equal([]float64{1, 2, 3}, column(require, r, 2))
		require.Equal(rank.TiesIgnored, errs)
	})

	t.Run("should collapse runs counting cases", func(t *testing.T) {
		r := Distinct(rows(1, 0, 1, 0, 2, 0, 3, 0, 3, 0, 3, 0), v, nil)
		require.Equal(3, r.Proto().N())
		c := r.Read()
		require.Equal(1.0, c.Num(0))
		require.Equal(2.0, c.Num(2))
		c.Unref()
		require.Equal([]float64{1, 3}, column(require, r, 2))
	})

	t.Run("should collapse runs summing weights", func(t *testing.T) {
		r := Distinct(rows(1, 0.5, 1, 1.5, 2, 1), v, w)
		require.Equal(2, r.Proto().N())
		require.Equal([]float64{2, 1}, column(require, r, 1))
	})
}
