/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func TestOpen(t *testing.T) {
	require := require.New(t)
	cfg := settings.New(settings.WithTmpDir(t.TempDir()))

	t.Run("should infer the dictionary", func(t *testing.T) {
		in := "id,name,score\n1,ann,2.5\n2,bob,\n3,christine,.\n"
		d, r, err := Open(strings.NewReader(in), Options{}, cfg)
		require.NoError(err)
		require.Equal(3, d.NVars())
		require.True(d.Var(0).IsNumeric())
		require.Equal(9, d.Var(1).Width())
		require.Equal(dict.Format{Type: dict.FmtA, W: 9}, d.Var(1).PrintFormat())
		require.True(d.Var(2).IsNumeric())

		cases, ok := r.ReadAll()
		require.True(ok)
		require.Len(cases, 3)
		require.Equal(1.0, cases[0].Num(0))
		require.Equal("ann", cases[0].Value(1).Trimmed())
		require.Equal(2.5, cases[0].Num(2))
		require.Equal(value.SYSMIS, cases[1].Num(2))
		require.Equal(value.SYSMIS, cases[2].Num(2))
		require.Equal("christine", cases[2].Value(1).Trimmed())
		unref(cases)
	})

	t.Run("should read formats from the header", func(t *testing.T) {
		in := "x(F5.1), s(A3)\n1.25,abcdef\n"
		d, r, err := Open(strings.NewReader(in), Options{}, cfg)
		require.NoError(err)
		require.Equal(dict.Format{Type: dict.FmtF, W: 5, D: 1}, d.LookupVar("x").PrintFormat())
		require.Equal(3, d.LookupVar("s").Width())
		cases, ok := r.ReadAll()
		require.True(ok)
		require.Equal("abc", string(cases[0].Value(1).Bytes()))
		unref(cases)
	})

	t.Run("should taint the reader on bad records", func(t *testing.T) {
		for _, in := range []string{"a,b\n1,2\n3\n", "a(F8.0)\nx\n"} {
			_, r, err := Open(strings.NewReader(in), Options{}, cfg)
			require.NoError(err)
			cases, ok := r.ReadAll()
			require.False(ok)
			require.ErrorIs(r.Err(), ErrParseError)
			unref(cases)
		}
	})

	t.Run("should sniff only the first rows", func(t *testing.T) {
		_, r, err := Open(strings.NewReader("a\n1\nx\n"), Options{SniffRows: 1}, cfg)
		require.NoError(err)
		cases, ok := r.ReadAll()
		require.False(ok)
		require.Len(cases, 1)
		unref(cases)
	})

	t.Run("should decode the file encoding", func(t *testing.T) {
		in := []byte("s;n\ncaf\xe9;1\n")
		d, r, err := Open(bytes.NewReader(in), Options{Encoding: "ISO-8859-1", Comma: ';'}, cfg)
		require.NoError(err)
		require.Equal("ISO-8859-1", d.Encoding())
		require.Equal(4, d.Var(0).Width())
		cases, ok := r.ReadAll()
		require.True(ok)
		require.Equal([]byte("caf\xe9"), cases[0].Value(0).Bytes())
		unref(cases)
	})

	t.Run("should reject bad headers", func(t *testing.T) {
		_, _, err := Open(strings.NewReader(""), Options{}, cfg)
		require.ErrorIs(err, ErrNoHeaderError)
		_, _, err = Open(strings.NewReader("a,a\n"), Options{}, cfg)
		require.ErrorIs(err, dict.ErrDuplicateNameError)
		_, _, err = Open(strings.NewReader("a(Q3)\n"), Options{}, cfg)
		require.ErrorIs(err, dict.ErrInvalidError)
		_, _, err = Open(strings.NewReader("a\n"), Options{Encoding: "no-such-encoding"}, cfg)
		require.ErrorIs(err, dict.ErrInvalidError)
	})
}

func TestNewReader(t *testing.T) {
	require := require.New(t)
	d := dict.NewUTF8()
	d.AddVarAssert("n", value.NumericWidth)
	d.AddVarAssert("s", 2)
	r, err := NewReader(strings.NewReader("1,ab\n2,\n"), d, Options{}, nil)
	require.NoError(err)
	cases, ok := r.ReadAll()
	require.True(ok)
	require.Len(cases, 2)
	require.Equal("  ", string(cases[1].Value(1).Bytes()))
	unref(cases)
}

func TestNewWriter(t *testing.T) {
	require := require.New(t)
	cfg := settings.New(settings.WithTmpDir(t.TempDir()))

	newDict := func() *dict.Dictionary {
		d := dict.NewUTF8()
		x := d.AddVarAssert("x", value.NumericWidth)
		require.NoError(x.SetBothFormats(dict.Format{Type: dict.FmtF, W: 8, D: 1}))
		x.AddValueLabel(value.Num(1), "one")
		d.AddVarAssert("s", 4)
		return d
	}
	write := func(d *dict.Dictionary, opts Options) string {
		var out bytes.Buffer
		w, err := NewWriter(&out, d, opts, cfg)
		require.NoError(err)
		w.Write(ccase.FromValues(d.Proto(), value.Num(1), value.StrString("ab", 4)))
		w.Write(ccase.FromValues(d.Proto(), value.Num(2.375), value.StrString("caf", 4)))
		w.Write(ccase.FromValues(d.Proto(), value.Sysmis(), value.New(4)))
		require.True(w.Destroy())
		return out.String()
	}

	t.Run("should write values", func(t *testing.T) {
		require.Equal("x,s(A4)\n1,ab\n2.375,caf\n,\n", write(newDict(), Options{}))
	})

	t.Run("should write labels, formats and typed headers", func(t *testing.T) {
		require.Equal("x(F8.1),s(A4)\none,ab\n2.4,caf\n,\n", write(newDict(), Options{TypedHeader: true, Labels: true, Formatted: true}))
	})

	t.Run("should read back what it writes", func(t *testing.T) {
		d := newDict()
		text := write(d, Options{TypedHeader: true})
		d2, r, err := Open(strings.NewReader(text), Options{}, cfg)
		require.NoError(err)
		require.Equal(d.Var(0).PrintFormat(), d2.Var(0).PrintFormat())
		require.Equal(4, d2.Var(1).Width())
		cases, ok := r.ReadAll()
		require.True(ok)
		require.Len(cases, 3)
		require.Equal(2.375, cases[1].Num(0))
		require.Equal("caf ", string(cases[1].Value(1).Bytes()))
		unref(cases)
	})

	t.Run("should encode the output", func(t *testing.T) {
		d, err := dict.New("ISO-8859-1")
		require.NoError(err)
		d.AddVarAssert("s", 4)
		var out bytes.Buffer
		w, err := NewWriter(&out, d, Options{Encoding: "UTF-8"}, cfg)
		require.NoError(err)
		w.Write(ccase.FromValues(d.Proto(), value.Str([]byte("caf\xe9"), 4)))
		r := w.MakeReader()
		require.True(r.IsEmpty())
		require.True(r.Destroy())
		require.Equal("s(A4)\ncafé\n", out.String())
	})
}

func unref(cases []*ccase.Case) {
	for _, c := range cases {
		c.Unref()
	}
}
