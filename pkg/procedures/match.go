/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

type matchInput struct {
	MatchFile
	reader  *casestream.Reader
	by      *subcase.Subcase
	src     *subcase.Subcase
	dst     *subcase.Subcase
	in      *dict.Variable
	data    *ccase.Case
	minimal bool
}

type matcher struct {
	out    *dict.Dictionary
	files  []*matchInput
	by     *subcase.Subcase
	first  *dict.Variable
	last   *dict.Variable
	output *casestream.Writer

	buffered *ccase.Case
	prevBy   []value.Value
	err      error
}

// MatchFiles joins files side by side. With BY variables, files must be sorted on them and an
// output case is made for every key from the cases of all files that have it; a file with
// several cases for a key contributes one per output case. Without BY, the n-th cases of all
// files are joined. When files share a variable, the earliest file's value wins.
// Consumes the readers of all files
func MatchFiles(opts MatchOptions) (Dataset, error) {
	m, err := newMatcher(opts)
	if err != nil {
		for _, f := range opts.Files {
			f.Reader.Destroy()
		}
		return Dataset{}, procError(procMatchFiles, err)
	}
	for _, f := range m.files {
		f.read()
	}
	for m.err == nil {
		by, ok := m.match()
		if !ok {
			break
		}
		out := m.newCase()
		for i := len(m.files) - 1; i >= 0; i-- {
			f := m.files[i]
			if f.Table {
				if f.scan(by) {
					f.apply(out)
				}
				continue
			}
			if f.minimal {
				f.apply(out)
				if err := f.advance(m.by, by); err != nil {
					m.err = err
				}
			}
		}
		m.write(out, by)
	}
	m.flush()

	ok := true
	var errs []error
	for _, f := range m.files {
		f.data.Unref()
		errs = append(errs, f.reader.Err())
		ok = f.reader.Destroy() && ok
	}
	if m.err != nil || !ok {
		m.output.Destroy()
		if m.err != nil {
			return Dataset{}, procError(procMatchFiles, m.err)
		}
		return Dataset{}, procError(procMatchFiles, readerErr(errs...))
	}
	return Dataset{Dict: m.out, Reader: m.output.MakeReader()}, nil
}

func newMatcher(opts MatchOptions) (*matcher, error) {
	if len(opts.Files) == 0 {
		return nil, ErrInvalidOptions("no files to match")
	}
	out, err := mergeDictionaries(opts.Files)
	if err != nil {
		return nil, err
	}
	m := &matcher{out: out, by: subcase.New()}
	for _, name := range opts.By {
		v := out.LookupVar(name)
		if v == nil {
			return nil, dict.ErrNotFound("BY variable «%s»", name)
		}
		m.by.AddVar(v, subcase.Ascend)
	}
	hasFile := false
	for i, f := range opts.Files {
		in := &matchInput{MatchFile: f, by: subcase.New(), src: subcase.New(), dst: subcase.New()}
		if in.Name == "" {
			in.Name = fmt.Sprintf("#%d", i+1)
		}
		if in.Table && len(opts.By) == 0 {
			return nil, ErrInvalidOptions("table %s requires BY variables", in.Name)
		}
		hasFile = hasFile || !in.Table
		proto := f.Dict.Proto()
		for _, v := range f.Dict.Vars() {
			ov := out.LookupVar(v.Name())
			if ov == nil {
				continue
			}
			if ov.Width() != v.Width() {
				proto = proto.SetWidth(v.CaseIndex(), ov.Width())
			}
			in.src.AddAlways(v.CaseIndex(), ov.Width(), subcase.Ascend)
			in.dst.AddVarAlways(ov, subcase.Ascend)
		}
		for _, name := range opts.By {
			v := f.Dict.LookupVar(name)
			if v == nil {
				return nil, dict.ErrNotFound("BY variable «%s» in file %s", name, in.Name)
			}
			in.by.AddAlways(v.CaseIndex(), out.LookupVar(name).Width(), subcase.Ascend)
		}
		if f.In != "" {
			if in.in, err = addFlag(out, f.In); err != nil {
				return nil, err
			}
		}
		in.reader = casestream.Resize(f.Reader, proto)
		m.files = append(m.files, in)
	}
	if !hasFile {
		return nil, ErrInvalidOptions("at least one input must be a file rather than a table")
	}
	if opts.First != "" {
		if m.first, err = addFlag(out, opts.First); err != nil {
			return nil, err
		}
	}
	if opts.Last != "" {
		if m.last, err = addFlag(out, opts.Last); err != nil {
			return nil, err
		}
	}
	checkEncodings(out, opts.Files)
	m.output = casestream.NewAutopagingWriter(out.Proto(), opts.Files[0].Reader.Settings())
	return m, nil
}

// match finds the smallest key among the files and marks the files positioned on it
func (m *matcher) match() ([]value.Value, bool) {
	var lowest *matchInput
	for _, f := range m.files {
		if f.Table || f.data == nil {
			continue
		}
		if lowest == nil || subcase.Compare3(f.data, f.by, lowest.data, lowest.by) < 0 {
			lowest = f
		}
	}
	if lowest == nil {
		return nil, false
	}
	by := lowest.by.Extract(lowest.data)
	for _, f := range m.files {
		f.minimal = !f.Table && f.data != nil && f.by.EqualXC(by, f.data)
	}
	return by, true
}

// newCase returns an output case with missing values and IN flags cleared
func (m *matcher) newCase() *ccase.Case {
	c := ccase.New(m.out.Proto())
	for _, f := range m.files {
		if f.in != nil {
			c.SetNum(f.in.CaseIndex(), 0)
		}
	}
	return c
}

// write outputs c, holding it back until the next key is known when FIRST or LAST are set
func (m *matcher) write(c *ccase.Case, by []value.Value) {
	if m.first == nil && m.last == nil {
		m.output.Write(c)
		return
	}
	newBy := true
	if m.buffered != nil {
		newBy = !m.by.EqualXX(m.prevBy, by)
		if m.last != nil {
			m.buffered.SetNum(m.last.CaseIndex(), flag(newBy))
		}
		m.output.Write(m.buffered)
	}
	m.buffered = c
	if m.first != nil {
		c.SetNum(m.first.CaseIndex(), flag(newBy))
	}
	if newBy {
		m.prevBy = m.prevBy[:0]
		for _, v := range by {
			m.prevBy = append(m.prevBy, v.Clone())
		}
	}
}

func (m *matcher) flush() {
	if m.buffered == nil {
		return
	}
	if m.last != nil {
		m.buffered.SetNum(m.last.CaseIndex(), 1)
	}
	m.output.Write(m.buffered)
	m.buffered = nil
}

func (f *matchInput) read() {
	f.data = f.reader.Read()
}

// advance moves to the next case. Returns an error if the file is not sorted on the keys
func (f *matchInput) advance(by *subcase.Subcase, prev []value.Value) error {
	f.data.Unref()
	f.read()
	if f.data != nil && !by.IsEmpty() && f.by.CompareXC(prev, f.data) > 0 {
		return ErrInvalidOptions("file %s is not sorted on %s", f.Name, varNames(f))
	}
	return nil
}

// scan skips the cases of a table below by. Returns true if the table has a case with key by
func (f *matchInput) scan(by []value.Value) bool {
	for f.data != nil {
		cmp := f.by.CompareXC(by, f.data)
		if cmp <= 0 {
			return cmp == 0
		}
		f.data.Unref()
		f.read()
	}
	return false
}

func (f *matchInput) apply(out *ccase.Case) {
	subcase.Copy(f.src, f.data, f.dst, out)
	if f.in != nil {
		out.SetNum(f.in.CaseIndex(), 1)
	}
}

// mergeDictionaries builds the output dictionary: the variables of all files in order of first
// appearance, each with the widest width and with labels and missing values from the first file
// that has them
func mergeDictionaries(files []MatchFile) (*dict.Dictionary, error) {
	out, err := dict.New(files[0].Dict.Encoding())
	if err != nil {
		return nil, err
	}
	var differ []string
	for _, f := range files {
		d := f.Dict
		if out.Label() == "" {
			out.SetLabel(d.Label())
		}
		for _, line := range d.Documents() {
			out.AddDocumentLine(line)
		}
		for _, dv := range d.Vars() {
			if dv.IsScratch() {
				continue
			}
			mv := out.LookupVar(dv.Name())
			switch {
			case mv == nil:
				if _, err := out.CloneVar(dv); err != nil {
					return nil, err
				}
			case mv.IsNumeric() == dv.IsNumeric():
				if dv.Width() > mv.Width() {
					mv.SetWidth(dv.Width())
				}
				if dv.ValueLabels().Len() > 0 && mv.ValueLabels().Len() == 0 {
					for _, l := range dv.ValueLabels().Sorted() {
						mv.AddValueLabel(l.Value.Resize(mv.Width()), l.Label)
					}
				}
				if !dv.MissingValues().IsEmpty() && mv.MissingValues().IsEmpty() {
					if err := mv.SetMissingValues(resizeMissing(dv.MissingValues(), mv.Width())); err != nil {
						return nil, err
					}
				}
				if dv.Label() != "" && mv.Label() == "" {
					mv.SetLabel(dv.Label())
				}
			default:
				if !slices.Contains(differ, mv.Name()) {
					differ = append(differ, mv.Name())
				}
			}
		}
	}
	if len(differ) > 0 {
		return nil, dict.ErrIncompatible("variables with different types in different files: «%s»", strings.Join(differ, "», «"))
	}
	return out, nil
}

func resizeMissing(mv *dict.MissingValues, width int) dict.MissingValues {
	res := dict.NewMissingValues(width)
	for _, v := range mv.Values() {
		res.AddValue(v.Resize(width))
	}
	if mv.HasRange() {
		res.AddRange(mv.Range())
	}
	return res
}

// checkEncodings warns once if string data comes from files with different encodings.
// The output keeps the encoding of the first file
func checkEncodings(out *dict.Dictionary, files []MatchFile) {
	var str *dict.Variable
	for _, v := range out.Vars() {
		if v.IsString() {
			str = v
			break
		}
	}
	if str == nil {
		return
	}
	for _, f := range files[1:] {
		if !strings.EqualFold(f.Dict.Encoding(), files[0].Dict.Encoding()) {
			logger.Warning(fmt.Sprintf("combining files with different encodings, string data such as in «%s» may not be represented correctly; file %s uses %s, the output uses %s",
				str.Name(), f.Name, f.Dict.Encoding(), files[0].Dict.Encoding()))
			return
		}
	}
}

func addFlag(d *dict.Dictionary, name string) (*dict.Variable, error) {
	v, err := d.AddVar(name, value.NumericWidth)
	if err != nil {
		return nil, err
	}
	if err := v.SetBothFormats(inFormat); err != nil {
		return nil, err
	}
	return v, nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func varNames(f *matchInput) string {
	names := make([]string, 0, f.by.NFields())
	for i := 0; i < f.by.NFields(); i++ {
		names = append(names, f.Dict.Var(f.by.Field(i).Index).Name())
	}
	return strings.Join(names, ", ")
}
