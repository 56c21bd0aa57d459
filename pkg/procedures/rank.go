/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/casegrouper"
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/sorter"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// projected slots of a rank pass
const (
	rankSlotValue = iota
	rankSlotOrder
	rankSlotGroups
)

type rankMerge struct {
	nVars   int
	order   int
	readers []*casestream.Reader
	current []*ccase.Case
	dests   [][]int
}

// Rank appends rank scores of every variable in opts.Vars under every function of opts.Specs,
// ranking within groups of equal opts.By values and within split-file groups. Cases missing a
// ranked variable, or with an invalid weight, get missing scores. The cases keep their order.
// Consumes ds.Reader
func Rank(ds Dataset, opts RankOptions) (Dataset, []RankedVar, error) {
	out, ranked, byVars, err := rankDictionary(ds.Dict, &opts)
	if err != nil {
		ds.Reader.Destroy()
		return Dataset{}, nil, procError(procRank, err)
	}
	cfg := ds.Reader.Settings()
	nVars := ds.Dict.NVars()
	base := casestream.AppendArithmetic(ds.Reader, 1, 1)

	splits := ds.Dict.SplitVars()
	weight := ds.Dict.Weight()
	resultProto := caseproto.New(value.NumericWidth)
	for range opts.Specs {
		resultProto = resultProto.AddWidth(value.NumericWidth)
	}
	byOrder := subcase.NewField(0, value.NumericWidth, subcase.Ascend)

	merge := &rankMerge{nVars: nVars, order: nVars}
	ok := true
	warn := true
	for i, key := range opts.Vars {
		v := ds.Dict.LookupVar(key.Name)
		pass := base.Clone()
		pass = casestream.FilterWeight(pass, ds.Dict, &warn, nil)
		pass = casestream.FilterMissing(pass, []*dict.Variable{v}, opts.Exclude, nil, nil)

		projection := subcase.New()
		projection.AddAlways(v.CaseIndex(), v.Width(), subcase.Ascend)
		projection.AddAlways(nVars, value.NumericWidth, subcase.Ascend)
		groups := subcase.New()
		for _, g := range byVars {
			groups.AddAlways(projection.NFields(), g.Width(), subcase.Ascend)
			projection.AddAlways(g.CaseIndex(), g.Width(), subcase.Ascend)
		}
		splitKey := subcase.New()
		for _, s := range splits {
			splitKey.AddAlways(projection.NFields(), s.Width(), subcase.Ascend)
			projection.AddAlways(s.CaseIndex(), s.Width(), subcase.Ascend)
		}
		weightIdx := -1
		if weight != nil {
			weightIdx = projection.NFields()
			projection.AddAlways(weight.CaseIndex(), value.NumericWidth, subcase.Ascend)
		}
		pass = casestream.Project(pass, projection)

		ordering := groups.Clone()
		ordering.AddAlways(rankSlotValue, value.NumericWidth, key.Dir)

		output := sorter.NewWriter(byOrder, resultProto, cfg)
		splitGrouper := casegrouper.NewBySubcase(pass, splitKey)
		for split, more := splitGrouper.Next(); more; split, more = splitGrouper.Next() {
			byGrouper := casegrouper.NewBySubcase(sorter.Execute(split, ordering), groups)
			for group, more := byGrouper.Next(); more; group, more = byGrouper.Next() {
				ok = rankSortedGroup(group, output, weightIdx, &opts) && ok
			}
			ok = byGrouper.Destroy() && ok
		}
		ok = splitGrouper.Destroy() && ok

		merge.readers = append(merge.readers, output.MakeReader())
		dests := make([]int, len(opts.Specs))
		for j := range opts.Specs {
			dests[j] = out.LookupVar(ranked[i*len(opts.Specs)+j].Dest).CaseIndex()
		}
		merge.dests = append(merge.dests, dests)
	}
	if !ok {
		merge.destroy()
		base.Destroy()
		return Dataset{}, nil, procError(procRank, readerErr(ds.Reader.Err()))
	}

	for _, r := range merge.readers {
		merge.current = append(merge.current, r.Read())
	}
	proto := out.Proto()
	reader := casestream.NewTranslator(base, proto, func(c *ccase.Case) *ccase.Case {
		res := ccase.New(proto)
		ccase.CopyRange(res, 0, c, 0, nVars)
		merge.apply(c.Num(merge.order), res)
		c.Unref()
		return res
	}, merge.destroy)
	return Dataset{Dict: out, Reader: reader}, ranked, nil
}

// rankDictionary validates opts and returns the output dictionary with the rank variables
func rankDictionary(src *dict.Dictionary, opts *RankOptions) (*dict.Dictionary, []RankedVar, []*dict.Variable, error) {
	if len(opts.Vars) == 0 {
		return nil, nil, nil, ErrInvalidOptions("no variables to rank")
	}
	if len(opts.Specs) == 0 {
		opts.Specs = []RankSpec{{Func: rank.FuncRank}}
	}
	if opts.Exclude == dict.MVNone {
		opts.Exclude = dict.MVAny
	}
	names := make([]string, len(opts.Vars))
	for i, k := range opts.Vars {
		names[i] = k.Name
	}
	if _, err := lookupNumeric(src, names); err != nil {
		return nil, nil, nil, err
	}
	byVars, err := src.LookupVars(opts.By...)
	if err != nil {
		return nil, nil, nil, err
	}
	byNames := make([]string, len(byVars))
	for i, v := range byVars {
		byNames[i] = v.Name()
	}

	out := src.Clone()
	taken := map[string]bool{}
	for _, spec := range opts.Specs {
		if spec.Func == rank.FuncNTiles && spec.NTiles < 1 {
			return nil, nil, nil, ErrInvalidOptions("NTILES requires a positive number of groups")
		}
		if len(spec.Into) > len(opts.Vars) {
			return nil, nil, nil, ErrInvalidOptions("too many INTO names for %s", spec.Func)
		}
		for _, name := range spec.Into {
			if err := dict.IsValidName(name); err != nil {
				return nil, nil, nil, err
			}
			folded := dict.FoldName(name)
			if out.LookupVar(name) != nil || taken[folded] {
				return nil, nil, nil, dict.ErrDuplicateName(name)
			}
			taken[folded] = true
		}
	}

	var ranked []RankedVar
	for i := range opts.Vars {
		srcName := src.LookupVar(opts.Vars[i].Name).Name()
		for _, spec := range opts.Specs {
			dest := ""
			if i < len(spec.Into) {
				dest = spec.Into[i]
			} else if dest = rank.DestName(out, taken, spec.Func, srcName); dest == "" {
				return nil, nil, nil, dict.ErrTooMany("cannot generate a name for %s of «%s»", spec.Func, srcName)
			}
			ranked = append(ranked, RankedVar{Src: srcName, Dest: dest, Func: spec.Func, Label: rank.Label(spec.Func, srcName, byNames)})
		}
	}
	for _, rv := range ranked {
		v, err := out.AddVar(rv.Dest, value.NumericWidth)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := v.SetBothFormats(rv.Func.Format()); err != nil {
			return nil, nil, nil, err
		}
		v.SetLabel(rv.Label)
		v.SetMeasure(rv.Func.Measure())
	}
	return out, ranked, byVars, nil
}

// rankSortedGroup writes (order, scores...) for every case of group, which is sorted on the
// ranked value. Returns false on a read error
func rankSortedGroup(group *casestream.Reader, output *casestream.Writer, weightIdx int, opts *RankOptions) bool {
	w := sumWeights(group, weightIdx)
	ties := casegrouper.NewBySubcase(group, subcase.NewField(rankSlotValue, value.NumericWidth, subcase.Ascend))
	cc := 0.0
	block := 1
	for tied, ok := ties.Next(); ok; tied, ok = ties.Next() {
		tw := sumWeights(tied, weightIdx)
		b := rank.Block{C: tw, CC1: cc, CC: cc + tw, I: block, W: w}
		cc += tw
		taint.Propagate(tied.Taint(), output.Taint())
		for c := tied.Read(); c != nil; c = tied.Read() {
			res := ccase.New(output.Proto())
			res.SetNum(0, c.Num(rankSlotOrder))
			for j, spec := range opts.Specs {
				o := rank.Options{Ties: opts.Ties, Fraction: opts.Fraction, NTiles: spec.NTiles}
				res.SetNum(j+1, o.Compute(spec.Func, b))
			}
			output.Write(res)
			c.Unref()
		}
		tied.Destroy()
		block++
	}
	return ties.Destroy()
}

func sumWeights(r *casestream.Reader, weightIdx int) float64 {
	if weightIdx < 0 {
		return float64(r.Count())
	}
	w := 0.0
	pass := r.Clone()
	for c := pass.Read(); c != nil; c = pass.Read() {
		w += c.Num(weightIdx)
		c.Unref()
	}
	pass.Destroy()
	return w
}

// apply copies the scores of the case with the given order into res. Cases that were not
// ranked keep missing scores
func (m *rankMerge) apply(order float64, res *ccase.Case) {
	for i, r := range m.readers {
		for m.current[i] != nil {
			got := m.current[i].Num(0)
			if got > order {
				break
			}
			if got == order {
				for j, idx := range m.dests[i] {
					res.SetNum(idx, m.current[i].Num(j+1))
				}
			}
			m.current[i].Unref()
			m.current[i] = r.Read()
			if got == order {
				break
			}
		}
	}
}

func (m *rankMerge) destroy() error {
	for _, c := range m.current {
		c.Unref()
	}
	m.current = nil
	var errs []error
	ok := true
	for _, r := range m.readers {
		errs = append(errs, r.Err())
		ok = r.Destroy() && ok
	}
	m.readers = nil
	if !ok {
		return readerErr(errs...)
	}
	return nil
}
