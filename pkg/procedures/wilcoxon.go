/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"fmt"
	"math"

	"github.com/untillpro/goutils/logger"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/sorter"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// signed differences of one pair
type wilcoxonPair struct {
	d       *dict.Dictionary
	sign    *dict.Variable
	absdiff *dict.Variable
	weight  *dict.Variable
}

// Wilcoxon runs the signed-rank test on every pair of opts.Pairs. Cases missing either
// variable of a pair are left out of that pair only. Consumes ds.Reader
func Wilcoxon(ds Dataset, opts WilcoxonOptions) ([]WilcoxonResult, error) {
	pairs, err := wilcoxonPairs(ds.Dict, &opts)
	if err != nil {
		ds.Reader.Destroy()
		return nil, procError(procWilcoxon, err)
	}
	warn := true
	input := casestream.FilterWeight(ds.Reader, ds.Dict, &warn, nil)
	weight := ds.Dict.Weight()

	res := make([]WilcoxonResult, 0, len(pairs))
	for _, p := range pairs {
		wr, err := wilcoxonPairTest(input.Clone(), p, weight, &opts)
		if err != nil {
			input.Destroy()
			return nil, procError(procWilcoxon, err)
		}
		res = append(res, wr)
	}
	err = input.Err()
	if !input.Destroy() {
		return nil, procError(procWilcoxon, readerErr(err, ds.Reader.Err()))
	}
	return res, nil
}

func wilcoxonPairs(d *dict.Dictionary, opts *WilcoxonOptions) ([][2]*dict.Variable, error) {
	if len(opts.Pairs) == 0 {
		return nil, ErrInvalidOptions("no variable pairs")
	}
	if opts.Exclude == dict.MVNone {
		opts.Exclude = dict.MVAny
	}
	pairs := make([][2]*dict.Variable, len(opts.Pairs))
	for i, p := range opts.Pairs {
		vars, err := lookupNumeric(d, p[:])
		if err != nil {
			return nil, err
		}
		pairs[i] = [2]*dict.Variable{vars[0], vars[1]}
	}
	return pairs, nil
}

func newWilcoxonPair() *wilcoxonPair {
	d := dict.NewUTF8()
	return &wilcoxonPair{
		d:       d,
		sign:    d.AddVarAssert("sign", value.NumericWidth),
		absdiff: d.AddVarAssert("absdiff", value.NumericWidth),
		weight:  d.AddVarAssert("weight", value.NumericWidth),
	}
}

func wilcoxonPairTest(r *casestream.Reader, vars [2]*dict.Variable, weight *dict.Variable, opts *WilcoxonOptions) (WilcoxonResult, error) {
	res := WilcoxonResult{X: vars[0], Y: vars[1], Z: value.SYSMIS, P: value.SYSMIS, ExactP: value.SYSMIS, ExactP1: value.SYSMIS}
	wp := newWilcoxonPair()
	r = casestream.FilterMissing(r, vars[:], opts.Exclude, nil, nil)
	writer := sorter.NewWriter(subcase.NewField(wp.absdiff.CaseIndex(), value.NumericWidth, subcase.Ascend), wp.d.Proto(), r.Settings())
	for c := r.Read(); c != nil; c = r.Read() {
		d := vars[0].Num(c) - vars[1].Num(c)
		w := dict.CaseWeight(weight, c, nil)
		c.Unref()
		if d == 0 {
			res.Ties += w
			continue
		}
		out := ccase.New(wp.d.Proto())
		out.SetNum(wp.sign.CaseIndex(), sign(d))
		out.SetNum(wp.absdiff.CaseIndex(), math.Abs(d))
		out.SetNum(wp.weight.CaseIndex(), w)
		writer.Write(out)
	}
	err := r.Err()
	if !r.Destroy() {
		writer.Destroy()
		return res, readerErr(err)
	}

	tiebreaker := 0.0
	var rankErr rank.Error
	ranked := casestream.AppendRank(writer.MakeReader(), wp.absdiff, wp.weight, rank.TiesMean, &rankErr,
		func(_ float64, n int64, _ float64) {
			tiebreaker += float64(n*n*n - n)
		})
	rankIdx := wp.d.NVars()
	for c := ranked.Read(); c != nil; c = ranked.Read() {
		w := c.Num(wp.weight.CaseIndex())
		score := c.Num(rankIdx)
		if c.Num(wp.sign.CaseIndex()) > 0 {
			res.Positive.N += w
			res.Positive.Sum += score * w
		} else {
			res.Negative.N += w
			res.Negative.Sum += score * w
		}
		c.Unref()
	}
	err = ranked.Err()
	if !ranked.Destroy() {
		return res, readerErr(err)
	}
	if rankErr&rank.NegativeWeight != 0 {
		logger.Warning(fmt.Sprintf("%s: negative weight in pair «%s» - «%s»", procWilcoxon, vars[0].Name(), vars[1].Name()))
	}

	res.Positive.Mean = rankMean(res.Positive)
	res.Negative.Mean = rankMean(res.Negative)
	res.Total = res.Positive.N + res.Negative.N + res.Ties
	n := res.Positive.N + res.Negative.N
	if n > 0 {
		z := math.Min(res.Positive.Sum, res.Negative.Sum) - n*(n+1)/4
		if sd := math.Sqrt(n*(n+1)*(2*n+1)/24 - tiebreaker/48); sd > 0 {
			res.Z = z / sd
			res.P = 2 * distuv.UnitNormal.CDF(res.Z)
		}
	}
	if opts.Exact {
		if p := exactSignedRankP(res.Positive.Sum, n); p != value.SYSMIS {
			res.ExactP, res.ExactP1 = p, p/2
		}
	}
	return res, nil
}

func sign(d float64) float64 {
	if d > 0 {
		return 1
	}
	return -1
}

func rankMean(rs RankSum) float64 {
	if rs.N == 0 {
		return value.SYSMIS
	}
	return rs.Sum / rs.N
}

// exactSignedRankP returns the exact two-tailed significance of the signed-rank sum w over n
// differences, SYSMIS if n is not a whole number in [1, maxExactPairs]
func exactSignedRankP(w, n float64) float64 {
	if n < 1 || n > maxExactPairs || n != math.Trunc(n) {
		return value.SYSMIS
	}
	k := int(n)
	total := k * (k + 1) / 2
	lo := math.Min(w, float64(total)-w)

	// counts[s] is the number of subsets of {1..i} summing to s
	counts := make([]float64, total+1)
	counts[0] = 1
	for i := 1; i <= k; i++ {
		for s := total; s >= i; s-- {
			counts[s] += counts[s-i]
		}
	}
	tail := 0.0
	for s := 0; s <= total && float64(s) <= lo; s++ {
		tail += counts[s]
	}
	return math.Min(1, 2*tail/math.Exp2(n))
}
