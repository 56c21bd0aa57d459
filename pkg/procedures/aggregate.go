/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"fmt"
	"math"

	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/casegrouper"
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/covariance"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/pool"
	"github.com/lemenkov/pspp-sub003/pkg/sorter"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

type aggregator struct {
	spec    AggregateVar
	info    aggFuncInfo
	src     *dict.Variable
	dest    *dict.Variable
	exclude dict.MVClass
	args    [2]value.Value

	dbl        float64
	w          float64
	count      float64
	have       bool
	str        []byte
	sawMissing bool
	moments    *covariance.Moments
	pool       *pool.Pool
}

type aggregation struct {
	src     *dict.Dictionary
	out     *dict.Dictionary
	opts    AggregateOptions
	breaks  []*dict.Variable
	aggs    []*aggregator
	badWarn bool

	// string results of the current group live in pool past mark
	pool *pool.Pool
	mark pool.Mark
}

// Aggregate summarizes groups of cases with equal break variables.
// In AggregateReplace mode the result has one case per group, holding the break variables and the
// aggregates. In AggregateAddVariables mode the result is the input with the aggregates of each
// case's group appended. Consumes ds.Reader
func Aggregate(ds Dataset, opts AggregateOptions) (Dataset, error) {
	agr, err := newAggregation(ds.Dict, opts)
	if err != nil {
		ds.Reader.Destroy()
		return Dataset{}, procError(procAggregate, err)
	}
	defer agr.pool.Destroy()
	sc, _, err := sortKeys(ds.Dict, opts.Break)
	if err != nil {
		ds.Reader.Destroy()
		return Dataset{}, procError(procAggregate, err)
	}

	input := ds.Reader
	if !sc.IsEmpty() && !opts.Presorted && opts.Mode != AggregateAddVariables {
		input = sorter.Execute(input, sc)
	}
	output := casestream.NewAutopagingWriter(agr.out.Proto(), input.Settings())
	g := casegrouper.NewBySubcase(input, sc)
	for group, ok := g.Next(); ok; group, ok = g.Next() {
		first := group.Peek(0)
		if first == nil {
			group.Destroy()
			continue
		}
		agr.reset()
		var placeholder *casestream.Reader
		if opts.Mode == AggregateAddVariables {
			placeholder = group.Clone()
		}
		for c := group.Read(); c != nil; c = group.Read() {
			agr.accumulate(c)
			c.Unref()
		}
		group.Destroy()
		if placeholder != nil {
			for c := placeholder.Read(); c != nil; c = placeholder.Read() {
				output.Write(agr.dump(c))
				c.Unref()
			}
			placeholder.Destroy()
		} else {
			output.Write(agr.dump(first))
		}
		first.Unref()
	}
	inputErr := input.Err()
	if !g.Destroy() {
		output.Destroy()
		return Dataset{}, procError(procAggregate, readerErr(inputErr))
	}
	return Dataset{Dict: agr.out, Reader: output.MakeReader()}, nil
}

func newAggregation(src *dict.Dictionary, opts AggregateOptions) (*aggregation, error) {
	agr := &aggregation{src: src, opts: opts, badWarn: true}
	if opts.Mode == AggregateAddVariables {
		agr.out = src.Clone()
	} else {
		out, err := dict.New(src.Encoding())
		if err != nil {
			return nil, err
		}
		agr.out = out
		for _, k := range opts.Break {
			v := src.LookupVar(k.Name)
			if v == nil {
				return nil, dict.ErrNotFound("break variable «%s»", k.Name)
			}
			if _, err := out.CloneVar(v); err != nil {
				return nil, err
			}
			agr.breaks = append(agr.breaks, v)
		}
	}
	if len(opts.Vars) == 0 {
		return nil, ErrInvalidOptions("no aggregate variables")
	}
	for _, spec := range opts.Vars {
		a, err := agr.newAggregator(spec)
		if err != nil {
			return nil, err
		}
		agr.aggs = append(agr.aggs, a)
	}
	if opts.Pool != nil {
		agr.pool = opts.Pool.NewChild()
	} else {
		agr.pool = pool.New()
	}
	agr.mark = agr.pool.Mark()
	for _, a := range agr.aggs {
		a.pool = agr.pool
	}
	return agr, nil
}

func (agr *aggregation) newAggregator(spec AggregateVar) (*aggregator, error) {
	if spec.Func < 0 || spec.Func >= aggFuncCount {
		return nil, ErrInvalidOptions("unknown aggregate function %d for «%s»", spec.Func, spec.Dest)
	}
	a := &aggregator{spec: spec, info: aggFuncs[spec.Func], exclude: dict.MVAny}
	if spec.IncludeUserMissing {
		a.exclude = dict.MVSystem
	}
	switch {
	case spec.Src == "" && a.info.src == srcRequired:
		return nil, ErrInvalidOptions("%s requires a source variable", a.info.name)
	case spec.Src != "" && a.info.src == srcNone:
		return nil, ErrInvalidOptions("%s takes no source variable", a.info.name)
	}
	if spec.Src != "" {
		a.src = agr.src.LookupVar(spec.Src)
		if a.src == nil {
			return nil, dict.ErrNotFound("source variable «%s»", spec.Src)
		}
		if a.src.IsString() && !a.info.strings {
			return nil, ErrInvalidOptions("%s requires a numeric source, «%s» is a string", a.info.name, a.src.Name())
		}
	}
	if len(spec.Args) != a.info.nArgs {
		return nil, ErrInvalidOptions("%s takes %d arguments, got %d", a.info.name, a.info.nArgs, len(spec.Args))
	}
	for i, arg := range spec.Args {
		if arg.IsNum() != a.src.IsNumeric() {
			return nil, ErrInvalidOptions("argument %d of %s has the wrong type for «%s»", i+1, a.info.name, a.src.Name())
		}
		a.args[i] = arg
	}
	if a.info.nArgs == 2 && compareArg(a.args[0], a.args[1]) > 0 {
		logger.Warning(fmt.Sprintf("the value arguments passed to %s for «%s» are out of order and were swapped", a.info.name, spec.Dest))
		a.args[0], a.args[1] = a.args[1], a.args[0]
	}

	width := value.NumericWidth
	format := a.info.format
	if format.W == 0 {
		width = a.src.Width()
		format = a.src.PrintFormat()
	}
	dest, err := agr.out.AddVar(spec.Dest, width)
	if err != nil {
		return nil, err
	}
	if err := dest.SetBothFormats(format); err != nil {
		return nil, err
	}
	if spec.Label != "" {
		dest.SetLabel(spec.Label)
	}
	if a.info.format.W == 0 {
		// values copied from the source keep its labels
		for _, l := range a.src.ValueLabels().Sorted() {
			dest.AddValueLabel(l.Value, l.Label)
		}
	}
	a.dest = dest
	if spec.Func == AggSD {
		a.moments = covariance.NewMoments(covariance.MomentVariance)
	}
	return a, nil
}

func (agr *aggregation) reset() {
	agr.pool.Release(agr.mark)
	for _, a := range agr.aggs {
		a.dbl, a.w, a.count = 0, 0, 0
		a.have, a.sawMissing = false, false
		a.str = nil
		if a.moments != nil {
			a.moments.Clear()
		}
	}
}

func (agr *aggregation) accumulate(c *ccase.Case) {
	weight := dict.CaseWeight(agr.src.Weight(), c, &agr.badWarn)
	for _, a := range agr.aggs {
		a.accumulate(c, weight)
	}
}

func (a *aggregator) accumulate(c *ccase.Case, weight float64) {
	if a.src == nil {
		a.w += weight
		a.count++
		return
	}
	v := a.src.Value(c)
	if a.src.IsValueMissing(v, a.exclude) {
		switch a.spec.Func {
		case AggNMiss:
			a.dbl += weight
		case AggNUMiss:
			a.count++
		}
		a.sawMissing = true
		return
	}

	a.w += weight
	switch a.spec.Func {
	case AggSum, AggMean:
		a.dbl += v.Num() * weight
		a.have = true
	case AggSD:
		a.moments.Add(v.Num(), weight)
	case AggMax:
		if !a.have || compareArg(v, a.current()) > 0 {
			a.set(v)
		}
	case AggMin:
		if !a.have || compareArg(v, a.current()) < 0 {
			a.set(v)
		}
	case AggFGT, AggPGT, AggCGT:
		if compareArg(v, a.args[0]) > 0 {
			a.dbl += weight
		}
	case AggFLT, AggPLT, AggCLT:
		if compareArg(v, a.args[0]) < 0 {
			a.dbl += weight
		}
	case AggFIn, AggPIn, AggCIn:
		if compareArg(v, a.args[0]) >= 0 && compareArg(v, a.args[1]) <= 0 {
			a.dbl += weight
		}
	case AggFOut, AggPOut, AggCOut:
		if compareArg(v, a.args[0]) < 0 || compareArg(v, a.args[1]) > 0 {
			a.dbl += weight
		}
	case AggNU:
		a.count++
	case AggFirst:
		if !a.have {
			a.set(v)
		}
	case AggLast:
		a.set(v)
	}
}

// set remembers v as the current MIN, MAX, FIRST or LAST value
func (a *aggregator) set(v value.Value) {
	a.have = true
	if v.IsNum() {
		a.dbl = v.Num()
		return
	}
	if a.str == nil {
		a.str = a.pool.Clone(v.Bytes())
		return
	}
	copy(a.str, v.Bytes())
}

func (a *aggregator) current() value.Value {
	if a.str != nil {
		return value.Str(a.str, len(a.str))
	}
	return value.Num(a.dbl)
}

// dump returns the output case of the group of c
func (agr *aggregation) dump(c *ccase.Case) *ccase.Case {
	out := ccase.New(agr.out.Proto())
	if agr.opts.Mode == AggregateAddVariables {
		ccase.CopyRange(out, 0, c, 0, c.N())
	} else {
		for i, v := range agr.breaks {
			out.SetValue(i, v.Value(c))
		}
	}
	for _, a := range agr.aggs {
		out.SetValue(a.dest.CaseIndex(), a.result(agr.opts.Missing))
	}
	return out
}

func (a *aggregator) result(missing AggregateMissing) value.Value {
	width := a.dest.Width()
	if missing == Columnwise && a.sawMissing {
		switch a.spec.Func {
		case AggN, AggNU, AggNMiss, AggNUMiss:
		default:
			return value.New(width)
		}
	}
	res := value.SYSMIS
	switch a.spec.Func {
	case AggSum:
		if a.have {
			res = a.dbl
		}
	case AggMean:
		if a.w != 0 {
			res = a.dbl / a.w
		}
	case AggSD:
		if sd := a.moments.Calculate().StdDev(); sd != value.SYSMIS {
			res = sd
		}
	case AggMax, AggMin, AggFirst, AggLast:
		if !a.have {
			return value.New(width)
		}
		return a.current().Resize(width)
	case AggFGT, AggFLT, AggFIn, AggFOut:
		if a.w != 0 {
			res = a.dbl / a.w
		}
	case AggPGT, AggPLT, AggPIn, AggPOut:
		if a.w != 0 {
			res = a.dbl / a.w * 100
		}
	case AggCGT, AggCLT, AggCIn, AggCOut, AggNMiss:
		res = a.dbl
	case AggN:
		res = a.w
	case AggNU, AggNUMiss:
		res = a.count
	}
	if math.IsNaN(res) {
		res = value.SYSMIS
	}
	return value.Num(res)
}

// compareArg compares numbers, or strings as if padded with spaces to the same length
func compareArg(a, b value.Value) int {
	if a.IsNum() {
		return value.CompareNum(a.Num(), b.Num())
	}
	as, bs := a.Bytes(), b.Bytes()
	for i := 0; i < max(len(as), len(bs)); i++ {
		ca, cb := byte(' '), byte(' ')
		if i < len(as) {
			ca = as[i]
		}
		if i < len(bs) {
			cb = bs[i]
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	return 0
}
