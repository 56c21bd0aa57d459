/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Compute returns output f for a case of block b
func (o Options) Compute(f Func, b Block) float64 {
	switch f {
	case FuncRank:
		return o.Rank(b)
	case FuncNormal:
		return o.Normal(b)
	case FuncPercent:
		return o.Rank(b) * 100 / b.W
	case FuncRFraction:
		return o.Rank(b) / b.W
	case FuncProportion:
		return o.Proportion(b)
	case FuncN:
		return b.W
	case FuncNTiles:
		return math.Floor(o.Rank(b)*float64(o.NTiles)/(b.W+1)) + 1
	case FuncSavage:
		return Savage(b)
	default:
		panic(fmt.Sprintf("unknown rank function %d", f))
	}
}

// Rank returns the rank of a case of block b under the tie policy
func (o Options) Rank(b Block) float64 {
	if o.Ties == TiesCondense {
		return float64(b.I)
	}
	if b.C >= 1 {
		switch o.Ties {
		case TiesLow:
			return b.CC1 + 1
		case TiesHigh:
			return b.CC
		default:
			return b.CC1 + (b.C+1)/2
		}
	}
	switch o.Ties {
	case TiesLow:
		return b.CC1
	case TiesHigh:
		return b.CC
	default:
		return b.CC1 + b.C/2
	}
}

// Proportion returns the proportion estimate of the rank, SYSMIS if it is not positive
func (o Options) Proportion(b Block) float64 {
	r := o.Rank(b)
	var f float64
	switch o.Fraction {
	case FracBlom:
		f = (r - 3.0/8.0) / (b.W + 0.25)
	case FracRankit:
		f = (r - 0.5) / b.W
	case FracTukey:
		f = (r - 1.0/3.0) / (b.W + 1.0/3.0)
	case FracVW:
		f = r / (b.W + 1)
	default:
		panic(fmt.Sprintf("unknown fraction %d", o.Fraction))
	}
	if f > 0 {
		return f
	}
	return value.SYSMIS
}

// Normal returns the standard normal quantile of the proportion
func (o Options) Normal(b Block) float64 {
	f := o.Proportion(b)
	if f == value.SYSMIS {
		return value.SYSMIS
	}
	return distuv.UnitNormal.Quantile(f)
}

// Savage returns the Savage score, the expected exponential order statistic less one,
// averaged over the block
func Savage(b Block) float64 {
	i1 := math.Floor(b.CC1)
	i2 := math.Floor(b.CC)
	wStar := math.Ceil(b.W)
	g1 := b.CC1 - i1
	g2 := b.CC - i2

	expr1 := 1 - g1
	if expr1 != 0 {
		expr1 *= expOrderStat(int(i1)+1, wStar)
	}
	expr2 := g2
	if expr2 != 0 {
		expr2 *= expOrderStat(int(i2)+1, wStar)
	}

	switch {
	case i1 == i2:
		return expOrderStat(int(i1)+1, wStar) - 1
	case i1+1 == i2:
		return (expr1+expr2)/b.C - 1
	default:
		var sigma float64
		for j := int(i1) + 2; j <= int(i2); j++ {
			sigma += expOrderStat(j, wStar)
		}
		return (expr1+expr2+sigma)/b.C - 1
	}
}

// expOrderStat is the expected value of order statistic j of n unit exponentials
func expOrderStat(j int, n float64) float64 {
	var sum float64
	for k := 1; k <= j; k++ {
		sum += 1 / (n + 1 - float64(k))
	}
	return sum
}
