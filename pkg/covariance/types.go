/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
)

// Moments accumulates weighted moments of one variable in a single pass.
// m2, m3 and m4 are sums of weighted powers of deviations from the running mean
type Moments struct {
	max  Moment
	w    float64
	mean float64
	m2   float64
	m3   float64
	m4   float64
}

// Stats is the result of Moments.Calculate. Undefined statistics are value.SYSMIS
type Stats struct {
	W          float64
	Mean       float64
	Variance   float64
	Skewness   float64
	Kurtosis   float64
	SESkewness float64
	SEKurtosis float64
}

// Covariance accumulates a covariance matrix of k numeric variables.
//
// Every statistic is kept per pair of variables so that Pairwise exclusion uses only
// the cases valid for that pair. Under Listwise all pairs see the same cases
type Covariance struct {
	vars    []*dict.Variable
	weight  *dict.Variable
	exclude dict.MVClass
	missing Missing
	passes  Passes
	state   int
	warn    bool

	// n(i,j): sum of weights of cases valid for the pair
	n *mat.Dense

	// mean(i,j): mean of variable i over cases valid for the pair (i,j)
	mean *mat.Dense

	// ssq(i,j): sum of squared deviations of variable i over cases valid for the pair (i,j)
	ssq *mat.Dense

	// cross: sum of cross products of deviations, upper triangle
	cross *mat.Dense
}

// Matrices is the result of Covariance.Calculate
type Matrices struct {
	Vars []*dict.Variable

	// N is the pairwise sum of weights
	N *mat.SymDense

	// Cov is the unbiased covariance (divisor N-1)
	Cov *mat.SymDense

	// Means and Variances are taken from the diagonal, over cases valid for each variable
	Means     []float64
	Variances []float64

	// pairVar(i,j) is the variance of variable i over the cases valid for the pair (i,j)
	pairVar *mat.Dense
}
