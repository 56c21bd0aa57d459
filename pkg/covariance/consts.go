/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

// Missing selects how cases with missing values are excluded
type Missing int

const (
	// Pairwise drops a case only from the pairs that contain a missing variable
	Pairwise Missing = iota

	// Listwise drops a case if any of the variables is missing
	Listwise
)

// Passes is the number of passes over the data
type Passes int

const (
	OnePass Passes = iota + 1
	TwoPass
)

// Moment is the highest moment a Moments accumulator maintains
type Moment int

const (
	MomentMean Moment = iota + 1
	MomentVariance
	MomentSkewness
	MomentKurtosis
)

// Tails of a significance test
const (
	OneTailed = 1
	TwoTailed = 2
)

// minVariance is the variance below which skewness and kurtosis are undefined
const minVariance = 1e-20

const (
	stateInit = iota
	statePass1
	statePass2
)
