/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package rank

// Ties is the rank given to the members of a tie block
type Ties int

const (
	TiesMean Ties = iota
	TiesLow
	TiesHigh
	TiesCondense
)

// Fraction is the formula used for PROPORTION and NORMAL
type Fraction int

const (
	FracBlom Fraction = iota
	FracRankit
	FracTukey
	FracVW
)

// Func is a rank output
type Func int

const (
	FuncRank Func = iota
	FuncNormal
	FuncPercent
	FuncRFraction
	FuncProportion
	FuncN
	FuncNTiles
	FuncSavage
	FuncCount
)

// Error is a set of problems found in ranked input. Ranks are still produced but may be wrong
type Error int

const (
	// NegativeWeight means a case had a negative weight
	NegativeWeight Error = 1 << iota

	// TiesIgnored means the input was not sorted on the ranked variable, so equal values
	// were not all found in one tie block
	TiesIgnored
)

const (
	nameTries = 999
	rnkTries  = 99
)
