/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package rank

// Block describes the tie block a case belongs to
type Block struct {
	// C is the total weight of the block
	C float64

	// CC1 is the cumulative weight before the block, CC the cumulative weight through it
	CC1 float64
	CC  float64

	// I is the 1-based index of the block
	I int

	// W is the total weight of the ranked group
	W float64
}

// Options are the parameters shared by all rank outputs of a ranking
type Options struct {
	Ties     Ties
	Fraction Fraction

	// NTiles is the number of groups of FuncNTiles
	NTiles int
}
