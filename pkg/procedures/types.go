/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/covariance"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/pool"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Dataset is a stream of cases with the dictionary that describes them.
// Procedures never change the dictionary they get; a procedure that changes the
// schema returns a new Dataset
type Dataset struct {
	Dict   *dict.Dictionary
	Reader *casestream.Reader
}

// SplitGroup identifies the split-file group a result belongs to
type SplitGroup struct {
	Type   dict.SplitType
	Vars   []*dict.Variable
	Values []value.Value
}

// SortKey is a variable and the direction to sort it in
type SortKey struct {
	Name string
	Dir  subcase.Direction
}

// AggregateVar defines one aggregate variable
type AggregateVar struct {
	Dest  string
	Label string
	Func  AggregateFunc

	// Src is the source variable, empty for N and NU over all cases
	Src string

	// Args are the arguments of the P, F and C functions, numeric or string as Src
	Args []value.Value

	// IncludeUserMissing treats user-missing source values as valid
	IncludeUserMissing bool
}

// AggregateOptions configures Aggregate
type AggregateOptions struct {
	Break     []SortKey
	Presorted bool
	Mode      AggregateMode
	Missing   AggregateMissing
	Vars      []AggregateVar

	// Pool, if set, parents the scratch pool of the aggregation
	Pool *pool.Pool
}

// MatchFile is one input of MatchFiles
type MatchFile struct {
	Dataset

	// Name identifies the file in messages
	Name string

	// In names a flag variable set to 1 in output cases this file contributed to
	In string

	// Table files are lookup tables: they contribute to matching cases only
	Table bool
}

// MatchOptions configures MatchFiles
type MatchOptions struct {
	Files []MatchFile

	// By names the key variables all files are sorted on. Without keys, files are matched case by case
	By []string

	// First and Last name flag variables marking the first and last case of each key
	First string
	Last  string
}

// RankSpec is one rank function to compute for every ranked variable
type RankSpec struct {
	Func rank.Func

	// NTiles is the number of groups of rank.FuncNTiles
	NTiles int

	// Into are the destination names, one per ranked variable. Missing names are generated
	Into []string
}

// RankOptions configures Rank
type RankOptions struct {
	Vars     []SortKey
	By       []string
	Specs    []RankSpec
	Ties     rank.Ties
	Fraction rank.Fraction

	// Exclude is the class of missing values that excludes a case from ranking a variable
	Exclude dict.MVClass
}

// RankedVar describes one variable created by Rank
type RankedVar struct {
	Src   string
	Dest  string
	Func  rank.Func
	Label string
}

// CorrelationsOptions configures Correlations
type CorrelationsOptions struct {
	Vars []string

	// With, when not empty, correlates every variable of Vars with every variable of With only
	With []string

	// Missing defaults to pairwise exclusion
	Missing covariance.Missing
	Exclude dict.MVClass
	Tails   int
}

// CorrelationCell is one coefficient of a correlation matrix
type CorrelationCell struct {
	Pearson      float64
	Sig          float64
	N            float64
	Covariance   float64
	CrossProduct float64
}

// VarStats are per-variable descriptive statistics
type VarStats struct {
	Var    *dict.Variable
	N      float64
	Mean   float64
	StdDev float64
}

// CorrelationsResult is the output of Correlations for one split group
type CorrelationsResult struct {
	Split        SplitGroup
	Rows         []*dict.Variable
	Cols         []*dict.Variable
	Cells        [][]CorrelationCell
	Descriptives []VarStats
}

// DescriptivesOptions configures Descriptives
type DescriptivesOptions struct {
	Vars    []string
	Exclude dict.MVClass

	// Listwise drops a case from all variables if any of them is missing
	Listwise bool
}

// Descriptive is the DESCRIPTIVES output for one variable
type Descriptive struct {
	Var   *dict.Variable
	Min   float64
	Max   float64
	Sum   float64
	Stats covariance.Stats
}

// DescriptivesResult is the output of Descriptives for one split group
type DescriptivesResult struct {
	Split SplitGroup

	// ValidN is the weight of cases valid for all variables
	ValidN float64
	Vars   []Descriptive
}

// WilcoxonOptions configures Wilcoxon
type WilcoxonOptions struct {
	Pairs   [][2]string
	Exclude dict.MVClass

	// Exact also computes the exact significance for pairs with at most 64 differences
	Exact bool
}

// RankSum summarizes the ranks of one sign of difference
type RankSum struct {
	N    float64
	Sum  float64
	Mean float64
}

// WilcoxonResult is the signed-rank test of one pair of variables
type WilcoxonResult struct {
	X, Y     *dict.Variable
	Negative RankSum
	Positive RankSum

	// Ties is the weight of cases with no difference
	Ties  float64
	Total float64
	Z     float64

	// P is the two-tailed asymptotic significance
	P float64

	// ExactP and ExactP1 are the exact two- and one-tailed significances, SYSMIS if not computed
	ExactP  float64
	ExactP1 float64
}
