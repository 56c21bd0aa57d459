/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import "github.com/lemenkov/pspp-sub003/pkg/dict"

// Procedure names used in errors and logs
const (
	procAggregate    = "AGGREGATE"
	procMatchFiles   = "MATCH FILES"
	procRank         = "RANK"
	procSortCases    = "SORT CASES"
	procCorrelations = "CORRELATIONS"
	procDescriptives = "DESCRIPTIVES"
	procWilcoxon     = "WILCOXON"
)

// AggregateFunc is an aggregation function
type AggregateFunc int

const (
	AggSum AggregateFunc = iota
	AggMean
	AggSD
	AggMax
	AggMin
	AggPGT
	AggPLT
	AggPIn
	AggPOut
	AggFGT
	AggFLT
	AggFIn
	AggFOut
	AggCGT
	AggCLT
	AggCIn
	AggCOut
	AggN
	AggNU
	AggNMiss
	AggNUMiss
	AggFirst
	AggLast
	aggFuncCount
)

// AggregateMode selects the shape of the AGGREGATE output
type AggregateMode int

const (
	// AggregateReplace outputs one case per break group holding the break and aggregate variables
	AggregateReplace AggregateMode = iota

	// AggregateAddVariables outputs every input case with the aggregates of its group appended
	AggregateAddVariables
)

// AggregateMissing selects how missing values affect aggregates
type AggregateMissing int

const (
	// Itemwise skips missing values case by case
	Itemwise AggregateMissing = iota

	// Columnwise makes an aggregate missing if any of its source values in the group is missing
	Columnwise
)

// srcArity tells whether a function takes a source variable
type srcArity int

const (
	srcNone srcArity = iota
	srcOptional
	srcRequired
)

type aggFuncInfo struct {
	name    string
	src     srcArity
	nArgs   int
	strings bool // accepts string source variables
	format  dict.Format
}

var aggFuncs = [aggFuncCount]aggFuncInfo{
	AggSum:    {"SUM", srcRequired, 0, false, dict.Format{Type: dict.FmtF, W: 8, D: 2}},
	AggMean:   {"MEAN", srcRequired, 0, false, dict.Format{Type: dict.FmtF, W: 8, D: 2}},
	AggSD:     {"SD", srcRequired, 0, false, dict.Format{Type: dict.FmtF, W: 8, D: 2}},
	AggMax:    {"MAX", srcRequired, 0, true, dict.Format{}},
	AggMin:    {"MIN", srcRequired, 0, true, dict.Format{}},
	AggPGT:    {"PGT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 1}},
	AggPLT:    {"PLT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 1}},
	AggPIn:    {"PIN", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 1}},
	AggPOut:   {"POUT", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 1}},
	AggFGT:    {"FGT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggFLT:    {"FLT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggFIn:    {"FIN", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggFOut:   {"FOUT", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggCGT:    {"CGT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggCLT:    {"CLT", srcRequired, 1, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggCIn:    {"CIN", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggCOut:   {"COUT", srcRequired, 2, true, dict.Format{Type: dict.FmtF, W: 5, D: 3}},
	AggN:      {"N", srcOptional, 0, true, dict.Format{Type: dict.FmtF, W: 7, D: 0}},
	AggNU:     {"NU", srcOptional, 0, true, dict.Format{Type: dict.FmtF, W: 7, D: 0}},
	AggNMiss:  {"NMISS", srcRequired, 0, true, dict.Format{Type: dict.FmtF, W: 7, D: 0}},
	AggNUMiss: {"NUMISS", srcRequired, 0, true, dict.Format{Type: dict.FmtF, W: 7, D: 0}},
	AggFirst:  {"FIRST", srcRequired, 0, true, dict.Format{}},
	AggLast:   {"LAST", srcRequired, 0, true, dict.Format{}},
}

// inFormat is the format of IN, FIRST and LAST flag variables
var inFormat = dict.Format{Type: dict.FmtF, W: 1, D: 0}

// maxExactPairs bounds the number of differences of an exact signed-rank significance
const maxExactPairs = 64
