/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Dictionary is the schema of a case stream.
//
// A variable's index is also its case index. The proto returned by Proto is
// rebuilt after every schema change. Dictionaries are not safe for concurrent mutation
type Dictionary struct {
	encoding   string
	vars       []*Variable
	names      map[string]*Variable
	weight     *Variable
	filter     *Variable
	split      []*Variable
	splitType  SplitType
	caseLimit  int
	label      string
	documents  []string
	vectors    []*Vector
	mrsets     []*MRSet
	attributes Attributes
	proto      *caseproto.Proto
	protos     *caseproto.Cache
}

// Variable describes one column of a dictionary
type Variable struct {
	dict         *Dictionary
	index        int
	name         string
	width        int
	label        string
	measure      Measure
	role         Role
	alignment    Alignment
	displayWidth int
	print        Format
	write        Format
	missing      MissingValues
	labels       ValueLabels
	attributes   Attributes
}

// MissingValues is a set of user-missing values: up to three discrete values,
// or a numeric range plus at most one discrete value
type MissingValues struct {
	width    int
	values   [3]value.Value
	n        int
	hasRange bool
	low      float64
	high     float64
}

// ValueLabels maps values of one width to labels
type ValueLabels struct {
	width  int
	labels map[string]ValueLabel
}

// ValueLabel is a labeled value
type ValueLabel struct {
	Value value.Value
	Label string
}

// Attributes are custom name to multi-value properties
type Attributes map[string][]string

// Vector is a named list of variables used as an indexed alias
type Vector struct {
	Name string
	Vars []*Variable
}

// MRSet is a multiple response set
type MRSet struct {
	Name  string
	Label string
	Type  MRSetType
	Vars  []*Variable

	// CountedValue is the value counted by a dichotomy set
	CountedValue value.Value

	// LabelFromVarLabel uses the variable label of the first variable as the set label
	LabelFromVarLabel bool
}
