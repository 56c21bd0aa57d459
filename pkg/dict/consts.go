/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

const (
	// MaxSplitVars is the maximum number of split variables
	MaxSplitVars = 8

	// DocLineLength is the length of a document line
	DocLineLength = 80

	// MaxNameLength is the maximum length of a variable name in bytes
	MaxNameLength = 64

	// MVMaxString is the number of leading bytes of a string that may be user-missing.
	// Longer missing values must be spaces beyond this point
	MVMaxString = 8

	// DefaultEncoding is used when a dictionary is created without an encoding
	DefaultEncoding = "UTF-8"

	nameCacheSize = 1024
)

// Measure is the measurement level of a variable
type Measure int

const (
	MeasureUnknown Measure = iota
	MeasureNominal
	MeasureOrdinal
	MeasureScale
)

// Role is the analysis role of a variable
type Role int

const (
	RoleInput Role = iota
	RoleTarget
	RoleBoth
	RoleNone
	RolePartition
	RoleSplit
)

// Alignment of a variable's values in output
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCentre
)

// MVClass is a set of missing value kinds
type MVClass int

const (
	MVNone   MVClass = 0
	MVUser   MVClass = 1
	MVSystem MVClass = 2
	MVAny    MVClass = MVUser | MVSystem
)

// SplitType defines how split groups are reported
type SplitType int

const (
	SplitNone SplitType = iota
	SplitLayered
	SplitSeparate
)

// MRSetType is the kind of multiple response set
type MRSetType int

const (
	MRSetDichotomy MRSetType = iota
	MRSetCategory
)

// reservedWords may not be used as variable names
var reservedWords = map[string]bool{
	"ALL": true, "AND": true, "BY": true, "EQ": true, "GE": true, "GT": true, "LE": true,
	"LT": true, "NE": true, "NOT": true, "OR": true, "TO": true, "WITH": true,
}
