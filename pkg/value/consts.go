/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package value

import "math"

// Widths
const (
	// NumericWidth is the width of a numeric cell
	NumericWidth = 0

	// MaxStringWidth is the widest string cell
	MaxStringWidth = 32767

	// ShortStringWidth is the widest string stored without a separate buffer in serialized pages
	ShortStringWidth = 8
)

var (
	// SYSMIS is the system-missing numeric value
	SYSMIS = -math.MaxFloat64

	// LOWEST is the lowest real number, the open low end of a missing-value range
	LOWEST = math.Nextafter(-math.MaxFloat64, 0)

	// HIGHEST is the highest real number, the open high end of a missing-value range
	HIGHEST = math.MaxFloat64
)

const space = ' '
