/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package value

import "fmt"

func checkStringWidth(width int) {
	if width < 1 || width > MaxStringWidth {
		panic(fmt.Sprintf("invalid string width %d", width))
	}
}

// IsValidWidth returns true if width is numeric or a valid string width
func IsValidWidth(width int) bool {
	return width >= 0 && width <= MaxStringWidth
}

// IsNumericWidth s.e.
func IsNumericWidth(width int) bool {
	return width == NumericWidth
}
