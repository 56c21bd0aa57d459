/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package value

// Value is a single cell: either a number or a fixed-width right-space-padded string.
//
// String bytes are shared between copies of a Value and must be treated as read-only.
// Writers always build fresh byte slices.
type Value struct {
	f float64
	s []byte
}
