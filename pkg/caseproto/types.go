/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

import lru "github.com/hashicorp/golang-lru/v2"

// Proto is an immutable sequence of cell widths. Width 0 is numeric, width > 0 is a string of that many bytes.
//
// Protos are shared by pointer; every "mutating" method returns a new Proto
type Proto struct {
	widths    []int
	nStrings  int
	key       string
	byteWidth int
}

// Mask marks proto slots, see NarrowerStringWidths
type Mask []bool

// Cache interns protos so that equal width sequences share one *Proto
type Cache struct {
	lru *lru.Cache[string, *Proto]
}
