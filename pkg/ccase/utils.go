/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package ccase

import "github.com/lemenkov/pspp-sub003/pkg/value"

// CopyRange copies n values from src[srcIdx:] into dst[dstIdx:]. dst must be unshared.
// Widths of the copied slots must match
func CopyRange(dst *Case, dstIdx int, src *Case, srcIdx int, n int) {
	dst.checkUnshared()
	if !dst.proto.RangeEqual(dstIdx, src.proto, srcIdx, n) {
		panic("copying values between slots of different widths")
	}
	copy(dst.values[dstIdx:dstIdx+n], src.values[srcIdx:srcIdx+n])
}

// CopyIndexes copies src[srcIdx[i]] into dst[dstIdx[i]] for every i
func CopyIndexes(dst *Case, dstIdx []int, src *Case, srcIdx []int) {
	dst.checkUnshared()
	for i := range dstIdx {
		dst.SetValue(dstIdx[i], src.values[srcIdx[i]])
	}
}

// Equal compares two cases slot by slot
func Equal(a, b *Case) bool {
	if !a.proto.Equal(b.proto) {
		return false
	}
	for i := range a.values {
		if !a.values[i].Equal(b.values[i]) {
			return false
		}
	}
	return true
}

// EqualIdx compares a[aIdx[i]] with b[bIdx[i]] for every i
func EqualIdx(a *Case, aIdx []int, b *Case, bIdx []int) bool {
	for i := range aIdx {
		if !a.values[aIdx[i]].Equal(b.values[bIdx[i]]) {
			return false
		}
	}
	return true
}

// Values returns copies of the values at the given indexes
func Values(c *Case, indexes []int) []value.Value {
	res := make([]value.Value, len(indexes))
	for i, idx := range indexes {
		res[i] = c.values[idx]
	}
	return res
}
