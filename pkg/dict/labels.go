/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"math"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// NewValueLabels returns an empty label set for values of the given width
func NewValueLabels(width int) ValueLabels {
	return ValueLabels{width: width}
}

// Len returns the number of labels
func (vl *ValueLabels) Len() int { return len(vl.labels) }

// Add labels v unless it is already labeled
func (vl *ValueLabels) Add(v value.Value, label string) bool {
	key := vl.key(v)
	if _, ok := vl.labels[key]; ok {
		return false
	}
	vl.put(key, v, label)
	return true
}

// Replace labels v, replacing an existing label
func (vl *ValueLabels) Replace(v value.Value, label string) {
	vl.put(vl.key(v), v, label)
}

// Remove drops the label of v
func (vl *ValueLabels) Remove(v value.Value) bool {
	key := vl.key(v)
	_, ok := vl.labels[key]
	delete(vl.labels, key)
	return ok
}

// Lookup returns the label of v
func (vl *ValueLabels) Lookup(v value.Value) (string, bool) {
	l, ok := vl.labels[vl.key(v)]
	return l.Label, ok
}

// Clear removes all labels
func (vl *ValueLabels) Clear() {
	vl.labels = nil
}

// Sorted returns the labels ordered by value
func (vl *ValueLabels) Sorted() []ValueLabel {
	res := maps.Values(vl.labels)
	slices.SortFunc(res, func(a, b ValueLabel) int { return value.Compare(a.Value, b.Value) })
	return res
}

// IsResizable returns true if all labeled values survive a resize to width
func (vl *ValueLabels) IsResizable(width int) bool {
	if (vl.width == value.NumericWidth) != (width == value.NumericWidth) {
		return len(vl.labels) == 0
	}
	for _, l := range vl.labels {
		if l.Value.NeedsResize(vl.width, width) {
			return false
		}
	}
	return true
}

// Resize changes the width of the labeled values. Panics unless IsResizable
func (vl *ValueLabels) Resize(width int) {
	if !vl.IsResizable(width) {
		panic("value labels are not resizable")
	}
	old := vl.labels
	vl.labels = nil
	vl.width = width
	for _, l := range old {
		v := l.Value.Resize(width)
		vl.put(vl.key(v), v, l.Label)
	}
}

func (vl *ValueLabels) clone() ValueLabels {
	res := ValueLabels{width: vl.width}
	if vl.labels != nil {
		res.labels = maps.Clone(vl.labels)
	}
	return res
}

func (vl *ValueLabels) put(key string, v value.Value, label string) {
	if vl.labels == nil {
		vl.labels = map[string]ValueLabel{}
	}
	vl.labels[key] = ValueLabel{Value: v.Clone(), Label: label}
}

func (vl *ValueLabels) key(v value.Value) string {
	if v.Width() != vl.width {
		panic("value label width mismatch")
	}
	if v.IsNum() {
		return strconv.FormatUint(math.Float64bits(v.Num()), 16)
	}
	return string(v.Bytes())
}
