/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Set replaces the values of attribute name
func (a Attributes) Set(name string, values ...string) {
	a[name] = slices.Clone(values)
}

// Get returns the values of attribute name
func (a Attributes) Get(name string) []string {
	return a[name]
}

// Names returns attribute names in sorted order
func (a Attributes) Names() []string {
	names := maps.Keys(a)
	slices.Sort(names)
	return names
}

// Clone returns a deep copy
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	res := make(Attributes, len(a))
	for k, v := range a {
		res[k] = slices.Clone(v)
	}
	return res
}
