/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package ccase

import (
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// New creates an unshared case with numerics set to SYSMIS and strings to spaces
func New(proto *caseproto.Proto) *Case {
	c := newCase(proto)
	for i := range c.values {
		c.values[i] = value.New(proto.Width(i))
	}
	return c
}

// FromValues creates an unshared case holding values. Widths must match proto
func FromValues(proto *caseproto.Proto, values ...value.Value) *Case {
	if len(values) != proto.N() {
		panic("value count does not match proto")
	}
	c := newCase(proto)
	for i, v := range values {
		c.SetValue(i, v)
	}
	return c
}

// FromNums creates an unshared all-numeric case
func FromNums(nums ...float64) *Case {
	widths := make([]int, len(nums))
	c := newCase(caseproto.New(widths...))
	for i, f := range nums {
		c.values[i] = value.Num(f)
	}
	return c
}

func newCase(proto *caseproto.Proto) *Case {
	c := &Case{proto: proto, values: make([]value.Value, proto.N())}
	c.refs.Store(1)
	return c
}
