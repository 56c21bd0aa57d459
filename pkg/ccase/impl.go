/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package ccase

import (
	"fmt"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Proto returns the proto of the case
func (c *Case) Proto() *caseproto.Proto { return c.proto }

// N returns the number of values
func (c *Case) N() int { return len(c.values) }

// Ref adds a reference and returns c
func (c *Case) Ref() *Case {
	c.refs.Add(1)
	return c
}

// Unref drops a reference. The case must not be used by the caller afterwards
func (c *Case) Unref() {
	if c == nil {
		return
	}
	if c.refs.Add(-1) < 0 {
		panic("case unreferenced too many times")
	}
}

// IsShared returns true if more than one reference is held
func (c *Case) IsShared() bool {
	return c.refs.Load() > 1
}

// Unshare returns a case with exactly one reference: c itself if it is not shared,
// otherwise a clone, dropping the caller's reference to c
func (c *Case) Unshare() *Case {
	if !c.IsShared() {
		return c
	}
	clone := c.Clone()
	c.Unref()
	return clone
}

// UnshareAndResize is Unshare followed by Resize
func (c *Case) UnshareAndResize(proto *caseproto.Proto) *Case {
	if c.IsShared() {
		res := newCase(proto)
		n := min(proto.N(), c.proto.N())
		for i := 0; i < n; i++ {
			res.values[i] = resizeValue(c.values[i], c.proto.Width(i), proto.Width(i))
		}
		c.Unref()
		return res
	}
	c.Resize(proto)
	return c
}

// Clone returns an unshared copy of c
func (c *Case) Clone() *Case {
	res := &Case{proto: c.proto, values: make([]value.Value, len(c.values))}
	res.refs.Store(1)
	copy(res.values, c.values)
	return res
}

// Resize changes the proto of an unshared case. Slots present in both protos keep their values,
// string slots are truncated or padded, new slots are initialized
func (c *Case) Resize(proto *caseproto.Proto) {
	c.checkUnshared()
	oldProto := c.proto
	n := min(proto.N(), oldProto.N())
	values := make([]value.Value, proto.N())
	for i := 0; i < n; i++ {
		values[i] = resizeValue(c.values[i], oldProto.Width(i), proto.Width(i))
	}
	for i := n; i < proto.N(); i++ {
		values[i] = value.New(proto.Width(i))
	}
	c.values = values
	c.proto = proto
}

// Value returns value i
func (c *Case) Value(i int) value.Value { return c.values[i] }

// Num returns numeric value i
func (c *Case) Num(i int) float64 { return c.values[i].Num() }

// Str returns the padded bytes of string value i. Must not be modified
func (c *Case) Str(i int) []byte { return c.values[i].Bytes() }

// SetValue stores v at i. v must have the width of slot i
func (c *Case) SetValue(i int, v value.Value) {
	c.checkUnshared()
	if w := c.proto.Width(i); v.Width() != w {
		panic(fmt.Sprintf("value of width %d stored into slot %d of width %d", v.Width(), i, w))
	}
	c.values[i] = v
}

// SetNum stores number f at i
func (c *Case) SetNum(i int, f float64) {
	c.checkUnshared()
	if c.proto.IsString(i) {
		panic(fmt.Sprintf("numeric store into string slot %d", i))
	}
	c.values[i] = value.Num(f)
}

// SetStr stores b, padded to the slot width, at i
func (c *Case) SetStr(i int, b []byte) {
	c.checkUnshared()
	w := c.proto.Width(i)
	if w == value.NumericWidth {
		panic(fmt.Sprintf("string store into numeric slot %d", i))
	}
	c.values[i] = value.Str(b, w)
}

// Move moves n values inside c from srcIdx to dstIdx. Ranges may overlap
func (c *Case) Move(dstIdx, srcIdx, n int) {
	c.checkUnshared()
	if !c.proto.RangeEqual(dstIdx, c.proto, srcIdx, n) {
		panic("moving values between slots of different widths")
	}
	copy(c.values[dstIdx:dstIdx+n], c.values[srcIdx:srcIdx+n])
}

func (c *Case) String() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *Case) checkUnshared() {
	if c.IsShared() {
		panic("modification of a shared case")
	}
}

func resizeValue(v value.Value, oldWidth, newWidth int) value.Value {
	if oldWidth == newWidth {
		return v
	}
	if (oldWidth == value.NumericWidth) != (newWidth == value.NumericWidth) {
		panic(fmt.Sprintf("can't resize slot of width %d to %d", oldWidth, newWidth))
	}
	return v.Resize(newWidth)
}
