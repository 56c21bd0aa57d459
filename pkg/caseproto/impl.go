/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func newProto(widths []int) *Proto {
	p := &Proto{widths: widths}
	var key strings.Builder
	for i, w := range widths {
		if !value.IsValidWidth(w) {
			panic(fmt.Sprintf("invalid width %d at index %d", w, i))
		}
		if w > 0 {
			p.nStrings++
			p.byteWidth += w
		} else {
			p.byteWidth += numericByteWidth
		}
		if i > 0 {
			key.WriteByte(',')
		}
		key.WriteString(strconv.Itoa(w))
	}
	p.key = key.String()
	return p
}

// N returns the number of slots
func (p *Proto) N() int { return len(p.widths) }

// Width returns the width of slot i
func (p *Proto) Width(i int) int { return p.widths[i] }

// Widths returns a copy of all widths
func (p *Proto) Widths() []int {
	res := make([]int, len(p.widths))
	copy(res, p.widths)
	return res
}

// NStrings returns the number of string slots
func (p *Proto) NStrings() int { return p.nStrings }

// IsString returns true if slot i holds strings
func (p *Proto) IsString(i int) bool { return p.widths[i] > 0 }

// ByteWidth returns the serialized size of a case with this proto
func (p *Proto) ByteWidth() int { return p.byteWidth }

// Key returns the width signature used for interning
func (p *Proto) Key() string { return p.key }

// AddWidth returns a new proto with width appended
func (p *Proto) AddWidth(width int) *Proto {
	widths := make([]int, len(p.widths), len(p.widths)+1)
	copy(widths, p.widths)
	return newProto(append(widths, width))
}

// SetWidth returns a new proto with slot i changed to width
func (p *Proto) SetWidth(i int, width int) *Proto {
	widths := p.Widths()
	widths[i] = width
	return newProto(widths)
}

// InsertWidth returns a new proto with width inserted before slot before
func (p *Proto) InsertWidth(before int, width int) *Proto {
	widths := make([]int, 0, len(p.widths)+1)
	widths = append(widths, p.widths[:before]...)
	widths = append(widths, width)
	widths = append(widths, p.widths[before:]...)
	return newProto(widths)
}

// RemoveWidths returns a new proto without slots [idx, idx+n)
func (p *Proto) RemoveWidths(idx, n int) *Proto {
	widths := make([]int, 0, len(p.widths)-n)
	widths = append(widths, p.widths[:idx]...)
	widths = append(widths, p.widths[idx+n:]...)
	return newProto(widths)
}

// Select returns a new proto made from the given slots, in order
func (p *Proto) Select(indexes []int) *Proto {
	widths := make([]int, len(indexes))
	for i, idx := range indexes {
		widths[i] = p.widths[idx]
	}
	return newProto(widths)
}

// Equal is structural equality
func (p *Proto) Equal(o *Proto) bool {
	if p == o {
		return true
	}
	return p.key == o.key
}

// RangeEqual compares n widths of p starting at pOfs with o starting at oOfs
func (p *Proto) RangeEqual(pOfs int, o *Proto, oOfs int, n int) bool {
	if pOfs+n > len(p.widths) || oOfs+n > len(o.widths) {
		return false
	}
	for i := 0; i < n; i++ {
		if p.widths[pOfs+i] != o.widths[oOfs+i] {
			return false
		}
	}
	return true
}

// IsConformable returns true if both protos have the same length and every pair of widths
// is either equal or both strings
func (p *Proto) IsConformable(o *Proto) bool {
	if len(p.widths) != len(o.widths) {
		return false
	}
	for i, w := range p.widths {
		ow := o.widths[i]
		if w != ow && (w == 0 || ow == 0) {
			return false
		}
	}
	return true
}

// NarrowerStringWidths marks the string slots of p that are narrower than the same slot of o.
// p and o must be conformable
func (p *Proto) NarrowerStringWidths(o *Proto) Mask {
	if !p.IsConformable(o) {
		panic(ErrNotConformable(p, o))
	}
	mask := make(Mask, len(p.widths))
	for i, w := range p.widths {
		mask[i] = w > 0 && w < o.widths[i]
	}
	return mask
}

func (p *Proto) String() string {
	return "[" + p.key + "]"
}

// Indexes returns the marked slots
func (m Mask) Indexes() []int {
	res := make([]int, 0, len(m))
	for i, b := range m {
		if b {
			res = append(res, i)
		}
	}
	return res
}

// Any returns true if any slot is marked
func (m Mask) Any() bool {
	for _, b := range m {
		if b {
			return true
		}
	}
	return false
}
