/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package subcase

import (
	"golang.org/x/exp/slices"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Add appends a field unless slot index is already present. Returns true if added
func (sc *Subcase) Add(index, width int, dir Direction) bool {
	if sc.Contains(index) {
		return false
	}
	sc.AddAlways(index, width, dir)
	return true
}

// AddAlways appends a field even if the slot is already present
func (sc *Subcase) AddAlways(index, width int, dir Direction) {
	sc.fields = append(sc.fields, Field{Index: index, Width: width, Direction: dir})
	sc.proto = nil
}

// AddVar adds the case slot of v, unless present
func (sc *Subcase) AddVar(v *dict.Variable, dir Direction) bool {
	return sc.Add(v.CaseIndex(), v.Width(), dir)
}

// AddVarAlways adds the case slot of v
func (sc *Subcase) AddVarAlways(v *dict.Variable, dir Direction) {
	sc.AddAlways(v.CaseIndex(), v.Width(), dir)
}

// AddProto adds every slot of proto in ascending order
func (sc *Subcase) AddProto(proto *caseproto.Proto) {
	for i := 0; i < proto.N(); i++ {
		sc.AddAlways(i, proto.Width(i), Ascend)
	}
}

// Contains returns true if slot index is a key field
func (sc *Subcase) Contains(index int) bool {
	return slices.ContainsFunc(sc.fields, func(f Field) bool { return f.Index == index })
}

// ContainsVar returns true if the slot of v is a key field
func (sc *Subcase) ContainsVar(v *dict.Variable) bool {
	return sc.Contains(v.CaseIndex())
}

// NFields returns the number of fields
func (sc *Subcase) NFields() int { return len(sc.fields) }

// IsEmpty returns true if there are no fields
func (sc *Subcase) IsEmpty() bool { return len(sc.fields) == 0 }

// Field returns field i
func (sc *Subcase) Field(i int) Field { return sc.fields[i] }

// Indexes returns the case slots of the fields
func (sc *Subcase) Indexes() []int {
	res := make([]int, len(sc.fields))
	for i, f := range sc.fields {
		res[i] = f.Index
	}
	return res
}

// Proto returns the proto of a case holding just the key fields
func (sc *Subcase) Proto() *caseproto.Proto {
	if sc.proto == nil {
		widths := make([]int, len(sc.fields))
		for i, f := range sc.fields {
			widths[i] = f.Width
		}
		sc.proto = caseproto.New(widths...)
	}
	return sc.proto
}

// Clone returns an independent copy
func (sc *Subcase) Clone() *Subcase {
	return &Subcase{fields: slices.Clone(sc.fields), proto: sc.proto}
}

// Clear removes all fields
func (sc *Subcase) Clear() {
	sc.fields = nil
	sc.proto = nil
}

// Invert flips the direction of every field
func (sc *Subcase) Invert() {
	for i := range sc.fields {
		if sc.fields[i].Direction == Ascend {
			sc.fields[i].Direction = Descend
		} else {
			sc.fields[i].Direction = Ascend
		}
	}
}

// IsConformable returns true if the subcases have equal length, widths and directions
func (sc *Subcase) IsConformable(o *Subcase) bool {
	if len(sc.fields) != len(o.fields) {
		return false
	}
	for i, f := range sc.fields {
		of := o.fields[i]
		if f.Width != of.Width || f.Direction != of.Direction {
			return false
		}
	}
	return true
}

// Compare compares a and b under the key
func (sc *Subcase) Compare(a, b *ccase.Case) int {
	return Compare3(a, sc, b, sc)
}

// Equal returns true if a and b are equal under the key
func (sc *Subcase) Equal(a, b *ccase.Case) bool {
	for _, f := range sc.fields {
		if !a.Value(f.Index).Equal(b.Value(f.Index)) {
			return false
		}
	}
	return true
}

// CompareXC compares key values vals, in field order, with case c
func (sc *Subcase) CompareXC(vals []value.Value, c *ccase.Case) int {
	for i, f := range sc.fields {
		if cmp := compareField(f, vals[i], c.Value(f.Index)); cmp != 0 {
			return cmp
		}
	}
	return 0
}

// CompareXX compares two key value lists
func (sc *Subcase) CompareXX(a, b []value.Value) int {
	for i, f := range sc.fields {
		if cmp := compareField(f, a[i], b[i]); cmp != 0 {
			return cmp
		}
	}
	return 0
}

// EqualXC returns true if key values vals equal the key of c
func (sc *Subcase) EqualXC(vals []value.Value, c *ccase.Case) bool {
	for i, f := range sc.fields {
		if !vals[i].Equal(c.Value(f.Index)) {
			return false
		}
	}
	return true
}

// EqualXX returns true if two key value lists are equal
func (sc *Subcase) EqualXX(a, b []value.Value) bool {
	for i := range sc.fields {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Extract returns the key values of c
func (sc *Subcase) Extract(c *ccase.Case) []value.Value {
	res := make([]value.Value, len(sc.fields))
	for i, f := range sc.fields {
		res[i] = c.Value(f.Index)
	}
	return res
}

// Inject stores key values into the key slots of c, which must be unshared
func (sc *Subcase) Inject(vals []value.Value, c *ccase.Case) {
	for i, f := range sc.fields {
		c.SetValue(f.Index, vals[i])
	}
}

// Project returns a new case holding only the key fields of c, in field order
func (sc *Subcase) Project(c *ccase.Case) *ccase.Case {
	res := ccase.New(sc.Proto())
	for i, f := range sc.fields {
		res.SetValue(i, c.Value(f.Index))
	}
	return res
}

// Copy copies the key fields of src under srcSC into the fields of dst under dstSC.
// The subcases must be conformable and dst unshared
func Copy(srcSC *Subcase, src *ccase.Case, dstSC *Subcase, dst *ccase.Case) {
	for i, f := range srcSC.fields {
		dst.SetValue(dstSC.fields[i].Index, src.Value(f.Index))
	}
}

// Compare3 compares a under aSC with b under bSC. The subcases must be conformable
func Compare3(a *ccase.Case, aSC *Subcase, b *ccase.Case, bSC *Subcase) int {
	for i, f := range aSC.fields {
		if cmp := compareField(f, a.Value(f.Index), b.Value(bSC.fields[i].Index)); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func compareField(f Field, a, b value.Value) int {
	cmp := value.Compare(a, b)
	if f.Direction == Descend {
		return -cmp
	}
	return cmp
}
