/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func newVariable(name string, width int) *Variable {
	v := &Variable{
		name:    name,
		width:   width,
		missing: NewMissingValues(width),
		labels:  NewValueLabels(width),
	}
	v.setDefaults()
	return v
}

func (v *Variable) setDefaults() {
	v.print = DefaultFormat(v.width)
	v.write = v.print
	v.displayWidth = min(max(v.print.W, 8), 32)
	if v.width == value.NumericWidth {
		v.measure = MeasureScale
		v.alignment = AlignRight
	} else {
		v.measure = MeasureNominal
		v.alignment = AlignLeft
	}
	v.role = RoleInput
}

// Dict returns the dictionary the variable belongs to, nil after deletion
func (v *Variable) Dict() *Dictionary { return v.dict }

// Name returns the variable name
func (v *Variable) Name() string { return v.name }

// Index returns the position of the variable in its dictionary
func (v *Variable) Index() int { return v.index }

// CaseIndex returns the slot of the variable in cases of its dictionary
func (v *Variable) CaseIndex() int { return v.index }

// Width returns 0 for numeric variables or the string width
func (v *Variable) Width() int { return v.width }

// IsNumeric returns true for numeric variables
func (v *Variable) IsNumeric() bool { return v.width == value.NumericWidth }

// IsString returns true for string variables
func (v *Variable) IsString() bool { return v.width > 0 }

// IsScratch returns true for scratch variables
func (v *Variable) IsScratch() bool { return IsScratchName(v.name) }

func (v *Variable) Label() string { return v.label }
func (v *Variable) SetLabel(label string) { v.label = label }

// DisplayLabel returns the label, or the name if there is none
func (v *Variable) DisplayLabel() string {
	if v.label != "" {
		return v.label
	}
	return v.name
}

func (v *Variable) Measure() Measure { return v.measure }
func (v *Variable) SetMeasure(m Measure) { v.measure = m }
func (v *Variable) Role() Role { return v.role }
func (v *Variable) SetRole(r Role) { v.role = r }
func (v *Variable) Alignment() Alignment { return v.alignment }
func (v *Variable) SetAlignment(a Alignment) { v.alignment = a }
func (v *Variable) DisplayWidth() int { return v.displayWidth }
func (v *Variable) SetDisplayWidth(w int) { v.displayWidth = w }
func (v *Variable) PrintFormat() Format { return v.print }
func (v *Variable) WriteFormat() Format { return v.write }
func (v *Variable) Attributes() Attributes { return v.attributes }
func (v *Variable) ValueLabels() *ValueLabels { return &v.labels }
func (v *Variable) MissingValues() *MissingValues { return &v.missing }

// SetPrintFormat sets the print format; it must suit the variable width
func (v *Variable) SetPrintFormat(f Format) error {
	if err := f.CheckWidthCompat(v.width); err != nil {
		return err
	}
	v.print = f
	return nil
}

// SetWriteFormat sets the write format; it must suit the variable width
func (v *Variable) SetWriteFormat(f Format) error {
	if err := f.CheckWidthCompat(v.width); err != nil {
		return err
	}
	v.write = f
	return nil
}

// SetBothFormats sets print and write formats
func (v *Variable) SetBothFormats(f Format) error {
	if err := v.SetPrintFormat(f); err != nil {
		return err
	}
	v.write = f
	return nil
}

// SetMissingValues replaces the user-missing values
func (v *Variable) SetMissingValues(mv MissingValues) error {
	if mv.Width() != v.width {
		return ErrIncompatible("missing values of width %d for variable «%s» of width %d", mv.Width(), v.name, v.width)
	}
	v.missing = mv
	return nil
}

// AddValueLabel labels val unless it is already labeled
func (v *Variable) AddValueLabel(val value.Value, label string) bool {
	return v.labels.Add(val, label)
}

// LookupValueLabel returns the label of val
func (v *Variable) LookupValueLabel(val value.Value) (string, bool) {
	return v.labels.Lookup(val)
}

// SetAttribute stores an attribute
func (v *Variable) SetAttribute(name string, values ...string) {
	if v.attributes == nil {
		v.attributes = Attributes{}
	}
	v.attributes.Set(name, values...)
}

// IsValueMissing returns true if val is missing under class
func (v *Variable) IsValueMissing(val value.Value, class MVClass) bool {
	return v.missing.IsValueMissing(val, class)
}

// IsNumMissing returns true if f is missing under class
func (v *Variable) IsNumMissing(f float64, class MVClass) bool {
	return v.missing.IsNumMissing(f, class)
}

// IsStrMissing returns true if s is missing under class
func (v *Variable) IsStrMissing(s []byte, class MVClass) bool {
	return v.missing.IsStrMissing(s, class)
}

// Value returns the value of the variable in c
func (v *Variable) Value(c *ccase.Case) value.Value {
	return c.Value(v.index)
}

// Num returns the numeric value of the variable in c
func (v *Variable) Num(c *ccase.Case) float64 {
	return c.Num(v.index)
}

// SetWidth changes the width. Missing values and value labels are kept if they can be resized,
// dropped otherwise. Formats are reset when they no longer fit
func (v *Variable) SetWidth(width int) {
	if width == v.width {
		return
	}
	if v.missing.IsResizable(width) {
		v.missing.Resize(width)
	} else {
		v.missing = NewMissingValues(width)
	}
	if v.labels.IsResizable(width) {
		v.labels.Resize(width)
	} else {
		v.labels = NewValueLabels(width)
	}
	oldWidth := v.width
	v.width = width
	if v.print.CheckWidthCompat(width) != nil {
		v.print = DefaultFormat(width)
	}
	if v.write.CheckWidthCompat(width) != nil {
		v.write = DefaultFormat(width)
	}
	if (oldWidth == value.NumericWidth) != (width == value.NumericWidth) {
		v.setDefaults()
	}
	if v.dict != nil {
		v.dict.invalidate()
	}
}

func (v *Variable) clone() *Variable {
	res := *v
	res.dict = nil
	res.labels = v.labels.clone()
	res.attributes = v.attributes.Clone()
	for i := 0; i < res.missing.n; i++ {
		res.missing.values[i] = v.missing.values[i].Clone()
	}
	return &res
}

func (v *Variable) String() string { return v.name }
