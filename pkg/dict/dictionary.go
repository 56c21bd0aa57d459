/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Encoding returns the encoding of string cells
func (d *Dictionary) Encoding() string { return d.encoding }

// Encoder returns the x/text encoding of string cells
func (d *Dictionary) Encoder() encoding.Encoding {
	enc, err := LookupEncoding(d.encoding)
	if err != nil {
		// notest: encoding is validated by New
		panic(err)
	}
	return enc
}

// NVars returns the number of variables
func (d *Dictionary) NVars() int { return len(d.vars) }

// Var returns variable i
func (d *Dictionary) Var(i int) *Variable { return d.vars[i] }

// Vars returns all variables in order
func (d *Dictionary) Vars() []*Variable { return slices.Clone(d.vars) }

// AddVar creates a variable at the end of the dictionary
func (d *Dictionary) AddVar(name string, width int) (*Variable, error) {
	if err := IsValidName(name); err != nil {
		return nil, err
	}
	if !value.IsValidWidth(width) {
		return nil, ErrInvalid("width %d of variable «%s»", width, name)
	}
	if d.LookupVar(name) != nil {
		return nil, ErrDuplicateName(name)
	}
	return d.addVar(newVariable(name, width)), nil
}

// AddVarAssert is AddVar that panics on failure
func (d *Dictionary) AddVarAssert(name string, width int) *Variable {
	v, err := d.AddVar(name, width)
	if err != nil {
		panic(err)
	}
	return v
}

// CloneVarAs adds a copy of src, which may belong to another dictionary, named newName
func (d *Dictionary) CloneVarAs(src *Variable, newName string) (*Variable, error) {
	if err := IsValidName(newName); err != nil {
		return nil, err
	}
	if d.LookupVar(newName) != nil {
		return nil, ErrDuplicateName(newName)
	}
	v := src.clone()
	v.name = newName
	return d.addVar(v), nil
}

// CloneVar adds a copy of src under its own name
func (d *Dictionary) CloneVar(src *Variable) (*Variable, error) {
	return d.CloneVarAs(src, src.name)
}

// CloneVarAsAssert is CloneVarAs that panics on failure
func (d *Dictionary) CloneVarAsAssert(src *Variable, newName string) *Variable {
	v, err := d.CloneVarAs(src, newName)
	if err != nil {
		panic(err)
	}
	return v
}

func (d *Dictionary) addVar(v *Variable) *Variable {
	v.dict = d
	v.index = len(d.vars)
	d.vars = append(d.vars, v)
	d.names[FoldName(v.name)] = v
	d.invalidate()
	return v
}

// LookupVar finds a variable by case-insensitive name, nil if there is none
func (d *Dictionary) LookupVar(name string) *Variable {
	return d.names[FoldName(name)]
}

// LookupVarAssert is LookupVar that panics if the variable does not exist
func (d *Dictionary) LookupVarAssert(name string) *Variable {
	v := d.LookupVar(name)
	if v == nil {
		panic(ErrNotFound("variable «%s»", name))
	}
	return v
}

// LookupVars finds several variables
func (d *Dictionary) LookupVars(names ...string) ([]*Variable, error) {
	res := make([]*Variable, len(names))
	for i, name := range names {
		if res[i] = d.LookupVar(name); res[i] == nil {
			return nil, ErrNotFound("variable «%s»", name)
		}
	}
	return res, nil
}

// ContainsVar returns true if v belongs to d
func (d *Dictionary) ContainsVar(v *Variable) bool {
	return v != nil && v.dict == d && v.index < len(d.vars) && d.vars[v.index] == v
}

// DeleteVar removes v. It is also removed from the weight, filter, split variables,
// vectors and multiple response sets
func (d *Dictionary) DeleteVar(v *Variable) {
	d.DeleteVars([]*Variable{v})
}

// DeleteVars removes several variables
func (d *Dictionary) DeleteVars(vars []*Variable) {
	for _, v := range vars {
		d.checkMember(v)
	}
	gone := map[*Variable]bool{}
	for _, v := range vars {
		gone[v] = true
		delete(d.names, FoldName(v.name))
	}
	d.vars = slices.DeleteFunc(d.vars, func(v *Variable) bool { return gone[v] })
	if gone[d.weight] {
		d.weight = nil
	}
	if gone[d.filter] {
		d.filter = nil
	}
	d.split = slices.DeleteFunc(d.split, func(v *Variable) bool { return gone[v] })
	if len(d.split) == 0 {
		d.splitType = SplitNone
	}
	for _, set := range d.mrsets {
		set.Vars = slices.DeleteFunc(set.Vars, func(v *Variable) bool { return gone[v] })
	}
	d.mrsets = slices.DeleteFunc(d.mrsets, func(set *MRSet) bool { return len(set.Vars) < 2 })
	d.vectors = nil
	for _, v := range vars {
		v.dict = nil
	}
	d.reindex()
}

// DeleteScratchVars removes all variables whose names begin with #
func (d *Dictionary) DeleteScratchVars() {
	var scratch []*Variable
	for _, v := range d.vars {
		if v.IsScratch() {
			scratch = append(scratch, v)
		}
	}
	if len(scratch) > 0 {
		d.DeleteVars(scratch)
	}
}

// ReorderVars moves vars to the beginning of the dictionary in the given order
func (d *Dictionary) ReorderVars(vars []*Variable) {
	moved := map[*Variable]bool{}
	for _, v := range vars {
		d.checkMember(v)
		moved[v] = true
	}
	res := make([]*Variable, 0, len(d.vars))
	res = append(res, vars...)
	for _, v := range d.vars {
		if !moved[v] {
			res = append(res, v)
		}
	}
	d.vars = res
	d.reindex()
}

// ReorderVar moves v to position newIndex
func (d *Dictionary) ReorderVar(v *Variable, newIndex int) {
	d.checkMember(v)
	d.vars = slices.Delete(d.vars, v.index, v.index+1)
	d.vars = slices.Insert(d.vars, newIndex, v)
	d.reindex()
}

// RenameVar changes the name of v
func (d *Dictionary) RenameVar(v *Variable, name string) error {
	return d.RenameVars([]*Variable{v}, []string{name})
}

// RenameVars renames vars[i] to names[i]. Either all variables are renamed or none:
// on a name collision the dictionary is unchanged and the colliding name is reported
func (d *Dictionary) RenameVars(vars []*Variable, names []string) error {
	if len(vars) != len(names) {
		panic("variable and name counts differ")
	}
	for i, v := range vars {
		d.checkMember(v)
		if err := IsValidName(names[i]); err != nil {
			return err
		}
	}
	for _, v := range vars {
		delete(d.names, FoldName(v.name))
	}
	for i, name := range names {
		if d.names[FoldName(name)] != nil {
			for j := 0; j < i; j++ {
				delete(d.names, FoldName(names[j]))
			}
			for _, v := range vars {
				d.names[FoldName(v.name)] = v
			}
			return ErrDuplicateName(name)
		}
		d.names[FoldName(name)] = vars[i]
	}
	for i, v := range vars {
		v.name = names[i]
	}
	return nil
}

// Weight returns the weight variable or nil
func (d *Dictionary) Weight() *Variable { return d.weight }

// SetWeight sets the weight variable, nil to clear. The variable must be a numeric member
func (d *Dictionary) SetWeight(v *Variable) {
	if v != nil {
		d.checkMember(v)
		if !v.IsNumeric() {
			panic(ErrIncompatible("weight variable «%s» must be numeric", v.name))
		}
	}
	d.weight = v
}

// CaseWeight returns the weight of c: 1 without a weight variable, 0 for missing or
// negative weights. The first invalid weight is reported when *warnOnInvalid is true,
// then *warnOnInvalid is cleared
func (d *Dictionary) CaseWeight(c *ccase.Case, warnOnInvalid *bool) float64 {
	return CaseWeight(d.weight, c, warnOnInvalid)
}

// Filter returns the filter variable or nil
func (d *Dictionary) Filter() *Variable { return d.filter }

// SetFilter sets the filter variable, nil to clear
func (d *Dictionary) SetFilter(v *Variable) {
	if v != nil {
		d.checkMember(v)
		if !v.IsNumeric() {
			panic(ErrIncompatible("filter variable «%s» must be numeric", v.name))
		}
	}
	d.filter = v
}

// SplitVars returns the split variables
func (d *Dictionary) SplitVars() []*Variable { return slices.Clone(d.split) }

// SplitType returns how split groups are reported
func (d *Dictionary) SplitType() SplitType { return d.splitType }

// SetSplitVars sets the split variables. An empty list clears splitting
func (d *Dictionary) SetSplitVars(vars []*Variable, splitType SplitType) error {
	if len(vars) > MaxSplitVars {
		return ErrTooMany("%d split variables, at most %d allowed", len(vars), MaxSplitVars)
	}
	for _, v := range vars {
		d.checkMember(v)
	}
	d.split = slices.Clone(vars)
	if len(vars) == 0 {
		splitType = SplitNone
	} else if splitType == SplitNone {
		splitType = SplitLayered
	}
	d.splitType = splitType
	return nil
}

func (d *Dictionary) CaseLimit() int { return d.caseLimit }
func (d *Dictionary) SetCaseLimit(limit int) { d.caseLimit = limit }
func (d *Dictionary) Label() string { return d.label }
func (d *Dictionary) SetLabel(label string) { d.label = label }
func (d *Dictionary) Attributes() Attributes { return d.attributes }

// Documents returns the document lines
func (d *Dictionary) Documents() []string { return slices.Clone(d.documents) }

// ClearDocuments removes all document lines
func (d *Dictionary) ClearDocuments() { d.documents = nil }

// AddDocumentLine appends one line, truncated to DocLineLength bytes.
// Returns false if the line was truncated
func (d *Dictionary) AddDocumentLine(line string) bool {
	ok := len(line) <= DocLineLength
	if !ok {
		logger.Warning(fmt.Sprintf("truncating document line to %d bytes", DocLineLength))
		line = truncateUTF8(line, DocLineLength)
	}
	d.documents = append(d.documents, line)
	return ok
}

// AddDocument appends text split into lines, wrapping lines longer than DocLineLength
func (d *Dictionary) AddDocument(text string) {
	for _, line := range strings.Split(text, "\n") {
		for len(line) > DocLineLength {
			head := truncateUTF8(line, DocLineLength)
			d.documents = append(d.documents, head)
			line = line[len(head):]
		}
		d.documents = append(d.documents, line)
	}
}

// SetDocuments replaces the documents
func (d *Dictionary) SetDocuments(text string) {
	d.ClearDocuments()
	d.AddDocument(text)
}

// CreateVector adds a vector over vars, which must all be numeric or all strings
func (d *Dictionary) CreateVector(name string, vars []*Variable) error {
	if len(vars) == 0 {
		return ErrInvalid("vector «%s» is empty", name)
	}
	if d.LookupVector(name) != nil {
		return ErrDuplicateName(name)
	}
	for _, v := range vars {
		d.checkMember(v)
		if v.IsNumeric() != vars[0].IsNumeric() {
			return ErrIncompatible("vector «%s» mixes numeric and string variables", name)
		}
	}
	d.vectors = append(d.vectors, &Vector{Name: name, Vars: slices.Clone(vars)})
	return nil
}

// LookupVector finds a vector by case-insensitive name
func (d *Dictionary) LookupVector(name string) *Vector {
	for _, vec := range d.vectors {
		if NamesEqual(vec.Name, name) {
			return vec
		}
	}
	return nil
}

// Vectors returns all vectors
func (d *Dictionary) Vectors() []*Vector { return slices.Clone(d.vectors) }

// ClearVectors removes all vectors
func (d *Dictionary) ClearVectors() { d.vectors = nil }

// AddMRSet adds set, replacing a set with the same name
func (d *Dictionary) AddMRSet(set *MRSet) error {
	if !strings.HasPrefix(set.Name, "$") {
		return ErrInvalid("multiple response set name «%s» must begin with $", set.Name)
	}
	if len(set.Vars) < 2 {
		return ErrInvalid("multiple response set «%s» needs at least two variables", set.Name)
	}
	for _, v := range set.Vars {
		d.checkMember(v)
		if v.IsNumeric() != set.Vars[0].IsNumeric() {
			return ErrIncompatible("multiple response set «%s» mixes numeric and string variables", set.Name)
		}
	}
	if set.Type == MRSetDichotomy && set.CountedValue.Width() != set.Vars[0].width {
		return ErrIncompatible("counted value of «%s» does not match variable width", set.Name)
	}
	if i := d.mrsetIndex(set.Name); i >= 0 {
		d.mrsets[i] = set
		return nil
	}
	d.mrsets = append(d.mrsets, set)
	return nil
}

// LookupMRSet finds a multiple response set by case-insensitive name
func (d *Dictionary) LookupMRSet(name string) *MRSet {
	if i := d.mrsetIndex(name); i >= 0 {
		return d.mrsets[i]
	}
	return nil
}

// DeleteMRSet removes a multiple response set
func (d *Dictionary) DeleteMRSet(name string) bool {
	if i := d.mrsetIndex(name); i >= 0 {
		d.mrsets = slices.Delete(d.mrsets, i, i+1)
		return true
	}
	return false
}

// MRSets returns all multiple response sets
func (d *Dictionary) MRSets() []*MRSet { return slices.Clone(d.mrsets) }

func (d *Dictionary) mrsetIndex(name string) int {
	return slices.IndexFunc(d.mrsets, func(set *MRSet) bool { return NamesEqual(set.Name, name) })
}

// Proto returns the proto of cases described by d
func (d *Dictionary) Proto() *caseproto.Proto {
	if d.proto == nil {
		widths := make([]int, len(d.vars))
		for i, v := range d.vars {
			widths[i] = v.width
		}
		d.proto = d.protos.Intern(caseproto.New(widths...))
	}
	return d.proto
}

// ProtoOf returns the proto of cases holding vars in the given order
func (d *Dictionary) ProtoOf(vars []*Variable) *caseproto.Proto {
	widths := make([]int, len(vars))
	for i, v := range vars {
		widths[i] = v.width
	}
	return d.protos.Intern(caseproto.New(widths...))
}

// NewCase creates a case of d's proto
func (d *Dictionary) NewCase() *ccase.Case {
	return ccase.New(d.Proto())
}

// Clone returns a deep copy. Weight, filter, split variables, vectors and
// multiple response sets refer to the copied variables
func (d *Dictionary) Clone() *Dictionary {
	res := newDictionary(d.encoding)
	mapped := make(map[*Variable]*Variable, len(d.vars))
	for _, v := range d.vars {
		mapped[v] = res.addVar(v.clone())
	}
	mapVars := func(vars []*Variable) []*Variable {
		out := make([]*Variable, len(vars))
		for i, v := range vars {
			out[i] = mapped[v]
		}
		return out
	}
	res.weight = mapped[d.weight]
	res.filter = mapped[d.filter]
	res.split = mapVars(d.split)
	res.splitType = d.splitType
	res.caseLimit = d.caseLimit
	res.label = d.label
	res.documents = slices.Clone(d.documents)
	res.attributes = d.attributes.Clone()
	for _, vec := range d.vectors {
		res.vectors = append(res.vectors, &Vector{Name: vec.Name, Vars: mapVars(vec.Vars)})
	}
	for _, set := range d.mrsets {
		copied := *set
		copied.Vars = mapVars(set.Vars)
		copied.CountedValue = set.CountedValue.Clone()
		res.mrsets = append(res.mrsets, &copied)
	}
	return res
}

func (d *Dictionary) reindex() {
	for i, v := range d.vars {
		v.index = i
	}
	d.invalidate()
}

func (d *Dictionary) invalidate() {
	d.proto = nil
}

func (d *Dictionary) checkMember(v *Variable) {
	if !d.ContainsVar(v) {
		panic(ErrNotFound("variable «%v» is not in the dictionary", v))
	}
}

// CaseWeight returns the value of weight in c under the rules of Dictionary.CaseWeight.
// A nil weight gives 1
func CaseWeight(weight *Variable, c *ccase.Case, warnOnInvalid *bool) float64 {
	if weight == nil {
		return 1
	}
	w := c.Num(weight.index)
	if w < 0 || weight.IsNumMissing(w, MVAny) {
		if warnOnInvalid != nil && *warnOnInvalid {
			logger.Warning(fmt.Sprintf("at least one case in the data file had a weight value that was user-missing, system-missing, zero, or negative; such cases were ignored (weight variable «%s»)", weight.name))
			*warnOnInvalid = false
		}
		return 0
	}
	return w
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
