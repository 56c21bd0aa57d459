/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package subcase

import "github.com/lemenkov/pspp-sub003/pkg/caseproto"

// Direction of a key field
type Direction int

const (
	Ascend Direction = iota
	Descend
)

// Field is one key field: a case slot, its width and its direction
type Field struct {
	Index     int
	Width     int
	Direction Direction
}

// Subcase is an ordered composite key over case slots
type Subcase struct {
	fields []Field
	proto  *caseproto.Proto
}
