/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casegrouper

import (
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// SameGroupFunc returns true if b belongs to the group started by a
type SameGroupFunc func(a, b *ccase.Case) bool

// Grouper breaks a reader into readers over runs of consecutive cases of the same group
type Grouper struct {
	reader    *casestream.Reader
	sameGroup SameGroupFunc
	destroy   func()
	taint     *taint.Taint
}
