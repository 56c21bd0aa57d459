/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package ccase

import (
	"sync/atomic"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Case is a reference-counted tuple of values conforming to a proto.
//
// Values are immutable, so a clone shares string buffers with its source.
// Setters panic while the case is shared; call Unshare first
type Case struct {
	proto  *caseproto.Proto
	refs   atomic.Int32
	values []value.Value
}
