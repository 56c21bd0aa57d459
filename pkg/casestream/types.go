/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/taint"
)

// Reader is a pull iterator over cases of one proto.
//
// Errors taint the reader: a tainted reader behaves as if at the end of the stream and
// Destroy returns false. Not safe for concurrent use
type Reader struct {
	impl   Source
	proto  *caseproto.Proto
	taint  *taint.Taint
	nCases int64
	cfg    *settings.Settings
	err    error
}

// Writer is a sink of cases of one proto that can be turned into a Reader
type Writer struct {
	impl   Sink
	proto  *caseproto.Proto
	taint  *taint.Taint
	cfg    *settings.Settings
	nCases int64
	err    error
}
