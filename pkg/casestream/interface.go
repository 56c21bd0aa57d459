/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import "github.com/lemenkov/pspp-sub003/pkg/ccase"

// Source produces the cases of a Reader
type Source interface {
	// Read returns the next case, nil at the end of the stream
	Read(r *Reader) (*ccase.Case, error)

	Destroy(r *Reader) error
}

// CloneSource is a Source that can produce an independent reader positioned at its current case.
// Readers over other sources are buffered on first Clone
type CloneSource interface {
	Source
	Clone(r *Reader) *Reader
}

// PeekSource is a Source that can return a case ahead of the current one without consuming it
type PeekSource interface {
	Source
	Peek(r *Reader, idx int64) (*ccase.Case, error)
}

// RandomSource is a random-access case sequence shared by all clones of a reader made by NewRandom
type RandomSource interface {
	// ReadAt returns case idx counted from the first case not yet advanced past, nil past the end
	ReadAt(idx int64) (*ccase.Case, error)

	// Advance tells that no reader will ever read the first n cases again
	Advance(n int64) error

	Destroy() error
}

// Sink consumes the cases of a Writer
type Sink interface {
	Write(w *Writer, c *ccase.Case) error

	Destroy(w *Writer) error

	// MakeReader returns a reader over the written cases. The sink is not used afterwards
	MakeReader(w *Writer) (*Reader, error)
}
