/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRangeError = errors.New("case index out of range")
	ErrReleasedError   = errors.New("page store is released")
	ErrCorruptedError  = errors.New("page store block is corrupted")
)

func ErrOutOfRange(idx, start, end int64) error {
	return fmt.Errorf("%w: %d not in [%d, %d)", ErrOutOfRangeError, idx, start, end)
}

func ErrCorrupted(block uint64, size int) error {
	return fmt.Errorf("%w: block %d has %d bytes", ErrCorruptedError, block, size)
}
