/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrBadArgs     = errors.New("bad arguments")
	ErrStreamError = errors.New("case stream failed")
)

func errBadArgs(msg string, args ...any) error {
	return errors.Wrapf(ErrBadArgs, msg, args...)
}

// streamErr reports a failed case stream with its first known cause
func streamErr(causes ...error) error {
	for _, err := range causes {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStreamError, err)
		}
	}
	return ErrStreamError
}
