/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOptionsError = errors.New("invalid options")
	ErrStreamError         = errors.New("error reading cases")
)

func ErrInvalidOptions(msg string, args ...any) error {
	return enrichError(ErrInvalidOptionsError, msg, args...)
}

func enrichError(err error, msg string, args ...any) error {
	s := msg
	if len(args) > 0 {
		s = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", err, s)
}

// procError tags err with the procedure that failed
func procError(proc string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %w", proc, err)
}
