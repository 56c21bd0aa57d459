/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

import (
	"errors"
	"fmt"
)

var (
	ErrNoHeaderError = errors.New("no header row")
	ErrParseError    = errors.New("parse error")
)

// ErrParse reports a bad record, line counts the header as line 1
func ErrParse(line int, msg string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrParseError, line, fmt.Sprintf(msg, args...))
}
