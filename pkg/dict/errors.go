/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateNameError = errors.New("duplicate name")
	ErrNotFoundError      = errors.New("not found")
	ErrInvalidError       = errors.New("invalid")
	ErrTooManyError       = errors.New("too many")
	ErrIncompatibleError  = errors.New("incompatible")
)

func ErrDuplicateName(name string) error {
	return fmt.Errorf("%w: «%s»", ErrDuplicateNameError, name)
}

func ErrNotFound(msg string, args ...any) error {
	return enrichError(ErrNotFoundError, msg, args...)
}

func ErrInvalid(msg string, args ...any) error {
	return enrichError(ErrInvalidError, msg, args...)
}

func ErrTooMany(msg string, args ...any) error {
	return enrichError(ErrTooManyError, msg, args...)
}

func ErrIncompatible(msg string, args ...any) error {
	return enrichError(ErrIncompatibleError, msg, args...)
}

func enrichError(err error, msg string, args ...any) error {
	s := msg
	if len(args) > 0 {
		s = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", err, s)
}
