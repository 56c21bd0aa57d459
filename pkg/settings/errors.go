/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package settings

import (
	"errors"
	"fmt"
)

var ErrInvalidError = errors.New("invalid settings")

func ErrInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidError, msg)
}
