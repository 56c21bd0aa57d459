/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"errors"
	"fmt"
)

var ErrNoDataError = errors.New("no valid data")

func ErrNoData(what string) error {
	return fmt.Errorf("%w: %s", ErrNoDataError, what)
}
