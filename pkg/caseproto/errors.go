/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

import (
	"errors"
	"fmt"
)

var ErrNotConformableError = errors.New("protos are not conformable")

func ErrNotConformable(a, b *Proto) error {
	return fmt.Errorf("%w: %v and %v", ErrNotConformableError, a, b)
}
