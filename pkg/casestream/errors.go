/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import (
	"errors"
	"fmt"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
)

var (
	ErrForcedError            = errors.New("stream error forced")
	ErrIncompatibleProtoError = errors.New("case does not match stream proto")
	ErrTaintedError           = errors.New("error detected upstream of the stream")
)

func ErrIncompatibleProto(got, expected *caseproto.Proto) error {
	return fmt.Errorf("%w: %v, expected %v", ErrIncompatibleProtoError, got, expected)
}
