/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package casestream

import "math"

// UnknownCount is the case count of readers that can't predict their length
const UnknownCount = math.MaxInt64

const (
	componentWindow = "casewindow"
	componentStore  = "store"
)

const minWorkspaceCases = 4
