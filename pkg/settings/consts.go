/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package settings

import "math"

const (
	DefaultMinBuffers     = 64
	DefaultMaxBuffers     = math.MaxInt
	DefaultWorkspace      = 64 * 1024 * 1024
	DefaultPageSize       = 8 * 1024
	DefaultPageCacheBytes = 32 * 1024 * 1024

	// MinPageSize keeps room for a page header and one numeric cell
	MinPageSize = 512
)

// EnvTmpDir is consulted for the paging directory
const EnvTmpDir = "TMPDIR"
