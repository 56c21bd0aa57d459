/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import "os"

const (
	blocksBucketName = "blocks"
	filePrefix       = "pspp-"
	fileSuffix       = ".pages"
	fileMode         = os.FileMode(0600)

	// pendingBlocks is the number of full blocks committed to the file in one transaction
	pendingBlocks = 16

	// maxCachedBlock is the largest block kept in the page cache
	maxCachedBlock = 64*1024 - 1

	numericBytes = 8
	storeIDSize  = 16
)
