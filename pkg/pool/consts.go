/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pool

// BlockSize is the size of the blocks small allocations are carved from
const BlockSize = 1024

// largeAlloc is the size from which an allocation gets a block of its own
const largeAlloc = BlockSize / 4
