/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pool

// New creates an empty pool
func New() *Pool {
	return &Pool{}
}
