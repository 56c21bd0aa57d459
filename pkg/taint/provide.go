/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package taint

// New creates an untainted node with one reference
func New() *Taint {
	return &Taint{refs: 1}
}
