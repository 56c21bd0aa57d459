/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package imetrics

var global = newMetrics()

// Provide returns a new independent metrics registry
func Provide() IMetrics {
	return newMetrics()
}

// Global returns the process-wide registry used by components that were not given one
func Global() IMetrics {
	return global
}
