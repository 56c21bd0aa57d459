/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package imetrics

type IMetric interface {
	Name() string

	// Component returns "" when not specified
	Component() string
}

type IMetrics interface {
	// Increase metric value with "delta".
	// The default metric value is always 0.
	//
	// @ConcurrentAccess
	Increase(metricName string, component string, valueDelta float64)

	// Value returns the current value of a metric
	//
	// @ConcurrentAccess
	Value(metricName string, component string) float64

	// List lists current values of all metrics, ordered by name and component
	//
	// @ConcurrentAccess
	List(cb func(metric IMetric, metricValue float64) (err error)) (err error)
}
