/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package imetrics

import (
	"bytes"
	"strconv"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type metric struct {
	name      string
	component string
}

func (m *metric) Name() string {
	return m.name
}

func (m *metric) Component() string {
	return m.component
}

type mapMetrics struct {
	metrics map[metric]float64
	lock    sync.Mutex
}

func newMetrics() IMetrics {
	return &mapMetrics{
		metrics: make(map[metric]float64),
	}
}

func (m *mapMetrics) Increase(metricName string, component string, valueDelta float64) {
	key := metric{
		name:      metricName,
		component: component,
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.metrics[key] = m.metrics[key] + valueDelta
}

func (m *mapMetrics) Value(metricName string, component string) float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.metrics[metric{name: metricName, component: component}]
}

func (m *mapMetrics) List(cb func(metric IMetric, metricValue float64) (err error)) (err error) {
	m.lock.Lock()
	keys := maps.Keys(m.metrics)
	values := make(map[metric]float64, len(keys))
	for _, k := range keys {
		values[k] = m.metrics[k]
	}
	m.lock.Unlock()

	slices.SortFunc(keys, func(a, b metric) int {
		if a.name != b.name {
			if a.name < b.name {
				return -1
			}
			return 1
		}
		switch {
		case a.component < b.component:
			return -1
		case a.component > b.component:
			return 1
		}
		return 0
	})
	for _, key := range keys {
		key := key
		if err = cb(&key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func ToPrometheus(metric IMetric, metricValue float64) []byte {
	bb := bytes.Buffer{}
	bb.WriteString(metric.Name())
	if metric.Component() != "" {
		bb.WriteString(`{component="`)
		bb.WriteString(metric.Component())
		bb.WriteString(`"}`)
	}
	bb.WriteRune(' ')
	bb.WriteString(strconv.FormatFloat(metricValue, 'f', -1, bitSize))
	bb.WriteRune('\n')
	return bb.Bytes()
}
