/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package imetrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	require := require.New(t)

	m := Provide()
	m.Increase(SortRuns, "", 1)
	m.Increase(SortRuns, "", 2)
	m.Increase(PagesWritten, "sort", 5)
	require.Equal(3.0, m.Value(SortRuns, ""))
	require.Equal(0.0, m.Value(PagesRead, ""))

	var lines []string
	require.NoError(m.List(func(metric IMetric, metricValue float64) error {
		lines = append(lines, string(ToPrometheus(metric, metricValue)))
		return nil
	}))
	require.Equal([]string{
		"pspp_pagestore_pages_written_total{component=\"sort\"} 5\n",
		"pspp_sort_runs_total 3\n",
	}, lines)

	t.Run("should stop listing on error", func(t *testing.T) {
		stop := errors.New("stop")
		n := 0
		err := m.List(func(IMetric, float64) error {
			n++
			return stop
		})
		require.ErrorIs(err, stop)
		require.Equal(1, n)
	})

	require.NotNil(Global())
}
