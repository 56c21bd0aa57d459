/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"math"

	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Add accumulates x with weight w. Non-positive weights and SYSMIS are ignored
func (m *Moments) Add(x, w float64) {
	if w <= 0 || x == value.SYSMIS {
		return
	}
	// x joins as a sample of weight w with zero spread
	n := m.w + w
	d := x - m.mean
	r := d * w / n
	if m.max >= MomentKurtosis {
		m.m4 += d*d*d*d*m.w*w*(m.w*m.w-m.w*w+w*w)/(n*n*n) +
			6*d*d*w*w*m.m2/(n*n) - 4*d*w*m.m3/n
	}
	if m.max >= MomentSkewness {
		m.m3 += d*d*d*m.w*w*(m.w-w)/(n*n) - 3*d*w*m.m2/n
	}
	m.m2 += d * r * m.w
	m.mean += r
	m.w = n
}

// Calculate returns the statistics accumulated so far
func (m *Moments) Calculate() Stats {
	s := Stats{
		W:          m.w,
		Mean:       value.SYSMIS,
		Variance:   value.SYSMIS,
		Skewness:   value.SYSMIS,
		Kurtosis:   value.SYSMIS,
		SESkewness: SESkewness(m.w),
		SEKurtosis: SEKurtosis(m.w),
	}
	if m.w <= 0 {
		return s
	}
	s.Mean = m.mean
	if m.max < MomentVariance || m.w <= 1 {
		return s
	}
	variance := m.m2 / (m.w - 1)
	s.Variance = variance
	if variance < minVariance {
		return s
	}
	if m.max >= MomentSkewness && m.w > 2 {
		s.Skewness = m.w * m.m3 / ((m.w - 1) * (m.w - 2) * variance * math.Sqrt(variance))
	}
	if m.max >= MomentKurtosis && m.w > 3 {
		s.Kurtosis = (m.w*(m.w+1)*m.m4/(m.w-1) - 3*m.m2*m.m2) /
			((m.w - 2) * (m.w - 3) * variance * variance)
	}
	return s
}

// Clear resets the accumulator
func (m *Moments) Clear() {
	*m = Moments{max: m.max}
}

// SESkewness returns the standard error of skewness for a sample of weight w
func SESkewness(w float64) float64 {
	if w <= 2 {
		return value.SYSMIS
	}
	return math.Sqrt(6 * w * (w - 1) / ((w - 2) * (w + 1) * (w + 3)))
}

// SEKurtosis returns the standard error of kurtosis for a sample of weight w
func SEKurtosis(w float64) float64 {
	if w <= 3 {
		return value.SYSMIS
	}
	se := SESkewness(w)
	return math.Sqrt(4 * (w*w - 1) * se * se / ((w - 3) * (w + 5)))
}

// StdDev returns the square root of the variance, SYSMIS if undefined
func (s Stats) StdDev() float64 {
	if s.Variance == value.SYSMIS {
		return value.SYSMIS
	}
	return math.Sqrt(s.Variance)
}
