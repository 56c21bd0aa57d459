/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package covariance

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Vars returns the variables of the matrix, in row order
func (cv *Covariance) Vars() []*dict.Variable { return cv.vars }

// Accumulate adds c to a one-pass accumulator
func (cv *Covariance) Accumulate(c *ccase.Case) {
	if cv.passes != OnePass {
		panic("Accumulate on a two-pass covariance, use AccumulatePass1 and AccumulatePass2")
	}
	w, valid := cv.valid(c)
	if w == 0 {
		return
	}
	k := len(cv.vars)
	for i := 0; i < k; i++ {
		if !valid[i] {
			continue
		}
		xi := c.Num(cv.vars[i].CaseIndex())
		for j := i; j < k; j++ {
			if !valid[j] {
				continue
			}
			xj := c.Num(cv.vars[j].CaseIndex())
			n := cv.n.At(i, j) + w
			di := xi - cv.mean.At(i, j)
			mi := cv.mean.At(i, j) + di*w/n
			cv.mean.Set(i, j, mi)
			cv.ssq.Set(i, j, cv.ssq.At(i, j)+w*di*(xi-mi))
			cv.n.Set(i, j, n)
			if i == j {
				cv.cross.Set(i, i, cv.ssq.At(i, i))
				continue
			}
			dj := xj - cv.mean.At(j, i)
			mj := cv.mean.At(j, i) + dj*w/n
			cv.mean.Set(j, i, mj)
			cv.ssq.Set(j, i, cv.ssq.At(j, i)+w*dj*(xj-mj))
			cv.n.Set(j, i, n)
			cv.cross.Set(i, j, cv.cross.At(i, j)+w*di*(xj-mj))
		}
	}
	cv.state = statePass1
}

// AccumulatePass1 adds c to the means of a two-pass accumulator
func (cv *Covariance) AccumulatePass1(c *ccase.Case) {
	if cv.passes != TwoPass {
		panic("AccumulatePass1 on a one-pass covariance, use Accumulate")
	}
	if cv.state > statePass1 {
		panic("AccumulatePass1 after the second pass has started")
	}
	cv.state = statePass1
	cv.forEachPair(c, func(i, j int, xi, xj, w float64) {
		n := cv.n.At(i, j) + w
		cv.mean.Set(i, j, cv.mean.At(i, j)+(xi-cv.mean.At(i, j))*w/n)
		cv.n.Set(i, j, n)
		if i != j {
			cv.mean.Set(j, i, cv.mean.At(j, i)+(xj-cv.mean.At(j, i))*w/n)
			cv.n.Set(j, i, n)
		}
	})
}

// AccumulatePass2 adds c to the centered sums of a two-pass accumulator.
// The cases must be the ones given to AccumulatePass1
func (cv *Covariance) AccumulatePass2(c *ccase.Case) {
	if cv.passes != TwoPass {
		panic("AccumulatePass2 on a one-pass covariance, use Accumulate")
	}
	if cv.state == stateInit {
		panic("AccumulatePass2 before AccumulatePass1")
	}
	cv.state = statePass2
	cv.forEachPair(c, func(i, j int, xi, xj, w float64) {
		di := xi - cv.mean.At(i, j)
		cv.ssq.Set(i, j, cv.ssq.At(i, j)+w*di*di)
		if i == j {
			cv.cross.Set(i, i, cv.ssq.At(i, i))
			return
		}
		dj := xj - cv.mean.At(j, i)
		cv.ssq.Set(j, i, cv.ssq.At(j, i)+w*dj*dj)
		cv.cross.Set(i, j, cv.cross.At(i, j)+w*di*dj)
	})
}

// Calculate returns the matrices accumulated so far.
// Returns ErrNoData if no variable had a valid case
func (cv *Covariance) Calculate() (*Matrices, error) {
	k := len(cv.vars)
	found := false
	for i := 0; i < k; i++ {
		if cv.n.At(i, i) > 0 {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoData("all cases have missing values or zero weight")
	}
	m := &Matrices{
		Vars:      cv.vars,
		N:         mat.NewSymDense(k, nil),
		Cov:       mat.NewSymDense(k, nil),
		Means:     make([]float64, k),
		Variances: make([]float64, k),
		pairVar:   mat.NewDense(k, k, nil),
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			m.pairVar.Set(i, j, unbiased(cv.ssq.At(i, j), cv.n.At(i, j)))
			if j < i {
				continue
			}
			m.N.SetSym(i, j, cv.n.At(i, j))
			m.Cov.SetSym(i, j, unbiased(cv.cross.At(i, j), cv.n.At(i, j)))
		}
		m.Means[i] = value.SYSMIS
		if cv.n.At(i, i) > 0 {
			m.Means[i] = cv.mean.At(i, i)
		}
		m.Variances[i] = m.Cov.At(i, i)
	}
	return m, nil
}

// Clear drops everything accumulated
func (cv *Covariance) Clear() {
	for _, d := range []*mat.Dense{cv.n, cv.mean, cv.ssq, cv.cross} {
		d.Zero()
	}
	cv.state = stateInit
}

// forEachPair calls f for every pair i <= j of variables valid in c
func (cv *Covariance) forEachPair(c *ccase.Case, f func(i, j int, xi, xj, w float64)) {
	w, valid := cv.valid(c)
	if w == 0 {
		return
	}
	for i := range cv.vars {
		if !valid[i] {
			continue
		}
		xi := c.Num(cv.vars[i].CaseIndex())
		for j := i; j < len(cv.vars); j++ {
			if valid[j] {
				f(i, j, xi, c.Num(cv.vars[j].CaseIndex()), w)
			}
		}
	}
}

// valid returns the case weight and the per-variable validity of c.
// Zero weight means the case contributes nothing
func (cv *Covariance) valid(c *ccase.Case) (float64, []bool) {
	w := dict.CaseWeight(cv.weight, c, &cv.warn)
	if w <= 0 {
		return 0, nil
	}
	valid := make([]bool, len(cv.vars))
	for i, v := range cv.vars {
		valid[i] = !v.IsNumMissing(c.Num(v.CaseIndex()), cv.exclude)
		if !valid[i] && cv.missing == Listwise {
			return 0, nil
		}
	}
	return w, valid
}

// StdDev returns the standard deviation of variable i
func (m *Matrices) StdDev(i int) float64 {
	if m.Variances[i] == value.SYSMIS {
		return value.SYSMIS
	}
	return math.Sqrt(m.Variances[i])
}

// Correlation returns the Pearson correlation matrix. Each coefficient is scaled by the
// variances over the cases of its own pair. Undefined coefficients are SYSMIS
func (m *Matrices) Correlation() *mat.SymDense {
	k := len(m.Means)
	r := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			cov := m.Cov.At(i, j)
			vi, vj := m.pairVar.At(i, j), m.pairVar.At(j, i)
			if cov == value.SYSMIS || vi == value.SYSMIS || vj == value.SYSMIS || vi <= 0 || vj <= 0 {
				r.SetSym(i, j, value.SYSMIS)
				continue
			}
			if i == j {
				r.SetSym(i, i, 1)
				continue
			}
			r.SetSym(i, j, cov/math.Sqrt(vi*vj))
		}
	}
	return r
}

func unbiased(ss, n float64) float64 {
	if n <= 1 {
		return value.SYSMIS
	}
	return ss / (n - 1)
}
