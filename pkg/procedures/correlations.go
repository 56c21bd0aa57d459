/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"errors"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/covariance"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// Correlations computes Pearson correlation matrices, one per split group. A split group
// without valid data is reported with a warning and yields no result. Consumes ds.Reader
func Correlations(ds Dataset, opts CorrelationsOptions) ([]CorrelationsResult, error) {
	rows, cols, all, err := correlationVars(ds.Dict, &opts)
	if err != nil {
		ds.Reader.Destroy()
		return nil, procError(procCorrelations, err)
	}
	index := make(map[*dict.Variable]int, len(all))
	for i, v := range all {
		index[v] = i
	}

	var res []CorrelationsResult
	warn := true
	err = ForEachSplit(ds, func(split SplitGroup, r *casestream.Reader) error {
		r = casestream.FilterWeight(r, ds.Dict, &warn, nil)
		cv := covariance.New(all, ds.Dict.Weight(), opts.Exclude, opts.Missing, covariance.TwoPass)
		m, err := covariance.FromReader(r, cv)
		if errors.Is(err, covariance.ErrNoDataError) {
			logger.Warning(fmt.Sprintf("%s: no valid cases in split group %q", procCorrelations, split.Label()))
			return nil
		}
		if err != nil {
			return readerErr(err)
		}
		res = append(res, correlationsResult(split, m, rows, cols, index, opts.Tails))
		return nil
	})
	if err != nil {
		return nil, procError(procCorrelations, err)
	}
	return res, nil
}

func correlationVars(d *dict.Dictionary, opts *CorrelationsOptions) (rows, cols, all []*dict.Variable, err error) {
	if len(opts.Vars) == 0 {
		return nil, nil, nil, ErrInvalidOptions("no variables to correlate")
	}
	if rows, err = lookupNumeric(d, opts.Vars); err != nil {
		return nil, nil, nil, err
	}
	cols = rows
	if len(opts.With) > 0 {
		if cols, err = lookupNumeric(d, opts.With); err != nil {
			return nil, nil, nil, err
		}
	}
	if opts.Exclude == dict.MVNone {
		opts.Exclude = dict.MVAny
	}
	switch opts.Tails {
	case 0:
		opts.Tails = covariance.TwoTailed
	case covariance.OneTailed, covariance.TwoTailed:
	default:
		return nil, nil, nil, ErrInvalidOptions("tails must be 1 or 2, got %d", opts.Tails)
	}
	seen := map[*dict.Variable]bool{}
	for _, v := range append(append([]*dict.Variable{}, rows...), cols...) {
		if !seen[v] {
			seen[v] = true
			all = append(all, v)
		}
	}
	return rows, cols, all, nil
}

func correlationsResult(split SplitGroup, m *covariance.Matrices, rows, cols []*dict.Variable, index map[*dict.Variable]int, tails int) CorrelationsResult {
	corr := m.Correlation()
	res := CorrelationsResult{Split: split, Rows: rows, Cols: cols}
	for _, rv := range rows {
		i := index[rv]
		line := make([]CorrelationCell, len(cols))
		for k, cvar := range cols {
			j := index[cvar]
			n := m.N.At(i, j)
			cell := CorrelationCell{Pearson: corr.At(i, j), N: n, Covariance: m.Cov.At(i, j), Sig: value.SYSMIS, CrossProduct: value.SYSMIS}
			if i != j {
				cell.Sig = covariance.Significance(cell.Pearson, n, tails)
			}
			if cell.Covariance != value.SYSMIS {
				cell.CrossProduct = cell.Covariance * (n - 1)
			}
			line[k] = cell
		}
		res.Cells = append(res.Cells, line)
	}
	for i, v := range m.Vars {
		res.Descriptives = append(res.Descriptives, VarStats{Var: v, N: m.N.At(i, i), Mean: m.Means[i], StdDev: m.StdDev(i)})
	}
	return res
}
