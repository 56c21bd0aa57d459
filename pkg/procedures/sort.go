/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"github.com/lemenkov/pspp-sub003/pkg/sorter"
)

// SortCases returns ds with its cases stably sorted by keys. Consumes ds.Reader
func SortCases(ds Dataset, keys []SortKey) (Dataset, error) {
	if len(keys) == 0 {
		ds.Reader.Destroy()
		return Dataset{}, procError(procSortCases, ErrInvalidOptions("no sort keys"))
	}
	sc, _, err := sortKeys(ds.Dict, keys)
	if err != nil {
		ds.Reader.Destroy()
		return Dataset{}, procError(procSortCases, err)
	}
	return Dataset{Dict: ds.Dict, Reader: sorter.Execute(ds.Reader, sc)}, nil
}
