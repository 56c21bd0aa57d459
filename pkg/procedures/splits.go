/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/casegrouper"
	"github.com/lemenkov/pspp-sub003/pkg/casestream"
)

// ForEachSplit calls f once per split-file group of ds, in input order, with a reader over the
// cases of the group. Without split variables all cases form one group, none if ds is empty.
// f owns the reader. Consumes ds.Reader
func ForEachSplit(ds Dataset, f func(split SplitGroup, r *casestream.Reader) error) error {
	vars := ds.Dict.SplitVars()
	g := casegrouper.NewSplits(ds.Reader, ds.Dict)
	var ferr error
	for r, ok := g.Next(); ok; r, ok = g.Next() {
		split := SplitGroup{Type: ds.Dict.SplitType(), Vars: vars}
		if len(vars) > 0 {
			first := r.Peek(0)
			for _, v := range vars {
				split.Values = append(split.Values, v.Value(first).Clone())
			}
			first.Unref()
			if logger.IsVerbose() {
				logger.Verbose("split group: " + split.Label())
			}
		}
		if ferr = f(split, r); ferr != nil {
			break
		}
	}
	err := ds.Reader.Err()
	if !g.Destroy() && ferr == nil {
		return readerErr(err)
	}
	return ferr
}
