/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package procedures

import (
	"fmt"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/casestream"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
)

func lookupNumeric(d *dict.Dictionary, names []string) ([]*dict.Variable, error) {
	vars, err := d.LookupVars(names...)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		if !v.IsNumeric() {
			return nil, dict.ErrInvalid("«%s» is not numeric", v.Name())
		}
	}
	return vars, nil
}

func sortKeys(d *dict.Dictionary, keys []SortKey) (*subcase.Subcase, []*dict.Variable, error) {
	sc := subcase.New()
	vars := make([]*dict.Variable, 0, len(keys))
	for _, k := range keys {
		v := d.LookupVar(k.Name)
		if v == nil {
			return nil, nil, dict.ErrNotFound("variable «%s»", k.Name)
		}
		if !sc.AddVar(v, k.Dir) {
			return nil, nil, ErrInvalidOptions("variable «%s» is listed twice", v.Name())
		}
		vars = append(vars, v)
	}
	return sc, vars, nil
}

// readerErr returns the error that tainted r, or ErrStreamError if r only saw a taint from upstream
func readerErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStreamError, err)
		}
	}
	return ErrStreamError
}

// destroyAll destroys every reader and returns false if any of them had an error
func destroyAll(readers ...*casestream.Reader) bool {
	ok := true
	for _, r := range readers {
		ok = r.Destroy() && ok
	}
	return ok
}

// Label returns the description of the group, such as "a = 1, b = x"
func (g SplitGroup) Label() string {
	parts := make([]string, len(g.Vars))
	for i, v := range g.Vars {
		val := g.Values[i].String()
		if v.IsString() {
			val = g.Values[i].Trimmed()
		}
		parts[i] = fmt.Sprintf("%s = %s", v.Name(), val)
	}
	return strings.Join(parts, ", ")
}

// ParseAggregateFunc returns the aggregation function named name, case-insensitively
func ParseAggregateFunc(name string) (AggregateFunc, error) {
	for f, info := range aggFuncs {
		if strings.EqualFold(info.name, name) {
			return AggregateFunc(f), nil
		}
	}
	return 0, ErrInvalidOptions("unknown aggregate function «%s»", name)
}
