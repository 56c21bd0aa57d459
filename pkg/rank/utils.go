/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package rank

import (
	"fmt"
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/dict"
)

var funcNames = [FuncCount]string{"RANK", "NORMAL", "PERCENT", "RFRACTION", "PROPORTION", "N", "NTILES", "SAVAGE"}

var funcFormats = [FuncCount]dict.Format{
	FuncRank:       {Type: dict.FmtF, W: 9, D: 3},
	FuncNormal:     {Type: dict.FmtF, W: 6, D: 4},
	FuncPercent:    {Type: dict.FmtF, W: 6, D: 2},
	FuncRFraction:  {Type: dict.FmtF, W: 6, D: 4},
	FuncProportion: {Type: dict.FmtF, W: 6, D: 4},
	FuncN:          {Type: dict.FmtF, W: 6, D: 0},
	FuncNTiles:     {Type: dict.FmtF, W: 3, D: 0},
	FuncSavage:     {Type: dict.FmtF, W: 8, D: 4},
}

var fractionNames = map[Fraction]string{FracBlom: "BLOM", FracRankit: "RANKIT", FracTukey: "TUKEY", FracVW: "VW"}

var tiesNames = map[Ties]string{TiesMean: "MEAN", TiesLow: "LOW", TiesHigh: "HIGH", TiesCondense: "CONDENSE"}

func (f Func) String() string {
	if f < 0 || f >= FuncCount {
		return fmt.Sprintf("Func(%d)", int(f))
	}
	return funcNames[f]
}

// Format returns the print format of variables holding f
func (f Func) Format() dict.Format { return funcFormats[f] }

// Measure returns the measurement level of variables holding f
func (f Func) Measure() dict.Measure {
	if f == FuncN {
		return dict.MeasureScale
	}
	return dict.MeasureOrdinal
}

// ParseFunc returns the function named name, case-insensitively
func ParseFunc(name string) (Func, error) {
	for f, n := range funcNames {
		if strings.EqualFold(n, name) {
			return Func(f), nil
		}
	}
	return 0, fmt.Errorf("unknown rank function «%s»", name)
}

func (f Fraction) String() string { return fractionNames[f] }

// ParseFraction returns the fraction named name, case-insensitively
func ParseFraction(name string) (Fraction, error) {
	for f, n := range fractionNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fraction «%s»", name)
}

func (t Ties) String() string { return tiesNames[t] }

// ParseTies returns the tie policy named name, case-insensitively
func ParseTies(name string) (Ties, error) {
	for t, n := range tiesNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown ties policy «%s»", name)
}

func (e Error) String() string {
	var parts []string
	if e&NegativeWeight != 0 {
		parts = append(parts, "negative weight")
	}
	if e&TiesIgnored != 0 {
		parts = append(parts, "input not sorted")
	}
	return strings.Join(parts, ", ")
}

// Label returns the label of a variable holding f of srcName, ranked within groupBy
func Label(f Func, srcName string, groupBy []string) string {
	if len(groupBy) > 0 {
		return fmt.Sprintf("%s of %s by %s", f, srcName, strings.Join(groupBy, " "))
	}
	return fmt.Sprintf("%s of %s", f, srcName)
}

// DestName returns a name for the variable holding f of srcName that is neither in d
// nor in taken, and adds it to taken. Returns "" if all candidates are used
func DestName(d *dict.Dictionary, taken map[string]bool, f Func, srcName string) string {
	try := func(name string) bool {
		folded := dict.FoldName(name)
		if d.LookupVar(name) != nil || taken[folded] {
			return false
		}
		taken[folded] = true
		return true
	}
	fname := f.String()
	if name := fname[:1] + truncate(srcName, 7); try(name) {
		return name
	}
	for i := 1; i <= nameTries; i++ {
		if name := fmt.Sprintf("%.3s%03d", fname, i); try(name) {
			return name
		}
	}
	for i := 1; i <= rnkTries; i++ {
		if name := fmt.Sprintf("RNK%.2s%02d", fname, i); try(name) {
			return name
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
