/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/lemenkov/pspp-sub003/pkg/procedures"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/subcase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

var specLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(''|[^'])*'|"(""|[^"])*"`},
	{Name: "Number", Pattern: `[-+]?(\d*\.)?\d+([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z@#$][\w@#$]*(\.[\w@#$]+)*`},
	{Name: "Punct", Pattern: `[=(),.]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var (
	aggregateParser = participle.MustBuild[aggregateSpecAST](participle.Lexer(specLexer), participle.Elide("Whitespace"))
	sortKeyParser   = participle.MustBuild[sortKeyAST](participle.Lexer(specLexer), participle.Elide("Whitespace"))
	rankSpecParser  = participle.MustBuild[rankSpecAST](participle.Lexer(specLexer), participle.Elide("Whitespace"))
)

// parseAggregateVar parses a definition such as "TOTAL 'sum of x' = SUM(X)".
// A dot after the function name, as in "SUM.(X)", counts user-missing values as valid
func parseAggregateVar(s string) (procedures.AggregateVar, error) {
	ast, err := aggregateParser.ParseString("", s)
	if err != nil {
		return procedures.AggregateVar{}, errBadArgs("aggregate variable «%s»: %v", s, err)
	}
	f, err := procedures.ParseAggregateFunc(ast.Func)
	if err != nil {
		return procedures.AggregateVar{}, err
	}
	res := procedures.AggregateVar{
		Dest:               ast.Dest,
		Func:               f,
		IncludeUserMissing: ast.Missing,
	}
	if ast.Label != nil {
		res.Label = string(*ast.Label)
	}
	if ast.Call != nil {
		res.Src = ast.Call.Src
		for _, arg := range ast.Call.Args {
			res.Args = append(res.Args, arg.value())
		}
	}
	return res, nil
}

func (a argAST) value() value.Value {
	if a.Str != nil {
		s := string(*a.Str)
		return value.StrString(s, max(len(s), 1))
	}
	return value.Num(*a.Num)
}

func parseSortKeys(specs []string) ([]procedures.SortKey, error) {
	keys := make([]procedures.SortKey, 0, len(specs))
	for _, s := range specs {
		ast, err := sortKeyParser.ParseString("", s)
		if err != nil {
			return nil, errBadArgs("sort key «%s»: %v", s, err)
		}
		key := procedures.SortKey{Name: ast.Name, Dir: subcase.Ascend}
		switch strings.ToUpper(ast.Dir) {
		case "", dirAscending, "UP":
		case dirDescending, "DOWN":
			key.Dir = subcase.Descend
		default:
			return nil, errBadArgs("sort key «%s»: unknown direction «%s»", s, ast.Dir)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// parseRankSpec parses a rank function such as "RANK" or "NTILES(4) INTO Q1 Q2"
func parseRankSpec(s string) (procedures.RankSpec, error) {
	ast, err := rankSpecParser.ParseString("", s)
	if err != nil {
		return procedures.RankSpec{}, errBadArgs("rank function «%s»: %v", s, err)
	}
	f, err := rank.ParseFunc(ast.Func)
	if err != nil {
		return procedures.RankSpec{}, errBadArgs("%v", err)
	}
	if f != rank.FuncNTiles && ast.NTiles != 0 {
		return procedures.RankSpec{}, errBadArgs("rank function «%s»: only NTILES takes a group count", s)
	}
	return procedures.RankSpec{Func: f, NTiles: ast.NTiles, Into: ast.Into}, nil
}
