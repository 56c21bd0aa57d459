/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"strings"

	"github.com/lemenkov/pspp-sub003/pkg/pool"
)

// pipeParams are the flags shared by all commands
type pipeParams struct {
	Metrics bool

	TmpDir     string
	MinBuffers int
	MaxBuffers int
	Workspace  int
	PageSize   int

	Encoding    string
	OutEncoding string
	Comma       string
	SniffRows   int
	TypedHeader bool
	Labels      bool
	Formatted   bool

	Out       string
	Split     []string
	SplitType string
	Weight    string

	// pool holds the cleanups of the running command
	pool *pool.Pool
}

// Text is a quoted string literal without its quotes
type Text string

func (t *Text) Capture(values []string) error {
	s := values[0]
	*t = Text(strings.ReplaceAll(s[1:len(s)-1], s[:1]+s[:1], s[:1]))
	return nil
}

// aggregateSpecAST is an aggregate variable definition such as
//
//	PMID 'share of middle values' = PIN(X, 1, 5)
type aggregateSpecAST struct {
	Dest    string   `parser:"@Ident"`
	Label   *Text    `parser:"@String?"`
	Func    string   `parser:"'=' @Ident"`
	Missing bool     `parser:"@'.'?"`
	Call    *callAST `parser:"@@?"`
}

type callAST struct {
	Src  string   `parser:"'(' @Ident?"`
	Args []argAST `parser:"(',' @@)* ')'"`
}

type argAST struct {
	Str *Text    `parser:"  @String"`
	Num *float64 `parser:"| @Number"`
}

// sortKeyAST is a variable with an optional direction, such as "X(D)"
type sortKeyAST struct {
	Name string `parser:"@Ident"`
	Dir  string `parser:"('(' @Ident ')')?"`
}

// rankSpecAST is a rank function with optional destination names, such as "NTILES(4) INTO Q1 Q2"
type rankSpecAST struct {
	Func   string   `parser:"@Ident"`
	NTiles int      `parser:"('(' @Number ')')?"`
	Into   []string `parser:"('INTO' @Ident+)?"`
}
