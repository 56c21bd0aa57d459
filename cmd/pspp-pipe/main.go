/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	params := &pipeParams{}
	rootCmd := cobrau.PrepareRootCmd(
		"pspp-pipe",
		"runs case procedures over CSV files",
		args,
		ver,
		newAggregateCmd(params),
		newMatchCmd(params),
		newRankCmd(params),
		newSortCmd(params),
		newCorrelationsCmd(params),
		newDescriptivesCmd(params),
		newWilcoxonCmd(params),
	)
	initGlobalFlags(rootCmd, params)

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
