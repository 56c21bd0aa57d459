/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/procedures"
	"github.com/lemenkov/pspp-sub003/pkg/rank"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

func newAggregateCmd(params *pipeParams) *cobra.Command {
	var (
		breaks     []string
		vars       []string
		presorted  bool
		addVars    bool
		columnwise bool
	)
	cmd := &cobra.Command{
		Use:   "aggregate [file.csv]",
		Short: "summarize groups of cases into aggregate variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				opts := procedures.AggregateOptions{Presorted: presorted}
				var err error
				if opts.Break, err = parseSortKeys(breaks); err != nil {
					return err
				}
				for _, s := range vars {
					av, err := parseAggregateVar(s)
					if err != nil {
						return err
					}
					opts.Vars = append(opts.Vars, av)
				}
				if addVars {
					opts.Mode = procedures.AggregateAddVariables
				}
				if columnwise {
					opts.Missing = procedures.Columnwise
				}

				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				opts.Pool = params.pool
				res, err := procedures.Aggregate(ds, opts)
				if err != nil {
					return err
				}
				return params.write(cmd, res)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&breaks, "break", "b", nil, "Break variable, as in \"G\" or \"G(D)\"")
	cmd.Flags().StringArrayVarP(&vars, "var", "a", nil, "Aggregate variable, as in \"TOTAL 'sum of x' = SUM(X)\"")
	cmd.Flags().BoolVar(&presorted, "presorted", false, "Input is already sorted on the break variables")
	cmd.Flags().BoolVar(&addVars, "add-variables", false, "Append aggregates to every input case")
	cmd.Flags().BoolVar(&columnwise, "columnwise", false, "Make an aggregate missing if any of its values is missing")
	return cmd
}

func newMatchCmd(params *pipeParams) *cobra.Command {
	var (
		tables []string
		by     []string
		inVars []string
		first  string
		last   string
		sorted bool
	)
	cmd := &cobra.Command{
		Use:   "match file.csv... [--table lookup.csv]...",
		Short: "combine files side by side, matching cases on key variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				paths := append(append([]string(nil), args...), tables...)
				if len(inVars) > len(paths) {
					return errBadArgs("%d IN variables for %d files", len(inVars), len(paths))
				}
				opts := procedures.MatchOptions{By: by, First: first, Last: last}
				defer func() {
					for _, f := range opts.Files {
						if f.Reader != nil {
							f.Reader.Destroy()
						}
					}
				}()
				for i, path := range paths {
					ds, err := params.open(path, cfg)
					if err != nil {
						return err
					}
					if sorted && len(by) > 0 {
						if ds, err = sortOn(ds, by); err != nil {
							return err
						}
					}
					file := procedures.MatchFile{
						Dataset: ds,
						Name:    filepath.Base(path),
						Table:   i >= len(args),
					}
					if i < len(inVars) {
						file.In = inVars[i]
					}
					opts.Files = append(opts.Files, file)
				}
				res, err := procedures.MatchFiles(opts)
				opts.Files = nil
				if err != nil {
					return err
				}
				if err := params.prepare(res.Dict); err != nil {
					res.Reader.Destroy()
					return err
				}
				return params.write(cmd, res)
			})
		},
	}
	cmd.Flags().StringArrayVar(&tables, "table", nil, "Lookup table file")
	cmd.Flags().StringSliceVar(&by, "by", nil, "Key variables")
	cmd.Flags().StringSliceVar(&inVars, "in", nil, "IN flag variables, one per file in order, empty to skip a file")
	cmd.Flags().StringVar(&first, "first", "", "Flag variable marking the first case of each key")
	cmd.Flags().StringVar(&last, "last", "", "Flag variable marking the last case of each key")
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort the files on the key variables first")
	return cmd
}

func sortOn(ds procedures.Dataset, names []string) (procedures.Dataset, error) {
	keys := make([]procedures.SortKey, len(names))
	for i, name := range names {
		keys[i] = procedures.SortKey{Name: name}
	}
	return procedures.SortCases(ds, keys)
}

func newRankCmd(params *pipeParams) *cobra.Command {
	var (
		vars     []string
		by       []string
		funcs    []string
		ties     string
		fraction string
	)
	cmd := &cobra.Command{
		Use:   "rank [file.csv]",
		Short: "add rank scores of variables to every case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				opts := procedures.RankOptions{By: by}
				var err error
				if opts.Vars, err = parseSortKeys(vars); err != nil {
					return err
				}
				for _, s := range funcs {
					spec, err := parseRankSpec(s)
					if err != nil {
						return err
					}
					opts.Specs = append(opts.Specs, spec)
				}
				if opts.Ties, err = rank.ParseTies(ties); err != nil {
					return errBadArgs("%v", err)
				}
				if opts.Fraction, err = rank.ParseFraction(fraction); err != nil {
					return errBadArgs("%v", err)
				}

				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				res, ranked, err := procedures.Rank(ds, opts)
				if err != nil {
					return err
				}
				for _, rv := range ranked {
					logger.Verbose(fmt.Sprintf("%s into %s: %s", rv.Src, rv.Dest, rv.Label))
				}
				return params.write(cmd, res)
			})
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable to rank, as in \"X\" or \"X(D)\" for descending ranks")
	cmd.Flags().StringSliceVar(&by, "by", nil, "Variables whose groups are ranked independently")
	cmd.Flags().StringArrayVarP(&funcs, "func", "f", nil, "Rank function, as in \"RANK\" or \"NTILES(4) INTO Q\"")
	cmd.Flags().StringVar(&ties, "ties", rank.TiesMean.String(), "Rank of tied values: MEAN, LOW, HIGH or CONDENSE")
	cmd.Flags().StringVar(&fraction, "fraction", rank.FracBlom.String(), "Proportion estimate: BLOM, RANKIT, TUKEY or VW")
	return cmd
}

func newSortCmd(params *pipeParams) *cobra.Command {
	var keys []string
	cmd := &cobra.Command{
		Use:   "sort [file.csv]",
		Short: "sort cases on key variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				sortKeys, err := parseSortKeys(keys)
				if err != nil {
					return err
				}
				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				res, err := procedures.SortCases(ds, sortKeys)
				if err != nil {
					return err
				}
				return params.write(cmd, res)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&keys, "by", "b", nil, "Sort key, as in \"X\" or \"X(D)\"")
	return cmd
}
