/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lemenkov/pspp-sub003/pkg/covariance"
	"github.com/lemenkov/pspp-sub003/pkg/procedures"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

func newCorrelationsCmd(params *pipeParams) *cobra.Command {
	var (
		vars     []string
		with     []string
		listwise bool
		oneTail  bool
	)
	cmd := &cobra.Command{
		Use:   "correlations [file.csv]",
		Short: "print Pearson correlations between variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				opts := procedures.CorrelationsOptions{Vars: vars, With: with, Tails: tailsTwo}
				if listwise {
					opts.Missing = covariance.Listwise
				}
				if oneTail {
					opts.Tails = tailsOne
				}
				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				results, err := procedures.Correlations(ds, opts)
				if err != nil {
					return err
				}
				return params.table(cmd, func(tw io.Writer) {
					for _, res := range results {
						printSplit(tw, res.Split)
						fmt.Fprintln(tw, "\t\tPearson\tSig.\tN\tCovariance\tCross products")
						for i, row := range res.Rows {
							for j, col := range res.Cols {
								c := res.Cells[i][j]
								fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", row.Name(), col.Name(),
									num(c.Pearson), num(c.Sig), num(c.N), num(c.Covariance), num(c.CrossProduct))
							}
						}
					}
				})
			})
		},
	}
	cmd.Flags().StringSliceVar(&vars, "vars", nil, "Variables to correlate")
	cmd.Flags().StringSliceVar(&with, "with", nil, "Correlate --vars with these variables only")
	cmd.Flags().BoolVar(&listwise, "listwise", false, "Drop cases missing any of the variables instead of excluding them pair by pair")
	cmd.Flags().BoolVar(&oneTail, "one-tailed", false, "Print one-tailed significance")
	return cmd
}

func newDescriptivesCmd(params *pipeParams) *cobra.Command {
	var (
		vars     []string
		listwise bool
	)
	cmd := &cobra.Command{
		Use:   "descriptives [file.csv]",
		Short: "print summary statistics of variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				results, err := procedures.Descriptives(ds, procedures.DescriptivesOptions{Vars: vars, Listwise: listwise})
				if err != nil {
					return err
				}
				return params.table(cmd, func(tw io.Writer) {
					for _, res := range results {
						printSplit(tw, res.Split)
						fmt.Fprintln(tw, "\tN\tMinimum\tMaximum\tSum\tMean\tStd. Deviation\tSkewness\tKurtosis")
						for _, d := range res.Vars {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.Var.Name(), num(d.Stats.W),
								num(d.Min), num(d.Max), num(d.Sum), num(d.Stats.Mean), num(stdDev(d.Stats.Variance)),
								num(d.Stats.Skewness), num(d.Stats.Kurtosis))
						}
						fmt.Fprintf(tw, "Valid N (listwise)\t%s\n", num(res.ValidN))
					}
				})
			})
		},
	}
	cmd.Flags().StringSliceVar(&vars, "vars", nil, "Variables to describe")
	cmd.Flags().BoolVar(&listwise, "listwise", false, "Drop cases missing any of the variables")
	return cmd
}

func newWilcoxonCmd(params *pipeParams) *cobra.Command {
	var (
		pairs []string
		exact bool
	)
	cmd := &cobra.Command{
		Use:   "wilcoxon [file.csv]",
		Short: "print the Wilcoxon signed-ranks test of paired variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, func(cfg *settings.Settings) error {
				opts := procedures.WilcoxonOptions{Exact: exact}
				for _, s := range pairs {
					x, y, ok := strings.Cut(s, pairSeparator)
					if !ok || x == "" || y == "" {
						return errBadArgs("pair «%s» must look like X%sY", s, pairSeparator)
					}
					opts.Pairs = append(opts.Pairs, [2]string{x, y})
				}
				ds, err := params.openDataset(inputArg(args), cfg)
				if err != nil {
					return err
				}
				results, err := procedures.Wilcoxon(ds, opts)
				if err != nil {
					return err
				}
				return params.table(cmd, func(tw io.Writer) {
					header := "\tN-\tSum-\tN+\tSum+\tTies\tTotal\tZ\tAsymp. Sig."
					if exact {
						header += "\tExact Sig. (2-tailed)\tExact Sig. (1-tailed)"
					}
					fmt.Fprintln(tw, header)
					for _, res := range results {
						fmt.Fprintf(tw, "%s - %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s", res.X.Name(), res.Y.Name(),
							num(res.Negative.N), num(res.Negative.Sum), num(res.Positive.N), num(res.Positive.Sum),
							num(res.Ties), num(res.Total), num(res.Z), num(res.P))
						if exact {
							fmt.Fprintf(tw, "\t%s\t%s", num(res.ExactP), num(res.ExactP1))
						}
						fmt.Fprintln(tw)
					}
				})
			})
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "pair", nil, "Pair of variables, as in \"BEFORE:AFTER\"")
	cmd.Flags().BoolVar(&exact, "exact", false, "Also compute exact significance for small samples")
	return cmd
}

// table prints tab-separated rows aligned into columns
func (p *pipeParams) table(cmd *cobra.Command, rows func(tw io.Writer)) error {
	out, err := p.output(cmd)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows(tw)
	if err := tw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func printSplit(w io.Writer, split procedures.SplitGroup) {
	if len(split.Vars) > 0 {
		fmt.Fprintln(w, split.Label())
	}
}

func num(f float64) string {
	if f == value.SYSMIS || math.IsNaN(f) {
		return "."
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func stdDev(variance float64) float64 {
	if variance == value.SYSMIS || variance < 0 {
		return value.SYSMIS
	}
	return math.Sqrt(variance)
}
