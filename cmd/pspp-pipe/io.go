/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/lemenkov/pspp-sub003/pkg/csvio"
	"github.com/lemenkov/pspp-sub003/pkg/dict"
	"github.com/lemenkov/pspp-sub003/pkg/imetrics"
	"github.com/lemenkov/pspp-sub003/pkg/pool"
	"github.com/lemenkov/pspp-sub003/pkg/procedures"
	"github.com/lemenkov/pspp-sub003/pkg/settings"
)

func initGlobalFlags(cmd *cobra.Command, params *pipeParams) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&params.Metrics, "metrics", false, "Print pipeline metrics to stderr when done")

	flags.StringVar(&params.TmpDir, "tmpdir", "", "Directory of spill files, $TMPDIR if empty")
	flags.IntVar(&params.MinBuffers, "min-buffers", settings.DefaultMinBuffers, "Minimum number of cases a sort keeps in memory")
	flags.IntVar(&params.MaxBuffers, "max-buffers", 0, "Maximum number of cases a sort keeps in memory, 0 for no limit")
	flags.IntVar(&params.Workspace, "workspace", settings.DefaultWorkspace, "Memory budget of a sort in bytes")
	flags.IntVar(&params.PageSize, "page-size", settings.DefaultPageSize, "Page size of spill files in bytes")

	flags.StringVar(&params.Encoding, "encoding", dict.DefaultEncoding, "Encoding of input files")
	flags.StringVar(&params.OutEncoding, "out-encoding", "", "Encoding of the output file, same as --encoding if empty")
	flags.StringVar(&params.Comma, "comma", ",", "Field delimiter")
	flags.IntVar(&params.SniffRows, "sniff-rows", csvio.DefaultSniffRows, "Rows used to infer the types of columns")
	flags.BoolVar(&params.TypedHeader, "typed-header", false, "Annotate every output column with its format")
	flags.BoolVar(&params.Labels, "labels", false, "Output value labels instead of values")
	flags.BoolVar(&params.Formatted, "formatted", false, "Round output numbers to their print format")

	flags.StringVarP(&params.Out, "out", "o", stdio, "Output file")
	flags.StringSliceVar(&params.Split, "split", nil, "Split file variables")
	flags.StringVar(&params.SplitType, "split-type", splitLayered, "Split file output: layered or separate")
	flags.StringVarP(&params.Weight, "weight", "w", "", "Weight variable")
}

// run executes f with process-wide settings made from the flags
func (p *pipeParams) run(cmd *cobra.Command, f func(cfg *settings.Settings) error) (err error) {
	cfg, err := settings.Init(p.settingsOptions()...)
	if err != nil {
		return err
	}
	defer settings.Teardown()
	p.pool = pool.New()
	defer p.pool.Destroy()
	if p.Metrics {
		defer func() {
			if mErr := printMetrics(cmd.ErrOrStderr()); err == nil {
				err = mErr
			}
		}()
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("%s: tmpdir %s, buffers %d..%d, workspace %d, page size %d",
			cmd.Name(), cfg.TmpDir, cfg.MinBuffers, cfg.MaxBuffers, cfg.Workspace, cfg.PageSize))
	}
	return f(cfg)
}

func (p *pipeParams) settingsOptions() []settings.Option {
	opts := []settings.Option{
		settings.WithWorkspace(p.Workspace),
		settings.WithPageSize(p.PageSize),
	}
	if p.TmpDir != "" {
		opts = append(opts, settings.WithTmpDir(p.TmpDir))
	}
	hi := p.MaxBuffers
	if hi == 0 {
		hi = settings.DefaultMaxBuffers
	}
	return append(opts, settings.WithBuffers(p.MinBuffers, hi))
}

func (p *pipeParams) comma() (rune, error) {
	r, size := utf8.DecodeRuneInString(p.Comma)
	if size == 0 || size != len(p.Comma) {
		return 0, errBadArgs("delimiter must be a single character, got «%s»", p.Comma)
	}
	return r, nil
}

func (p *pipeParams) readOptions() (csvio.Options, error) {
	comma, err := p.comma()
	if err != nil {
		return csvio.Options{}, err
	}
	return csvio.Options{Encoding: p.Encoding, Comma: comma, SniffRows: p.SniffRows}, nil
}

func (p *pipeParams) writeOptions() (csvio.Options, error) {
	opts, err := p.readOptions()
	if err != nil {
		return opts, err
	}
	if p.OutEncoding != "" {
		opts.Encoding = p.OutEncoding
	}
	opts.TypedHeader = p.TypedHeader
	opts.Labels = p.Labels
	opts.Formatted = p.Formatted
	return opts, nil
}

// open reads the dictionary of a CSV file and returns its cases. The file stays open until the command ends
func (p *pipeParams) open(path string, cfg *settings.Settings) (procedures.Dataset, error) {
	opts, err := p.readOptions()
	if err != nil {
		return procedures.Dataset{}, err
	}
	in, err := openInput(path)
	if err != nil {
		return procedures.Dataset{}, err
	}
	p.pool.RegisterCleanup(func() { in.Close() })
	d, r, err := csvio.Open(in, opts, cfg)
	if err != nil {
		return procedures.Dataset{}, errors.Wrapf(err, "open %s", path)
	}
	logger.Verbose(fmt.Sprintf("%s: %d variables, encoding %s", path, d.NVars(), d.Encoding()))
	return procedures.Dataset{Dict: d, Reader: r}, nil
}

// openDataset opens path and applies the split and weight flags to its dictionary
func (p *pipeParams) openDataset(path string, cfg *settings.Settings) (procedures.Dataset, error) {
	ds, err := p.open(path, cfg)
	if err != nil {
		return ds, err
	}
	if err := p.prepare(ds.Dict); err != nil {
		ds.Reader.Destroy()
		return procedures.Dataset{}, err
	}
	return ds, nil
}

func (p *pipeParams) prepare(d *dict.Dictionary) error {
	if len(p.Split) > 0 {
		vars, err := d.LookupVars(p.Split...)
		if err != nil {
			return err
		}
		splitType := dict.SplitLayered
		switch p.SplitType {
		case splitLayered:
		case splitSeparate:
			splitType = dict.SplitSeparate
		default:
			return errBadArgs("unknown split type «%s»", p.SplitType)
		}
		if err := d.SetSplitVars(vars, splitType); err != nil {
			return err
		}
	}
	if p.Weight != "" {
		v := d.LookupVar(p.Weight)
		if v == nil {
			return dict.ErrNotFound("weight variable «%s»", p.Weight)
		}
		if !v.IsNumeric() {
			return errBadArgs("weight variable «%s» must be numeric", p.Weight)
		}
		d.SetWeight(v)
	}
	return nil
}

// write outputs all cases of ds as CSV and destroys its reader
func (p *pipeParams) write(cmd *cobra.Command, ds procedures.Dataset) error {
	opts, err := p.writeOptions()
	if err != nil {
		ds.Reader.Destroy()
		return err
	}
	out, err := p.output(cmd)
	if err != nil {
		ds.Reader.Destroy()
		return err
	}
	w, err := csvio.NewWriter(out, ds.Dict, opts, ds.Reader.Settings())
	if err != nil {
		ds.Reader.Destroy()
		out.Close()
		return err
	}
	r := ds.Reader
	r.Transfer(w)
	n := w.NCases()
	ok := w.Destroy()
	closeErr := out.Close()
	if !ok {
		return streamErr(r.Err(), w.Err())
	}
	logger.Verbose(fmt.Sprintf("%s: %d cases written", cmd.Name(), n))
	return closeErr
}

func (p *pipeParams) output(cmd *cobra.Command) (io.WriteCloser, error) {
	if p.Out == stdio {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(p.Out)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == stdio {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return stdio
	}
	return args[0]
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func printMetrics(out io.Writer) error {
	return imetrics.Global().List(func(metric imetrics.IMetric, metricValue float64) error {
		_, err := out.Write(imetrics.ToPrometheus(metric, metricValue))
		return err
	})
}
