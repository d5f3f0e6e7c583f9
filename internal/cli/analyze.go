package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pylon/pkg/config"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
	"github.com/matzehuels/pylon/pkg/report"
)

// Output formats of the analyze command.
const (
	formatJSON = "json" // full result
	formatXLSX = "xlsx" // workbook with mesh, assembly and margins
	formatPDF  = "pdf"  // summary report
	formatPNG  = "png"  // margin plot
	formatDOT  = "dot"  // structure graph of one load case
	formatSVG  = "svg"  // rendered structure graph
)

var validFormats = []string{formatJSON, formatXLSX, formatPDF, formatPNG, formatDOT, formatSVG}

const (
	chartWidth  = 60
	chartHeight = 12
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output     string   // base path for report files
	formats    []string // report formats
	caseIndex  int      // load case drawn by dot/svg
	noCache    bool     // bypass the solver cache
	refresh    bool     // recompute and overwrite cached solves
	sequential bool     // solve load cases one at a time
	chart      bool     // print the envelope margin chart
	envFiles   []string // .env files with service settings
	author     string   // PDF author
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var formatsStr string
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze [design.toml]",
		Short: "Run a design through the pipeline and write reports",
		Long: `Analyze reads a TOML design, adjusts the foundation, discretizes the tower,
assembles masses, supports and loads, solves every load case and prints the
governing margins. Reports are written next to the design unless --output is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDesign,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for reports (default: design path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", formatJSON, "comma-separated report formats: "+strings.Join(validFormats, ", "))
	cmd.Flags().IntVar(&opts.caseIndex, "case", 0, "load case index drawn by the dot and svg formats")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the solver cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached solves")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "solve load cases one at a time")
	cmd.Flags().BoolVar(&opts.chart, "chart", false, "print the governing margin along the tower")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "load service settings from .env files")
	cmd.Flags().StringVar(&opts.author, "author", "", "author printed on the PDF report")
	_ = cmd.RegisterFlagCompletionFunc("formats", completeFormats)

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, path string, opts analyzeOpts) error {
	for _, f := range opts.formats {
		if !slices.Contains(validFormats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (valid: %s)", f, strings.Join(validFormats, ", "))
		}
	}

	env, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return err
	}
	design, err := config.Load(path)
	if err != nil {
		return err
	}
	po := design.Options()
	po.Refresh = opts.refresh
	if opts.sequential {
		po.Parallel = false
	}

	runner, err := c.newRunner(ctx, cacheOpts{noCache: opts.noCache, redisURL: env.RedisURL, dir: env.CacheDir})
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	logger.Debug("loaded design", "path", path, "sections", po.Sections.Len(), "cases", len(po.LoadCases))

	res, runErr := runner.Execute(ctx, po)
	if res == nil {
		return runErr
	}

	printSummary(w, res)
	printStats(w, res.Stats, len(res.Cases))
	fmt.Fprintln(w, casesTable(res))
	if opts.chart {
		if chart := report.Chart(res, chartWidth, chartHeight); chart != "" {
			fmt.Fprintln(w, chart)
		}
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}
	prog := newProgress(logger)
	for _, f := range opts.formats {
		out, err := writeReport(ctx, res, base, f, opts)
		if err != nil {
			return fmt.Errorf("write %s report: %w", f, err)
		}
		printFile(w, out)
	}
	prog.done(fmt.Sprintf("Wrote %d reports", len(opts.formats)))

	if runErr != nil {
		printError(w, "%s", errors.UserMessage(runErr))
		return runErr
	}
	if res.Aggregate != nil && !res.Aggregate.Compliant() {
		printWarning(w, "design is not compliant: a margin reaches 1.0")
	} else {
		printSuccess(w, "design is compliant")
	}
	return nil
}

// writeReport writes one report format and returns its path.
func writeReport(ctx context.Context, res *pipeline.Result, base, format string, opts analyzeOpts) (string, error) {
	var buf bytes.Buffer
	path := base + "." + format

	switch format {
	case formatJSON:
		if err := report.WriteJSON(res, &buf); err != nil {
			return "", err
		}
	case formatXLSX:
		if err := report.WriteXLSX(res, &buf); err != nil {
			return "", err
		}
	case formatPDF:
		if err := report.WritePDF(res, &buf, report.PDFOptions{Project: res.Name, Author: opts.author}); err != nil {
			return "", err
		}
	case formatPNG:
		path = base + ".margins.png"
		if err := report.WritePlot(res, &buf, formatPNG); err != nil {
			return "", err
		}
	case formatDOT, formatSVG:
		path = base + ".structure." + format
		dot, err := report.StructureDOT(res, opts.caseIndex)
		if err != nil {
			return "", err
		}
		if format == formatDOT {
			buf.WriteString(dot)
			break
		}
		svg, err := report.RenderSVG(ctx, dot)
		if err != nil {
			return "", err
		}
		buf.Write(svg)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
