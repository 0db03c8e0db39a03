// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/engine"
	"taco/internal/errors"
	"taco/internal/parser"
	"taco/internal/pipeline"
)

// errReported is returned once the failure has already been printed.
var errReported = stderrors.New("reported")

type checkOptions struct {
	configPath        string
	class             string
	method            string
	relevant          []string
	width             int
	bound             int
	typeScopes        string
	unroll            int
	removeQuantifiers bool
	javaArithmetic    bool
	keepIntermediate  bool
	output            string
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <source files...>",
		Short: "Translate the sources and check one method",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVarP(&opts.class, "class", "c", "", "class to check")
	flags.StringVarP(&opts.method, "method", "m", "", "method to check")
	flags.StringSliceVar(&opts.relevant, "relevant", nil, "relevant classes (default all)")
	flags.IntVarP(&opts.width, "width", "w", 0, "integer bit width")
	flags.IntVarP(&opts.bound, "bound", "b", 0, "atoms per class")
	flags.StringVar(&opts.typeScopes, "type-scopes", "", "per type bounds, e.g. \"List:1,Node:5\"")
	flags.IntVarP(&opts.unroll, "unroll", "u", 0, "loop unrolling")
	flags.BoolVar(&opts.removeQuantifiers, "remove-quantifiers", false, "skolemize top-level quantifiers of contracts")
	flags.BoolVar(&opts.javaArithmetic, "java-arithmetic", false, "use host-native arithmetic predicates")
	flags.BoolVar(&opts.keepIntermediate, "keep-intermediate", false, "write the intermediate modules")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory")
	return cmd
}

// load reads the configuration file, if any, and applies the flags that were
// set on the command line.
func (o *checkOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.ReadFromFile(o.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("class") {
		cfg.ClassToCheck = o.class
	}
	if changed("method") {
		cfg.MethodToCheck = o.method
	}
	if changed("relevant") {
		cfg.RelevantClasses = o.relevant
	}
	if changed("width") {
		cfg.BitWidth = o.width
	}
	if changed("bound") {
		cfg.ObjectScope = o.bound
	}
	if changed("type-scopes") {
		cfg.TypeScopes = o.typeScopes
	}
	if changed("unroll") {
		cfg.LoopUnroll = o.unroll
	}
	if changed("remove-quantifiers") {
		cfg.RemoveQuantifiers = o.removeQuantifiers
	}
	if changed("java-arithmetic") {
		cfg.UseJavaArithmetic = o.javaArithmetic
	}
	if changed("keep-intermediate") {
		cfg.KeepIntermediate = o.keepIntermediate
	}
	if changed("output") {
		cfg.OutputDir = o.output
	}
	return cfg, nil
}

func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, paths []string) error {
	startTime := time.Now()

	reporters := map[string]*errors.ErrorReporter{}
	var units []*ast.Class
	hasErrors := false
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			return errors.NewIOError("read", path, err)
		}
		reporter := errors.NewErrorReporter(path, string(source))
		reporters[path] = reporter

		classes, parseErrors, scanErrors := parser.ParseSource(path, string(source))
		for _, d := range parser.Diagnostics(path, parseErrors, scanErrors) {
			fmt.Fprint(out, reporter.FormatError(d))
			hasErrors = true
		}
		units = append(units, classes...)
	}
	if hasErrors {
		color.New(color.FgRed).Fprintf(out, "Parsing failed after %s\n", formatDuration(time.Since(startTime)))
		return errReported
	}

	result, err := pipeline.New(engine.Noop{}).Run(ctx, cfg, units)
	if result.Check != nil {
		for _, d := range result.Check.Diagnostics {
			fmt.Fprint(out, reporterAt(reporters, d.Position).FormatError(d))
		}
	}

	duration := formatDuration(time.Since(startTime))
	if err != nil {
		fmt.Fprint(out, reporterFor(reporters, err).Describe(err))
		if result.Check != nil && result.Check.State == pipeline.CheckComplete {
			color.New(color.FgYellow).Fprintf(out, "Kept %s\n", result.Check.Specification.Path)
		}
		color.New(color.FgRed).Fprintf(out, "Translation failed after %s\n", duration)
		return errReported
	}

	color.New(color.FgGreen).Fprintf(out, "Wrote %s and %s in %s\n",
		result.Check.Specification.Path, result.InvariantPath, duration)
	return nil
}

func reporterAt(reporters map[string]*errors.ErrorReporter, pos ast.Position) *errors.ErrorReporter {
	if r, ok := reporters[pos.Filename]; ok {
		return r
	}
	return errors.NewErrorReporter(pos.Filename, "")
}

// reporterFor picks the reporter of the file an error points into.
func reporterFor(reporters map[string]*errors.ErrorReporter, err error) *errors.ErrorReporter {
	var te *errors.TranslationError
	if errors.As(err, &te) {
		return reporterAt(reporters, te.Position)
	}
	var ae *errors.AnnotationError
	if errors.As(err, &ae) {
		return reporterAt(reporters, ae.Position)
	}
	return errors.NewErrorReporter("", "")
}
