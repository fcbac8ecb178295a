package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/coregx/lexgen/emit"
	"github.com/coregx/lexgen/internal/log"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const flagOutput = "output"

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate SPEC...",
		Short: "Generate a Go scanner for each specification",
		Long: "Generate a Go scanner for each specification. The scanner for a.lex is\n" +
			"written to a.lex.go unless --output names a file, which requires a\n" +
			"single specification. A failing specification does not stop the others.",
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().StringP(flagOutput, "o", "", "Output file, - for standard output")
	cmd.Flags().StringP(FlagPackage, "p", "", "Package clause of the generated scanner")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString(flagOutput)
	if err != nil {
		return errors.Trace(err)
	}
	if output != "" && len(args) > 1 {
		return errors.New("--output requires a single specification")
	}
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	opts := emit.Options{Package: cfg.Generator.Package}
	var errs error
	for _, path := range args {
		lx, err := g.CompileFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		var buf bytes.Buffer
		if err := lx.Emit(&buf, opts); err != nil {
			errs = multierr.Append(errs, errors.Annotate(err, path))
			continue
		}

		target := output
		if target == "" {
			target = path + ".go"
		}
		if target == "-" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
		} else {
			err = os.WriteFile(target, buf.Bytes(), 0o644)
		}
		if err != nil {
			errs = multierr.Append(errs, errors.Annotatef(err, "write scanner for %s", path))
			continue
		}
		log.Info("generated scanner",
			zap.String("spec", path),
			zap.String("output", displayName(target)),
			zap.Int("bytes", buf.Len()))
	}
	return errs
}

func displayName(target string) string {
	if target == "-" {
		return "<stdout>"
	}
	return strings.TrimPrefix(filepath.Clean(target), "./")
}
