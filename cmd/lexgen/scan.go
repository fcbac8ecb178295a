package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coregx/lexgen/internal/log"
	"github.com/coregx/lexgen/scan"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const flagState = "state"

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan SPEC [INPUT]",
		Short: "Tokenize INPUT, or standard input, with the tables of SPEC",
		Long: "Tokenize INPUT, or standard input, with the tables of SPEC. Actions are\n" +
			"not run: every match is printed as line:column, rule index and text.\n" +
			"Characters no rule matches are reported and skipped.",
		Args: cobra.RangeArgs(1, 2),
		RunE: runScan,
	}
	cmd.Flags().StringP(flagState, "s", "YYINITIAL", "Start state to scan in")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	lx, err := g.CompileFile(args[0])
	if err != nil {
		return err
	}

	var src []byte
	if len(args) == 2 {
		src, err = os.ReadFile(args[1])
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return errors.Annotate(err, "read input")
	}

	state, err := cmd.Flags().GetString(flagState)
	if err != nil {
		return errors.Trace(err)
	}
	idx, ok := lx.StateIndex(state)
	if !ok {
		return errors.Errorf("undeclared start state %s", state)
	}

	sc := lx.Scanner(string(src))
	sc.Begin(idx)
	out := cmd.OutOrStdout()
	unmatched := 0
	for {
		tok, err := sc.Next()
		if err == io.EOF {
			break
		}
		if matchErr, ok := err.(*scan.MatchError); ok {
			unmatched++
			log.Warn("unmatched input",
				zap.Int("line", matchErr.Line),
				zap.Int("column", matchErr.Col),
				zap.String("char", string(matchErr.Char)))
			continue
		}
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Fprintf(out, "%d:%d\t%d\t%q\n", tok.Line, tok.Col, tok.Rule, tok.Text)
	}
	if unmatched > 0 {
		return errors.Errorf("%d characters matched no rule", unmatched)
	}
	return nil
}
