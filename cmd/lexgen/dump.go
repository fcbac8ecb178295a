package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump SPEC...",
		Short: "Print the start states and transitions of each specification's DFA",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDump,
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var errs error
	for i, path := range args {
		lx, err := g.CompileFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(args) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# %s\n", path)
		}
		errs = multierr.Append(errs, lx.Dump(out))
	}
	return errs
}
