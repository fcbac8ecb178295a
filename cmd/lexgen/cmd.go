package main

import (
	"github.com/coregx/lexgen"
	"github.com/coregx/lexgen/config"
	"github.com/coregx/lexgen/internal/log"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

const (
	// FlagConfig is the name of config flag.
	FlagConfig = "config"
	// FlagLogLevel is the name of log-level flag.
	FlagLogLevel = "log-level"
	// FlagLogFile is the name of log-file flag.
	FlagLogFile = "log-file"
	// FlagPackage is the name of package flag.
	FlagPackage = "package"
	// FlagNoMinimize is the name of no-minimize flag.
	FlagNoMinimize = "no-minimize"
	// FlagMaxStates is the name of max-states flag.
	FlagMaxStates = "max-states"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lexgen",
		Short:         "lexgen compiles JLex-style lexical specifications into Go scanners.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defineCommonFlags(rootCmd)
	rootCmd.AddCommand(
		newGenerateCommand(),
		newDumpCommand(),
		newScanCommand(),
	)
	return rootCmd
}

func defineCommonFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(FlagConfig, "C", "",
		"Path of a TOML config file")
	cmd.PersistentFlags().StringP(FlagLogLevel, "L", "",
		"Set the log level, overrides the config file")
	cmd.PersistentFlags().String(FlagLogFile, "",
		"Set the log file path, overrides the config file")
	cmd.PersistentFlags().Bool(FlagNoMinimize, false,
		"Skip DFA minimization")
	cmd.PersistentFlags().Int(FlagMaxStates, 0,
		"Bound the number of DFA states, overrides the config file")
}

// loadConfig merges defaults, the config file and the command line flags,
// then sets up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	path, err := flags.GetString(FlagConfig)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return nil, err
		}
	}

	if flags.Changed(FlagLogLevel) {
		if cfg.Log.Level, err = flags.GetString(FlagLogLevel); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if flags.Changed(FlagLogFile) {
		if cfg.Log.File, err = flags.GetString(FlagLogFile); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if flags.Changed(FlagNoMinimize) {
		noMinimize, err := flags.GetBool(FlagNoMinimize)
		if err != nil {
			return nil, errors.Trace(err)
		}
		cfg.Generator.Minimize = !noMinimize
	}
	if flags.Changed(FlagMaxStates) {
		if cfg.Generator.MaxDFAStates, err = flags.GetInt(FlagMaxStates); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if flags.Lookup(FlagPackage) != nil && flags.Changed(FlagPackage) {
		if cfg.Generator.Package, err = flags.GetString(FlagPackage); err != nil {
			return nil, errors.Trace(err)
		}
	}

	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	if err := log.InitAppLogger(&cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newGenerator(cfg *config.Config) (*lexgen.Generator, error) {
	return lexgen.NewGenerator(cfg.ToGeneratorConfig().WithLogger(log.Zap().Logger))
}
