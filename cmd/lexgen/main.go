// Command lexgen compiles lexical specifications into Go scanners.
package main

import (
	"os"

	"github.com/coregx/lexgen/internal/log"
	"go.uber.org/zap"
)

func main() {
	rootCmd := newRootCommand()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		log.Error("lexgen failed", zap.Error(err))
		os.Exit(1)
	}
}
