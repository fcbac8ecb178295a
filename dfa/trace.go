package dfa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lexgen.dfa'
func tracer() tracing.Trace {
	return tracing.Select("lexgen.dfa")
}
