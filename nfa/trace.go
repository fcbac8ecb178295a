package nfa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lexgen.nfa'
func tracer() tracing.Trace {
	return tracing.Select("lexgen.nfa")
}
