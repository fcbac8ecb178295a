// Package emit renders a scanner for a compiled specification.
//
// Go writes a self-contained Go source file: the user code, the start
// state constants, the compressed transition tables and a scanning method
// whose switch runs the rule actions. Dump writes a human-readable listing
// of the DFA for debugging specifications.
package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/internal/log"
	"github.com/coregx/lexgen/spec"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

//go:embed skeleton.go.tmpl
var skeleton string

// Options configures the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	//
	// Default: "main"
	Package string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{Package: "main"}
}

// Go writes a Go scanner for s driven by t.
func Go(w io.Writer, s *spec.Spec, t *dfa.Table, opts Options) error {
	if opts.Package == "" {
		opts.Package = DefaultOptions().Package
	}
	warnUnsupported(s.Options)

	vars := placeholders(s, t, dfa.Reduce(t), opts)
	src, err := expand(skeleton, vars)
	if err != nil {
		return err
	}
	out, err := format.Source(src)
	if err != nil {
		return errors.Annotate(err, "format generated scanner")
	}
	_, err = w.Write(out)
	return errors.Trace(err)
}

// warnUnsupported logs directives that have no meaning for a Go scanner.
func warnUnsupported(o *spec.Options) {
	ignored := []struct {
		set  bool
		name string
	}{
		{o.Implements != "" && !o.Cup, "%implements"},
		{o.Cup, "%cup"},
		{o.InitThrowCode != "", "%initthrow"},
		{o.LexThrowCode != "", "%yylexthrow"},
		{o.EOFThrowCode != "", "%eofthrow"},
		{o.IntWrap, "%intwrap"},
		{!o.Unix, "%notunix"},
	}
	for _, d := range ignored {
		if d.set {
			log.Warn("directive has no effect on Go scanners", zap.String("directive", d.name))
		}
	}
}

// typeName returns the result type of the scanning method.
func typeName(o *spec.Options) string {
	if o.IntegerType || o.IntWrap {
		return "int"
	}
	return o.TypeName
}

func constructor(o *spec.Options) string {
	name := o.ClassName
	if o.Public {
		return "New" + name
	}
	return "new" + upperFirst(name)
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

func placeholders(s *spec.Spec, t *dfa.Table, c *dfa.Compressed, opts Options) map[string]string {
	o := s.Options
	alphabet := t.Classes.Symbols() - 2

	var states strings.Builder
	for i, name := range s.States.Names() {
		fmt.Fprintf(&states, "\t%s = %d\n", name, i)
	}

	yyeof := ""
	eofValue := o.EOFValueCode
	if o.YYEOF || o.IntegerType {
		yyeof = "\n// YYEOF is returned at the end of input.\nconst YYEOF = -1\n"
	}
	if o.IntegerType {
		eofValue += "\nreturn YYEOF, yyio.EOF"
	} else {
		eofValue += "\nvar zero " + typeName(o) + "\nreturn zero, yyio.EOF"
	}

	cmap := make([]int, t.Classes.Symbols())
	for sym := range cmap {
		cmap[sym] = c.ColMap[t.Classes.Of(sym)]
	}

	rules := make([]int, t.Len())
	anchors := make([]int, t.Len())
	for i := range t.Rows {
		r := &t.Rows[i]
		switch {
		case r.Accept == nil:
			rules[i] = -1
		case r.Accept.IsPseudo():
			rules[i] = -2
		default:
			rules[i] = r.Accept.Rule
		}
		anchors[i] = int(r.Anchor)
	}

	var next strings.Builder
	for _, row := range c.Rows {
		next.WriteString("\t{")
		for i, v := range row {
			if i > 0 {
				next.WriteString(", ")
			}
			next.WriteString(strconv.Itoa(int(v)))
		}
		next.WriteString("},\n")
	}

	return map[string]string{
		"@@PACKAGE@@":     opts.Package,
		"@@USERCODE@@":    s.UserCode,
		"@@STATES@@":      states.String(),
		"@@YYEOF@@":       yyeof,
		"@@CLASS@@":       o.ClassName,
		"@@CONSTRUCTOR@@": constructor(o),
		"@@FUNCTION@@":    upperFirst(o.FunctionName),
		"@@TYPE@@":        typeName(o),
		"@@CLASSCODE@@":   o.ClassCode,
		"@@INITCODE@@":    o.InitCode,
		"@@EOFCODE@@":     o.EOFCode,
		"@@EOFVALUE@@":    eofValue,
		"@@BOL@@":         strconv.Itoa(alphabet),
		"@@EOF@@":         strconv.Itoa(alphabet + 1),
		"@@COLUMNS@@":     strconv.Itoa(len(c.Rows[0])),
		"@@CMAP@@":        intList(cmap),
		"@@RMAP@@":        intList(c.RowMap),
		"@@NEXT@@":        next.String(),
		"@@RULES@@":       intList(rules),
		"@@ANCHORS@@":     intList(anchors),
		"@@STARTS@@":      intList(t.Starts),
		"@@ACTIONS@@":     actions(s),
	}
}

// intList formats values as the body of a composite literal, 16 per line.
func intList(values []int) string {
	var sb strings.Builder
	for i, v := range values {
		if i%16 == 0 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(',')
	}
	return sb.String()
}

func actions(s *spec.Spec) string {
	var sb strings.Builder
	for _, r := range s.Rules {
		fmt.Fprintf(&sb, "\t\tcase %d: // line %d: %s\n\t\t\t%s\n", r.Index, r.Line, r.Pattern, r.Accept.Action)
	}
	sb.WriteString("\t\tcase -2:\n\t\t\t// line start or end of input\n")
	return sb.String()
}

// expand replaces every placeholder of vars in text in a single pass.
func expand(text string, vars map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	builder := ahocorasick.NewBuilder()
	for _, k := range keys {
		builder.AddPattern([]byte(k))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, errors.Annotate(err, "build placeholder automaton")
	}

	haystack := []byte(text)
	var out bytes.Buffer
	out.Grow(len(haystack))
	at := 0
	for at < len(haystack) {
		m := auto.Find(haystack, at)
		if m == nil {
			break
		}
		out.Write(haystack[at:m.Start])
		out.WriteString(vars[string(haystack[m.Start:m.End])])
		at = m.End
	}
	out.Write(haystack[at:])
	return out.Bytes(), nil
}
