package emit

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/spec"
	"github.com/pingcap/errors"
)

// Dump writes a listing of t: the start row of each named state, then each
// row with its accepted rule and its transitions grouped by target.
func Dump(w io.Writer, s *spec.Spec, t *dfa.Table) error {
	var sb strings.Builder
	alphabet := t.Classes.Symbols() - 2

	fmt.Fprintf(&sb, "%d states, %d symbol classes\n\n", t.Len(), t.Columns())
	for i, name := range s.States.Names() {
		fmt.Fprintf(&sb, "start %s -> %d (rules %s)\n", name, t.Start(i), ruleList(s.RulesIn(i)))
	}
	sb.WriteByte('\n')

	for i := range t.Rows {
		r := &t.Rows[i]
		fmt.Fprintf(&sb, "state %d", i)
		switch {
		case r.Accept.IsPseudo():
			sb.WriteString(" accepts line start or end of input")
		case r.Accept != nil:
			fmt.Fprintf(&sb, " accepts rule %d (line %d", r.Accept.Rule, r.Accept.Line)
			if r.Anchor != spec.AnchorNone {
				fmt.Fprintf(&sb, ", anchor %s", r.Anchor)
			}
			sb.WriteByte(')')
			if r.Accept.Rule < len(s.Rules) {
				fmt.Fprintf(&sb, " %s", s.Rules[r.Accept.Rule].Pattern)
			}
		}
		sb.WriteByte('\n')

		byTarget := make(map[int32][]int)
		for class, next := range r.Next {
			if next != dfa.F {
				byTarget[next] = append(byTarget[next], t.Classes.Elements(class)...)
			}
		}
		targets := make([]int32, 0, len(byTarget))
		for next := range byTarget {
			targets = append(targets, next)
		}
		sort.Slice(targets, func(a, b int) bool { return targets[a] < targets[b] })
		for _, next := range targets {
			syms := byTarget[next]
			sort.Ints(syms)
			fmt.Fprintf(&sb, "  -> %d on %s\n", next, symbolRanges(syms, alphabet))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return errors.Trace(err)
}

// ruleList formats the declaration indices of rules.
func ruleList(rules []*spec.Rule) string {
	if len(rules) == 0 {
		return "none"
	}
	idx := make([]string, len(rules))
	for i, r := range rules {
		idx[i] = strconv.Itoa(r.Index)
	}
	return strings.Join(idx, ", ")
}

// symbolRanges formats sorted symbols as ranges, naming the BOL and EOF
// pseudo-symbols.
func symbolRanges(syms []int, alphabet int) string {
	var parts []string
	for i := 0; i < len(syms); {
		lo := syms[i]
		j := i
		for j+1 < len(syms) && syms[j+1] == syms[j]+1 && syms[j+1] < alphabet {
			j++
		}
		hi := syms[j]
		switch {
		case lo >= alphabet:
			parts = append(parts, symbolName(lo, alphabet))
		case lo == hi:
			parts = append(parts, symbolName(lo, alphabet))
		default:
			parts = append(parts, symbolName(lo, alphabet)+"-"+symbolName(hi, alphabet))
		}
		i = j + 1
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func symbolName(sym, alphabet int) string {
	switch {
	case sym == alphabet:
		return "BOL"
	case sym == alphabet+1:
		return "EOF"
	case sym < 0x80 && unicode.IsPrint(rune(sym)) && sym != ' ' && sym != '-':
		return string(rune(sym))
	default:
		return fmt.Sprintf("\\u%04x", sym)
	}
}
