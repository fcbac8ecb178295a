package lexgen_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/coregx/lexgen"
)

func ExampleCompile() {
	lx, err := lexgen.Compile(strings.NewReader(`%%
%%
[0-9]+ { return NUMBER, nil }
[a-z]+ { return WORD, nil }
" "    { }
`))
	if err != nil {
		panic(err)
	}

	sc := lx.Scanner("abc 123")
	for {
		tok, err := sc.Next()
		if err == io.EOF {
			break
		}
		if tok.Rule == 2 {
			continue
		}
		fmt.Printf("rule %d %q\n", tok.Rule, tok.Text)
	}
	// Output:
	// rule 1 "abc"
	// rule 0 "123"
}
