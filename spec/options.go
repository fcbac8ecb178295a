package spec

// Alphabet is the size of the input character set a generated scanner
// accepts.
type Alphabet int

const (
	// Ascii is the 7-bit default.
	Ascii Alphabet = 128
	// Full covers 8-bit input (%full).
	Full Alphabet = 256
	// Unicode covers 16-bit code units (%unicode).
	Unicode Alphabet = 65536
)

// Size returns the number of character codes.
func (a Alphabet) Size() int {
	return int(a)
}

func (a Alphabet) String() string {
	switch a {
	case Ascii:
		return "ascii"
	case Full:
		return "full"
	case Unicode:
		return "unicode"
	default:
		return "custom"
	}
}

// Names used by %cup.
const (
	CupImplements = "java_cup.runtime.Scanner"
	CupFunction   = "next_token"
	CupType       = "java_cup.runtime.Symbol"
)

// Options collects the directives of the declarations section.
type Options struct {
	ClassName    string // %class
	FunctionName string // %function
	TypeName     string // %type
	Implements   string // %implements

	CountChars  bool // %char
	CountLines  bool // %line
	Cup         bool // %cup
	IgnoreCase  bool // %ignorecase
	Public      bool // %public
	IntegerType bool // %integer
	IntWrap     bool // %intwrap
	YYEOF       bool // %yyeof
	// Unix is cleared by %notunix, which makes \r\n a single terminator
	// for line counting.
	Unix bool

	Alphabet Alphabet

	ClassCode     string // %{ %}
	InitCode      string // %init{ %init}
	EOFCode       string // %eof{ %eof}
	EOFValueCode  string // %eofval{ %eofval}
	InitThrowCode string // %initthrow{ %initthrow}
	LexThrowCode  string // %yylexthrow{ %yylexthrow}
	EOFThrowCode  string // %eofthrow{ %eofthrow}
}

// DefaultOptions returns the options in effect when no directive is given.
func DefaultOptions() *Options {
	return &Options{
		ClassName:    "Yylex",
		FunctionName: "yylex",
		TypeName:     "Yytoken",
		Unix:         true,
		Alphabet:     Ascii,
	}
}

// SetCup applies %cup.
func (o *Options) SetCup() {
	o.Cup = true
	o.Implements = CupImplements
	o.FunctionName = CupFunction
	o.TypeName = CupType
}
