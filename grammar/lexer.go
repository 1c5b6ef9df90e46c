package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// NoClockLexer tokenizes the surface `.nc` language: for/if-else/finish/
// async/clocked/advance plus calls and C-like expressions. Cut down from
// the teacher's KansoLexer (grammar/lexer.go) to the much smaller token
// set this syntax needs; Range is the one rule the teacher's lexer has no
// counterpart for, since Kanso has no "(a..b)" range syntax.
var NoClockLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},

		// Keywords and identifiers (order matters: keywords are plain
		// Ident tokens matched against by literal value in grammar.go,
		// exactly as the teacher matches "module"/"struct"/"fun" etc.)
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Integer", `[0-9]+`, nil},

		// Range must come before Operator so ".." isn't split into two
		// single-character tokens.
		{"Range", `\.\.`, nil},

		{"Operator", `(\|\||&&|==|!=|<=|>=|[-+*/<>])`, nil},

		{"Punctuation", `[(){},;!]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
