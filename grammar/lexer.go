package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var SableLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},

		// String literals (revert reasons)
		{"String", `"(\\.|[^"\\])*"`, nil},

		// Keywords and identifiers (order matters)
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Integer literals
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},

		// Operators
		{"Operator", `(\|\||&&|==|!=|<=|>=|=|[-+*/%<>!])`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}()\[\]:,;.]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
