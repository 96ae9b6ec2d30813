package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(SableLexer),
	participle.Elide("Whitespace", "Comment", "DocComment"),
	participle.UseLookahead(4),
)

// ParseSource parses Sable source text into a syntax tree.
func ParseSource(path, source string) (*Program, error) {
	return parser.ParseString(path, source)
}

// ParseFile reads and parses a Sable source file.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ErrorPosition extracts the source position from a parse error, if the
// error carries one.
func ErrorPosition(err error) (lexer.Position, bool) {
	if pe, ok := err.(participle.Error); ok {
		return pe.Position(), true
	}
	return lexer.Position{}, false
}
