package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
)

var noclockParser = participle.MustBuild[Program](
	participle.Lexer(NoClockLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseFile reads path and parses it as a `.nc` program.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: reading %s: %w", path, err)
	}
	return ParseString(path, string(source))
}

// ParseString parses source, attributing positions to filename.
func ParseString(filename, source string) (*Program, error) {
	program, err := noclockParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return program, nil
}

// ParseErrorPosition extracts the participle-reported position of a parse
// error returned by ParseFile/ParseString, for callers (internal/parser,
// cmd/noclock, internal/lsp) that want to build their own diagnostic
// around it instead of printing participle's default message.
func ParseErrorPosition(err error) (line, column int, ok bool) {
	pe, isParseErr := err.(participle.Error)
	if !isParseErr {
		return 0, 0, false
	}
	pos := pe.Position()
	return pos.Line, pos.Column, true
}
