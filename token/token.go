// Package token SPDX-License-Identifier: Apache-2.0
package token

import "fmt"

// Position tracks a location in a source file for error reporting and
// tooling. It is the shared location type threaded through grammar,
// internal/ast, and internal/errors.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Keywords are the reserved words of the NoClock surface syntax. The lexer
// does not need a distinct keyword token type (participle keeps keywords as
// literal string patterns in the grammar). Neither the grammar nor the REPL
// consults this set; IsKeyword is its only reader in this module.
var Keywords = map[string]bool{
	"for":     true,
	"in":      true,
	"if":      true,
	"else":    true,
	"finish":  true,
	"async":   true,
	"clocked": true,
	"advance": true,
	"min":     true,
	"max":     true,
	"true":    true,
	"false":   true,
}

// IsKeyword reports whether ident names a reserved word rather than a legal
// task/function/variable identifier.
func IsKeyword(ident string) bool {
	return Keywords[ident]
}
