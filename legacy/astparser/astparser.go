// Package astparser provides the older, AST-shaped SELECT parser kept
// for consumers that built against a tree representation rather than
// the root sqlcst package's flat CST event stream. New code should
// prefer sqlcst.Parse.
//
// Example usage:
//
//	stmt, errs := astparser.Parse("SELECT 1")
//	if len(errs) > 0 {
//	    // handle errors
//	}
//	// work with stmt.Columns
package astparser

import (
	"github.com/endbase/sqlcst/legacy/astparser/ast"
	"github.com/endbase/sqlcst/legacy/astparser/lexer"
	"github.com/endbase/sqlcst/legacy/astparser/parser"
	"github.com/endbase/sqlcst/legacy/astparser/token"
)

// Parse parses a single SELECT statement and returns its AST and any
// errors accumulated while parsing.
func Parse(input string) (*ast.SelectStatement, []string) {
	l := lexer.New(input)
	p := parser.New(l)
	stmt := p.ParseSelectStatement()
	return stmt, p.Errors()
}

// Tokenize returns all tokens from input, including the trailing EOF
// token.
func Tokenize(input string) []token.Token {
	return lexer.Tokenize(input)
}

// Re-export types for convenience, following the root tsqlparser
// package's own re-export pattern.
type (
	SelectStatement       = ast.SelectStatement
	Expression            = ast.Expression
	ResultColumn          = ast.ResultColumn
	TableExpression       = ast.TableExpression
	JoinExpression        = ast.JoinExpression
	OrderingTerm          = ast.OrderingTerm
	CommonTableExpression = ast.CommonTableExpression
	CompoundSelect        = ast.CompoundSelect
	Token                 = token.Token
)
