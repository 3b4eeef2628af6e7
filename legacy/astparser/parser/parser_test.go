package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endbase/sqlcst/legacy/astparser/ast"
	"github.com/endbase/sqlcst/legacy/astparser/lexer"
	"github.com/endbase/sqlcst/legacy/astparser/parser"
)

func parse(t *testing.T, input string) *ast.SelectStatement {
	t.Helper()
	p := parser.New(lexer.New(input))
	stmt := p.ParseSelectStatement()
	require.Empty(t, p.Errors(), "unexpected parse errors for %q: %v", input, p.Errors())
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := parse(t, "SELECT 1")
	require.Len(t, stmt.Columns, 1)
	lit, ok := stmt.Columns[0].Expr.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, "1", lit.Value)
}

func TestParseSelectWithAliasAndFrom(t *testing.T) {
	stmt := parse(t, "SELECT x AS y FROM t")
	require.Len(t, stmt.Columns, 1)
	assert.Equal(t, "y", stmt.Columns[0].Alias)
	require.Len(t, stmt.From, 1)
	assert.Equal(t, "t", stmt.From[0].Name)
}

func TestParseJoin(t *testing.T) {
	stmt := parse(t, "SELECT * FROM a LEFT JOIN b ON a.x = b.x")
	require.Len(t, stmt.From, 1)
	join := stmt.From[0].Join
	require.NotNil(t, join)
	assert.Equal(t, "LEFT", join.JoinType)
	assert.NotNil(t, join.Constraint)
}

func TestParseCompoundSelect(t *testing.T) {
	stmt := parse(t, "SELECT 1 UNION ALL SELECT 2")
	require.Len(t, stmt.Compound, 1)
	assert.Equal(t, "UNION ALL", stmt.Compound[0].Operator)
}

func TestParseCaseExpression(t *testing.T) {
	stmt := parse(t, "SELECT CASE WHEN 1 THEN 2 ELSE 3 END")
	expr, ok := stmt.Columns[0].Expr.(*ast.CaseExpression)
	require.True(t, ok)
	assert.Nil(t, expr.Operand)
	require.Len(t, expr.WhenThen, 1)
	assert.NotNil(t, expr.ElseClause)
}

func TestParseWithRecursive(t *testing.T) {
	stmt := parse(t, "WITH RECURSIVE cte(n) AS (SELECT 1) SELECT n FROM cte")
	assert.True(t, stmt.WithRecursive)
	require.Len(t, stmt.With, 1)
	assert.Equal(t, "cte", stmt.With[0].Name)
	assert.Equal(t, []string{"n"}, stmt.With[0].Columns)
}

func TestParseFunctionCallWithFilter(t *testing.T) {
	stmt := parse(t, "SELECT COUNT(*) FILTER (WHERE x > 1) FROM t")
	call, ok := stmt.Columns[0].Expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, call.Star)
	assert.NotNil(t, call.Filter)
}

func TestParseMissingFromTargetReportsError(t *testing.T) {
	p := parser.New(lexer.New("SELECT 1 FROM"))
	p.ParseSelectStatement()
	assert.NotEmpty(t, p.Errors())
}

func TestParsePrecedence(t *testing.T) {
	stmt := parse(t, "SELECT 1 + 2 * 3")
	infix, ok := stmt.Columns[0].Expr.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, "+", infix.Operator)
	right, ok := infix.Right.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, "*", right.Operator)
}
