// Package sqlgrammar implements the SQL grammar from spec §4.3: the
// expression precedence ladder, the atom alternatives, clause composition
// (SELECT/VALUES, FROM, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, WITH,
// compound operators), and the statement list.
//
// It is a line-for-line port of the PEG grammar in
// _examples/original_source/lib/endb_cst/src/sql.rs (the Rust source this
// spec was distilled from): each `(<label> <- body)` rule there becomes a
// transparent Go rule function here (no Open/Close events), and each
// `(label <- body)` rule becomes a structural one. Rules are plain
// functions, not package-level Fn variables, because the grammar is
// mutually recursive — expr reaches atom reaches subquery reaches
// select_stmt reaches select_core reaches result_column reaches expr
// again — and Go only forbids cyclic initialization for variables, never
// for functions.
package sqlgrammar

import (
	"unicode/utf8"

	"github.com/endbase/sqlcst/internal/cstcore"
	"github.com/endbase/sqlcst/internal/matcher"
	"github.com/endbase/sqlcst/internal/peg"
)

// --- trivia & leaf patterns -------------------------------------------------

// Whitespace is the grammar's <whitespace> rule: transparent, never fails.
func Whitespace(s *cstcore.State) bool { return matcher.Trivia(s) }

// Ident is the grammar's <ident> rule: a transparent identifier pattern.
func Ident(s *cstcore.State) bool { return matcher.Identifier(s) }

// NumericLiteral, StringLiteral, and BlobLiteral are structural even
// though each wraps a single leaf pattern match, per sql.rs's own
// (non-bracketed) tagging of these three rules.
func NumericLiteral(s *cstcore.State) bool {
	return peg.WithRule(s, "numeric_literal", false, matcher.Number)
}

func StringLiteral(s *cstcore.State) bool {
	return peg.WithRule(s, "string_literal", false, matcher.String)
}

func BlobLiteral(s *cstcore.State) bool {
	return peg.WithRule(s, "blob_literal", false, matcher.Blob)
}

// Literal is the grammar's <literal> rule: transparent choice among the
// three pattern classes and the bare keyword literals.
func Literal(s *cstcore.State) bool {
	return peg.WithRule(s, "literal", true, peg.Choice(
		NumericLiteral, StringLiteral, BlobLiteral,
		matcher.Literal("NULL"), matcher.Literal("TRUE"), matcher.Literal("FALSE"),
		matcher.Literal("CURRENT_TIME"), matcher.Literal("CURRENT_DATE"), matcher.Literal("CURRENT_TIMESTAMP"),
	))
}

// BindParameter is the grammar's structural bind_parameter rule.
func BindParameter(s *cstcore.State) bool {
	return peg.WithRule(s, "bind_parameter", false, matcher.BindParameter)
}

func FunctionName(s *cstcore.State) bool { return peg.WithRule(s, "function_name", false, Ident) }
func TypeName(s *cstcore.State) bool     { return peg.WithRule(s, "type_name", false, Ident) }
func ColumnName(s *cstcore.State) bool   { return peg.WithRule(s, "column_name", false, Ident) }

// --- atoms -------------------------------------------------------------

func Subquery(s *cstcore.State) bool {
	return peg.WithRule(s, "subquery", false, peg.Seq(
		matcher.Literal("("), SelectStmt, matcher.Literal(")"),
	))
}

func ParenExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "paren_expr", false, peg.Seq(
		matcher.Literal("("), Expr, matcher.Literal(")"),
	))
}

// CastExpr commits immediately after "CAST (": once that much is seen,
// a failure to find "expr AS type_name )" is reported right there rather
// than wherever some unrelated, deeper-reaching alternative backtracked
// to.
func CastExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "cast_expr", false, peg.Seq(
		matcher.Literal("CAST"), matcher.Literal("("),
		peg.Commit(peg.Seq(Expr, matcher.Literal("AS"), TypeName, matcher.Literal(")"))),
	))
}

// FunctionCallExpr: function_name "(" ("*" | DISTINCT? exprlist?) ")" FILTER?
// The "*" alternative comes first because the other one can match empty.
func FunctionCallExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "function_call_expr", false, peg.Seq(
		FunctionName,
		matcher.Literal("("),
		peg.Choice(
			matcher.Literal("*"),
			peg.Seq(
				peg.Opt(matcher.Literal("DISTINCT")),
				peg.Opt(peg.Seq(Expr, peg.Star(peg.Seq(matcher.Literal(","), Expr)))),
			),
		),
		matcher.Literal(")"),
		peg.Opt(peg.Seq(
			matcher.Literal("FILTER"),
			peg.Commit(peg.Seq(matcher.Literal("("), matcher.Literal("WHERE"), Expr, matcher.Literal(")"))),
		)),
	))
}

func ExistsExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "exists_expr", false, peg.Seq(
		matcher.Literal("EXISTS"), peg.Commit(Subquery),
	))
}

func CaseWhenThenExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "case_when_then_expr", false, peg.Seq(
		matcher.Literal("WHEN"), Expr, matcher.Literal("THEN"), Expr,
	))
}

// CaseExpr: the leading operand is attempted only if the next token is
// not WHEN, via negative lookahead — CASE WHEN ... and CASE <op> WHEN ...
// would otherwise be ambiguous.
func CaseExpr(s *cstcore.State) bool {
	return peg.WithRule(s, "case_expr", false, peg.Seq(
		matcher.Literal("CASE"),
		peg.Commit(peg.Seq(
			peg.Opt(peg.Seq(peg.Not(matcher.Literal("WHEN")), Expr)),
			peg.Plus(CaseWhenThenExpr),
			peg.Opt(peg.Seq(matcher.Literal("ELSE"), Expr)),
			matcher.Literal("END"),
		)),
	))
}

func ColumnReference(s *cstcore.State) bool {
	return peg.WithRule(s, "column_reference", false, peg.Seq(
		peg.Opt(peg.Seq(TableName, matcher.Literal("."))), ColumnName,
	))
}

// Atom is the grammar's <atom> rule. subquery is tried before paren_expr
// because both start with "(" — ordered choice backtracks past the open
// paren when the subquery alternative fails to find SELECT/VALUES.
func Atom(s *cstcore.State) bool {
	return peg.WithRule(s, "atom", true, peg.Choice(
		Literal, BindParameter, Subquery, ParenExpr, CastExpr,
		FunctionCallExpr, ExistsExpr, CaseExpr, ColumnReference,
	))
}

// --- expression precedence ladder --------------------------------------
//
// Every level here is transparent (<...> in sql.rs): the CST shows a
// single expr node with the ladder's operators and operands flattened
// directly inside it, not one nested node per precedence level.

func Unary(s *cstcore.State) bool {
	return peg.WithRule(s, "unary", true, peg.Seq(
		peg.Star(peg.Choice(matcher.Literal("+"), matcher.Literal("-"), matcher.Literal("~"))),
		Atom,
	))
}

func Concat(s *cstcore.State) bool {
	return peg.WithRule(s, "concat", true, peg.Seq(
		Unary, peg.Star(peg.Seq(matcher.Literal("||"), Unary)),
	))
}

func Mul(s *cstcore.State) bool {
	return peg.WithRule(s, "mul", true, peg.Seq(
		Concat, peg.Star(peg.Seq(peg.Choice(matcher.Literal("*"), matcher.Literal("/"), matcher.Literal("%")), Concat)),
	))
}

func Add(s *cstcore.State) bool {
	return peg.WithRule(s, "add", true, peg.Seq(
		Mul, peg.Star(peg.Seq(peg.Choice(matcher.Literal("+"), matcher.Literal("-")), Mul)),
	))
}

func Bit(s *cstcore.State) bool {
	return peg.WithRule(s, "bit", true, peg.Seq(
		Add, peg.Star(peg.Seq(peg.Choice(matcher.Literal("<<"), matcher.Literal(">>"), matcher.Literal("&"), matcher.Literal("|")), Add)),
	))
}

// Comp: note the ordering "<=" "<" ">=" ">" — the two-byte forms must be
// tried before their one-byte prefixes, or "<=" would only ever match as
// "<" followed by a dangling "=".
func Comp(s *cstcore.State) bool {
	return peg.WithRule(s, "comp", true, peg.Seq(
		Bit, peg.Star(peg.Seq(peg.Choice(matcher.Literal("<="), matcher.Literal("<"), matcher.Literal(">="), matcher.Literal(">")), Bit)),
	))
}

func equalTail(s *cstcore.State) bool {
	return peg.Choice(
		peg.Seq(peg.Choice(matcher.Literal("=="), matcher.Literal("="), matcher.Literal("!="), matcher.Literal("<>")), Comp),
		peg.Seq(peg.Opt(matcher.Literal("NOT")), peg.Choice(
			peg.Seq(matcher.Literal("LIKE"), peg.Commit(peg.Seq(Comp, peg.Opt(peg.Seq(matcher.Literal("ESCAPE"), Comp))))),
			peg.Seq(peg.Choice(matcher.Literal("GLOB"), matcher.Literal("REGEXP"), matcher.Literal("MATCH")), peg.Commit(Comp)),
		)),
		peg.Seq(matcher.Literal("IS"), peg.Commit(peg.Seq(peg.Opt(matcher.Literal("NOT")), Comp))),
		peg.Seq(peg.Opt(matcher.Literal("NOT")), matcher.Literal("BETWEEN"), peg.Commit(peg.Seq(Comp, matcher.Literal("AND"), Comp))),
		peg.Seq(peg.Opt(matcher.Literal("NOT")), matcher.Literal("IN"), peg.Commit(peg.Choice(
			peg.Seq(matcher.Literal("("), SelectStmt, matcher.Literal(")")),
			peg.Seq(matcher.Literal("("), Expr, peg.Star(peg.Seq(matcher.Literal(","), Expr)), matcher.Literal(")")),
			peg.Seq(matcher.Literal("("), matcher.Literal(")")),
		))),
	)(s)
}

// Equal is the "equal" precedence level: plain comparison operators come
// first so a bare "=" is recognized before the LIKE/GLOB/IS/BETWEEN/IN
// families are even attempted.
func Equal(s *cstcore.State) bool {
	return peg.WithRule(s, "equal", true, peg.Seq(Comp, peg.Star(equalTail)))
}

func Not(s *cstcore.State) bool {
	return peg.WithRule(s, "not", true, peg.Seq(peg.Star(matcher.Literal("NOT")), Equal))
}

func And(s *cstcore.State) bool {
	return peg.WithRule(s, "and", true, peg.Seq(Not, peg.Star(peg.Seq(matcher.Literal("AND"), Not))))
}

func Or(s *cstcore.State) bool {
	return peg.WithRule(s, "or", true, peg.Seq(And, peg.Star(peg.Seq(matcher.Literal("OR"), And))))
}

// Expr is the grammar's structural expr rule, wrapping the otherwise
// entirely transparent precedence ladder in a single Open/Close pair.
func Expr(s *cstcore.State) bool {
	return peg.WithRule(s, "expr", false, Or)
}

// --- result columns & aliasing ------------------------------------------

func ColumnAlias(s *cstcore.State) bool { return peg.WithRule(s, "column_alias", false, Ident) }
func TableName(s *cstcore.State) bool   { return peg.WithRule(s, "table_name", false, Ident) }

func QualifiedAsterisk(s *cstcore.State) bool {
	return peg.WithRule(s, "qualified_asterisk", false, peg.Seq(
		TableName, matcher.Literal("."), peg.Commit(matcher.Literal("*")),
	))
}

func Asterisk(s *cstcore.State) bool {
	return peg.WithRule(s, "asterisk", false, matcher.Literal("*"))
}

// InvalidColumnAlias is the reserved-word set result_column guards a bare
// alias against: SELECT 1 FROM would otherwise see FROM consumed as a
// column alias instead of the next clause.
func InvalidColumnAlias(s *cstcore.State) bool {
	return peg.WithRule(s, "invalid_column_alias", false, peg.Choice(
		matcher.Literal("FROM"), matcher.Literal("WHERE"), matcher.Literal("GROUP"), matcher.Literal("HAVING"),
		matcher.Literal("ORDER"), matcher.Literal("LIMIT"), matcher.Literal("UNION"), matcher.Literal("INTERSECT"),
		matcher.Literal("EXCEPT"),
	))
}

func ResultColumn(s *cstcore.State) bool {
	return peg.WithRule(s, "result_column", false, peg.Choice(
		peg.Seq(Expr, peg.Opt(peg.Choice(
			peg.Seq(matcher.Literal("AS"), peg.Commit(ColumnAlias)),
			peg.Seq(peg.Not(InvalidColumnAlias), ColumnAlias),
		))),
		QualifiedAsterisk,
		Asterisk,
	))
}

// --- FROM / JOIN ---------------------------------------------------------

func TableAlias(s *cstcore.State) bool { return peg.WithRule(s, "table_alias", false, Ident) }

func JoinConstraint(s *cstcore.State) bool {
	return peg.WithRule(s, "join_constraint", false, peg.Seq(matcher.Literal("ON"), Expr))
}

func JoinOperator(s *cstcore.State) bool {
	return peg.WithRule(s, "join_operator", false, peg.Choice(
		matcher.Literal(","),
		peg.Seq(peg.Opt(peg.Choice(
			peg.Seq(matcher.Literal("LEFT"), peg.Opt(matcher.Literal("OUTER"))),
			matcher.Literal("INNER"),
			matcher.Literal("CROSS"),
		)), matcher.Literal("JOIN")),
	))
}

func JoinClause(s *cstcore.State) bool {
	return peg.WithRule(s, "join_clause", false, peg.Seq(
		TableOrSubquery,
		peg.Star(peg.Seq(JoinOperator, TableOrSubquery, peg.Opt(JoinConstraint))),
	))
}

// InvalidTableAlias is table_or_subquery's equivalent reserved-word guard.
func InvalidTableAlias(s *cstcore.State) bool {
	return peg.WithRule(s, "invalid_table_alias", false, peg.Choice(
		matcher.Literal("LEFT"), matcher.Literal("INNER"), matcher.Literal("CROSS"), matcher.Literal("JOIN"),
		matcher.Literal("WHERE"), matcher.Literal("GROUP"), matcher.Literal("HAVING"), matcher.Literal("ORDER"),
		matcher.Literal("LIMIT"), matcher.Literal("ON"), matcher.Literal("UNION"), matcher.Literal("INTERSECT"),
		matcher.Literal("EXCEPT"),
	))
}

func TableOrSubquery(s *cstcore.State) bool {
	return peg.WithRule(s, "table_or_subquery", false, peg.Choice(
		peg.Seq(TableName, peg.Opt(peg.Choice(
			peg.Seq(matcher.Literal("AS"), peg.Commit(TableAlias)),
			peg.Seq(peg.Not(InvalidTableAlias), TableAlias),
		))),
		peg.Seq(matcher.Literal("("), SelectStmt, matcher.Literal(")"), matcher.Literal("AS"), TableAlias),
		peg.Seq(matcher.Literal("("), JoinClause, matcher.Literal(")")),
	))
}

func FromClause(s *cstcore.State) bool {
	return peg.WithRule(s, "from_clause", false, peg.Seq(
		matcher.Literal("FROM"),
		peg.Choice(
			JoinClause,
			peg.Seq(TableOrSubquery, peg.Star(peg.Seq(matcher.Literal(","), TableOrSubquery))),
		),
	))
}

func WhereClause(s *cstcore.State) bool {
	return peg.WithRule(s, "where_clause", false, peg.Seq(matcher.Literal("WHERE"), Expr))
}

func GroupByClause(s *cstcore.State) bool {
	return peg.WithRule(s, "group_by_clause", false, peg.Seq(
		matcher.Literal("GROUP"), matcher.Literal("BY"), Expr, peg.Star(peg.Seq(matcher.Literal(","), Expr)),
	))
}

func HavingClause(s *cstcore.State) bool {
	return peg.WithRule(s, "having_clause", false, peg.Seq(matcher.Literal("HAVING"), Expr))
}

// --- SELECT core / compound / WITH / ORDER BY / LIMIT --------------------

func SelectCore(s *cstcore.State) bool {
	return peg.WithRule(s, "select_core", false, peg.Choice(
		peg.Seq(
			matcher.Literal("SELECT"),
			peg.Opt(peg.Choice(matcher.Literal("ALL"), matcher.Literal("DISTINCT"))),
			ResultColumn, peg.Star(peg.Seq(matcher.Literal(","), ResultColumn)),
			peg.Opt(FromClause), peg.Opt(WhereClause), peg.Opt(GroupByClause), peg.Opt(HavingClause),
		),
		peg.Seq(
			matcher.Literal("VALUES"),
			matcher.Literal("("), Expr, peg.Star(peg.Seq(matcher.Literal(","), Expr)), matcher.Literal(")"),
			peg.Star(peg.Seq(matcher.Literal(","), matcher.Literal("("), Expr, peg.Star(peg.Seq(matcher.Literal(","), Expr)), matcher.Literal(")"))),
		),
	))
}

func CompoundOperator(s *cstcore.State) bool {
	return peg.WithRule(s, "compound_operator", false, peg.Choice(
		peg.Seq(matcher.Literal("UNION"), matcher.Literal("ALL")),
		matcher.Literal("UNION"), matcher.Literal("INTERSECT"), matcher.Literal("EXCEPT"),
	))
}

func CommonTableExpression(s *cstcore.State) bool {
	return peg.WithRule(s, "common_table_expression", false, peg.Seq(
		TableName,
		peg.Opt(peg.Seq(matcher.Literal("("), ColumnName, peg.Star(peg.Seq(matcher.Literal(","), ColumnName)), matcher.Literal(")"))),
		matcher.Literal("AS"), matcher.Literal("("), SelectStmt, matcher.Literal(")"),
	))
}

func WithClause(s *cstcore.State) bool {
	return peg.WithRule(s, "with_clause", false, peg.Seq(
		matcher.Literal("WITH"), peg.Opt(matcher.Literal("RECURSIVE")),
		CommonTableExpression, peg.Star(peg.Seq(matcher.Literal(","), CommonTableExpression)),
	))
}

func OrderingTerm(s *cstcore.State) bool {
	return peg.WithRule(s, "ordering_term", false, peg.Seq(
		Expr, peg.Opt(peg.Choice(matcher.Literal("ASC"), matcher.Literal("DESC"))),
	))
}

func OrderByClause(s *cstcore.State) bool {
	return peg.WithRule(s, "order_by_clause", false, peg.Seq(
		matcher.Literal("ORDER"), matcher.Literal("BY"),
		OrderingTerm, peg.Star(peg.Seq(matcher.Literal(","), OrderingTerm)),
	))
}

func LimitOffsetClause(s *cstcore.State) bool {
	return peg.WithRule(s, "limit_offset_clause", false, peg.Seq(
		matcher.Literal("LIMIT"), Expr,
		peg.Opt(peg.Seq(peg.Choice(matcher.Literal(","), matcher.Literal("OFFSET")), Expr)),
	))
}

func SelectStmt(s *cstcore.State) bool {
	return peg.WithRule(s, "select_stmt", false, peg.Seq(
		peg.Opt(WithClause),
		SelectCore, peg.Star(peg.Seq(CompoundOperator, SelectCore)),
		peg.Opt(OrderByClause), peg.Opt(LimitOffsetClause),
	))
}

func SqlStmt(s *cstcore.State) bool {
	return peg.WithRule(s, "sql_stmt", false, SelectStmt)
}

// anyRemainingChar emulates the grammar's (TRIVIA ".") — a regex "."
// matches any one character — used purely as an end-of-input probe: it
// consumes (and reports matching) exactly one rune if any remain after
// trivia is skipped.
func anyRemainingChar(s *cstcore.State) bool {
	matcher.Trivia(s)
	if s.Pos >= len(s.Input) {
		return false
	}
	_, size := utf8.DecodeRuneInString(s.Input[s.Pos:])
	s.Pos += size
	return true
}

// SqlStmtList is the grammar's entry rule: one or more ';'-separated
// select_stmt, an optional trailing ';', and a negative lookahead
// rejecting any leftover non-trivia character so the parser is forced to
// consume all the way to end-of-input.
func SqlStmtList(s *cstcore.State) bool {
	return peg.WithRule(s, "sql_stmt_list", false, peg.Seq(
		Whitespace,
		SqlStmt, peg.Star(peg.Seq(matcher.Literal(";"), SqlStmt)),
		peg.Opt(matcher.Literal(";")),
		peg.Not(anyRemainingChar),
	))
}
