// Package parser implements a Pratt parser for a single SQL SELECT
// statement, in the style of ha1tch/tsqlparser's own parser: a
// precedence-const ladder, prefixParseFns/infixParseFns maps keyed by
// token type, and a three-token lookahead window. Trimmed to exactly the
// grammar legacy/astparser/ast models — no DDL, no procedural
// statements.
package parser

import (
	"fmt"
	"strings"

	"github.com/endbase/sqlcst/legacy/astparser/ast"
	"github.com/endbase/sqlcst/legacy/astparser/lexer"
	"github.com/endbase/sqlcst/legacy/astparser/token"
)

const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	NOT_PREC
	COMPARE
	BETWEEN_PREC
	BITOR
	BITAND
	SHIFT
	CONCAT_PREC
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
)

var precedences = map[token.Type]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.NOT:      BETWEEN_PREC,
	token.EQ:       COMPARE,
	token.EQEQ:     COMPARE,
	token.NEQ:      COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.IS:       COMPARE,
	token.LIKE:     BETWEEN_PREC,
	token.GLOB:     BETWEEN_PREC,
	token.REGEXP:   BETWEEN_PREC,
	token.MATCH:    BETWEEN_PREC,
	token.BETWEEN:  BETWEEN_PREC,
	token.IN:       BETWEEN_PREC,
	token.PIPE:     BITOR,
	token.AMPERSAND: BITAND,
	token.LSHIFT:   SHIFT,
	token.RSHIFT:   SHIFT,
	token.CONCAT:   CONCAT_PREC,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.DOT:      INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser parses a single SELECT statement from a token stream.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken      token.Token
	peekToken     token.Token
	peekPeekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:             p.parseIdentOrQualifiedOrCall,
		token.INT:               p.parseIntegerLiteral,
		token.FLOAT:             p.parseIntegerLiteral,
		token.STRING:            p.parseStringLiteral,
		token.BLOB:              p.parseBlobLiteral,
		token.PLACEHOLDER:       p.parsePlaceholder,
		token.NULL:              func() ast.Expression { p.nextToken(); return &ast.NullLiteral{} },
		token.TRUE:              func() ast.Expression { p.nextToken(); return &ast.BoolLiteral{Value: true} },
		token.FALSE:             func() ast.Expression { p.nextToken(); return &ast.BoolLiteral{Value: false} },
		token.CURRENT_TIME:      p.parseKeywordLiteral,
		token.CURRENT_DATE:      p.parseKeywordLiteral,
		token.CURRENT_TIMESTAMP: p.parseKeywordLiteral,
		token.PLUS:              p.parsePrefixExpression,
		token.MINUS:             p.parsePrefixExpression,
		token.TILDE:             p.parsePrefixExpression,
		token.NOT:               p.parsePrefixExpression,
		token.LPAREN:            p.parseParenOrSubquery,
		token.CAST:              p.parseCastExpression,
		token.EXISTS:            p.parseExistsExpression,
		token.CASE:              p.parseCaseExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:      p.parseInfixExpression,
		token.MINUS:     p.parseInfixExpression,
		token.ASTERISK:  p.parseInfixExpression,
		token.SLASH:     p.parseInfixExpression,
		token.PERCENT:   p.parseInfixExpression,
		token.AMPERSAND: p.parseInfixExpression,
		token.PIPE:      p.parseInfixExpression,
		token.LSHIFT:    p.parseInfixExpression,
		token.RSHIFT:    p.parseInfixExpression,
		token.CONCAT:    p.parseInfixExpression,
		token.EQ:        p.parseInfixExpression,
		token.EQEQ:      p.parseInfixExpression,
		token.NEQ:       p.parseInfixExpression,
		token.LT:        p.parseInfixExpression,
		token.GT:        p.parseInfixExpression,
		token.LTE:       p.parseInfixExpression,
		token.GTE:       p.parseInfixExpression,
		token.AND:       p.parseInfixExpression,
		token.OR:        p.parseInfixExpression,
		token.IS:        p.parseIsExpression,
		token.LIKE:      p.parseLikeExpression,
		token.GLOB:      p.parseLikeExpression,
		token.REGEXP:    p.parseLikeExpression,
		token.MATCH:     p.parseLikeExpression,
		token.BETWEEN:   p.parseBetweenExpression,
		token.IN:        p.parseInExpression,
		token.NOT:       p.parseNotInfix,
		token.DOT:       p.parseQualifiedIndex,
	}

	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.peekPeekToken
	p.peekPeekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("line %d: expected %s, got %s %q", p.peekToken.Line, t, p.peekToken.Type, p.peekToken.Literal)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseSelectStatement parses a single SELECT (or VALUES) statement,
// including WITH, compound operators, ORDER BY, and LIMIT/OFFSET.
func (p *Parser) ParseSelectStatement() *ast.SelectStatement {
	stmt := &ast.SelectStatement{}

	if p.curIs(token.WITH) {
		p.parseWithClause(stmt)
	}

	p.parseSelectCore(stmt)

	for p.curIs(token.UNION) || p.curIs(token.INTERSECT) || p.curIs(token.EXCEPT) {
		op := strings.ToUpper(p.curToken.Literal)
		p.nextToken()
		if op == "UNION" && p.curIs(token.ALL) {
			op = "UNION ALL"
			p.nextToken()
		}
		core := &ast.SelectStatement{}
		p.parseSelectCore(core)
		stmt.Compound = append(stmt.Compound, ast.CompoundSelect{Operator: op, Core: core})
	}

	if p.curIs(token.ORDER) {
		p.parseOrderByClause(stmt)
	}
	if p.curIs(token.LIMIT) {
		p.parseLimitOffsetClause(stmt)
	}

	return stmt
}

func (p *Parser) parseWithClause(stmt *ast.SelectStatement) {
	p.nextToken() // consume WITH
	if p.curIs(token.RECURSIVE) {
		stmt.WithRecursive = true
		p.nextToken()
	}
	for {
		cte := ast.CommonTableExpression{}
		if !p.curIs(token.IDENT) {
			p.errorf("line %d: expected table name in WITH clause", p.curToken.Line)
			return
		}
		cte.Name = p.curToken.Literal
		p.nextToken()
		if p.curIs(token.LPAREN) {
			p.nextToken()
			for {
				if !p.curIs(token.IDENT) {
					p.errorf("line %d: expected column name", p.curToken.Line)
					return
				}
				cte.Columns = append(cte.Columns, p.curToken.Literal)
				p.nextToken()
				if p.curIs(token.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
			if !p.curIs(token.RPAREN) {
				p.errorf("line %d: expected )", p.curToken.Line)
				return
			}
			p.nextToken()
		}
		if !p.curIs(token.AS) {
			p.errorf("line %d: expected AS in common table expression", p.curToken.Line)
			return
		}
		p.nextToken()
		if !p.curIs(token.LPAREN) {
			p.errorf("line %d: expected ( after AS", p.curToken.Line)
			return
		}
		p.nextToken()
		cte.Select = p.ParseSelectStatement()
		if !p.curIs(token.RPAREN) {
			p.errorf("line %d: expected ) closing common table expression", p.curToken.Line)
			return
		}
		p.nextToken()
		stmt.With = append(stmt.With, cte)
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
}

func (p *Parser) parseSelectCore(stmt *ast.SelectStatement) {
	if p.curIs(token.VALUES) {
		p.nextToken()
		stmt.Values = append(stmt.Values, p.parseExprTuple())
		for p.curIs(token.COMMA) {
			p.nextToken()
			stmt.Values = append(stmt.Values, p.parseExprTuple())
		}
		return
	}

	if !p.curIs(token.SELECT) {
		p.errorf("line %d: expected SELECT or VALUES, got %s", p.curToken.Line, p.curToken.Type)
		return
	}
	p.nextToken()

	if p.curIs(token.ALL) {
		stmt.All = true
		p.nextToken()
	} else if p.curIs(token.DISTINCT) {
		stmt.Distinct = true
		p.nextToken()
	}

	stmt.Columns = append(stmt.Columns, p.parseResultColumn())
	for p.curIs(token.COMMA) {
		p.nextToken()
		stmt.Columns = append(stmt.Columns, p.parseResultColumn())
	}

	if p.curIs(token.FROM) {
		p.nextToken()
		stmt.From = p.parseTableExpressionList()
	}
	if p.curIs(token.WHERE) {
		p.nextToken()
		stmt.Where = p.parseExpression(LOWEST)
	}
	if p.curIs(token.GROUP) {
		p.nextToken()
		if !p.curIs(token.BY) {
			p.errorf("line %d: expected BY after GROUP", p.curToken.Line)
			return
		}
		p.nextToken()
		stmt.GroupBy = append(stmt.GroupBy, p.parseExpression(LOWEST))
		for p.curIs(token.COMMA) {
			p.nextToken()
			stmt.GroupBy = append(stmt.GroupBy, p.parseExpression(LOWEST))
		}
	}
	if p.curIs(token.HAVING) {
		p.nextToken()
		stmt.Having = p.parseExpression(LOWEST)
	}
}

func (p *Parser) parseExprTuple() []ast.Expression {
	if !p.curIs(token.LPAREN) {
		p.errorf("line %d: expected ( in VALUES", p.curToken.Line)
		return nil
	}
	p.nextToken()
	exprs := []ast.Expression{p.parseExpression(LOWEST)}
	for p.curIs(token.COMMA) {
		p.nextToken()
		exprs = append(exprs, p.parseExpression(LOWEST))
	}
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected ) closing VALUES tuple", p.curToken.Line)
		return exprs
	}
	p.nextToken()
	return exprs
}

var invalidColumnAlias = map[token.Type]bool{
	token.FROM: true, token.WHERE: true, token.GROUP: true, token.HAVING: true,
	token.ORDER: true, token.LIMIT: true, token.UNION: true, token.INTERSECT: true,
	token.EXCEPT: true,
}

func (p *Parser) parseResultColumn() ast.ResultColumn {
	if p.curIs(token.ASTERISK) {
		p.nextToken()
		return ast.ResultColumn{Star: true}
	}
	if p.curIs(token.IDENT) && p.peekIs(token.DOT) && p.peekPeekToken.Type == token.ASTERISK {
		qualifier := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return ast.ResultColumn{Star: true, TableQualifier: qualifier}
	}

	col := ast.ResultColumn{Expr: p.parseExpression(LOWEST)}
	if p.curIs(token.AS) {
		p.nextToken()
		if !p.curIs(token.IDENT) {
			p.errorf("line %d: expected column alias after AS", p.curToken.Line)
			return col
		}
		col.Alias = p.curToken.Literal
		p.nextToken()
	} else if p.curIs(token.IDENT) && !invalidColumnAlias[p.curToken.Type] {
		col.Alias = p.curToken.Literal
		p.nextToken()
	}
	return col
}

var invalidTableAlias = map[token.Type]bool{
	token.LEFT: true, token.INNER: true, token.CROSS: true, token.JOIN: true,
	token.WHERE: true, token.GROUP: true, token.HAVING: true, token.ORDER: true,
	token.LIMIT: true, token.ON: true, token.UNION: true, token.INTERSECT: true,
	token.EXCEPT: true,
}

func (p *Parser) parseTableExpressionList() []*ast.TableExpression {
	first := p.parseTableOrSubquery()
	if first == nil {
		return nil
	}
	tables := []*ast.TableExpression{first}

	if p.curIs(token.LEFT) || p.curIs(token.INNER) || p.curIs(token.CROSS) || p.curIs(token.JOIN) {
		joined := p.parseJoinChain(first)
		return []*ast.TableExpression{joined}
	}

	for p.curIs(token.COMMA) {
		p.nextToken()
		next := p.parseTableOrSubquery()
		if next == nil {
			break
		}
		tables = append(tables, next)
	}
	return tables
}

func (p *Parser) parseJoinChain(left *ast.TableExpression) *ast.TableExpression {
	cur := left
	for {
		joinType, ok := p.parseJoinOperator()
		if !ok {
			return cur
		}
		right := p.parseTableOrSubquery()
		if right == nil {
			return cur
		}
		join := &ast.JoinExpression{Left: cur, JoinType: joinType, Right: right}
		if p.curIs(token.ON) {
			p.nextToken()
			join.Constraint = p.parseExpression(LOWEST)
		}
		cur = &ast.TableExpression{Join: join}
	}
}

func (p *Parser) parseJoinOperator() (string, bool) {
	if p.curIs(token.COMMA) {
		p.nextToken()
		return "", true
	}
	qualifier := ""
	switch {
	case p.curIs(token.LEFT):
		qualifier = "LEFT"
		p.nextToken()
		if p.curIs(token.OUTER) {
			qualifier = "LEFT OUTER"
			p.nextToken()
		}
	case p.curIs(token.INNER):
		qualifier = "INNER"
		p.nextToken()
	case p.curIs(token.CROSS):
		qualifier = "CROSS"
		p.nextToken()
	}
	if !p.curIs(token.JOIN) {
		if qualifier != "" {
			p.errorf("line %d: expected JOIN after %s", p.curToken.Line, qualifier)
		}
		return "", false
	}
	p.nextToken()
	return qualifier, true
}

func (p *Parser) parseTableOrSubquery() *ast.TableExpression {
	if p.curIs(token.LPAREN) {
		p.nextToken()
		if p.curIs(token.SELECT) || p.curIs(token.WITH) || p.curIs(token.VALUES) {
			sub := p.ParseSelectStatement()
			if !p.curIs(token.RPAREN) {
				p.errorf("line %d: expected ) closing derived table", p.curToken.Line)
				return nil
			}
			p.nextToken()
			if !p.curIs(token.AS) {
				p.errorf("line %d: expected AS after derived table", p.curToken.Line)
				return nil
			}
			p.nextToken()
			alias := p.curToken.Literal
			p.nextToken()
			return &ast.TableExpression{Subquery: sub, Alias: alias}
		}
		join := p.parseTableExpressionList()
		if !p.curIs(token.RPAREN) {
			p.errorf("line %d: expected ) closing join", p.curToken.Line)
			return nil
		}
		p.nextToken()
		if len(join) == 1 {
			return join[0]
		}
		return &ast.TableExpression{Join: &ast.JoinExpression{Left: join[0]}}
	}

	if !p.curIs(token.IDENT) {
		p.errorf("line %d: expected table name, got %s", p.curToken.Line, p.curToken.Type)
		return nil
	}
	te := &ast.TableExpression{Name: p.curToken.Literal}
	p.nextToken()

	if p.curIs(token.AS) {
		p.nextToken()
		if !p.curIs(token.IDENT) {
			p.errorf("line %d: expected table alias after AS", p.curToken.Line)
			return te
		}
		te.Alias = p.curToken.Literal
		p.nextToken()
	} else if p.curIs(token.IDENT) && !invalidTableAlias[p.curToken.Type] {
		te.Alias = p.curToken.Literal
		p.nextToken()
	}
	return te
}

func (p *Parser) parseOrderByClause(stmt *ast.SelectStatement) {
	p.nextToken() // ORDER
	if !p.curIs(token.BY) {
		p.errorf("line %d: expected BY after ORDER", p.curToken.Line)
		return
	}
	p.nextToken()
	stmt.OrderBy = append(stmt.OrderBy, p.parseOrderingTerm())
	for p.curIs(token.COMMA) {
		p.nextToken()
		stmt.OrderBy = append(stmt.OrderBy, p.parseOrderingTerm())
	}
}

func (p *Parser) parseOrderingTerm() ast.OrderingTerm {
	term := ast.OrderingTerm{Expr: p.parseExpression(LOWEST)}
	if p.curIs(token.ASC) {
		p.nextToken()
	} else if p.curIs(token.DESC) {
		term.Descending = true
		p.nextToken()
	}
	return term
}

func (p *Parser) parseLimitOffsetClause(stmt *ast.SelectStatement) {
	p.nextToken() // LIMIT
	stmt.Limit = p.parseExpression(LOWEST)
	if p.curIs(token.COMMA) || p.curIs(token.OFFSET) {
		p.nextToken()
		stmt.Offset = p.parseExpression(LOWEST)
	}
}

// --- expressions ---------------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("line %d: no prefix parse function for %s %q", p.curToken.Line, p.curToken.Type, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken.Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentOrQualifiedOrCall() ast.Expression {
	name := p.curToken.Literal

	if p.peekIs(token.LPAREN) {
		p.nextToken()
		return p.parseFunctionCall(name)
	}
	if p.peekIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		if !p.curIs(token.IDENT) {
			p.errorf("line %d: expected column name after '.'", p.curToken.Line)
			return &ast.Identifier{Value: name}
		}
		col := p.curToken.Literal
		p.nextToken()
		return &ast.QualifiedIdentifier{Qualifier: &ast.Identifier{Value: name}, Name: &ast.Identifier{Value: col}}
	}
	p.nextToken()
	return &ast.Identifier{Value: name}
}

func (p *Parser) parseFunctionCall(name string) ast.Expression {
	p.nextToken() // consume (
	call := &ast.FunctionCall{Name: name}

	if p.curIs(token.DISTINCT) {
		call.Distinct = true
		p.nextToken()
	}
	if p.curIs(token.ASTERISK) {
		call.Star = true
		p.nextToken()
	} else if !p.curIs(token.RPAREN) {
		call.Args = append(call.Args, p.parseExpression(LOWEST))
		for p.curIs(token.COMMA) {
			p.nextToken()
			call.Args = append(call.Args, p.parseExpression(LOWEST))
		}
	}
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected ) closing function call", p.curToken.Line)
		return call
	}
	p.nextToken()

	if p.curIs(token.FILTER) {
		p.nextToken()
		if !p.curIs(token.LPAREN) {
			p.errorf("line %d: expected ( after FILTER", p.curToken.Line)
			return call
		}
		p.nextToken()
		if !p.curIs(token.WHERE) {
			p.errorf("line %d: expected WHERE in FILTER clause", p.curToken.Line)
			return call
		}
		p.nextToken()
		call.Filter = p.parseExpression(LOWEST)
		if !p.curIs(token.RPAREN) {
			p.errorf("line %d: expected ) closing FILTER clause", p.curToken.Line)
			return call
		}
		p.nextToken()
	}
	return call
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Value: p.curToken.Literal}
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Value: p.curToken.Literal}
	p.nextToken()
	return lit
}

func (p *Parser) parseBlobLiteral() ast.Expression {
	lit := &ast.StringLiteral{Value: p.curToken.Literal, IsBlob: true}
	p.nextToken()
	return lit
}

func (p *Parser) parsePlaceholder() ast.Expression {
	lit := p.curToken.Literal
	name := ""
	if strings.HasPrefix(lit, ":") && lit != ":?" {
		name = lit[1:]
	}
	p.nextToken()
	return &ast.Placeholder{Name: name}
}

func (p *Parser) parseKeywordLiteral() ast.Expression {
	lit := &ast.Identifier{Value: strings.ToUpper(p.curToken.Literal)}
	p.nextToken()
	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	op := p.curToken.Literal
	precedence := PREFIX
	if p.curIs(token.NOT) {
		precedence = NOT_PREC
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.PrefixExpression{Operator: op, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.InfixExpression{Left: left, Operator: op, Right: right}
}

func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	p.nextToken() // IS
	not := false
	if p.curIs(token.NOT) {
		not = true
		p.nextToken()
	}
	right := p.parseExpression(COMPARE)
	return &ast.IsExpression{Left: left, Not: not, Right: right}
}

func (p *Parser) parseLikeExpression(left ast.Expression) ast.Expression {
	op := strings.ToUpper(p.curToken.Literal)
	p.nextToken()
	pattern := p.parseExpression(BETWEEN_PREC)
	like := &ast.LikeExpression{Left: left, Operator: op, Pattern: pattern}
	if p.curIs(token.ESCAPE) {
		p.nextToken()
		like.Escape = p.parseExpression(BETWEEN_PREC)
	}
	return like
}

func (p *Parser) parseBetweenExpression(left ast.Expression) ast.Expression {
	p.nextToken() // BETWEEN
	low := p.parseExpression(BETWEEN_PREC)
	if !p.curIs(token.AND) {
		p.errorf("line %d: expected AND in BETWEEN", p.curToken.Line)
		return &ast.BetweenExpression{Left: left, Low: low}
	}
	p.nextToken()
	high := p.parseExpression(BETWEEN_PREC)
	return &ast.BetweenExpression{Left: left, Low: low, High: high}
}

func (p *Parser) parseInExpression(left ast.Expression) ast.Expression {
	p.nextToken() // IN
	in := &ast.InExpression{Left: left}
	if !p.curIs(token.LPAREN) {
		p.errorf("line %d: expected ( after IN", p.curToken.Line)
		return in
	}
	p.nextToken()
	if p.curIs(token.RPAREN) {
		p.nextToken()
		return in
	}
	if p.curIs(token.SELECT) || p.curIs(token.WITH) || p.curIs(token.VALUES) {
		in.Subquery = p.ParseSelectStatement()
	} else {
		in.Values = append(in.Values, p.parseExpression(LOWEST))
		for p.curIs(token.COMMA) {
			p.nextToken()
			in.Values = append(in.Values, p.parseExpression(LOWEST))
		}
	}
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected ) closing IN", p.curToken.Line)
		return in
	}
	p.nextToken()
	return in
}

// parseNotInfix handles "expr NOT BETWEEN|IN|LIKE|GLOB|REGEXP|MATCH ...",
// since NOT in infix position only ever negates one of those.
func (p *Parser) parseNotInfix(left ast.Expression) ast.Expression {
	p.nextToken() // NOT
	switch p.curToken.Type {
	case token.BETWEEN:
		expr := p.parseBetweenExpression(left).(*ast.BetweenExpression)
		expr.Not = true
		return expr
	case token.IN:
		expr := p.parseInExpression(left).(*ast.InExpression)
		expr.Not = true
		return expr
	case token.LIKE, token.GLOB, token.REGEXP, token.MATCH:
		expr := p.parseLikeExpression(left).(*ast.LikeExpression)
		expr.Not = true
		return expr
	default:
		p.errorf("line %d: unexpected NOT in expression", p.curToken.Line)
		return left
	}
}

func (p *Parser) parseQualifiedIndex(left ast.Expression) ast.Expression {
	p.nextToken() // .
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf("line %d: unexpected '.' after expression", p.curToken.Line)
		return left
	}
	if !p.curIs(token.IDENT) {
		p.errorf("line %d: expected column name after '.'", p.curToken.Line)
		return left
	}
	name := p.curToken.Literal
	p.nextToken()
	return &ast.QualifiedIdentifier{Qualifier: ident, Name: &ast.Identifier{Value: name}}
}

func (p *Parser) parseParenOrSubquery() ast.Expression {
	p.nextToken() // (
	if p.curIs(token.SELECT) || p.curIs(token.WITH) || p.curIs(token.VALUES) {
		sub := p.ParseSelectStatement()
		if !p.curIs(token.RPAREN) {
			p.errorf("line %d: expected ) closing subquery", p.curToken.Line)
			return &ast.SubqueryExpression{Select: sub}
		}
		p.nextToken()
		return &ast.SubqueryExpression{Select: sub}
	}
	inner := p.parseExpression(LOWEST)
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected )", p.curToken.Line)
		return inner
	}
	p.nextToken()
	return inner
}

func (p *Parser) parseCastExpression() ast.Expression {
	p.nextToken() // CAST
	if !p.curIs(token.LPAREN) {
		p.errorf("line %d: expected ( after CAST", p.curToken.Line)
		return nil
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.curIs(token.AS) {
		p.errorf("line %d: expected AS in CAST", p.curToken.Line)
		return &ast.CastExpression{Expression: expr}
	}
	p.nextToken()
	if !p.curIs(token.IDENT) {
		p.errorf("line %d: expected type name in CAST", p.curToken.Line)
		return &ast.CastExpression{Expression: expr}
	}
	typeName := p.curToken.Literal
	p.nextToken()
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected ) closing CAST", p.curToken.Line)
		return &ast.CastExpression{Expression: expr, TypeName: typeName}
	}
	p.nextToken()
	return &ast.CastExpression{Expression: expr, TypeName: typeName}
}

func (p *Parser) parseExistsExpression() ast.Expression {
	p.nextToken() // EXISTS
	if !p.curIs(token.LPAREN) {
		p.errorf("line %d: expected ( after EXISTS", p.curToken.Line)
		return nil
	}
	p.nextToken()
	sub := p.ParseSelectStatement()
	if !p.curIs(token.RPAREN) {
		p.errorf("line %d: expected ) closing EXISTS", p.curToken.Line)
		return &ast.ExistsExpression{Subquery: sub}
	}
	p.nextToken()
	return &ast.ExistsExpression{Subquery: sub}
}

func (p *Parser) parseCaseExpression() ast.Expression {
	p.nextToken() // CASE
	expr := &ast.CaseExpression{}
	if !p.curIs(token.WHEN) {
		expr.Operand = p.parseExpression(LOWEST)
	}
	for p.curIs(token.WHEN) {
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if !p.curIs(token.THEN) {
			p.errorf("line %d: expected THEN in CASE", p.curToken.Line)
			return expr
		}
		p.nextToken()
		result := p.parseExpression(LOWEST)
		expr.WhenThen = append(expr.WhenThen, ast.WhenClause{Condition: cond, Result: result})
	}
	if len(expr.WhenThen) == 0 {
		p.errorf("line %d: expected at least one WHEN in CASE", p.curToken.Line)
	}
	if p.curIs(token.ELSE) {
		p.nextToken()
		expr.ElseClause = p.parseExpression(LOWEST)
	}
	if !p.curIs(token.END) {
		p.errorf("line %d: expected END closing CASE", p.curToken.Line)
		return expr
	}
	p.nextToken()
	return expr
}
