package sqlgrammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endbase/sqlcst/internal/cstcore"
)

func parseAll(t *testing.T, input string) *cstcore.State {
	t.Helper()
	s := cstcore.NewState(input, false)
	ok := SqlStmtList(s)
	require.True(t, ok, "expected %q to parse", input)
	return s
}

func labelsOf(events []cstcore.Event) []string {
	var labels []string
	for _, e := range events {
		if e.Kind == cstcore.KindOpen {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

func TestSqlStmtList_SimpleSelect(t *testing.T) {
	s := parseAll(t, "SELECT 1")
	assert.Equal(t, len(s.Input), s.Pos)
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "sql_stmt_list")
	assert.Contains(t, labels, "sql_stmt")
	assert.Contains(t, labels, "select_stmt")
	assert.Contains(t, labels, "select_core")
	assert.Contains(t, labels, "result_column")
	assert.Contains(t, labels, "expr")
	assert.Contains(t, labels, "numeric_literal")

	var pat *cstcore.Event
	for i := range s.Events {
		if s.Events[i].Kind == cstcore.KindPattern && s.Events[i].PatKind == cstcore.PatternNumber {
			pat = &s.Events[i]
		}
	}
	require.NotNil(t, pat)
	assert.Equal(t, "1", s.Input[pat.Start:pat.End])
}

func TestSqlStmtList_LowercaseKeywordsCaseInsensitive(t *testing.T) {
	s := parseAll(t, "select 1 from t")
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "from_clause")
	assert.Contains(t, labels, "table_or_subquery")
}

func TestSqlStmtList_WithRecursive(t *testing.T) {
	s := parseAll(t, "WITH RECURSIVE cte(n) AS (SELECT 1) SELECT n FROM cte")
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "with_clause")
	assert.Contains(t, labels, "common_table_expression")
}

func TestSqlStmtList_FunctionCallWithFilter(t *testing.T) {
	s := parseAll(t, "SELECT COUNT(*) FILTER (WHERE x > 1) FROM t")
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "function_call_expr")
}

func TestSqlStmtList_CastExpr(t *testing.T) {
	parseAll(t, "SELECT CAST(1 AS TEXT)")
}

func TestSqlStmtList_CaseExpr(t *testing.T) {
	parseAll(t, "SELECT CASE WHEN 1 THEN 2 ELSE 3 END")
	parseAll(t, "SELECT CASE x WHEN 1 THEN 2 END")
}

func TestSqlStmtList_CompoundSelect(t *testing.T) {
	s := parseAll(t, "SELECT 1 UNION ALL SELECT 2")
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "compound_operator")
}

func TestSqlStmtList_JoinClause(t *testing.T) {
	parseAll(t, "SELECT * FROM a LEFT JOIN b ON a.x = b.x")
	parseAll(t, "SELECT * FROM a, b")
}

func TestSqlStmtList_OrderByLimitOffset(t *testing.T) {
	parseAll(t, "SELECT 1 ORDER BY 1 DESC LIMIT 1 OFFSET 2")
}

func TestSqlStmtList_MultipleStatements(t *testing.T) {
	parseAll(t, "SELECT 1; SELECT 2;")
}

func TestSqlStmtList_BindParameterForms(t *testing.T) {
	parseAll(t, "SELECT ? FROM t WHERE x = ?")
	parseAll(t, "SELECT :name FROM t WHERE x = :name")
}

func TestSqlStmtList_FailsOnMissingFromTarget(t *testing.T) {
	s := cstcore.NewState("SELECT 1 FROM", true)
	ok := SqlStmtList(s)
	assert.False(t, ok)
}

func TestSqlStmtList_FailsOnTrailingGarbage(t *testing.T) {
	s := cstcore.NewState("SELECT 1 ORDER", true)
	ok := SqlStmtList(s)
	assert.False(t, ok)
}

func TestSqlStmtList_FailsOnStrayTrailingCharacter(t *testing.T) {
	s := cstcore.NewState("SELECT 1;.", true)
	ok := SqlStmtList(s)
	assert.False(t, ok)
}

func TestSqlStmtList_ExistsAndSubquery(t *testing.T) {
	parseAll(t, "SELECT 1 WHERE EXISTS (SELECT 1 FROM t)")
	parseAll(t, "SELECT (SELECT 1)")
}

func TestSqlStmtList_OperatorPrecedence(t *testing.T) {
	s := parseAll(t, "SELECT 1 + 2 * 3")
	labels := labelsOf(s.Events)
	assert.Contains(t, labels, "expr")
}

func TestSqlStmtList_ValuesCore(t *testing.T) {
	parseAll(t, "VALUES (1, 2), (3, 4)")
}
