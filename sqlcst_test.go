package sqlcst_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endbase/sqlcst"
	"github.com/endbase/sqlcst/cstconfig"
)

func TestParse_SimpleSelect(t *testing.T) {
	events, err := sqlcst.Parse("query.sql", "SELECT 1")
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	var opens, closes int
	events.Visit(
		func(string, int) { opens++ },
		func() { closes++ },
		func(sqlcst.Event) {},
	)
	assert.Equal(t, opens, closes)
}

func TestParse_SyntaxErrorReturnsAnnotatedMessage(t *testing.T) {
	_, err := sqlcst.Parse("query.sql", "SELECT 1 FROM")
	require.Error(t, err)

	var perr *sqlcst.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParse_TrailingGarbageFails(t *testing.T) {
	_, err := sqlcst.Parse("query.sql", "SELECT 1;.")
	assert.Error(t, err)
}

func TestParseWithLimits_RejectsOversizedInput(t *testing.T) {
	_, err := sqlcst.ParseWithLimits("query.sql", "SELECT 1", cstconfig.Limits{MaxInputBytes: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestParseWithLimits_RejectsExcessiveRecursion(t *testing.T) {
	deep := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	_, err := sqlcst.ParseWithLimits("query.sql", "SELECT "+deep, cstconfig.Limits{MaxInputBytes: 1 << 20, MaxRecursionDepth: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursion depth")
}

func TestRenderJSONReport_MatchesParseError(t *testing.T) {
	_, err := sqlcst.Parse("query.sql", "SELECT 1 FROM")
	require.Error(t, err)
	var perr *sqlcst.ParseError
	require.ErrorAs(t, err, &perr)

	b, err2 := json.Marshal(perr.Report)
	require.NoError(t, err2)

	rendered, err3 := sqlcst.RenderJSONReport(string(b), "SELECT 1 FROM")
	require.NoError(t, err3)
	assert.Contains(t, rendered, "line 1")
}
