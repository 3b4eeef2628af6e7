package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endbase/sqlcst/internal/cstcore"
	"github.com/endbase/sqlcst/internal/sqlgrammar"
)

func TestBuildReport_LineColumn(t *testing.T) {
	input := "SELECT 1\nFROM"
	s := cstcore.NewState(input, true)
	ok := sqlgrammar.SqlStmtList(s)
	require.False(t, ok)

	r := BuildReport("query.sql", input, s)
	assert.Equal(t, "query.sql", r.Filename)
	assert.Equal(t, 2, r.Line)
	assert.NotEmpty(t, r.Expected)
}

func TestAnnotate_PointsAtOffset(t *testing.T) {
	out := Annotate("SELECT 1 FROM", "expected table_or_subquery", 13, 13)
	assert.Contains(t, out, "line 1, column 14")
	assert.Contains(t, out, "SELECT 1 FROM")
	assert.Contains(t, out, "^")
}

func TestRenderJSONReport_RoundTrips(t *testing.T) {
	r := Report{Filename: "q.sql", Start: 7, End: 8, Line: 1, Column: 8, Expected: []string{"identifier"}, Message: "expected identifier"}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	out, err := RenderJSONReport(string(b), "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, out, "expected identifier")
}

// TestRenderJSONReport_SpecSchema posts exactly the wire schema spec §6
// documents for the JSON diagnostic entry point — filename, message,
// start, end — with no Line/Column/Expected fields at all, and checks
// the rendered output points at the given start/end range rather than
// silently defaulting to byte 0.
func TestRenderJSONReport_SpecSchema(t *testing.T) {
	source := "SELECT 1 FROM xyz"
	out, err := RenderJSONReport(`{"filename":"q.sql","message":"missing FROM target","start":14,"end":17}`, source)
	require.NoError(t, err)
	assert.Contains(t, out, "missing FROM target")
	assert.Contains(t, out, "column 15")
	assert.NotContains(t, out, "column 1:")
}

func TestRenderJSONReport_MalformedInput(t *testing.T) {
	_, err := RenderJSONReport("not json", "SELECT 1")
	assert.Error(t, err)
}
