package rowset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderAndRows(t *testing.T) {
	input := "name,email,course\nAda Lovelace,ada@example.com,Analytical Engines\nAlan Turing,alan@example.com,Computability\nGrace Hopper,grace@example.com,Compilers\n"

	rs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "email", "course"}, rs.Headers)
	require.Equal(t, 3, rs.Len())
	assert.Equal(t, "ada@example.com", rs.Rows[0]["email"])
	assert.Equal(t, "Compilers", rs.Rows[2]["course"])
}

func TestParseTrimsHeaderWhitespace(t *testing.T) {
	rs, err := Parse(strings.NewReader(" name , email \nAda,ada@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, rs.Headers)
	assert.Equal(t, "Ada", rs.Rows[0]["name"])
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.EqualError(t, err, "row-set is empty")
}

func TestParseBlankHeader(t *testing.T) {
	_, err := Parse(strings.NewReader(" , \nAda,ada@example.com\n"))
	assert.EqualError(t, err, "row-set has no header row")
}

func TestParseRaggedRecordIsAnError(t *testing.T) {
	_, err := Parse(strings.NewReader("name,email\nAda\n"))
	assert.Error(t, err)
}

func TestRowOutOfRangeReturnsNil(t *testing.T) {
	rs, err := Parse(strings.NewReader("name\nAda\n"))
	require.NoError(t, err)
	assert.Nil(t, rs.Row(-1))
	assert.Nil(t, rs.Row(1))
	assert.NotNil(t, rs.Row(0))
}
