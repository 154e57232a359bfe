package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(id("anything")))

	require.NoError(t, filters.MustMatch.Set("^profile"))
	require.NoError(t, filters.MustNotMatch.Set("upload$"))
	assert.True(t, filters.AsFilter(id("profile editing")))
	assert.True(t, filters.AsFilter(id("profile editing", "save")))
	assert.False(t, filters.AsFilter(id("profile editing", "upload")))
	assert.False(t, filters.AsFilter(id("login validation")))

	assert.Error(t, filters.MustMatch.Set("("))
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("a"))
	require.NoError(t, filters.MustMatch.Set("b"))
	PrintFilterDescription(&buf, filters)
	assert.Equal(t, "Some tests will be skipped based on the filter criteria for this test run:\n"+
		`  skip any not matching "a" or "b"`+"\n\n", buf.String())
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	var a, b CapturingLogger
	MultiLogger(&a, nil, &b).Printf("hello %s", "world")

	require.Len(t, a.Output(), 1)
	assert.Equal(t, "hello world", a.Output()[0].Message)
	assert.Equal(t, a.Output()[0].Message, b.Output()[0].Message)
}
