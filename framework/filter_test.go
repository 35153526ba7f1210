package framework

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFilters(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter(id("leads", "get lead")), "empty filters match everything")

	require.NoError(t, f.MustMatch.Set("^leads"))
	assert.True(t, f.AsFilter(id("leads", "get lead")))
	assert.False(t, f.AsFilter(id("documents", "get document")))

	require.NoError(t, f.MustNotMatch.Set("delete"))
	assert.False(t, f.AsFilter(id("leads", "delete lead")))
	assert.True(t, f.AsFilter(id("leads", "update lead")))
}

func TestRegexListRejectsBadPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("(unclosed"))
	assert.False(t, r.IsDefined())
}

func TestRegexListString(t *testing.T) {
	var r RegexList
	require.NoError(t, r.Set("a"))
	require.NoError(t, r.Set("b"))
	assert.Equal(t, `"a" or "b"`, r.String())
	assert.Equal(t, "regex", r.Type())
}

func TestExactTestPattern(t *testing.T) {
	target := id("call integration", "get call recording")
	rx := regexp.MustCompile(ExactTestPattern(target))

	assert.True(t, rx.MatchString(target.String()))
	assert.False(t, rx.MatchString("call integration/get call recording 2"))
	assert.False(t, rx.MatchString("call integration"))
}

func TestPrintFilterDescription(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("leads"))
	var buf bytes.Buffer

	PrintFilterDescription(&buf, f, []string{"get_document", "list_documents"})

	assert.Equal(t, `Some tests will be skipped based on the filter criteria for this test run:
  skip any not matching "leads"

Some tests will be skipped because the CRM service does not declare the following capabilities:
  get_document, list_documents

`, buf.String())
}

func TestPrintFilterDescriptionWithNothingToSay(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{}, nil)
	assert.Empty(t, buf.String())
}
