package dslerr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vibelights/internal/dsl"
)

func TestLocalizeRendersStageSpecificTemplate(t *testing.T) {
	c := NewCatalog()
	msg := c.Localize(dsl.Diagnostic{
		Stage:    dsl.StageTypeck,
		Severity: dsl.SeverityError,
		Message:  "undefined identifier 'foo'",
		Line:     3,
		Column:   7,
	})
	assert.Contains(t, msg, "type error")
	assert.Contains(t, msg, "line 3, column 7")
	assert.Contains(t, msg, "undefined identifier 'foo'")
}

func TestLocalizeMarksWarningsDistinctlyFromErrors(t *testing.T) {
	c := NewCatalog()
	msg := c.Localize(dsl.Diagnostic{
		Stage:    dsl.StageCompiler,
		Severity: dsl.SeverityWarning,
		Message:  "unreachable code",
	})
	assert.Contains(t, msg, "warning:")
}

func TestSummarizeCountsErrorsAndWarnings(t *testing.T) {
	c := NewCatalog()
	diags := []dsl.Diagnostic{
		{Severity: dsl.SeverityError},
		{Severity: dsl.SeverityError},
		{Severity: dsl.SeverityWarning},
	}
	summary := c.Summarize(diags)
	assert.Contains(t, summary, "2")
	assert.Contains(t, summary, "1")
}
