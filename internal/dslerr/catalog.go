// Package dslerr renders internal/dsl diagnostics into user-facing text
// through a go-i18n message catalog, so the wording a script author sees
// lives in one translatable place instead of scattered fmt.Sprintf calls
// across the lexer/parser/typeck/compiler stages.
package dslerr

import (
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"vibelights/internal/dsl"
)

// Catalog wraps a go-i18n bundle scoped to a single locale. The zero
// value is not usable; construct one with NewCatalog.
type Catalog struct {
	localizer *i18n.Localizer
}

var messages = []*i18n.Message{
	{
		ID:    "diag.lexer",
		Other: "syntax error at line {{.Line}}, column {{.Column}}: {{.Message}}",
	},
	{
		ID:    "diag.parser",
		Other: "could not parse script at line {{.Line}}, column {{.Column}}: {{.Message}}",
	},
	{
		ID:    "diag.typeck",
		Other: "type error at line {{.Line}}, column {{.Column}}: {{.Message}}",
	},
	{
		ID:    "diag.compiler",
		Other: "internal compiler error: {{.Message}}",
	},
	{
		ID:    "diag.generic",
		Other: "{{.Message}}",
	},
	{
		ID:    "diag.summary",
		Other: "{{.ErrorCount}} error(s), {{.WarningCount}} warning(s)",
	},
}

// NewCatalog builds an English-only message catalog. Additional locales
// are added the same way go-i18n is meant to be extended: register a
// second language.Tag bundle and parse its message file alongside this
// one; only English is wired.
func NewCatalog() *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.AddMessages(language.English, messages...)
	return &Catalog{localizer: i18n.NewLocalizer(bundle, language.English.String())}
}

// Localize renders a single dsl.Diagnostic as a human-readable string.
func (c *Catalog) Localize(d dsl.Diagnostic) string {
	messageID := "diag." + string(d.Stage)
	data := map[string]interface{}{
		"Line":    d.Line,
		"Column":  d.Column,
		"Message": d.Message,
	}
	text, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		// Unknown stage: fall back to the generic template rather than
		// failing the whole render.
		text, _ = c.localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    "diag.generic",
			TemplateData: data,
		})
	}
	if d.Severity == dsl.SeverityWarning {
		return fmt.Sprintf("warning: %s", text)
	}
	return fmt.Sprintf("error: %s", text)
}

// Summarize renders a one-line count of errors vs. warnings across a
// diagnostic batch, e.g. for a CLI's final status line.
func (c *Catalog) Summarize(diags []dsl.Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		if d.Severity == dsl.SeverityWarning {
			warns++
		} else {
			errs++
		}
	}
	text, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: "diag.summary",
		TemplateData: map[string]interface{}{
			"ErrorCount":   errs,
			"WarningCount": warns,
		},
	})
	if err != nil {
		return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	}
	return text
}
