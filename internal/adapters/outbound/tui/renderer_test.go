package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

func init() {
	// Plain output so assertions see no ANSI escapes.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func failingResult() *domain.ValidationResult {
	return &domain.ValidationResult{
		FilePath:         "bad.mobileconfig",
		PayloadTypes:     []string{"com.apple.dock"},
		ManifestVersions: map[string]int{"com.apple.dock": 12},
		Issues: []domain.Issue{
			{
				Severity: domain.SeverityError,
				Code:     domain.CodeValueNotAllowed,
				Message:  "Value not in allowed list",
				KeyPath:  "PayloadContent[0].orientation",
				Expected: []any{"left", "right", "bottom"},
				Actual:   "top",
			},
			{
				Severity: domain.SeverityWarning,
				Code:     domain.CodeUnknownKey,
				Message:  "Unknown key not in manifest schema",
				KeyPath:  "PayloadContent[0].mystery",
			},
			{
				Severity: domain.SeverityInfo,
				Code:     domain.CodeMissingOrganization,
				Message:  "Consider adding PayloadOrganization",
				KeyPath:  "PayloadOrganization",
			},
		},
	}
}

func TestRenderResult_Pass(t *testing.T) {
	r := NewRenderer(false)
	out := r.RenderResult(&domain.ValidationResult{
		FilePath:     "ok.mobileconfig",
		PayloadTypes: []string{"com.apple.screensaver"},
	})

	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "ok.mobileconfig")
	assert.Contains(t, out, "Manifest: com.apple.screensaver")
	assert.NotContains(t, out, "ERRORS")
}

func TestRenderResult_Fail(t *testing.T) {
	out := NewRenderer(false).RenderResult(failingResult())

	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Manifest: com.apple.dock (v12)")
	assert.Contains(t, out, "ERRORS (1):")
	assert.Contains(t, out, "WARNINGS (1):")
	assert.Contains(t, out, "INFOS (1):")
	assert.Contains(t, out, "[E004] PayloadContent[0].orientation: Value not in allowed list")
	assert.Contains(t, out, "Expected: [left right bottom]")
	assert.Contains(t, out, "Got: top")

	// Errors come before warnings, warnings before info.
	errIdx := strings.Index(out, "ERRORS")
	warnIdx := strings.Index(out, "WARNINGS")
	infoIdx := strings.Index(out, "INFOS")
	assert.Less(t, errIdx, warnIdx)
	assert.Less(t, warnIdx, infoIdx)
}

func TestRenderResult_QuietHidesNonErrors(t *testing.T) {
	out := NewRenderer(true).RenderResult(failingResult())

	assert.Contains(t, out, "ERRORS (1):")
	assert.NotContains(t, out, "WARNINGS")
	assert.NotContains(t, out, "INFOS")
}

func TestRenderSummary(t *testing.T) {
	batch := &domain.BatchResult{Results: []*domain.ValidationResult{
		{FilePath: "ok.mobileconfig"},
		failingResult(),
	}}
	out := NewRenderer(false).RenderSummary(batch)

	assert.Contains(t, out, "VALIDATION SUMMARY")
	assert.Contains(t, out, "Files checked:    2")
	assert.Contains(t, out, "Valid:            1")
	assert.Contains(t, out, "Invalid:          1")
	assert.Contains(t, out, "Errors:         1")
	assert.Contains(t, out, "Warnings:       1")
	assert.Contains(t, out, "Info:           1")
}

func TestRenderSummary_QuietSkipsWarnAndInfoLines(t *testing.T) {
	batch := &domain.BatchResult{Results: []*domain.ValidationResult{failingResult()}}
	out := NewRenderer(true).RenderSummary(batch)

	assert.Contains(t, out, "Errors:")
	assert.NotContains(t, out, "Warnings:")
	assert.NotContains(t, out, "Info:")
}

func TestRenderBatch_EndsWithSummary(t *testing.T) {
	batch := &domain.BatchResult{Results: []*domain.ValidationResult{failingResult()}}
	out := NewRenderer(false).RenderBatch(batch)

	assert.Contains(t, out, "FAIL")
	assert.Less(t, strings.Index(out, "FAIL"), strings.Index(out, "VALIDATION SUMMARY"))
}

func TestFormatValue_TruncatesLongLists(t *testing.T) {
	long := []any{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, "[a, b, c, d, e, ...] (7 items)", formatValue(long))

	short := []any{"a", "b"}
	assert.Equal(t, "[a b]", formatValue(short))
	assert.Equal(t, "42", formatValue(42))
}
