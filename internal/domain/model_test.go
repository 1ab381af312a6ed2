package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

func TestValidationResult_IsValid_NoIssues(t *testing.T) {
	r := &domain.ValidationResult{FilePath: "a.mobileconfig"}
	assert.True(t, r.IsValid())
	assert.Equal(t, 0, r.ErrorCount())
}

func TestValidationResult_IsValid_WarningsDoNotInvalidate(t *testing.T) {
	r := &domain.ValidationResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityWarning, Code: domain.CodeUnknownKey},
			{Severity: domain.SeverityInfo, Code: domain.CodeMissingOrganization},
		},
	}
	assert.True(t, r.IsValid())
	assert.Equal(t, 0, r.ErrorCount())
	assert.Equal(t, 1, r.WarningCount())
	assert.Equal(t, 1, r.InfoCount())
}

func TestValidationResult_IsValid_ErrorInvalidates(t *testing.T) {
	r := &domain.ValidationResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityError, Code: domain.CodeMissingRequiredKey},
		},
	}
	assert.False(t, r.IsValid())
	assert.Equal(t, 1, r.ErrorCount())
}

func TestBatchResult_Summary(t *testing.T) {
	batch := &domain.BatchResult{Results: []*domain.ValidationResult{
		{FilePath: "ok.mobileconfig"},
		{FilePath: "warn.mobileconfig", Issues: []domain.Issue{
			{Severity: domain.SeverityWarning, Code: domain.CodeDeprecatedKey},
		}},
		{FilePath: "bad.mobileconfig", Issues: []domain.Issue{
			{Severity: domain.SeverityError, Code: domain.CodeTypeMismatch},
			{Severity: domain.SeverityError, Code: domain.CodeValueOutOfRange},
			{Severity: domain.SeverityInfo, Code: domain.CodeDuplicateIdentifier},
		}},
	}}

	summary := batch.Summary()
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.ValidFiles)
	assert.Equal(t, 1, summary.InvalidFiles)
	assert.Equal(t, 2, summary.ErrorCount)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 1, summary.InfoCount)
	assert.False(t, summary.IsValid)
}

func TestBatchResult_Empty(t *testing.T) {
	batch := &domain.BatchResult{}
	summary := batch.Summary()
	assert.Equal(t, 0, summary.TotalFiles)
	assert.True(t, summary.IsValid)
}

func TestResultReport_NilSlicesSerializeAsEmpty(t *testing.T) {
	r := &domain.ValidationResult{FilePath: "a.mobileconfig"}
	data, err := json.Marshal(r.Report())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["issues"])
	assert.Equal(t, []any{}, decoded["payload_types"])
	assert.Equal(t, true, decoded["is_valid"])
}

func TestBatchReport_RoundTrip(t *testing.T) {
	batch := &domain.BatchResult{Results: []*domain.ValidationResult{
		{
			FilePath:         "dock.mobileconfig",
			PayloadTypes:     []string{"com.apple.dock"},
			ManifestVersions: map[string]int{"com.apple.dock": 12},
			Issues: []domain.Issue{
				{Severity: domain.SeverityError, Code: domain.CodeValueNotAllowed, KeyPath: "PayloadContent[0].orientation", Message: "Value not in allowed list"},
			},
		},
	}}

	data, err := json.Marshal(batch.Report())
	require.NoError(t, err)

	var decoded domain.BatchReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "dock.mobileconfig", decoded.Results[0].FilePath)
	assert.False(t, decoded.Results[0].IsValid)
	assert.Equal(t, 1, decoded.Results[0].ErrorCount)
	assert.Equal(t, 12, decoded.Results[0].ManifestVersions["com.apple.dock"])
	assert.Equal(t, 1, decoded.Summary.ErrorCount)
	assert.False(t, decoded.Summary.IsValid)
}
