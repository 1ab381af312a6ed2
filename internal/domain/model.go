package domain

// Severity levels for validation issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue codes. The numbering follows the ProfileManifests validator
// convention: E-codes for structural violations, W-codes for advisories,
// I-codes for suggestions. CodeUnknownPayloadType sits in the E-space but
// is emitted at warning severity; the mismatch is historical and callers
// depend on the documented severity, not the prefix.
const (
	CodeUnparseable        = "E000" // file missing or not a plist
	CodeUnknownPayloadType = "E001" // no manifest for PayloadType (warning)
	CodeMissingRequiredKey = "E002"
	CodeTypeMismatch       = "E003"
	CodeValueNotAllowed    = "E004"
	CodeValueOutOfRange    = "E005"
	CodeFormatViolation    = "E006"
	CodeInvalidUUID        = "E007"
	CodeBadPayloadVersion  = "E008"
	CodeDuplicateUUID      = "E009"

	CodeDeprecatedKey    = "W001"
	CodeUnknownKey       = "W002"
	CodePlatformMismatch = "W003"

	CodeMissingOrganization = "I002"
	CodeDuplicateIdentifier = "I003"
)

// Issue is a single finding at a key path within a profile.
type Issue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	KeyPath  string `json:"key_path"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
}

// ValidationResult holds everything discovered while validating one profile.
type ValidationResult struct {
	FilePath         string         `json:"file_path"`
	PayloadTypes     []string       `json:"payload_types"`
	ManifestVersions map[string]int `json:"manifest_versions,omitempty"`
	Issues           []Issue        `json:"issues"`
}

// IsValid reports whether the profile has no error-severity issues.
// Warnings and info never affect validity.
func (r *ValidationResult) IsValid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *ValidationResult) ErrorCount() int   { return r.countSeverity(SeverityError) }
func (r *ValidationResult) WarningCount() int { return r.countSeverity(SeverityWarning) }
func (r *ValidationResult) InfoCount() int    { return r.countSeverity(SeverityInfo) }

func (r *ValidationResult) countSeverity(sev string) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// BatchResult aggregates the results of validating multiple profiles.
// All totals are derived by summation; nothing is stored twice.
type BatchResult struct {
	Results []*ValidationResult
}

func (b *BatchResult) TotalFiles() int { return len(b.Results) }

func (b *BatchResult) ValidFiles() int {
	n := 0
	for _, r := range b.Results {
		if r.IsValid() {
			n++
		}
	}
	return n
}

func (b *BatchResult) InvalidFiles() int { return b.TotalFiles() - b.ValidFiles() }

func (b *BatchResult) ErrorCount() int {
	n := 0
	for _, r := range b.Results {
		n += r.ErrorCount()
	}
	return n
}

func (b *BatchResult) WarningCount() int {
	n := 0
	for _, r := range b.Results {
		n += r.WarningCount()
	}
	return n
}

func (b *BatchResult) InfoCount() int {
	n := 0
	for _, r := range b.Results {
		n += r.InfoCount()
	}
	return n
}

func (b *BatchResult) IsValid() bool {
	for _, r := range b.Results {
		if !r.IsValid() {
			return false
		}
	}
	return true
}

// Summary is the serializable roll-up of a batch, as emitted in JSON output.
type Summary struct {
	TotalFiles   int  `json:"total_files"`
	ValidFiles   int  `json:"valid_files"`
	InvalidFiles int  `json:"invalid_files"`
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
	InfoCount    int  `json:"info_count"`
	IsValid      bool `json:"is_valid"`
}

func (b *BatchResult) Summary() Summary {
	return Summary{
		TotalFiles:   b.TotalFiles(),
		ValidFiles:   b.ValidFiles(),
		InvalidFiles: b.InvalidFiles(),
		ErrorCount:   b.ErrorCount(),
		WarningCount: b.WarningCount(),
		InfoCount:    b.InfoCount(),
		IsValid:      b.IsValid(),
	}
}

// ResultReport is a ValidationResult with its derived fields materialized,
// for JSON serialization.
type ResultReport struct {
	FilePath         string         `json:"file_path"`
	IsValid          bool           `json:"is_valid"`
	PayloadTypes     []string       `json:"payload_types"`
	ManifestVersions map[string]int `json:"manifest_versions,omitempty"`
	ErrorCount       int            `json:"error_count"`
	WarningCount     int            `json:"warning_count"`
	InfoCount        int            `json:"info_count"`
	Issues           []Issue        `json:"issues"`
}

func (r *ValidationResult) Report() ResultReport {
	issues := r.Issues
	if issues == nil {
		issues = []Issue{}
	}
	types := r.PayloadTypes
	if types == nil {
		types = []string{}
	}
	return ResultReport{
		FilePath:         r.FilePath,
		IsValid:          r.IsValid(),
		PayloadTypes:     types,
		ManifestVersions: r.ManifestVersions,
		ErrorCount:       r.ErrorCount(),
		WarningCount:     r.WarningCount(),
		InfoCount:        r.InfoCount(),
		Issues:           issues,
	}
}

// BatchReport is the full JSON document for a batch run.
type BatchReport struct {
	Results []ResultReport `json:"results"`
	Summary Summary        `json:"summary"`
}

func (b *BatchResult) Report() BatchReport {
	reports := make([]ResultReport, 0, len(b.Results))
	for _, r := range b.Results {
		reports = append(reports, r.Report())
	}
	return BatchReport{Results: reports, Summary: b.Summary()}
}
