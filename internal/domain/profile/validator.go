// Package profile implements schema-driven validation of configuration
// profiles against ProfileManifests definitions.
package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

// standardPayloadKeys are the envelope fields present on every payload
// regardless of its manifest. They are checked structurally, never
// against manifest subkey definitions.
var standardPayloadKeys = map[string]bool{
	"PayloadType":              true,
	"PayloadVersion":           true,
	"PayloadIdentifier":        true,
	"PayloadUUID":              true,
	"PayloadDisplayName":       true,
	"PayloadDescription":       true,
	"PayloadOrganization":      true,
	"PayloadContent":           true,
	"PayloadEnabled":           true,
	"PayloadScope":             true,
	"PayloadRemovalDisallowed": true,
}

// requiredEnvelopeKeys must be present on the outer profile and on every
// payload element.
var requiredEnvelopeKeys = []string{
	"PayloadType",
	"PayloadVersion",
	"PayloadIdentifier",
	"PayloadUUID",
}

// uiArtifactPrefix marks ProfileCreator UI keys that leak into some
// manifests' required sets. They are not real configuration keys.
const uiArtifactPrefix = "PFC_"

// Validator runs the document-level orchestration: structural checks,
// per-payload manifest validation, and document-wide uniqueness checks.
type Validator struct {
	parser   domain.ProfileParser
	resolver domain.ManifestResolver
}

// New creates a Validator from a parser and a manifest resolver.
func New(parser domain.ProfileParser, resolver domain.ManifestResolver) *Validator {
	return &Validator{parser: parser, resolver: resolver}
}

// ValidateFile parses and validates one profile. It never returns an
// error: parse failures become an E000 issue on the result.
func (v *Validator) ValidateFile(path string) *domain.ValidationResult {
	result := &domain.ValidationResult{
		FilePath:         path,
		ManifestVersions: make(map[string]int),
	}

	root, err := v.parser.ParseFile(path)
	if err != nil {
		msg := fmt.Sprintf("Invalid plist file: %v", err)
		if errors.Is(err, domain.ErrFileNotFound) {
			msg = "File not found"
		}
		result.Issues = append(result.Issues, domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeUnparseable,
			Message:  msg,
			KeyPath:  "(root)",
		})
		return result
	}

	if root.Kind != domain.KindDictionary {
		result.Issues = append(result.Issues, domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeUnparseable,
			Message:  "Profile root is not a dictionary",
			KeyPath:  "(root)",
			Expected: "dictionary",
			Actual:   root.Kind.String(),
		})
		return result
	}

	result.Issues = append(result.Issues, validateProfileStructure(root)...)

	seenUUIDs := make(map[string]bool)
	var identifiers []string

	if outerUUID := root.GetString("PayloadUUID"); outerUUID != "" {
		seenUUIDs[outerUUID] = true
	}
	identifiers = append(identifiers, root.GetString("PayloadIdentifier"))

	content, hasContent := root.Get("PayloadContent")
	if hasContent && content.Kind != domain.KindArray {
		result.Issues = append(result.Issues, domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeTypeMismatch,
			Message:  "PayloadContent must be an array",
			KeyPath:  "PayloadContent",
			Expected: "array",
			Actual:   content.Kind.String(),
		})
		return result
	}

	for idx, payload := range content.Items {
		prefix := fmt.Sprintf("PayloadContent[%d]", idx)

		if payload.Kind != domain.KindDictionary {
			result.Issues = append(result.Issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeTypeMismatch,
				Message:  "Payload must be a dictionary",
				KeyPath:  prefix,
				Expected: "dictionary",
				Actual:   payload.Kind.String(),
			})
			continue
		}

		payloadType := payload.GetString("PayloadType")
		result.PayloadTypes = append(result.PayloadTypes, payloadType)

		result.Issues = append(result.Issues, validatePayloadStructure(payload, prefix)...)

		if payloadUUID := payload.GetString("PayloadUUID"); payloadUUID != "" {
			if seenUUIDs[payloadUUID] {
				result.Issues = append(result.Issues, domain.Issue{
					Severity: domain.SeverityError,
					Code:     domain.CodeDuplicateUUID,
					Message:  "Duplicate PayloadUUID",
					KeyPath:  prefix + ".PayloadUUID",
					Actual:   payloadUUID,
				})
			}
			seenUUIDs[payloadUUID] = true
		}

		identifiers = append(identifiers, payload.GetString("PayloadIdentifier"))

		manifest, found := v.resolver.Resolve(payloadType)
		if !found {
			// Warning, not error: an unrecognized type may simply be a
			// manifest nobody has written yet.
			result.Issues = append(result.Issues, domain.Issue{
				Severity: domain.SeverityWarning,
				Code:     domain.CodeUnknownPayloadType,
				Message:  "Unknown PayloadType - no manifest found",
				KeyPath:  prefix + ".PayloadType",
				Actual:   payloadType,
			})
			continue
		}

		if version, ok := v.resolver.Version(payloadType); ok {
			result.ManifestVersions[payloadType] = version
		}
		result.Issues = append(result.Issues, validateAgainstManifest(payload, manifest, prefix)...)
	}

	result.Issues = append(result.Issues, duplicateIdentifierIssues(identifiers)...)

	return result
}

// validateProfileStructure checks the outer profile envelope.
func validateProfileStructure(root domain.Value) []domain.Issue {
	issues := validateEnvelope(root, "")

	if outerType, ok := root.Get("PayloadType"); !ok || outerType.Kind != domain.KindString || outerType.Str != "Configuration" {
		issue := domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeValueNotAllowed,
			Message:  "Outer PayloadType must be 'Configuration'",
			KeyPath:  "PayloadType",
			Expected: "Configuration",
		}
		if ok {
			issue.Actual = outerType.Display()
		}
		issues = append(issues, issue)
	}

	if _, ok := root.Get("PayloadOrganization"); !ok {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityInfo,
			Code:     domain.CodeMissingOrganization,
			Message:  "Consider adding PayloadOrganization",
			KeyPath:  "PayloadOrganization",
		})
	}

	return issues
}

// validatePayloadStructure checks one payload element's envelope, scoped
// under prefix.
func validatePayloadStructure(payload domain.Value, prefix string) []domain.Issue {
	return validateEnvelope(payload, prefix+".")
}

// validateEnvelope runs the checks shared by the outer profile and each
// payload: required keys, PayloadVersion == 1, and UUID syntax.
func validateEnvelope(dict domain.Value, pathPrefix string) []domain.Issue {
	var issues []domain.Issue

	for _, key := range requiredEnvelopeKeys {
		if _, ok := dict.Get(key); !ok {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeMissingRequiredKey,
				Message:  "Missing required key: " + key,
				KeyPath:  pathPrefix + key,
			})
		}
	}

	if version, ok := dict.Get("PayloadVersion"); ok {
		if version.Kind != domain.KindInteger || version.Int != 1 {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeBadPayloadVersion,
				Message:  "PayloadVersion should be 1",
				KeyPath:  pathPrefix + "PayloadVersion",
				Expected: 1,
				Actual:   version.Display(),
			})
		}
	}

	if u, ok := dict.Get("PayloadUUID"); ok && !(u.Kind == domain.KindString && u.Str == "") {
		if u.Kind != domain.KindString || !validUUID(u.Str) {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeInvalidUUID,
				Message:  "Invalid UUID format",
				KeyPath:  pathPrefix + "PayloadUUID",
				Actual:   u.Display(),
			})
		}
	}

	return issues
}

// validUUID accepts only the canonical 36-character hyphenated form.
// uuid.Parse alone would also accept braced and unhyphenated variants.
func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// validateAgainstManifest runs the schema-driven checks for one payload.
func validateAgainstManifest(payload domain.Value, manifest *domain.Manifest, prefix string) []domain.Issue {
	var issues []domain.Issue

	if len(manifest.Platforms) > 0 && !containsString(manifest.Platforms, "macOS") {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     domain.CodePlatformMismatch,
			Message:  "Manifest indicates this payload is not for macOS",
			KeyPath:  prefix,
			Expected: "macOS",
			Actual:   manifest.Platforms,
		})
	}

	names, defs := orderedDefs(manifest.Subkeys)

	for _, name := range names {
		if defs[name].Require != domain.RequireAlways {
			continue
		}
		if standardPayloadKeys[name] || hasUIArtifactPrefix(name) {
			continue
		}
		if _, ok := payload.Get(name); !ok {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeMissingRequiredKey,
				Message:  "Missing required key",
				KeyPath:  prefix + "." + name,
			})
		}
	}

	for _, key := range payload.Keys {
		if standardPayloadKeys[key] {
			continue
		}
		keyPath := prefix + "." + key
		if def, ok := defs[key]; ok {
			issues = append(issues, ValidateKey(keyPath, payload.Dict[key], def)...)
		} else {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityWarning,
				Code:     domain.CodeUnknownKey,
				Message:  "Unknown key not in manifest schema",
				KeyPath:  keyPath,
				Actual:   key,
			})
		}
	}

	return issues
}

// duplicateIdentifierIssues tallies non-empty PayloadIdentifier values
// across the whole document. This is independent from the duplicate-UUID
// error: identifiers are human-readable names and repeats are only worth
// an info note.
func duplicateIdentifierIssues(identifiers []string) []domain.Issue {
	counts := make(map[string]int)
	var order []string
	for _, id := range identifiers {
		if id == "" {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	var issues []domain.Issue
	for _, id := range order {
		if counts[id] > 1 {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityInfo,
				Code:     domain.CodeDuplicateIdentifier,
				Message:  fmt.Sprintf("PayloadIdentifier appears %d times", counts[id]),
				KeyPath:  "PayloadIdentifier",
				Actual:   id,
			})
		}
	}
	return issues
}

func hasUIArtifactPrefix(name string) bool {
	return len(name) >= len(uiArtifactPrefix) && name[:len(uiArtifactPrefix)] == uiArtifactPrefix
}

func containsString(list []string, s string) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
