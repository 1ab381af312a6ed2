package profile

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

// ValidateKey checks one payload key against its manifest definition and
// recurses into nested dictionaries and array items. Checks run in a
// fixed order; a type mismatch stops everything after it, so range and
// format checks never see a value of the wrong shape.
func ValidateKey(keyPath string, value domain.Value, def domain.KeyDefinition) []domain.Issue {
	var issues []domain.Issue

	if def.Deprecated {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     domain.CodeDeprecatedKey,
			Message:  "Key is deprecated",
			KeyPath:  keyPath,
		})
	}

	if def.Type != "" && !typeMatches(value, def.Type) {
		return append(issues, domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeTypeMismatch,
			Message:  "Type mismatch",
			KeyPath:  keyPath,
			Expected: def.Type,
			Actual:   value.Kind.String(),
		})
	}

	if len(def.RangeList) > 0 && !containsValue(def.RangeList, value) {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityError,
			Code:     domain.CodeValueNotAllowed,
			Message:  "Value not in allowed list",
			KeyPath:  keyPath,
			Expected: displayList(def.RangeList),
			Actual:   value.Display(),
		})
	}

	if value.IsNumeric() {
		if def.RangeMin != nil && value.Float() < *def.RangeMin {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeValueOutOfRange,
				Message:  "Value below minimum",
				KeyPath:  keyPath,
				Expected: ">= " + formatNumber(*def.RangeMin),
				Actual:   value.Display(),
			})
		}
		if def.RangeMax != nil && value.Float() > *def.RangeMax {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityError,
				Code:     domain.CodeValueOutOfRange,
				Message:  "Value above maximum",
				KeyPath:  keyPath,
				Expected: "<= " + formatNumber(*def.RangeMax),
				Actual:   value.Display(),
			})
		}
	}

	if def.Format != "" && value.Kind == domain.KindString {
		// A broken pattern is a manifest bug, not a profile problem.
		if re, err := regexp.Compile(def.Format); err == nil {
			if loc := re.FindStringIndex(value.Str); loc == nil || loc[0] != 0 {
				issues = append(issues, domain.Issue{
					Severity: domain.SeverityError,
					Code:     domain.CodeFormatViolation,
					Message:  "Value doesn't match required format",
					KeyPath:  keyPath,
					Expected: def.Format,
					Actual:   value.Str,
				})
			}
		}
	}

	if def.Type == "dictionary" && value.Kind == domain.KindDictionary && len(def.Subkeys) > 0 {
		issues = append(issues, validateNestedDict(keyPath, value, def.Subkeys)...)
	}

	if def.Type == "array" && value.Kind == domain.KindArray && len(def.Subkeys) > 0 {
		issues = append(issues, validateArrayItems(keyPath, value, def)...)
	}

	return issues
}

func validateNestedDict(keyPath string, value domain.Value, subkeys []domain.KeyDefinition) []domain.Issue {
	var issues []domain.Issue
	names, defs := orderedDefs(subkeys)

	for _, name := range names {
		if defs[name].Require == domain.RequireAlways {
			if _, ok := value.Get(name); !ok {
				issues = append(issues, domain.Issue{
					Severity: domain.SeverityError,
					Code:     domain.CodeMissingRequiredKey,
					Message:  "Missing required key",
					KeyPath:  keyPath + "." + name,
				})
			}
		}
	}

	// Keys without a definition are ignored here; unknown-key warnings
	// are only emitted at the payload top level.
	for _, k := range value.Keys {
		if d, ok := defs[k]; ok {
			issues = append(issues, ValidateKey(keyPath+"."+k, value.Dict[k], d)...)
		}
	}

	return issues
}

func validateArrayItems(keyPath string, value domain.Value, def domain.KeyDefinition) []domain.Issue {
	var issues []domain.Issue

	names, defs := orderedDefs(def.Subkeys)
	names, defs = unwrapItemSchema(names, defs, value.Items)
	stringDef, hasStringDef := stringItemDef(def.Subkeys)

	for idx, item := range value.Items {
		elemPath := fmt.Sprintf("%s[%d]", keyPath, idx)

		switch {
		case item.Kind == domain.KindDictionary:
			for _, name := range names {
				if defs[name].Require == domain.RequireAlways {
					if _, ok := item.Get(name); !ok {
						issues = append(issues, domain.Issue{
							Severity: domain.SeverityError,
							Code:     domain.CodeMissingRequiredKey,
							Message:  "Missing required key",
							KeyPath:  elemPath + "." + name,
						})
					}
				}
			}
			for _, k := range item.Keys {
				if d, ok := defs[k]; ok {
					issues = append(issues, ValidateKey(elemPath+"."+k, item.Dict[k], d)...)
				}
			}

		case item.Kind == domain.KindString && hasStringDef:
			if len(stringDef.RangeList) > 0 && !containsValue(stringDef.RangeList, item) {
				issues = append(issues, domain.Issue{
					Severity: domain.SeverityError,
					Code:     domain.CodeValueNotAllowed,
					Message:  "Value not in allowed list",
					KeyPath:  elemPath,
					Expected: fmt.Sprintf("One of %d allowed values", len(stringDef.RangeList)),
					Actual:   item.Str,
				})
			}
		}
	}

	return issues
}

// unwrapItemSchema corrects the ProfileManifests wrapper pattern: an array
// whose item shape is declared as a single dictionary subkey wrapping the
// real fields, while actual profiles store the fields directly on each
// item. If any element does contain the wrapper key, the schema is taken
// literally.
func unwrapItemSchema(names []string, defs map[string]domain.KeyDefinition, items []domain.Value) ([]string, map[string]domain.KeyDefinition) {
	if len(defs) != 1 {
		return names, defs
	}

	wrapperName := names[0]
	wrapper := defs[wrapperName]
	if wrapper.Type != "dictionary" {
		return names, defs
	}

	for _, item := range items {
		if item.Kind == domain.KindDictionary {
			if _, ok := item.Get(wrapperName); ok {
				return names, defs
			}
		}
	}

	if len(wrapper.Subkeys) > 0 {
		return orderedDefs(wrapper.Subkeys)
	}
	return names, defs
}

// stringItemDef returns the single string-typed subkey definition for an
// array, if that is all the item schema consists of. Its range list then
// constrains string elements directly.
func stringItemDef(subkeys []domain.KeyDefinition) (domain.KeyDefinition, bool) {
	if len(subkeys) != 1 || subkeys[0].Type != "string" {
		return domain.KeyDefinition{}, false
	}
	return subkeys[0], true
}

// orderedDefs returns subkey names in schema order (first occurrence wins
// for position, last wins for the definition) alongside the name lookup.
func orderedDefs(subkeys []domain.KeyDefinition) ([]string, map[string]domain.KeyDefinition) {
	defs := domain.ImmediateSubkeys(subkeys)
	names := make([]string, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, d := range subkeys {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		names = append(names, d.Name)
	}
	return names, defs
}

func typeMatches(v domain.Value, declared string) bool {
	switch declared {
	case "string":
		return v.Kind == domain.KindString
	case "integer":
		return v.Kind == domain.KindInteger
	case "real":
		// Manifests declare "real" for values that plists may store as
		// either integer or float.
		return v.IsNumeric()
	case "boolean":
		if v.Kind == domain.KindBoolean {
			return true
		}
		// Apple tooling writes booleans as integers 0/1.
		return v.Kind == domain.KindInteger && (v.Int == 0 || v.Int == 1)
	case "date":
		return v.Kind == domain.KindDate
	case "data":
		return v.Kind == domain.KindData
	case "array":
		return v.Kind == domain.KindArray
	case "dictionary":
		return v.Kind == domain.KindDictionary
	}
	// Unknown declared type: assume valid rather than reject profiles
	// the manifest author typo'd.
	return true
}

func containsValue(list []domain.Value, v domain.Value) bool {
	for _, candidate := range list {
		if candidate.Equal(v) {
			return true
		}
	}
	return false
}

func displayList(list []domain.Value) []any {
	out := make([]any, 0, len(list))
	for _, v := range list {
		out = append(out, v.Display())
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
