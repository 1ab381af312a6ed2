package domain

// RequireAlways marks a key that must be present (pfm_require="always").
// Other values ("push", "always-nested", ...) are advisory and not enforced.
const RequireAlways = "always"

// KeyDefinition is one key's schema within a manifest: its declared type
// and constraints, plus nested definitions for dictionary and array keys.
type KeyDefinition struct {
	Name       string
	Type       string
	Require    string
	Deprecated bool
	Platforms  []string
	MacOSMin   string
	RangeList  []Value  // allowed values (enum)
	RangeMin   *float64 // numeric minimum
	RangeMax   *float64 // numeric maximum
	Format     string   // regex pattern
	Subkeys    []KeyDefinition
}

// Manifest is the parsed schema for one payload type.
type Manifest struct {
	Domain      string
	Title       string
	Description string
	Platforms   []string
	MacOSMin    string
	Subkeys     []KeyDefinition
}

// ImmediateSubkeys maps the direct children of a subkey list by name,
// one nesting level only. The validation engine recomputes this view at
// every recursion step.
func ImmediateSubkeys(defs []KeyDefinition) map[string]KeyDefinition {
	out := make(map[string]KeyDefinition, len(defs))
	for _, d := range defs {
		if d.Name != "" {
			out[d.Name] = d
		}
	}
	return out
}

// FlattenedKeys collapses every definition in the manifest, including
// nested and array-item descendants, into one mapping. Nested keys get
// compound names (parent.child, parent[].field). The engine never uses
// this view; it exists for key-inventory tooling.
func (m *Manifest) FlattenedKeys() map[string]KeyDefinition {
	out := make(map[string]KeyDefinition)
	flattenSubkeys(m.Subkeys, "", out)
	return out
}

func flattenSubkeys(defs []KeyDefinition, prefix string, out map[string]KeyDefinition) {
	for _, d := range defs {
		if d.Name == "" {
			continue
		}
		path := d.Name
		if prefix != "" {
			path = prefix + "." + d.Name
		}
		out[path] = d
		if len(d.Subkeys) == 0 {
			continue
		}
		childPrefix := path
		if d.Type == "array" {
			childPrefix = path + "[]"
		}
		flattenSubkeys(d.Subkeys, childPrefix, out)
	}
}
