package manifests

import "github.com/Talieisin/mobileconfig-validator/internal/domain"

// buildManifest converts a parsed pfm_* manifest plist into the domain
// schema tree.
func buildManifest(tree domain.Value) *domain.Manifest {
	m := &domain.Manifest{
		Domain:      tree.GetString("pfm_domain"),
		Title:       tree.GetString("pfm_title"),
		Description: tree.GetString("pfm_description"),
		Platforms:   stringList(tree, "pfm_platforms"),
		MacOSMin:    tree.GetString("pfm_macos_min"),
		Subkeys:     buildSubkeys(tree),
	}
	return m
}

// buildSubkeys collects pfm_subkeys and pfm_item_subkeys from a manifest
// or key-definition dictionary. The validator treats both the same way:
// for dictionary keys they describe children, for array keys the item
// shape.
func buildSubkeys(dict domain.Value) []domain.KeyDefinition {
	var defs []domain.KeyDefinition
	for _, field := range []string{"pfm_subkeys", "pfm_item_subkeys"} {
		raw, ok := dict.Get(field)
		if !ok || raw.Kind != domain.KindArray {
			continue
		}
		for _, item := range raw.Items {
			if item.Kind != domain.KindDictionary {
				continue
			}
			defs = append(defs, buildKeyDefinition(item))
		}
	}
	return defs
}

func buildKeyDefinition(dict domain.Value) domain.KeyDefinition {
	def := domain.KeyDefinition{
		Name:      dict.GetString("pfm_name"),
		Type:      dict.GetString("pfm_type"),
		Require:   dict.GetString("pfm_require"),
		Platforms: stringList(dict, "pfm_platforms"),
		MacOSMin:  dict.GetString("pfm_macos_min"),
		Format:    dict.GetString("pfm_format"),
		Subkeys:   buildSubkeys(dict),
	}

	if v, ok := dict.Get("pfm_deprecated"); ok && v.Kind == domain.KindBoolean {
		def.Deprecated = v.Bool
	}

	if v, ok := dict.Get("pfm_range_list"); ok && v.Kind == domain.KindArray {
		def.RangeList = v.Items
	}

	if v, ok := dict.Get("pfm_range_min"); ok && v.IsNumeric() {
		f := v.Float()
		def.RangeMin = &f
	}
	if v, ok := dict.Get("pfm_range_max"); ok && v.IsNumeric() {
		f := v.Float()
		def.RangeMax = &f
	}

	return def
}

func stringList(dict domain.Value, key string) []string {
	raw, ok := dict.Get(key)
	if !ok || raw.Kind != domain.KindArray {
		return nil
	}
	var out []string
	for _, item := range raw.Items {
		if item.Kind == domain.KindString {
			out = append(out, item.Str)
		}
	}
	return out
}
