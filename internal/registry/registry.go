// Package registry holds the static version-semantics knowledge the
// comparison core consults: which attributes are exclusive to a schema
// version, which attribute names were renamed between versions, declared
// value transforms, and fallback structural roles for matching.
//
// The data lives in an embedded YAML file and is loaded once at startup.
// Classification logic never changes when coverage grows; only the data
// does.
package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var embeddedData []byte

// equivalenceYAML is one renamed-attribute pair in the data file.
type equivalenceYAML struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// transformYAML is one declared value transform in the data file.
type transformYAML struct {
	Attribute string `yaml:"attribute"`
	Version   string `yaml:"version"`
	Op        string `yaml:"op"`
}

// dataYAML mirrors the embedded data file layout.
type dataYAML struct {
	VersionSpecific map[string]map[string][]string `yaml:"version_specific"`
	Equivalences    []equivalenceYAML              `yaml:"equivalences"`
	ValueTransforms []transformYAML                `yaml:"value_transforms"`
	FallbackTypes   map[string][]string            `yaml:"fallback_types"`
}

// Registry is the loaded, read-only version-semantics table set. Safe for
// concurrent use; never mutated after Load.
type Registry struct {
	// versionSpecific: version -> element type -> set of attribute names.
	versionSpecific map[string]map[string]map[string]bool

	// toCanonical maps both spellings of a renamed attribute to the
	// canonical (newer) spelling. Canonical names map to themselves, which
	// makes NormalizeAttributeName idempotent.
	toCanonical map[string]string

	// negated: version -> set of attributes whose numeric value flips sign
	// in that version.
	negated map[string]map[string]bool

	// fallbackTypes: element type -> ordered fallback candidate types.
	fallbackTypes map[string][]string
}

// Load parses the embedded data file into a Registry.
func Load() (*Registry, error) {
	return Parse(embeddedData)
}

// Parse builds a Registry from raw YAML data. Exposed so tests and callers
// with extended coverage can load their own tables.
func Parse(data []byte) (*Registry, error) {
	var raw dataYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse registry data: %w", err)
	}

	r := &Registry{
		versionSpecific: make(map[string]map[string]map[string]bool),
		toCanonical:     make(map[string]string),
		negated:         make(map[string]map[string]bool),
		fallbackTypes:   raw.FallbackTypes,
	}
	if r.fallbackTypes == nil {
		r.fallbackTypes = map[string][]string{}
	}

	for version, byType := range raw.VersionSpecific {
		typed := make(map[string]map[string]bool, len(byType))
		for elementType, attrs := range byType {
			set := make(map[string]bool, len(attrs))
			for _, a := range attrs {
				set[a] = true
			}
			typed[elementType] = set
		}
		r.versionSpecific[version] = typed
	}

	for _, eq := range raw.Equivalences {
		if eq.Old == "" || eq.New == "" {
			return nil, fmt.Errorf("equivalence entry missing old or new name: %+v", eq)
		}
		r.toCanonical[eq.Old] = eq.New
		r.toCanonical[eq.New] = eq.New
	}

	for _, tr := range raw.ValueTransforms {
		if tr.Op != "negate" {
			return nil, fmt.Errorf("unsupported value transform op %q for attribute %q", tr.Op, tr.Attribute)
		}
		set := r.negated[tr.Version]
		if set == nil {
			set = make(map[string]bool)
			r.negated[tr.Version] = set
		}
		set[tr.Attribute] = true
	}

	return r, nil
}

// IsVersionSpecificAttribute reports whether attr is registered as exclusive
// to the given schema version for the given element type.
func (r *Registry) IsVersionSpecificAttribute(elementType, attr, version string) bool {
	byType, ok := r.versionSpecific[version]
	if !ok {
		return false
	}
	set, ok := byType[elementType]
	if !ok {
		return false
	}
	return set[attr]
}

// NormalizeAttributeName folds a renamed attribute to its canonical spelling.
// Names without a registered rename normalize to themselves. Idempotent:
// NormalizeAttributeName(NormalizeAttributeName(x)) == NormalizeAttributeName(x).
func (r *Registry) NormalizeAttributeName(name string) string {
	if canonical, ok := r.toCanonical[name]; ok {
		return canonical
	}
	return name
}

// AreAttributeNamesEquivalent reports whether the two names refer to the same
// attribute across schema versions (identical, or registered as a rename of
// one another).
func (r *Registry) AreAttributeNamesEquivalent(a, b string) bool {
	return r.NormalizeAttributeName(a) == r.NormalizeAttributeName(b)
}

// IsNegated reports whether the attribute's numeric value carries a swapped
// sign convention in the given version. The differencer flips the value
// before comparing.
func (r *Registry) IsNegated(attr, version string) bool {
	return r.negated[version][attr]
}

// FallbackTypes returns the ordered fallback structural roles declared for
// the given element type, or nil when none are declared.
func (r *Registry) FallbackTypes(elementType string) []string {
	return r.fallbackTypes[elementType]
}
