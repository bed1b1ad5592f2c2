package section

import (
	"strings"

	"github.com/harrison/modeldiff/internal/model"
)

// ResolveOptions configures profile type resolution.
type ResolveOptions struct {
	// Default is the category returned when nothing resolves. Zero value
	// means ProfileGeneral.
	Default ProfileType
}

// ResolveProfileType classifies a section description onto the canonical
// profile enumeration. The priority chain:
//
//  1. explicit type field, through the alias table;
//  2. profile hint carried alongside the dimensions;
//  3. legacy numeric type codes;
//  4. dimension-signature inference (diameter+wall -> pipe,
//     depth+width+web+flange -> H, width+height+thickness -> box, ...).
//
// An unresolvable profile falls back to the declared default category; this
// function never fails. It is shared with the geometry-generation
// collaborator so both sides agree on profile classification.
func ResolveProfileType(sec *model.SectionData, opts ResolveOptions) ProfileType {
	fallback := opts.Default
	if fallback == "" {
		fallback = ProfileGeneral
	}
	if sec == nil {
		return fallback
	}

	if sec.IsComposite() {
		return ProfileComposite
	}
	if p, ok := lookupAlias(sec.TypeField); ok {
		return p
	}
	if p, ok := lookupAlias(sec.ProfileHint); ok {
		return p
	}
	if p, ok := lookupLegacy(sec.TypeField); ok {
		return p
	}
	if p, ok := inferFromDimensions(sec); ok {
		return p
	}
	return fallback
}

// inferFromDimensions recognizes a profile from the dimension set alone.
// Signature order matters: the more specific sets are checked first.
func inferFromDimensions(sec *model.SectionData) (ProfileType, bool) {
	has := func(name string) bool { return hasDim(sec, name) }

	switch {
	case has("D") && (has("t") || has("tw")):
		return ProfilePipe, true
	case has("H") && has("B") && has("tw") && has("tf"):
		return ProfileH, true
	case has("B") && has("H") && has("t"):
		return ProfileBox, true
	case has("B") && has("H"):
		return ProfileRectangle, true
	case has("D"):
		return ProfileCircle, true
	}
	return "", false
}

// hasDim reports dimension presence, case-insensitively.
func hasDim(sec *model.SectionData, name string) bool {
	_, ok := lookupDim(sec, name)
	return ok
}

// lookupDim finds a dimension value by case-insensitive name.
func lookupDim(sec *model.SectionData, name string) (float64, bool) {
	if v, ok := sec.Dimensions[name]; ok {
		return v, true
	}
	for k, v := range sec.Dimensions {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return 0, false
}
