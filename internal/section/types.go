// Package section evaluates the dimensional and material equivalence of two
// cross-section descriptions. The same physical profile is expressed through
// different attribute sets across schema versions and sub-types, so the
// evaluator first resolves both sections onto a canonical profile
// enumeration, then runs a sequence of independent pass/fail checks under a
// configurable numeric tolerance.
package section

import "strings"

// ProfileType is the canonical profile enumeration. Spelling variants across
// schema versions fold onto these tokens through the alias table.
type ProfileType string

const (
	ProfileH         ProfileType = "H"
	ProfilePipe      ProfileType = "PIPE"
	ProfileBox       ProfileType = "BOX"
	ProfileRectangle ProfileType = "RECTANGLE"
	ProfileCircle    ProfileType = "CIRCLE"
	ProfileChannel   ProfileType = "CHANNEL"
	ProfileAngle     ProfileType = "ANGLE"
	ProfileTee       ProfileType = "TEE"
	ProfileComposite ProfileType = "COMPOSITE"

	// ProfileGeneral is the declared default category for sections whose
	// profile cannot be resolved. Resolution never fails hard.
	ProfileGeneral ProfileType = "GENERAL"
)

// profileAliases folds the spelling variants observed across schema versions
// and authoring tools onto canonical tokens. Keys are upper-cased.
var profileAliases = map[string]ProfileType{
	"H":          ProfileH,
	"I":          ProfileH,
	"W":          ProfileH,
	"HBEAM":      ProfileH,
	"IBEAM":      ProfileH,
	"WIDEFLANGE": ProfileH,

	"P":    ProfilePipe,
	"PIPE": ProfilePipe,
	"O":    ProfilePipe,
	"CHS":  ProfilePipe,

	"B":    ProfileBox,
	"BOX":  ProfileBox,
	"TUBE": ProfileBox,
	"RHS":  ProfileBox,

	"SB":        ProfileRectangle,
	"RECT":      ProfileRectangle,
	"RECTANGLE": ProfileRectangle,

	"SR":     ProfileCircle,
	"ROUND":  ProfileCircle,
	"CIRCLE": ProfileCircle,

	"C":       ProfileChannel,
	"U":       ProfileChannel,
	"CHANNEL": ProfileChannel,

	"L":     ProfileAngle,
	"ANGLE": ProfileAngle,

	"T":   ProfileTee,
	"TEE": ProfileTee,

	"SRC":       ProfileComposite,
	"COMPOSITE": ProfileComposite,
}

// legacyTypeAliases maps the numeric type codes of pre-2.0 documents onto
// canonical tokens. Consulted after the alias table, before dimension
// inference.
var legacyTypeAliases = map[string]ProfileType{
	"1": ProfileH,
	"2": ProfileBox,
	"3": ProfilePipe,
	"4": ProfileRectangle,
	"5": ProfileCircle,
	"6": ProfileChannel,
	"7": ProfileAngle,
	"8": ProfileTee,
}

// lookupAlias resolves a raw type token through the alias table.
func lookupAlias(token string) (ProfileType, bool) {
	p, ok := profileAliases[strings.ToUpper(strings.TrimSpace(token))]
	return p, ok
}

// lookupLegacy resolves a legacy numeric type code.
func lookupLegacy(token string) (ProfileType, bool) {
	p, ok := legacyTypeAliases[strings.TrimSpace(token)]
	return p, ok
}
