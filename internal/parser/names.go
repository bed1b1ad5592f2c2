// Package parser is the document-side collaborator of the comparison core:
// it loads model documents into element graphs, resolves element names to
// canonical structural roles, runs the cross-version reorganization pre-pass,
// and extracts section descriptions for the equivalence evaluator.
package parser

import "strings"

// elementAliases folds raw document tags onto canonical structural roles.
// Keys are upper-cased; lookup is case-insensitive. Tags not listed here
// normalize to themselves.
var elementAliases = map[string]string{
	"COLUMN":     "Column",
	"POST":       "Column",
	"PILLAR":     "Column",
	"BEAM":       "Beam",
	"GIRDER":     "Girder",
	"BRACE":      "Brace",
	"WALL":       "Wall",
	"SHEARWALL":  "ShearWall",
	"SLAB":       "Slab",
	"DECK":       "Slab",
	"FOOTING":    "Footing",
	"FOUNDATION": "Footing",
	"SECTION":    "Section",
	"OFFSET":     "Offset",
	"STEEL":      "Steel",
	"CONCRETE":   "Concrete",
}

// roleKinds maps kind/role attribute values to canonical structural roles,
// for schema versions that renamed elements to a generic tag discriminated
// by a kind attribute (e.g. <Member kind="BEAM">).
var roleKinds = map[string]string{
	"COLUMN":    "Column",
	"BEAM":      "Beam",
	"GIRDER":    "Girder",
	"BRACE":     "Brace",
	"WALL":      "Wall",
	"SHEARWALL": "ShearWall",
	"SLAB":      "Slab",
	"FOOTING":   "Footing",
}

// NormalizeElementName resolves a raw document tag to its canonical
// structural role. Unknown tags pass through unchanged.
func NormalizeElementName(tag string) string {
	if canonical, ok := elementAliases[strings.ToUpper(strings.TrimSpace(tag))]; ok {
		return canonical
	}
	return tag
}

// AreElementNamesEquivalent reports whether two raw tags resolve to the same
// structural role.
func AreElementNamesEquivalent(tagA, tagB string) bool {
	return NormalizeElementName(tagA) == NormalizeElementName(tagB)
}

// roleForKind resolves a kind attribute value to a structural role. Returns
// empty string when the kind is not recognized.
func roleForKind(kind string) string {
	return roleKinds[strings.ToUpper(strings.TrimSpace(kind))]
}
