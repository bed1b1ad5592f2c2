// Package diff computes and classifies attribute-level differences for a
// matched element pair. The differencer produces the raw union diff over
// normalized attribute names; the classifier assigns each difference exactly
// one cause using the version-semantics registry.
package diff

import (
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/registry"
)

// Differ computes version-aware attribute diffs.
type Differ struct {
	reg *registry.Registry
}

// New creates a Differ backed by the given registry.
func New(reg *registry.Registry) *Differ {
	return &Differ{reg: reg}
}

// rawEntry is one attribute of the union of both sides, keyed by canonical
// name, before classification.
type rawEntry struct {
	canonical string

	// nameA / nameB are the spellings each side uses; empty when absent.
	nameA, nameB string

	valueA, valueB     string
	presentA, presentB bool

	// valuesEqual is only meaningful when both sides are present.
	valuesEqual bool
}

// differs reports whether the entry is a reportable difference: one-sided
// presence, unequal values, or a cross-version rename (same datum under
// different spellings is still reported, classified ELEMENT_NAME).
func (e rawEntry) differs() bool {
	if !e.presentA || !e.presentB {
		return true
	}
	return !e.valuesEqual || e.nameA != e.nameB
}

// diffAttributes computes the raw union diff of two attribute maps. Names
// are folded through the registry's equivalence table before pairing; values
// are compared on normalized forms with declared per-version transforms
// applied. Pure function over its inputs.
//
// The identity and kind attributes are excluded: identity equality is the
// matching precondition, and kind is consumed by the reorganization
// pre-pass.
func (d *Differ) diffAttributes(attrsA, attrsB model.AttributeMap, versionA, versionB string) []rawEntry {
	spellingsA := spellingsByCanonical(d.reg, attrsA)
	spellingsB := spellingsByCanonical(d.reg, attrsB)

	canonicals := make(map[string]bool, len(spellingsA)+len(spellingsB))
	for c := range spellingsA {
		canonicals[c] = true
	}
	for c := range spellingsB {
		canonicals[c] = true
	}

	entries := make([]rawEntry, 0, len(canonicals))
	for c := range canonicals {
		e := rawEntry{canonical: c}
		if name, ok := spellingsA[c]; ok {
			e.nameA = name
			e.valueA, e.presentA = attrsA.Get(name)
		}
		if name, ok := spellingsB[c]; ok {
			e.nameB = name
			e.valueB, e.presentB = attrsB.Get(name)
		}
		if e.presentA && e.presentB {
			na := d.normalizeValue(e.valueA, e.canonical, versionA)
			nb := d.normalizeValue(e.valueB, e.canonical, versionB)
			e.valuesEqual = na == nb
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].canonical < entries[j].canonical })
	return entries
}

// spellingsByCanonical maps canonical attribute names to the spelling the
// map actually uses. When a map carries both spellings of a renamed
// attribute, the canonical spelling wins.
func spellingsByCanonical(reg *registry.Registry, attrs model.AttributeMap) map[string]string {
	out := make(map[string]string, len(attrs))

	names := attrs.Names()
	sort.Strings(names)
	for _, name := range names {
		if name == model.IdentityAttribute || name == model.KindAttribute {
			continue
		}
		canonical := reg.NormalizeAttributeName(name)
		if existing, ok := out[canonical]; ok && existing == canonical {
			continue
		}
		out[canonical] = name
	}
	return out
}

// normalizeValue canonicalizes a raw attribute value for comparison: textual
// numerics collapse to one numeric form ("500.0" equals "500"), declared
// sign-swap transforms apply for the side's version, and non-numeric values
// compare trimmed. No implicit coercion beyond that.
func (d *Differ) normalizeValue(value, canonicalName, version string) string {
	trimmed := strings.TrimSpace(value)
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return trimmed
	}
	if d.reg.IsNegated(canonicalName, version) {
		f = -f
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
