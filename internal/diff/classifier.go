package diff

import (
	"github.com/harrison/modeldiff/internal/model"
)

// classify assigns exactly one cause to a raw difference. Decision order,
// first match wins:
//
//  1. one-sided presence where the present side lifted the attribute from a
//     nested child -> STRUCTURAL (representation reorganization, found by
//     the tree-level pre-pass);
//  2. one-sided presence of an attribute registered version-exclusive to the
//     present side's version for this element type -> VERSION_SPECIFIC;
//  3. equal values carried under declared-equivalent names -> ELEMENT_NAME;
//  4. everything else -> REAL_DIFF.
//
// Checking version-exclusivity before treating absence as a regression is
// what keeps legitimate schema evolution out of the regression report.
// Classification is total: an entry that matches no rule is a REAL_DIFF, so
// unclassifiable differences are reported, never suppressed.
func (d *Differ) classify(e rawEntry, elemA, elemB *model.ElementNode, elementType, versionA, versionB string) model.DiffCause {
	switch {
	case e.presentA && !e.presentB && elemA.IsLifted(e.nameA):
		return model.CauseStructural
	case e.presentB && !e.presentA && elemB.IsLifted(e.nameB):
		return model.CauseStructural

	case e.presentA && !e.presentB && d.reg.IsVersionSpecificAttribute(elementType, e.nameA, versionA):
		return model.CauseVersionSpecific
	case e.presentB && !e.presentA && d.reg.IsVersionSpecificAttribute(elementType, e.nameB, versionB):
		return model.CauseVersionSpecific

	case e.presentA && e.presentB && e.nameA != e.nameB && e.valuesEqual:
		return model.CauseElementName

	default:
		return model.CauseRealDiff
	}
}
