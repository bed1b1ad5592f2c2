package diff

import (
	"errors"

	"github.com/harrison/modeldiff/internal/model"
)

// ErrNilElement is returned when a comparison operation receives a nil
// element. Data-quality problems degrade per item; a nil input is a caller
// contract violation and fails immediately.
var ErrNilElement = errors.New("diff: comparison requires non-nil elements")

// CompareElements performs the version-aware comparison of one matched
// element pair. Raw differences are classified and split into real
// differences (REAL_DIFF) and version-only differences (VERSION_SPECIFIC,
// ELEMENT_NAME, STRUCTURAL). Symmetric: swapping the elements together with
// their versions reports the same differing attribute set with sides
// swapped.
func (d *Differ) CompareElements(elemA, elemB *model.ElementNode, versionA, versionB string) (*model.ElementComparison, error) {
	if elemA == nil || elemB == nil {
		return nil, ErrNilElement
	}

	elementType := elemA.Type
	entries := d.diffAttributes(elemA.Attributes, elemB.Attributes, versionA, versionB)

	cmp := &model.ElementComparison{
		Differences:            []model.AttributeDifference{},
		VersionOnlyDifferences: []model.AttributeDifference{},
	}

	for _, e := range entries {
		if !e.differs() {
			continue
		}
		cause := d.classify(e, elemA, elemB, elementType, versionA, versionB)

		adiff := model.AttributeDifference{
			Attribute:           displayName(e),
			NormalizedAttribute: e.canonical,
			ValueA:              e.valueA,
			ValueB:              e.valueB,
			PresentA:            e.presentA,
			PresentB:            e.presentB,
			Cause:               cause,
		}
		if cause == model.CauseRealDiff {
			cmp.Differences = append(cmp.Differences, adiff)
		} else {
			cmp.VersionOnlyDifferences = append(cmp.VersionOnlyDifferences, adiff)
		}
	}

	cmp.HasRealDifferences = len(cmp.Differences) > 0
	cmp.HasVersionDifferences = len(cmp.VersionOnlyDifferences) > 0
	cmp.IsEqual = !cmp.HasRealDifferences && !cmp.HasVersionDifferences
	cmp.IsVersionSpecificOnly = !cmp.HasRealDifferences && cmp.HasVersionDifferences

	return cmp, nil
}

// displayName picks the attribute spelling to report: side A's when present,
// otherwise side B's.
func displayName(e rawEntry) string {
	if e.nameA != "" {
		return e.nameA
	}
	return e.nameB
}
