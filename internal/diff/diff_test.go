package diff

import (
	"errors"
	"testing"

	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/registry"
)

func testDiffer(t *testing.T) *Differ {
	t.Helper()
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}
	return New(reg)
}

func column(attrs map[string]string) *model.ElementNode {
	m := model.AttributeMap{"ID": "C1"}
	for k, v := range attrs {
		m[k] = v
	}
	return &model.ElementNode{Type: "Column", RawTag: "Column", Attributes: m}
}

// TestCompareEqualElements: identical attributes produce an equal result.
func TestCompareEqualElements(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"story_name": "1F", "offset_X": "100"})
	b := column(map[string]string{"story_name": "1F", "offset_X": "100"})

	cmp, err := d.CompareElements(a, b, "2.1.0", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if !cmp.IsEqual {
		t.Errorf("IsEqual = false, want true; diffs %+v %+v", cmp.Differences, cmp.VersionOnlyDifferences)
	}
	if cmp.IsVersionSpecificOnly {
		t.Error("IsVersionSpecificOnly must be false for fully equal elements")
	}
}

// TestCompareNilElement verifies the contract-violation error.
func TestCompareNilElement(t *testing.T) {
	d := testDiffer(t)
	if _, err := d.CompareElements(nil, column(nil), "2.0.2", "2.1.0"); !errors.Is(err, ErrNilElement) {
		t.Errorf("error = %v, want ErrNilElement", err)
	}
}

// TestVersionSpecificAbsence: condition_bottom present
// only in the 2.0.2 document classifies VERSION_SPECIFIC, never as a real
// difference.
func TestVersionSpecificAbsence(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"condition_bottom": "FIX"})
	b := column(nil)

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}

	if len(cmp.Differences) != 0 {
		t.Errorf("Differences = %+v, want empty", cmp.Differences)
	}
	if len(cmp.VersionOnlyDifferences) != 1 {
		t.Fatalf("VersionOnlyDifferences = %+v, want exactly one", cmp.VersionOnlyDifferences)
	}
	got := cmp.VersionOnlyDifferences[0]
	if got.Cause != model.CauseVersionSpecific {
		t.Errorf("Cause = %s, want VERSION_SPECIFIC", got.Cause)
	}
	if got.Attribute != "condition_bottom" || got.ValueA != "FIX" || got.PresentB {
		t.Errorf("difference = %+v, want condition_bottom FIX absent in B", got)
	}
	if !cmp.IsVersionSpecificOnly {
		t.Error("IsVersionSpecificOnly = false, want true")
	}
}

// TestVersionSpecificWrongType: the same attribute on an unregistered
// element type reads as a real difference.
func TestVersionSpecificWrongType(t *testing.T) {
	d := testDiffer(t)

	a := &model.ElementNode{Type: "Footing", Attributes: model.AttributeMap{"ID": "F1", "condition_bottom": "FIX"}}
	b := &model.ElementNode{Type: "Footing", Attributes: model.AttributeMap{"ID": "F1"}}

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if len(cmp.Differences) != 1 || cmp.Differences[0].Cause != model.CauseRealDiff {
		t.Errorf("Differences = %+v, want one REAL_DIFF", cmp.Differences)
	}
}

// TestElementNameRename: position_X in A equal to
// offset_X in B classifies ELEMENT_NAME.
func TestElementNameRename(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"position_X": "1500"})
	b := column(map[string]string{"offset_X": "1500"})

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}

	if len(cmp.Differences) != 0 {
		t.Errorf("Differences = %+v, want empty", cmp.Differences)
	}
	if len(cmp.VersionOnlyDifferences) != 1 {
		t.Fatalf("VersionOnlyDifferences = %+v, want exactly one", cmp.VersionOnlyDifferences)
	}
	got := cmp.VersionOnlyDifferences[0]
	if got.Cause != model.CauseElementName {
		t.Errorf("Cause = %s, want ELEMENT_NAME", got.Cause)
	}
	if got.NormalizedAttribute != "offset_X" {
		t.Errorf("NormalizedAttribute = %q, want offset_X", got.NormalizedAttribute)
	}
}

// TestRenamedWithDifferentValue: equivalent names with unequal values is a
// real difference, not a rename artifact.
func TestRenamedWithDifferentValue(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"position_X": "1500"})
	b := column(map[string]string{"offset_X": "1800"})

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if len(cmp.Differences) != 1 || cmp.Differences[0].Cause != model.CauseRealDiff {
		t.Errorf("Differences = %+v, want one REAL_DIFF", cmp.Differences)
	}
}

// TestNumericNormalization: textual numerics compare by value.
func TestNumericNormalization(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"offset_X": "500.0", "offset_Y": " 250 "})
	b := column(map[string]string{"offset_X": "500", "offset_Y": "250.00"})

	cmp, err := d.CompareElements(a, b, "2.1.0", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if !cmp.IsEqual {
		t.Errorf("numeric forms should compare equal, got %+v", cmp.Differences)
	}
}

// TestDeclaredSignTransform: the rotation axis convention swapped in 2.0.2;
// the declared negate transform makes -30 in the old schema equal 30 in the
// new one.
func TestDeclaredSignTransform(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"rotate": "-30"})
	b := column(map[string]string{"rotation": "30"})

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if len(cmp.Differences) != 0 {
		t.Errorf("Differences = %+v, want empty after sign transform", cmp.Differences)
	}
	if len(cmp.VersionOnlyDifferences) != 1 || cmp.VersionOnlyDifferences[0].Cause != model.CauseElementName {
		t.Errorf("want the rename reported as ELEMENT_NAME, got %+v", cmp.VersionOnlyDifferences)
	}
}

// TestStructuralLift: an attribute present only through the pre-pass lift on
// one side classifies STRUCTURAL.
func TestStructuralLift(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"section_H": "400"})
	a.Lifted = map[string]bool{"section_H": true}
	b := column(nil)

	cmp, err := d.CompareElements(a, b, "2.1.0", "2.0.2")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}
	if len(cmp.Differences) != 0 {
		t.Errorf("Differences = %+v, want empty", cmp.Differences)
	}
	if len(cmp.VersionOnlyDifferences) != 1 || cmp.VersionOnlyDifferences[0].Cause != model.CauseStructural {
		t.Errorf("want one STRUCTURAL difference, got %+v", cmp.VersionOnlyDifferences)
	}
}

// TestCompareSymmetry: comparing (a,b) and (b,a) reports the same differing
// attribute set with sides swapped.
func TestCompareSymmetry(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"condition_bottom": "FIX", "story_name": "1F", "offset_X": "100"})
	b := column(map[string]string{"story_name": "2F", "offset_X": "100"})

	ab, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements(a,b) error = %v", err)
	}
	ba, err := d.CompareElements(b, a, "2.1.0", "2.0.2")
	if err != nil {
		t.Fatalf("CompareElements(b,a) error = %v", err)
	}

	setOf := func(diffs []model.AttributeDifference) map[string]model.DiffCause {
		out := map[string]model.DiffCause{}
		for _, d := range diffs {
			out[d.NormalizedAttribute] = d.Cause
		}
		return out
	}

	abAll := setOf(append(append([]model.AttributeDifference{}, ab.Differences...), ab.VersionOnlyDifferences...))
	baAll := setOf(append(append([]model.AttributeDifference{}, ba.Differences...), ba.VersionOnlyDifferences...))

	if len(abAll) != len(baAll) {
		t.Fatalf("asymmetric difference sets: %v vs %v", abAll, baAll)
	}
	for name, cause := range abAll {
		if baAll[name] != cause {
			t.Errorf("attribute %s: cause %s vs %s", name, cause, baAll[name])
		}
	}

	// Sides swap.
	for i, dab := range ab.Differences {
		dba := ba.Differences[i]
		if dab.ValueA != dba.ValueB || dab.ValueB != dba.ValueA {
			t.Errorf("difference %d did not swap sides: %+v vs %+v", i, dab, dba)
		}
	}
}

// TestVersionSpecificOnlyImplication: IsVersionSpecificOnly implies no real
// differences and at least one version difference, not conversely.
func TestVersionSpecificOnlyImplication(t *testing.T) {
	d := testDiffer(t)

	a := column(map[string]string{"condition_bottom": "FIX", "story_name": "1F"})
	b := column(map[string]string{"story_name": "2F"})

	cmp, err := d.CompareElements(a, b, "2.0.2", "2.1.0")
	if err != nil {
		t.Fatalf("CompareElements() error = %v", err)
	}

	// Mixed case: a real diff (story_name) plus a version diff.
	if cmp.IsVersionSpecificOnly {
		t.Error("IsVersionSpecificOnly must be false when a real difference exists")
	}
	if !cmp.HasRealDifferences || !cmp.HasVersionDifferences {
		t.Errorf("want both kinds of differences, got %+v", cmp)
	}
}
