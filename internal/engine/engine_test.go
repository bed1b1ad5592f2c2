package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/parser"
	"github.com/harrison/modeldiff/internal/registry"
	"github.com/harrison/modeldiff/internal/summary"
)

const docOld = `<?xml version="1.0"?>
<StructuralModel version="2.0.2">
  <Elements>
    <Column ID="C1" position_X="0" position_Y="0" condition_bottom="FIX"
            section_type="SB" section_B="500" section_H="500" section_material="C24"/>
    <Girder ID="G1" story_name="2F" position_X="1500"/>
    <Beam ID="B9" story_name="3F"/>
  </Elements>
</StructuralModel>`

const docNew = `<?xml version="1.0"?>
<StructuralModel version="2.1.0">
  <Elements>
    <Column ID="C1" offset_X="0" offset_Y="0">
      <Section type="SB" B="500" H="400" material="C24"/>
    </Column>
    <Beam ID="G1" story_name="2F" offset_X="1500"/>
  </Elements>
</StructuralModel>`

func loadDoc(t *testing.T, raw, name string) *model.Document {
	t.Helper()
	doc, err := parser.ParseDocument(strings.NewReader(raw), name)
	require.NoError(t, err)
	return doc
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	return New(reg, nil)
}

// TestCompareEndToEnd runs the full pipeline over two small revisions and
// checks matching, classification, section evaluation and the summary all
// line up.
func TestCompareEndToEnd(t *testing.T) {
	e := newEngine(t)

	result, err := e.Compare(loadDoc(t, docOld, "old.xml"), loadDoc(t, docNew, "new.xml"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "2.0.2", result.VersionA)
	assert.Equal(t, "2.1.0", result.VersionB)

	// C1 matches exactly within Column.
	cols := result.Types["Column"]
	require.NotNil(t, cols)
	require.Len(t, cols.Pairs, 1)
	c1 := cols.Pairs[0]
	assert.False(t, c1.Pair.TypeMismatch)

	// condition_bottom is version-exclusive to 2.0.2: a version-only
	// difference, never a regression.
	for _, d := range c1.Comparison.Differences {
		assert.NotEqual(t, "condition_bottom", d.Attribute)
	}
	causes := map[string]model.DiffCause{}
	for _, d := range c1.Comparison.VersionOnlyDifferences {
		causes[d.Attribute] = d.Cause
	}
	assert.Equal(t, model.CauseVersionSpecific, causes["condition_bottom"])

	// position_X/offset_X carry equal values under equivalent names; the
	// renames classify ELEMENT_NAME.
	assert.Equal(t, model.CauseElementName, causes["position_X"])

	// The sections disagree on H (500 vs 400): a real section failure and a
	// real attribute difference (section_H reaches the attribute diff
	// through the flattened form on A and the lift on B).
	require.NotNil(t, c1.Section)
	assert.False(t, c1.Section.IsEquivalent)
	failed := c1.Section.FailedChecks()
	require.Len(t, failed, 1)
	assert.Equal(t, "dimensions", failed[0].Category)
	assert.Equal(t, "H", failed[0].Name)

	// G1 left the girders through the Beam fallback.
	girders := result.Types["Girder"]
	require.NotNil(t, girders)
	require.Len(t, girders.Pairs, 1)
	assert.True(t, girders.Pairs[0].Pair.TypeMismatch)
	assert.Empty(t, girders.Partition.OnlyA)

	fallbackWarned := false
	for _, w := range result.Warnings {
		if w.Code == model.WarnFallbackMatch && w.Identity == "G1" {
			fallbackWarned = true
		}
	}
	assert.True(t, fallbackWarned, "fallback match should surface a warning")

	// B9 exists only in the old revision.
	beams := result.Types["Beam"]
	require.NotNil(t, beams)
	require.Len(t, beams.Partition.OnlyA, 1)

	// Summary totals agree with the per-pair findings.
	require.NotNil(t, result.Summary)
	assert.Equal(t, 1, result.Summary.TotalOnlyA)
	assert.Positive(t, result.Summary.TotalVersionDifferences)
	bdx := map[string]summary.TypeBreakdown{}
	for _, b := range result.Summary.ByElementType {
		bdx[b.ElementType] = b
	}
	assert.Equal(t, 1, bdx["Column"].SectionFailures)
}

// TestCompareVersionOverride: explicit versions replace the declared ones.
func TestCompareVersionOverride(t *testing.T) {
	e := newEngine(t)

	result, err := e.Compare(
		loadDoc(t, docOld, "old.xml"),
		loadDoc(t, docNew, "new.xml"),
		Options{VersionA: "2.1.0", VersionB: "2.1.0"},
	)
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", result.VersionA)

	// With both sides forced to 2.1.0, condition_bottom is no longer
	// version-exclusive to side A and must fall through to a real diff.
	c1 := result.Types["Column"].Pairs[0]
	var cause model.DiffCause
	for _, d := range append(c1.Comparison.Differences, c1.Comparison.VersionOnlyDifferences...) {
		if d.Attribute == "condition_bottom" {
			cause = d.Cause
		}
	}
	assert.Equal(t, model.CauseRealDiff, cause)
}

// TestCompareNilDocument verifies the contract-violation error.
func TestCompareNilDocument(t *testing.T) {
	e := newEngine(t)
	_, err := e.Compare(nil, loadDoc(t, docNew, "new.xml"), Options{})
	assert.ErrorIs(t, err, ErrNilDocument)
}

// TestCompareEmptyDocuments: two empty documents compare cleanly.
func TestCompareEmptyDocuments(t *testing.T) {
	e := newEngine(t)

	empty := `<StructuralModel version="2.1.0"/>`
	result, err := e.Compare(loadDoc(t, empty, "a.xml"), loadDoc(t, empty, "b.xml"), Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Types)
	assert.Zero(t, result.Summary.TotalRealDifferences)
	assert.Empty(t, result.Warnings)
}
