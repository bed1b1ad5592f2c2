package match

import (
	"testing"

	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}
	return r
}

func elem(elementType, id string, attrs ...string) *model.ElementNode {
	m := model.AttributeMap{}
	if id != "" {
		m[model.IdentityAttribute] = id
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	return &model.ElementNode{Type: elementType, RawTag: elementType, Attributes: m}
}

func doc(version string, elems ...*model.ElementNode) *model.Document {
	d := &model.Document{Version: version, ElementsByType: map[string][]*model.ElementNode{}}
	for _, e := range elems {
		d.ElementsByType[e.Type] = append(d.ElementsByType[e.Type], e)
	}
	return d
}

// TestMatchTypePartition verifies the matched/onlyA/onlyB partition is
// disjoint and exhaustive over valid-identity inputs.
func TestMatchTypePartition(t *testing.T) {
	m := New(testRegistry(t), nil)

	a := []*model.ElementNode{elem("Column", "C1"), elem("Column", "C2"), elem("Column", "C3")}
	b := []*model.ElementNode{elem("Column", "C2"), elem("Column", "C3"), elem("Column", "C4")}

	res, warnings := m.MatchType("Column", a, b)

	if len(res.Matched) != 2 {
		t.Errorf("Matched = %d pairs, want 2", len(res.Matched))
	}
	if len(res.OnlyA) != 1 || mustID(t, res.OnlyA[0]) != "C1" {
		t.Errorf("OnlyA = %v, want [C1]", ids(res.OnlyA))
	}
	if len(res.OnlyB) != 1 || mustID(t, res.OnlyB[0]) != "C4" {
		t.Errorf("OnlyB = %v, want [C4]", ids(res.OnlyB))
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	// Disjointness: no identity appears in more than one bucket.
	seen := map[string]int{}
	for _, p := range res.Matched {
		seen[mustID(t, p.A)]++
	}
	for _, e := range res.OnlyA {
		seen[mustID(t, e)]++
	}
	for _, e := range res.OnlyB {
		seen[mustID(t, e)]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("identity %s appears in %d buckets", id, n)
		}
	}
	if len(seen) != 4 {
		t.Errorf("partition covers %d identities, want 4", len(seen))
	}
}

// TestMatchTypeEmptyCollections: both sides empty yields empty partitions,
// no errors.
func TestMatchTypeEmptyCollections(t *testing.T) {
	m := New(testRegistry(t), nil)

	res, warnings := m.MatchType("Column", nil, nil)
	if res == nil {
		t.Fatal("MatchType() = nil result")
	}
	if len(res.Matched) != 0 || len(res.OnlyA) != 0 || len(res.OnlyB) != 0 {
		t.Errorf("expected empty partition, got %+v", res)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

// TestMatchMissingIdentity verifies identity-less elements are excluded and
// reported, never fatal.
func TestMatchMissingIdentity(t *testing.T) {
	m := New(testRegistry(t), nil)

	a := []*model.ElementNode{elem("Column", "C1"), elem("Column", "")}
	b := []*model.ElementNode{elem("Column", "C1")}

	res, warnings := m.MatchType("Column", a, b)

	if len(res.Matched) != 1 || len(res.OnlyA) != 0 {
		t.Errorf("partition = %+v, want one matched pair and nothing one-sided", res)
	}
	if len(warnings) != 1 || warnings[0].Code != model.WarnMissingIdentity {
		t.Errorf("warnings = %v, want one MISSING_IDENTITY", warnings)
	}
}

// TestMatchDuplicateIdentity verifies the documented last-write-wins
// tolerance for duplicate identities on one side.
func TestMatchDuplicateIdentity(t *testing.T) {
	m := New(testRegistry(t), nil)

	first := elem("Column", "C1", "story_name", "1F")
	second := elem("Column", "C1", "story_name", "2F")
	b := elem("Column", "C1")

	res, _ := m.MatchType("Column", []*model.ElementNode{first, second}, []*model.ElementNode{b})

	if len(res.Matched) != 1 {
		t.Fatalf("Matched = %d pairs, want 1", len(res.Matched))
	}
	if v, _ := res.Matched[0].A.Attributes.Get("story_name"); v != "2F" {
		t.Errorf("matched A side story_name = %q, want the last occurrence (2F)", v)
	}
}

// TestMatchFallbackType: a Girder identity missing from B's girders matches
// a Beam entry, annotated with a type mismatch and a warning.
func TestMatchFallbackType(t *testing.T) {
	m := New(testRegistry(t), nil)

	docA := doc("2.0.2", elem("Girder", "G1"))
	docB := doc("2.1.0", elem("Beam", "G1"))

	results, warnings := m.MatchDocuments(docA, docB)

	girders := results["Girder"]
	if len(girders.Matched) != 1 {
		t.Fatalf("Girder matched = %d, want 1", len(girders.Matched))
	}
	if !girders.Matched[0].TypeMismatch {
		t.Error("fallback match must carry the type-mismatch flag")
	}
	if len(girders.OnlyA) != 0 {
		t.Errorf("OnlyA = %v, want empty", ids(girders.OnlyA))
	}
	if beams := results["Beam"]; len(beams.OnlyB) != 0 {
		t.Errorf("Beam OnlyB = %v; the fallback-consumed entry must not reappear", ids(beams.OnlyB))
	}

	if !hasWarning(warnings, model.WarnFallbackMatch) {
		t.Errorf("warnings = %v, want a FALLBACK_MATCH", warnings)
	}
	if hasWarning(warnings, model.WarnAmbiguousFallback) {
		t.Error("single candidate must not raise an ambiguity warning")
	}
}

// TestMatchFallbackAmbiguity: multiple plausible fallback candidates take
// the first declared and surface a warning.
func TestMatchFallbackAmbiguity(t *testing.T) {
	// The shipped table declares single candidates; ambiguity needs a type
	// with two.
	reg, err := registry.Parse([]byte(`
fallback_types:
  Girder:
    - Beam
    - Brace
`))
	if err != nil {
		t.Fatalf("registry.Parse() error = %v", err)
	}
	m := New(reg, nil)

	docA := doc("2.0.2", elem("Girder", "G1"))
	docB := doc("2.1.0", elem("Beam", "G1"), elem("Brace", "G1"))

	results, warnings := m.MatchDocuments(docA, docB)

	girders := results["Girder"]
	if len(girders.Matched) != 1 || !girders.Matched[0].TypeMismatch {
		t.Fatalf("Girder matched = %+v, want one fallback pair", girders.Matched)
	}
	if got := girders.Matched[0].B.Type; got != "Beam" {
		t.Errorf("fallback took %s, want the first declared candidate (Beam)", got)
	}
	if !hasWarning(warnings, model.WarnAmbiguousFallback) {
		t.Errorf("warnings = %v, want an AMBIGUOUS_FALLBACK", warnings)
	}
	if braces := results["Brace"]; len(braces.OnlyB) != 1 {
		t.Errorf("the losing candidate must stay in Brace OnlyB, got %v", ids(braces.OnlyB))
	}
}

// TestMatchExactBeatsFallback: an exact match within the element's own type
// is never stolen by another type's fallback, regardless of type ordering.
func TestMatchExactBeatsFallback(t *testing.T) {
	m := New(testRegistry(t), nil)

	// Brace sorts before Girder; without the exact-first phase the Brace
	// fallback into Beam would consume B1 before Beam's exact match runs.
	docA := doc("2.0.2", elem("Brace", "B1"), elem("Beam", "B1"))
	docB := doc("2.1.0", elem("Beam", "B1"))

	results, _ := m.MatchDocuments(docA, docB)

	beams := results["Beam"]
	if len(beams.Matched) != 1 || beams.Matched[0].TypeMismatch {
		t.Errorf("Beam B1 should match exactly, got %+v", beams.Matched)
	}
	braces := results["Brace"]
	if len(braces.OnlyA) != 1 {
		t.Errorf("Brace B1 should stay one-sided, got %+v", braces)
	}
}

func mustID(t *testing.T, e *model.ElementNode) string {
	t.Helper()
	id, ok := e.Identity()
	if !ok {
		t.Fatal("element has no identity")
	}
	return id
}

func ids(elems []*model.ElementNode) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		id, _ := e.Identity()
		out = append(out, id)
	}
	return out
}

func hasWarning(warnings []model.Warning, code model.WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
