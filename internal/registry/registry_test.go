package registry

import (
	"testing"
)

// TestLoadEmbeddedData verifies the shipped data file parses and covers the
// known schema versions.
func TestLoadEmbeddedData(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !r.IsVersionSpecificAttribute("Column", "condition_bottom", "2.0.2") {
		t.Error("condition_bottom should be version-specific to 2.0.2 for Column")
	}
	if !r.IsVersionSpecificAttribute("Column", "boundary_bottom", "2.1.0") {
		t.Error("boundary_bottom should be version-specific to 2.1.0 for Column")
	}
	if r.IsVersionSpecificAttribute("Column", "condition_bottom", "2.1.0") {
		t.Error("condition_bottom should not be version-specific to 2.1.0")
	}
	if r.IsVersionSpecificAttribute("Beam", "condition_bottom", "2.0.2") {
		t.Error("condition_bottom is declared for Column, not Beam")
	}
}

// TestNormalizeAttributeName verifies canonical folding and idempotence.
func TestNormalizeAttributeName(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"old name folds to new", "position_X", "offset_X"},
		{"new name stays", "offset_X", "offset_X"},
		{"unregistered name stays", "thickness", "thickness"},
		{"old rotate folds", "rotate", "rotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.NormalizeAttributeName(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeAttributeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Idempotence: normalizing a normalized name is a no-op.
			if again := r.NormalizeAttributeName(got); again != got {
				t.Errorf("NormalizeAttributeName not idempotent: %q -> %q -> %q", tt.in, got, again)
			}
		})
	}
}

// TestAreAttributeNamesEquivalent covers both directions of a rename.
func TestAreAttributeNamesEquivalent(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !r.AreAttributeNamesEquivalent("position_X", "offset_X") {
		t.Error("position_X and offset_X should be equivalent")
	}
	if !r.AreAttributeNamesEquivalent("offset_X", "position_X") {
		t.Error("equivalence should be bidirectional")
	}
	if !r.AreAttributeNamesEquivalent("offset_X", "offset_X") {
		t.Error("a name is equivalent to itself")
	}
	if r.AreAttributeNamesEquivalent("position_X", "offset_Y") {
		t.Error("position_X and offset_Y should not be equivalent")
	}
}

// TestValueTransforms verifies the declared axis-swap negation.
func TestValueTransforms(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !r.IsNegated("rotation", "2.0.2") {
		t.Error("rotation should be negated in 2.0.2")
	}
	if r.IsNegated("rotation", "2.1.0") {
		t.Error("rotation should not be negated in 2.1.0")
	}
	if r.IsNegated("offset_X", "2.0.2") {
		t.Error("offset_X has no declared transform")
	}
}

// TestFallbackTypes verifies declared order is preserved.
func TestFallbackTypes(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	girder := r.FallbackTypes("Girder")
	if len(girder) != 1 || girder[0] != "Beam" {
		t.Errorf("FallbackTypes(Girder) = %v, want [Beam]", girder)
	}
	if got := r.FallbackTypes("Slab"); got != nil {
		t.Errorf("FallbackTypes(Slab) = %v, want nil", got)
	}
}

// TestParseRejectsBadData covers the two data-validation errors.
func TestParseRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "incomplete equivalence",
			data: "equivalences:\n  - old: position_X\n",
		},
		{
			name: "unsupported transform op",
			data: "value_transforms:\n  - attribute: rotation\n    version: \"2.0.2\"\n    op: scale\n",
		},
		{
			name: "malformed yaml",
			data: "version_specific: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() should reject bad data")
			}
		})
	}
}

// TestParseEmptyData verifies an empty table set is usable, not an error.
func TestParseEmptyData(t *testing.T) {
	r, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if r.IsVersionSpecificAttribute("Column", "anything", "2.0.2") {
		t.Error("empty registry should report nothing version-specific")
	}
	if got := r.NormalizeAttributeName("position_X"); got != "position_X" {
		t.Errorf("empty registry should normalize to self, got %q", got)
	}
}
