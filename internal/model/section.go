package model

// SectionData is an extracted cross-section description: profile typing,
// material/strength designations and resolved dimensions. It is the input to
// the section equivalence evaluator, assembled by the parsing layer from
// whichever attribute set the schema version uses.
type SectionData struct {
	// TypeField is the explicit section type field, when the document
	// carries one (e.g. "H", "SB", "P"). May be empty or a legacy alias.
	TypeField string `json:"type_field,omitempty"`

	// Name is the section's designation (e.g. "H 400x200x8/13").
	Name string `json:"name,omitempty"`

	// ProfileHint is a profile token carried alongside the dimensions by
	// some schema versions, consulted when TypeField is absent.
	ProfileHint string `json:"profile_hint,omitempty"`

	// Material is the material designation (e.g. "SM355", "C24/30").
	Material string `json:"material,omitempty"`

	// Strength is the strength grade, when the schema separates it from the
	// material designation.
	Strength string `json:"strength,omitempty"`

	// Dimensions maps dimension names (H, B, tw, tf, D, t, ...) to values in
	// model units.
	Dimensions map[string]float64 `json:"dimensions,omitempty"`

	// Steel is the embedded steel shape of a composite (SRC) section.
	Steel *SectionData `json:"steel,omitempty"`

	// Concrete is the concrete envelope of a composite (SRC) section.
	Concrete *SectionData `json:"concrete,omitempty"`
}

// HasDimension reports whether the named dimension is present.
func (s *SectionData) HasDimension(name string) bool {
	_, ok := s.Dimensions[name]
	return ok
}

// IsComposite reports whether the section carries composite sub-figures.
func (s *SectionData) IsComposite() bool {
	return s != nil && (s.Steel != nil || s.Concrete != nil)
}

// EquivalenceCheck is one independently pass/fail check of a section
// equivalence evaluation. No check is fatal to the overall result.
type EquivalenceCheck struct {
	// Category groups the check (profile, dimensions, material, composite).
	Category string `json:"category"`

	// Name identifies the individual check within its category.
	Name string `json:"name"`

	// Passed is the check outcome. Not meaningful when Applicable is false.
	Passed bool `json:"passed"`

	// Applicable is false when malformed or missing data made the check
	// impossible; such checks count neither as passed nor failed.
	Applicable bool `json:"applicable"`

	// Details explains the outcome — which values were compared and, on
	// failure, why they were not equivalent. Never empty on failure.
	Details string `json:"details"`

	// SubChecks holds nested checks for composite sections.
	SubChecks []EquivalenceCheck `json:"sub_checks,omitempty"`
}

// SectionEquivalenceResult is the outcome of comparing two cross-sections.
// Evaluation is symmetric: swapping the inputs flips sides in Details but
// never the verdict.
type SectionEquivalenceResult struct {
	// IsEquivalent is true when every applicable check passed.
	IsEquivalent bool `json:"is_equivalent"`

	// Checks lists every check that ran, passed or failed.
	Checks []EquivalenceCheck `json:"checks"`

	// Summary is a one-line human-readable verdict.
	Summary string `json:"summary"`

	// PassRate is the percentage of applicable checks that passed, 0-100.
	// 100 when no check was applicable.
	PassRate float64 `json:"pass_rate"`
}

// FailedChecks returns the applicable checks that did not pass, including
// nested sub-checks.
func (r *SectionEquivalenceResult) FailedChecks() []EquivalenceCheck {
	var failed []EquivalenceCheck
	var walk func(checks []EquivalenceCheck)
	walk = func(checks []EquivalenceCheck) {
		for _, c := range checks {
			if c.Applicable && !c.Passed {
				failed = append(failed, c)
			}
			walk(c.SubChecks)
		}
	}
	walk(r.Checks)
	return failed
}
