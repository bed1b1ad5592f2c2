package model

// DiffCause classifies why an attribute differs between two matched elements.
type DiffCause string

const (
	// CauseRealDiff marks a genuine regression: the attribute differs and no
	// schema-version explanation applies. This is also the fallback cause —
	// an unclassifiable difference is reported, never suppressed.
	CauseRealDiff DiffCause = "REAL_DIFF"

	// CauseVersionSpecific marks an attribute defined in only one of the two
	// schema versions, whose one-sided presence is expected.
	CauseVersionSpecific DiffCause = "VERSION_SPECIFIC"

	// CauseElementName marks an attribute that was renamed between versions
	// but carries an equal value under its declared-equivalent name.
	CauseElementName DiffCause = "ELEMENT_NAME"

	// CauseStructural marks a nested-vs-flattened representation difference
	// detected by the reorganization pre-pass.
	CauseStructural DiffCause = "STRUCTURAL"
)

// AttributeDifference is one attribute-level difference for a matched element
// pair. Ephemeral: computed per pair, aggregated into summaries, never stored
// back onto the elements.
type AttributeDifference struct {
	// Attribute is the attribute name as it appears in the documents
	// (side A's spelling when both sides carry the attribute).
	Attribute string `json:"attribute"`

	// NormalizedAttribute is the canonical name after folding renamed
	// equivalents. Equal to Attribute when no rename applies.
	NormalizedAttribute string `json:"normalized_attribute"`

	// ValueA is side A's value; empty string plus PresentA=false means absent.
	ValueA string `json:"value_a"`

	// ValueB is side B's value; empty string plus PresentB=false means absent.
	ValueB string `json:"value_b"`

	// PresentA reports whether side A carries the attribute at all.
	PresentA bool `json:"present_a"`

	// PresentB reports whether side B carries the attribute at all.
	PresentB bool `json:"present_b"`

	// Cause is the classified reason for the difference.
	Cause DiffCause `json:"cause"`
}

// IsVersionSpecific reports whether the difference is explained by schema
// version evolution rather than a model change.
func (d AttributeDifference) IsVersionSpecific() bool {
	return d.Cause == CauseVersionSpecific
}

// MatchedPair is one element identity found in both documents.
type MatchedPair struct {
	// A is the element from document A.
	A *ElementNode `json:"a"`

	// B is the element from document B.
	B *ElementNode `json:"b"`

	// TypeMismatch is set when the pair was matched through the declared
	// fallback-type list rather than an exact type match. Downstream
	// presentation shows these as warnings.
	TypeMismatch bool `json:"type_mismatch,omitempty"`
}

// ComparisonResult partitions two element collections of one structural role
// by identity. The three slices are pairwise disjoint and together cover
// every valid-identity element of both inputs. Built once per run; callers
// must discard, never mutate, a stale result.
type ComparisonResult struct {
	// Matched pairs the identities present on both sides.
	Matched []MatchedPair `json:"matched"`

	// OnlyA holds elements whose identity appears only in document A.
	OnlyA []*ElementNode `json:"only_a"`

	// OnlyB holds elements whose identity appears only in document B.
	OnlyB []*ElementNode `json:"only_b"`
}

// ElementComparison is the version-aware comparison of one matched element
// pair: raw differences split into real and version-only groups.
type ElementComparison struct {
	// IsEqual is true when no attribute differs at all, under any cause.
	IsEqual bool `json:"is_equal"`

	// Differences holds the real differences (cause REAL_DIFF).
	Differences []AttributeDifference `json:"differences"`

	// VersionOnlyDifferences holds differences explained by schema
	// evolution: VERSION_SPECIFIC, ELEMENT_NAME and STRUCTURAL causes.
	VersionOnlyDifferences []AttributeDifference `json:"version_only_differences"`

	// HasRealDifferences is len(Differences) > 0.
	HasRealDifferences bool `json:"has_real_differences"`

	// HasVersionDifferences is len(VersionOnlyDifferences) > 0.
	HasVersionDifferences bool `json:"has_version_differences"`

	// IsVersionSpecificOnly is true when every difference is version
	// explained: the elements are equal for engineering purposes.
	IsVersionSpecificOnly bool `json:"is_version_specific_only"`
}

// Warning is a non-fatal data-quality note raised during matching, carried to
// the presentation layer instead of aborting the run.
type Warning struct {
	// Code identifies the warning class.
	Code WarningCode `json:"code"`

	// ElementType is the structural role the warning concerns.
	ElementType string `json:"element_type"`

	// Identity is the affected element identity, when known.
	Identity string `json:"identity,omitempty"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail"`
}

// WarningCode enumerates the non-fatal data-quality conditions.
type WarningCode string

const (
	// WarnMissingIdentity: element excluded from matching for lack of an
	// identity attribute.
	WarnMissingIdentity WarningCode = "MISSING_IDENTITY"

	// WarnFallbackMatch: pair matched through the fallback-type list.
	WarnFallbackMatch WarningCode = "FALLBACK_MATCH"

	// WarnAmbiguousFallback: more than one plausible fallback candidate
	// existed; the first declared candidate was taken.
	WarnAmbiguousFallback WarningCode = "AMBIGUOUS_FALLBACK"
)
