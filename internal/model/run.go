package model

// PairComparison is the full comparison output for one matched element pair:
// the classified attribute differences plus, for section-bearing elements,
// the section equivalence evaluation.
type PairComparison struct {
	// Pair is the matched element pair this comparison describes.
	Pair MatchedPair `json:"pair"`

	// Comparison holds the classified attribute differences.
	Comparison *ElementComparison `json:"comparison"`

	// Section holds the section equivalence result, nil when neither
	// element carries section data.
	Section *SectionEquivalenceResult `json:"section,omitempty"`
}

// TypeComparison bundles everything produced for one structural role in a
// comparison run.
type TypeComparison struct {
	// Partition is the identity partition for the type.
	Partition *ComparisonResult `json:"partition"`

	// Pairs holds one comparison per matched pair, in partition order.
	Pairs []PairComparison `json:"pairs"`
}
