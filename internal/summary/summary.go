// Package summary aggregates classified comparison results into per-type
// and total counts, weighted by a named importance policy. Pure aggregation
// over the full per-type comparison map: cheap enough to re-run on every
// policy change, since a policy affects weighting, never matching.
package summary

import (
	"sort"

	"github.com/harrison/modeldiff/internal/model"
)

// ImportancePolicy is an external, named weighting profile marking which
// attributes matter for a given evaluation scope. Policies are consumed
// (from configuration), never computed here.
type ImportancePolicy struct {
	// Name identifies the policy (e.g. "S2", "S4").
	Name string `yaml:"name" json:"name"`

	// Default is the weight of attributes not listed in Weights. Zero means
	// such attributes do not contribute to the weighted score.
	Default float64 `yaml:"default" json:"default"`

	// Weights maps canonical attribute names to their importance weight.
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// Weight returns the policy weight for a canonical attribute name.
func (p ImportancePolicy) Weight(attr string) float64 {
	if w, ok := p.Weights[attr]; ok {
		return w
	}
	return p.Default
}

// NeutralPolicy weighs every attribute equally at 1. Used when no policy is
// configured.
func NeutralPolicy() ImportancePolicy {
	return ImportancePolicy{Name: "neutral", Default: 1}
}

// TypeBreakdown is the per-structural-role slice of a summary.
type TypeBreakdown struct {
	// ElementType is the structural role.
	ElementType string `json:"element_type"`

	// Matched, OnlyA and OnlyB are the partition sizes.
	Matched int `json:"matched"`
	OnlyA   int `json:"only_a"`
	OnlyB   int `json:"only_b"`

	// RealDifferences counts REAL_DIFF attribute differences across all
	// matched pairs of the type.
	RealDifferences int `json:"real_differences"`

	// VersionDifferences counts version-explained differences.
	VersionDifferences int `json:"version_differences"`

	// SectionFailures counts matched pairs whose sections are not
	// equivalent.
	SectionFailures int `json:"section_failures"`

	// WeightedScore is the policy-weighted sum over real differences.
	WeightedScore float64 `json:"weighted_score"`
}

// Summary is the aggregated outcome of a comparison run.
type Summary struct {
	// TotalRealDifferences is the run-wide REAL_DIFF count.
	TotalRealDifferences int `json:"total_real_differences"`

	// TotalVersionDifferences is the run-wide version-explained count.
	TotalVersionDifferences int `json:"total_version_differences"`

	// TotalOnlyA and TotalOnlyB count one-sided elements across all types.
	TotalOnlyA int `json:"total_only_a"`
	TotalOnlyB int `json:"total_only_b"`

	// ByElementType breaks the counts down per structural role, sorted by
	// type name.
	ByElementType []TypeBreakdown `json:"by_element_type"`

	// Policy names the importance policy the weighted scores used.
	Policy string `json:"policy"`

	// WeightedScore is the run-wide policy-weighted score.
	WeightedScore float64 `json:"weighted_score"`
}

// Generate aggregates a per-type comparison map under the given policy.
// Pure function: runs identically however often it is called, so a policy
// change just means calling it again on the unchanged comparison map.
func Generate(types map[string]*model.TypeComparison, policy ImportancePolicy) *Summary {
	s := &Summary{
		Policy:        policy.Name,
		ByElementType: make([]TypeBreakdown, 0, len(types)),
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tc := types[name]
		b := TypeBreakdown{ElementType: name}
		if tc.Partition != nil {
			b.Matched = len(tc.Partition.Matched)
			b.OnlyA = len(tc.Partition.OnlyA)
			b.OnlyB = len(tc.Partition.OnlyB)
		}
		for _, pair := range tc.Pairs {
			if pair.Comparison != nil {
				b.RealDifferences += len(pair.Comparison.Differences)
				b.VersionDifferences += len(pair.Comparison.VersionOnlyDifferences)
				for _, d := range pair.Comparison.Differences {
					b.WeightedScore += policy.Weight(d.NormalizedAttribute)
				}
			}
			if pair.Section != nil && !pair.Section.IsEquivalent {
				b.SectionFailures++
			}
		}

		s.TotalRealDifferences += b.RealDifferences
		s.TotalVersionDifferences += b.VersionDifferences
		s.TotalOnlyA += b.OnlyA
		s.TotalOnlyB += b.OnlyB
		s.WeightedScore += b.WeightedScore
		s.ByElementType = append(s.ByElementType, b)
	}

	return s
}
