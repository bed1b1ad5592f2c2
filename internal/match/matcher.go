// Package match partitions the element collections of two document revisions
// into matched pairs and one-sided leftovers, by identity. It consults the
// registry's declared fallback structural roles before giving up on an
// unmatched identity, and reports data-quality findings as warnings instead
// of errors.
package match

import (
	"fmt"
	"sort"

	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/registry"
)

// Logger receives matcher diagnostics. Both methods must be safe for nil
// receivers to be irrelevant; pass nil to New to discard diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Matcher partitions element collections by identity.
type Matcher struct {
	reg *registry.Registry
	log Logger
}

// New creates a Matcher. log may be nil.
func New(reg *registry.Registry, log Logger) *Matcher {
	return &Matcher{reg: reg, log: log}
}

// index is the per-type identity lookup for one document side. Duplicate
// identities are not deduplicated: the index keeps the last occurrence
// (last-write-wins), order keeps each identity at its first occurrence.
type index struct {
	byID  map[string]*model.ElementNode
	order []string
}

// buildIndex indexes one element collection by identity. Elements without an
// identity are excluded and reported through skipped.
func buildIndex(elems []*model.ElementNode, skipped func(*model.ElementNode)) index {
	idx := index{byID: make(map[string]*model.ElementNode, len(elems))}
	for _, e := range elems {
		id, ok := e.Identity()
		if !ok || id == "" {
			skipped(e)
			continue
		}
		if _, seen := idx.byID[id]; !seen {
			idx.order = append(idx.order, id)
		}
		idx.byID[id] = e
	}
	return idx
}

// MatchDocuments partitions every structural role present in either
// role-normalized document. The returned map holds one ComparisonResult per
// type; the warnings report skipped missing-identity elements, fallback
// matches and ambiguous fallbacks. Matching never fails on data quality:
// affected elements degrade per item.
//
// Exact identity matches across all types are resolved before any fallback
// is consulted, so a fallback can never steal an element from its own type's
// exact match.
func (m *Matcher) MatchDocuments(docA, docB *model.Document) (map[string]*model.ComparisonResult, []model.Warning) {
	if docA == nil || docB == nil {
		panic("match: MatchDocuments requires non-nil documents")
	}

	var warnings []model.Warning
	skip := func(side string, elementType string) func(*model.ElementNode) {
		return func(e *model.ElementNode) {
			w := model.Warning{
				Code:        model.WarnMissingIdentity,
				ElementType: elementType,
				Detail:      fmt.Sprintf("element of type %s in document %s has no identity attribute; excluded from matching", elementType, side),
			}
			warnings = append(warnings, w)
			m.debugf("skipping identity-less %s element in document %s", elementType, side)
		}
	}

	types := unionTypes(docA, docB)

	indexA := make(map[string]index, len(types))
	indexB := make(map[string]index, len(types))
	for _, t := range types {
		indexA[t] = buildIndex(docA.ElementsByType[t], skip("A", t))
		indexB[t] = buildIndex(docB.ElementsByType[t], skip("B", t))
	}

	// consumed marks B-side identities claimed by an exact or fallback
	// match, per type.
	consumed := make(map[string]map[string]bool, len(types))
	for _, t := range types {
		consumed[t] = make(map[string]bool)
	}

	results := make(map[string]*model.ComparisonResult, len(types))
	for _, t := range types {
		results[t] = &model.ComparisonResult{
			Matched: []model.MatchedPair{},
			OnlyA:   []*model.ElementNode{},
			OnlyB:   []*model.ElementNode{},
		}
	}

	// Phase 1: exact matches within each type.
	for _, t := range types {
		for _, id := range indexA[t].order {
			if eb, ok := indexB[t].byID[id]; ok {
				results[t].Matched = append(results[t].Matched, model.MatchedPair{
					A: indexA[t].byID[id],
					B: eb,
				})
				consumed[t][id] = true
			}
		}
	}

	// Phase 2: fallback matches for identities still unmatched, in declared
	// candidate order, first match wins.
	for _, t := range types {
		for _, id := range indexA[t].order {
			if consumed[t][id] {
				continue
			}
			pair, fallbackType, candidates := m.findFallback(t, id, indexB, consumed)
			if pair == nil {
				results[t].OnlyA = append(results[t].OnlyA, indexA[t].byID[id])
				continue
			}
			pair.A = indexA[t].byID[id]
			results[t].Matched = append(results[t].Matched, *pair)
			consumed[fallbackType][id] = true

			warnings = append(warnings, model.Warning{
				Code:        model.WarnFallbackMatch,
				ElementType: t,
				Identity:    id,
				Detail:      fmt.Sprintf("%s %s matched a %s entry in document B", t, id, fallbackType),
			})
			m.warnf("%s %s matched through fallback type %s", t, id, fallbackType)

			if candidates > 1 {
				warnings = append(warnings, model.Warning{
					Code:        model.WarnAmbiguousFallback,
					ElementType: t,
					Identity:    id,
					Detail:      fmt.Sprintf("%s %s had %d plausible fallback candidates; took the first declared (%s)", t, id, candidates, fallbackType),
				})
				m.warnf("%s %s fallback is ambiguous (%d candidates)", t, id, candidates)
			}
		}
	}

	// Whatever B still holds is one-sided.
	for _, t := range types {
		for _, id := range indexB[t].order {
			if consumed[t][id] {
				continue
			}
			results[t].OnlyB = append(results[t].OnlyB, indexB[t].byID[id])
		}
	}

	return results, warnings
}

// MatchType partitions two element collections of one structural role,
// without fallback resolution (fallback needs whole-document context).
func (m *Matcher) MatchType(elementType string, a, b []*model.ElementNode) (*model.ComparisonResult, []model.Warning) {
	docA := &model.Document{ElementsByType: map[string][]*model.ElementNode{elementType: a}}
	docB := &model.Document{ElementsByType: map[string][]*model.ElementNode{elementType: b}}
	results, warnings := m.MatchDocuments(docA, docB)
	return results[elementType], warnings
}

// findFallback scans the declared fallback roles of elementType for the
// identity, skipping already-consumed entries. Returns the pair (B side
// filled in), the winning fallback type, and how many plausible candidates
// existed.
func (m *Matcher) findFallback(elementType, id string, indexB map[string]index, consumed map[string]map[string]bool) (*model.MatchedPair, string, int) {
	var winner *model.ElementNode
	var winnerType string
	candidates := 0

	for _, ft := range m.reg.FallbackTypes(elementType) {
		idx, ok := indexB[ft]
		if !ok {
			continue
		}
		eb, ok := idx.byID[id]
		if !ok || consumed[ft][id] {
			continue
		}
		candidates++
		if winner == nil {
			winner = eb
			winnerType = ft
		}
	}

	if winner == nil {
		return nil, "", 0
	}
	return &model.MatchedPair{B: winner, TypeMismatch: true}, winnerType, candidates
}

// unionTypes returns the sorted union of structural roles across both
// documents. Sorting keeps fallback consumption deterministic.
func unionTypes(docA, docB *model.Document) []string {
	set := make(map[string]bool)
	for t := range docA.ElementsByType {
		set[t] = true
	}
	for t := range docB.ElementsByType {
		set[t] = true
	}
	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (m *Matcher) debugf(format string, args ...any) {
	if m.log != nil {
		m.log.LogDebug(fmt.Sprintf(format, args...))
	}
}

func (m *Matcher) warnf(format string, args ...any) {
	if m.log != nil {
		m.log.LogWarn(fmt.Sprintf(format, args...))
	}
}
