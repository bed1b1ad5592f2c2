// Package engine wires the comparison pipeline: reorganization pre-pass,
// element matching, per-pair attribute diffing and classification, section
// equivalence evaluation and summary generation.
//
// A run is synchronous and pure over its two in-memory documents. There is
// no incremental re-diff: any document or policy change means a new run, and
// callers discard the previous result.
package engine

import (
	"errors"
	"fmt"

	"github.com/harrison/modeldiff/internal/diff"
	"github.com/harrison/modeldiff/internal/logger"
	"github.com/harrison/modeldiff/internal/match"
	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/parser"
	"github.com/harrison/modeldiff/internal/registry"
	"github.com/harrison/modeldiff/internal/section"
	"github.com/harrison/modeldiff/internal/summary"
)

// ErrNilDocument is returned when Compare receives a nil document.
var ErrNilDocument = errors.New("engine: comparison requires non-nil documents")

// Options configures one comparison run.
type Options struct {
	// VersionA / VersionB override the document-declared schema versions.
	// Empty means use what each document declares.
	VersionA string
	VersionB string

	// Tolerance is the section dimension equivalence window. Zero value
	// means section.DefaultTolerance().
	Tolerance section.Tolerance

	// Policy is the importance policy for summary weighting. Zero value
	// means the neutral policy.
	Policy summary.ImportancePolicy
}

// RunResult is the complete outcome of one comparison run. Read-only after
// Compare returns.
type RunResult struct {
	// VersionA / VersionB are the schema versions the run used.
	VersionA string `json:"version_a"`
	VersionB string `json:"version_b"`

	// Types holds the per-structural-role comparisons.
	Types map[string]*model.TypeComparison `json:"types"`

	// Warnings are the run's data-quality findings.
	Warnings []model.Warning `json:"warnings"`

	// Summary aggregates the classified differences.
	Summary *summary.Summary `json:"summary"`
}

// Engine runs comparisons against a loaded registry.
type Engine struct {
	reg *registry.Registry
	log logger.Logger
}

// New creates an Engine. log may be nil to discard diagnostics.
func New(reg *registry.Registry, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{reg: reg, log: log}
}

// Compare runs the full pipeline over two parsed documents and returns the
// classified, summarized result. Data-quality problems degrade per item and
// surface as warnings; only contract violations (nil documents) fail.
func (e *Engine) Compare(docA, docB *model.Document, opts Options) (*RunResult, error) {
	if docA == nil || docB == nil {
		return nil, ErrNilDocument
	}

	versionA := opts.VersionA
	if versionA == "" {
		versionA = docA.Version
	}
	versionB := opts.VersionB
	if versionB == "" {
		versionB = docB.Version
	}

	tol := opts.Tolerance
	if tol == (section.Tolerance{}) {
		tol = section.DefaultTolerance()
	}
	policy := opts.Policy
	if policy.Name == "" {
		policy = summary.NeutralPolicy()
	}

	// Role normalization must run before matching so fallback and identity
	// lookups operate on resolved structural roles.
	normA := parser.NormalizeRoles(docA)
	normB := parser.NormalizeRoles(docB)

	e.log.LogInfo(fmt.Sprintf("comparing %d elements (%s) against %d elements (%s)",
		normA.ElementCount(), versionA, normB.ElementCount(), versionB))

	matcher := match.New(e.reg, e.log)
	partitions, warnings := matcher.MatchDocuments(normA, normB)

	differ := diff.New(e.reg)
	evaluator := section.NewEvaluator(tol)

	types := make(map[string]*model.TypeComparison, len(partitions))
	for elementType, partition := range partitions {
		tc := &model.TypeComparison{Partition: partition}
		for _, pair := range partition.Matched {
			cmp, err := differ.CompareElements(pair.A, pair.B, versionA, versionB)
			if err != nil {
				return nil, fmt.Errorf("compare %s pair: %w", elementType, err)
			}

			pc := model.PairComparison{Pair: pair, Comparison: cmp}
			secA := parser.ExtractSection(pair.A)
			secB := parser.ExtractSection(pair.B)
			if secA != nil && secB != nil {
				res, err := evaluator.Evaluate(secA, secB, elementType)
				if err != nil {
					return nil, fmt.Errorf("evaluate %s section: %w", elementType, err)
				}
				pc.Section = res
			}
			tc.Pairs = append(tc.Pairs, pc)
		}
		types[elementType] = tc
	}

	result := &RunResult{
		VersionA: versionA,
		VersionB: versionB,
		Types:    types,
		Warnings: warnings,
		Summary:  summary.Generate(types, policy),
	}

	e.log.LogInfo(fmt.Sprintf("run complete: %d real, %d version-only differences",
		result.Summary.TotalRealDifferences, result.Summary.TotalVersionDifferences))

	return result, nil
}
