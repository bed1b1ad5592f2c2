package section

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harrison/modeldiff/internal/model"
)

// ErrNilSection is returned when Evaluate receives a nil section. Missing or
// malformed data inside a section degrades per check; a nil input is a
// caller contract violation.
var ErrNilSection = errors.New("section: evaluation requires non-nil sections")

// Tolerance is the numeric equivalence window for dimension comparison.
// Authoring tools round differently, so exact equality is wrong; two values
// are equivalent when |a-b| <= max(Abs, Rel*max(|a|,|b|)).
type Tolerance struct {
	// Abs is the absolute window in model units.
	Abs float64

	// Rel is the relative window as a fraction (0.001 = 0.1%).
	Rel float64
}

// DefaultTolerance is the documented default: 0.01 model units absolute,
// 0.1% relative.
func DefaultTolerance() Tolerance {
	return Tolerance{Abs: 0.01, Rel: 0.001}
}

// Within reports whether a and b are equivalent under the tolerance.
func (t Tolerance) Within(a, b float64) bool {
	limit := math.Max(t.Abs, t.Rel*math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= limit
}

// Evaluator runs section equivalence checks under a fixed tolerance.
type Evaluator struct {
	tol  Tolerance
	opts ResolveOptions
}

// NewEvaluator creates an Evaluator with the given tolerance.
func NewEvaluator(tol Tolerance) *Evaluator {
	return &Evaluator{tol: tol}
}

// Evaluate compares two cross-section descriptions. Checks run in sequence
// (profile category, dimensions, material, composite sub-figures), each
// independently pass/fail, none fatal to the overall result. The result
// always names which check failed and why. Evaluation is symmetric.
func (ev *Evaluator) Evaluate(a, b *model.SectionData, elementType string) (*model.SectionEquivalenceResult, error) {
	if a == nil || b == nil {
		return nil, ErrNilSection
	}

	var checks []model.EquivalenceCheck
	checks = append(checks, ev.profileCheck(a, b))
	checks = append(checks, ev.dimensionChecks(a, b)...)
	checks = append(checks, ev.materialChecks(a, b)...)
	if a.IsComposite() || b.IsComposite() {
		checks = append(checks, ev.compositeChecks(a, b, elementType)...)
	}

	return assembleResult(checks), nil
}

// profileCheck compares the resolved canonical profile categories.
func (ev *Evaluator) profileCheck(a, b *model.SectionData) model.EquivalenceCheck {
	pa := ResolveProfileType(a, ev.opts)
	pb := ResolveProfileType(b, ev.opts)

	check := model.EquivalenceCheck{
		Category:   "profile",
		Name:       "category",
		Applicable: true,
		Passed:     pa == pb,
	}
	if check.Passed {
		check.Details = fmt.Sprintf("both sections resolve to profile %s", pa)
	} else {
		check.Details = fmt.Sprintf("profile category mismatch: %s vs %s", pa, pb)
	}
	return check
}

// dimensionChecks compares every dimension of the union, each within
// tolerance. A dimension present on one side only, or carrying a
// non-finite value, marks its check not applicable rather than failing the
// whole result.
func (ev *Evaluator) dimensionChecks(a, b *model.SectionData) []model.EquivalenceCheck {
	type sides struct {
		name               string
		valueA, valueB     float64
		presentA, presentB bool
	}

	union := map[string]*sides{}
	for name, v := range a.Dimensions {
		key := strings.ToLower(name)
		union[key] = &sides{name: name, valueA: v, presentA: true}
	}
	for name, v := range b.Dimensions {
		key := strings.ToLower(name)
		s, ok := union[key]
		if !ok {
			s = &sides{name: name}
			union[key] = s
		}
		s.valueB = v
		s.presentB = true
	}

	if len(union) == 0 {
		return []model.EquivalenceCheck{{
			Category:   "dimensions",
			Name:       "presence",
			Applicable: false,
			Details:    "neither section carries dimensions",
		}}
	}

	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	checks := make([]model.EquivalenceCheck, 0, len(union))
	for _, k := range keys {
		s := union[k]
		check := model.EquivalenceCheck{Category: "dimensions", Name: s.name}

		switch {
		case !s.presentA || !s.presentB:
			side := "A"
			if s.presentB {
				side = "B"
			}
			check.Applicable = false
			check.Details = fmt.Sprintf("dimension %s present only in section %s", s.name, side)
		case !isFinite(s.valueA) || !isFinite(s.valueB):
			check.Applicable = false
			check.Details = fmt.Sprintf("dimension %s carries a non-finite value", s.name)
		default:
			check.Applicable = true
			check.Passed = ev.tol.Within(s.valueA, s.valueB)
			if check.Passed {
				check.Details = fmt.Sprintf("%s: %g ~ %g within tolerance", s.name, s.valueA, s.valueB)
			} else {
				check.Details = fmt.Sprintf("%s: %g vs %g exceeds tolerance (abs %g, rel %g)",
					s.name, s.valueA, s.valueB, ev.tol.Abs, ev.tol.Rel)
			}
		}
		checks = append(checks, check)
	}
	return checks
}

// materialChecks compares material and strength designations. Designations
// compare case-insensitively with spacing and hyphens ignored. A designation
// absent on both sides is not applicable; absent on one side fails.
func (ev *Evaluator) materialChecks(a, b *model.SectionData) []model.EquivalenceCheck {
	var checks []model.EquivalenceCheck
	checks = append(checks, designationCheck("designation", a.Material, b.Material))
	if a.Strength != "" || b.Strength != "" {
		checks = append(checks, designationCheck("strength", a.Strength, b.Strength))
	}
	return checks
}

func designationCheck(name, da, db string) model.EquivalenceCheck {
	check := model.EquivalenceCheck{Category: "material", Name: name}

	na, nb := normalizeDesignation(da), normalizeDesignation(db)
	switch {
	case na == "" && nb == "":
		check.Applicable = false
		check.Details = fmt.Sprintf("no %s on either section", name)
	case na == "" || nb == "":
		check.Applicable = true
		check.Details = fmt.Sprintf("%s present on one section only (%q vs %q)", name, da, db)
	case na == nb:
		check.Applicable = true
		check.Passed = true
		check.Details = fmt.Sprintf("%s %q matches %q", name, da, db)
	default:
		check.Applicable = true
		check.Details = fmt.Sprintf("%s mismatch: %q vs %q", name, da, db)
	}
	return check
}

// compositeChecks runs the independent sub-checks of a composite section's
// embedded steel shape and concrete envelope. A sub-figure present on one
// side only is a failing check; sub-figure evaluations nest their own check
// lists.
func (ev *Evaluator) compositeChecks(a, b *model.SectionData, elementType string) []model.EquivalenceCheck {
	var checks []model.EquivalenceCheck
	checks = append(checks, ev.subFigureCheck("steel", a.Steel, b.Steel, elementType))
	checks = append(checks, ev.subFigureCheck("concrete", a.Concrete, b.Concrete, elementType))
	return checks
}

func (ev *Evaluator) subFigureCheck(name string, subA, subB *model.SectionData, elementType string) model.EquivalenceCheck {
	check := model.EquivalenceCheck{Category: "composite", Name: name}

	switch {
	case subA == nil && subB == nil:
		check.Applicable = false
		check.Details = fmt.Sprintf("no %s sub-figure on either section", name)
	case subA == nil || subB == nil:
		side := "A"
		if subB != nil {
			side = "B"
		}
		check.Applicable = true
		check.Details = fmt.Sprintf("%s sub-figure present only in section %s", name, side)
	default:
		sub, err := ev.Evaluate(subA, subB, elementType)
		if err != nil {
			check.Applicable = false
			check.Details = fmt.Sprintf("%s sub-figure evaluation not possible: %v", name, err)
			return check
		}
		check.Applicable = true
		check.Passed = sub.IsEquivalent
		check.Details = sub.Summary
		check.SubChecks = sub.Checks
	}
	return check
}

// assembleResult computes the verdict, summary and pass rate over the check
// tree. Only applicable checks count; nested sub-checks are counted through
// their parent composite check, not double-counted individually.
func assembleResult(checks []model.EquivalenceCheck) *model.SectionEquivalenceResult {
	applicable, passed := 0, 0
	var firstFailure *model.EquivalenceCheck
	for i := range checks {
		c := &checks[i]
		if !c.Applicable {
			continue
		}
		applicable++
		if c.Passed {
			passed++
		} else if firstFailure == nil {
			firstFailure = c
		}
	}

	result := &model.SectionEquivalenceResult{
		Checks:       checks,
		IsEquivalent: firstFailure == nil,
		PassRate:     100,
	}
	if applicable > 0 {
		result.PassRate = float64(passed) / float64(applicable) * 100
	}

	if result.IsEquivalent {
		result.Summary = fmt.Sprintf("sections equivalent (%d checks passed)", passed)
	} else {
		result.Summary = fmt.Sprintf("sections not equivalent: %s/%s failed (%s)",
			firstFailure.Category, firstFailure.Name, firstFailure.Details)
	}
	return result
}

// normalizeDesignation folds a material or strength designation for
// comparison: case, surrounding space, internal spacing and hyphens are not
// significant.
func normalizeDesignation(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
