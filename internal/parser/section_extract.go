package parser

import (
	"strconv"
	"strings"

	"github.com/harrison/modeldiff/internal/model"
)

// sectionPrefix is the flattened-attribute prefix for section data, matching
// the reorganization pre-pass lift prefix.
const sectionPrefix = "section_"

// Attributes of a Section element (or section_* attribute group) that carry
// designations rather than dimensions.
var sectionFieldNames = map[string]bool{
	"type":     true,
	"name":     true,
	"shape":    true,
	"material": true,
	"strength": true,
}

// ExtractSection assembles the cross-section description of an element for
// the equivalence evaluator. A nested Section child is preferred (it is the
// only form that can carry composite sub-figures); otherwise the flattened
// section_* attribute group is used. Returns nil when the element carries no
// section data in either form.
func ExtractSection(elem *model.ElementNode) *model.SectionData {
	if child := elem.FindChild("Section"); child != nil {
		return sectionFromNode(child)
	}
	return sectionFromFlattened(elem.Attributes)
}

// sectionFromNode builds section data from a nested Section element,
// including composite steel/concrete sub-figures.
func sectionFromNode(node *model.ElementNode) *model.SectionData {
	sec := &model.SectionData{
		Dimensions: make(map[string]float64),
	}
	fillSectionFields(sec, node.Attributes, "")

	if steel := node.FindChild("Steel"); steel != nil {
		sec.Steel = sectionFromNode(steel)
	}
	if concrete := node.FindChild("Concrete"); concrete != nil {
		sec.Concrete = sectionFromNode(concrete)
	}

	if isEmptySection(sec) {
		return nil
	}
	return sec
}

// sectionFromFlattened builds section data from section_* attributes on the
// element itself. The flattened form carries no composite sub-figures.
func sectionFromFlattened(attrs model.AttributeMap) *model.SectionData {
	sec := &model.SectionData{
		Dimensions: make(map[string]float64),
	}
	fillSectionFields(sec, attrs, sectionPrefix)

	if isEmptySection(sec) {
		return nil
	}
	return sec
}

// fillSectionFields populates designation fields and dimensions from an
// attribute map, stripping the given prefix from names first. Attributes
// that neither name a known field nor parse as a number are ignored; a
// single malformed value never fails the extraction.
func fillSectionFields(sec *model.SectionData, attrs model.AttributeMap, prefix string) {
	for name, value := range attrs {
		if prefix != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		if name == model.IdentityAttribute || name == model.KindAttribute {
			continue
		}

		key := strings.ToLower(name)
		if sectionFieldNames[key] {
			switch key {
			case "type":
				sec.TypeField = value
			case "name":
				sec.Name = value
			case "shape":
				sec.ProfileHint = value
			case "material":
				sec.Material = value
			case "strength":
				sec.Strength = value
			}
			continue
		}

		if dim, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			sec.Dimensions[name] = dim
		}
	}
}

// isEmptySection reports whether nothing usable was extracted.
func isEmptySection(sec *model.SectionData) bool {
	return sec.TypeField == "" && sec.Name == "" && sec.ProfileHint == "" &&
		sec.Material == "" && sec.Strength == "" && len(sec.Dimensions) == 0 &&
		sec.Steel == nil && sec.Concrete == nil
}
