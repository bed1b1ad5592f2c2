package parser

import (
	"github.com/harrison/modeldiff/internal/model"
)

// liftPrefixes names the child element types whose attributes one schema
// version nests while the other flattens onto the parent, and the attribute
// prefix the flattened form uses. The pre-pass hoists nested attributes so
// matching and diffing always see the flattened shape.
var liftPrefixes = map[string]string{
	"Section": "section_",
	"Offset":  "offset_",
}

// NormalizeRoles runs the cross-version reorganization pre-pass over a
// parsed document and returns a role-normalized copy:
//
//   - elements renamed between versions but role-preserved (generic tag plus
//     a kind attribute) are regrouped under their resolved role;
//   - attributes nested in child elements in one version are lifted onto the
//     parent under the flattened prefix, and recorded as lifted so the
//     classifier can tell representation artifacts from real differences.
//
// The input document is never mutated. Matching must always operate on the
// output of this pass.
func NormalizeRoles(doc *model.Document) *model.Document {
	out := &model.Document{
		SourcePath:     doc.SourcePath,
		Version:        doc.Version,
		ElementsByType: make(map[string][]*model.ElementNode, len(doc.ElementsByType)),
	}

	for _, elems := range doc.ElementsByType {
		for _, elem := range elems {
			node := normalizeElement(elem)
			out.ElementsByType[node.Type] = append(out.ElementsByType[node.Type], node)
		}
	}
	return out
}

// normalizeElement produces the role-resolved, lift-applied copy of one
// element. Children are shared with the source node; attribute maps are
// copied before lifting.
func normalizeElement(elem *model.ElementNode) *model.ElementNode {
	node := &model.ElementNode{
		Type:       elem.Type,
		RawTag:     elem.RawTag,
		Attributes: elem.Attributes.Clone(),
		Children:   elem.Children,
		Text:       elem.Text,
		Lifted:     make(map[string]bool),
	}

	// Role-preserved rename: a recognized kind attribute overrides the tag.
	if kind, ok := elem.Attributes.Get(model.KindAttribute); ok {
		if role := roleForKind(kind); role != "" {
			node.Type = role
		}
	}

	for _, child := range elem.Children {
		prefix, ok := liftPrefixes[child.Type]
		if !ok {
			continue
		}
		for name, value := range child.Attributes {
			if name == model.IdentityAttribute {
				continue
			}
			lifted := prefix + name
			// A flattened attribute already on the parent wins; the nested
			// form is only consulted when the parent lacks the datum.
			if node.Attributes.Has(lifted) {
				continue
			}
			node.Attributes[lifted] = value
			node.Lifted[lifted] = true
		}
	}

	return node
}
