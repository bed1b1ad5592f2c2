// Package model defines the data structures shared by the comparison core:
// parsed element graphs, comparison partitions, attribute differences and
// section equivalence results.
//
// Values of these types are built once per parse or per comparison run and
// treated as immutable afterwards. Callers that need a fresh view (after a
// document or policy change) discard the old value and rebuild.
package model

// IdentityAttribute is the attribute that carries an element's identity
// across document revisions. Elements without it cannot be matched.
const IdentityAttribute = "ID"

// KindAttribute discriminates role-preserved element renames between schema
// versions (e.g. a GirderMember tagged kind="BEAM" plays the Beam role).
const KindAttribute = "kind"

// AttributeMap holds an element's attributes as name -> raw string value.
// Presence and value are separate concerns: use Get to distinguish an absent
// attribute from one holding the empty string. Never store sentinel values
// to mean "absent".
type AttributeMap map[string]string

// Get returns the value for name and whether the attribute is present.
func (m AttributeMap) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Has reports whether the attribute is present, regardless of value.
func (m AttributeMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns the attribute names in unspecified order.
func (m AttributeMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// Clone returns a copy that can be mutated without affecting the original.
// Used by the reorganization pre-pass, which never edits parsed nodes in
// place.
func (m AttributeMap) Clone() AttributeMap {
	out := make(AttributeMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ElementNode is one structural element instance in a parsed model document.
// Nodes are owned by their source document and immutable after parsing; the
// reorganization pre-pass produces adjusted copies rather than editing in
// place.
type ElementNode struct {
	// Type is the resolved structural role (canonical element type) after
	// name normalization. Matching and classification operate on this.
	Type string `json:"type"`

	// RawTag is the element tag as it appeared in the source document.
	// Differs from Type when the schema version renamed the element.
	RawTag string `json:"raw_tag,omitempty"`

	// Attributes holds the element's attributes. Order is irrelevant.
	Attributes AttributeMap `json:"attributes"`

	// Children are nested elements in document order.
	Children []*ElementNode `json:"children,omitempty"`

	// Text is the element's character data, if any.
	Text string `json:"text,omitempty"`

	// Lifted names the attributes that the reorganization pre-pass hoisted
	// from nested child elements. The classifier uses it to recognize
	// nested-vs-flattened representation differences.
	Lifted map[string]bool `json:"-"`
}

// Identity returns the element's identity attribute value and whether it is
// present.
func (e *ElementNode) Identity() (string, bool) {
	return e.Attributes.Get(IdentityAttribute)
}

// IsLifted reports whether the named attribute was hoisted from a nested
// child by the reorganization pre-pass.
func (e *ElementNode) IsLifted(name string) bool {
	return e.Lifted[name]
}

// FindChild returns the first child with the given resolved type, or nil.
func (e *ElementNode) FindChild(elementType string) *ElementNode {
	for _, c := range e.Children {
		if c.Type == elementType {
			return c
		}
	}
	return nil
}

// Document is one parsed model document revision: its schema version and its
// elements grouped by resolved structural role.
type Document struct {
	// SourcePath is where the document was loaded from (for messages only).
	SourcePath string `json:"source_path,omitempty"`

	// Version is the schema version declared by the document (e.g. "2.1.0").
	Version string `json:"version"`

	// ElementsByType groups elements by resolved structural role, in
	// document order within each type.
	ElementsByType map[string][]*ElementNode `json:"-"`
}

// ElementTypes returns the structural roles present in the document, in
// unspecified order.
func (d *Document) ElementTypes() []string {
	types := make([]string, 0, len(d.ElementsByType))
	for t := range d.ElementsByType {
		types = append(types, t)
	}
	return types
}

// ElementCount returns the total number of elements across all types.
func (d *Document) ElementCount() int {
	n := 0
	for _, elems := range d.ElementsByType {
		n += len(elems)
	}
	return n
}
