package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harrison/modeldiff/internal/model"
)

// ErrNoVersion is returned when a document declares no schema version and
// the caller supplied no override.
var ErrNoVersion = errors.New("document declares no schema version")

// container tags that group elements without being elements themselves.
var containerTags = map[string]bool{
	"ELEMENTS":  true,
	"MEMBERS":   true,
	"STRUCTURE": true,
}

// LoadDocument reads and parses a model document from disk.
func LoadDocument(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := ParseDocument(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses a model document from r into an element graph. The
// root element's version attribute becomes the document's schema version;
// ErrNoVersion is returned (wrapped) when it is missing. Elements directly
// under the root, or under a grouping container, become the document's
// element collections, keyed by resolved structural role.
func ParseDocument(r io.Reader, sourcePath string) (*model.Document, error) {
	dec := xml.NewDecoder(r)

	root, err := nextElement(dec)
	if err != nil {
		return nil, fmt.Errorf("read document root: %w", err)
	}

	doc := &model.Document{
		SourcePath:     sourcePath,
		ElementsByType: make(map[string][]*model.ElementNode),
	}
	for _, attr := range root.Attr {
		name := strings.ToLower(attr.Name.Local)
		if name == "version" || name == "schema_version" {
			doc.Version = attr.Value
			break
		}
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("root element <%s>: %w", root.Name.Local, ErrNoVersion)
	}

	if err := collectElements(dec, root.Name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// nextElement advances the decoder to the next start element, skipping
// character data, comments and directives.
func nextElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// collectElements reads the children of the open element named by parent,
// descending through grouping containers, and appends each structural
// element to the document.
func collectElements(dec *xml.Decoder, parent xml.Name, doc *model.Document) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if containerTags[strings.ToUpper(t.Name.Local)] {
				if err := collectElements(dec, t.Name, doc); err != nil {
					return err
				}
				continue
			}
			node, err := decodeElement(dec, t)
			if err != nil {
				return err
			}
			doc.ElementsByType[node.Type] = append(doc.ElementsByType[node.Type], node)
		case xml.EndElement:
			if t.Name == parent {
				return nil
			}
		}
	}
}

// decodeElement builds an ElementNode from an open start element, consuming
// tokens through the matching end element.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*model.ElementNode, error) {
	node := &model.ElementNode{
		RawTag:     start.Name.Local,
		Type:       NormalizeElementName(start.Name.Local),
		Attributes: make(model.AttributeMap, len(start.Attr)),
	}
	for _, attr := range start.Attr {
		node.Attributes[attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("element <%s>: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Text = strings.TrimSpace(text.String())
			return node, nil
		}
	}
}
