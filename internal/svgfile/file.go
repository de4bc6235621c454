// Package svgfile inspects and rewrites SVG documents on disk without a
// browser. It backs static id discovery for the targets command and the
// in-place viewBox rewrite behind fit --apply.
package svgfile

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/geometry"
)

// IDEntry is one addressable element found in a document.
type IDEntry struct {
	ID  string
	Tag string
}

// ListIDs returns every element carrying an id attribute in the SVG document
// at path, in document order. The root element is included when it has one.
func ListIDs(path string) ([]IDEntry, error) {
	_, root, err := loadDoc(path)
	if err != nil {
		return nil, err
	}
	return collectIDs(root), nil
}

// ReadViewBox returns the root viewBox of the SVG document at path, or nil
// when the attribute is absent.
func ReadViewBox(path string) (*schemas.ViewBox, error) {
	_, root, err := loadDoc(path)
	if err != nil {
		return nil, err
	}
	raw := root.SelectAttrValue("viewBox", "")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	vb, err := geometry.ParseViewBox(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &vb, nil
}

// ApplyViewBox rewrites the root viewBox attribute of the SVG document at
// path, creating the attribute when it is missing. The rest of the document
// is written back unchanged.
func ApplyViewBox(path string, vb schemas.ViewBox) error {
	doc, root, err := loadDoc(path)
	if err != nil {
		return err
	}
	root.CreateAttr("viewBox", geometry.FormatViewBox(vb))
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func loadDoc(path string) (*etree.Document, *etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("%s has no root element", path)
	}
	if root.Tag != "svg" {
		return nil, nil, fmt.Errorf("%s: root element is <%s>, not <svg>", path, root.Tag)
	}
	return doc, root, nil
}

func collectIDs(root *etree.Element) []IDEntry {
	var entries []IDEntry
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if id := el.SelectAttrValue("id", ""); id != "" {
			entries = append(entries, IDEntry{ID: id, Tag: el.Tag})
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return entries
}
