package svgfile

import (
	"fmt"
	"os"

	"golang.org/x/net/html"
)

// InlineSVG describes one inline <svg> element found in an HTML document.
type InlineSVG struct {
	// ID is the id attribute of the <svg> element itself, possibly empty.
	ID string
	// Index is the zero-based position among inline <svg> elements in
	// document order.
	Index int
	// IDs lists the addressable descendants, in document order. A nested
	// <svg> viewport appears here as an entry, not as a separate InlineSVG.
	IDs []IDEntry
}

// InlineSVGs scans the HTML document at path for inline <svg> elements.
func InlineSVGs(path string) ([]InlineSVG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var svgs []InlineSVG
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "svg" {
			svgs = append(svgs, InlineSVG{
				ID:    attrValue(n, "id"),
				Index: len(svgs),
				IDs:   collectNodeIDs(n),
			})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return svgs, nil
}

func collectNodeIDs(svg *html.Node) []IDEntry {
	var entries []IDEntry
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if id := attrValue(c, "id"); id != "" {
				entries = append(entries, IDEntry{ID: id, Tag: c.Data})
			}
			walk(c)
		}
	}
	walk(svg)
	return entries
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
