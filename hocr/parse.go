package hocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Node is one positioned element recovered from an hOCR document.
type Node struct {
	Class string
	ID    string
	Title string
	Text  string
}

// BBox extracts the bounding-box coordinates from the node's title
// attribute. ok is false when the title carries no bbox property.
func (n Node) BBox() (x1, y1, x2, y2 int, ok bool) {
	for _, prop := range strings.Split(n.Title, ";") {
		fields := strings.Fields(prop)
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}
		coords := make([]int, 4)
		for i, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return 0, 0, 0, 0, false
			}
			coords[i] = v
		}
		return coords[0], coords[1], coords[2], coords[3], true
	}
	return 0, 0, 0, 0, false
}

// WordConfidence extracts the x_wconf value from the node's title attribute.
func (n Node) WordConfidence() (int, bool) {
	for _, prop := range strings.Split(n.Title, ";") {
		fields := strings.Fields(prop)
		if len(fields) != 2 || fields[0] != "x_wconf" {
			continue
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// Document is the parsed form of an hOCR document, exposing its positioned
// nodes in document order.
type Document struct {
	Nodes []Node
}

// ByClass returns the nodes carrying the given hOCR class, in document order.
func (d *Document) ByClass(class string) []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Class == class {
			out = append(out, n)
		}
	}
	return out
}

var hocrClasses = map[string]bool{
	ClassPage:      true,
	ClassBlock:     true,
	ClassParagraph: true,
	ClassLine:      true,
	ClassWord:      true,
}

// ParseDocument reads hOCR markup and collects every element carrying one of
// the hOCR layout classes. Entity references in word text are resolved.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}
	doc := &Document{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if class := attrValue(n, "class"); hocrClasses[class] {
				doc.Nodes = append(doc.Nodes, Node{
					Class: class,
					ID:    attrValue(n, "id"),
					Title: attrValue(n, "title"),
					Text:  textContent(n),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
