// Package dom exposes parsed HTML as a tree of markable elements.
package dom

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reconquest/karma-go"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a node that may carry an expression to be typeset.
type Element interface {
	Attr(name string) (string, bool)
	HasClass(class string) bool

	// SetContent replaces the element's children with markup, verbatim.
	SetContent(markup string)

	// Path is a short locator used in error reports.
	Path() string
}

// Query selects elements carrying a class, in document order.
type Query interface {
	Select(class string) []Element
}

// Collection is an explicit set of elements, for callers that already hold
// the elements they want rendered.
type Collection []Element

func (collection Collection) Select(class string) []Element {
	var elements []Element
	for _, element := range collection {
		if element.HasClass(class) {
			elements = append(elements, element)
		}
	}

	return elements
}

type Document struct {
	document *goquery.Document
	fragment bool
}

func Parse(reader io.Reader) (*Document, error) {
	document, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, karma.Format(err, "unable to parse html")
	}

	return &Document{document: document}, nil
}

// ParseFragment parses a body fragment; Render writes back only the
// fragment, without the html, head and body wrappers. Elements that a full
// parse would move into head stay where they are.
func ParseFragment(reader io.Reader) (*Document, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}

	nodes, err := html.ParseFragment(reader, body)
	if err != nil {
		return nil, karma.Format(err, "unable to parse html fragment")
	}

	for _, node := range nodes {
		body.AppendChild(node)
	}

	return &Document{
		document: goquery.NewDocumentFromNode(body),
		fragment: true,
	}, nil
}

func (document *Document) Select(class string) []Element {
	var elements []Element

	document.document.Find("*").Each(func(_ int, selection *goquery.Selection) {
		if selection.HasClass(class) {
			elements = append(elements, &Node{selection: selection})
		}
	})

	return elements
}

func (document *Document) Render(writer io.Writer) error {
	if document.fragment {
		for _, node := range document.document.Nodes {
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				err := html.Render(writer, child)
				if err != nil {
					return karma.Format(err, "unable to render html")
				}
			}
		}

		return nil
	}

	for _, node := range document.document.Nodes {
		err := html.Render(writer, node)
		if err != nil {
			return karma.Format(err, "unable to render html")
		}
	}

	return nil
}

func (document *Document) String() (string, error) {
	var buffer strings.Builder

	err := document.Render(&buffer)
	if err != nil {
		return "", err
	}

	return buffer.String(), nil
}

type Node struct {
	selection *goquery.Selection
}

func (node *Node) Attr(name string) (string, bool) {
	return node.selection.Attr(name)
}

func (node *Node) HasClass(class string) bool {
	return node.selection.HasClass(class)
}

func (node *Node) SetContent(markup string) {
	node.selection.Empty()

	for _, parent := range node.selection.Nodes {
		parent.AppendChild(&html.Node{
			Type: html.RawNode,
			Data: markup,
		})
	}
}

func (node *Node) Path() string {
	if len(node.selection.Nodes) == 0 {
		return ""
	}

	path := goquery.NodeName(node.selection)

	if id, ok := node.selection.Attr("id"); ok && id != "" {
		path += "#" + id
	}

	return path
}
