package panel

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrElementNotFound is returned when an element id is missing from the page.
var ErrElementNotFound = errors.New("element not found")

// Document is parsed settings page markup addressed by element id.
type Document struct {
	root *html.Node
	// unselected holds selects whose value was set to a value no option
	// carries. They read as empty until an option is selected again.
	unselected map[*html.Node]bool
}

// Parse parses page markup. Fragments are wrapped into a full document.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Document{root: root, unselected: make(map[*html.Node]bool)}, nil
}

// Render serializes the document back to markup.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return b.String(), nil
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	return findByID(d.root, id) != nil
}

// Value returns the current value of a form control. Inputs report their
// value attribute, textareas their text, and selects the value of the
// selected option. A select with no option marked reads as its first option,
// or as empty after SetValue matched nothing.
func (d *Document) Value(id string) (string, error) {
	n, err := d.element(id)
	if err != nil {
		return "", err
	}
	switch n.DataAtom {
	case atom.Select:
		opts := options(n)
		for _, o := range opts {
			if hasAttr(o, "selected") {
				return optionValue(o), nil
			}
		}
		if len(opts) > 0 && !d.unselected[n] {
			return optionValue(opts[0]), nil
		}
		return "", nil
	case atom.Textarea:
		return textContent(n), nil
	default:
		v, _ := attr(n, "value")
		return v, nil
	}
}

// SetValue sets the value of a form control. On a select the first option
// whose value matches becomes selected and every other option is cleared; no
// option is selected when nothing matches.
func (d *Document) SetValue(id, value string) error {
	n, err := d.element(id)
	if err != nil {
		return err
	}
	switch n.DataAtom {
	case atom.Select:
		matched := false
		for _, o := range options(n) {
			removeAttr(o, "selected")
			if !matched && optionValue(o) == value {
				setAttr(o, "selected", "")
				matched = true
			}
		}
		if matched {
			delete(d.unselected, n)
		} else {
			d.unselected[n] = true
		}
	case atom.Textarea:
		setText(n, value)
	default:
		setAttr(n, "value", value)
	}
	return nil
}

// Text returns the text content of an element.
func (d *Document) Text(id string) (string, error) {
	n, err := d.element(id)
	if err != nil {
		return "", err
	}
	return textContent(n), nil
}

// SetText replaces the children of an element with a single text node.
func (d *Document) SetText(id, text string) error {
	n, err := d.element(id)
	if err != nil {
		return err
	}
	setText(n, text)
	return nil
}

func (d *Document) element(id string) (*html.Node, error) {
	n := findByID(d.root, id)
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return n, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Option:
				out = append(out, c)
			case atom.Optgroup:
				walk(c)
			}
		}
	}
	walk(sel)
	return out
}

func optionValue(o *html.Node) string {
	if v, ok := attr(o, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(o))
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
