package pdb

import (
	"encoding/xml"
	"strings"
)

// element is a generic XML node. Attributes and leaf children are folded into
// Fields; nested children are navigated explicitly.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

// Fields is the flat, lower-cased view of one record element.
type Fields map[string]string

func (e element) name() string {
	return e.XMLName.Local
}

func (e element) isLeaf() bool {
	return len(e.Children) == 0
}

// child returns the first direct child with the given name.
func (e element) child(name string) (element, bool) {
	for _, c := range e.Children {
		if strings.EqualFold(c.name(), name) {
			return c, true
		}
	}
	return element{}, false
}

// all returns every direct child with the given name, so a singleton and a
// repeated element read the same way.
func (e element) all(name string) []element {
	var out []element
	for _, c := range e.Children {
		if strings.EqualFold(c.name(), name) {
			out = append(out, c)
		}
	}
	return out
}

// isFlat reports whether every child is a leaf.
func (e element) isFlat() bool {
	for _, c := range e.Children {
		if !c.isLeaf() {
			return false
		}
	}
	return true
}

// fields folds attributes and leaf children into lower-cased keys. The first
// occurrence of a repeated key wins. Nested children are ignored.
func (e element) fields() Fields {
	out := make(Fields, len(e.Attrs)+len(e.Children))
	for _, attr := range e.Attrs {
		key := strings.ToLower(attr.Name.Local)
		if _, exists := out[key]; !exists {
			out[key] = strings.TrimSpace(attr.Value)
		}
	}
	for _, c := range e.Children {
		if !c.isLeaf() {
			continue
		}
		key := strings.ToLower(c.name())
		if _, exists := out[key]; !exists {
			out[key] = strings.TrimSpace(c.Text)
		}
	}
	return out
}

// flattenDetails unwraps DETAIL elements that only contain further DETAIL
// elements. Entries that are neither flat records nor pure wrappers are
// counted as skipped.
func flattenDetails(items []element) (flat []element, skipped int) {
	for _, item := range items {
		switch {
		case item.isFlat():
			flat = append(flat, item)
		case isDetailWrapper(item):
			nested, nestedSkipped := flattenDetails(item.Children)
			flat = append(flat, nested...)
			skipped += nestedSkipped
		default:
			skipped++
		}
	}
	return flat, skipped
}

func isDetailWrapper(e element) bool {
	if len(e.Children) == 0 {
		return false
	}
	for _, c := range e.Children {
		if !strings.EqualFold(c.name(), tagDetail) {
			return false
		}
	}
	return true
}
