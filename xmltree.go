package vocdata

// Recursive conversion of VOC annotation XML into a nested tree of tag-keyed values.

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// objectTag is the only tag that may repeat under one parent.
const objectTag = "object"

// XMLValue is one of Leaf, Node or ObjectList.
type XMLValue interface {
	isXMLValue()
}

// Leaf is the text of an element without child elements.
type Leaf string

// Node maps child tags to their values.
type Node map[string]XMLValue

// ObjectList accumulates all "object" children of one parent, in document order.
type ObjectList []XMLValue

func (Leaf) isXMLValue()       {}
func (Node) isXMLValue()       {}
func (ObjectList) isXMLValue() {}

// ParseXMLTree reads an XML document from r and returns the root tag and its value.
func ParseXMLTree(r io.Reader) (string, XMLValue, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return "", nil, errors.Wrap(err, "malformed XML")
	}
	root := doc.Root()
	if root == nil {
		return "", nil, errors.New("malformed XML: no root element")
	}
	return root.Tag, parseElement(root), nil
}

// parseElement converts el into a Leaf if it has no child elements, otherwise into a Node.
//
// Children tagged "object" are appended to an ObjectList under that key. Any other repeated tag
// overwrites the earlier value.
func parseElement(el *etree.Element) XMLValue {
	children := el.ChildElements()
	if len(children) == 0 {
		return Leaf(el.Text())
	}

	node := make(Node, len(children))
	for _, child := range children {
		v := parseElement(child)
		if child.Tag != objectTag {
			node[child.Tag] = v
			continue
		}
		objs, _ := node[objectTag].(ObjectList)
		node[objectTag] = append(objs, v)
	}
	return node
}

// Node returns the child node at key.
func (n Node) Node(key string) (Node, error) {
	v, ok := n[key]
	if !ok {
		return nil, errors.Wrapf(ErrMissingField, "%q", key)
	}
	child, ok := v.(Node)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidField, "%q is not an element with children", key)
	}
	return child, nil
}

// Text returns the leaf text at key.
func (n Node) Text(key string) (string, error) {
	v, ok := n[key]
	if !ok {
		return "", errors.Wrapf(ErrMissingField, "%q", key)
	}
	leaf, ok := v.(Leaf)
	if !ok {
		return "", errors.Wrapf(ErrInvalidField, "%q is not a text element", key)
	}
	return string(leaf), nil
}

// Int parses the leaf text at key as a base 10 integer. Surrounding whitespace is ignored.
func (n Node) Int(key string) (int, error) {
	s, err := n.Text(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidField, "%q=%q is not an integer", key, s)
	}
	return i, nil
}

// Objects returns the accumulated "object" children, or nil if there are none.
func (n Node) Objects() ObjectList {
	objs, _ := n[objectTag].(ObjectList)
	return objs
}
