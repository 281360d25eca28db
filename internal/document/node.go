// Package document models a decoded save payload as a JSON value tree whose
// objects keep the key order of the source text.
package document

import (
	"bytes"
	"encoding/json"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags the variant held by a Node.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Number
	String
	Array
	Object
)

// String returns the type name used in reports.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Fields is the ordered key/value storage of an object node.
type Fields = orderedmap.OrderedMap[string, *Node]

// Node is one value of the tree. Only the fields matching Kind are set:
// Bool for Boolean, Text for String and Number (the literal as written),
// Items for Array and Fields for Object.
type Node struct {
	Kind   Kind
	Bool   bool
	Text   string
	Items  []*Node
	Fields *Fields
}

func NewNull() *Node { return &Node{Kind: Null} }

func NewBool(b bool) *Node { return &Node{Kind: Boolean, Bool: b} }

// NewNumber wraps a JSON number literal. The literal is not validated.
func NewNumber(literal string) *Node { return &Node{Kind: Number, Text: literal} }

func NewString(s string) *Node { return &Node{Kind: String, Text: s} }

func NewArray(items ...*Node) *Node { return &Node{Kind: Array, Items: items} }

func NewObject() *Node {
	return &Node{Kind: Object, Fields: orderedmap.New[string, *Node]()}
}

// Set stores v under key. An existing key keeps its position and takes the
// new value, matching how duplicate keys in the source are resolved.
func (n *Node) Set(key string, v *Node) *Node {
	n.Fields.Set(key, v)
	return n
}

// Get returns the value stored under key on an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != Object {
		return nil, false
	}
	return n.Fields.Get(key)
}

// Each calls fn for every entry of an object node in document order until fn
// returns false.
func (n *Node) Each(fn func(key string, v *Node) bool) {
	if n.Kind != Object {
		return
	}
	for pair := n.Fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// TypeName is the report label for the node's kind.
func (n *Node) TypeName() string { return n.Kind.String() }

// IsContainer reports whether the node is an array or an object.
func (n *Node) IsContainer() bool { return n.Kind == Array || n.Kind == Object }

// Len is the element count of a container and zero for scalars.
func (n *Node) Len() int {
	switch n.Kind {
	case Array:
		return len(n.Items)
	case Object:
		return n.Fields.Len()
	}
	return 0
}

// MarshalJSON encodes the tree compactly, preserving key order and number
// literals.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	n.encode(&buf)
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) {
	if n == nil {
		buf.WriteString("null")
		return
	}
	switch n.Kind {
	case Null:
		buf.WriteString("null")
	case Boolean:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case Number:
		buf.WriteString(n.Text)
	case String:
		writeJSONString(buf, n.Text)
	case Array:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		first := true
		n.Each(func(key string, v *Node) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeJSONString(buf, key)
			buf.WriteByte(':')
			v.encode(buf)
			return true
		})
		buf.WriteByte('}')
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}
