package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Parse decodes JSON text into a Node tree. The text is validated in full
// before the tree is built, so a syntax error carries the offending offset.
func Parse(data []byte) (*Node, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("read root value: %w", err)
	}
	root, err := build(value, typ)
	if err != nil {
		// jsonparser cannot unescape unpaired surrogates in keys.
		return decodeTree(data)
	}
	return root, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) *Node {
	n, err := Parse([]byte(text))
	if err != nil {
		panic(fmt.Sprintf("document: %v", err))
	}
	return n
}

func build(value []byte, typ jsonparser.ValueType) (*Node, error) {
	switch typ {
	case jsonparser.Null:
		return NewNull(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case jsonparser.Number:
		return NewNumber(string(value)), nil
	case jsonparser.String:
		s, err := parseString(value)
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case jsonparser.Array:
		return buildArray(value)
	case jsonparser.Object:
		return buildObject(value)
	}
	return nil, fmt.Errorf("unsupported value type %s", typ)
}

func buildArray(value []byte) (*Node, error) {
	arr := NewArray()
	var inner error
	_, err := jsonparser.ArrayEach(value, func(item []byte, typ jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = err
			return
		}
		child, err := build(item, typ)
		if err != nil {
			inner = err
			return
		}
		arr.Items = append(arr.Items, child)
	})
	if inner != nil {
		return nil, inner
	}
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func buildObject(value []byte) (*Node, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(value, func(key, item []byte, typ jsonparser.ValueType, _ int) error {
		name := string(key)
		child, err := build(item, typ)
		if err != nil {
			return fmt.Errorf("key %q: %w", name, err)
		}
		obj.Set(name, child)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// parseString unescapes the body of a string literal. jsonparser rejects
// unpaired surrogate escapes, so those literals go through encoding/json,
// which replaces them with U+FFFD.
func parseString(body []byte) (string, error) {
	if s, err := jsonparser.ParseString(body); err == nil {
		return s, nil
	}
	quoted := make([]byte, 0, len(body)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, body...)
	quoted = append(quoted, '"')
	var s string
	if err := json.Unmarshal(quoted, &s); err != nil {
		return "", err
	}
	return s, nil
}

// decodeTree builds the tree from the encoding/json token stream, keeping
// document order.
func decodeTree(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' {
			arr := NewArray()
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Items = append(arr.Items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			child, err := decodeValue(dec)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, child)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case string:
		return NewString(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
