package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	KindMap Kind = iota
	KindSeq
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull
)

// TypeTag returns the type category name used for balance analysis.
func (k Kind) TypeTag() string {
	switch k {
	case KindMap:
		return "map"
	case KindSeq:
		return "sequence"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Node is a tagged-variant tree over the record shapes the engine
// scores: ordered mappings, sequences and scalars. Mapping key order
// is document order so traversal order is stable across calls.
type Node struct {
	Kind Kind

	// KindMap: parallel slices, Keys[i] maps to Values[i].
	Keys   []string
	Values []*Node

	// KindSeq
	Items []*Node

	// Scalars
	Str     string
	Num     float64
	Boolean bool
}

// IsMap reports whether the node is a mapping.
func (n *Node) IsMap() bool { return n != nil && n.Kind == KindMap }

// IsContainer reports whether the node is a mapping or a sequence.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == KindMap || n.Kind == KindSeq)
}

// Len returns the number of immediate children of a container node.
func (n *Node) Len() int {
	switch n.Kind {
	case KindMap:
		return len(n.Keys)
	case KindSeq:
		return len(n.Items)
	default:
		return 0
	}
}

// Get returns the value for key in a mapping node, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindMap {
		return nil
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i]
		}
	}
	return nil
}

// Has reports whether a mapping node contains key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// ParseJSON decodes raw JSON into a Node tree, preserving object key
// order and the integer/float distinction of numeric literals.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse record: trailing data after top-level value")
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			node := &Node{Kind: KindMap}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				node.Keys = append(node.Keys, key)
				node.Values = append(node.Values, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return node, nil
		case '[':
			node := &Node{Kind: KindSeq}
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				node.Items = append(node.Items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return &Node{Kind: KindString, Str: t}, nil
	case json.Number:
		return numberNode(t.String())
	case bool:
		return &Node{Kind: KindBool, Boolean: t}, nil
	case nil:
		return &Node{Kind: KindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func numberNode(lit string) (*Node, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return &Node{Kind: KindInt, Num: float64(i)}, nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q: %w", lit, err)
	}
	return &Node{Kind: KindFloat, Num: f}, nil
}

// FromValue converts a decoded Go value (maps, slices, scalars) into a
// Node tree. Map keys are sorted for deterministic traversal since Go
// maps carry no order.
func FromValue(v interface{}) *Node {
	switch t := v.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case bool:
		return &Node{Kind: KindBool, Boolean: t}
	case string:
		return &Node{Kind: KindString, Str: t}
	case int:
		return &Node{Kind: KindInt, Num: float64(t)}
	case int64:
		return &Node{Kind: KindInt, Num: float64(t)}
	case float64:
		if t == float64(int64(t)) {
			return &Node{Kind: KindInt, Num: t}
		}
		return &Node{Kind: KindFloat, Num: t}
	case json.Number:
		n, err := numberNode(t.String())
		if err != nil {
			return &Node{Kind: KindNull}
		}
		return n
	case []interface{}:
		node := &Node{Kind: KindSeq, Items: make([]*Node, 0, len(t))}
		for _, item := range t {
			node.Items = append(node.Items, FromValue(item))
		}
		return node
	case []string:
		node := &Node{Kind: KindSeq, Items: make([]*Node, 0, len(t))}
		for _, s := range t {
			node.Items = append(node.Items, &Node{Kind: KindString, Str: s})
		}
		return node
	case []float64:
		node := &Node{Kind: KindSeq, Items: make([]*Node, 0, len(t))}
		for _, f := range t {
			node.Items = append(node.Items, FromValue(f))
		}
		return node
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &Node{Kind: KindMap}
		for _, k := range keys {
			node.Keys = append(node.Keys, k)
			node.Values = append(node.Values, FromValue(t[k]))
		}
		return node
	default:
		return &Node{Kind: KindString, Str: fmt.Sprintf("%v", t)}
	}
}

// Interface converts the node back to plain Go values (maps, slices,
// scalars), losing key order.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindMap:
		out := make(map[string]interface{}, len(n.Keys))
		for i, k := range n.Keys {
			out[k] = n.Values[i].Interface()
		}
		return out
	case KindSeq:
		out := make([]interface{}, 0, len(n.Items))
		for _, item := range n.Items {
			out = append(out, item.Interface())
		}
		return out
	case KindString:
		return n.Str
	case KindInt:
		return int64(n.Num)
	case KindFloat:
		return n.Num
	case KindBool:
		return n.Boolean
	default:
		return nil
	}
}

// JSON serializes the node back to compact JSON in stored key order.
// This is an internal form used for keyword scanning, not a public
// wire format.
func (n *Node) JSON() string {
	var sb strings.Builder
	n.writeJSON(&sb)
	return sb.String()
}

func (n *Node) writeJSON(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("null")
		return
	}
	switch n.Kind {
	case KindMap:
		sb.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONString(sb, k)
			sb.WriteByte(':')
			n.Values[i].writeJSON(sb)
		}
		sb.WriteByte('}')
	case KindSeq:
		sb.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeJSON(sb)
		}
		sb.WriteByte(']')
	case KindString:
		writeJSONString(sb, n.Str)
	case KindInt:
		sb.WriteString(strconv.FormatInt(int64(n.Num), 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
	case KindBool:
		sb.WriteString(strconv.FormatBool(n.Boolean))
	case KindNull:
		sb.WriteString("null")
	}
}

func writeJSONString(sb *strings.Builder, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		sb.WriteString(strconv.Quote(s))
		return
	}
	sb.Write(b)
}
