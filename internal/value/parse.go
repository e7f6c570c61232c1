package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var integerLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

func isNumberLiteral(s string) bool { return numberLiteral.MatchString(s) }

// SyntaxError reports text that is not valid JSON.
type SyntaxError struct {
	Text   string
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Msg)
	}
	return "invalid JSON: " + e.Msg
}

func newSyntaxError(text string) *SyntaxError {
	se := &SyntaxError{Text: text, Msg: "unexpected input"}
	if strings.TrimSpace(text) == "" {
		se.Msg = "unexpected end of JSON input"
		return se
	}
	var probe any
	err := json.Unmarshal([]byte(text), &probe)
	var jse *json.SyntaxError
	if errors.As(err, &jse) {
		se.Msg = jse.Error()
		se.Offset = jse.Offset
	} else if err != nil {
		se.Msg = err.Error()
	}
	return se
}

// Parse decodes JSON text keeping member order and number literals.
func Parse(text string) (Value, error) {
	if !gjson.Valid(text) {
		return Value{}, newSyntaxError(text)
	}
	return fromResult(gjson.Parse(text)), nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, newSyntaxError(string(data))
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Value{kind: KindNumber, s: strings.TrimSpace(r.Raw)}
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			out := Value{kind: KindArray, arr: []Value{}}
			r.ForEach(func(_, e gjson.Result) bool {
				out.arr = append(out.arr, fromResult(e))
				return true
			})
			return out
		}
		out := Value{kind: KindObject, obj: []Pair{}}
		r.ForEach(func(k, e gjson.Result) bool {
			out.obj = setPair(out.obj, k.Str, fromResult(e))
			return true
		})
		return out
	default:
		return Null()
	}
}

// UnmarshalYAML decodes a YAML node keeping mapping order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := fromYAML(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(node.Content[0])
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.MappingNode:
		out := Value{kind: KindObject, obj: []Pair{}}
		for i := 0; i+1 < len(node.Content); i += 2 {
			ev, err := fromYAML(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			out.obj = setPair(out.obj, node.Content[i].Value, ev)
		}
		return out, nil
	case yaml.SequenceNode:
		out := Value{kind: KindArray, arr: []Value{}}
		for _, c := range node.Content {
			ev, err := fromYAML(c)
			if err != nil {
				return Value{}, err
			}
			out.arr = append(out.arr, ev)
		}
		return out, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, err
			}
			return Bool(b), nil
		case "!!int":
			if isNumberLiteral(node.Value) {
				return Value{kind: KindNumber, s: node.Value}, nil
			}
			var i int64
			if err := node.Decode(&i); err != nil {
				return Value{}, err
			}
			return Int(i), nil
		case "!!float":
			if isNumberLiteral(node.Value) {
				return Value{kind: KindNumber, s: node.Value}, nil
			}
			var f float64
			if err := node.Decode(&f); err != nil {
				return Value{}, err
			}
			return Float(f), nil
		default:
			return String(node.Value), nil
		}
	}
	return Value{}, fmt.Errorf("value: unsupported yaml node kind %d", node.Kind)
}

// MarshalYAML emits mappings in member order and numbers with their literal text.
func (v Value) MarshalYAML() (any, error) {
	return v.toYAML(), nil
}

func (v Value) toYAML() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Text()}
	case KindNumber:
		tag := "!!float"
		if integerLiteral.MatchString(v.s) {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.s}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range v.obj {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
				p.Value.toYAML())
		}
		return n
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.arr {
			n.Content = append(n.Content, e.toYAML())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
