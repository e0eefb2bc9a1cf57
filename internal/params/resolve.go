package params

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// Binding is one parameter name bound to one of its values
type Binding struct {
	Name  string `json:"name" yaml:"name"`
	Value Value  `json:"value" yaml:"value"`
}

// Assignment binds every parameter of a space to one value, in the space's
// declaration order.
type Assignment []Binding

// Lookup returns the value bound to name
func (a Assignment) Lookup(name string) (Value, bool) {
	for _, b := range a {
		if b.Name == name {
			return b.Value, true
		}
	}
	return Value{}, false
}

// Map returns the assignment as a map from name to value
func (a Assignment) Map() map[string]Value {
	m := make(map[string]Value, len(a))
	for _, b := range a {
		m[b.Name] = b.Value
	}
	return m
}

// MarshalJSON encodes the assignment as a JSON object with keys in
// declaration order.
func (a Assignment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(b.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the assignment as a YAML mapping with keys in
// declaration order.
func (a Assignment) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, b := range a {
		var value yaml.Node
		if err := value.Encode(b.Value.Interface()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: b.Name},
			&value,
		)
	}
	return node, nil
}

// Resolve decodes a task index into its assignment. The index is read as a
// mixed-radix number whose digits, most significant first, select a value
// from each parameter in declaration order.
func (s *Space) Resolve(index int64) (Assignment, error) {
	if index < 0 || index >= s.count {
		return nil, errors.NewIndexOutOfRangeError(index, s.count)
	}

	assignment := make(Assignment, len(s.params))
	remaining := index
	for i := len(s.params) - 1; i >= 0; i-- {
		p := s.params[i]
		radix := int64(len(p.Values))
		assignment[i] = Binding{Name: p.Name, Value: p.Values[remaining%radix]}
		remaining /= radix
	}

	return assignment, nil
}

// Index encodes an assignment back into its task index. It is the inverse
// of Resolve. A value listed more than once in a parameter encodes to its
// first position. Every binding must name a declared parameter, once.
func (s *Space) Index(a Assignment) (int64, error) {
	seen := make(map[string]bool, len(a))
	for _, b := range a {
		if _, ok := s.positions[b.Name]; !ok {
			return 0, errors.NewInvalidParameterError(b.Name, "not declared in the parameter space")
		}
		if seen[b.Name] {
			return 0, errors.NewInvalidParameterError(b.Name, "assigned more than once")
		}
		seen[b.Name] = true
	}

	var index int64
	for _, p := range s.params {
		v, ok := a.Lookup(p.Name)
		if !ok {
			return 0, errors.NewInvalidParameterError(p.Name, "missing from assignment")
		}

		digit := -1
		for i, candidate := range p.Values {
			if candidate.Equal(v) {
				digit = i
				break
			}
		}
		if digit < 0 {
			return 0, errors.NewInvalidParameterError(p.Name, fmt.Sprintf("%s is not one of its values", v))
		}

		index = index*int64(len(p.Values)) + int64(digit)
	}

	return index, nil
}

// Lookup finds the value of the named parameter whose rendered text is text.
func (s *Space) Lookup(name, text string) (Value, error) {
	pos, ok := s.positions[name]
	if !ok {
		return Value{}, errors.NewInvalidParameterError(name, "not declared in the parameter space")
	}
	for _, v := range s.params[pos].Values {
		if v.String() == text {
			return v, nil
		}
	}
	return Value{}, errors.NewInvalidParameterError(name, fmt.Sprintf("%q is not one of its values", text))
}

// Each calls fn for every index in ascending order with its assignment. It
// stops at the first error returned by fn.
func (s *Space) Each(fn func(index int64, a Assignment) error) error {
	for i := int64(0); i < s.count; i++ {
		a, err := s.Resolve(i)
		if err != nil {
			return err
		}
		if err := fn(i, a); err != nil {
			return err
		}
	}
	return nil
}
