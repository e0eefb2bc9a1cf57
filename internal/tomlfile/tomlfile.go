// Package tomlfile decodes flat TOML documents while keeping the order in
// which their top-level keys were declared.
package tomlfile

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// Entry is a top-level key and its decoded value. Values are what go-toml
// produces for an untyped document: string, int64, float64, bool, []any,
// map[string]any or one of the date/time types.
type Entry struct {
	Key   string
	Value any
}

// Decode parses data and returns its top-level entries in declaration order.
// Keys introduced by a table header or a dotted key appear once, at the
// position of their first declaration, with a map value.
func Decode(data []byte) ([]Entry, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	order, err := keyOrder(data)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		value, ok := values[key]
		if !ok {
			return nil, fmt.Errorf("key %q declared but not decoded", key)
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}

	return entries, nil
}

func keyOrder(data []byte) ([]string, error) {
	var p unstable.Parser
	p.Reset(data)

	seen := make(map[string]bool)
	var order []string
	inTable := false

	for p.NextExpression() {
		expr := p.Expression()

		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			inTable = true
		case unstable.KeyValue:
			if inTable {
				continue
			}
		default:
			continue
		}

		key := expr.Key()
		if !key.Next() {
			continue
		}
		name := string(key.Node().Data)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	if err := p.Error(); err != nil {
		return nil, err
	}

	return order, nil
}
