package params

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/tomlfile"
)

// LoadFile reads a TOML parameter file and builds its space.
func LoadFile(path string) (*Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("read parameter file %s", path), err)
	}

	entries, err := tomlfile.Decode(data)
	if err != nil {
		return nil, errors.NewFileUnmarshalError(path, "TOML", err)
	}

	space, err := FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return space, nil
}

// Parse builds a space from TOML text. Every top-level key must map to a
// non-empty list of scalars.
func Parse(data []byte) (*Space, error) {
	entries, err := tomlfile.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "parse parameters", err)
	}
	return FromEntries(entries)
}

// FromEntries builds a space from decoded TOML entries, keeping their order.
func FromEntries(entries []tomlfile.Entry) (*Space, error) {
	params := make([]Parameter, 0, len(entries))

	for _, e := range entries {
		list, ok := e.Value.([]any)
		if !ok {
			return nil, errors.NewInvalidParameterError(e.Key,
				fmt.Sprintf("expected a list of values, got %s", describe(e.Value)))
		}
		if len(list) == 0 {
			return nil, errors.NewEmptyParameterValuesError(e.Key)
		}

		values := make([]Value, len(list))
		for i, item := range list {
			v, err := ValueOf(item)
			if err != nil {
				return nil, errors.NewInvalidParameterError(e.Key, fmt.Sprintf("value %d: %v", i, err))
			}
			values[i] = v
		}

		params = append(params, Parameter{Name: e.Key, Values: values})
	}

	return NewSpace(params...)
}
