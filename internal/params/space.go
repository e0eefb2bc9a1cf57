// Package params holds the parameter space of a sweep and the mixed-radix
// encoding between Slurm array task indices and parameter combinations.
//
// The parameter order is part of a space's identity: the last declared
// parameter is the least significant digit and varies fastest as the task
// index increases, the first declared parameter varies slowest.
package params

import (
	"math"
	"regexp"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parameter is a named, ordered list of candidate values
type Parameter struct {
	Name   string
	Values []Value
}

// Space is an immutable, ordered set of parameters.
type Space struct {
	params      []Parameter
	positions   map[string]int
	count       int64
	fingerprint string
}

// NewSpace validates the parameters and builds a space from them. The
// parameters are copied, so later changes by the caller do not affect it.
func NewSpace(params ...Parameter) (*Space, error) {
	s := &Space{
		params:    make([]Parameter, 0, len(params)),
		positions: make(map[string]int, len(params)),
		count:     1,
	}

	for _, p := range params {
		if !identifierPattern.MatchString(p.Name) {
			return nil, errors.NewInvalidParameterError(p.Name,
				"name must start with a letter or underscore and contain only letters, digits and underscores")
		}
		if _, dup := s.positions[p.Name]; dup {
			return nil, errors.NewDuplicateParameterNameError(p.Name)
		}
		if len(p.Values) == 0 {
			return nil, errors.NewEmptyParameterValuesError(p.Name)
		}

		radix := int64(len(p.Values))
		if s.count > math.MaxInt64/radix {
			return nil, errors.NewCountOverflowError(p.Name)
		}
		s.count *= radix

		values := make([]Value, len(p.Values))
		copy(values, p.Values)
		s.positions[p.Name] = len(s.params)
		s.params = append(s.params, Parameter{Name: p.Name, Values: values})
	}

	fp, err := fingerprint(s.params)
	if err != nil {
		return nil, err
	}
	s.fingerprint = fp

	return s, nil
}

// Count returns the number of combinations in the space. The empty space
// has exactly one combination, the empty assignment.
func (s *Space) Count() int64 {
	return s.count
}

// Len returns the number of parameters
func (s *Space) Len() int {
	return len(s.params)
}

// Names returns the parameter names in declaration order
func (s *Space) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}

// Parameters returns a copy of the parameters in declaration order
func (s *Space) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	for i, p := range s.params {
		values := make([]Value, len(p.Values))
		copy(values, p.Values)
		out[i] = Parameter{Name: p.Name, Values: values}
	}
	return out
}

// Parameter returns the named parameter
func (s *Space) Parameter(name string) (Parameter, bool) {
	pos, ok := s.positions[name]
	if !ok {
		return Parameter{}, false
	}
	return s.Parameters()[pos], true
}

// Fingerprint identifies the space, including parameter and value order.
func (s *Space) Fingerprint() string {
	return s.fingerprint
}
