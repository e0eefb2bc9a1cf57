package params

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

type canonicalValue struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type canonicalParameter struct {
	Name   string           `json:"name"`
	Values []canonicalValue `json:"values"`
}

// Canonicalize returns a canonical JSON representation of the space. Unlike
// most canonical forms it keeps parameter and value order, since reordering
// either changes which assignment a task index resolves to.
func Canonicalize(s *Space) ([]byte, error) {
	return canonicalize(s.params)
}

func canonicalize(params []Parameter) ([]byte, error) {
	out := make([]canonicalParameter, len(params))
	for i, p := range params {
		values := make([]canonicalValue, len(p.Values))
		for j, v := range p.Values {
			values[j] = canonicalValue{Kind: v.Kind().String(), Text: v.String()}
		}
		out[i] = canonicalParameter{Name: p.Name, Values: values}
	}
	return json.Marshal(out)
}

func fingerprint(params []Parameter) (string, error) {
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("canonicalize parameters: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash parameters: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// ShortFingerprint returns the first 12 hex digits of a fingerprint
func ShortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}
