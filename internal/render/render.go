package render

import (
	"regexp"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/params"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Lookup returns the text for a placeholder name
type Lookup func(name string) (string, bool)

// Substitute replaces every {name} placeholder for which lookup has a value.
// Placeholders without a value are left as written and returned, in order
// of first appearance. Braces that do not form a placeholder pass through.
func Substitute(tmpl string, lookup Lookup) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		if text, ok := lookup(name); ok {
			return text
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return match
	})

	return out, missing
}

// Placeholders lists the names referenced by tmpl in order of first appearance
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render fills tmpl with the values of an assignment. Every placeholder must
// name a parameter of the assignment.
func Render(tmpl string, a params.Assignment) (string, error) {
	values := make(map[string]string, len(a))
	for _, b := range a {
		values[b.Name] = b.Value.String()
	}

	out, missing := Substitute(tmpl, func(name string) (string, bool) {
		text, ok := values[name]
		return text, ok
	})
	if len(missing) > 0 {
		known := make([]string, len(a))
		for i, b := range a {
			known[i] = b.Name
		}
		return "", errors.NewUnknownPlaceholderError(missing, known)
	}

	return out, nil
}

// Validate checks that tmpl renders against the space, using the assignment
// at index 0. Every index binds the same names, so one check covers them all.
func Validate(tmpl string, space *params.Space) error {
	a, err := space.Resolve(0)
	if err != nil {
		return err
	}
	_, err = Render(tmpl, a)
	return err
}

// Unused returns the parameters of the space that tmpl never references
func Unused(tmpl string, space *params.Space) []string {
	referenced := make(map[string]bool)
	for _, name := range Placeholders(tmpl) {
		referenced[name] = true
	}

	var unused []string
	for _, name := range space.Names() {
		if !referenced[name] {
			unused = append(unused, name)
		}
	}
	return unused
}
