package sbatch

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/tomlfile"
)

// Directive is one sbatch option. An empty Value renders as a bare flag.
type Directive struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Header renders the directive as an #SBATCH line. Single letter keys use
// the short option form.
func (d Directive) Header() string {
	if len(d.Key) == 1 {
		if d.Value == "" {
			return "#SBATCH -" + d.Key
		}
		return fmt.Sprintf("#SBATCH -%s %s", d.Key, d.Value)
	}
	if d.Value == "" {
		return "#SBATCH --" + d.Key
	}
	return fmt.Sprintf("#SBATCH --%s=%s", d.Key, d.Value)
}

// Directives is an ordered list of sbatch options
type Directives []Directive

// LoadDirectives reads directives from a flat TOML file.
func LoadDirectives(path string) (Directives, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("read sbatch config %s", path), err)
	}

	entries, err := tomlfile.Decode(data)
	if err != nil {
		return nil, errors.NewFileUnmarshalError(path, "TOML", err)
	}

	d, err := fromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseDirectives decodes a flat TOML document of option = scalar entries,
// keeping their order.
func ParseDirectives(data []byte) (Directives, error) {
	entries, err := tomlfile.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "parse sbatch config", err)
	}

	return fromEntries(entries)
}

func fromEntries(entries []tomlfile.Entry) (Directives, error) {
	d := make(Directives, 0, len(entries))
	for _, e := range entries {
		v, err := params.ValueOf(e.Value)
		if err != nil {
			return nil, errors.NewInvalidDirectiveError(e.Key, err.Error())
		}
		directive, err := newDirective(e.Key, v.String())
		if err != nil {
			return nil, err
		}
		d = append(d, directive)
	}
	return d, nil
}

// ParseOverrides parses key=value options given on the command line. The
// split happens at the first '=', so values may contain '='.
func ParseOverrides(raw []string) (Directives, error) {
	d := make(Directives, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, errors.NewInvalidOverrideError(r)
		}
		directive, err := newDirective(key, value)
		if err != nil {
			return nil, errors.NewInvalidOverrideError(r)
		}
		d = append(d, directive)
	}
	return d, nil
}

func newDirective(key, value string) (Directive, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "-")
	if key == "" {
		return Directive{}, errors.NewInvalidDirectiveError(key, "option name is empty")
	}
	if strings.ContainsAny(key, " \t\r\n=") {
		return Directive{}, errors.NewInvalidDirectiveError(key, "option name contains whitespace or '='")
	}
	if strings.ContainsAny(value, "\r\n") {
		return Directive{}, errors.NewInvalidDirectiveError(key, "value spans several lines")
	}
	return Directive{Key: key, Value: value}, nil
}

// Lookup returns the value of key
func (d Directives) Lookup(key string) (string, bool) {
	for _, directive := range d {
		if directive.Key == key {
			return directive.Value, true
		}
	}
	return "", false
}

// Merge returns a copy of d with overrides applied. An override replaces an
// existing option in place; new options are appended in override order.
func (d Directives) Merge(overrides Directives) Directives {
	merged := make(Directives, len(d), len(d)+len(overrides))
	copy(merged, d)

	for _, o := range overrides {
		replaced := false
		for i := range merged {
			if merged[i].Key == o.Key {
				merged[i].Value = o.Value
				replaced = true
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged
}

// Headers renders every directive as an #SBATCH line
func (d Directives) Headers() []string {
	lines := make([]string, len(d))
	for i, directive := range d {
		lines[i] = directive.Header()
	}
	return lines
}
