package inspect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/errors"
)

// Scenario is a node description and the steps to apply to it.
type Scenario struct {
	Name        string `json:"name" yaml:"name" msgpack:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`

	// Locale selects the initial locale of Messages.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty" msgpack:"locale,omitempty"`
	// Messages maps locale to message key to text. Widget texts of the
	// form {t: key} are looked up here.
	Messages map[string]map[string]string `json:"messages,omitempty" yaml:"messages,omitempty" msgpack:"messages,omitempty"`

	Root  map[string]any `json:"root" yaml:"root" msgpack:"root"`
	Steps []Step         `json:"steps" yaml:"steps" msgpack:"steps"`
}

// Step is one operation applied to a rendered scenario. Which fields are
// read depends on Op.
type Step struct {
	Op string `json:"op" yaml:"op" msgpack:"op"`
	// ID addresses a node; empty addresses the root.
	ID string `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	// Name is the attribute, property, style or event name.
	Name  string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	// Children replaces the children of the addressed node.
	Children []map[string]any `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// Load reads a scenario file. The format follows the extension. A scenario
// without a name is named after the file.
func Load(path string) (*Scenario, error) {
	format, ok := elem.FormatFromPath(path)
	if !ok {
		return nil, errors.New("E301").WithDetailf("file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E300").WithDetailf("file %s", path).Wrap(err)
	}
	sc, err := Parse(format, data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario in the given format.
func Parse(format elem.Format, data []byte) (*Scenario, error) {
	var sc Scenario
	if err := elem.Unmarshal(format, data, &sc); err != nil {
		return nil, errors.New("E300").Wrap(err)
	}
	if sc.Root == nil {
		return nil, errors.New("E300").WithDetail("root is required")
	}
	for i, st := range sc.Steps {
		if st.Op == "" {
			return nil, errors.New("E300").WithDetailf("step %d has no op", i)
		}
	}
	return &sc, nil
}
