package inspect

// Snapshot is the observable state of a session.
type Snapshot struct {
	Scenario string `json:"scenario" yaml:"scenario" msgpack:"scenario"`
	Session  string `json:"session,omitempty" yaml:"session,omitempty" msgpack:"session,omitempty"`
	Locale   string `json:"locale,omitempty" yaml:"locale,omitempty" msgpack:"locale,omitempty"`
	Rendered bool   `json:"rendered" yaml:"rendered" msgpack:"rendered"`
	Markup   string `json:"markup" yaml:"markup" msgpack:"markup"`
	// Listeners counts the listeners bound by the scenario's engine;
	// DOMListeners counts every listener in the document, widgets included.
	Listeners    int            `json:"listeners" yaml:"listeners" msgpack:"listeners"`
	DOMListeners int            `json:"domListeners" yaml:"domListeners" msgpack:"domListeners"`
	Tree         map[string]any `json:"tree,omitempty" yaml:"tree,omitempty" msgpack:"tree,omitempty"`
	Steps        []StepResult   `json:"steps" yaml:"steps" msgpack:"steps"`
	Log          []string       `json:"log" yaml:"log" msgpack:"log"`
}

// StepResult is the state after one step.
type StepResult struct {
	Index        int      `json:"index" yaml:"index" msgpack:"index"`
	Op           string   `json:"op" yaml:"op" msgpack:"op"`
	ID           string   `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Markup       string   `json:"markup" yaml:"markup" msgpack:"markup"`
	Listeners    int      `json:"listeners" yaml:"listeners" msgpack:"listeners"`
	DOMListeners int      `json:"domListeners" yaml:"domListeners" msgpack:"domListeners"`
	Log          []string `json:"log,omitempty" yaml:"log,omitempty" msgpack:"log,omitempty"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

// Failed reports whether any step failed.
func (s *Snapshot) Failed() bool {
	for _, st := range s.Steps {
		if st.Error != "" {
			return true
		}
	}
	return false
}
