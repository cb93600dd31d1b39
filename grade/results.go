package grade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResultsFile is a results document: one entry per graded question.
type ResultsFile struct {
	Questions []Question `yaml:"questions"`
}

// Question is one entry of a results file. Grading fills in Valid, Correct,
// SolutionType and Error; keys the grader does not know are kept in Extra
// and written back untouched.
type Question struct {
	Name         string  `yaml:"name" json:"name"`
	Kind         Kind    `yaml:"kind,omitempty" json:"kind,omitempty"`
	Solution     string  `yaml:"solution" json:"solution"`
	Answer       *string `yaml:"answer,omitempty" json:"answer,omitempty"`
	SolutionType string  `yaml:"solution_type,omitempty" json:"solution_type,omitempty"`
	Valid        *bool   `yaml:"valid,omitempty" json:"valid,omitempty"`
	Correct      *bool   `yaml:"correct,omitempty" json:"correct,omitempty"`
	Error        string  `yaml:"error,omitempty" json:"error,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// Apply records r on q.
func (q *Question) Apply(r Result) {
	valid, correct := r.Valid, r.Correct
	q.Valid = &valid
	q.Correct = &correct
	if r.SolutionType != "" {
		q.SolutionType = r.SolutionType
	}
	q.Error = ""
	if r.Err != nil {
		q.Error = r.Err.Error()
	}
}

// LoadResults reads a results file.
func LoadResults(path string) (*ResultsFile, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rf ResultsFile
	if err := yaml.Unmarshal(d, &rf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &rf, nil
}

// SaveResults writes rf to path, keeping the file mode of an existing file.
func SaveResults(path string, rf *ResultsFile) error {
	d, err := yaml.Marshal(rf)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, d, mode)
}
