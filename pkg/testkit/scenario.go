// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario is an ordered list of steps fired against one fresh handler,
// so later steps see the state earlier ones created:
//
//	{
//	  "name": "stock a product",
//	  "steps": [
//	    {"name": "create", "method": "POST", "url": "/api/products",
//	     "body": {"name": "eggs", "unit": "count"}, "expectedCode": 201},
//	    {"name": "show", "url": "/api/products/1", "expectedCode": 200,
//	     "response": {"data": {"name": "eggs"}}}
//	  ]
//	}
//
// Bodies may also live in files next to the scenario ("requestFileName",
// "responseFileName"). Expected responses are matched as a subset: only the
// object keys they list are compared, arrays must match in length.
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, newHandler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one API story loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`

	dir string
}

// Step is a single request and its expectations.
type Step struct {
	Name             string            `json:"name"`
	Method           string            `json:"method"` // defaults to GET
	URL              string            `json:"url"`
	Headers          map[string]string `json:"headers"`
	Body             json.RawMessage   `json:"body"`
	RequestFileName  string            `json:"requestFileName"`
	ExpectedCode     int               `json:"expectedCode"`
	Response         json.RawMessage   `json:"response"`
	ResponseFileName string            `json:"responseFileName"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		if st.Name == "" {
			st.Name = fmt.Sprintf("%s %s", st.Method, st.URL)
		}
	}
	return nil
}

// RequestBody returns the inline body or the contents of RequestFileName,
// resolved against the scenario's directory. Nil means no body.
func (s *Scenario) RequestBody(st Step) ([]byte, error) {
	if len(st.Body) > 0 {
		return st.Body, nil
	}
	return s.readFile(st.RequestFileName)
}

// ExpectedResponse returns the inline expectation or the contents of
// ResponseFileName. Nil means the body is not checked.
func (s *Scenario) ExpectedResponse(st Step) ([]byte, error) {
	if len(st.Response) > 0 {
		return st.Response, nil
	}
	return s.readFile(st.ResponseFileName)
}

func (s *Scenario) readFile(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	return os.ReadFile(name)
}

// LoadAllFromDir loads every *.json file in dir that parses as a Scenario.
// Files that fail to load are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
