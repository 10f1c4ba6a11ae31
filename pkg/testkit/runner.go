package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// HandlerFactory builds a fresh handler with empty state for each scenario.
type HandlerFactory func(t *testing.T) http.Handler

// Run executes a single scenario file.
func Run(t *testing.T, newHandler HandlerFactory, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, newHandler(t), s)
	})
}

// RunDir runs every *.json scenario in dir as a subtest. Files that fail
// to load are reported as test failures.
func RunDir(t *testing.T, newHandler HandlerFactory, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, newHandler(t), s)
		})
	}
}

// runScenario fires the steps in order and stops at the first step whose
// status code is wrong, since later steps depend on its side effects.
func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	for i, st := range s.Steps {
		body, err := s.RequestBody(st)
		if err != nil {
			t.Fatalf("[%s] read request body: %v", st.Name, err)
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req := httptest.NewRequest(st.Method, st.URL, reader)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range st.Headers {
			req.Header.Set(k, v)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !AssertStatusCode(t, st, rec.Code, rec.Body.Bytes()) {
			t.Fatalf("[%s] step %d failed, aborting scenario", s.Name, i)
		}

		expected, err := s.ExpectedResponse(st)
		if err != nil {
			t.Fatalf("[%s] read expected response: %v", st.Name, err)
		}
		AssertJSONBody(t, st, expected, rec.Body.Bytes())
	}
}
