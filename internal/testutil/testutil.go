// Package testutil provides shared test utilities and fixtures.
//
// The vector helpers compare gonum r3 values with an absolute tolerance,
// which is what most geometry tests in this module need.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTolerance is the absolute tolerance used by the Near helpers when
// the caller passes a non-positive tol.
const DefaultTolerance = 1e-9

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertFloatNear checks |got-want| <= tol.
func AssertFloatNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s = %.12g, want %.12g (tol %g)", name, got, want, tol)
	}
}

// AssertVecNear checks every component of got is within tol of want.
func AssertVecNear(t *testing.T, name string, got, want r3.Vec, tol float64) {
	t.Helper()
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if !VecNear(got, want, tol) {
		t.Errorf("%s = %v, want %v (tol %g)", name, got, want, tol)
	}
}

// AssertVecEqual checks got and want are bit-for-bit equal.
func AssertVecEqual(t *testing.T, name string, got, want r3.Vec) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want exactly %v", name, got, want)
	}
}

// VecNear reports whether a and b agree per component within tol.
func VecNear(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// Line builds n evenly spaced points from a to b inclusive. n < 2 yields {a}.
func Line(a, b r3.Vec, n int) []r3.Vec {
	if n < 2 {
		return []r3.Vec{a}
	}
	out := make([]r3.Vec, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
	}
	return out
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
