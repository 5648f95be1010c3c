// Package testkit holds the seam and panic helpers shared by package tests
package testkit

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process-wide lock for the rest of the test; use it in
// tests that Swap package-level state
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}

// MustPanic fails the test unless fn panics; a non-empty want must appear in the panic value
func MustPanic(t *testing.T, fn func(), want ...string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got none")
		}
		msg := fmt.Sprint(r)
		for _, w := range want {
			if !strings.Contains(msg, w) {
				t.Fatalf("panic %q does not mention %q", msg, w)
			}
		}
	}()
	fn()
}

// MustContain fails unless every needle appears in haystack; the full text
// is printed once on failure
func MustContain(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	var missing []string
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		t.Fatalf("missing %q in output:\n%s", missing, haystack)
	}
}
