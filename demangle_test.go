package gnu2demangle

import (
	"errors"
	"testing"

	"github.com/abelbriggs1/gnu2-demangler/cxxast"
)

func TestDemangleSucceeds(t *testing.T) {
	result, ok, err := Demangle([]byte("saveOnQuitOverlay__Fv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok == true")
	}
	want := "saveOnQuitOverlay(void)"
	if result != want {
		t.Fatalf("got %q, want %q", result, want)
	}
}

// Swallow-and-echo: a symbol with no valid "__" split and no data-symbol
// reading returns the original bytes unchanged, with ok == false and no
// error (spec §7's default surface behavior).
func TestDemangleEchoesOnFailure(t *testing.T) {
	input := "aa__aa"
	result, ok, err := Demangle([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok == false")
	}
	if result != input {
		t.Fatalf("got %q, want echoed input %q", result, input)
	}
}

// Empty input fails with ErrUnexpectedEnd, not ErrInvariantViolated, so
// Demangle's swallow-and-echo default still applies: no error, ok == false.
func TestDemangleEmptyInputEchoes(t *testing.T) {
	result, ok, err := Demangle(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok == false")
	}
	if result != "" {
		t.Fatalf("got %q, want empty echo", result)
	}
}

func TestParseReturnsStructuredError(t *testing.T) {
	_, err := Parse([]byte("99short"))
	var pe *cxxast.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is not a *cxxast.ParseError: %v", err)
	}
	if pe.Offset == 0 {
		t.Fatal("expected a non-zero offset for a failure past the start of input")
	}
}
