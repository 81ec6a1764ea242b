package clierr_test

import (
	"errors"
	"testing"

	"speccheck/internal/clierr"
)

func TestErrorImplementsError(t *testing.T) {
	var err error = clierr.New(clierr.ComponentNotFound, "component not found: UserCard")
	if err.Error() != "component not found: UserCard" {
		t.Errorf("Error() = %q, want %q", err.Error(), "component not found: UserCard")
	}
}

func TestErrorsAs(t *testing.T) {
	err := clierr.New(clierr.SpecMalformed, "bad spec")
	var wrapped error = err

	var target *clierr.Error
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed to unwrap *clierr.Error")
	}
	if target.Code != clierr.SpecMalformed {
		t.Errorf("Code = %q, want %q", target.Code, clierr.SpecMalformed)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{clierr.ComponentNotFound, 1},
		{clierr.SpecMalformed, 1},
		{clierr.NoComponents, 2},
		{clierr.InvalidTier, 2},
		{clierr.InvalidSeverity, 2},
		{clierr.ConfigInvalid, 2},
		{clierr.InternalError, 2},
	}
	for _, tt := range tests {
		err := clierr.New(tt.code, "msg")
		if got := err.ExitCode(); got != tt.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestNewf(t *testing.T) {
	err := clierr.Newf(clierr.InvalidTier, "invalid tier %q", "9")
	if err.Message != `invalid tier "9"` {
		t.Errorf("Message = %q, want %q", err.Message, `invalid tier "9"`)
	}
}

func TestWithDetails(t *testing.T) {
	err := clierr.New(clierr.ComponentNotFound, "not found").
		WithDetails(map[string]any{"component": "UserCard"})
	if err.Details == nil {
		t.Fatal("Details is nil after WithDetails")
	}
	if err.Details["component"] != "UserCard" {
		t.Errorf("Details[component] = %v, want %q", err.Details["component"], "UserCard")
	}
}

func TestSilentError(t *testing.T) {
	err := &clierr.SilentError{Code: 1}
	if err.Error() != "exit 1" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit 1")
	}

	var target *clierr.SilentError
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed to unwrap *SilentError")
	}
}
