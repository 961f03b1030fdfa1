package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// ProtocolError Tests
// -----------------------------------------------------------------------------

func TestNewProtocolError(t *testing.T) {
	cause := New("transport failure")
	err := NewProtocolError("get count", cause)

	if err.Op != "get count" {
		t.Errorf("Op = %q, want %q", err.Op, "get count")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
}

func TestProtocolError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProtocolError
		want string
	}{
		{
			name: "without tap id",
			err:  NewProtocolError("set depth", nil),
			want: "protocol error: set depth",
		},
		{
			name: "with tap id",
			err:  NewProtocolError("get width", nil).WithTap(3),
			want: "protocol error [tap=3]: get width",
		},
		{
			name: "with tap id zero",
			err:  NewProtocolError("get width", nil).WithTap(0),
			want: "protocol error [tap=0]: get width",
		},
		{
			name: "with cause",
			err:  NewProtocolError("get data", New("bus timeout")).WithTap(7),
			want: "protocol error [tap=7]: get data: bus timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProtocolError_Is(t *testing.T) {
	cause := New("transport failure")
	err := NewProtocolError("get count", cause)

	if !Is(err, cause) {
		t.Error("Is(err, cause) = false, want true")
	}
	if !Is(err, &ProtocolError{}) {
		t.Error("Is(err, &ProtocolError{}) = false, want true")
	}
	if Is(err, ErrWidthMismatch) {
		t.Error("Is(err, ErrWidthMismatch) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// ManifestError Tests
// -----------------------------------------------------------------------------

func TestManifestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ManifestError
		want string
	}{
		{
			name: "message only",
			err:  NewManifestError("cannot open manifest", nil),
			want: "manifest error: cannot open manifest",
		},
		{
			name: "with path",
			err:  NewManifestError("cannot open manifest", nil).WithPath("/tmp/taps.json"),
			want: "manifest error [path=/tmp/taps.json]: cannot open manifest",
		},
		{
			name: "with cause",
			err:  NewManifestError("parse failed", ErrManifestInvalid),
			want: "manifest error: parse failed: manifest file is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManifestError_Unwrap(t *testing.T) {
	err := NewManifestError("parse failed", ErrManifestInvalid)

	if !Is(err, ErrManifestInvalid) {
		t.Error("Is(err, ErrManifestInvalid) = false, want true")
	}
	if Unwrap(err) != ErrManifestInvalid {
		t.Errorf("Unwrap() = %v, want %v", Unwrap(err), ErrManifestInvalid)
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "message only",
			err:  NewValidationError("tap id must be unique"),
			want: "validation error: tap id must be unique",
		},
		{
			name: "with field",
			err:  NewValidationError("must not be empty").WithField("path"),
			want: "validation error [field=path]: must not be empty",
		},
		{
			name: "with field and value",
			err: NewValidationError("widths do not sum to tap width").
				WithField("width").WithValue(12),
			want: "validation error [field=width, value=12]: widths do not sum to tap width",
		},
		{
			name: "with cause",
			err:  NewValidationError("device width drift").WithCause(ErrWidthMismatch),
			want: "validation error: device width drift: tap width mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := NewValidationError("bad manifest")

	if !Is(err, ErrInvalidInput) {
		t.Error("validation errors should match ErrInvalidInput")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsProtocol(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"protocol error", NewProtocolError("get data", nil), true},
		{"wrapped protocol error", fmt.Errorf("stop: %w", NewProtocolError("get data", nil)), true},
		{"plain error", errors.New("boom"), false},
		{"validation error", NewValidationError("bad"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProtocol(tt.err); got != tt.want {
				t.Errorf("IsProtocol() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(NewValidationError("bad")) {
		t.Error("IsValidation(ValidationError) = false, want true")
	}
	if !IsValidation(NewManifestError("bad", nil)) {
		t.Error("IsValidation(ManifestError) = false, want true")
	}
	if IsValidation(NewProtocolError("get data", nil)) {
		t.Error("IsValidation(ProtocolError) = true, want false")
	}
	if IsValidation(nil) {
		t.Error("IsValidation(nil) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	base := New("underlying")

	err := Wrap(base, "context")
	if err == nil {
		t.Fatal("Wrap() = nil, want error")
	}
	if got, want := err.Error(), "context: underlying"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, base) {
		t.Error("wrapped error should match the base error")
	}

	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapf(t *testing.T) {
	base := New("underlying")

	err := Wrapf(base, "tap %d", 5)
	if got, want := err.Error(), "tap 5: underlying"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if Wrapf(nil, "tap %d", 5) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}
