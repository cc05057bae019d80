package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseFill,
				Kind:   KindTypeMismatch,
				Path:   []string{"items", "2"},
				Want:   "Int32",
				Got:    "String",
				Detail: "cannot convert",
			},
			contains: []string{"[fill]", "type_mismatch", "items.2", "Int32", "String", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseHandle,
				Kind:  KindStaleHandle,
			},
			contains: []string{"[handle]", "stale_handle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseGuest,
				Kind:   KindRegistration,
				Detail: "host module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[guest]", "registration", "host module", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCodec,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseFill,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseFill, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseCreate, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseFill, Kind: KindOutOfRange}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseFill, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseFill, KindTypeMismatch).
		Path("items", "0").
		Want("Int32").
		Got("List").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "number", "list").
		Build()

	if err.Phase != PhaseFill {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseFill)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "items" || err.Path[1] != "0" {
		t.Errorf("Path = %v, want [items 0]", err.Path)
	}
	if err.Want != "Int32" {
		t.Errorf("Want = %v, want 'Int32'", err.Want)
	}
	if err.Got != "List" {
		t.Errorf("Got = %v, want 'List'", err.Got)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected number, got list" {
		t.Errorf("Detail = %v, want 'expected number, got list'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("StaleHandle", func(t *testing.T) {
		err := StaleHandle(PhaseFill, 7)
		if err.Kind != KindStaleHandle {
			t.Errorf("Kind = %v, want %v", err.Kind, KindStaleHandle)
		}
		if err.Value != uint32(7) {
			t.Errorf("Value = %v, want 7", err.Value)
		}
		if !strings.Contains(err.Detail, "7") {
			t.Errorf("Detail = %v, should contain the handle", err.Detail)
		}
	})

	t.Run("DoubleDelete", func(t *testing.T) {
		err := DoubleDelete(3)
		if err.Kind != KindDoubleDelete {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDoubleDelete)
		}
		if err.Phase != PhaseHandle {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseHandle)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseFill, []string{"field"}, "Int32", "String")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.Want != "Int32" || err.Got != "String" {
			t.Errorf("Want=%v Got=%v", err.Want, err.Got)
		}
	})

	t.Run("NotAList", func(t *testing.T) {
		err := NotAList("Int32")
		if err.Kind != KindNotAList {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotAList)
		}
		if err.Want != "List" || err.Got != "Int32" {
			t.Errorf("Want=%v Got=%v", err.Want, err.Got)
		}
	})

	t.Run("NoRuntime", func(t *testing.T) {
		err := NoRuntime()
		if err.Kind != KindNoRuntime {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNoRuntime)
		}
		if err.Phase != PhaseApp {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseApp)
		}
	})

	t.Run("NoMemory", func(t *testing.T) {
		err := NoMemory("create-string")
		if err.Kind != KindNoMemory {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNoMemory)
		}
		if !strings.Contains(err.Detail, "create-string") {
			t.Errorf("Detail = %v, should contain op name", err.Detail)
		}
	})

	t.Run("NoExport", func(t *testing.T) {
		err := NoExport("glint_list_sink")
		if err.Kind != KindNoExport {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNoExport)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := OutOfRange(PhaseFill, []string{"value"}, 3.9e18, "rounds outside Int32")
		if err.Kind != KindOutOfRange {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfRange)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseCodec, "kind 99")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseObject, "property", "value")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, `"value"`) {
			t.Errorf("Detail = %v, should contain the name", err.Detail)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed(PhaseHandle, "handle table")
		if err.Kind != KindClosed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindClosed)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		cause := errors.New("duplicate")
		err := Registration("glint:bridge/variant@0.1.0", "create-i32", cause)
		if err.Kind != KindRegistration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRegistration)
		}
		if !errors.Is(err, &Error{Phase: PhaseGuest, Kind: KindRegistration}) {
			t.Error("errors.Is should match phase and kind")
		}
		if !errors.Is(err.Unwrap(), cause) {
			t.Error("cause not preserved")
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io failure")
		err := Wrap(PhaseConfig, KindInvalidData, cause, "load manifest")
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
		if !errors.Is(errors.Unwrap(err), cause) {
			t.Error("Wrap did not preserve cause")
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("bad token")
		err := ParseFailed("surface.wit", cause)
		if err.Phase != PhaseParse {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
		}
		if !strings.Contains(err.Detail, "surface.wit") {
			t.Errorf("Detail = %v, should name the input", err.Detail)
		}
	})
}
