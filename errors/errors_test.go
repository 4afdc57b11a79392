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
				Phase:      PhaseResolve,
				Kind:       KindUnsupportedShape,
				Path:       []string{"pType", "aBase"},
				Address:    0x1200,
				HostType:   "_typelib_Foo",
				SourceType: "com.sun.star.uno.XFoo",
				Detail:     "not a descriptor",
			},
			contains: []string{"[resolve]", "unsupported_shape", "pType.aBase", "@0x1200", "_typelib_Foo", "com.sun.star.uno.XFoo", "not a descriptor"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRead,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[read]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseExpand,
				Kind:   KindReadFailure,
				Detail: "elements",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[expand]", "read_failure", "elements", "caused by", "underlying error"},
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
		Phase: PhaseRead,
		Kind:  KindReadFailure,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindDepthExceeded,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindDepthExceeded}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseRender, Kind: KindDepthExceeded}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(errors.New("plain")) {
		t.Error("Is should not match foreign errors")
	}
}

func TestSentinels(t *testing.T) {
	t.Run("unresolved matches on kind", func(t *testing.T) {
		err := Unresolved(0x40, "missing pType")
		if !errors.Is(err, ErrUnresolved) {
			t.Error("Unresolved should match ErrUnresolved")
		}
		if errors.Is(err, ErrReadFailure) {
			t.Error("Unresolved should not match ErrReadFailure")
		}
	})

	t.Run("read failure in any phase", func(t *testing.T) {
		err := &Error{Phase: PhaseExpand, Kind: KindReadFailure}
		if !errors.Is(err, ErrReadFailure) {
			t.Error("expand read failure should match ErrReadFailure")
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		inner := ReadFailure([]string{"nElements"}, 0x10, errors.New("eof"))
		outer := Unresolved(0x20, "sequence header")
		outer.Cause = inner
		if !errors.Is(outer, ErrReadFailure) {
			t.Error("errors.Is should find the wrapped read failure")
		}
	})
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindUnsupportedKind).
		Path("aBase", "eTypeClass").
		HostType("_typelib_TypeDescription").
		SourceType("com.sun.star.uno.XFoo").
		Address(0x100).
		Value(23).
		Cause(cause).
		Detail("type class %d", 23).
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindUnsupportedKind {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedKind)
	}
	if len(err.Path) != 2 || err.Path[0] != "aBase" || err.Path[1] != "eTypeClass" {
		t.Errorf("Path = %v, want [aBase eTypeClass]", err.Path)
	}
	if err.HostType != "_typelib_TypeDescription" {
		t.Errorf("HostType = %v", err.HostType)
	}
	if err.SourceType != "com.sun.star.uno.XFoo" {
		t.Errorf("SourceType = %v", err.SourceType)
	}
	if err.Address != 0x100 {
		t.Errorf("Address = %#x, want 0x100", err.Address)
	}
	if err.Value != 23 {
		t.Errorf("Value = %v, want 23", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "type class 23" {
		t.Errorf("Detail = %v, want 'type class 23'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseRead, []string{"pData"}, "_uno_Any", "pData")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
		}
		if !strings.Contains(err.Detail, "pData") {
			t.Errorf("Detail = %v, should name the field", err.Detail)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseRead, []string{"_pSequence"}, "uno_Sequence *")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.HostType != "uno_Sequence *" {
			t.Errorf("HostType = %v", err.HostType)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseRead, 0x10000, 4)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Address != 0x10000 {
			t.Errorf("Address = %#x", err.Address)
		}
	})

	t.Run("ZeroSize", func(t *testing.T) {
		err := ZeroSize("Empty")
		if err.Kind != KindZeroSize || err.Phase != PhaseExpand {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLoad, "type", "Foo")
		if !strings.Contains(err.Error(), `type "Foo" not found`) {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed("snapshot", errors.New("bad yaml"))
		if err.Phase != PhaseParse || !strings.Contains(err.Error(), "bad yaml") {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}
