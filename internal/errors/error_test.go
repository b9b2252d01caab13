package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewUsesRegistry(t *testing.T) {
	err := New(CodePatchTargetLost, "")
	if err.Category != CategoryPatch {
		t.Errorf("category = %q", err.Category)
	}
	if err.Message == "" {
		t.Error("registered code should supply a default message")
	}
	if got := err.Error(); got != "K202: patch target has no live binding" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewfFormats(t *testing.T) {
	err := Newf(CodeSessionProtocol, "bad frame %d", 7)
	if err.Message != "bad frame 7" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Category != CategorySession {
		t.Errorf("category = %q", err.Category)
	}
}

func TestUnknownCodeStillWorks(t *testing.T) {
	err := New("K999", "mystery")
	if err.Error() != "K999: mystery" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := New(CodeRenderFailed, "render broke").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should satisfy errors.Is")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var ke *KalxError
	if !stderrors.As(wrapped, &ke) {
		t.Fatal("errors.As should find KalxError through wrapping")
	}
	if ke.Code != CodeRenderFailed {
		t.Errorf("code = %q", ke.Code)
	}
}

func TestFromError(t *testing.T) {
	if FromError(CodePatchBadOp, nil) != nil {
		t.Error("nil error should pass through as nil")
	}

	plain := stderrors.New("boom")
	err := FromError(CodePatchBadOp, plain)
	if err.Code != CodePatchBadOp || !stderrors.Is(err, plain) {
		t.Errorf("FromError wrapped badly: %+v", err)
	}

	// An error that already carries a code keeps it.
	original := New(CodeSessionClosed, "closed")
	again := FromError(CodePatchBadOp, original)
	if again.Code != CodeSessionClosed {
		t.Errorf("existing code overwritten: %q", again.Code)
	}
}

func TestIs(t *testing.T) {
	err := New(CodeSessionClosed, "")
	if !Is(err, CodeSessionClosed) {
		t.Error("Is should match the code")
	}
	if Is(err, CodePatchBadOp) {
		t.Error("Is matched the wrong code")
	}
	if Is(stderrors.New("plain"), CodePatchBadOp) {
		t.Error("plain errors carry no code")
	}
}
