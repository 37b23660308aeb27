package magickit

import "testing"

func TestCallbackChangeToken(t *testing.T) {
	token := NewCallbackChangeToken()
	if token.HasChanged() {
		t.Fatal("new token reports a change")
	}

	var first, second int
	token.RegisterChangeCallback(func() { first++ })
	unregister := token.RegisterChangeCallback(func() { second++ })
	unregister()

	token.SignalChange()
	token.SignalChange()

	if !token.HasChanged() {
		t.Error("token not marked changed")
	}
	if first != 1 {
		t.Errorf("callback ran %d times, want 1", first)
	}
	if second != 0 {
		t.Errorf("unregistered callback ran %d times", second)
	}
}

func TestPathError(t *testing.T) {
	err := &PathError{Op: "write", Path: "a/b.png", Err: ErrExist}
	if err.Error() != "write a/b.png: file already exists" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsExist(err) || IsNotExist(err) {
		t.Error("unwrap mismatch")
	}
	if !IsNotAllowed(&PathError{Op: "read", Path: "..", Err: ErrNotAllowed}) {
		t.Error("expected IsNotAllowed")
	}
}
