package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionSelect)
	f.PointerUp(3, 4)

	if !f.Has(ActionSelect) || f.Has(ActionQuit) {
		t.Errorf("Has() mismatch: %v", f.Actions)
	}

	clone := f.Clone()
	f.Clear()

	if f.Has(ActionSelect) || len(f.Pointers) != 0 {
		t.Error("Clear should drop actions and pointers")
	}
	if !clone.Has(ActionSelect) || len(clone.Pointers) != 1 || clone.Pointers[0] != (Pointer{X: 3, Y: 4}) {
		t.Errorf("clone changed with the original: %+v", clone)
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}
	zero.Set(ActionUp)
	if !zero.Has(ActionUp) {
		t.Error("Set on a zero frame should work")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:   "None",
		ActionLeft:   "Left",
		ActionSelect: "Select",
		ActionExport: "Export",
		Action(99):   "Unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", int(a), got, want)
		}
	}
}
