package optcall

import (
	"testing"

	"rove/internal/runtime"
)

// recordingFrame records which slots the arguments view touches.
type recordingFrame struct {
	slots  []runtime.Value
	reads  []int
	writes []int
}

func (f *recordingFrame) GetArgument(index int) runtime.Value {
	f.reads = append(f.reads, index)
	return f.slots[index]
}

func (f *recordingFrame) PutArgument(index int, value runtime.Value) {
	f.writes = append(f.writes, index)
	f.slots[index] = value
}

func TestIndexedAccessDelegatesToFrame(t *testing.T) {
	frame := &recordingFrame{slots: []runtime.Value{"a", "b", "c"}}
	view := NewArgumentsView(frame, nil, nil, frame.slots)

	got, ok := view.GetIndex(1)
	if !ok || got != "b" {
		t.Fatalf("GetIndex(1) = %v, %v", got, ok)
	}
	view.PutIndex(2, "z")
	if frame.slots[2] != "z" {
		t.Error("PutIndex did not reach the frame slot")
	}
	if len(frame.reads) != 1 || frame.reads[0] != 1 {
		t.Errorf("frame reads = %v, want [1]", frame.reads)
	}
	if len(frame.writes) != 1 || frame.writes[0] != 2 {
		t.Errorf("frame writes = %v, want [2]", frame.writes)
	}
}

// Reads observe parameter mutation done behind the view's back.
func TestReadsAreLive(t *testing.T) {
	frame := &recordingFrame{slots: []runtime.Value{1.0}}
	view := NewArgumentsView(frame, nil, nil, frame.slots)

	frame.slots[0] = 2.0
	if got, _ := view.GetIndex(0); got != 2.0 {
		t.Errorf("GetIndex(0) = %v, want the mutated 2.0", got)
	}
}

func TestLengthIsImmutable(t *testing.T) {
	frame := &recordingFrame{slots: []runtime.Value{"a", "b"}}
	view := NewArgumentsView(frame, nil, nil, frame.slots)

	view.PutIndex(0, "x")
	view.PutIndex(5, "expando")
	view.Put("length", 99)

	if got, _ := view.Get("length"); got != 2 {
		t.Errorf("length = %v, want 2", got)
	}
	if view.Length() != 2 {
		t.Errorf("Length() = %d, want 2", view.Length())
	}
}

// Out-of-range indices are plain expando storage; they never touch the frame.
func TestOutOfRangeIsExpando(t *testing.T) {
	frame := &recordingFrame{slots: []runtime.Value{"a"}}
	view := NewArgumentsView(frame, nil, nil, frame.slots)

	if _, ok := view.GetIndex(3); ok {
		t.Error("absent out-of-range index reported present")
	}
	view.PutIndex(3, "extra")
	view.PutIndex(-1, "neg")
	got, ok := view.GetIndex(3)
	if !ok || got != "extra" {
		t.Fatalf("GetIndex(3) = %v, %v", got, ok)
	}
	if got, ok := view.GetIndex(-1); !ok || got != "neg" {
		t.Fatalf("GetIndex(-1) = %v, %v", got, ok)
	}
	if len(frame.reads) != 0 || len(frame.writes) != 0 {
		t.Errorf("expando access reached the frame: reads=%v writes=%v", frame.reads, frame.writes)
	}
	if !view.HasIndex(3) || view.HasIndex(4) {
		t.Error("HasIndex wrong for expando range")
	}
}

func TestIdsAreDenseAndStable(t *testing.T) {
	frame := &recordingFrame{slots: []runtime.Value{"a", "b", "c"}}
	view := NewArgumentsView(frame, nil, nil, frame.slots)

	view.PutIndex(1, "changed")
	view.PutIndex(9, "expando")
	view.GetIndex(0)

	ids := view.Ids()
	if len(ids) != 3 {
		t.Fatalf("len(Ids()) = %d, want 3", len(ids))
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("Ids()[%d] = %v, want %d", i, id, i)
		}
	}
}

func TestCalleeAndConstructor(t *testing.T) {
	cx := runtime.NewContext()
	global := runtime.NewGlobalScope(cx)

	callee := runtime.NewScriptableObject("Function")
	frame := &recordingFrame{slots: nil}
	view := NewArgumentsView(frame, callee, global, nil)

	if got, _ := view.Get("callee"); got != runtime.Value(callee) {
		t.Error("callee does not point at the invoked callable")
	}
	objectCtor := runtime.GetTopScopeValue(global, "Object")
	if objectCtor == nil {
		t.Fatal("top scope has no Object constructor")
	}
	if got, _ := view.Get("constructor"); got != objectCtor {
		t.Error("constructor is not the top scope's Object")
	}
	if view.Prototype() != runtime.ObjectPrototype(global) {
		t.Error("prototype is not the standard object prototype")
	}
	if view.ClassName() != "Arguments" {
		t.Errorf("ClassName() = %q", view.ClassName())
	}
}

func TestActivationSlots(t *testing.T) {
	cx := runtime.NewContext()
	global := runtime.NewGlobalScope(cx)

	args := []runtime.Value{"x", 2.0}
	a := NewActivation("the-callee", global, args)

	if a.ClassName() != "Call" {
		t.Errorf("ClassName() = %q", a.ClassName())
	}
	if a.GetArgument(1) != 2.0 {
		t.Error("slot 1 not initialized from call arguments")
	}
	// The frame owns its slots; mutating the caller's array is invisible.
	args[0] = "mutated"
	if a.GetArgument(0) != "x" {
		t.Error("frame slot aliases the caller's argument array")
	}

	a.PutArgument(0, "written")
	if got, _ := a.Arguments.GetIndex(0); got != "written" {
		t.Error("arguments view does not observe a frame write")
	}
	a.Arguments.PutIndex(1, 3.0)
	if a.GetArgument(1) != 3.0 {
		t.Error("frame does not observe an arguments-view write")
	}
}
