package check

import "testing"

func TestFindCyclesSimpleCycle(t *testing.T) {
	diags := FindCycles([]Edge{{From: "a", To: "b"}, {From: "b", To: "a"}})
	if len(diags) != 1 {
		t.Fatalf("expected 1 cycle diagnostic, got %+v", diags)
	}
	if diags[0].Message != "circular dependency: a -> b -> a" {
		t.Fatalf("unexpected message: %s", diags[0].Message)
	}
}

func TestFindCyclesSelfLoop(t *testing.T) {
	diags := FindCycles([]Edge{{From: "a", To: "a"}})
	if len(diags) != 1 {
		t.Fatalf("expected 1 self-loop diagnostic, got %+v", diags)
	}
	if diags[0].Message != "circular dependency: a -> a" {
		t.Fatalf("unexpected message: %s", diags[0].Message)
	}
}

func TestFindCyclesNoCycle(t *testing.T) {
	diags := FindCycles([]Edge{{From: "a", To: "b"}, {From: "b", To: "c"}})
	if len(diags) != 0 {
		t.Fatalf("expected no cycles, got %+v", diags)
	}
}

func TestFindCyclesThreeNode(t *testing.T) {
	diags := FindCycles([]Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}})
	if len(diags) != 1 {
		t.Fatalf("expected 1 cycle diagnostic, got %+v", diags)
	}
	if diags[0].Message != "circular dependency: a -> b -> c -> a" {
		t.Fatalf("unexpected message: %s", diags[0].Message)
	}
}
