package atlasgen

import (
	"sync/atomic"
	"testing"
)

func TestWorkloadRunsEveryUnitOnce(t *testing.T) {
	const n = 100
	var calls [n]atomic.Int32
	ok := NewWorkload(n, func(i int) bool {
		calls[i].Add(1)
		return true
	}).Finish(4)
	if !ok {
		t.Error("Finish = false with every unit succeeding")
	}
	for i := range calls {
		if got := calls[i].Load(); got != 1 {
			t.Errorf("unit %d ran %d times, want 1", i, got)
		}
	}
}

func TestWorkloadSingleThreadInOrder(t *testing.T) {
	var order []int
	NewWorkload(5, func(i int) bool {
		order = append(order, i)
		return true
	}).Finish(1)
	for i, got := range order {
		if got != i {
			t.Fatalf("order = %v, want sequential indices", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("ran %d units, want 5", len(order))
	}
}

func TestWorkloadFailureDoesNotBlockOthers(t *testing.T) {
	const n = 32
	var ran atomic.Int32
	ok := NewWorkload(n, func(i int) bool {
		ran.Add(1)
		return i != 7
	}).Finish(3)
	if ok {
		t.Error("Finish = true with a failing unit")
	}
	if got := ran.Load(); got != n {
		t.Errorf("ran %d units, want all %d despite the failure", got, n)
	}
}

func TestWorkloadZeroThreadCount(t *testing.T) {
	var ran atomic.Int32
	ok := NewWorkload(16, func(i int) bool {
		ran.Add(1)
		return true
	}).Finish(0)
	if !ok || ran.Load() != 16 {
		t.Errorf("Finish(0) = %v after %d units, want true after 16", ok, ran.Load())
	}
}

func TestWorkloadMoreThreadsThanUnits(t *testing.T) {
	var ran atomic.Int32
	ok := NewWorkload(2, func(i int) bool {
		ran.Add(1)
		return true
	}).Finish(64)
	if !ok || ran.Load() != 2 {
		t.Errorf("Finish = %v after %d units, want true after 2", ok, ran.Load())
	}
}

func TestWorkloadEmpty(t *testing.T) {
	called := false
	if !NewWorkload(0, func(int) bool { called = true; return false }).Finish(4) {
		t.Error("Finish = false for an empty workload")
	}
	if called {
		t.Error("unit function called for an empty workload")
	}
}
