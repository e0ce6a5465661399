package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendEvictsOldest(t *testing.T) {
	b := New[int](3)
	b.Append(0, 1)
	b.Append(1, 2)
	b.Append(2, 3)
	b.Append(3, 4)

	want := []Sample[int]{{1, 2}, {2, 3}, {3, 4}}
	if diff := cmp.Diff(want, b.Samples()); diff != "" {
		t.Errorf("unexpected contents after eviction (-want +got):\n%s", diff)
	}
	if b.Len() != 3 {
		t.Errorf("expected length 3, got %d", b.Len())
	}
}

func TestSamplesOldestFirst(t *testing.T) {
	b := New[float64](5)
	for i := 0; i < 12; i++ {
		b.Append(float64(i), float64(i*i))
	}

	samples := b.Samples()
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Elapsed <= samples[i-1].Elapsed {
			t.Errorf("samples out of order at %d: %v", i, samples)
		}
	}
	if samples[0].Elapsed != 7 || samples[4].Elapsed != 11 {
		t.Errorf("expected window [7..11], got %v", samples)
	}
}

func TestPartiallyFilled(t *testing.T) {
	b := New[int](240)
	b.Append(0.5, 38)

	samples := b.Samples()
	if len(samples) != 1 || samples[0] != (Sample[int]{0.5, 38}) {
		t.Errorf("unexpected samples %v", samples)
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	b := New[int](0)
	if b.Cap() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, b.Cap())
	}
}

func TestReset(t *testing.T) {
	b := New[int](3)
	b.Append(0, 1)
	b.Append(1, 2)
	b.Reset()

	if b.Len() != 0 || len(b.Samples()) != 0 {
		t.Error("expected empty buffer after reset")
	}

	// buffer is reusable after reset
	b.Append(0, 7)
	if got := b.Samples(); len(got) != 1 || got[0].Value != 7 {
		t.Errorf("unexpected samples after reuse: %v", got)
	}
}
