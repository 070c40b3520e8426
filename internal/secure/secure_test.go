package secure

import "testing"

func TestDestroy_ZeroesInPlace(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	s := New(data)
	s.Destroy()
	for _, b := range data {
		if b != 0 {
			t.Fatalf("expected the original backing array to be zeroed, got %v", data)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected length 0 after Destroy, got %d", s.Len())
	}
}

func TestDestroy_IsIdempotent(t *testing.T) {
	s := New([]byte{9, 9, 9})
	s.Destroy()
	s.Destroy() // must not panic
	if s.Len() != 0 {
		t.Fatal("expected length 0 after repeated Destroy")
	}
}

func TestDestroy_NilReceiverIsSafe(t *testing.T) {
	var s *Bytes
	s.Destroy() // must not panic
	if s.Len() != 0 || s.Bytes() != nil {
		t.Fatal("a nil *Bytes must behave as empty")
	}
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	s := New([]byte{5, 6, 7})
	c := s.Clone()
	s.Destroy()
	if c.Len() != 3 {
		t.Fatalf("expected clone to retain its own copy, got length %d", c.Len())
	}
	want := []byte{5, 6, 7}
	got := c.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("clone diverged from original: got %v, want %v", got, want)
		}
	}
}

func TestZero_IsEmptyNotNil(t *testing.T) {
	z := Zero()
	if z.Bytes() == nil {
		t.Fatal("Zero() must return a non-nil empty slice")
	}
	if z.Len() != 0 {
		t.Fatalf("expected length 0, got %d", z.Len())
	}
}
