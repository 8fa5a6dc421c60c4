package safetime

import (
	"math"
	"testing"
	"time"
)

func TestAddInt64_Overflow(t *testing.T) {
	if _, err := AddInt64(math.MaxInt64, 1); err == nil {
		t.Fatal("expected overflow error")
	}
	if v, err := AddInt64(2, 3); err != nil || v != 5 {
		t.Fatalf("expected 5, nil; got %d, %v", v, err)
	}
}

func TestMulInt64_Overflow(t *testing.T) {
	if _, err := MulInt64(math.MaxInt64, 2); err == nil {
		t.Fatal("expected overflow error")
	}
	if v, err := MulInt64(6, 7); err != nil || v != 42 {
		t.Fatalf("expected 42, nil; got %d, %v", v, err)
	}
}

func TestMonotonicRegression(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Second)
	if !MonotonicRegression(now, earlier) {
		t.Fatal("expected regression to be detected")
	}
	if MonotonicRegression(earlier, now) {
		t.Fatal("expected no regression for forward-moving clock")
	}
}

func TestAddDuration_NormalCase(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	got, err := AddDuration(t0, 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.After(t0) {
		t.Fatalf("expected result after t0, got %v", got)
	}
}
