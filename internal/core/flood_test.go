package core

import (
	"testing"
	"time"
)

func TestFloodWindowAllowsBurst(t *testing.T) {
	f := newFloodWindow(10*time.Second, 3)
	base := time.Now()

	for i := range 3 {
		if _, ok := f.allow(base.Add(time.Duration(i) * time.Second)); !ok {
			t.Fatalf("message %d rejected within burst", i+1)
		}
	}
}

func TestFloodWindowRejectsWithCooldown(t *testing.T) {
	f := newFloodWindow(10*time.Second, 3)
	base := time.Now()

	for i := range 3 {
		f.allow(base.Add(time.Duration(i) * time.Second))
	}

	wait, ok := f.allow(base.Add(3 * time.Second))
	if ok {
		t.Fatal("4th message within window accepted")
	}
	if wait != 7*time.Second {
		t.Fatalf("cooldown = %v, want 7s", wait)
	}
	if wait > 10*time.Second {
		t.Fatalf("cooldown %v exceeds window span", wait)
	}
}

func TestFloodWindowRecoversAfterEviction(t *testing.T) {
	f := newFloodWindow(10*time.Second, 3)
	base := time.Now()

	for i := range 3 {
		f.allow(base.Add(time.Duration(i) * time.Second))
	}

	// The oldest stamp has aged out of the window by now.
	if _, ok := f.allow(base.Add(11 * time.Second)); !ok {
		t.Fatal("message after window expiry rejected")
	}
}

func TestFloodWindowRejectionNotRecorded(t *testing.T) {
	f := newFloodWindow(10*time.Second, 1)
	base := time.Now()

	f.allow(base)
	f.allow(base.Add(time.Second))
	f.allow(base.Add(2 * time.Second))

	// Only the first attempt was recorded, so the window clears as soon
	// as that one stamp expires.
	if _, ok := f.allow(base.Add(10*time.Second + time.Millisecond)); !ok {
		t.Fatal("rejected attempts must not extend the window")
	}
}
