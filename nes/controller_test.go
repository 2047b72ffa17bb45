package nes

import "testing"

func TestControllerCyclesThroughButtonsWhenStrobeOff(t *testing.T) {
	c := NewController()
	c.Set([8]bool{true, false, false, false, false, false, false, true}) // A, Right
	c.write(0) // strobe off
	for i, want := range []byte{1, 0, 0, 0, 0, 0, 0, 1} {
		if got := c.read(); got != want {
			t.Fatalf("read #%d: got=%d, want=%d", i, got, want)
		}
	}
	// After 8 reads the real controller keeps returning 1 (open bus), this
	// emulation reports 0 since index is no longer a valid button slot.
	if got := c.read(); got != 0 {
		t.Fatalf("read past button 7: got=%d, want=0", got)
	}
}

func TestControllerStrobeOnAlwaysReportsButtonA(t *testing.T) {
	c := NewController()
	c.Set([8]bool{true, false, false, false, false, false, false, false}) // A pressed
	c.write(1) // strobe on
	if got := c.read(); got != 1 {
		t.Fatalf("first read with strobe held: got=%d, want=1", got)
	}
	if got := c.read(); got != 1 {
		t.Fatalf("strobe held should keep reporting button A: got=%d, want=1", got)
	}
}
