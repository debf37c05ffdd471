package core

import "testing"

func TestConnectionGuardCap(t *testing.T) {
	g := NewConnectionGuard(3)

	for i := 0; i < 3; i++ {
		if !g.Admit("10.0.0.1") {
			t.Fatalf("admit %d rejected below cap", i+1)
		}
	}
	if g.Admit("10.0.0.1") {
		t.Fatal("admit above cap accepted")
	}
	// Other addresses are unaffected.
	if !g.Admit("10.0.0.2") {
		t.Fatal("different address rejected")
	}

	// Releasing one slot admits exactly one more.
	g.Release("10.0.0.1")
	if !g.Admit("10.0.0.1") {
		t.Fatal("admit after release rejected")
	}
	if g.Admit("10.0.0.1") {
		t.Fatal("second admit after single release accepted")
	}
}

func TestConnectionGuardReleaseClearsEntry(t *testing.T) {
	g := NewConnectionGuard(2)

	g.Admit("10.0.0.1")
	g.Release("10.0.0.1")
	if n := g.Count("10.0.0.1"); n != 0 {
		t.Fatalf("count after full release = %d, want 0", n)
	}
	if len(g.byAddr) != 0 {
		t.Fatalf("guard retained %d zero entries", len(g.byAddr))
	}

	// Release without a matching admit must not go negative.
	g.Release("10.0.0.1")
	if !g.Admit("10.0.0.1") {
		t.Fatal("admit rejected after spurious release")
	}
}
