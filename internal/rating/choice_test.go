package rating

import (
	"math/rand"
	"testing"
)

func TestGroupNeverEmpty(t *testing.T) {
	g := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	if g.Selected() != NotApplicable {
		t.Fatalf("fresh group selected = %q, want N/A", g.Selected())
	}
	g.Toggle("3", true)
	if g.Selected() != "3" {
		t.Fatalf("toggle on: selected = %q, want 3", g.Selected())
	}
	// Toggling the active symbol off is rejected.
	g.Toggle("3", false)
	if g.Selected() != "3" {
		t.Fatalf("toggle off rejected: selected = %q, want 3", g.Selected())
	}
	// Toggling a different symbol on moves the selection.
	g.Toggle("5", true)
	if g.Selected() != "5" {
		t.Fatalf("selected = %q, want 5", g.Selected())
	}
	if g.IsSelected("3") {
		t.Fatalf("previous symbol still reads selected")
	}
}

func TestGroupSurvivesRandomToggleSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	for i := 0; i < 1000; i++ {
		sym := Scale[rng.Intn(len(Scale))]
		g.Toggle(sym, rng.Intn(2) == 0)
		selected := 0
		for _, s := range Scale {
			if g.IsSelected(s) {
				selected++
			}
		}
		if selected != 1 {
			t.Fatalf("after op %d: %d symbols selected, want exactly 1", i, selected)
		}
	}
}

func TestSeedValidatesPriorValue(t *testing.T) {
	g := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	g.Seed("4")
	if g.Selected() != "4" {
		t.Fatalf("seeded selected = %q, want 4", g.Selected())
	}
	if g.Marked() {
		t.Fatalf("seeding must not count as an operator mark")
	}
	g.Seed("banana")
	if g.Selected() != NotApplicable {
		t.Fatalf("invalid seed selected = %q, want default", g.Selected())
	}
}

func TestDefaultZeroConfiguration(t *testing.T) {
	g := NewChoiceGroup("0", DuplicateNotApplicable)
	if g.Selected() != "0" {
		t.Fatalf("selected = %q, want configured default 0", g.Selected())
	}
	g.Seed("garbage")
	if g.Selected() != "0" {
		t.Fatalf("invalid seed should fall back to configured default, got %q", g.Selected())
	}
}

func TestMarkAppliesDuplicatePolicy(t *testing.T) {
	higher := NewChoiceGroup(NotApplicable, DuplicateHigher)
	higher.Mark("3")
	higher.Mark("5")
	if higher.Selected() != "5" {
		t.Fatalf("higher policy: selected = %q, want 5", higher.Selected())
	}

	discard := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	discard.Mark("3")
	discard.Mark("5")
	if discard.Selected() != NotApplicable {
		t.Fatalf("not-applicable policy: selected = %q, want N/A", discard.Selected())
	}

	// Re-entering the same symbol is not a duplicate.
	same := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	same.Mark("4")
	same.Mark("4")
	if same.Selected() != "4" {
		t.Fatalf("repeated identical mark: selected = %q, want 4", same.Selected())
	}

	// Clear resets the duplicate tracking.
	discard.Clear()
	discard.Mark("2")
	if discard.Selected() != "2" {
		t.Fatalf("after clear: selected = %q, want 2", discard.Selected())
	}
}

func TestCycleWraps(t *testing.T) {
	g := NewChoiceGroup(NotApplicable, DuplicateNotApplicable)
	g.Cycle(-1)
	if g.Selected() != "5" {
		t.Fatalf("cycle back from N/A = %q, want 5", g.Selected())
	}
	g.Cycle(1)
	if g.Selected() != NotApplicable {
		t.Fatalf("cycle forward from 5 = %q, want N/A", g.Selected())
	}
}
