package rating

import "testing"

func TestParseNormalizesOutOfSetValues(t *testing.T) {
	cases := map[string]Rating{
		"3":       "3",
		" 5 ":     "5",
		"N/A":     NotApplicable,
		"":        NotApplicable,
		"6":       NotApplicable,
		"-1":      NotApplicable,
		"ilegível": NotApplicable,
	}
	for input, want := range cases {
		if got := Parse(input); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestScore(t *testing.T) {
	if _, ok := NotApplicable.Score(); ok {
		t.Fatalf("N/A must not have a numeric score")
	}
	v, ok := Rating("4").Score()
	if !ok || v != 4 {
		t.Fatalf("Score(4) = %d, %v", v, ok)
	}
}

func TestResolveDuplicate(t *testing.T) {
	cases := []struct {
		a, b   Rating
		policy DuplicatePolicy
		want   Rating
	}{
		{"3", "5", DuplicateHigher, "5"},
		{"5", "3", DuplicateHigher, "5"},
		{"3", NotApplicable, DuplicateHigher, "3"},
		{NotApplicable, NotApplicable, DuplicateHigher, NotApplicable},
		{"3", "5", DuplicateNotApplicable, NotApplicable},
		{"5", "5", DuplicateNotApplicable, NotApplicable},
	}
	for _, tc := range cases {
		if got := ResolveDuplicate(tc.a, tc.b, tc.policy); got != tc.want {
			t.Fatalf("ResolveDuplicate(%q, %q, %s) = %q, want %q", tc.a, tc.b, tc.policy, got, tc.want)
		}
	}
}
