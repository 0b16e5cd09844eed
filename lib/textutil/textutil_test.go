package textutil

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    "SOFT PLAY Hatfield 4 March",
			expected: "soft-play-hatfield-4-march",
		},
		{
			input:    "Catering & Take-Away",
			expected: "catering-take-away",
		},
		{
			input:    "  --Purim!!  ",
			expected: "purim",
		},
		{
			input:    "FIG - Filling in the Gaps",
			expected: "fig-filling-in-the-gaps",
		},
	}

	for _, tc := range testCases {
		got := Slugify(tc.input)
		if got != tc.expected {
			t.Fatalf("Slugify(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Ladies Tisha B'Av Shiur",
		"TFL A41 Edgware Way",
		"already-a-slug",
		"Megilla Reading on the hour",
	}
	for _, input := range inputs {
		once := Slugify(input)
		twice := Slugify(once)
		if once != twice {
			t.Fatalf("Slugify not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags("<p>Fish &amp; Chips&nbsp;&ndash; &pound;5</p>")
	expected := "Fish & Chips – £5"
	if got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
