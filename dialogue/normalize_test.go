package dialogue

import (
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalize_English(t *testing.T) {
	t.Parallel()

	got := Normalize("What's the PRICE of Aria? 🏠", "en")
	if got != "what's the price of aria?" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_HindiKeepsDevanagari(t *testing.T) {
	t.Parallel()

	got := Normalize("कीमत कितनी है।", "hi")
	if !strings.Contains(got, "कीमत") {
		t.Fatalf("devanagari stripped: %q", got)
	}
	if strings.Contains(got, "।") {
		t.Fatalf("danda survived: %q", got)
	}
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("danda not mapped to period: %q", got)
	}
}

func TestNormalize_ComposesToNFC(t *testing.T) {
	t.Parallel()

	if got := Normalize("café", ""); got != "café" {
		t.Fatalf("got %q, want composed form", got)
	}
	if !norm.NFC.IsNormalString(Normalize("कीमत", "hi")) {
		t.Fatal("hindi output not NFC")
	}
}

func TestNormalize_UnknownLangCollapsesSpace(t *testing.T) {
	t.Parallel()

	if got := Normalize("  hello   there \n", ""); got != "hello there" {
		t.Fatalf("got %q", got)
	}
}

func TestChooseLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text, hint, want string
	}{
		{"english please", "hi", "en"},
		{"hindi me baat karo", "en", "hi"},
		{"marathi", "", "mr"},
		{"something else", "hi", "hi"},
		{"something else", "de", ""},
	}
	for _, c := range cases {
		if got := ChooseLanguage(c.text, c.hint); got != c.want {
			t.Errorf("ChooseLanguage(%q, %q) = %q, want %q", c.text, c.hint, got, c.want)
		}
	}
}
