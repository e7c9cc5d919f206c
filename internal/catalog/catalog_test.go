package catalog

import (
	"errors"
	"testing"
)

func TestResolveAllEntries(t *testing.T) {
	expected := map[string]map[string]Code{
		"Indo-Aryan Languages": {
			"English": "en", "Hindi": "hi", "Punjabi": "pa", "Marathi": "mr",
			"Bengali": "bn", "Gujarati": "gu", "Urdu": "ur",
		},
		"South Indian Languages": {
			"Tamil": "ta", "Telugu": "te", "Kannada": "kn", "Malayalam": "ml",
		},
		"European Languages": {
			"Spanish": "es", "French": "fr", "German": "de", "Italian": "it",
			"Dutch": "nl", "Portuguese": "pt", "Russian": "ru",
		},
		"East Asian Languages": {
			"Japanese": "ja", "Chinese": "zh-cn", "Korean": "ko",
		},
		"Middle Eastern Languages": {
			"Arabic": "ar",
		},
	}

	total := 0
	for groupName, langs := range expected {
		for langName, want := range langs {
			got, err := Resolve(groupName, langName)
			if err != nil {
				t.Fatalf("Resolve(%q, %q): %v", groupName, langName, err)
			}
			if got != want {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", groupName, langName, got, want)
			}
			total++
		}
	}
	wantTotal := 0
	for _, langs := range expected {
		wantTotal += len(langs)
	}
	if total != wantTotal {
		t.Fatalf("expected %d catalog entries, checked %d", wantTotal, total)
	}
}

func TestResolveUnknownPair(t *testing.T) {
	if _, err := Resolve("Indo-Aryan Languages", "Klingon"); !errors.Is(err, ErrUnknownSelection) {
		t.Fatalf("unknown language: got %v, want ErrUnknownSelection", err)
	}
	if _, err := Resolve("Martian Languages", "Hindi"); !errors.Is(err, ErrUnknownSelection) {
		t.Fatalf("unknown group: got %v, want ErrUnknownSelection", err)
	}
	// Names are keyed per group; a valid language under the wrong group must
	// not resolve.
	if _, err := Resolve("European Languages", "Hindi"); !errors.Is(err, ErrUnknownSelection) {
		t.Fatalf("cross-group lookup: got %v, want ErrUnknownSelection", err)
	}
}

func TestGroupsOrder(t *testing.T) {
	want := []string{
		"Indo-Aryan Languages",
		"South Indian Languages",
		"European Languages",
		"East Asian Languages",
		"Middle Eastern Languages",
	}
	got := Groups()
	if len(got) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLanguagesInOrder(t *testing.T) {
	got := LanguagesIn("Indo-Aryan Languages")
	want := []string{"English", "Hindi", "Punjabi", "Marathi", "Bengali", "Gujarati", "Urdu"}
	if len(got) != len(want) {
		t.Fatalf("expected %d languages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("language %d = %q, want %q", i, got[i], want[i])
		}
	}
	if LanguagesIn("Martian Languages") != nil {
		t.Fatal("expected nil for unknown group")
	}
}
