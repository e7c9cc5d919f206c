// Package catalog holds the fixed table of translation target languages,
// grouped the way the selection UI presents them.
package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownSelection marks a (group, language) pair outside the table, so
// callers can tell bad input apart from backend failures.
var ErrUnknownSelection = errors.New("catalog: unknown selection")

// Code identifies a target language for the translation and synthesis
// backends (ISO-639-1 style, lowercase).
type Code string

type group struct {
	name      string
	languages []language
}

type language struct {
	name string
	code Code
}

// The table is fixed at process start and never mutated. Order matters: the
// selection UI presents groups and languages exactly in this order.
var groups = []group{
	{
		name: "Indo-Aryan Languages",
		languages: []language{
			{"English", "en"},
			{"Hindi", "hi"},
			{"Punjabi", "pa"},
			{"Marathi", "mr"},
			{"Bengali", "bn"},
			{"Gujarati", "gu"},
			{"Urdu", "ur"},
		},
	},
	{
		name: "South Indian Languages",
		languages: []language{
			{"Tamil", "ta"},
			{"Telugu", "te"},
			{"Kannada", "kn"},
			{"Malayalam", "ml"},
		},
	},
	{
		name: "European Languages",
		languages: []language{
			{"Spanish", "es"},
			{"French", "fr"},
			{"German", "de"},
			{"Italian", "it"},
			{"Dutch", "nl"},
			{"Portuguese", "pt"},
			{"Russian", "ru"},
		},
	},
	{
		name: "East Asian Languages",
		languages: []language{
			{"Japanese", "ja"},
			{"Chinese", "zh-cn"},
			{"Korean", "ko"},
		},
	},
	{
		name: "Middle Eastern Languages",
		languages: []language{
			{"Arabic", "ar"},
		},
	},
}

// Resolve maps a (group, language) selection to its language code. Both
// lookups are exact-match; an unknown pair is a caller bug since the UI only
// offers catalog-derived choices.
func Resolve(groupName, languageName string) (Code, error) {
	for _, g := range groups {
		if g.name != groupName {
			continue
		}
		for _, l := range g.languages {
			if l.name == languageName {
				return l.code, nil
			}
		}
		return "", fmt.Errorf("%w: language %q in group %q", ErrUnknownSelection, languageName, groupName)
	}
	return "", fmt.Errorf("%w: group %q", ErrUnknownSelection, groupName)
}

// Groups returns group names in presentation order.
func Groups() []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.name)
	}
	return names
}

// LanguagesIn returns the language names of a group in presentation order,
// or nil for an unknown group.
func LanguagesIn(groupName string) []string {
	for _, g := range groups {
		if g.name != groupName {
			continue
		}
		names := make([]string, 0, len(g.languages))
		for _, l := range g.languages {
			names = append(names, l.name)
		}
		return names
	}
	return nil
}
