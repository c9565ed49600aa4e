package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/huddle-ai/huddle/internal/domain"
)

// Keyword sets in priority order; the first set with a match wins.
var intentKeywords = []struct {
	intent   domain.Intent
	keywords []string
}{
	{domain.IntentLineup, []string{"lineup", "start", "sit"}},
	{domain.IntentTrade, []string{"trade", "swap"}},
	{domain.IntentWaiver, []string{"waiver", "add", "drop", "pick up"}},
	{domain.IntentPlayer, []string{"player", "analyze"}},
}

// ClassifyIntent maps a message to an intent by lowercase substring match.
func ClassifyIntent(message string) domain.Intent {
	lower := strings.ToLower(message)
	for _, set := range intentKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.intent
			}
		}
	}
	return domain.IntentGeneral
}

// ExtractPlayerNames returns every pair of adjacent capitalized words.
// Surrounding punctuation is ignored and single letters such as "I" do not count.
func ExtractPlayerNames(message string) []string {
	words := strings.Fields(message)
	for i, w := range words {
		words[i] = strings.TrimFunc(w, unicode.IsPunct)
	}

	names := []string{}
	for i := 0; i+1 < len(words); i++ {
		if isCapitalized(words[i]) && isCapitalized(words[i+1]) {
			names = append(names, words[i]+" "+words[i+1])
		}
	}
	return names
}

func isCapitalized(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
