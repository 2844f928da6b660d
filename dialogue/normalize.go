package dialogue

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	nonHindiRe   = regexp.MustCompile(`[^` + "ऀ-ॿ" + `0-9\s.,?!\-–—():;"']`)
	nonEnglishRe = regexp.MustCompile(`[^a-z0-9\s.,?!\-–—():;"']`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Normalize prepares a transcript for matching. Composition to NFC comes
// first: whisper sometimes emits decomposed matras, which would break
// every Devanagari comparison downstream. The danda is mapped to a
// period, then a per-language character whitelist is applied.
func Normalize(text, lang string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "।", ".")

	switch lang {
	case "hi":
		text = nonHindiRe.ReplaceAllString(text, "")
	case "en":
		text = strings.ToLower(text)
		text = nonEnglishRe.ReplaceAllString(text, "")
	default:
		text = spaceRe.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(text)
}

// langChoices maps language codes to the Latin-script names a user
// might say when asked to pick a language, including common ASR
// spellings.
var langChoices = map[string][]string{
	"en": {"english", "inglish", "englisch", "ingles"},
	"hi": {"hindi", "hindi bhasa"},
	"mr": {"marathi", "marathi bhasha", "maratha", "maratha bhasa"},
}

// ChooseLanguage picks a language from an explicit mention in text,
// falling back to the STT hint. Returns "" when neither decides.
func ChooseLanguage(text, sttHint string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for code, words := range langChoices {
		for _, w := range words {
			if strings.Contains(t, w) {
				return code
			}
		}
	}
	switch sttHint {
	case "en", "hi", "mr":
		return sttHint
	}
	return ""
}
