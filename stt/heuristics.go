package stt

import "strings"

// Transcription guardrails. Whisper hallucinates on silence and noise,
// typically as repeated syllables or a near-constant character soup, and
// auto language detection drifts on short Hindi utterances. These
// heuristics score candidate decodes so the caller can pick the decode
// whose script matches its claimed language, or discard both.

// isGibberish reports whether a decode looks hallucinated: too short,
// a long run of one repeated character, or very low character variety
// relative to length.
func isGibberish(s string) bool {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return true
	}
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 6 {
				return true
			}
		} else {
			run = 1
		}
	}
	if len(runes) > 20 {
		uniq := make(map[rune]struct{}, len(runes))
		for _, r := range runes {
			uniq[r] = struct{}{}
		}
		if float64(len(uniq))/float64(len(runes)) < 0.25 {
			return true
		}
	}
	return false
}

// scriptScore counts Devanagari and Latin letters in s.
func scriptScore(s string) (devanagari, latin int) {
	for _, r := range s {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			latin++
		}
	}
	return devanagari, latin
}
