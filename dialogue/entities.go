package dialogue

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Canonical entity names and the ASR spellings observed for each. The
// variant tables absorb the systematic errors; Jaro-Winkler absorbs the
// rest.
var canonProjects = map[string][]string{
	"ashar":  {"asher"},
	"pulse":  {"pals"},
	"axis":   {"akses"},
	"metro":  {"mettro"},
	"arize":  {"arise", "arais", "ariez"},
	"titan":  {"titaan"},
	"mapple": {"maple", "mappel"},
	"edge":   {"ej"},
	"aria":   {"ariya", "aariya", "ariaa"},
}

var canonCategories = map[string][]string{
	"under_construction": {
		"under construction", "under-construction", "ongoing",
		"nirman adhin", "bhandkam shuru", "work in progress", "kaam chal raha hai",
	},
	"ready_to_move": {
		"ready to move", "ready to move in", "ready-to-move", "ready",
		"ready possession", "ready posession", "rtm",
		"rehne ke liye tayyar", "tayyar ghar", "tayyar to move", "ready hai",
	},
	"completed": {
		"completed", "delivered", "poora", "done", "handed over",
		"poora ho gaya", "complete ho gaya",
	},
}

const (
	entityThresholdHigh = 0.90
	entityThresholdLow  = 0.85
)

// variantIndex flattens canonical->variants maps into variant->canonical.
func variantIndex(canon map[string][]string) map[string]string {
	idx := make(map[string]string)
	for key, variants := range canon {
		idx[key] = key
		for _, v := range variants {
			idx[strings.ToLower(v)] = key
		}
	}
	return idx
}

var (
	projectIndex  = variantIndex(canonProjects)
	categoryIndex = variantIndex(canonCategories)
)

// DetectProject finds the canonical project key mentioned in text, or
// "". Exact token hits win; Jaro-Winkler over tokens recovers spellings
// the variant table missed. The brand name "ashar" is dropped whenever a
// specific project is also present, so "ashar pulse" resolves to pulse.
func DetectProject(text string) string {
	tokens := strings.Fields(strings.ToLower(text))

	var found []string
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			found = append(found, key)
		}
	}

	for _, tok := range tokens {
		if key, ok := projectIndex[tok]; ok {
			add(key)
		}
	}
	if len(found) == 0 {
		// Fuzzy pass over tokens against every known spelling.
		bestScore := 0.0
		bestKey := ""
		for _, tok := range tokens {
			for variant, key := range projectIndex {
				if score := matchr.JaroWinkler(tok, variant, false); score > bestScore {
					bestScore, bestKey = score, key
				}
			}
		}
		if bestScore >= entityThresholdLow {
			add(bestKey)
		}
	}

	if len(found) > 1 {
		specific := found[:0]
		for _, key := range found {
			if key != "ashar" {
				specific = append(specific, key)
			}
		}
		if len(specific) > 0 {
			found = specific
		}
	}
	if len(found) == 0 {
		return ""
	}
	return found[0]
}

// DetectCategory finds the canonical category mentioned in text, or "".
func DetectCategory(text string) string {
	t := strings.ToLower(text)
	for variant, key := range categoryIndex {
		if strings.Contains(t, strings.ReplaceAll(variant, "_", " ")) {
			return key
		}
	}

	bestScore := 0.0
	bestKey := ""
	for variant, key := range categoryIndex {
		score := matchr.JaroWinkler(t, strings.ReplaceAll(variant, "_", " "), false)
		if score > bestScore {
			bestScore, bestKey = score, key
		}
	}
	if bestScore >= entityThresholdHigh {
		return bestKey
	}
	return ""
}
