package dialogue

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// attrPhrase pairs a queryable attribute with one phrasing of it.
// English, Hindi, and Marathi romanizations share one table because the
// transcripts arrive romanized more often than not.
type attrPhrase struct {
	attr   string
	phrase string
}

var attrPhrases = buildAttrPhrases()

func buildAttrPhrases() []attrPhrase {
	groups := map[string][]string{
		"config": {
			"config", "configuration", "bhk",
			"1bhk", "2bhk", "3bhk", "1 bhk", "2 bhk", "3 bhk",
			"flat type", "apartment type",
			"cnfg", "configration", "konfig", "konfiguration",
		},
		"price": {
			"price", "starting price", "start price", "starting from",
			"cost", "budget", "rate", "rates", "how much",
			"keemat", "kimat", "kitna", "kitni", "kitne",
			"shuruaat ki keemat", "shuruat ki keemat",
			"suruvatichi kimat", "suruvati kimat", "kiti",
			"prise", "praice", "prize", "prys", "pries",
		},
		"floors": {
			"floors", "floor", "floor count", "how many floors", "number of floors",
			"storeys", "stories",
			"manzil", "manzile", "manjil", "manjile",
			"kitni manzil", "kitni manjil", "kitni manzile",
			"majle", "majla", "majlya", "kiti majle",
			"flores", "flors", "flore", "flor", "flr", "flrs", "floorz",
			"flour", "flours", "storey", "storie", "storiez",
		},
		"towers": {
			"towers", "tower", "blocks", "block",
			"how many towers", "number of towers",
			"kitne tower", "kitne towers", "kitne block",
			"kiti tower", "kitki tower",
			"towrs", "twr", "twrs", "tawers", "tawrs", "tovers",
		},
	}

	var table []attrPhrase
	for attr, phrases := range groups {
		for _, p := range phrases {
			table = append(table, attrPhrase{attr: attr, phrase: p})
		}
	}
	return table
}

const attrFuzzyThreshold = 0.84

// DetectAttribute finds which project attribute the user asked about:
// "price", "config", "floors", "towers", or "". A substring pass over
// the phrase table runs first; a Jaro-Winkler pass over tokens recovers
// ASR misspellings like "flores" for floors.
func DetectAttribute(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}

	best := ""
	bestLen := 0
	for _, ap := range attrPhrases {
		if strings.Contains(t, ap.phrase) && len(ap.phrase) > bestLen {
			best, bestLen = ap.attr, len(ap.phrase)
		}
	}
	if best != "" {
		return best
	}

	bestScore := 0.0
	for _, tok := range strings.Fields(t) {
		for _, ap := range attrPhrases {
			// No long-string tolerance: it inflates scores for long
			// near-misses like "construction" vs "configuration".
			if score := matchr.JaroWinkler(tok, ap.phrase, false); score > bestScore {
				bestScore, best = score, ap.attr
			}
		}
	}
	if bestScore >= attrFuzzyThreshold {
		return best
	}
	return ""
}
