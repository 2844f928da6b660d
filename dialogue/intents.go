package dialogue

import "regexp"

// Rule-based intent matching. Order matters: earlier rules win, so the
// specific (whatsapp, handoff, navigation) precede the broad greeting
// rule, and a bare "hi" cannot shadow "hi, connect me to someone".
var intentRules = []struct {
	re     *regexp.Regexp
	intent string
}{
	{regexp.MustCompile(`(?i)\bwhatsapp|व्हाट्सऐप`), "whatsapp_details"},
	{regexp.MustCompile(`(?i)\btransfer\b|representative|human|agent|कनेक्ट|प्रतिनिधि|ह्यूमन`), "connect_representative"},
	{regexp.MustCompile(`(?i)\b(back|go back|previous|list again|show (all )?projects)\b|वापस|पीछे|फिर से\s*लिस्ट`), "go_back"},
	{regexp.MustCompile(`(?i)ready\s*to\s*move|रेडी.?टू.?मूव`), "ask_projects"},
	{regexp.MustCompile(`(?i)under\s*construction|अंडर.?कंस्ट्रक्शन`), "ask_projects"},
	{regexp.MustCompile(`(?i)completed|कम्प्लीटेड|पूर्ण|डिलीवर`), "ask_projects"},
	{regexp.MustCompile(`(?i)\bhi\b|hello|hey|नमस्ते|हेलो|सलाम`), "greet"},
}

// classifyIntent returns the first matching rule's intent, or
// "fallback".
func classifyIntent(text string) string {
	for _, r := range intentRules {
		if r.re.MatchString(text) {
			return r.intent
		}
	}
	return "fallback"
}
