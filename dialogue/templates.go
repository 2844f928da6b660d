package dialogue

// Reply copy, keyed by template name then language. The Hindi voice is
// female first-person with polite second-person forms, matching the
// deployed persona.
var templates = map[string]map[string]string{
	"greet": {
		"en": "Welcome to Ashar Group. I can help with Under-Construction, " +
			"Ready-to-Move, or Completed projects, and details like " +
			"Configuration, Starting price, Floors and Towers. What would you like to know?",
		"hi": "नमस्ते! Ashar Group में आपका स्वागत है। मैं अंडर-कंस्ट्रक्शन, " +
			"रेडी-टू-मूव और कम्प्लीटेड प्रोजेक्ट्स की जानकारी दे सकती हूँ — " +
			"कॉन्फ़िगरेशन, स्टार्टिंग प्राइस, फ्लोर्स और टावर्स सहित। आप क्या जानना चाहेंगे?",
	},
	"ask_category": {
		"en": "Would you like Under-Construction, Ready-to-Move, or Completed?",
		"hi": "क्या आप अंडर-कंस्ट्रक्शन, रेडी-टू-मूव, या कम्प्लीटेड देखना चाहेंगे?",
	},
	"list_projects": {
		"en": "Here are the %s projects: %s. Which one would you like?",
		"hi": "%s में ये प्रोजेक्ट्स हैं: %s। आप कौन-सा देखना चाहेंगे?",
	},
	"proj_details": {
		"en": "%s — Configuration: %s; Starting from: %s; Floors: %s; No. of Towers: %s.",
		"hi": "%s — कॉन्फ़िगरेशन: %s; स्टार्टिंग फ्रॉम: %s; फ्लोर्स: %s; टावर्स: %s.",
	},
	"ask_attribute": {
		"en": "Do you want price, configuration (BHK), floors, or towers?",
		"hi": "क्या आप प्राइस, कॉन्फ़िगरेशन (BHK), फ्लोर्स या टावर्स जानना चाहेंगे?",
	},
	"attr_answer": {
		"en": "%s — %s: %s",
		"hi": "%s — %s: %s",
	},
	"ask_project_for_attr": {
		"en": "For %s, please pick a project in %s: %s.",
		"hi": "%s बताने के लिए कृपया %s में कोई प्रोजेक्ट चुनिए: %s.",
	},
	"handoff": {
		"en": "Okay, I'll connect you to a representative now.",
		"hi": "ठीक है, मैं अभी आपको प्रतिनिधि से जोड़ रही हूँ।",
	},
	"whatsapp": {
		"en": "Please send 'Hi' on WhatsApp to %s. I'll share the project details there.",
		"hi": "कृपया WhatsApp पर 'Hi' भेजिए: %s। मैं वहाँ विवरण साझा कर दूँगी।",
	},
	"reprompt": {
		"en": "Sorry, I didn't catch that. Could you please repeat?",
		"hi": "माफ़ कीजिए, आपकी बात समझ नहीं आई। कृपया दोबारा कहिए।",
	},
	"fallback": {
		"en": "I can help with Ashar's projects and details (Configuration, Starting price, Floors, Towers). What would you like to know?",
		"hi": "मैं Ashar के प्रोजेक्ट्स और विवरण (कॉन्फ़िगरेशन, स्टार्टिंग प्राइस, फ्लोर्स, टावर्स) में मदद कर सकती हूँ। आप क्या जानना चाहेंगे?",
	},
}

var categoryLabels = map[string]map[string]string{
	"under_construction": {"en": "Under-Construction", "hi": "अंडर-कंस्ट्रक्शन"},
	"ready_to_move":      {"en": "Ready-to-Move", "hi": "रेडी-टू-मूव"},
	"completed":          {"en": "Completed", "hi": "कम्प्लीटेड"},
}

var attrLabels = map[string]map[string]string{
	"price":  {"en": "Starting from", "hi": "स्टार्टिंग फ्रॉम"},
	"config": {"en": "Configuration", "hi": "कॉन्फ़िगरेशन"},
	"floors": {"en": "Floors", "hi": "फ्लोर्स"},
	"towers": {"en": "No. of Towers", "hi": "टावर्स"},
}

// tmpl looks up a template, falling back to English.
func tmpl(name, lang string) string {
	if s, ok := templates[name][lang]; ok {
		return s
	}
	return templates[name]["en"]
}

func categoryLabel(cat, lang string) string {
	if s, ok := categoryLabels[cat][lang]; ok {
		return s
	}
	return cat
}

func attrLabel(attr, lang string) string {
	if s, ok := attrLabels[attr][lang]; ok {
		return s
	}
	return attr
}

// Reprompt is the reply used when a transcription comes back empty.
func Reprompt(lang string) string {
	return tmpl("reprompt", normLang(lang))
}
