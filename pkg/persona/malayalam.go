package persona

import "strings"

// Canned Malayalam answers for the questions asked most often in
// Malayalam-mode sessions. Machine translation handles everything else;
// these keep the core teachings accurate in the native script.
var malayalamTemplates = map[string][]string{
	"identity": {
		"ഞാൻ ആദി ശങ്കരാചാര്യനാണ്, അദ്വൈത വേദാന്തത്തിന്റെ മഹാനായ ആചാര്യൻ।",
		"എന്റെ പേര് ആദി ശങ്കരൻ. ഞാൻ കേരളത്തിലെ കാലടിയിൽ ജനിച്ചു।",
		"ഞാൻ സനാതന ധർമ്മത്തിന്റെയും അദ്വൈത തത്വത്തിന്റെയും പ്രചാരകനാണ്।",
	},
	"advaita": {
		"അദ്വൈതം എന്നാൽ 'രണ്ടില്ലായ്മ' എന്നർത്ഥം. ബ്രഹ്മവും ആത്മാവും ഒന്നുതന്നെയാണ്.",
		"സത്യം ഒന്നേയുള്ളൂ, അതാണ് ബ്രഹ്മം. ബാക്കിയെല്ലാം മായയാണ്।",
		"ജീവാത്മാവും പരമാത്മാവും തമ്മിൽ യാതൊരു വ്യത്യാസവുമില്ല.",
	},
	"maya": {
		"മായ എന്നാൽ അജ്ഞാനം കൊണ്ടുണ്ടാകുന്ന ഭ്രമയാണ്.",
		"മായ ബ്രഹ്മത്തിന്റെ ശക്തിയാണ്, എന്നാൽ യഥാർത്ഥമല്ല।",
		"ജ്ഞാനത്താൽ മായ നശിക്കുകയും സത്യം വെളിപ്പെടുകയും ചെയ്യുന്നു।",
	},
	"wisdom": {
		"ബ്രഹ്മ സത്യം ജഗന്മിഥ്യാ - ബ്രഹ്മം സത്യമാണ്, ലോകം മിഥ്യയാണ്।",
		"ആത്മജ്ഞാനമാണ് മോക്ഷത്തിലേക്കുള്ള മാർഗ്ഗം।",
		"സർവ്വം ഖല്വിദം ബ്രഹ്മ - ഇതെല്ലാം ബ്രഹ്മം തന്നെയാണ്।",
	},
}

var malayalamCategories = []struct {
	name    string
	markers []string
}{
	{"identity", []string{"who are you", "about yourself", "identity", "aaranu"}},
	{"advaita", []string{"advaita", "vedanta"}},
	{"maya", []string{"maya", "illusion"}},
}

// MalayalamAnswer returns a native-script canned answer for the query's
// category. ok is false when no category matches; the caller should
// fall back to translating the English answer.
func (c *Composer) MalayalamAnswer(query string) (reply string, ok bool) {
	lower := strings.ToLower(query)
	for _, cat := range malayalamCategories {
		if containsAny(lower, cat.markers) {
			return c.pick(malayalamTemplates[cat.name]), true
		}
	}
	return "", false
}

// MalayalamWisdom is the category-less fallback template, used when
// translation is unavailable in Malayalam mode.
func (c *Composer) MalayalamWisdom() string {
	return c.pick(malayalamTemplates["wisdom"])
}
