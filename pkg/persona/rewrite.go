// Package persona turns third-person reference prose into first-person
// speech in Adi Shankara's voice and shapes final replies around it.
package persona

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Conversion rules run in order. Longer, more specific patterns come
// first so a bare name match never shadows a possessive or a verb
// phrase ("Shankara's" must become "my" before "Shankara" becomes "I").
var conversionRules = buildRules([][2]string{
	// possessives
	{`(?i)\bAdi Shankara's\b`, "my"},
	{`(?i)\bShankaracharya's\b`, "my"},
	{`(?i)\bthe Acharya's\b`, "my"},
	{`(?i)\bShankara's\b`, "my"},

	// biography
	{`(?i)\bAdi Shankara was born\b`, "I was born"},
	{`(?i)\bShankara was born\b`, "I was born"},
	{`(?i)\bAdi Shankara lived\b`, "I lived"},
	{`(?i)\bShankara lived\b`, "I lived"},
	{`(?i)\bAdi Shankara grew up\b`, "I grew up"},
	{`(?i)\bShankara grew up\b`, "I grew up"},
	{`(?i)\bAdi Shankara studied\b`, "I studied"},
	{`(?i)\bShankara studied\b`, "I studied"},
	{`(?i)\bAdi Shankara became\b`, "I became"},
	{`(?i)\bShankara became\b`, "I became"},
	{`(?i)\bAdi Shankara died\b`, "I left this physical form"},
	{`(?i)\bShankara died\b`, "I left this physical form"},
	{`(?i)\bAdi Shankara passed away\b`, "I transcended this physical existence"},
	{`(?i)\bShankara passed away\b`, "I transcended this physical existence"},

	// teaching
	{`(?i)\bAdi Shankara taught\b`, "I taught"},
	{`(?i)\bShankara taught\b`, "I taught"},
	{`(?i)\bAdi Shankara explained\b`, "I explained"},
	{`(?i)\bShankara explained\b`, "I explained"},
	{`(?i)\bAdi Shankara argued\b`, "I argued"},
	{`(?i)\bShankara argued\b`, "I argued"},
	{`(?i)\bAdi Shankara believed\b`, "I believe"},
	{`(?i)\bShankara believed\b`, "I believe"},
	{`(?i)\bAdi Shankara maintained\b`, "I maintain"},
	{`(?i)\bShankara maintained\b`, "I maintain"},
	{`(?i)\bAdi Shankara proposed\b`, "I propose"},
	{`(?i)\bShankara proposed\b`, "I propose"},
	{`(?i)\bAdi Shankara developed\b`, "I developed"},
	{`(?i)\bShankara developed\b`, "I developed"},
	{`(?i)\bAdi Shankara formulated\b`, "I formulated"},
	{`(?i)\bShankara formulated\b`, "I formulated"},

	// works
	{`(?i)\bAdi Shankara wrote\b`, "I wrote"},
	{`(?i)\bShankara wrote\b`, "I wrote"},
	{`(?i)\bAdi Shankara composed\b`, "I composed"},
	{`(?i)\bShankara composed\b`, "I composed"},
	{`(?i)\bAdi Shankara created\b`, "I created"},
	{`(?i)\bShankara created\b`, "I created"},
	{`(?i)\bAdi Shankara established\b`, "I established"},
	{`(?i)\bShankara established\b`, "I established"},
	{`(?i)\bAdi Shankara founded\b`, "I founded"},
	{`(?i)\bShankara founded\b`, "I founded"},
	{`(?i)\bAdi Shankara instituted\b`, "I instituted"},
	{`(?i)\bShankara instituted\b`, "I instituted"},
	{`(?i)\bAdi Shankara set up\b`, "I set up"},
	{`(?i)\bShankara set up\b`, "I set up"},

	// travels
	{`(?i)\bAdi Shankara traveled\b`, "I traveled"},
	{`(?i)\bShankara traveled\b`, "I traveled"},
	{`(?i)\bAdi Shankara journeyed\b`, "I journeyed"},
	{`(?i)\bShankara journeyed\b`, "I journeyed"},
	{`(?i)\bAdi Shankara visited\b`, "I visited"},
	{`(?i)\bShankara visited\b`, "I visited"},
	{`(?i)\bAdi Shankara went to\b`, "I went to"},
	{`(?i)\bShankara went to\b`, "I went to"},
	{`(?i)\bAdi Shankara walked\b`, "I walked"},
	{`(?i)\bShankara walked\b`, "I walked"},

	// bare identity, after everything more specific
	{`(?i)\bAcharya Shankara\b`, "I"},
	{`(?i)\bAdi Shankara\b`, "I"},
	{`(?i)\bShankaracharya\b`, "I"},
	{`(?i)\bthe Acharya\b`, "I"},
	{`(?i)\bShankara\b`, "I"},

	// pronouns, case-sensitive to keep mid-sentence casing
	{`\bhis\b`, "my"},
	{`\bHis\b`, "My"},
	{`\bhimself\b`, "myself"},
	{`\bHimself\b`, "Myself"},
	{`\bhim\b`, "me"},
	{`\bHim\b`, "Me"},
	{`\bhe\b`, "I"},
	{`\bHe\b`, "I"},
})

var epithetRules = buildRules([][2]string{
	{`(?i)\bthe philosopher\b`, "I, as a seeker of ultimate truth,"},
	{`(?i)\bthe teacher\b`, "I, as one who shares the eternal wisdom,"},
	{`(?i)\bthe sage\b`, "I, in my understanding of the Self,"},
	{`(?i)\bthe mystic\b`, "I, through direct realization,"},
	{`(?i)\bthe saint\b`, "I, devoted to the highest truth,"},
	{`(?i)\bthe master\b`, "I, as a humble servant of truth,"},
	{`(?i)\bthe guru\b`, "I, as one who removes the darkness of ignorance,"},
})

var cleanupRules = buildRules([][2]string{
	{`\bI I\b`, "I"},
	{`\bmy my\b`, "my"},
	{`\bme me\b`, "me"},
	{`\bmyself myself\b`, "myself"},
})

var spaceRe = regexp.MustCompile(`\s+`)

func buildRules(pairs [][2]string) []rule {
	out := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, rule{re: regexp.MustCompile(p[0]), repl: p[1]})
	}
	return out
}

// Context classifies a block of reference prose so the rewriter can pick
// a fitting introduction.
type Context string

const (
	ContextGeneral        Context = "general"
	ContextBirth          Context = "birth"
	ContextPhilosophy     Context = "philosophy"
	ContextTravels        Context = "travels"
	ContextWorks          Context = "works"
	ContextDebates        Context = "debates"
	ContextEstablishments Context = "establishments"
)

var contextMarkers = map[Context][]string{
	ContextBirth:          {"born", "birth", "childhood", "early life", "parents", "family"},
	ContextPhilosophy:     {"advaita", "vedanta", "brahman", "maya", "philosophy", "teaching", "doctrine"},
	ContextTravels:        {"traveled", "journey", "pilgrimage", "visited", "went to", "wandered"},
	ContextWorks:          {"wrote", "composed", "commentary", "text", "work", "treatise", "hymn"},
	ContextDebates:        {"debate", "discussion", "argued", "refuted", "opponent", "scholar"},
	ContextEstablishments: {"established", "founded", "matha", "monastery", "institution"},
}

var contextOrder = []Context{
	ContextBirth, ContextPhilosophy, ContextTravels,
	ContextWorks, ContextDebates, ContextEstablishments,
}

var contextIntros = map[Context]string{
	ContextBirth:          "Let me tell you about my birth and early life.",
	ContextPhilosophy:     "Regarding my philosophical understanding,",
	ContextTravels:        "About my journeys across this sacred land of Bharata,",
	ContextWorks:          "Concerning the texts and commentaries I have written,",
	ContextDebates:        "In my philosophical discussions and debates,",
	ContextEstablishments: "About the institutions I established to preserve the teaching,",
}

var contextCodas = map[Context]string{
	ContextPhilosophy: " This understanding arose through direct realization, not mere intellectual study.",
	ContextTravels:    " Each step was guided by the divine purpose to awaken souls.",
	ContextWorks:      " These writings emerged from direct experience of the ultimate reality.",
	ContextDebates:    " In every discussion, my aim was not victory but the revelation of truth.",
}

// DetectContext picks the dominant context of the prose by marker
// counts. Ties resolve to the earlier context in a fixed order.
func DetectContext(content string) Context {
	lower := strings.ToLower(content)
	best := ContextGeneral
	bestScore := 0
	for _, ctx := range contextOrder {
		score := 0
		for _, m := range contextMarkers[ctx] {
			if strings.Contains(lower, m) {
				score++
			}
		}
		if score > bestScore {
			best = ctx
			bestScore = score
		}
	}
	return best
}

// Rewriter converts reference prose to first person. The zero value is
// usable; it is stateless and safe for concurrent use.
type Rewriter struct{}

// ToFirstPerson applies the conversion tables, collapses the duplicate
// pronouns the substitutions can create, and polishes sentence casing
// and terminal punctuation. Running the output through again returns it
// unchanged.
func (Rewriter) ToFirstPerson(content string) string {
	for _, r := range conversionRules {
		content = r.re.ReplaceAllString(content, r.repl)
	}
	for _, r := range epithetRules {
		content = r.re.ReplaceAllString(content, r.repl)
	}
	return polish(content)
}

// Rewrite is ToFirstPerson plus a context-appropriate introduction and,
// for some contexts, a closing reflection.
func (rw Rewriter) Rewrite(content string) string {
	ctx := DetectContext(content)
	out := rw.ToFirstPerson(content)
	if intro, ok := contextIntros[ctx]; ok && !strings.HasPrefix(out, intro) {
		out = polish(intro + " " + out)
	}
	if coda, ok := contextCodas[ctx]; ok && !strings.Contains(out, strings.TrimSpace(coda)) {
		out += coda
	}
	return out
}

func polish(content string) string {
	for _, r := range cleanupRules {
		content = r.re.ReplaceAllString(content, r.repl)
	}
	content = strings.TrimSpace(spaceRe.ReplaceAllString(content, " "))
	if content == "" {
		return content
	}

	sentences := strings.Split(content, ". ")
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sentences[i] = strings.ToUpper(s[:1]) + s[1:]
	}
	content = strings.Join(sentences, ". ")

	if !strings.HasSuffix(content, ".") &&
		!strings.HasSuffix(content, "!") &&
		!strings.HasSuffix(content, "?") {
		content += "."
	}
	return content
}
