package text

// Synonyms maps canonical domain terms to their equivalents. Expansion is
// bidirectional: hitting any member of a group pulls in the whole group.
type Synonyms struct {
	groups map[string][]string
	// member -> canonical key, for reverse lookup
	index map[string]string
}

// DefaultSynonyms returns the built-in vocabulary table covering the
// Advaita / Vedanta domain.
func DefaultSynonyms() *Synonyms {
	return NewSynonyms(map[string][]string{
		"philosopher": {"thinker", "sage", "teacher", "guru", "acharya"},
		"teaching":    {"doctrine", "philosophy", "instruction", "lesson"},
		"concept":     {"idea", "principle", "notion", "theory"},
		"achieve":     {"attain", "reach", "gain", "accomplish"},
		"goal":        {"aim", "purpose", "objective", "target"},
		"established": {"founded", "created", "set up", "instituted"},
		"liberation":  {"moksha", "freedom", "release", "salvation"},
		"reality":     {"truth", "existence", "brahman"},
		"knowledge":   {"wisdom", "understanding", "jnana", "learning"},
		"self":        {"atman", "soul", "consciousness"},
		"illusion":    {"maya", "appearance", "unreality"},
		"meditation":  {"contemplation", "dhyana", "reflection"},
		"spiritual":   {"religious", "sacred", "divine", "transcendent"},
	})
}

// NewSynonyms builds a table from canonical-term groups. Keys and members
// are normalized so lookups agree with Normalize output.
func NewSynonyms(groups map[string][]string) *Synonyms {
	s := &Synonyms{
		groups: make(map[string][]string, len(groups)),
		index:  make(map[string]string),
	}
	for key, members := range groups {
		nkey := stemWord(key)
		var nmembers []string
		for _, m := range members {
			for _, tok := range Normalize(m) {
				nmembers = append(nmembers, tok)
				s.index[tok] = nkey
			}
		}
		s.groups[nkey] = nmembers
		s.index[nkey] = nkey
	}
	return s
}

func stemWord(w string) string {
	toks := Normalize(w)
	if len(toks) == 0 {
		return w
	}
	return toks[0]
}

// Expand returns the token set plus every synonym-group member reachable
// from it.
func (s *Synonyms) Expand(tokens []string) map[string]bool {
	out := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		out[tok] = true
		key, ok := s.index[tok]
		if !ok {
			continue
		}
		out[key] = true
		for _, m := range s.groups[key] {
			out[m] = true
		}
	}
	return out
}
