package persona

import "strings"

// Mood is a coarse read of the user's register, used to pick openers.
type Mood string

const (
	MoodNeutral    Mood = "neutral"
	MoodCurious    Mood = "curious"
	MoodThoughtful Mood = "thoughtful"
	MoodCasual     Mood = "casual"
)

var moodMarkers = []struct {
	mood  Mood
	words []string
}{
	{MoodCurious, []string{"curious", "wonder", "interested", "fascinated", "intrigued", "how", "why", "what"}},
	{MoodThoughtful, []string{"think", "believe", "philosophy", "meaning", "understand", "deep", "profound"}},
	{MoodCasual, []string{"cool", "nice", "awesome", "yeah", "ok", "sure"}},
}

// DetectMood classifies a query. Categories are checked in priority
// order; the first with any marker hit wins.
func DetectMood(query string) Mood {
	lower := strings.ToLower(query)
	for _, m := range moodMarkers {
		for _, w := range m.words {
			if strings.Contains(lower, w) {
				return m.mood
			}
		}
	}
	return MoodNeutral
}
