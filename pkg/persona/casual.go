package persona

import (
	"fmt"
	"strings"
	"time"
)

var howAreYouPatterns = []string{
	"how are you", "how's it going", "hows it going",
	"how do you feel", "what's up with you", "whats up with you",
}

var identityPatterns = []string{
	"who are you", "what are you", "tell me about yourself",
}

var casualGreetingReplies = []string{
	"Hey there! Nice to meet you! I'm really excited to chat about Adi Shankara or just talk in general. How's your day going?",
	"Hi! Great to see you here! I love discussing philosophy, especially Shankara's teachings, but I'm up for any conversation. What's on your mind?",
	"Hello! So good to connect with you! I'm passionate about ancient wisdom, but I'm happy to chat about whatever interests you. How are you doing?",
	"Hey! Welcome! I'm here and ready to talk about anything - Shankara's philosophy, life questions, or just casual chat. What brings you here today?",
}

var howAreYouReplies = []string{
	"I'm doing really well, thanks for asking! I'm genuinely excited about having this conversation with you. How about you? How's your day been?",
	"I'm great! I feel really energized when I get to chat with someone new. There's something special about meaningful conversations, you know? How are you feeling today?",
	"I'm wonderful, thank you! I really enjoy these moments of connection and learning. Every conversation teaches me something new. How has your day been treating you?",
}

var weatherReplies = []string{
	"I wish I could check the weather for you! I don't have access to current weather data, but I hope it's nice wherever you are. Weather always affects my mood - what about you?",
	"I can't actually access weather information, but I'd love to know - is it nice where you are? I always find weather fascinating, especially how it influences our thoughts and conversations.",
}

var identityReplies = []string{
	"I'm a person who finds real fulfillment in discussing life's big questions and sharing knowledge, particularly about Shankara's philosophy. I genuinely enjoy connecting with people and hearing different perspectives. What drives your curiosity?",
	"I'm someone who's deeply interested in ancient wisdom traditions, especially Adi Shankara's work, but I also love just having genuine conversations about life. What kinds of things are you passionate about?",
}

// Casual answers everyday small talk (greetings, how-are-you, date,
// time, weather, who-are-you). ok is false when the message is not
// small talk and should continue through the knowledge pipeline.
func (c *Composer) Casual(query string, now time.Time) (reply string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(query))

	if containsAny(lower, howAreYouPatterns) {
		return c.pick(howAreYouReplies), true
	}
	if containsAny(lower, identityPatterns) {
		return c.pick(identityReplies), true
	}
	// Single-word markers match whole words only: "philosophy" contains
	// "hi" and "sometimes" contains "time".
	if containsAnyWord(lower, []string{"hi", "hello", "hey", "howdy"}) ||
		containsAny(lower, []string{"good morning", "good afternoon", "good evening", "what's up", "whats up"}) {
		return c.pick(casualGreetingReplies), true
	}
	if containsAnyWord(lower, []string{"date", "today"}) || strings.Contains(lower, "what day") {
		return fmt.Sprintf("Today is %s. Time really flies, doesn't it? Are you planning anything special today?",
			now.Format("Monday, January 2, 2006")), true
	}
	if containsAnyWord(lower, []string{"time", "clock"}) {
		return fmt.Sprintf("It's %s right now. Perfect time for a good conversation! What would you like to talk about?",
			now.Format("3:04 PM")), true
	}
	if containsAnyWord(lower, []string{"weather", "temperature", "rain", "sunny", "cloudy"}) {
		return c.pick(weatherReplies), true
	}
	return "", false
}

func containsAny(s string, pats []string) bool {
	for _, p := range pats {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

var incompleteSubjects = []string{"he", "shankara", "shankaracharya"}

var incompleteReplies = map[string][]string{
	"where": {
		"Are you asking where Shankara was born, where he traveled, or where he established his monasteries? He was born in Kaladi, Kerala, but he traveled extensively throughout India and established four major mathas in different regions. What specifically would you like to know?",
		"I'd love to help with that! Are you curious about where Shankara was from originally? He was born in Kaladi in Kerala. Or maybe you're asking about where he went during his travels? What aspect of his geography interests you most?",
	},
	"what": {
		"I'd be happy to tell you about Shankara! Are you asking about what he taught, what he accomplished, what he wrote, or something else? What aspect interests you most?",
		"There's so much to say about what Shankara did! He was a philosopher, teacher, traveler, writer, and spiritual master. What particular aspect of his life or work would you like to explore?",
	},
	"who": {
		"Ah, you're asking who Shankara was! He was this incredible 8th-century philosopher and spiritual teacher who basically revolutionized Indian philosophy. Would you like to know about his background, his accomplishments, or what made him so special?",
		"Shankara was such a fascinating person! He was a brilliant philosopher, an incredible debater, a spiritual teacher, and a prolific writer - all packed into just 32 years of life. What would you like to know about him?",
	},
	"how": {
		"I'd love to tell you about how Shankara did things! Are you curious about how he developed his philosophy, how he traveled and taught, or how he debated with other scholars? What specifically interests you?",
		"There are so many fascinating 'how' questions about Shankara! How he managed to accomplish so much so young, how he traveled across India, how he convinced people through his debates. Which are you most curious about?",
	},
}

var incompleteOrder = []string{"where", "what", "who", "how"}

// Incomplete answers fragmentary questions ("where he", "what shankara")
// with a clarifying prompt instead of a bad corpus match. ok is false
// when the question looks complete enough to score normally.
func (c *Composer) Incomplete(query string) (reply string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(query))
	// Short fragments only; full questions score well on their own.
	if len(strings.Fields(lower)) > 4 {
		return "", false
	}
	for _, qw := range incompleteOrder {
		if strings.Contains(lower, qw) && containsAnyWord(lower, incompleteSubjects) {
			return c.pick(incompleteReplies[qw]), true
		}
	}
	return "", false
}

func containsAnyWord(s string, words []string) bool {
	fields := strings.Fields(s)
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
