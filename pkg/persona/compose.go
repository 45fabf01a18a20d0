package persona

import (
	"fmt"
	"math/rand"
	"strings"
)

// Rand is the slice of math/rand the composer needs. *rand.Rand
// satisfies it; tests substitute a fixed sequence.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Chance constants for the optional response decorations.
const (
	moodOpenerChance = 0.3
	followUpChance   = 0.7
)

var openers = []string{
	"Oh, that's such an interesting question!",
	"You know, that's one of my favorite topics to discuss.",
	"Great question! I was just thinking about that recently.",
	"That's fascinating that you asked about that!",
	"I love talking about this aspect!",
	"You've touched on something really profound there.",
	"That's a really thoughtful question.",
	"Oh, I'm so glad you brought that up!",
}

var moodOpeners = map[Mood][]string{
	MoodCurious: {
		"I can sense you're really curious about this! That's awesome.",
		"Your curiosity is contagious! Let me share what I know.",
		"I love how inquisitive you are about these topics!",
	},
	MoodThoughtful: {
		"You're asking really thoughtful questions.",
		"I appreciate how deeply you're thinking about this.",
		"Your reflective approach to this is wonderful.",
	},
	MoodCasual: {
		"Yeah, totally!",
		"Right? It's pretty cool stuff.",
		"Exactly! That's what I find so interesting too.",
	},
}

var transitions = []string{
	"You know what's really interesting about this?",
	"Here's what I find amazing about this topic...",
	"What really strikes me about this is...",
	"I think you'll find this fascinating...",
	"The way I understand it is...",
	"From what I've learned...",
	"Here's something that might interest you...",
	"What I find remarkable is...",
}

var followUps = []string{
	"What do you think about that?",
	"Does that resonate with you?",
	"Have you ever thought about it that way?",
	"What's your take on this?",
	"I'm curious about your thoughts on this.",
	"Does that make sense to you?",
	"What other aspects interest you?",
	"Is there anything specific you'd like to know more about?",
}

var greetings = []string{
	"Hey there! I'm really into discussing the fascinating aspects of Adi Shankara's life and philosophy. What would you like to know about?",
	"Hi! I love chatting about Shankara's teachings and the interesting stories about his life. What catches your curiosity?",
	"Hello! I've been studying Adi Shankara for a while now, and there's so much fascinating stuff about him. What interests you most?",
	"Hey! Nice to meet you. I'm passionate about Shankara's philosophy and the amazing things he accomplished. What would you like to explore?",
}

var unknownResponses = []string{
	"That's a really interesting question, but I don't have specific information about that aspect of Shankara's teachings. Is there something else about his philosophy or life that you'd like to explore?",
	"You know, that's a thoughtful question, but it's not something I have detailed knowledge about. What other aspects of Shankara's work or teachings are you curious about?",
	"I wish I had a good answer for that! It's outside my current knowledge about Shankara. What else would you like to discuss about his philosophy or life story?",
	"That's a great question, but I'm not sure about that particular detail. There's so much about Shankara that is fascinating though - what other aspects interest you?",
}

var goodbyes = []string{
	"Thanks for such a wonderful conversation! I really enjoyed our chat. Take care!",
	"This was really great! Thanks for all the thoughtful questions. Hope to chat again soon!",
	"What a pleasure talking with you! Thanks for being such great company. See you later!",
	"Really enjoyed our chat! You asked some fantastic questions. Thanks for taking the time to explore these ideas with me!",
}

// Silence prompts by consecutive quiet turns. The third tier closes the
// session.
var (
	gentleNudges = []string{
		"I'm here whenever you're ready to continue...",
		"Take your time - I'm just enjoying our conversation.",
	}
	checkIns = []string{
		"Still there? No worries if you need to think about stuff... I'm patient!",
		"I'm here whenever you're ready to continue... or if you just want to say hi!",
		"Feel free to ask about anything - philosophy, life, or just casual chat...",
	}
	partingWords = []string{
		"Well, this has been really lovely! Thanks for spending time with me. Feel free to come back anytime you want to chat.",
		"Thanks for such a nice conversation! I hope we can talk again sometime. Take care!",
		"This was really enjoyable! I'm always here if you want to discuss these topics or just chat. Have a great day!",
	}
)

// Composer wraps bare answers in conversational framing. The random
// source is injected so callers control determinism.
type Composer struct {
	rng Rand
}

// NewComposer builds a composer over the given random source.
func NewComposer(rng Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Composer{rng: rng}
}

func (c *Composer) pick(pool []string) string {
	return pool[c.rng.Intn(len(pool))]
}

// Compose builds opener + transition + answer, and usually a follow-up
// question. A mood-specific opener is substituted some of the time when
// the mood has one.
func (c *Composer) Compose(answer string, mood Mood) string {
	opener := c.pick(openers)
	if pool, ok := moodOpeners[mood]; ok {
		moodOpener := c.pick(pool)
		if c.rng.Float64() < moodOpenerChance {
			opener = moodOpener
		}
	}
	resp := fmt.Sprintf("%s %s %s", opener, c.pick(transitions), answer)
	if c.rng.Float64() < followUpChance {
		resp += " " + c.pick(followUps)
	}
	return resp
}

// Greeting returns a session-opening line.
func (c *Composer) Greeting() string {
	return c.pick(greetings)
}

// Unknown returns a graceful no-answer reply that redirects the
// conversation.
func (c *Composer) Unknown() string {
	return c.pick(unknownResponses)
}

// Goodbye returns a session-closing line for an explicit farewell.
func (c *Composer) Goodbye() string {
	return c.pick(goodbyes)
}

// Silence returns the prompt for the nth consecutive silent turn,
// counting from 1. terminal is true when the session should end after
// the prompt is delivered.
func (c *Composer) Silence(quietTurns int) (prompt string, terminal bool) {
	switch {
	case quietTurns <= 1:
		return c.pick(gentleNudges), false
	case quietTurns == 2:
		return c.pick(checkIns), false
	default:
		return c.pick(partingWords), true
	}
}

// endingWords close the session when they appear as a whole word.
// Substring matching would end the chat on "maybe" or "nonstop".
var endingWords = []string{
	"bye", "goodbye", "thanks", "quit", "exit", "stop",
}

// endingPhrases close the session when they appear anywhere.
var endingPhrases = []string{
	"thank you", "gotta go", "see you", "talk later", "that's all",
}

// IsFarewell reports whether the message asks to end the conversation.
func IsFarewell(msg string) bool {
	lower := strings.ToLower(msg)
	if containsAnyWord(lower, endingWords) {
		return true
	}
	return containsAny(lower, endingPhrases)
}
