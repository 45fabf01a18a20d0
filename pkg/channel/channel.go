// Package channel defines the interface for conversation channels.
// Channels are how the assistant talks to seekers — the console, Matrix,
// future voice transports.
package channel

import (
	"context"
	"errors"
)

// ErrConversationOver is returned by a MessageHandler after a farewell or
// a final silence prompt. Single-conversation channels treat it as a clean
// shutdown; multi-room channels close just that room.
var ErrConversationOver = errors.New("conversation over")

// Message represents an incoming message from any channel.
type Message struct {
	// Source identifies the channel (e.g., "console", "matrix")
	Source string

	// SenderID is the channel-specific sender identifier
	SenderID string

	// RoomID is the channel-specific room/conversation identifier
	RoomID string

	// Content is the message text. Empty content is meaningful: it marks
	// a silent turn, which the session uses to escalate gentle prompts.
	Content string

	// IsVoice indicates this was transcribed from audio
	IsVoice bool

	// Timestamp is the message timestamp in milliseconds
	Timestamp int64
}

// Response represents an outgoing message to a channel.
type Response struct {
	// Content is the text to send
	Content string

	// RoomID is the target room/conversation
	RoomID string
}

// Channel is the interface for a conversation channel.
type Channel interface {
	// Name returns the channel identifier (e.g., "console").
	Name() string

	// Start begins listening for messages. Blocks until ctx is cancelled.
	// Received messages are sent to the handler function.
	Start(ctx context.Context, handler MessageHandler) error

	// Send sends a response to a specific room on this channel.
	Send(ctx context.Context, resp Response) error

	// Stop gracefully shuts down the channel.
	Stop() error
}

// MessageHandler is called when a message is received from any channel.
type MessageHandler func(ctx context.Context, msg Message) error
