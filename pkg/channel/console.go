package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ConsoleRoomID is the single conversation identifier for console sessions.
const ConsoleRoomID = "console"

// Console is a line-oriented channel over stdin/stdout. Each input line is
// one turn; a blank line is delivered as an empty Message so the session can
// count silence. EOF (Ctrl-D) ends the conversation.
type Console struct {
	in     io.Reader
	out    io.Writer
	prompt string
}

// NewConsole creates a console channel on stdin/stdout.
func NewConsole() *Console {
	return &Console{in: os.Stdin, out: os.Stdout, prompt: "you> "}
}

// NewConsoleWith creates a console channel over arbitrary streams, used by
// tests and piped input.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, prompt: "you> "}
}

func (c *Console) Name() string { return "console" }

// Start reads lines until ctx is cancelled or input hits EOF. Lines are read
// on a goroutine so cancellation does not wait on a blocked stdin read.
func (c *Console) Start(ctx context.Context, handler MessageHandler) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	fmt.Fprint(c.out, c.prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("read console: %w", err)
			}
			return nil
		case line := <-lines:
			msg := Message{
				Source:    c.Name(),
				SenderID:  "console-user",
				RoomID:    ConsoleRoomID,
				Content:   strings.TrimSpace(line),
				Timestamp: time.Now().UnixMilli(),
			}
			if err := handler(ctx, msg); err != nil {
				if errors.Is(err, ErrConversationOver) {
					// The session said goodbye; end cleanly instead of
					// prompting a closed conversation.
					return nil
				}
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			fmt.Fprint(c.out, c.prompt)
		}
	}
}

func (c *Console) Send(ctx context.Context, resp Response) error {
	_, err := fmt.Fprintf(c.out, "\n%s\n\n", resp.Content)
	if err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

func (c *Console) Stop() error { return nil }
