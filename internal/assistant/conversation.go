package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Replier is the part of Gateway a Conversation needs.
type Replier interface {
	Reply(ctx context.Context, history []Turn, message string) Reply
}

// Message is one chat bubble.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// Failure is set on model messages that carry fallback text.
	Failure Kind `json:"-"`
}

// Conversation owns one chat transcript. Sends are handled one at a time in
// arrival order, so each user turn gets exactly one reply and later turns see
// earlier replies in their history.
type Conversation struct {
	replier Replier
	now     func() time.Time

	turn chan struct{}

	mu       sync.Mutex
	messages []Message
	// generation is bumped by Reset so replies to an older chat are dropped.
	generation uint64
}

func NewConversation(r Replier) *Conversation {
	return &Conversation{
		replier: r,
		now:     time.Now,
		turn:    make(chan struct{}, 1),
	}
}

// Send appends the user message, asks the model with the history as it was
// before that message, and appends the reply. If ctx ends while waiting
// behind another send, the timeout fallback is returned and nothing is
// recorded. A reply that arrives after Reset is returned but not recorded.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	if ctx.Err() != nil {
		return c.message(RoleModel, KindTimeout.Message(), KindTimeout), nil
	}

	select {
	case c.turn <- struct{}{}:
	case <-ctx.Done():
		return c.message(RoleModel, KindTimeout.Message(), KindTimeout), nil
	}
	defer func() { <-c.turn }()

	c.mu.Lock()
	history := turns(c.messages)
	gen := c.generation
	c.messages = append(c.messages, c.message(RoleUser, text, KindNone))
	c.mu.Unlock()

	r := c.replier.Reply(ctx, history, text)

	reply := c.message(RoleModel, r.Text, r.Failure)

	c.mu.Lock()
	if c.generation == gen {
		c.messages = append(c.messages, reply)
	}
	c.mu.Unlock()

	return reply, nil
}

// Messages returns the transcript in order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Reset starts a new chat. It does not wait for a send in flight.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.generation++
}

func (c *Conversation) message(role Role, text string, failure Kind) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: c.now(),
		Failure:   failure,
	}
}

func turns(messages []Message) []Turn {
	out := make([]Turn, len(messages))
	for i, m := range messages {
		out[i] = Turn{Role: m.Role, Text: m.Text}
	}
	return out
}
