// Package chat maintains conversational sessions with the model: an
// append-only message log and one streaming turn at a time.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/roamapp/roam/internal/gemini"
	"github.com/roamapp/roam/internal/logging"
)

// Message roles. The wire vocabulary is the provider's: the assistant
// side of the conversation is tagged "model".
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Greeting seeds every new session's log.
const Greeting = "Hello! I'm a helpful AI assistant. How can I help you plan your next budget trip or answer a general question?"

// persona is the fixed system instruction sent with every chat turn.
const persona = "You are a friendly, helpful AI assistant. You specialize in budget travel, itinerary planning, " +
	"and general knowledge. Keep responses concise, supportive, and informative."

// Message is one entry in the conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Streamer is the streaming provider call a session performs once per
// turn. *gemini.Client satisfies it.
type Streamer interface {
	Stream(ctx context.Context, req gemini.StreamRequest) (<-chan gemini.StreamEvent, error)
}

// Session owns one conversation log. The log grows by exactly two
// entries per turn: the user message, then one model message (reply
// text or error text). Turns are serialized: Send blocks while a
// previous turn is still streaming. The caller must drain the channel
// returned by Send before reading Messages for that turn.
type Session struct {
	client Streamer

	// turn serializes Send calls; held for the full turn.
	turn sync.Mutex

	mu  sync.Mutex
	log []Message
}

// NewSession creates a session seeded with the greeting.
func NewSession(client Streamer) *Session {
	return &Session{
		client: client,
		log:    []Message{{Role: RoleModel, Content: Greeting}},
	}
}

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.log))
	copy(out, s.log)
	return out
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// Send submits one user turn and returns a channel of reply chunks in
// arrival order. The user message is appended to the log immediately,
// so it stays visible even if the provider call fails. On success the
// concatenated chunks are appended as one model message. On failure the
// error description is appended as the model message instead and
// emitted as the final chunk, so the failure is visible in history
// rather than silently dropped. The channel closes when the turn ends.
// A single attempt only; chat turns are never retried.
func (s *Session) Send(ctx context.Context, text string) <-chan string {
	s.turn.Lock()

	s.mu.Lock()
	s.log = append(s.log, Message{Role: RoleUser, Content: text})
	history := make([]gemini.Message, len(s.log))
	for i, m := range s.log {
		history[i] = gemini.Message{Role: m.Role, Text: m.Content}
	}
	s.mu.Unlock()

	out := make(chan string)

	go func() {
		defer logging.LogPanic("chat-turn", nil)
		defer s.turn.Unlock()
		defer close(out)

		events, err := s.client.Stream(ctx, gemini.StreamRequest{
			SystemInstruction: persona,
			Messages:          history,
		})
		if err != nil {
			s.failTurn(out, err)
			return
		}

		var reply strings.Builder
		for ev := range events {
			switch ev.Type {
			case gemini.EventTextDelta:
				// Strictly arrival order: concatenate as forwarded.
				reply.WriteString(ev.Delta)
				out <- ev.Delta
			case gemini.EventError:
				s.failTurn(out, ev.Err)
				return
			case gemini.EventDone:
				s.append(Message{Role: RoleModel, Content: reply.String()})
				return
			}
		}
		// Stream closed without a terminal event; keep what arrived.
		s.append(Message{Role: RoleModel, Content: reply.String()})
	}()

	return out
}

// failTurn records a failed turn: the error text becomes the model
// message and the final chunk.
func (s *Session) failTurn(out chan<- string, err error) {
	text := "An error occurred: " + err.Error()
	s.append(Message{Role: RoleModel, Content: text})
	out <- text
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.log = append(s.log, m)
	s.mu.Unlock()
}
