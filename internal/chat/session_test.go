package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/roamapp/roam/internal/gemini"
)

// fakeStreamer replays scripted events for each turn, recording the
// request it was handed.
type fakeStreamer struct {
	// events per call; nil entry means Stream itself returns an error.
	turns    [][]gemini.StreamEvent
	startErr error
	calls    int
	requests []gemini.StreamRequest
}

func (f *fakeStreamer) Stream(ctx context.Context, req gemini.StreamRequest) (<-chan gemini.StreamEvent, error) {
	f.requests = append(f.requests, req)
	f.calls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	var events []gemini.StreamEvent
	if len(f.turns) > 0 {
		events = f.turns[0]
		f.turns = f.turns[1:]
	}
	ch := make(chan gemini.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func textDeltas(chunks ...string) []gemini.StreamEvent {
	events := make([]gemini.StreamEvent, 0, len(chunks)+1)
	for _, c := range chunks {
		events = append(events, gemini.StreamEvent{Type: gemini.EventTextDelta, Delta: c})
	}
	return append(events, gemini.StreamEvent{Type: gemini.EventDone})
}

func drain(ch <-chan string) []string {
	var out []string
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestNewSession(t *testing.T) {
	s := NewSession(&fakeStreamer{})
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("len = %d, want 1", len(msgs))
	}
	if msgs[0].Role != RoleModel || msgs[0].Content != Greeting {
		t.Errorf("greeting = %+v", msgs[0])
	}
}

func TestSend(t *testing.T) {
	t.Run("streams and appends reply", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{textDeltas("Hel", "lo!")}}
		s := NewSession(fake)

		chunks := drain(s.Send(context.Background(), "hi"))

		if strings.Join(chunks, "|") != "Hel|lo!" {
			t.Errorf("chunks = %v", chunks)
		}
		msgs := s.Messages()
		if len(msgs) != 3 {
			t.Fatalf("log len = %d, want 3", len(msgs))
		}
		if msgs[1].Role != RoleUser || msgs[1].Content != "hi" {
			t.Errorf("user message = %+v", msgs[1])
		}
		if msgs[2].Role != RoleModel || msgs[2].Content != "Hello!" {
			t.Errorf("model message = %+v", msgs[2])
		}
	})

	t.Run("request carries full history and persona", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{textDeltas("ok")}}
		s := NewSession(fake)

		drain(s.Send(context.Background(), "hi"))

		if len(fake.requests) != 1 {
			t.Fatalf("requests = %d", len(fake.requests))
		}
		req := fake.requests[0]
		if req.SystemInstruction != persona {
			t.Error("persona instruction not sent")
		}
		if len(req.Messages) != 2 {
			t.Fatalf("messages = %d, want greeting + user", len(req.Messages))
		}
		if req.Messages[0].Role != RoleModel || req.Messages[0].Text != Greeting {
			t.Errorf("message[0] = %+v", req.Messages[0])
		}
		if req.Messages[1].Role != RoleUser || req.Messages[1].Text != "hi" {
			t.Errorf("message[1] = %+v", req.Messages[1])
		}
	})

	t.Run("start failure becomes visible model message", func(t *testing.T) {
		fake := &fakeStreamer{startErr: errors.New("connection refused")}
		s := NewSession(fake)

		chunks := drain(s.Send(context.Background(), "hi"))

		if len(chunks) != 1 || !strings.Contains(chunks[0], "connection refused") {
			t.Errorf("chunks = %v", chunks)
		}
		msgs := s.Messages()
		if len(msgs) != 3 {
			t.Fatalf("log len = %d, want 3", len(msgs))
		}
		if msgs[2].Role != RoleModel || !strings.Contains(msgs[2].Content, "connection refused") {
			t.Errorf("model message = %+v", msgs[2])
		}
		if fake.calls != 1 {
			t.Errorf("calls = %d, want 1 (no retry on chat turns)", fake.calls)
		}
	})

	t.Run("mid-stream failure appends error not partial text", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{{
			{Type: gemini.EventTextDelta, Delta: "par"},
			{Type: gemini.EventError, Err: errors.New("stream reset")},
		}}}
		s := NewSession(fake)

		chunks := drain(s.Send(context.Background(), "hi"))

		if len(chunks) != 2 || chunks[0] != "par" || !strings.Contains(chunks[1], "stream reset") {
			t.Errorf("chunks = %v", chunks)
		}
		msgs := s.Messages()
		if len(msgs) != 3 {
			t.Fatalf("log len = %d, want 3", len(msgs))
		}
		if !strings.Contains(msgs[2].Content, "stream reset") {
			t.Errorf("model message = %+v", msgs[2])
		}
	})

	t.Run("log grows by exactly two per turn", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{
			textDeltas("one"),
			nil, // stream closes with no events at all
			textDeltas("three"),
		}}
		s := NewSession(fake)

		for i, text := range []string{"a", "b", "c"} {
			before := s.Len()
			drain(s.Send(context.Background(), text))
			if after := s.Len(); after != before+2 {
				t.Errorf("turn %d: len %d -> %d, want +2", i+1, before, after)
			}
		}
	})

	t.Run("accumulation is order preserving", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{textDeltas("c1", "c2", "c3")}}
		s := NewSession(fake)

		chunks := drain(s.Send(context.Background(), "hi"))

		joined := strings.Join(chunks, "")
		final := s.Messages()[2].Content
		if final != joined {
			t.Errorf("final %q != concatenated chunks %q", final, joined)
		}
		if final != "c1c2c3" {
			t.Errorf("final = %q", final)
		}
	})

	t.Run("second turn includes first reply in history", func(t *testing.T) {
		fake := &fakeStreamer{turns: [][]gemini.StreamEvent{
			textDeltas("first reply"),
			textDeltas("second reply"),
		}}
		s := NewSession(fake)

		drain(s.Send(context.Background(), "one"))
		drain(s.Send(context.Background(), "two"))

		req := fake.requests[1]
		if len(req.Messages) != 4 {
			t.Fatalf("messages = %d, want 4", len(req.Messages))
		}
		if req.Messages[2].Text != "first reply" || req.Messages[2].Role != RoleModel {
			t.Errorf("message[2] = %+v", req.Messages[2])
		}
	})
}
