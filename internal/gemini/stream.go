package gemini

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EventType identifies the type of streaming event.
type EventType string

const (
	// EventTextDelta carries one incremental text chunk.
	EventTextDelta EventType = "text_delta"
	// EventDone signals the stream completed normally.
	EventDone EventType = "done"
	// EventError signals the stream failed; no further events follow.
	EventError EventType = "error"
)

// StreamEvent is one event from a streaming generation call.
type StreamEvent struct {
	Type  EventType
	Delta string
	Err   error
}

// StreamRequest describes one streaming chat call carrying the full
// conversation history.
type StreamRequest struct {
	SystemInstruction string
	Messages          []Message
}

// Stream performs a streamGenerateContent call and returns a channel of
// events. The channel yields zero or more EventTextDelta events in
// arrival order, then exactly one EventDone or EventError, then closes.
// The sequence is finite, not restartable, and must be consumed exactly
// once.
func (c *Client) Stream(ctx context.Context, streamReq StreamRequest) (<-chan StreamEvent, error) {
	contents := make([]content, 0, len(streamReq.Messages))
	for _, m := range streamReq.Messages {
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}

	reqBody := generateContentRequest{Contents: contents}
	if streamReq.SystemInstruction != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: streamReq.SystemInstruction}}}
	}

	req, err := c.createRequest(ctx, ":streamGenerateContent?alt=sse", reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	events := make(chan StreamEvent, 10)
	go c.parseSSE(ctx, resp.Body, events)

	return events, nil
}

// parseSSE reads server-sent events from body and forwards text chunks.
// Chunks carrying no text are skipped.
func (c *Client) parseSSE(ctx context.Context, body io.ReadCloser, events chan<- StreamEvent) {
	defer close(events)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	// A single SSE data line holds one JSON response; allow large chunks.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			events <- StreamEvent{Type: EventError, Err: ctx.Err()}
			return
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var chunk generateContentResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if chunk.Error != nil {
			events <- StreamEvent{Type: EventError, Err: fmt.Errorf("API error: %s", chunk.Error.Message)}
			return
		}

		if text := candidateText(chunk); text != "" {
			events <- StreamEvent{Type: EventTextDelta, Delta: text}
		}
	}

	if err := scanner.Err(); err != nil {
		events <- StreamEvent{Type: EventError, Err: fmt.Errorf("stream error: %w", err)}
		return
	}

	events <- StreamEvent{Type: EventDone}
}
