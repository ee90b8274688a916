package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Event is one Server-Sent Event from /api/events.
type Event struct {
	Type string
	Name string // note name for note.* events
}

// Events subscribes to the server's note event stream. The returned channel
// is closed when ctx ends or the stream breaks.
func (c *Client) Events(ctx context.Context) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		readEvents(ctx, bufio.NewScanner(resp.Body), out)
	}()
	return out, nil
}

// readEvents parses the text/event-stream framing: "event:" and "data:"
// fields terminated by a blank line; ":" lines are comments.
func readEvents(ctx context.Context, sc *bufio.Scanner, out chan<- Event) {
	var typ, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if typ == "" && data == "" {
				continue
			}
			ev := Event{Type: typ}
			var payload struct {
				Name string `json:"name"`
			}
			if json.Unmarshal([]byte(data), &payload) == nil {
				ev.Name = payload.Name
			}
			typ, data = "", ""
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			typ = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}
