package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

func TestHandleEventsStream(t *testing.T) {
	broker := NewBroker()
	srv := httptest.NewServer(handleEvents(broker))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", got)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-cache" {
		t.Errorf("cache-control = %q, want no-cache", got)
	}

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	broker.Publish(SSEEvent{Type: EventGameStarted, CurrentTurn: bridgetime.Past})

	reader := bufio.NewReader(resp.Body)
	deadline := time.After(3 * time.Second)
	lines := make(chan string, 8)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()

	var event, data string
	for event == "" || data == "" {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed before the event arrived")
			}
			if strings.HasPrefix(line, "event: ") {
				event = strings.TrimPrefix(line, "event: ")
			}
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
			}
		case <-deadline:
			t.Fatal("timed out waiting for the event")
		}
	}

	if event != "game" {
		t.Errorf("event = %q, want game", event)
	}
	if !strings.Contains(data, EventGameStarted) {
		t.Errorf("data = %q, want it to carry %q", data, EventGameStarted)
	}
}

func TestBrokerDropsSlowSubscribers(t *testing.T) {
	broker := NewBroker()
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	// Fill the buffer past capacity; publishes must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			broker.Publish(SSEEvent{Type: EventTurnSwitched})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	if len(ch) == 0 {
		t.Error("expected buffered events")
	}
}
