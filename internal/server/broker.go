package server

import (
	"encoding/json"
	"sync"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// SSEEvent is the payload published to event-stream subscribers. The two
// device screens of one table subscribe to mirror each other's progress.
type SSEEvent struct {
	Type        string                 `json:"type"`
	Player      bridgetime.TimePeriod  `json:"player,omitempty"`
	QuestionID  string                 `json:"questionId,omitempty"`
	Correct     bool                   `json:"correct,omitempty"`
	CurrentTurn bridgetime.TimePeriod  `json:"currentTurn,omitempty"`
	Winner      *bridgetime.TimePeriod `json:"winner,omitempty"`
}

// Event types published by the game flow.
const (
	EventGameStarted  = "game_started"
	EventQuestionSet  = "question_set"
	EventAnswered     = "answer_recorded"
	EventTurnSwitched = "turn_switched"
	EventGameFinished = "game_finished"
	EventGameReset    = "game_reset"
)

// Broker is an in-process pub/sub for SSE events. There is a single game per
// process, so there is a single topic: every subscriber sees every event.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers.
func (b *Broker) Publish(event SSEEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
