package scan

import (
	"sync"
	"time"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// DebounceWindow is the minimum time between two accepted scans. A camera
// detection loop re-reads the same physical code several times a second;
// everything inside the window is one scan.
const DebounceWindow = 1200 * time.Millisecond

// Gate validates a scan event before it may load a question. It owns the
// debounce state exclusively: neither the state machine nor the handlers
// touch the last-accept timestamp or the processing flag.
type Gate struct {
	mu         sync.Mutex
	now        func() time.Time
	processing bool
	lastAccept time.Time
}

// NewGate returns a gate using the given clock; nil means time.Now.
func NewGate(now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{now: now}
}

// Check runs the full validation chain against a read-only game snapshot:
// active game, debounce, question id, era, era-vs-turn. On success it marks
// the gate busy, records the acceptance time, and returns the resolved id
// and era; the caller must call Release once the question has been handled.
func (g *Gate) Check(raw string, game *bridgetime.GameState) (string, bridgetime.TimePeriod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if game == nil {
		return "", "", ErrNoActiveGame
	}

	now := g.now()
	if g.processing {
		return "", "", ErrScanDebounced
	}
	if !g.lastAccept.IsZero() && now.Sub(g.lastAccept) < DebounceWindow {
		return "", "", ErrScanDebounced
	}

	questionID, ok := ParseQuestionID(raw)
	if !ok {
		return "", "", ErrUnrecognizedPayload
	}

	// An era printed in the payload wins over the numeric convention.
	era, ok := ParseTimePeriod(raw)
	if !ok {
		era, ok = InferTimePeriod(questionID)
	}
	if !ok {
		return "", "", ErrUnknownEra
	}

	if era != game.CurrentTurn {
		return "", "", &EraMismatchError{Expected: game.CurrentTurn, Scanned: era}
	}

	g.processing = true
	g.lastAccept = now
	return questionID, era, nil
}

// Release clears the processing flag once the accepted scan has been turned
// into a question (or failed to be). The debounce window still applies to
// the next scan.
func (g *Gate) Release() {
	g.mu.Lock()
	g.processing = false
	g.mu.Unlock()
}
