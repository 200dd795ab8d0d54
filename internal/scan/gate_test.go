package scan

import (
	"errors"
	"testing"
	"time"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// fakeClock returns a clock function and a way to advance it.
func fakeClock() (func() time.Time, func(d time.Duration)) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return current },
		func(d time.Duration) { current = current.Add(d) }
}

func pastTurnGame() *bridgetime.GameState {
	return &bridgetime.GameState{
		ID:          "game-test",
		Status:      bridgetime.StatusPlaying,
		CurrentTurn: bridgetime.Past,
	}
}

func TestGateAccepts(t *testing.T) {
	now, _ := fakeClock()
	g := NewGate(now)

	id, era, err := g.Check("5", pastTurnGame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "5" {
		t.Errorf("id = %q, want 5", id)
	}
	if era != bridgetime.Past {
		t.Errorf("era = %q, want past", era)
	}
}

func TestGateNoActiveGame(t *testing.T) {
	g := NewGate(nil)

	_, _, err := g.Check("5", nil)
	if !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("err = %v, want ErrNoActiveGame", err)
	}
}

func TestGateDebounceWindow(t *testing.T) {
	now, advance := fakeClock()
	g := NewGate(now)

	if _, _, err := g.Check("5", pastTurnGame()); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	g.Release()

	// Inside the window: rejected even though processing is done.
	advance(DebounceWindow / 2)
	if _, _, err := g.Check("5", pastTurnGame()); !errors.Is(err, ErrScanDebounced) {
		t.Fatalf("err = %v, want ErrScanDebounced", err)
	}

	// Past the window: accepted again.
	advance(DebounceWindow)
	if _, _, err := g.Check("6", pastTurnGame()); err != nil {
		t.Fatalf("scan after window: %v", err)
	}
}

func TestGateBusyUntilRelease(t *testing.T) {
	now, advance := fakeClock()
	g := NewGate(now)

	if _, _, err := g.Check("5", pastTurnGame()); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	// Still processing: rejected no matter how much time passes.
	advance(10 * DebounceWindow)
	if _, _, err := g.Check("6", pastTurnGame()); !errors.Is(err, ErrScanDebounced) {
		t.Fatalf("err = %v, want ErrScanDebounced while processing", err)
	}

	g.Release()
	if _, _, err := g.Check("6", pastTurnGame()); err != nil {
		t.Fatalf("scan after release: %v", err)
	}
}

func TestGateUnrecognizedPayload(t *testing.T) {
	g := NewGate(nil)

	_, _, err := g.Check("garbage", pastTurnGame())
	if !errors.Is(err, ErrUnrecognizedPayload) {
		t.Fatalf("err = %v, want ErrUnrecognizedPayload", err)
	}

	// A rejected scan must not start the debounce window.
	if _, _, err := g.Check("5", pastTurnGame()); err != nil {
		t.Fatalf("valid scan after rejection: %v", err)
	}
}

func TestGateEraMismatch(t *testing.T) {
	g := NewGate(nil)

	game := pastTurnGame()
	game.CurrentTurn = bridgetime.Present

	_, _, err := g.Check("5", game)
	var mismatch *EraMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want EraMismatchError", err)
	}
	if mismatch.Expected != bridgetime.Present {
		t.Errorf("Expected = %q, want present", mismatch.Expected)
	}
	if mismatch.Scanned != bridgetime.Past {
		t.Errorf("Scanned = %q, want past", mismatch.Scanned)
	}

	// The mismatch must not start the debounce window either.
	game.CurrentTurn = bridgetime.Past
	if _, _, err := g.Check("5", game); err != nil {
		t.Fatalf("valid scan after mismatch: %v", err)
	}
}

func TestGateExplicitEraBeatsInference(t *testing.T) {
	g := NewGate(nil)

	// Card 5 would infer past, but the payload says present.
	game := pastTurnGame()
	game.CurrentTurn = bridgetime.Present

	id, era, err := g.Check(`{"questionId": "5", "timePeriod": "present"}`, game)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "5" || era != bridgetime.Present {
		t.Errorf("got (%q, %q), want (5, present)", id, era)
	}
}

func TestGateUnknownEra(t *testing.T) {
	g := NewGate(nil)

	// Free text yields an id but no parseable or inferable era.
	_, _, err := g.Check("questionId=0", pastTurnGame())
	if !errors.Is(err, ErrUnknownEra) {
		t.Fatalf("err = %v, want ErrUnknownEra", err)
	}
}
