package scan

import (
	"errors"
	"fmt"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// All scan failures are recoverable: the scanning loop keeps running and the
// player simply tries another card.
var (
	// ErrNoActiveGame means a scan arrived before any game was started.
	ErrNoActiveGame = errors.New("no active game")

	// ErrUnrecognizedPayload means no parsing rule matched the raw string.
	ErrUnrecognizedPayload = errors.New("unrecognized card payload")

	// ErrUnknownEra means a question id was found but no era could be
	// resolved for it, explicitly or by number.
	ErrUnknownEra = errors.New("cannot determine card era")

	// ErrScanDebounced means the scan arrived while a previous one was
	// still being processed or inside the debounce window. Callers swallow
	// it: the camera loop fires the same code many times per second.
	ErrScanDebounced = errors.New("scan debounced")
)

// EraMismatchError rejects a card from the wrong era. It carries both eras
// so the message can tell the player which deck to draw from.
type EraMismatchError struct {
	Expected bridgetime.TimePeriod
	Scanned  bridgetime.TimePeriod
}

func (e *EraMismatchError) Error() string {
	return fmt.Sprintf("it is the %s player's turn: cannot scan a %s card", e.Expected, e.Scanned)
}
