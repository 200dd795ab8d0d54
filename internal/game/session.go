package game

import (
	"errors"
	"sync"
	"time"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

var (
	// ErrNoActiveGame is returned by orchestrated operations that need a
	// live game. Raw transitions never error; this is the orchestration
	// layer refusing to pretend something happened.
	ErrNoActiveGame = errors.New("no active game")

	// ErrNoPendingQuestion is returned by Answer when no question is set.
	// Answering is only meaningful against a pending question; enforcing
	// this here keeps a double submit from double-counting a turn.
	ErrNoPendingQuestion = errors.New("no pending question")
)

// Session owns the state for one match and serializes every transition.
// It is an explicit, injectable container: tests create as many independent
// sessions as they like. One Session backs the whole process in the server.
type Session struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// NewSession returns an empty session. now may be nil, in which case
// time.Now is used; tests inject a fake clock.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{state: NewState(), now: now}
}

// Dispatch applies a single action under the session lock and returns the
// resulting state.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a, s.now())
	return s.state
}

// Snapshot returns the current state. The returned game pointer must be
// treated as read-only; transitions always produce a fresh value.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Game returns the live game, or nil when none is active.
func (s *Session) Game() *bridgetime.GameState {
	return s.Snapshot().Game
}

// Settings returns the current process-wide settings.
func (s *Session) Settings() bridgetime.GameSettings {
	return s.Snapshot().Settings
}

// Start begins a new match, replacing any game already in progress.
func (s *Session) Start(pastName, presentName string, bridgeLength int) State {
	return s.Dispatch(StartGame{
		PastName:     pastName,
		PresentName:  presentName,
		BridgeLength: bridgeLength,
	})
}

// SetQuestion records the question loaded from a scanned card.
func (s *Session) SetQuestion(q bridgetime.Question) State {
	return s.Dispatch(SetQuestion{Question: q})
}

// AnswerResult describes the outcome of one resolved turn.
type AnswerResult struct {
	Correct  bool
	Player   bridgetime.Player
	Finished bool
	Winner   *bridgetime.TimePeriod
	Switched bool
}

// Answer resolves the pending question and advances the turn. Turns
// alternate regardless of correctness (a question costs the turn either
// way), except that a winning answer leaves the turn frozen on the winner.
func (s *Session) Answer(correct bool) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.state.Game
	if g == nil {
		return AnswerResult{}, ErrNoActiveGame
	}
	if g.CurrentQuestion == nil {
		return AnswerResult{}, ErrNoPendingQuestion
	}

	role := g.CurrentTurn
	now := s.now()
	s.state = Reduce(s.state, AnswerQuestion{Correct: correct}, now)

	res := AnswerResult{
		Correct: correct,
		Player:  s.state.Game.Players[role],
		Winner:  s.state.Game.Winner,
	}
	res.Finished = s.state.Game.Status == bridgetime.StatusFinished

	if !res.Finished {
		s.state = Reduce(s.state, SwitchTurn{}, now)
		res.Switched = true
	}
	return res, nil
}

// SwitchTurn flips the turn directly, for collaborators outside the answer
// flow.
func (s *Session) SwitchTurn() State {
	return s.Dispatch(SwitchTurn{})
}

func (s *Session) Pause() State {
	return s.Dispatch(PauseGame{})
}

func (s *Session) Resume() State {
	return s.Dispatch(ResumeGame{})
}

// Reset discards the game. Settings keep their values until the process
// exits.
func (s *Session) Reset() State {
	return s.Dispatch(ResetGame{})
}

// UpdateSettings merges a partial settings record over the current one.
func (s *Session) UpdateSettings(patch SettingsPatch) State {
	return s.Dispatch(UpdateSettings{Patch: patch})
}

// CurrentPlayer returns the player whose turn it is, or nil when no game is
// active.
func (s *Session) CurrentPlayer() *bridgetime.Player {
	st := s.Snapshot()
	if st.Game == nil {
		return nil
	}
	p := st.Game.Players[st.Game.CurrentTurn]
	return &p
}

// Opponent returns the player who is waiting, or nil when no game is active.
func (s *Session) Opponent() *bridgetime.Player {
	st := s.Snapshot()
	if st.Game == nil {
		return nil
	}
	p := st.Game.Players[st.Game.CurrentTurn.Other()]
	return &p
}
