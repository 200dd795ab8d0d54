package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// State is the combined reducer state: at most one live game plus the
// process-wide settings. Game is nil before the first StartGame and after
// ResetGame.
type State struct {
	Game     *bridgetime.GameState
	Settings bridgetime.GameSettings
}

// NewState returns the initial state: no game, default settings.
func NewState() State {
	return State{Settings: bridgetime.DefaultSettings()}
}

// Reduce applies a single action and returns the next state. It is pure:
// the input state is never modified, and no action ever fails. Transitions
// on an absent game return the state unchanged.
func Reduce(st State, a Action, now time.Time) State {
	switch a := a.(type) {
	case StartGame:
		return reduceStart(st, a, now)
	case SetQuestion:
		return reduceSetQuestion(st, a)
	case AnswerQuestion:
		return reduceAnswer(st, a, now)
	case SwitchTurn:
		return reduceSwitchTurn(st)
	case PauseGame:
		return reduceStatus(st, bridgetime.StatusPaused)
	case ResumeGame:
		return reduceStatus(st, bridgetime.StatusPlaying)
	case ResetGame:
		return State{Settings: st.Settings}
	case UpdateSettings:
		return reduceSettings(st, a)
	default:
		return st
	}
}

func reduceStart(st State, a StartGame, now time.Time) State {
	length := a.BridgeLength
	if length <= 0 {
		length = st.Settings.BridgeLength
	}
	started := now
	st.Game = &bridgetime.GameState{
		ID:          "game-" + uuid.NewString(),
		Status:      bridgetime.StatusPlaying,
		CurrentTurn: bridgetime.Past,
		Players: map[bridgetime.TimePeriod]bridgetime.Player{
			bridgetime.Past:    bridgetime.NewPlayer(bridgetime.Past, a.PastName),
			bridgetime.Present: bridgetime.NewPlayer(bridgetime.Present, a.PresentName),
		},
		BridgeLength: length,
		History:      []bridgetime.GameHistoryEntry{},
		StartedAt:    &started,
	}
	return st
}

func reduceSetQuestion(st State, a SetQuestion) State {
	if st.Game == nil {
		return st
	}
	g := cloneGame(st.Game)
	q := a.Question
	g.CurrentQuestion = &q
	st.Game = g
	return st
}

func reduceAnswer(st State, a AnswerQuestion, now time.Time) State {
	if st.Game == nil {
		return st
	}
	g := cloneGame(st.Game)
	role := g.CurrentTurn
	player := g.Players[role]

	questionID := ""
	if g.CurrentQuestion != nil {
		questionID = g.CurrentQuestion.ID
	}

	g.History = append(g.History, bridgetime.GameHistoryEntry{
		TurnNumber:        len(g.History) + 1,
		Player:            role,
		QuestionID:        questionID,
		AnsweredCorrectly: a.Correct,
		Timestamp:         now,
	})

	if a.Correct {
		player.BridgeSegments = append(player.BridgeSegments, bridgetime.BridgeSegment{
			ID:         "segment-" + uuid.NewString(),
			EarnedBy:   role,
			QuestionID: questionID,
			Position:   player.CurrentPosition,
			Timestamp:  now,
		})
		player.CurrentPosition++
		player.Score++
		g.Players[role] = player

		if player.CurrentPosition >= g.BridgeLength {
			g.Status = bridgetime.StatusFinished
			winner := role
			g.Winner = &winner
			finished := now
			g.FinishedAt = &finished
		}
	}

	// The pending question is consumed by the answer either way.
	g.CurrentQuestion = nil
	st.Game = g
	return st
}

func reduceSwitchTurn(st State) State {
	if st.Game == nil {
		return st
	}
	g := cloneGame(st.Game)
	g.CurrentTurn = g.CurrentTurn.Other()
	st.Game = g
	return st
}

func reduceStatus(st State, status bridgetime.GameStatus) State {
	if st.Game == nil {
		return st
	}
	g := cloneGame(st.Game)
	g.Status = status
	st.Game = g
	return st
}

func reduceSettings(st State, a UpdateSettings) State {
	s := st.Settings
	if a.Patch.SoundEnabled != nil {
		s.SoundEnabled = *a.Patch.SoundEnabled
	}
	if a.Patch.HapticEnabled != nil {
		s.HapticEnabled = *a.Patch.HapticEnabled
	}
	if a.Patch.AnimationsEnabled != nil {
		s.AnimationsEnabled = *a.Patch.AnimationsEnabled
	}
	// A non-positive bridge length can never be satisfied; ignore it.
	if a.Patch.BridgeLength != nil && *a.Patch.BridgeLength > 0 {
		s.BridgeLength = *a.Patch.BridgeLength
	}
	st.Settings = s
	return st
}

// cloneGame copies the mutable containers so a transition never writes
// through a previously returned state. Slices of immutable records share
// backing arrays until appended to, which is safe because entries and
// segments never change once created.
func cloneGame(g *bridgetime.GameState) *bridgetime.GameState {
	out := *g
	out.Players = make(map[bridgetime.TimePeriod]bridgetime.Player, len(g.Players))
	for role, p := range g.Players {
		out.Players[role] = p
	}
	return &out
}
