package game

import "github.com/bridgetime/bridgetime/internal/bridgetime"

// Action is one of a closed set of transition requests. Every action maps to
// a pure transform of the combined state; the reducer never mutates its input
// and every action on an absent game is a silent no-op.
type Action interface {
	isAction()
}

// StartGame creates a fresh match and immediately marks it playing. The past
// player always moves first.
type StartGame struct {
	PastName     string
	PresentName  string
	BridgeLength int // 0 means use the settings default
}

// SetQuestion replaces the pending question unconditionally.
type SetQuestion struct {
	Question bridgetime.Question
}

// AnswerQuestion resolves the pending question for the active turn's player.
// Turn advancement is deliberately not part of this action; the orchestration
// layer issues SwitchTurn afterwards unless the answer just won the game.
type AnswerQuestion struct {
	Correct bool
}

// SwitchTurn flips the active turn between past and present.
type SwitchTurn struct{}

// PauseGame and ResumeGame are reserved transitions for collaborators; the
// scan/answer flow never issues them.
type PauseGame struct{}
type ResumeGame struct{}

// ResetGame discards the match entirely. Settings survive.
type ResetGame struct{}

// UpdateSettings merges a partial settings record over the current one.
type UpdateSettings struct {
	Patch SettingsPatch
}

// SettingsPatch carries only the fields the caller wants to change.
type SettingsPatch struct {
	SoundEnabled      *bool `json:"soundEnabled,omitempty"`
	HapticEnabled     *bool `json:"hapticEnabled,omitempty"`
	AnimationsEnabled *bool `json:"animationsEnabled,omitempty"`
	BridgeLength      *int  `json:"bridgeLength,omitempty"`
}

func (StartGame) isAction()      {}
func (SetQuestion) isAction()    {}
func (AnswerQuestion) isAction() {}
func (SwitchTurn) isAction()     {}
func (PauseGame) isAction()      {}
func (ResumeGame) isAction()     {}
func (ResetGame) isAction()      {}
func (UpdateSettings) isAction() {}
