// Package bridgetime defines the core domain types for the game.
// It has no external dependencies.
package bridgetime

import "time"

// TimePeriod is both a player's side of the bridge and a card's era.
// A card may only be scanned while it is the matching side's turn.
type TimePeriod string

const (
	Past    TimePeriod = "past"
	Present TimePeriod = "present"
)

// Valid reports whether p is one of the two known eras.
func (p TimePeriod) Valid() bool {
	return p == Past || p == Present
}

// Other returns the opposite era.
func (p TimePeriod) Other() TimePeriod {
	if p == Past {
		return Present
	}
	return Past
}

// QuestionFormat describes how a question's content is presented.
type QuestionFormat string

const (
	FormatText  QuestionFormat = "text"
	FormatVideo QuestionFormat = "video"
	FormatAudio QuestionFormat = "audio"
)

type AnswerOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionMetadata carries optional authoring context.
type QuestionMetadata struct {
	Year       int    `json:"year,omitempty"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Question is an immutable value, either authored in the question bank or
// synthesized as a placeholder for an unassigned card number.
type Question struct {
	ID         string            `json:"id"`
	CardID     string            `json:"cardId"`
	TimePeriod TimePeriod        `json:"timePeriod"`
	Format     QuestionFormat    `json:"format"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Hint       string            `json:"hint,omitempty"`
	Options    []AnswerOption    `json:"options"`
	Metadata   *QuestionMetadata `json:"metadata,omitempty"`
}

// CorrectOption returns the option marked correct, or nil if the content is
// malformed. Authoring guarantees exactly one correct option per question.
func (q Question) CorrectOption() *AnswerOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// BridgeSegment is earned by a correct answer and never changes afterwards.
// Position equals the owner's currentPosition before the increment, so a
// player's segments are implicitly ordered 0..currentPosition-1.
type BridgeSegment struct {
	ID         string     `json:"id"`
	EarnedBy   TimePeriod `json:"earnedBy"`
	QuestionID string     `json:"questionId"`
	Position   int        `json:"position"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Player is owned exclusively by GameState and only changes through
// state-machine transitions.
type Player struct {
	Role            TimePeriod      `json:"role"`
	Name            string          `json:"name"`
	BridgeSegments  []BridgeSegment `json:"bridgeSegments"`
	CurrentPosition int             `json:"currentPosition"`
	Score           int             `json:"score"`
}

// GameHistoryEntry records one answered question. The history is append-only.
type GameHistoryEntry struct {
	TurnNumber        int        `json:"turnNumber"`
	Player            TimePeriod `json:"player"`
	QuestionID        string     `json:"questionId"`
	AnsweredCorrectly bool       `json:"answeredCorrectly"`
	Timestamp         time.Time  `json:"timestamp"`
}

type GameStatus string

const (
	StatusSetup    GameStatus = "setup"
	StatusPlaying  GameStatus = "playing"
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

// GameState is the authoritative state of one match. It lives for the
// duration of the match and is discarded on reset; nothing here survives a
// process restart.
type GameState struct {
	ID              string                    `json:"id"`
	Status          GameStatus                `json:"status"`
	CurrentTurn     TimePeriod                `json:"currentTurn"`
	Players         map[TimePeriod]Player     `json:"players"`
	BridgeLength    int                       `json:"bridgeLength"`
	CurrentQuestion *Question                 `json:"currentQuestion,omitempty"`
	History         []GameHistoryEntry        `json:"history"`
	StartedAt       *time.Time                `json:"startedAt,omitempty"`
	FinishedAt      *time.Time                `json:"finishedAt,omitempty"`
	Winner          *TimePeriod               `json:"winner,omitempty"`
}

// GameSettings are process-wide defaults. They survive game resets and are
// reinitialized only on process restart.
type GameSettings struct {
	SoundEnabled      bool `json:"soundEnabled"`
	HapticEnabled     bool `json:"hapticEnabled"`
	AnimationsEnabled bool `json:"animationsEnabled"`
	BridgeLength      int  `json:"bridgeLength"`
}

// DefaultBridgeLength is the number of segments needed to win unless the
// settings say otherwise.
const DefaultBridgeLength = 7

func DefaultSettings() GameSettings {
	return GameSettings{
		SoundEnabled:      true,
		HapticEnabled:     true,
		AnimationsEnabled: true,
		BridgeLength:      DefaultBridgeLength,
	}
}

// NewPlayer returns a player at the start of the bridge.
func NewPlayer(role TimePeriod, name string) Player {
	return Player{
		Role:           role,
		Name:           name,
		BridgeSegments: []BridgeSegment{},
	}
}
