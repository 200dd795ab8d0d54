package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/database"
	"github.com/bridgetime/bridgetime/internal/game"
	"github.com/bridgetime/bridgetime/internal/migrations"
	"github.com/bridgetime/bridgetime/internal/question"
	"github.com/bridgetime/bridgetime/internal/scan"
)

// advancingClock steps two seconds per call so sequential scans in a test
// never land inside the debounce window.
func advancingClock() func() time.Time {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(2 * time.Second)
		return current
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := discardLogger()
	if err := SeedAdmin(ctx, logger, db, "admin@example.com", "letmein"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	bank := question.NewBank(db, logger)

	r := chi.NewRouter()
	addRoutes(r, Deps{
		Logger:    logger,
		Session:   game.NewSession(advancingClock()),
		Gate:      scan.NewGate(advancingClock()),
		Questions: bank,
		Bank:      bank,
		DB:        db,
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startGame(t *testing.T, r http.Handler) GameStateResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/game/start", StartGameRequest{
		PastName:    "Alice",
		PresentName: "Bob",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp GameStateResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestStartGameAndState(t *testing.T) {
	r := testRouter(t)

	resp := startGame(t, r)
	if resp.Game == nil {
		t.Fatal("expected a game in the response")
	}
	if resp.Game.CurrentTurn != bridgetime.Past {
		t.Errorf("first turn = %q, want past", resp.Game.CurrentTurn)
	}

	w := doJSON(t, r, http.MethodGet, "/api/game/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", w.Code)
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game == nil || state.Game.ID != resp.Game.ID {
		t.Error("state does not reflect the started game")
	}
}

func TestStartGameValidation(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/game/start", StartGameRequest{PastName: "Alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing presentName, got %d", w.Code)
	}
}

func TestStateBeforeStart(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/game/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game != nil {
		t.Error("expected a null game before the first start")
	}
	if state.Settings.BridgeLength != bridgetime.DefaultBridgeLength {
		t.Errorf("settings bridge length = %d, want default", state.Settings.BridgeLength)
	}
}

func TestScanAndAnswerFlow(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	// Scan an unauthored past card: the placeholder question comes back.
	w := doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "5"})
	if w.Code != http.StatusOK {
		t.Fatalf("scan: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var scanResp ScanResponse
	json.NewDecoder(w.Body).Decode(&scanResp)
	if scanResp.TimePeriod != bridgetime.Past {
		t.Errorf("scan era = %q, want past", scanResp.TimePeriod)
	}
	if scanResp.Question.ID != "5" {
		t.Errorf("question id = %q, want 5", scanResp.Question.ID)
	}

	correct := scanResp.Question.CorrectOption()
	if correct == nil {
		t.Fatal("scanned question has no correct option")
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/answer", AnswerRequest{OptionID: correct.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var answerResp AnswerResponse
	json.NewDecoder(w.Body).Decode(&answerResp)
	if !answerResp.Correct {
		t.Error("expected a correct answer")
	}
	if answerResp.GameFinished {
		t.Error("game finished after one answer at default length")
	}
	if answerResp.CurrentTurn != bridgetime.Present {
		t.Errorf("turn = %q after the answer, want present", answerResp.CurrentTurn)
	}
	if answerResp.Player.CurrentPosition != 1 || answerResp.Player.Score != 1 {
		t.Errorf("player position/score = %d/%d, want 1/1",
			answerResp.Player.CurrentPosition, answerResp.Player.Score)
	}
}

func TestAnswerWrongRevealsCorrectOption(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "5"})

	// The placeholder marks option "a" correct; submit "b".
	w := doJSON(t, r, http.MethodPost, "/api/game/answer", AnswerRequest{OptionID: "b"})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Correct {
		t.Error("wrong answer reported as correct")
	}
	if resp.CorrectOptionID != "a" {
		t.Errorf("correctOptionId = %q, want a", resp.CorrectOptionID)
	}
	if resp.CurrentTurn != bridgetime.Present {
		t.Errorf("turn = %q, want present: a wrong answer still costs the turn", resp.CurrentTurn)
	}
}

func TestScanEraMismatch(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	// It is the past player's turn; card 20 is a present card.
	w := doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "20"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var resp EraMismatchResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ExpectedEra != bridgetime.Past || resp.ScannedEra != bridgetime.Present {
		t.Errorf("eras = %q/%q, want past/present", resp.ExpectedEra, resp.ScannedEra)
	}

	// The rejected scan must not load a question.
	w = doJSON(t, r, http.MethodGet, "/api/game/state", nil)
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game.CurrentQuestion != nil {
		t.Error("rejected scan loaded a question")
	}
}

func TestScanWithoutGame(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "5"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestScanUnrecognizedPayload(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "garbage"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestAnswerWithoutPendingQuestion(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/game/answer", AnswerRequest{OptionID: "a"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnswerUnknownOption(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)
	doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "5"})

	w := doJSON(t, r, http.MethodPost, "/api/game/answer", AnswerRequest{OptionID: "zz"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWinAtBridgeLengthOne(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/game/start", StartGameRequest{
		PastName:     "Alice",
		PresentName:  "Bob",
		BridgeLength: 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start: %d", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/game/scan", ScanRequest{Payload: "5"})
	w = doJSON(t, r, http.MethodPost, "/api/game/answer", AnswerRequest{OptionID: "a"})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: %d: %s", w.Code, w.Body.String())
	}
	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.GameFinished {
		t.Fatal("expected the game to finish")
	}
	if resp.Winner == nil || *resp.Winner != bridgetime.Past {
		t.Errorf("winner = %v, want past", resp.Winner)
	}
	if resp.CurrentTurn != bridgetime.Past {
		t.Errorf("turn = %q, want frozen on the winner", resp.CurrentTurn)
	}
}

func TestPauseResumeReset(t *testing.T) {
	r := testRouter(t)
	startGame(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/game/pause", nil)
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game.Status != bridgetime.StatusPaused {
		t.Errorf("status = %q after pause", state.Game.Status)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/resume", nil)
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game.Status != bridgetime.StatusPlaying {
		t.Errorf("status = %q after resume", state.Game.Status)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/reset", nil)
	json.NewDecoder(w.Body).Decode(&state)
	if state.Game != nil {
		t.Error("game survived reset")
	}
}

func TestResetWithoutGame(t *testing.T) {
	r := testRouter(t)

	// A speculative reset on an absent game is a silent no-op.
	w := doJSON(t, r, http.MethodPost, "/api/game/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSettingsSurviveReset(t *testing.T) {
	r := testRouter(t)

	length := 9
	w := doJSON(t, r, http.MethodPut, "/api/settings", game.SettingsPatch{BridgeLength: &length})
	if w.Code != http.StatusOK {
		t.Fatalf("update settings: %d: %s", w.Code, w.Body.String())
	}

	startGame(t, r)
	doJSON(t, r, http.MethodPost, "/api/game/reset", nil)

	w = doJSON(t, r, http.MethodGet, "/api/settings", nil)
	var settings bridgetime.GameSettings
	json.NewDecoder(w.Body).Decode(&settings)
	if settings.BridgeLength != 9 {
		t.Errorf("bridge length = %d after reset, want 9", settings.BridgeLength)
	}

	// The next game picks the new default up.
	resp := startGame(t, r)
	if resp.Game.BridgeLength != 9 {
		t.Errorf("new game bridge length = %d, want 9", resp.Game.BridgeLength)
	}
}
