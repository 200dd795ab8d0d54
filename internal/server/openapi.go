package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck is the per-dependency entry in the /healthz response.
type HealthCheck struct {
	Status string `json:"status"`
}

type HealthResponse map[string]HealthCheck

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "BridgeTime API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the BridgeTime card game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Starts a new match. The past player always takes the first turn.")
	postStart.AddReqStructure(StartGameRequest{})
	postStart.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the full game state and settings. The game field is null before the first start.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// POST /api/game/scan
	postScan, _ := r.NewOperationContext(http.MethodPost, "/api/game/scan")
	postScan.SetSummary("Scan a card")
	postScan.SetDescription("Validates a raw QR payload against the current turn and loads the matching question. " +
		"Returns 204 when the scan falls inside the debounce window, " +
		"409 when no game is active or the card's era does not match the current turn, " +
		"and 422 when the payload is unrecognized or carries no era.")
	postScan.AddReqStructure(ScanRequest{})
	postScan.AddRespStructure(ScanResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postScan.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	postScan.AddRespStructure(EraMismatchResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postScan.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postScan)

	// POST /api/game/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/game/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Answers the pending question. A correct answer earns a bridge segment; " +
		"either way the turn passes to the opponent unless the answer wins the game.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/game/pause
	postPause, _ := r.NewOperationContext(http.MethodPost, "/api/game/pause")
	postPause.SetSummary("Pause game")
	postPause.SetDescription("Pauses the current game. A no-op when no game is active.")
	postPause.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postPause)

	// POST /api/game/resume
	postResume, _ := r.NewOperationContext(http.MethodPost, "/api/game/resume")
	postResume.SetSummary("Resume game")
	postResume.SetDescription("Resumes a paused game. A no-op when no game is active.")
	postResume.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postResume)

	// POST /api/game/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/game/reset")
	postReset.SetSummary("Reset game")
	postReset.SetDescription("Discards the current match. Settings survive the reset.")
	postReset.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for real-time game updates.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/settings
	getSettings, _ := r.NewOperationContext(http.MethodGet, "/api/settings")
	getSettings.SetSummary("Get settings")
	getSettings.AddRespStructure(bridgetime.GameSettings{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSettings)

	// PUT /api/settings
	putSettings, _ := r.NewOperationContext(http.MethodPut, "/api/settings")
	putSettings.SetSummary("Update settings")
	putSettings.SetDescription("Merges the supplied fields into the current settings. Omitted fields keep their values.")
	putSettings.AddReqStructure(game.SettingsPatch{})
	putSettings.AddRespStructure(bridgetime.GameSettings{}, openapi.WithHTTPStatus(http.StatusOK))
	putSettings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putSettings)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.SetDescription("Returns every authored question. Requires admin_session cookie.")
	listQuestions.AddRespStructure([]bridgetime.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listQuestions)

	// POST /api/admin/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions")
	createQuestion.SetSummary("Create question")
	createQuestion.SetDescription("Creates an authored question. The era must be consistent with the card number. " +
		"Requires admin_session cookie.")
	createQuestion.AddReqStructure(AdminQuestionRequest{})
	createQuestion.AddRespStructure(bridgetime.Question{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createQuestion)

	// GET /api/admin/questions/{id}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions/{id}")
	getQuestion.SetSummary("Get question")
	getQuestion.SetDescription("Returns one authored question. Requires admin_session cookie.")
	getQuestion.AddRespStructure(bridgetime.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getQuestion)

	// PUT /api/admin/questions/{id}
	updateQuestion, _ := r.NewOperationContext(http.MethodPut, "/api/admin/questions/{id}")
	updateQuestion.SetSummary("Update question")
	updateQuestion.SetDescription("Replaces an authored question. Requires admin_session cookie.")
	updateQuestion.AddReqStructure(AdminQuestionRequest{})
	updateQuestion.AddRespStructure(bridgetime.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateQuestion)

	// DELETE /api/admin/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions/{id}")
	deleteQuestion.SetSummary("Delete question")
	deleteQuestion.SetDescription("Deletes an authored question. Scans of its card fall back to a placeholder. " +
		"Requires admin_session cookie.")
	deleteQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteQuestion)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
