package gamehttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/attr"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// maxUploadBytes caps scoresheet uploads and JSON bodies.
const maxUploadBytes = 10 << 20

// GameHTTPHandlers serves the REST API.
type GameHTTPHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGameHTTPHandlers creates a new GameHTTPHandlers instance.
func NewGameHTTPHandlers(service gameservice.Service, logger *slog.Logger, tracer trace.Tracer) *GameHTTPHandlers {
	return &GameHTTPHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type roundRequest struct {
	Team1 gamedomain.Declaration `json:"team1"`
	Team2 gamedomain.Declaration `json:"team2"`
}

type scoreResponse struct {
	Teams [2]gamedomain.TeamRow `json:"teams"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type seatingRequest struct {
	Players [4]string `json:"players"`
	Dealer  int       `json:"dealer"`
}

// HandleValues lists every declaration label.
func (h *GameHTTPHandlers) HandleValues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gamedomain.Reference())
}

// HandleValidateRound checks two declarations without scoring them.
func (h *GameHTTPHandlers) HandleValidateRound(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, gamedomain.CheckRound(req.Team1, req.Team2))
}

// HandleScoreRound scores a single round outside of any game.
func (h *GameHTTPHandlers) HandleScoreRound(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := gamedomain.ValidateRound(req.Team1, req.Team2); err != nil {
		writeFailure(w, err)
		return
	}
	round := gamedomain.ScoreRound(nil, req.Team1, req.Team2)
	writeJSON(w, http.StatusOK, scoreResponse{Teams: round.Teams})
}

func (h *GameHTTPHandlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameservice.CreateGameRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.CreateGame(r.Context(), req)
	writeResult(h, w, r, "CreateGame", result, err, http.StatusCreated)
}

func (h *GameHTTPHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.GetGame(r.Context(), gameID)
	writeResult(h, w, r, "GetGame", result, err, http.StatusOK)
}

func (h *GameHTTPHandlers) HandleAddRound(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	var req roundRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.AddRound(r.Context(), gameID, req.Team1, req.Team2)
	writeResult(h, w, r, "AddRound", result, err, http.StatusCreated)
}

func (h *GameHTTPHandlers) HandleUndoRound(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.UndoRound(r.Context(), gameID)
	writeResult(h, w, r, "UndoRound", result, err, http.StatusOK)
}

func (h *GameHTTPHandlers) HandleRestartGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.RestartGame(r.Context(), gameID)
	writeResult(h, w, r, "RestartGame", result, err, http.StatusOK)
}

// HandleRenameTeam renames team 1 or 2.
func (h *GameHTTPHandlers) HandleRenameTeam(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	team, err := strconv.Atoi(chi.URLParam(r, "team"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "team must be 1 or 2")
		return
	}
	var req renameRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.RenameTeam(r.Context(), gameID, team-1, req.Name)
	writeResult(h, w, r, "RenameTeam", result, err, http.StatusOK)
}

func (h *GameHTTPHandlers) HandleSetSeating(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	var req seatingRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.SetSeating(r.Context(), gameID, req.Players, req.Dealer)
	writeResult(h, w, r, "SetSeating", result, err, http.StatusOK)
}

func (h *GameHTTPHandlers) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.GetStatistics(r.Context(), gameID)
	writeResult(h, w, r, "GetStatistics", result, err, http.StatusOK)
}

func (h *GameHTTPHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.RenderChart(r.Context(), gameID)
	writeFile(h, w, r, "RenderChart", result, err, "image/png", "")
}

func (h *GameHTTPHandlers) HandleExportScoresheet(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.service.ExportScoresheet(r.Context(), gameID)
	writeFile(h, w, r, "ExportScoresheet", result, err,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"coinche-"+gameID.String()+".xlsx",
	)
}

// HandleImportScoresheet accepts a workbook either as a multipart "file"
// field or as the raw request body.
func (h *GameHTTPHandlers) HandleImportScoresheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.service.ImportScoresheet(r.Context(), body)
	writeResult(h, w, r, "ImportScoresheet", result, err, http.StatusCreated)
}

func (h *GameHTTPHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err := dec.Decode(dst); err != nil {
		h.logger.DebugContext(r.Context(), "Rejected request body", attr.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func gameIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return uuid.Nil, false
	}
	return gameID, true
}

func writeResult[S any](
	h *GameHTTPHandlers,
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	result results.OperationResult[S, error],
	err error,
	status int,
) {
	if !checkResult(h, r.Context(), w, operation, result, err) {
		return
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		h.logger.InfoContext(r.Context(), "Scorer action",
			attr.String("operation", operation),
			attr.String("scorer", claims.Subject),
		)
	}
	writeJSON(w, status, *result.Success)
}

func writeFile(
	h *GameHTTPHandlers,
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	result results.OperationResult[[]byte, error],
	err error,
	contentType, filename string,
) {
	if !checkResult(h, r.Context(), w, operation, result, err) {
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(*result.Success)
}

func checkResult[S any](
	h *GameHTTPHandlers,
	ctx context.Context,
	w http.ResponseWriter,
	operation string,
	result results.OperationResult[S, error],
	err error,
) bool {
	switch {
	case err != nil:
		h.logger.ErrorContext(ctx, "Request failed",
			attr.String("operation", operation),
			attr.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	case result.IsFailure():
		writeFailure(w, *result.Failure)
		return false
	case !result.IsSuccess():
		h.logger.ErrorContext(ctx, "Empty operation result", attr.String("operation", operation))
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	return true
}
