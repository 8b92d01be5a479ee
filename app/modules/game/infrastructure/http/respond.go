package gamehttp

import (
	"encoding/json"
	"errors"
	"net/http"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// failureStatus maps a domain failure to its HTTP status.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, gamedb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gamedomain.ErrNoRounds):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, failureStatus(err), err.Error())
}
