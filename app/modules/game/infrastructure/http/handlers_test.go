package gamehttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gameservice "github.com/Black-And-White-Club/coinche-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/Black-And-White-Club/coinche-bot/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type testAPI struct {
	handler http.Handler
	service *FakeGameService
	tokens  jwt.Service
	logs    *bytes.Buffer
}

func newTestAPI(t *testing.T, limiter *IPRateLimiter) *testAPI {
	t.Helper()
	service := NewFakeGameService()
	tokens := jwt.NewService("test-secret", "coinche-bot", time.Hour)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	router := chi.NewRouter()
	RegisterRoutes(router, NewGameHTTPHandlers(service, logger, noop.NewTracerProvider().Tracer("test")), RouteConfig{
		AllowedOrigins: []string{"https://score.example"},
		Limiter:        limiter,
		Tokens:         tokens,
	})
	return &testAPI{handler: router, service: service, tokens: tokens, logs: logs}
}

func (a *testAPI) token(t *testing.T, role jwt.Role) string {
	t.Helper()
	token, err := a.tokens.GenerateToken("table-1", role, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Error
}

func TestHandleValues(t *testing.T) {
	api := newTestAPI(t, nil)
	rr := api.do(http.MethodGet, "/api/values", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var ref gamedomain.ValuesReference
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&ref))
	assert.Len(t, ref.Contracts, 12)
	assert.Len(t, ref.Remarks, 3)
}

func TestHandleValidateRound(t *testing.T) {
	api := newTestAPI(t, nil)
	rr := api.do(http.MethodPost, "/api/rounds/validate", "", map[string]any{
		"team1": map[string]string{"contract": "80", "realized": "90"},
		"team2": map[string]string{"contract": "90", "realized": "70"},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	var result gamedomain.ValidationResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.False(t, result.Valid)
	assert.Equal(t, gamedomain.ErrMultipleContracts.Error(), result.Message)
}

func TestHandleScoreRound(t *testing.T) {
	api := newTestAPI(t, nil)

	rr := api.do(http.MethodPost, "/api/rounds/score", "", map[string]any{
		"team1": map[string]string{"contract": "100", "realized": "110"},
		"team2": map[string]string{"realized": "50"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var scored scoreResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&scored))
	assert.Equal(t, 210, scored.Teams[0].Points)
	assert.True(t, scored.Teams[0].Fulfilled)
	assert.Equal(t, 10, scored.Teams[0].Gap)
	assert.Equal(t, 50, scored.Teams[1].Points)

	rr = api.do(http.MethodPost, "/api/rounds/score", "", map[string]any{
		"team1": map[string]string{"remark": "Coinche"},
		"team2": map[string]string{"remark": "Coinche"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, gamedomain.ErrMirroredRemark.Error(), decodeError(t, rr))

	rr = api.do(http.MethodPost, "/api/rounds/score", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMutationsRequireScorer(t *testing.T) {
	api := newTestAPI(t, nil)
	body := gameservice.CreateGameRequest{Team1Name: "Ana/Ben", Team2Name: "Cleo/Dan"}

	rr := api.do(http.MethodPost, "/api/games", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = api.do(http.MethodPost, "/api/games", "garbage", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = api.do(http.MethodPost, "/api/games", api.token(t, jwt.RoleViewer), body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, api.service.Trace())

	rr = api.do(http.MethodPost, "/api/games", api.token(t, jwt.RoleScorer), body)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"CreateGame"}, api.service.Trace())

	// reads stay public
	rr = api.do(http.MethodGet, "/api/games/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMutationsLogScorer(t *testing.T) {
	api := newTestAPI(t, nil)

	rr := api.do(http.MethodGet, "/api/games/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, api.logs.String(), "Scorer action")

	body := gameservice.CreateGameRequest{Team1Name: "Ana/Ben", Team2Name: "Cleo/Dan"}
	rr = api.do(http.MethodPost, "/api/games", api.token(t, jwt.RoleScorer), body)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, api.logs.String(), "operation=CreateGame")
	assert.Contains(t, api.logs.String(), "scorer=table-1")
}

func TestFailureStatusMapping(t *testing.T) {
	gameID := uuid.New()

	tests := []struct {
		name       string
		setup      func(*FakeGameService)
		method     string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name: "rejected round",
			setup: func(f *FakeGameService) {
				f.AddRoundFunc = func(ctx context.Context, id uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*gameservice.RoundAdded, error], error) {
					return results.FailureResult[*gameservice.RoundAdded, error](gamedomain.ErrAnnouncementOverflow), nil
				}
			},
			method:     http.MethodPost,
			path:       "/api/games/" + gameID.String() + "/rounds",
			body:       roundRequest{},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  gamedomain.ErrAnnouncementOverflow.Error(),
		},
		{
			name: "unknown game",
			setup: func(f *FakeGameService) {
				f.UndoRoundFunc = func(ctx context.Context, id uuid.UUID) (results.OperationResult[*gameservice.RoundUndone, error], error) {
					return results.FailureResult[*gameservice.RoundUndone, error](gamedb.ErrNotFound), nil
				}
			},
			method:     http.MethodDelete,
			path:       "/api/games/" + gameID.String() + "/rounds/last",
			wantStatus: http.StatusNotFound,
			wantError:  gamedb.ErrNotFound.Error(),
		},
		{
			name: "nothing to undo",
			setup: func(f *FakeGameService) {
				f.UndoRoundFunc = func(ctx context.Context, id uuid.UUID) (results.OperationResult[*gameservice.RoundUndone, error], error) {
					return results.FailureResult[*gameservice.RoundUndone, error](gamedomain.ErrNoRounds), nil
				}
			},
			method:     http.MethodDelete,
			path:       "/api/games/" + gameID.String() + "/rounds/last",
			wantStatus: http.StatusConflict,
			wantError:  gamedomain.ErrNoRounds.Error(),
		},
		{
			name: "storage error",
			setup: func(f *FakeGameService) {
				f.AddRoundFunc = func(ctx context.Context, id uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*gameservice.RoundAdded, error], error) {
					return results.OperationResult[*gameservice.RoundAdded, error]{}, errors.New("connection reset")
				}
			},
			method:     http.MethodPost,
			path:       "/api/games/" + gameID.String() + "/rounds",
			body:       roundRequest{},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
		{
			name:       "malformed game id",
			setup:      func(f *FakeGameService) {},
			method:     http.MethodPost,
			path:       "/api/games/not-a-uuid/restart",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid game id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, nil)
			tt.setup(api.service)

			rr := api.do(tt.method, tt.path, api.token(t, jwt.RoleScorer), tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rr))
		})
	}
}

func TestHandleRenameTeamUsesOneBasedPath(t *testing.T) {
	api := newTestAPI(t, nil)
	var gotTeam int
	var gotName string
	api.service.RenameTeamFunc = func(ctx context.Context, gameID uuid.UUID, team int, name string) (results.OperationResult[*gameservice.GameView, error], error) {
		gotTeam, gotName = team, name
		return results.SuccessResult[*gameservice.GameView, error](&gameservice.GameView{GameID: gameID}), nil
	}

	rr := api.do(http.MethodPut, "/api/games/"+uuid.NewString()+"/teams/2", api.token(t, jwt.RoleScorer), renameRequest{Name: "Eve/Finn"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, gotTeam)
	assert.Equal(t, "Eve/Finn", gotName)

	rr = api.do(http.MethodPut, "/api/games/"+uuid.NewString()+"/teams/two", api.token(t, jwt.RoleScorer), renameRequest{Name: "Eve/Finn"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBinaryDownloads(t *testing.T) {
	api := newTestAPI(t, nil)
	api.service.RenderChartFunc = func(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error) {
		return results.SuccessResult[[]byte, error]([]byte("\x89PNG")), nil
	}
	gameID := uuid.New()

	rr := api.do(http.MethodGet, "/api/games/"+gameID.String()+"/chart.png", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rr.Body.String())

	rr = api.do(http.MethodGet, "/api/games/"+gameID.String()+"/scoresheet.xlsx", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "coinche-"+gameID.String()+".xlsx")
}

func TestHandleImportScoresheetMultipart(t *testing.T) {
	api := newTestAPI(t, nil)
	var uploaded string
	api.service.ImportScoresheetFunc = func(ctx context.Context, r io.Reader) (results.OperationResult[*gameservice.GameView, error], error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return results.OperationResult[*gameservice.GameView, error]{}, err
		}
		uploaded = string(data)
		return results.SuccessResult[*gameservice.GameView, error](&gameservice.GameView{GameID: uuid.New()}), nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "game.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("workbook"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/games/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.token(t, jwt.RoleScorer))
	rr := httptest.NewRecorder()
	api.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "workbook", uploaded)
}

func TestRateLimitMiddleware(t *testing.T) {
	api := newTestAPI(t, NewIPRateLimiter(0.001, 1))

	rr := api.do(http.MethodGet, "/api/values", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, "/api/values", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "https://score.example")
	rr := httptest.NewRecorder()
	api.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://score.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "DELETE"))

	req = httptest.NewRequest(http.MethodGet, "/api/values", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rr = httptest.NewRecorder()
	api.handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
