package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dykim-dev/matchboard/middleware"
	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/services"
)

const testJWTSecret = "test-secret"

type stubMatchService struct {
	createErr      error
	lastReporterID int
}

func (s *stubMatchService) CreateMatch(ctx context.Context, reporterID int, input services.CreateMatchInput) (*models.Match, error) {
	s.lastReporterID = reporterID
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Match{
		ID:             1,
		Mode:           input.Mode,
		WinnerPlayerID: input.WinnerPlayerID,
		LoserPlayerID:  input.LoserPlayerID,
		WinnerScore:    input.WinnerScore,
		LoserScore:     input.LoserScore,
		FinishReason:   input.FinishReason,
		ReporterID:     reporterID,
	}, nil
}

func (s *stubMatchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	return nil, services.ErrMatchNotFound
}

func (s *stubMatchService) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubMatchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return nil, nil
}

func newMatchTestRouter(svc services.MatchService) *chi.Mux {
	handler := NewMatchHandler(svc)
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Post("/matches", handler.Create)
	})
	return router
}

func signTestToken(t *testing.T, playerID int, role models.PlayerRole) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": playerID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

const validMatchBody = `{
	"mode": "solo",
	"winner_player_id": 1,
	"loser_player_id": 2,
	"winner_score": 21,
	"loser_score": 15,
	"finish_reason": "normal",
	"rated": true
}`

func TestCreateMatchRequiresToken(t *testing.T) {
	router := newMatchTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(validMatchBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.NotEmpty(t, body["error"])
}

func TestCreateMatchRejectsBadToken(t *testing.T) {
	router := newMatchTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(validMatchBody))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMatchForbiddenForNonParticipant(t *testing.T) {
	svc := &stubMatchService{createErr: services.ErrForbiddenOperation}
	router := newMatchTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(validMatchBody))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 9, models.RolePlayer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
}

func TestCreateMatchSuccess(t *testing.T) {
	svc := &stubMatchService{}
	router := newMatchTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(validMatchBody))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RolePlayer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.lastReporterID, "reporter comes from the token, not the body")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	require.Contains(t, body, "match")
}

func TestCreateMatchBadJSON(t *testing.T) {
	router := newMatchTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(`{"mode":`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RolePlayer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
