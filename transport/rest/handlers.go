package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/contextoduel/contexto-backend/internal/entity"
)

type startRequest struct {
	PlayerID string `json:"player_id"`
}

type startResponse struct {
	Status   string `json:"status"`
	PlayerID string `json:"player_id"`
	MatchID  string `json:"match_id"`
}

type guessRequest struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
}

type guessResponse struct {
	Status          string               `json:"status"`
	Rank            int                  `json:"rank"`
	HumanGuesses    []entity.GuessRecord `json:"human_guesses"`
	OpponentGuesses []entity.GuessRecord `json:"opponent_guesses"`
	Turn            string               `json:"turn"`
	Outcome         string               `json:"outcome"`
	OpponentGuess   *entity.GuessRecord  `json:"opponent_guess,omitempty"`
}

type giveUpRequest struct {
	PlayerID string `json:"player_id"`
}

type giveUpResponse struct {
	Status     string `json:"status"`
	TargetWord string `json:"target_word"`
	GuessCount int    `json:"guess_count"`
	Outcome    string `json:"outcome"`
}

type registerUserRequest struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !that.decode(w, r, &req) {
		return
	}

	player, match, err := that.matches.StartMatch(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, startResponse{
		Status:   "success",
		PlayerID: player.ID,
		MatchID:  match.ID,
	})
}

func (that *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !that.decode(w, r, &req) {
		return
	}

	result, err := that.matches.SubmitGuess(r.Context(), req.PlayerID, req.Guess)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, guessResponse{
		Status:          "success",
		Rank:            result.Rank,
		HumanGuesses:    result.Match.HumanGuesses,
		OpponentGuesses: result.Match.OpponentGuesses,
		Turn:            result.Match.Turn,
		Outcome:         result.Match.Outcome,
		OpponentGuess:   result.OpponentGuess,
	})
}

func (that *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req giveUpRequest
	if !that.decode(w, r, &req) {
		return
	}

	result, err := that.matches.Concede(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, giveUpResponse{
		Status:     "success",
		TargetWord: result.TargetWord,
		GuessCount: result.GuessCount,
		Outcome:    result.Outcome,
	})
}

func (that *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := that.matches.Leaderboard(r.Context(), r.URL.Query().Get("player_id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, leaderboard)
}

func (that *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.matches.Stats(r.Context(), r.URL.Query().Get("player_id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Email == "" {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Code: "empty_email", Message: "email is required"})
		return
	}

	user, err := that.users.RegisterUser(r.Context(), req.Email)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, user)
}

func (that *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	records, err := that.users.GetUserHistory(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	if records == nil {
		records = []*entity.MatchRecord{}
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Code: "bad_request", Message: "invalid JSON body"})
		return false
	}

	return true
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the game's error taxonomy onto HTTP statuses. Every
// rejected guess keeps the match state unchanged, so all of these are safe
// to retry.
func (that *Server) writeError(w http.ResponseWriter, err error) {
	type mapping struct {
		status int
		code   string
	}

	mappings := []struct {
		target error
		mapping
	}{
		{apperror.ErrEmptyInput, mapping{http.StatusBadRequest, "empty_input"}},
		{apperror.ErrWordTooShort, mapping{http.StatusBadRequest, "word_too_short"}},
		{apperror.ErrAlreadyGuessed, mapping{http.StatusConflict, "already_guessed"}},
		{apperror.ErrUnknownWord, mapping{http.StatusBadRequest, "unknown_word"}},
		{apperror.ErrMatchOver, mapping{http.StatusConflict, "match_over"}},
		{apperror.ErrNotYourTurn, mapping{http.StatusConflict, "not_your_turn"}},
		{apperror.ErrNoActiveMatch, mapping{http.StatusNotFound, "no_active_match"}},
		{apperror.ErrMatchNotFound, mapping{http.StatusNotFound, "match_not_found"}},
		{apperror.ErrPlayerNotFound, mapping{http.StatusNotFound, "player_not_found"}},
		{apperror.ErrUserNotFound, mapping{http.StatusNotFound, "user_not_found"}},
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			that.writeJSON(w, m.status, errorResponse{Status: "error", Code: m.code, Message: m.target.Error()})
			return
		}
	}

	that.logger.Error("request failed", "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Status: "error", Code: "internal", Message: "internal server error"})
}
