package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/predict"
	"github.com/albapepper/courtside-data/internal/store"
)

const maxPredictBody = 1 << 20

// PredictPoints forwards a player's recent games to the predictor and
// returns its JSON unchanged. When the request has no recent games, the
// first five embedded logs of the stored player are sent instead.
// @Summary Predict points
// @Tags predict
// @Accept json
// @Produce json
// @Param body body predict.Request true "Player data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/predict/points [post]
func (h *Handler) PredictPoints(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPredictBody))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body")
		return
	}
	var req predict.Request
	if err := sonic.Unmarshal(body, &req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_PLAYER_DATA", "Invalid player data", err.Error())
		return
	}

	if len(req.PlayerData.RecentGames) == 0 {
		recent, err := h.recentGames(r, req.PlayerData.PlayerID)
		if err != nil {
			h.writeStoreError(w, err, "Player")
			return
		}
		req.PlayerData.RecentGames = recent
	}

	out, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		var perr *predict.PredictionError
		if errors.As(err, &perr) {
			respond.WriteError(w, http.StatusInternalServerError, "PREDICTION_FAILED", perr.Message)
			return
		}
		h.logger.Error("Predictor call failed", "player_id", req.PlayerData.PlayerID, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "PREDICTOR_UNAVAILABLE", "Prediction service unavailable")
		return
	}
	respond.WriteRaw(w, http.StatusOK, out)
}

// recentGames returns up to RecentGamesDefault embedded logs. A player that
// is not stored yields an empty list; the predictor decides what that means.
func (h *Handler) recentGames(r *http.Request, playerID string) ([]any, error) {
	p, err := h.store.PlayerByPlayerID(r.Context(), playerID)
	if errors.Is(err, store.ErrNotFound) {
		return []any{}, nil
	}
	if err != nil {
		return nil, err
	}
	n := min(len(p.GameLogs), predict.RecentGamesDefault)
	out := make([]any, n)
	for i := range n {
		out[i] = p.GameLogs[i]
	}
	return out, nil
}
