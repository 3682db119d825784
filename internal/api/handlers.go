package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/susu3304/creditbot/internal/redeem"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Public handlers
func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	writeJSON(w, http.StatusOK, a.balances.Top(limit))
}

func (a *API) handleUserBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": strconv.FormatUint(userID, 10),
		"balance": a.balances.GetBalance(userID),
	})
}

// Protected handlers
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		http.Error(w, "invalid user in token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"balance":  a.balances.GetBalance(userID),
	})
}

func (a *API) handleRedeem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		http.Error(w, "invalid user in token", http.StatusUnauthorized)
		return
	}

	res := a.redeemer.Redeem(r.Context(), userID, redeem.RewardRecuerdate)
	body := map[string]interface{}{
		"outcome": res.Outcome.String(),
		"reward":  res.Reward,
		"price":   res.Price,
		"balance": res.Balance,
	}

	switch res.Outcome {
	case redeem.OutcomeRedeemed:
		writeJSON(w, http.StatusOK, body)
	case redeem.OutcomeInsufficient:
		body["shortfall"] = res.Shortfall
		writeJSON(w, http.StatusConflict, body)
	default:
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
