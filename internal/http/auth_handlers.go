package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Dima4663737373/doodle/internal/store"
	"github.com/Dima4663737373/doodle/pkg/auth"
)

// AuthAPI issues tokens for relay operators. DB may be nil when the relay
// runs without postgres; every endpoint then answers 503.
type AuthAPI struct {
	DB  *store.Postgres
	JWT *auth.JWT
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenResp struct {
	Token    string      `json:"token"`
	Operator operatorDTO `json:"operator"`
}
type operatorDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Register handles operator signup and returns a JWT
func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		http.Error(w, "operator store disabled", http.StatusServiceUnavailable)
		return
	}

	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	// Basic validation
	if len(req.Password) < 8 || !strings.Contains(req.Email, "@") {
		http.Error(w, "invalid email or weak password", http.StatusBadRequest)
		return
	}

	o, err := a.DB.CreateOperator(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "email already in use", http.StatusConflict)
		return
	}

	// Issue token for 24hrs
	tok, _ := a.JWT.Sign(o.ID, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, Operator: operatorDTO{ID: o.ID, Email: o.Email}})
}

// Login verifies credentials and returns a JWT
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		http.Error(w, "operator store disabled", http.StatusServiceUnavailable)
		return
	}

	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	o, err := a.DB.VerifyOperator(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// Issue token (24h)
	tok, _ := a.JWT.Sign(o.ID, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, Operator: operatorDTO{ID: o.ID, Email: o.Email}})
}

// Me returns the authenticated operator's ID
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	uid := auth.OperatorID(r.Context())
	if uid == "anon" || uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]string{"operatorId": uid})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
