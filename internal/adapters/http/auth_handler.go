package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"clienthub/internal/domain"
	"clienthub/internal/logger"
)

type AuthHandler struct {
	svc domain.AuthService
	log logger.Logger
}

func NewAuthHandler(svc domain.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		log: log,
	}
}

// Token authenticates by email and password and issues an access token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.log.Warn("failed login attempt", "email", req.Email)
			writeJSON(w, http.StatusUnauthorized, &Response{Message: "incorrect email or password"})
			return
		}

		h.log.Error("authentication failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "an internal server error occurred"})
		return
	}

	tokenData, err := h.svc.IssueToken(user)
	if err != nil {
		h.log.Error("failed to issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "an internal server error occurred"})
		return
	}

	writeJSON(w, http.StatusOK, tokenData)
}

// Verify checks the Bearer token from the Authorization header. Expired
// and invalid tokens both come back as 401; only the logs tell them apart.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "missing bearer token"})
		return
	}

	verification, err := h.svc.VerifyToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			writeJSON(w, http.StatusUnauthorized, &Response{Message: "token expired, get a new one"})
			return
		}

		writeJSON(w, http.StatusUnauthorized, &Response{Message: "invalid token"})
		return
	}

	writeJSON(w, http.StatusOK, verification)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
