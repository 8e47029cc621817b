package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/todochat/todochat/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// ServeHTTP routes /api/v1/auth/{signup,login,logout}
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/api/v1/auth/")
	switch action {
	case "signup":
		h.handleSignup(w, r)
	case "login":
		h.handleLogin(w, r)
	case "logout":
		h.handleLogout(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, out)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, out)
}

// handleLogout reads the bearer token itself: auth routes bypass the
// auth middleware, and the token to revoke is the presented one.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := h.svc.Logout(r.Context(), token); err != nil {
		handleServiceError(w, err)
		return
	}

	WriteDetail(w, "Logged out.")
}
