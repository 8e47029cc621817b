package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/todochat/todochat/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ServeHTTP routes /api/v1/chat/{message,history,clear}
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/v1/chat/")
	switch {
	case action == "message" && r.Method == http.MethodPost:
		h.handleMessage(w, r)
	case action == "history" && r.Method == http.MethodGet:
		h.handleHistory(w, r)
	case action == "clear" && r.Method == http.MethodDelete:
		h.handleClear(w, r)
	case action == "message" || action == "history" || action == "clear":
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	}
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessageResponse struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	reply, err := h.svc.SendMessage(r.Context(), userID, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, chatMessageResponse{Reply: reply})
}

type chatHistoryEntry struct {
	ID      int64  `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *ChatHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	msgs, err := h.svc.History(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]chatHistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatHistoryEntry{ID: m.ID, Role: m.Role, Content: m.Content})
	}

	WriteJSON(w, http.StatusOK, out)
}

func (h *ChatHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	if err := h.svc.ClearHistory(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	WriteDetail(w, "Chat cleared.")
}
