package http

import (
	"net/http"

	"github.com/todochat/todochat/internal/http/handler"
	"github.com/todochat/todochat/internal/service"
)

func NewRouter(todoSvc *service.TodoService, authSvc *service.AuthService, chatSvc *service.ChatService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Signup / login / logout
	authHandler := handler.NewAuthHandler(authSvc)
	mux.Handle("/api/v1/auth/", authHandler)

	// Todo CRUD API
	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	// Conversational interface
	chatHandler := handler.NewChatHandler(chatSvc)
	mux.Handle("/api/v1/chat/", chatHandler)

	return mux
}
