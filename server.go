package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Server handles incoming HTTP requests for the gateway
type Server struct {
	Logger  *slog.Logger
	Gateway *Gateway
	// Token, when non-empty, is required as a bearer token on /sms routes
	Token string
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /sms", s.withAuth(s.handleSend))
	mux.HandleFunc("GET /sms/{id}", s.withAuth(s.handleStatus))
	mux.ServeHTTP(w, r)
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.Token {
				s.sendError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"modem": s.Gateway.SessionState().String(),
	})
}

// handleSend queues an SMS send request
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.To == "" || req.Message == "" {
		s.sendError(w, "both 'to' and 'message' fields are required", http.StatusBadRequest)
		return
	}

	id := s.Gateway.Enqueue(req)
	s.Logger.Info("sms queued", "id", id, "to", req.To, "message_length", len(req.Message))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": string(JobQueued), "id": id})
}

// handleStatus reports the delivery status of a queued message
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := s.Gateway.Status(r.PathValue("id"))
	if !ok {
		s.sendError(w, "unknown job id", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
