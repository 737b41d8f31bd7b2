// Package server exposes the bot over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot"
	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/dialog"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
)

// PopCommand is the user_input a system caller sends to fetch the next
// queued reply.
const PopCommand = "POPMSG"

// Options configures the HTTP transport.
type Options struct {
	Addr            string
	AllowAllOrigins bool
	Logger          *zap.Logger
}

// Server serves the chat endpoint.
type Server struct {
	bot    *railbot.Bot
	log    *zap.Logger
	router chi.Router
	http   *http.Server
}

// New creates a server for bot.
func New(bot *railbot.Bot, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{bot: bot, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if opts.AllowAllOrigins {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Get("/healthz", s.health)
	r.Post("/chat", s.chat)
	s.router = r

	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start HTTP server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	return nil
}

type reply struct {
	Message          string   `json:"message"`
	Suggestions      []string `json:"suggestions"`
	ResponseRequired bool     `json:"response_req"`
	SessionID        string   `json:"session_id"`
}

func toReply(env chain.Envelope, id string) reply {
	sugg := env.Suggestions
	if sugg == nil {
		sugg = []string{}
	}
	return reply{Message: env.Text, Suggestions: sugg, ResponseRequired: env.ResponseRequired, SessionID: id}
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := r.PostForm.Get("user_input")
	system := r.PostForm.Get("is_system") == "true"
	id := r.PostForm.Get("session_id")

	if input == PopCommand && system {
		env, err := s.bot.Pop(id)
		if errors.Is(err, internalerr.ErrNotFound) {
			s.log.Warn("pop for unknown session", zap.String("session", id))
		}
		writeJSON(w, toReply(env, id))
		return
	}

	env, used, err := s.bot.Handle(r.Context(), id, input)
	if err != nil {
		s.log.Error("turn failed", zap.String("session", used), zap.Error(err))
		env = dialog.Broken()
	}
	writeJSON(w, toReply(env, used))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "sessions": len(s.bot.IDs())})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
