package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/leofalp/askgpt/core/session"
)

// Chat is the transcript the server fronts. *session.Session implements it.
type Chat interface {
	Submit(ctx context.Context, prompt string) (session.Reply, error)
	Messages() []session.ChatMessage
	Reset()
}

// Server is the chat HTTP server.
type Server struct {
	chat       Chat
	logger     *slog.Logger
	httpServer *http.Server
}

type serverOptions struct {
	addr           string
	logger         *slog.Logger
	requestTimeout time.Duration
}

// Option configures a Server.
type Option func(*serverOptions)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) Option {
	return func(o *serverOptions) { o.addr = addr }
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRequestTimeout sizes the write timeout so an exchange bounded by d
// can still be answered.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *serverOptions) { o.requestTimeout = d }
}

// New constructs a Server around chat.
func New(chat Chat, opts ...Option) *Server {
	options := serverOptions{
		addr:           ":8080",
		logger:         slog.Default(),
		requestTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Server{chat: chat, logger: options.logger}

	router := mux.NewRouter()
	router.Use(s.loggingMiddleware, s.recoveryMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/messages", s.listMessages).Methods(http.MethodGet)
	api.HandleFunc("/messages", s.postMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages", s.resetMessages).Methods(http.MethodDelete)
	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, KindRequest, "no route for "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, KindRequest, r.Method+" not allowed on "+r.URL.Path)
	})

	writeTimeout := 30 * time.Second
	if options.requestTimeout > 0 {
		writeTimeout = options.requestTimeout + 10*time.Second
	}

	s.httpServer = &http.Server{
		Addr:         options.addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
