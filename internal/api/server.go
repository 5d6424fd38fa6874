package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"studivio/internal/auth"
	"studivio/internal/config"
	"studivio/internal/extract"
	"studivio/internal/ingest"
	"studivio/internal/logging"
	"studivio/internal/store"
)

// Store is the persistence surface the handlers use. *store.Store satisfies it.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (bool, error)
	GetUser(ctx context.Context, username string) (*store.User, error)

	CreateNote(ctx context.Context, in store.NoteInput) (string, error)
	GetNote(ctx context.Context, id string) (*store.Note, error)
	ListNotesByUser(ctx context.Context, userID string) ([]*store.Note, error)
	UpdateNote(ctx context.Context, id string, patch store.NotePatch) (bool, error)
	DeleteNote(ctx context.Context, id string) (bool, error)

	CreateTodo(ctx context.Context, in store.TodoInput) (string, error)
	GetTodo(ctx context.Context, id string) (*store.Todo, error)
	ListTodos(ctx context.Context, owner string) ([]*store.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch store.TodoPatch) (bool, error)
	DeleteTodo(ctx context.Context, id string) (bool, error)

	CreateTask(ctx context.Context, in store.TaskInput) (string, error)
	GetTask(ctx context.Context, id string) (*store.Task, error)
	ListTasksByUser(ctx context.Context, username string) ([]*store.Task, error)
	UpdateTask(ctx context.Context, id string, patch store.TaskPatch) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
}

// Ingestor runs uploads through the ingestion pipeline. *ingest.Pipeline
// satisfies it.
type Ingestor interface {
	IngestPDF(ctx context.Context, up ingest.Upload) (ingest.Result, error)
	IngestAudio(ctx context.Context, up ingest.Upload) (ingest.Result, error)
	IngestYouTube(ctx context.Context, videoRef, user string) (ingest.Result, error)
}

// Options holds the HTTP settings the server needs.
type Options struct {
	Bind             string
	AllowedOrigins   []string
	TodosRequireAuth bool
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	Limits           extract.Limits
}

// OptionsFrom derives server options from the loaded configuration.
func OptionsFrom(cfg *config.Config) Options {
	opts := Options{
		Bind:             strings.TrimSpace(cfg.API.Bind),
		AllowedOrigins:   append([]string(nil), cfg.API.AllowedOrigins...),
		TodosRequireAuth: cfg.API.TodosRequireAuth,
		ReadTimeout:      time.Duration(cfg.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:     time.Duration(cfg.API.WriteTimeoutSeconds) * time.Second,
		Limits:           extract.LimitsFrom(cfg),
	}
	return opts
}

// Server is the Studivio HTTP API.
type Server struct {
	opts     Options
	store    Store
	auth     *auth.Service
	ingestor Ingestor
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router

	listener net.Listener
	server   *http.Server
}

// New assembles the router. Nothing listens until Start is called.
func New(opts Options, st Store, authSvc *auth.Service, ingestor Ingestor, logger *slog.Logger) *Server {
	if opts.Limits.MaxPDFBytes <= 0 || opts.Limits.MaxAudioBytes <= 0 {
		opts.Limits = extract.DefaultLimits()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 2 * time.Minute
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 20 * time.Minute
	}
	s := &Server{
		opts:     opts,
		store:    st,
		auth:     authSvc,
		ingestor: ingestor,
		logger:   logging.NewComponentLogger(logger, "api"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(answerOptions)

	r.Get("/", s.handleRoot)
	r.Get("/endpoints", s.handleEndpoints)
	r.Post("/Register", s.handleRegister)
	r.Post("/Login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/Logout", s.handleLogout)
		r.Get("/protected", s.handleProtected)

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.handleCreateNote)
			r.Get("/", s.handleListNotes)
			r.Get("/{id}", s.handleGetNote)
			r.Put("/{id}", s.handleUpdateNote)
			r.Delete("/{id}", s.handleDeleteNote)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleCreateTask)
			r.Get("/", s.handleListTasks)
			r.Get("/{id}", s.handleGetTask)
			r.Put("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Post("/summariser/pdf", s.handleSummarisePDF)
		r.Post("/whisper/audio", s.handleTranscribeAudio)
		r.Post("/summariser/youtube", s.handleSummariseYouTube)
	})

	r.Group(func(r chi.Router) {
		if s.opts.TodosRequireAuth {
			r.Use(s.requireAuth)
		}
		r.Route("/todos", func(r chi.Router) {
			r.Post("/", s.handleCreateTodo)
			r.Get("/", s.handleListTodos)
			r.Get("/{id}", s.handleGetTodo)
			r.Put("/{id}", s.handleUpdateTodo)
			r.Delete("/{id}", s.handleDeleteTodo)
		})
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until ctx is cancelled
// or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.opts.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("todos_require_auth", s.opts.TodosRequireAuth),
	)
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, giving in-flight requests a few seconds.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}
