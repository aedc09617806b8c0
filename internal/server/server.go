package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/solverhub/apiserver/config"
	"github.com/solverhub/apiserver/internal/db"
	"github.com/solverhub/apiserver/internal/events"
	"github.com/solverhub/apiserver/internal/handlers"
	"github.com/solverhub/apiserver/internal/mq"
	"github.com/solverhub/apiserver/internal/secure"
	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/internal/storage"
	"github.com/solverhub/apiserver/internal/store"
)

// Version is the reported application version.
const Version = "1.0.0"

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.Broker
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	deliverables, err := newDeliverableStore(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := newBroker(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	notifier := events.NewNotifier(broker)

	userRepo := store.NewUserRepository(dbConn)
	buyerRepo := store.NewBuyerRepository(dbConn)
	solverRepo := store.NewSolverRepository(dbConn)
	staffRepo := store.NewStaffRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	proposalRepo := store.NewProposalRepository(dbConn)
	taskRepo := store.NewTaskRepository(dbConn)
	submissionRepo := store.NewTaskSubmissionRepository(dbConn)
	completionRepo := store.NewCompletionRepository(dbConn)

	userService := services.NewUserService(userRepo, secure.NewArgon2Hasher(), notifier)
	buyerService := services.NewBuyerService(buyerRepo, userRepo)
	solverService := services.NewSolverService(solverRepo, userRepo)
	staffService := services.NewStaffService(staffRepo, userRepo)
	projectService := services.NewProjectService(projectRepo, buyerRepo, solverRepo)
	proposalService := services.NewProposalService(
		proposalRepo,
		projectRepo,
		solverRepo,
		services.ProposalPolicy{SinglePending: cfg.Proposals.SinglePending},
		notifier,
	)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	submissionService := services.NewTaskSubmissionService(submissionRepo, taskRepo, deliverables, notifier)
	completionService := services.NewCompletionService(completionRepo, projectRepo, notifier)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Route("/health", func(r chi.Router) {
		handlers.HealthRouter(r, dbConn, Version)
	})
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, jwtSecret)
	})
	router.Route("/buyers", func(r chi.Router) {
		handlers.BuyerRouter(r, buyerService)
	})
	router.Route("/solvers", func(r chi.Router) {
		handlers.SolverRouter(r, solverService)
	})
	router.Route("/staff", func(r chi.Router) {
		handlers.StaffRouter(r, staffService, userService, jwtSecret)
	})
	router.Route("/projects", func(r chi.Router) {
		handlers.ProjectRouter(r, projectService)
	})
	router.Route("/proposals", func(r chi.Router) {
		handlers.ProposalRouter(r, proposalService)
	})
	router.Route("/tasks", func(r chi.Router) {
		handlers.TaskRouter(r, taskService)
	})
	router.Route("/submissions", func(r chi.Router) {
		handlers.SubmissionRouter(r, submissionService)
	})
	router.Route("/completions", func(r chi.Router) {
		handlers.CompletionRouter(r, completionService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

func newDeliverableStore(ctx context.Context, cfg config.StorageConfig) (*storage.DeliverableStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "minio":
		backend, err := storage.NewMinioBackend(cfg.Minio)
		if err != nil {
			return nil, err
		}
		deliverables := storage.NewDeliverableStore(backend)
		if err := deliverables.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return deliverables, nil
	case "gcs":
		backend, err := storage.NewGCSBackend(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		deliverables := storage.NewDeliverableStore(backend)
		if err := deliverables.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return deliverables, nil
	case "":
		// No backend configured; submission uploads report ErrNoBackend.
		return storage.NewDeliverableStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newBroker(ctx context.Context, cfg config.MQConfig) (*mq.Broker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "rabbitmq":
		backend, err := mq.NewRabbitBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.NewBroker(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.NewBroker(backend), nil
	case "":
		// No broker configured; events are dropped.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return s.httpServer.Close()
}
