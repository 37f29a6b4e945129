package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"comanda/internal/config"
	"comanda/internal/pos/adapter/broker"
	database "comanda/internal/pos/adapter/db"
	"comanda/internal/pos/api/http/handle"
	"comanda/internal/pos/app/core"
	"comanda/internal/pos/app/services"
	"comanda/pkg/logger"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	params *core.ServerParams
	mylog  logger.Logger
	db     *database.DB
	mb     core.PrintQueue
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, params *core.ServerParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		params: params,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run initializes connections and routes and starts listening. It returns
// when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("database connection established")

	if err := s.initializePrintQueue(); err != nil {
		mylog.Action("mb_connection_failed").Error("failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("print queue connection established")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.params.Port),
		Handler:      handle.WithIdentity(s.withRequestID(s.mux)),
		ReadTimeout:  core.RequestTimeout,
		WriteTimeout: core.RequestTimeout,
	}
	s.mu.Unlock()

	mylog.Info("server is running", "port", s.params.Port)
	return s.startHTTPServer()
}

// Stop provides a programmatic graceful shutdown.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("shutting down HTTP server")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.ShutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("failed to shut down HTTP server", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("db close: %w", err)
		}
	}
	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			return fmt.Errorf("print queue close: %w", err)
		}
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	db, err := database.Start(s.appCtx, s.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Server) initializePrintQueue() error {
	mb, err := broker.Connect(s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	return nil
}

// Configure wires services and registers the routes.
func (s *Server) Configure() {
	perms := handle.RoleChecker{}
	inventory := services.NewInventoryService(s.mylog)
	orderService := services.NewOrderService(s.db, s.mb, inventory, perms, s.mylog)
	tableService := services.NewTableService(s.db, s.mb, perms, s.mylog)

	orderHandler := handle.NewOrderHandler(orderService, s.mylog)
	tableHandler := handle.NewTableHandler(tableService, s.mylog)

	s.mux.Handle("POST /tables", tableHandler.Create())
	s.mux.Handle("GET /tables", tableHandler.List())
	s.mux.Handle("GET /tables/{table_id}", tableHandler.Get())
	s.mux.Handle("PUT /tables/{table_id}/close", tableHandler.Close())
	s.mux.Handle("DELETE /tables/{table_id}", tableHandler.Delete())

	s.mux.Handle("POST /tables/{table_id}/orders", orderHandler.Create())
	s.mux.Handle("GET /tables/{table_id}/orders", orderHandler.List())
	s.mux.Handle("GET /tables/{table_id}/orders/{order_id}", orderHandler.Get())
	s.mux.Handle("PUT /tables/{table_id}/orders/{order_id}", orderHandler.Update())
	s.mux.Handle("PUT /tables/{table_id}/orders/{order_id}/finish", orderHandler.Finish())
	s.mux.Handle("PUT /tables/{table_id}/orders/{order_id}/cancel", orderHandler.Cancel())
	s.mux.Handle("DELETE /tables/{table_id}/orders/{order_id}", orderHandler.Delete())
}

// withRequestID tags every request with an id and logs its timing.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.mylog.Action("request_completed").With("request_id", requestID).Debug("request handled",
			"method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}
