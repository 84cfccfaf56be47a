package server

import (
	"fmt"
	"net/http"

	"jonx/internal/platform/server/handler/convert"
	"jonx/internal/platform/server/handler/health"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	httpAddr string
	engine   *chi.Mux
	logger   *zap.Logger
}

func NewServer(host string, port int, handler *convert.ConvertHandler, logger *zap.Logger) Server {
	srv := Server{
		engine:   chi.NewRouter(),
		httpAddr: fmt.Sprintf("%s:%d", host, port),
		logger:   logger,
	}
	srv.engine.Use(middleware.Logger)
	srv.registerRoutes(handler)
	return srv
}

func (s *Server) Run() error {
	s.logger.Info("server running", zap.String("addr", s.httpAddr))
	return http.ListenAndServe(s.httpAddr, s.engine)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *chi.Mux {
	return s.engine
}

func (s *Server) registerRoutes(handler *convert.ConvertHandler) {
	s.engine.Get("/health", health.CheckHandler)
	s.engine.Post("/api/encode", handler.Encode)
	s.engine.Post("/api/decode", handler.Decode)
	s.engine.Post("/api/preview", handler.Preview)
}
