package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/ranking"
	"github.com/vitgroww/roomie/internal/store"
	"github.com/vitgroww/roomie/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// CandidateStore is the persistence the API needs. *store.SQLiteStore satisfies it.
type CandidateStore interface {
	Create(ctx context.Context, c *candidates.Candidate) (*candidates.Candidate, error)
	Get(ctx context.Context, id string) (*candidates.Candidate, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, p store.ListParams) (*candidates.Candidates, int, error)
	All(ctx context.Context) (*candidates.Candidates, error)
}

type Options struct {
	Address string
	// Token enables bearer authentication when not empty.
	Token       string
	ExcludeFile string
	Ranking     ranking.Options
}

type Server struct {
	options   Options
	store     CandidateStore
	validator *validator.Validator
	logger    *zap.Logger
	engine    *gin.Engine
}

func New(options Options, s CandidateStore, v *validator.Validator, base *zap.Logger) *Server {
	if v == nil {
		v = validator.New()
	}

	srv := &Server{
		options:   options,
		store:     s,
		validator: v,
		logger:    logger.ForComponent(base, "http", zap.String("address", options.Address)),
	}
	srv.engine = srv.routes()
	return srv
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))

	r.GET("/health", s.health)
	r.GET("/weights", s.weights)

	api := r.Group("/")
	api.Use(bearerAuth(s.options.Token))
	api.POST("/score", s.score)
	api.POST("/match", s.match)
	api.GET("/candidates", s.listCandidates)
	api.GET("/candidates/:id", s.getCandidate)
	api.POST("/candidates", s.createCandidate)
	api.DELETE("/candidates/:id", s.deleteCandidate)

	return r
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.options.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.Bool("auth", s.options.Token != ""))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
