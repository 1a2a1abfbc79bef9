// Package server exposes the transcription and summary services over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/summary"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
	"github.com/nguyentantai21042004/meetscribe/internal/transcription"
)

// Options configure the HTTP surface.
type Options struct {
	Addr        string
	Prefix      string
	Dev         bool
	FrontendURL string
	MaxUploadMB int64
}

// Deps are the services the handlers call.
type Deps struct {
	Transcription transcription.Service
	Summary       summary.Service
	Store         record.Store
	Recorder      *telemetry.Recorder
	Logger        logger.Logger
}

// Server is the HTTP front end.
type Server struct {
	opts          Options
	transcription transcription.Service
	summary       summary.Service
	store         record.Store
	recorder      *telemetry.Recorder
	logger        logger.Logger
	router        *gin.Engine
}

// New builds the router.
func New(opts Options, d Deps) *Server {
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 512
	}
	s := &Server{
		opts:          opts,
		transcription: d.Transcription,
		summary:       d.Summary,
		store:         d.Store,
		recorder:      d.Recorder,
		logger:        d.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), corsMiddleware(s.allowedOrigin()))
	r.MaxMultipartMemory = 32 << 20

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.recorder.Handler()))

	api := r.Group(s.opts.Prefix)
	api.POST("/transcribe", s.handleTranscribe)
	api.POST("/summarize", s.handleSummarize)
	api.POST("/summarize/docx", s.handleSummarizeDocx)
	api.GET("/get_transcription_file_name", s.handleFileName)

	return r
}

func (s *Server) allowedOrigin() string {
	if s.opts.Dev {
		return "*"
	}
	return s.opts.FrontendURL
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s (prefix %s)", s.opts.Addr, s.opts.Prefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
