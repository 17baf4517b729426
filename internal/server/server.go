package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rezonia/ubl/internal/builder"
	"github.com/rezonia/ubl/internal/inspect"
	"github.com/rezonia/ubl/internal/model"
	"github.com/rezonia/ubl/internal/signing"
	"github.com/rezonia/ubl/internal/validator"
)

// Config holds server configuration
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ValidateTimeout time.Duration
	MaxBodyBytes    int64
	Debug           bool
}

// Option configures a Server
type Option func(*Server)

// WithValidator sets the validator used by the validate endpoint
func WithValidator(v *validator.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

// WithSigner enables ?sign=true on the build endpoint
func WithSigner(signer *signing.Signer) Option {
	return func(s *Server) {
		s.signer = signer
	}
}

// WithLogger sets the server logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	registry  *prometheus.Registry
	metrics   *Metrics
	validator *validator.Validator
	signer    *signing.Signer
	logger    *slog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		config:    config,
		router:    router,
		registry:  registry,
		metrics:   NewMetrics(registry),
		validator: validator.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/build/:kind", s.handleBuild)
		v1.POST("/validate/:kind", s.handleValidate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown failed", "error", err)
		}
	}()

	s.logger.Info("server listening", "address", s.config.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	engines := map[string]bool{}
	if s.validator != nil {
		engines = s.validator.Availability()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"engines": engines,
	})
}

func (s *Server) handleBuild(c *gin.Context) {
	kind, ext, ok := s.documentParams(c)
	if !ok {
		s.metrics.IncrementBuildFailure("unsupported")
		return
	}

	body, ok := s.readBody(c)
	if !ok {
		s.metrics.IncrementBuildFailure("body")
		return
	}

	var data model.DocumentData
	if err := json.Unmarshal(body, &data); err != nil {
		s.metrics.IncrementBuildFailure("json")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid document data", Details: err.Error()})
		return
	}

	doc, err := builder.Build(kind, ext, &data)
	if err != nil {
		s.metrics.IncrementBuildFailure(buildFailureReason(err))
		s.writeBuildError(c, err)
		return
	}

	out := doc.Bytes()
	if sign, _ := strconv.ParseBool(c.Query("sign")); sign {
		if s.signer == nil {
			s.metrics.IncrementBuildFailure("signing")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "signing is not configured"})
			return
		}
		out, err = s.signer.Sign(out)
		if err != nil {
			s.metrics.IncrementBuildFailure("signing")
			s.logger.Error("signing failed", "kind", kind, "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "signing failed", Details: err.Error()})
			return
		}
	}

	s.metrics.IncrementBuilt(kind.String(), ext.String())
	s.logger.Debug("document built", "kind", kind, "extension", ext, "bytes", len(out))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}

func (s *Server) handleValidate(c *gin.Context) {
	kind, ext, ok := s.documentParams(c)
	if !ok {
		return
	}

	body, ok := s.readBody(c)
	if !ok {
		return
	}

	runSchematron, _ := strconv.ParseBool(c.Query("schematron"))

	ctx := c.Request.Context()
	if s.config.ValidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ValidateTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.validator.ValidateBytes(ctx, body, kind, ext, runSchematron)
	if err != nil {
		status := http.StatusInternalServerError
		outcome := "error"
		if errors.Is(err, validator.ErrEngineUnavailable) {
			status = http.StatusServiceUnavailable
			outcome = "unavailable"
		}
		s.metrics.ObserveValidation(kind.String(), outcome, runSchematron, start)
		s.logger.Warn("validation failed", "kind", kind, "error", err)
		c.JSON(status, ErrorResponse{Error: "validation could not run", Details: err.Error()})
		return
	}

	outcome := "valid"
	if !result.Valid {
		outcome = "invalid"
	}
	s.metrics.ObserveValidation(kind.String(), outcome, runSchematron, start)

	c.JSON(http.StatusOK, ValidationResponse{
		Result:    result,
		Kind:      kind.String(),
		Extension: ext.String(),
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	info, err := inspect.Inspect(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "not a UBL document", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, InfoResponse(*info))
}

// documentParams parses the kind path parameter and the extension query.
// It writes a 400 response and returns false when either is unsupported.
func (s *Server) documentParams(c *gin.Context) (model.DocumentKind, model.Extension, bool) {
	kind, err := model.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return 0, 0, false
	}

	ext, err := model.ParseExtension(c.Query("extension"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return 0, 0, false
	}

	return kind, ext, true
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	if s.config.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
	}

	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}

	return body, true
}

func (s *Server) writeBuildError(c *gin.Context, err error) {
	var incomplete *model.IncompleteDataError
	var numeric *model.NumericFormatError

	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Field: incomplete.Field})
	case errors.As(err, &numeric):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Field: numeric.Field})
	case errors.Is(err, model.ErrUnsupportedKind), errors.Is(err, model.ErrUnsupportedExtension):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("build failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func buildFailureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrIncompleteData):
		return "incomplete"
	case errors.Is(err, model.ErrNumericFormat):
		return "numeric"
	default:
		return "other"
	}
}
