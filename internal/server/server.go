package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/xentral/internal/auth/custom_jwt"
	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/constants"
	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/executor"
	"github.com/loykin/xentral/internal/node"
	"github.com/loykin/xentral/internal/store"
	"github.com/loykin/xentral/internal/value"
)

type Config struct {
	// Addr defaults to all interfaces with JWT and to loopback without it.
	Addr string
	// JWT enables bearer token checks on /v1 routes when non-nil. Without it requests
	// may not carry their own credentials.
	JWT *custom_jwt.VerifyConfig
	// Credentials are used when a request carries none.
	Credentials map[string]any
	Executor    *executor.Executor
	Recorder    store.Recorder
	Logger      *common.Logger
}

// Server exposes the node over HTTP for hosts that are not linked in-process.
type Server struct {
	cfg    Config
	engine *gin.Engine
	logger *common.Logger
}

// RunRequest is the body of /v1/execute and /v1/resolve.
type RunRequest struct {
	Resource       string                   `json:"resource" binding:"required"`
	Operation      string                   `json:"operation" binding:"required"`
	Params         map[string]value.Value   `json:"params"`
	Items          []map[string]value.Value `json:"items"`
	ContinueOnFail bool                     `json:"continue_on_fail"`
	Credentials    map[string]any           `json:"credentials"`
}

type RunResponse struct {
	RunID string      `json:"run_id"`
	Items []node.Item `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Item  *int   `json:"item,omitempty"`
}

func New(cfg Config) *Server {
	l := cfg.Logger
	if l == nil {
		l = common.GetLogger()
	}
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultLocalServerAddr
		if cfg.JWT != nil {
			cfg.Addr = constants.DefaultServerAddr
		}
	}
	if cfg.Executor == nil {
		cfg.Executor = executor.New(executor.Options{Logger: l})
	}
	s := &Server{cfg: cfg, logger: l.WithComponent("server")}
	s.engine = s.routes()
	return s
}

// Addr is the address Run listens on.
func (s *Server) Addr() string { return s.cfg.Addr }

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	if s.cfg.JWT != nil {
		v1.Use(custom_jwt.GinMiddleware(*s.cfg.JWT))
	}
	v1.GET("/describe", s.describe)
	v1.POST("/resolve", s.resolve)
	v1.POST("/execute", s.execute)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) describe(c *gin.Context) {
	c.JSON(http.StatusOK, node.Describe())
}

func (s *Server) host(req RunRequest) *node.StaticHost {
	params := make(map[string]value.Value, len(req.Params)+2)
	for k, v := range req.Params {
		params[k] = v
	}
	params[node.ParamResource] = value.String(req.Resource)
	params[node.ParamOperation] = value.String(req.Operation)
	creds := req.Credentials
	if creds == nil {
		creds = s.cfg.Credentials
	}
	return &node.StaticHost{Creds: creds, Params: params, Items: req.Items}
}

func (s *Server) resolve(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "bad_request"})
		return
	}
	specs, err := node.Resolve(s.host(req))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": specs})
}

func (s *Server) execute(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "bad_request"})
		return
	}
	if req.Credentials != nil && s.cfg.JWT == nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "request credentials require a JWT protected server",
			Kind:  "credentials_not_allowed",
		})
		return
	}
	runID := store.NewRunID()
	n := node.New(node.Options{
		ContinueOnFail: req.ContinueOnFail,
		Recorder:       s.cfg.Recorder,
		Executor:       s.cfg.Executor,
		Logger:         s.logger,
		RunID:          runID,
	})
	items, err := n.Execute(c.Request.Context(), s.host(req))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RunResponse{RunID: runID, Items: items})
}

func (s *Server) fail(c *gin.Context, err error) {
	status, kind := Classify(err)
	resp := ErrorResponse{Error: err.Error(), Kind: kind}
	var ie *node.ItemError
	if errors.As(err, &ie) {
		idx := ie.Index
		resp.Item = &idx
		resp.Error = ie.Err.Error()
	}
	c.JSON(status, resp)
}

// Classify maps node errors to an HTTP status and a stable kind string.
func Classify(err error) (int, string) {
	var (
		ure *dispatch.UnknownResourceError
		uoe *dispatch.UnknownOperationError
		mpe *dispatch.MalformedParameterError
		ice *executor.InvalidCredentialsError
		rae *executor.RemoteApplicationError
		te  *executor.TransportError
	)
	switch {
	case errors.As(err, &ure):
		return http.StatusBadRequest, "unknown_resource"
	case errors.As(err, &uoe):
		return http.StatusBadRequest, "unknown_operation"
	case errors.As(err, &mpe):
		return http.StatusBadRequest, "malformed_parameter"
	case errors.Is(err, dispatch.ErrParamNotFound):
		return http.StatusBadRequest, "missing_parameter"
	case errors.Is(err, credentials.ErrNoCredentials):
		return http.StatusBadRequest, "no_credentials"
	case errors.As(err, &ice):
		return http.StatusBadGateway, "invalid_credentials"
	case errors.As(err, &rae):
		return http.StatusBadGateway, "remote_application_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "canceled"
	case errors.As(err, &te):
		return http.StatusBadGateway, "transport_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr, "jwt", s.cfg.JWT != nil)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
