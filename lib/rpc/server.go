package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-i2p/go-gtime/lib/config"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

const (
	tokenCleanupInterval = 5 * gtime.Minute
	shutdownTimeout      = 5 * gtime.Second
	maxRequestBody       = 1 << 20
)

// Backend supplies the time sources a Server exposes.
type Backend struct {
	// Clock answers Now and Since. Required.
	Clock gtime.Clock
	// Source names the clock for the Clock method, e.g. "system" or "ntp".
	Source string
	// Status reports NTP state; nil for the system clock.
	Status ClockStatus
	// Layout is the default strftime layout for Now.
	Layout string
	// Gatherer is served on /metrics when non-nil.
	Gatherer prometheus.Gatherer
}

// Server serves JSON-RPC requests over HTTP or HTTPS.
type Server struct {
	config      config.RPCConfig
	authManager *AuthManager
	registry    *MethodRegistry
	httpServer  *http.Server
	listener    net.Listener
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewServer validates cfg and registers every RPC method.
func NewServer(cfg config.RPCConfig, backend Backend) (*Server, error) {
	if cfg.Password == "" {
		return nil, oops.Errorf("rpc: password cannot be empty")
	}
	if backend.Clock == nil {
		return nil, oops.Errorf("rpc: clock cannot be nil")
	}
	if backend.Layout == "" {
		backend.Layout = gtime.DefaultLayout
	}

	authManager, err := NewAuthManager(cfg.Password)
	if err != nil {
		return nil, oops.Wrapf(err, "rpc: failed to create auth manager")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:      cfg,
		authManager: authManager,
		registry:    registerRPCHandlers(cfg, backend, authManager),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.httpServer = createHTTPServer(s, backend.Gatherer)
	log.WithFields(logger.Fields{
		"at":      "NewServer",
		"methods": s.registry.ListMethods(),
		"source":  backend.Source,
	}).Debug("RPC server configured")
	return s, nil
}

func registerRPCHandlers(cfg config.RPCConfig, backend Backend, authManager *AuthManager) *MethodRegistry {
	registry := NewMethodRegistry()

	registry.Register("Echo", NewEchoHandler())
	registry.Register("Now", NewNowHandler(backend.Clock, backend.Layout))
	registry.Register("Since", NewSinceHandler(backend.Clock))
	registry.Register("LeapYear", NewLeapYearHandler())
	registry.Register("Clock", NewClockHandler(backend.Source, backend.Status))

	registry.Register("Authenticate", RPCHandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var req struct {
			API      int    `json:"API"`
			Password string `json:"Password"`
		}
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.API != 1 {
			return nil, NewRPCError(ErrCodeInvalidParams, "unsupported API version")
		}

		token, err := authManager.Authenticate(req.Password, cfg.TokenExpiration)
		if err != nil {
			return nil, NewRPCError(ErrCodeAuthFailed, err.Error())
		}
		return map[string]interface{}{
			"API":   req.API,
			"Token": token,
		}, nil
	}))

	// Logout revokes the token the request was authenticated with.
	registry.Register("Logout", RPCHandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var req struct {
			Token string `json:"Token"`
		}
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		authManager.RevokeToken(req.Token)
		return map[string]interface{}{"Result": "OK"}, nil
	}))

	return registry
}

func createHTTPServer(s *Server, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/jsonrpc", s.handleRPC)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/", s.handleRPC)

	return &http.Server{
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	if s.config.UseHTTPS && (s.config.CertFile == "" || s.config.KeyFile == "") {
		return oops.Errorf("rpc: missing certificate or key file")
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return oops.Wrapf(err, "rpc: listen on %s", s.config.Address)
	}
	s.listener = ln

	protocol := "HTTP"
	if s.config.UseHTTPS {
		protocol = "HTTPS"
	}
	log.WithFields(logger.Fields{
		"at":       "(Server).Start",
		"address":  ln.Addr().String(),
		"protocol": protocol,
	}).Info("Starting RPC server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var err error
		if s.config.UseHTTPS {
			err = s.httpServer.ServeTLS(ln, s.config.CertFile, s.config.KeyFile)
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithFields(logger.Fields{
				"at": "(Server).Start",
			}).WithError(err).Error("RPC server error")
		}
	}()
	s.startTokenCleanup()
	return nil
}

// Addr returns the listening address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

func (s *Server) startTokenCleanup() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(tokenCleanupInterval.Std())
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if removed := s.authManager.CleanupExpiredTokens(); removed > 0 {
					log.WithFields(logger.Fields{
						"at":        "(Server).startTokenCleanup",
						"removed":   removed,
						"remaining": s.authManager.TokenCount(),
					}).Debug("expired tokens swept")
				}
			}
		}
	}()
}

// Stop shuts the server down, waiting up to five seconds for active requests.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout.Std())
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.WithFields(logger.Fields{
				"at": "(Server).Stop",
			}).WithError(err).Error("Error during server shutdown")
		}
		s.wg.Wait()
		log.WithField("at", "(Server).Stop").Info("RPC server stopped")
	})
}

// Close stops the server.
func (s *Server) Close() error {
	s.Stop()
	return nil
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	s.setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if rpcErr := validateHTTPRequest(r); rpcErr != nil {
		s.writeErrorResponse(w, nil, rpcErr)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	r.Body.Close()
	if err != nil {
		s.writeErrorResponse(w, nil, NewRPCError(ErrCodeInternalError, "Failed to read request body"))
		return
	}

	req, err := ParseRequest(body)
	if err != nil {
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			rpcErr = NewRPCError(ErrCodeParseError, err.Error())
		}
		s.writeErrorResponse(w, nil, rpcErr)
		return
	}

	if rpcErr := s.validateAuthentication(req); rpcErr != nil {
		s.writeErrorResponse(w, req.ID, rpcErr)
		return
	}

	resp := s.registry.HandleParsedRequest(r.Context(), req)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeResponse(w, resp)
}

// setCORSHeaders restricts cross-origin access to the server's own origin.
func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	scheme := "http"
	if s.config.UseHTTPS {
		scheme = "https"
	}
	w.Header().Set("Access-Control-Allow-Origin", fmt.Sprintf("%s://%s", scheme, s.Addr()))
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func validateHTTPRequest(r *http.Request) *RPCError {
	if r.Method != http.MethodPost {
		return NewRPCError(ErrCodeInvalidRequest, "Method must be POST")
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && contentType != "application/json; charset=utf-8" {
		return NewRPCError(ErrCodeInvalidRequest, "Content-Type must be application/json")
	}
	return nil
}

// validateAuthentication requires a valid Token for every method except Authenticate.
func (s *Server) validateAuthentication(req *Request) *RPCError {
	if req.Method == "Authenticate" {
		return nil
	}

	var params struct {
		Token string `json:"Token"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Token == "" {
		return NewRPCError(ErrCodeInvalidParams, "Missing or invalid Token parameter")
	}
	if !s.authManager.ValidateToken(params.Token) {
		return NewRPCError(ErrCodeAuthRequired, "Invalid or expired authentication token")
	}
	return nil
}

func (s *Server) writeResponse(w http.ResponseWriter, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.WithField("at", "(Server).writeResponse").WithError(err).Error("Failed to marshal response")
		s.writeErrorResponse(w, resp.ID, NewRPCError(ErrCodeInternalError, "Failed to serialize response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.WithField("at", "(Server).writeResponse").WithError(err).Error("Failed to write response")
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, id interface{}, rpcErr *RPCError) {
	data, err := NewErrorResponse(id, rpcErr).Marshal()
	if err != nil {
		log.WithField("at", "(Server).writeErrorResponse").WithError(err).Error("Failed to marshal error response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
