// Package httpapi exposes the wake operation over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/fgeck/wolgate/internal/services/waker"
	"github.com/fgeck/wolgate/internal/services/wol"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the size of a wake request body.
const maxBodyBytes = 64 << 10

type httpErr struct {
	code int
	err  error
}

func (h *httpErr) Error() string {
	return h.err.Error()
}

func httpError(code int, err error) error {
	return &httpErr{code, err}
}

// Server serves the HTTP control surface.
type Server struct {
	wakerSvc waker.Service
	cfg      models.Config
	logger   zerolog.Logger
}

// New creates a new HTTP server for the given waker.
func New(logger zerolog.Logger, cfg models.Config, wakerSvc waker.Service) *Server {
	return &Server{
		wakerSvc: wakerSvc,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.handleError(s.index))
	mux.Handle("POST /wakeup", s.handleError(s.wakeup))
	mux.Handle("GET /healthz", s.handleError(s.healthz))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.logRequests(cors(s.cfg.Server.CORSOrigins, mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		errC <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("listen", s.cfg.Server.Listen).Msg("HTTP server listening")

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(timeout); err != nil {
			return fmt.Errorf("shutting down HTTP server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleError(h func(http.ResponseWriter, *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) {
			return // client canceled the request
		}
		code := http.StatusInternalServerError
		unwrapped := err
		var he *httpErr
		if errors.As(err, &he) {
			code = he.code
			unwrapped = he.err
		}
		s.logger.Warn().
			Err(unwrapped).
			Str("path", r.URL.Path).
			Int("status", code).
			Msg("request failed")
		writeJSON(w, code, wakeResponse{
			Success: false,
			Message: unwrapped.Error(),
		})
	})
}

// wakeRequest is the JSON body accepted by POST /wakeup. All fields are
// optional.
type wakeRequest struct {
	MACAddress       string `json:"macAddress"`
	BroadcastAddress string `json:"broadcastAddress"`
	Port             int    `json:"port"`
	InterfaceAddress string `json:"interfaceAddress"`
	UseAllInterfaces bool   `json:"useAllInterfaces"`
}

type attempt struct {
	Success   bool   `json:"success"`
	Interface string `json:"interface,omitempty"`
	Address   string `json:"address,omitempty"`
	Error     string `json:"error,omitempty"`
}

type wakeResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	MACAddress  string    `json:"macAddress,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Attempts    []attempt `json:"attempts,omitempty"`
}

func (s *Server) wakeup(w http.ResponseWriter, r *http.Request) error {
	var req wakeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return httpError(http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	if req.Port < 0 || req.Port > 65535 {
		return httpError(http.StatusBadRequest, fmt.Errorf("invalid port %d", req.Port))
	}

	result, err := s.wakerSvc.Wake(r.Context(), models.WakeRequest{
		MACAddress:    req.MACAddress,
		Address:       req.BroadcastAddress,
		Port:          req.Port,
		Interface:     req.InterfaceAddress,
		AllInterfaces: req.UseAllInterfaces,
	})
	if err != nil {
		if errors.Is(err, wol.ErrInvalidAddress) || errors.Is(err, wol.ErrMissingAddress) {
			return httpError(http.StatusBadRequest, err)
		}
		return err
	}

	resp := wakeResponse{
		Success:     result.Success(),
		MACAddress:  result.MACAddress,
		Destination: fmt.Sprintf("%s:%d", result.Options.Address, result.Options.Port),
		Attempts:    make([]attempt, 0, len(result.Report.Results)),
	}
	for _, res := range result.Report.Results {
		a := attempt{
			Success:   res.Success,
			Interface: res.InterfaceName,
			Address:   res.InterfaceAddress,
		}
		if res.Error != nil {
			a.Error = res.Error.Error()
		}
		resp.Attempts = append(resp.Attempts, a)
	}

	code := http.StatusOK
	switch {
	case resp.Success:
		resp.Message = fmt.Sprintf("Magic packet sent to %s", result.MACAddress)
	case len(resp.Attempts) == 0:
		code = http.StatusInternalServerError
		resp.Message = "No usable network interface found"
	default:
		code = http.StatusInternalServerError
		resp.Message = "Failed to send magic packet"
	}

	writeJSON(w, code, resp)
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) error {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, struct {
		DefaultMAC       string
		BroadcastAddress string
		Port             int
	}{
		DefaultMAC:       s.cfg.WOL.MACAddress,
		BroadcastAddress: s.cfg.WOL.BroadcastAddress,
		Port:             s.cfg.WOL.Port,
	}); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := io.Copy(w, &buf)
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
