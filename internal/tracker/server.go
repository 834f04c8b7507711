package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Timi16/dehug-go/internal/logging"
)

// trackRequest mirrors the wire format of the download endpoint.
type trackRequest struct {
	ItemName string `json:"item_name"`
	Source   string `json:"source"`
	UserID   string `json:"user_id,omitempty"`
}

// Server exposes the tracker over HTTP.
type Server struct {
	addr    string
	service *Service
	log     logging.Logger
	httpSrv *http.Server
}

func NewServer(addr string, service *Service, log logging.Logger) *Server {
	s := &Server{addr: addr, service: service, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /track/download", s.handleTrackDownload)
	mux.HandleFunc("GET /track/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      withCORS(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "tracker listening", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleTrackDownload(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ItemName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item_name is required"})
		return
	}

	if err := s.service.TrackDownload(r.Context(), req.ItemName, req.Source, req.UserID); err != nil {
		s.log.Error(r.Context(), "track download failed", "item", req.ItemName, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to track download"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Download tracked"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "stats query failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Healthy(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// withCORS allows browser clients from any origin, matching the open
// read surface of the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
