package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"meetingscribe/internal/api"
	"meetingscribe/internal/catalog"
	"meetingscribe/internal/config"
	"meetingscribe/internal/deps"
	"meetingscribe/internal/logging"
	"meetingscribe/internal/services"
	"meetingscribe/internal/storage"
)

type apiServer struct {
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		logger: logger.With(slog.String("component", "api-server")),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/dates", srv.handleDates)
	mux.HandleFunc("/api/meetings", srv.handleMeetings)
	mux.HandleFunc("/api/transcribe", srv.handleTranscribe)
	mux.HandleFunc("/api/transcribe/", srv.handleTranscribeStatus)
	mux.HandleFunc("/api/transcribe/stream", srv.handleStream)
	mux.HandleFunc("/api/config", srv.handleConfig)
	mux.HandleFunc("/api/defaults", srv.handleDefaults)
	mux.HandleFunc("/api/transcripts", srv.handleTranscripts)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           authMiddleware(func() string { return d.Config().Daemon.APIToken }, mux.ServeHTTP),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // the websocket stream outlives any fixed write budget
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context, cfg config.Daemon) error {
	bind := strings.TrimSpace(cfg.APIBind)
	if bind == "" {
		return errors.New("daemon.api_bind is not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listen address, for tests and logs.
func (s *apiServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	client, err := storage.New(s.daemon.Config().Storage)
	if err != nil {
		s.writeJSON(w, http.StatusOK, api.HealthResponse{Reachable: false, Reason: err.Error()})
		return
	}
	health := client.Check(r.Context())
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Reachable: health.Reachable, Reason: health.Reason})
}

func (s *apiServer) handleDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	dates, err := cat.ListDates(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	s.writeJSON(w, http.StatusOK, api.DatesResponse{Dates: dates})
}

func (s *apiServer) handleMeetings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		s.writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	cat, err := s.catalog()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	meetings, err := cat.ListMeetings(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MeetingsResponse{Date: date, Meetings: meetings})
}

func (s *apiServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.StartTranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	meetingID := strings.TrimSpace(req.MeetingID)
	if meetingID == "" {
		s.writeError(w, http.StatusBadRequest, "meetingId is required")
		return
	}

	jobID, err := s.daemon.manager.Start(meetingID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.StartTranscribeResponse{JobID: jobID})
}

func (s *apiServer) handleTranscribeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/transcribe/")
	if jobID == "" || strings.Contains(jobID, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	snap, err := s.daemon.manager.Status(jobID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *apiServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := s.daemon.Config()
		s.writeJSON(w, http.StatusOK, &cfg)
	case http.MethodPut:
		var cfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid config payload")
			return
		}
		if err := s.daemon.UpdateConfig(cfg); err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		updated := s.daemon.Config()
		s.writeJSON(w, http.StatusOK, &updated)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	payload := api.DefaultsResponse{
		OutputDir: config.DefaultOutputDir(),
		ModelRoot: config.DefaultModelRoot(),
	}
	if path, ok := config.DefaultWhisperBinary(); ok {
		payload.WhisperBinary = path
	}
	if path, ok := config.DefaultFFmpegBinary(); ok {
		payload.FFmpegBinary = path
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleTranscripts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := s.daemon.lib.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranscriptsResponse{Transcripts: entries})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cfg := s.daemon.Config()
	resolved := config.ResolveDefaults(cfg)

	payload := api.StatusResponse{
		Version: Version,
		Deps:    deps.CheckSystemDeps(&resolved),
	}
	if client, err := storage.New(cfg.Storage); err != nil {
		payload.Storage = api.HealthResponse{Reachable: false, Reason: err.Error()}
	} else {
		health := client.Check(r.Context())
		payload.Storage = api.HealthResponse{Reachable: health.Reachable, Reason: health.Reason}
	}
	if snap, ok := s.daemon.manager.Active(); ok {
		payload.Job = &snap
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) catalog() (*catalog.Catalog, error) {
	client, err := storage.New(s.daemon.Config().Storage)
	if err != nil {
		return nil, err
	}
	return catalog.New(client, s.logger), nil
}

// writeServiceError maps the sentinel error taxonomy onto HTTP statuses.
func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrConfiguration):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrCatalog), errors.Is(err, services.ErrConnectivity):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
