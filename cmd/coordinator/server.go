package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/dreamware/rendezvous/internal/commandlog"
	"github.com/dreamware/rendezvous/internal/coordinator"
	"github.com/dreamware/rendezvous/internal/presence"
	"github.com/dreamware/rendezvous/internal/rendezvous"
)

const requestIDHeader = "X-Request-Id"

// Error messages returned to callers.
const (
	msgInvalidJSON  = "invalid json"
	msgNotFound     = "not found"
	msgBodyTooLarge = "body too large"
	msgInternal     = "internal error"
)

// server translates HTTP requests into coordinator operations.
// It holds no state of its own; everything lives in svc.
type server struct {
	svc          coordinator.Service
	log          *slog.Logger
	maxBodyBytes int64
}

func newServer(svc coordinator.Service, log *slog.Logger, maxBodyBytes int64) *server {
	return &server{svc: svc, log: log, maxBodyBytes: maxBodyBytes}
}

// routes builds the full handler chain: request id, access log, CORS, router.
// Unknown paths and wrong methods both answer 404.
func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/presence", s.reportPresence).Methods(http.MethodPost)
	r.HandleFunc("/presence", s.listPresence).Methods(http.MethodGet)
	r.HandleFunc("/command", s.handleCommand).Methods(http.MethodPost)
	r.HandleFunc("/commands", s.handleCommands).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleNotFound)

	return s.withRequestID(s.withAccessLog(withCORS(r)))
}

func (s *server) listPresence(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rendezvous.OnlineResponse{
		Status: rendezvous.StatusOK,
		Online: toWirePresence(s.svc.SnapshotPresence()),
	})
}

func (s *server) reportPresence(w http.ResponseWriter, r *http.Request) {
	var body rendezvous.PresenceReport
	if !s.decodeBody(w, r, &body) {
		return
	}

	online := s.svc.ReportPresence(coordinator.PresenceReport{
		UserID:     body.UserID.Ptr(),
		Username:   body.Username.Ptr(),
		ContextID:  body.Context(),
		LocationID: body.Location(),
		Timestamp:  body.At(),
	})

	writeJSON(w, http.StatusOK, rendezvous.OnlineResponse{
		Status: rendezvous.StatusOK,
		Online: toWirePresence(online),
	})
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if !s.svc.CommandsEnabled() {
		s.handleNotFound(w, r)
		return
	}

	var body rendezvous.CommandRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	err := s.svc.AppendCommand(coordinator.CommandRequest{
		UserID:    body.UserID.Ptr(),
		Username:  body.Username.Ptr(),
		Command:   body.Command.Ptr(),
		Timestamp: body.At(),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rendezvous.StatusResponse{Status: rendezvous.StatusOK})
}

func (s *server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if !s.svc.CommandsEnabled() {
		s.handleNotFound(w, r)
		return
	}

	cmds, err := s.svc.ListCommandsSince(parseSince(r.URL.Query().Get("since")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireCommands(cmds))
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rendezvous.StatusResponse{Status: rendezvous.StatusOK})
}

func (s *server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// decodeBody reads the whole body and decodes it into dst. An empty body is an
// empty object. On failure it writes the error response and returns false.
func (s *server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		s.log.Warn("read request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if bytes.Equal(raw, []byte("null")) {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Debug("decode request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

func (s *server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *coordinator.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, coordinator.ErrCommandsDisabled):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// parseSince reads the ?since watermark from its leading integer, so "150.5"
// and "150abc" both mean 150. Values with no leading digits mean 0.
func parseSince(raw string) int64 {
	raw = strings.TrimLeft(raw, " \t\n\r")
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// On overflow ParseInt returns the nearest bound.
	since, _ := strconv.ParseInt(raw[:end], 10, 64)
	return since
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, rendezvous.StatusResponse{Status: rendezvous.StatusError, Message: message})
}

// writeJSON encodes v up front so Content-Length is exact.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(fmt.Sprintf(`{"status":%q,"message":%q}`, rendezvous.StatusError, msgInternal))
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func toWirePresence(entries []presence.Entry) []rendezvous.PresenceEntry {
	return lo.Map(entries, func(e presence.Entry, _ int) rendezvous.PresenceEntry {
		return rendezvous.PresenceEntry{
			UserID:     e.UserID,
			Username:   e.Username,
			ContextID:  rendezvous.Opaque(e.ContextID),
			LocationID: rendezvous.Opaque(e.LocationID),
			Timestamp:  e.Timestamp,
		}
	})
}

func toWireCommands(entries []commandlog.Entry) []rendezvous.CommandEntry {
	return lo.Map(entries, func(e commandlog.Entry, _ int) rendezvous.CommandEntry {
		return rendezvous.CommandEntry{
			UserID:    e.UserID,
			Username:  e.Username,
			Command:   e.Command,
			Timestamp: e.Timestamp,
		}
	})
}

// withCORS opens every response to any origin and answers preflights.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestID propagates the caller's X-Request-Id or assigns a new one.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get(requestIDHeader))
	})
}
