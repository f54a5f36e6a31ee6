package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hopper/internal/api"
	"hopper/internal/queue"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	state, err := s.store.Submit(req.ID, req.PrimaryPath, req.MetadataPath, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("job submitted",
		slog.String("job_id", req.ID),
		slog.String("state", string(state)))
	writeJSON(w, http.StatusCreated, api.SubmitResponse{ID: req.ID, State: string(state)})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req api.ClaimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, state, err := s.store.ClaimNext(req.PreferPriority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("job claimed",
		slog.String("job_id", id),
		slog.String("state", string(state)))
	writeJSON(w, http.StatusOK, api.ClaimResponse{ID: id, State: string(state)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.store.Status(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromJobStatus(id, status))
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req api.ReleaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	state, ok := queue.ParseState(req.State)
	if !ok {
		writeUnknownState(w, req.State)
		return
	}
	if err := s.store.Release(id, state); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("job released",
		slog.String("job_id", id),
		slog.String("state", string(state)))
	writeJSON(w, http.StatusOK, api.JobStatus{ID: id, State: string(state), Locked: false})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.store.Finalize, "job finalized")
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.store.Move, "job moved")
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, transition func(string, queue.State, queue.State) error, event string) {
	id := chi.URLParam(r, "id")
	var req api.TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	from, ok := queue.ParseState(req.From)
	if !ok {
		writeUnknownState(w, req.From)
		return
	}
	to, ok := queue.ParseState(req.To)
	if !ok {
		writeUnknownState(w, req.To)
		return
	}
	if err := transition(id, from, to); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(event,
		slog.String("job_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	writeJSON(w, http.StatusOK, api.JobStatus{ID: id, State: string(to), Locked: false})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.CollectStats()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromStats(stats))
}

func writeUnknownState(w http.ResponseWriter, value string) {
	writeJSON(w, http.StatusBadRequest, api.Error{
		Error:  "invalid_argument",
		Detail: fmt.Sprintf("unknown state %q", value),
	})
}

// decodeBody parses a JSON request body. A missing body is treated as an
// empty object so claim and release can be called without one.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSON(w, http.StatusBadRequest, api.Error{Error: "invalid_argument", Detail: "malformed JSON body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("api request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	writeJSON(w, status, api.FromError(err))
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, queue.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
