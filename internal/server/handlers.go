package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/roamapp/roam/internal/chat"
	"github.com/roamapp/roam/internal/itinerary"
	"github.com/roamapp/roam/internal/places"
)

// SessionHeader carries the chat session ID back to the client when the
// server issues a new one.
const SessionHeader = "X-Roam-Session"

type planRequest struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Interests   string `json:"interests"`
}

type planResponse struct {
	Itinerary itinerary.Itinerary `json:"itinerary"`
	TotalCost float64             `json:"total_cost"`
	Currency  string              `json:"currency"`
	Coords    coords              `json:"coords"`
}

type coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// handlePlan runs one structured generation and returns the validated
// itinerary with cost totals.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.gen == nil {
		writeError(w, http.StatusServiceUnavailable, "AI features are disabled: no API key configured")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	it, err := s.gen.Generate(r.Context(), itinerary.Request{
		Destination: req.Destination,
		Days:        req.Days,
		Interests:   req.Interests,
	})
	if err != nil {
		var exhausted *itinerary.ExhaustionError
		if errors.As(err, &exhausted) {
			slog.Error("itinerary generation exhausted",
				"destination", req.Destination,
				"attempts", exhausted.Attempts,
				"error", exhausted.LastErr)
			writeError(w, http.StatusBadGateway, "%v", err)
			return
		}
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	lat, lon := places.Coords(req.Destination)
	writeJSON(w, http.StatusOK, planResponse{
		Itinerary: it,
		TotalCost: it.TotalCost(),
		Currency:  s.currency,
		Coords:    coords{Lat: lat, Lon: lon},
	})
}

// handleChat runs one streaming chat turn as server-sent events. Each
// chunk is one SSE data line; the stream ends when the turn completes.
// Failures arrive as a final chunk, mirroring the session log.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "AI features are disabled: no API key configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	var sess *chat.Session
	id := r.URL.Query().Get("session")
	if id == "" {
		id, sess = s.sessions.Create()
	} else {
		var err error
		sess, err = s.sessions.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown session %q", id)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set(SessionHeader, id)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range sess.Send(r.Context(), req.Message) {
		data, err := json.Marshal(map[string]string{"text": chunk})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// handleHistory returns the full conversation log of a session.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "AI features are disabled: no API key configured")
		return
	}

	id := ps.ByName("session")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown session %q", id)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]chat.Message{"messages": sess.Messages()})
}

// handlePlaces returns the curated destination catalog.
func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"ai_enabled": s.gen != nil,
	})
}
