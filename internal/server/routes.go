package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaadAmawi/VocalFlow/internal/flow"
	"github.com/SaadAmawi/VocalFlow/internal/media"
	"github.com/SaadAmawi/VocalFlow/internal/session"
)

// maxClipBytes bounds an uploaded answer clip (90s of webm fits comfortably).
const maxClipBytes = 64 << 20

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/flow", s.handleGetFlow)
		r.Put("/flow", s.handlePutFlow)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/answers", s.handleSubmitAnswer)
		r.Delete("/sessions/{id}", s.handleCancelSession)
		r.Get("/sessions/{id}/events", s.handleSessionEvents)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "no flow has been saved")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handlePutFlow(w http.ResponseWriter, r *http.Request) {
	var f flow.Flow
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Clients may omit ids; assign them before the save so answers have
	// question ids to join against.
	f.EnsureIDs()

	if err := s.store.Save(r.Context(), &f); err != nil {
		var verr *flow.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &f)
}

type sessionResponse struct {
	SessionID     string          `json:"sessionId"`
	CandidateID   string          `json:"candidateId"`
	FlowTitle     string          `json:"flowTitle"`
	State         session.State   `json:"state"`
	QuestionIndex int             `json:"questionIndex"`
	Questions     []flow.Question `json:"questions,omitempty"`
	Warning       string          `json:"warning,omitempty"`
}

func snapshot(o *session.Orchestrator, includeQuestions bool) sessionResponse {
	resp := sessionResponse{
		SessionID:     o.InterviewID(),
		CandidateID:   o.CandidateID(),
		FlowTitle:     o.Flow().Title,
		State:         o.State(),
		QuestionIndex: o.QuestionIndex(),
		Warning:       o.Warning(),
	}
	if includeQuestions {
		resp.Questions = o.Flow().Questions
	}
	return resp
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "no flow has been saved")
		return
	}

	o, err := session.New(f, s.analyzer, s.submitter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.putSession(o.InterviewID(), o)

	writeJSON(w, http.StatusCreated, snapshot(o, true))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	o, ok := s.getSession(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, snapshot(o, false))
}

type answerResponse struct {
	sessionResponse
	Analysis any `json:"analysis"`
}

// handleSubmitAnswer accepts the finished answer clip for the session's
// current question, either as a multipart "clip" part or as a raw body.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	o, ok := s.getSession(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	clip, err := readClip(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if clip.Empty() {
		writeError(w, http.StatusBadRequest, "empty answer clip")
		return
	}

	result, err := o.SubmitAnswer(r.Context(), clip)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotAwaiting), errors.Is(err, session.ErrAnswerInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if o.State().Terminal() {
		s.dropSession(o.InterviewID())
	}

	writeJSON(w, http.StatusOK, answerResponse{
		sessionResponse: snapshot(o, false),
		Analysis:        result,
	})
}

func readClip(w http.ResponseWriter, r *http.Request) (media.Clip, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClipBytes)

	if err := r.ParseMultipartForm(maxClipBytes); err == nil {
		file, header, err := r.FormFile("clip")
		if err != nil {
			return media.Clip{}, errors.New(`multipart form missing "clip" part`)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return media.Clip{}, err
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = media.DefaultMIMEType
		}
		return media.Clip{Data: data, MIMEType: mimeType}, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return media.Clip{}, err
	}
	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = media.DefaultMIMEType
	}
	return media.Clip{Data: data, MIMEType: mimeType}, nil
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := s.getSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	o.Cancel()
	s.dropSession(id)
	w.WriteHeader(http.StatusNoContent)
}
