package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/types"
)

// maxBodyBytes caps request bodies; resumes are the largest field.
const maxBodyBytes = 1 << 20

func (s *Server) registerInterviewRoutes(mux *http.ServeMux) {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	handle("POST /interviews", s.handleCreateInterview)
	handle("GET /interviews", s.handleListInterviews)
	handle("GET /interviews/{id}", s.handleGetInterview)
	handle("DELETE /interviews/{id}", s.handleDeleteInterview)
	handle("POST /interviews/{id}/answers", s.handleSubmitAnswer)
	handle("POST /interviews/{id}/question", s.handleRetryQuestion)
	handle("POST /interviews/{id}/feedback", s.handleGenerateFeedback)
	handle("GET /interviews/{id}/feedback", s.handleGetFeedback)
}

// handleCreateInterview starts an interview and returns its first question.
// A failed first question still returns the persisted interview so the client
// can retry via POST /interviews/{id}/question.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.CreateInterviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.serviceError(w, err)
		return
	}

	iv, question, err := s.interviews.Create(r.Context(), userID, &req)
	if err != nil {
		if iv != nil {
			log.Printf("[interview] Opening question failed for %s: %v", iv.ID, err)
			s.jsonResponse(w, HTTPStatus(err), map[string]any{
				"error":     err.Error(),
				"interview": iv,
			})
			return
		}
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.CreateInterviewResponse{
		Interview: iv,
		Question:  question,
	})
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	interviews, err := s.interviews.List(r.Context(), userID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	iv, err := s.interviews.Get(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	if err := s.interviews.Delete(r.Context(), userID, id); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	var req types.SubmitAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.serviceError(w, err)
		return
	}

	resp, err := s.interviews.SubmitAnswer(r.Context(), userID, id, req.Answer)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRetryQuestion(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	question, err := s.interviews.RetryQuestion(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"question": question})
}

func (s *Server) handleGenerateFeedback(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	feedback, err := s.interviews.GenerateFeedback(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": feedback})
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requireUserAndID(w, r)
	if !ok {
		return
	}

	feedback, err := s.interviews.GetFeedback(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": feedback})
}

// requireUser reads the authenticated user id placed by AuthMiddleware.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) requireUserAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.serviceError(w, &ErrValidation{Field: "id", Message: "invalid interview id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// serviceError maps err to its status code. Internal errors are logged and
// replaced by a generic message.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[interview] Internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	if status == http.StatusBadGateway {
		log.Printf("[interview] Generation error: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		case errors.As(err, &maxErr):
			return &ErrValidation{Field: "body", Message: "request body is too large"}
		default:
			return &ErrValidation{Field: "body", Message: "invalid JSON"}
		}
	}
	return nil
}
