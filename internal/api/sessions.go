package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/selection"
	"github.com/bher20/quotemanager/internal/session"
	"github.com/bher20/quotemanager/internal/storage"
)

// SubmissionDTO is a stored submission with its summary inlined as JSON.
type SubmissionDTO struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"session_id"`
	CatalogKey   string          `json:"catalog_key"`
	Term         string          `json:"term"`
	Total        string          `json:"total"`
	ContactName  string          `json:"contact_name,omitempty"`
	ContactEmail string          `json:"contact_email,omitempty"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Summary      json.RawMessage `json:"summary"`
}

func toSubmissionDTO(sub storage.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:           sub.ID,
		SessionID:    sub.SessionID,
		CatalogKey:   sub.CatalogKey,
		Term:         sub.Term,
		Total:        sub.Total,
		ContactName:  sub.ContactName,
		ContactEmail: sub.ContactEmail,
		SubmittedAt:  sub.SubmittedAt,
		Summary:      json.RawMessage(sub.Payload),
	}
}

// CreateSessionRequest starts an estimation session.
type CreateSessionRequest struct {
	Catalog string `json:"catalog"`
}

// TermRequest changes the billing term.
type TermRequest struct {
	Term string `json:"term"`
}

// createSession starts a new session
// @Summary Create a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Catalog"
// @Success 201 {object} session.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sessions [post]
func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := s.sessions.Create(req.Catalog)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sess.View())
}

// getSession returns the session with its live breakdown
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// deleteSession drops a session
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutate applies fn to the session named in the path and answers with the
// updated view.
func (s *server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (pricing.Breakdown, error)) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	b, err := fn(sess)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.warnUnresolved(sess.Catalog(), b)
	writeJSON(w, http.StatusOK, sess.View())
}

// toggleGeographic toggles one geographic unit
// @Summary Toggle a geographic unit
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param code path string true "Geographic code"
// @Success 200 {object} session.View
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/geographic/{code} [post]
func (s *server) toggleGeographic(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	s.mutate(w, r, func(sess *session.Session) (pricing.Breakdown, error) {
		return sess.ToggleGeographic(code)
	})
}

// toggleActivity toggles one activity
// @Summary Toggle an activity
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param activityID path string true "Activity ID"
// @Success 200 {object} session.View
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/activities/{activityID} [post]
func (s *server) toggleActivity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("activityID")
	s.mutate(w, r, func(sess *session.Session) (pricing.Breakdown, error) {
		return sess.ToggleActivity(id)
	})
}

// toggleBundle selects or clears a whole bundle
// @Summary Toggle a bundle
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param bundleID path string true "Bundle ID"
// @Success 200 {object} session.View
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/bundles/{bundleID} [post]
func (s *server) toggleBundle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("bundleID")
	s.mutate(w, r, func(sess *session.Session) (pricing.Breakdown, error) {
		return sess.ToggleBundle(id)
	})
}

// setTerm changes the billing term
// @Summary Set the billing term
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body TermRequest true "monthly or annual"
// @Success 200 {object} session.View
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/term [put]
func (s *server) setTerm(w http.ResponseWriter, r *http.Request) {
	var req TermRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	term, err := selection.ParseBillingTerm(req.Term)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mutate(w, r, func(sess *session.Session) (pricing.Breakdown, error) {
		return sess.SetBillingTerm(term)
	})
}

// review freezes the selection into a summary
// @Summary Review the quote
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.View
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/review [post]
func (s *server) review(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if _, err := sess.Review(); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// modify returns a reviewed session to editing
// @Summary Modify the selection
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.View
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/modify [post]
func (s *server) modify(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := sess.Modify(); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// submit confirms a reviewed quote
// @Summary Submit the quote
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body session.Contact false "Contact"
// @Success 201 {object} SubmissionDTO
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/submit [post]
func (s *server) submit(w http.ResponseWriter, r *http.Request) {
	var contact session.Contact
	if r.ContentLength != 0 {
		if err := decodeBody(r, &contact); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	sub, err := s.sessions.Submit(r.Context(), r.PathValue("id"), contact)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/submissions/"+sub.ID)
	writeJSON(w, http.StatusCreated, toSubmissionDTO(*sub))
}

// listSubmissions lists recent submissions
// @Summary List submissions
// @Tags submissions
// @Produce json
// @Param limit query int false "Maximum number of rows" default(50)
// @Success 200 {array} SubmissionDTO
// @Router /api/v1/submissions [get]
func (s *server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "submissions are not stored")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = n
	}
	subs, err := s.store.ListSubmissions(r.Context(), limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]SubmissionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionDTO(sub))
	}
	writeJSON(w, http.StatusOK, out)
}

// getSubmission returns one stored submission
// @Summary Get a submission
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} SubmissionDTO
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/submissions/{id} [get]
func (s *server) getSubmission(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "submissions are not stored")
		return
	}
	sub, err := s.store.GetSubmission(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionDTO(*sub))
}
