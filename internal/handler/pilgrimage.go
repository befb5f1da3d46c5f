package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

const (
	msgNotFound = "Peregrinación no encontrada"
	msgConflict = "Ya existe una peregrinación en la misma fecha y hora"
	msgCreated  = "Peregrinación creada exitosamente"
	msgUpdated  = "Peregrinación actualizada exitosamente"
	msgDeleted  = "Peregrinación eliminada exitosamente"
	msgTooLarge = "El cuerpo de la solicitud es demasiado grande"
)

// ListPilgrimages handles GET /api/pilgrimages.
// Supports ?date=, ?church=, ?status= and ?month= filters, all optional.
func (s *Server) ListPilgrimages(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.pilgrimages.List(r.Context(), params.filter())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// GetPilgrimage handles GET /api/pilgrimages/{id}.
func (s *Server) GetPilgrimage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.pilgrimages.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, "")
}

// CreatePilgrimage handles POST /api/pilgrimages.
func (s *Server) CreatePilgrimage(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readFields(w, r)
	if !ok {
		return
	}
	created, err := s.pilgrimages.Create(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created, msgCreated)
}

// UpdatePilgrimage handles PUT /api/pilgrimages/{id}. The body may carry any
// subset of fields; the rest keep their stored values.
func (s *Server) UpdatePilgrimage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, ok := s.readFields(w, r)
	if !ok {
		return
	}
	updated, err := s.pilgrimages.Update(r.Context(), id, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, msgUpdated)
}

// DeletePilgrimage handles DELETE /api/pilgrimages/{id}.
func (s *Server) DeletePilgrimage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.pilgrimages.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, msgDeleted)
}

// GetCalendarByMonth handles GET /api/pilgrimages/calendar/month?month=YYYY-MM.
func (s *Server) GetCalendarByMonth(w http.ResponseWriter, r *http.Request) {
	month, err := requiredQuery(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.pilgrimages.CalendarByMonth(r.Context(), month)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// GetCalendarByDay handles GET /api/pilgrimages/calendar/day?date=YYYY-MM-DD.
func (s *Server) GetCalendarByDay(w http.ResponseWriter, r *http.Request) {
	date, err := requiredQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.pilgrimages.CalendarByDay(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// GetStatsByChurch handles GET /api/pilgrimages/stats/church.
func (s *Server) GetStatsByChurch(w http.ResponseWriter, r *http.Request) {
	out, err := s.pilgrimages.StatsByChurch(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// GetStatsByOrganization handles GET /api/pilgrimages/stats/organization.
func (s *Server) GetStatsByOrganization(w http.ResponseWriter, r *http.Request) {
	out, err := s.pilgrimages.StatsByOrganization(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// GetUpcoming handles GET /api/pilgrimages/upcoming/list.
func (s *Server) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	out, err := s.pilgrimages.Upcoming(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, "")
}

// readFields decodes the body and applies the shape rules. On failure it has
// already written the response.
func (s *Server) readFields(w http.ResponseWriter, r *http.Request) (domain.Fields, bool) {
	f, err := decodeFields(r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return f, false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return f, false
	}
	if err := s.checkShape(f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return f, false
	}
	return f, true
}

// fail maps a service error to its status code and writes the error
// envelope. Unrecognised errors are logged with their full chain and answered
// with 500 and the root cause text.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, msgConflict)
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, rootMessage(err))
	}
}
