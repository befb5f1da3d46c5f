// Package handler implements the HTTP handlers for the pilgrimage API.
// All handlers are methods on Server. Methods are split into files by
// concern (health.go, pilgrimage.go) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

// PilgrimageServicer defines the business operations the pilgrimage handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching storage or the service layer.
type PilgrimageServicer interface {
	List(ctx context.Context, f domain.ListFilter) ([]domain.Pilgrimage, error)
	GetByID(ctx context.Context, id string) (domain.Pilgrimage, error)
	Create(ctx context.Context, f domain.Fields) (domain.Pilgrimage, error)
	Update(ctx context.Context, id string, f domain.Fields) (domain.Pilgrimage, error)
	Delete(ctx context.Context, id string) error
	CalendarByMonth(ctx context.Context, month string) ([]domain.MonthEvent, error)
	CalendarByDay(ctx context.Context, date string) ([]domain.DayEvent, error)
	StatsByChurch(ctx context.Context) (map[string]domain.StatusCounts, error)
	StatsByOrganization(ctx context.Context) (map[string]domain.StatusCounts, error)
	Upcoming(ctx context.Context) ([]domain.UpcomingItem, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	pilgrimages PilgrimageServicer
	log         *slog.Logger
	validate    *validator.Validate
}

// NewServer constructs the Server. A nil logger falls back to slog.Default().
func NewServer(pilgrimages PilgrimageServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		pilgrimages: pilgrimages,
		log:         log,
		validate:    newValidator(),
	}
}

// Handler returns the chi router serving every API route. Pilgrimage routes
// live under /api/pilgrimages; static routes such as /calendar/month take
// precedence over /{id}.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Método no permitido")
	})

	r.Get("/", s.GetRoot)
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/pilgrimages", func(r chi.Router) {
		r.Get("/", s.ListPilgrimages)
		r.Post("/", s.CreatePilgrimage)
		r.Get("/calendar/month", s.GetCalendarByMonth)
		r.Get("/calendar/day", s.GetCalendarByDay)
		r.Get("/stats/church", s.GetStatsByChurch)
		r.Get("/stats/organization", s.GetStatsByOrganization)
		r.Get("/upcoming/list", s.GetUpcoming)
		r.Get("/{id}", s.GetPilgrimage)
		r.Put("/{id}", s.UpdatePilgrimage)
		r.Delete("/{id}", s.DeletePilgrimage)
	})
	return r
}
