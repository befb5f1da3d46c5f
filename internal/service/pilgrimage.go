// Package service contains the business logic for the pilgrimage API.
// Services fetch the collection, run the domain rules and query functions on
// it, and decide which storage write (if any) to issue.
// No storage code lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
	"github.com/pkordes/pilgrimages/backend/internal/metrics"
	"github.com/pkordes/pilgrimages/backend/internal/repo"
)

// PilgrimageService implements the pilgrimage operations.
// It holds no state between calls: every read starts from a fresh scan.
type PilgrimageService struct {
	repo repo.PilgrimageRepo
	now  func() time.Time
}

// NewPilgrimageService constructs a PilgrimageService backed by the provided repo.
func NewPilgrimageService(r repo.PilgrimageRepo) *PilgrimageService {
	return &PilgrimageService{repo: r, now: time.Now}
}

// WithClock replaces the time source used for timestamps and the upcoming
// window. Intended for tests.
func (s *PilgrimageService) WithClock(now func() time.Time) *PilgrimageService {
	s.now = now
	return s
}

// List returns the pilgrimages matching f ordered by date, then time.
func (s *PilgrimageService) List(ctx context.Context, f domain.ListFilter) ([]domain.Pilgrimage, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.List: %w", err)
	}
	return domain.List(all, f), nil
}

// GetByID returns a single pilgrimage.
// Returns domain.ErrNotFound if it does not exist.
func (s *PilgrimageService) GetByID(ctx context.Context, id string) (domain.Pilgrimage, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.GetByID: %w", err)
	}
	return p, nil
}

// Create builds a pilgrimage from f, validates it, rejects it if the slot is
// already taken and stores it.
// Returns domain.ErrValidation for invalid input and domain.ErrConflict for an
// occupied slot.
//
// The slot check and the insert are separate storage calls, so two concurrent
// creates for the same slot can both succeed.
func (s *PilgrimageService) Create(ctx context.Context, f domain.Fields) (domain.Pilgrimage, error) {
	p := domain.NewPilgrimage(f, s.now().UTC())
	if err := p.Check(); err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Create: %w", err)
	}

	all, err := s.scan(ctx)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Create: %w", err)
	}
	if domain.SlotTaken(all, p.Date, p.Time) {
		metrics.SlotConflicts.Inc()
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Create: %s %s: %w", p.Date, p.Time, domain.ErrConflict)
	}

	id, err := s.repo.Insert(ctx, p.ToDocument())
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Create: %w", err)
	}
	p.ID = id
	return p, nil
}

// Update merges f into the stored pilgrimage, re-validates the result and
// overwrites the stored document.
// Returns domain.ErrNotFound if the pilgrimage does not exist and
// domain.ErrValidation if the merged record is invalid.
func (s *PilgrimageService) Update(ctx context.Context, id string, f domain.Fields) (domain.Pilgrimage, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Update: %w", err)
	}

	updated := existing.Apply(f, s.now().UTC())
	if err := updated.Check(); err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Update: %w", err)
	}

	if err := s.repo.Replace(ctx, id, updated.ToDocument()); err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("service.PilgrimageService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a pilgrimage.
// Returns domain.ErrNotFound if it does not exist.
func (s *PilgrimageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PilgrimageService.Delete: %w", err)
	}
	return nil
}

// CalendarByMonth returns the calendar events of month ("2006-01").
func (s *PilgrimageService) CalendarByMonth(ctx context.Context, month string) ([]domain.MonthEvent, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.CalendarByMonth: %w", err)
	}
	return domain.CalendarByMonth(all, month), nil
}

// CalendarByDay returns the events of date ("2006-01-02") ordered by time.
func (s *PilgrimageService) CalendarByDay(ctx context.Context, date string) ([]domain.DayEvent, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.CalendarByDay: %w", err)
	}
	return domain.CalendarByDay(all, date), nil
}

// StatsByChurch tallies statuses per church.
func (s *PilgrimageService) StatsByChurch(ctx context.Context) (map[string]domain.StatusCounts, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.StatsByChurch: %w", err)
	}
	return domain.Stats(all, domain.ByChurch), nil
}

// StatsByOrganization tallies statuses per organization.
func (s *PilgrimageService) StatsByOrganization(ctx context.Context) (map[string]domain.StatusCounts, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.StatsByOrganization: %w", err)
	}
	return domain.Stats(all, domain.ByOrganization), nil
}

// Upcoming returns the non-cancelled pilgrimages of the next seven days.
func (s *PilgrimageService) Upcoming(ctx context.Context) ([]domain.UpcomingItem, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PilgrimageService.Upcoming: %w", err)
	}
	return domain.Upcoming(all, s.now()), nil
}

func (s *PilgrimageService) scan(ctx context.Context) ([]domain.Pilgrimage, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	metrics.CollectionScanSize.Observe(float64(len(all)))
	return all, nil
}
