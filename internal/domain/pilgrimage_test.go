package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

var created = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func validFields() domain.Fields {
	return domain.Fields{
		Date:         ptr("2025-05-10"),
		Time:         ptr("09:00"),
		Organization: ptr("Parish A"),
		Church:       ptr("PARROQUIA"),
	}
}

// ---- NewPilgrimage ---------------------------------------------------------

func TestNewPilgrimage_AppliesDefaults(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)

	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Zero(t, p.Participants)
	assert.Empty(t, p.Priest)
	assert.Empty(t, p.Notes)
	assert.Equal(t, domain.Contact{}, p.Contact)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, created, p.UpdatedAt)
	assert.Empty(t, p.ID, "IDs are assigned by the store")
}

func TestNewPilgrimage_EmptyStatusFallsBackToPending(t *testing.T) {
	f := validFields()
	f.Status = ptr(domain.Status(""))

	p := domain.NewPilgrimage(f, created)

	assert.Equal(t, domain.StatusPending, p.Status)
}

func TestNewPilgrimage_KeepsSuppliedValues(t *testing.T) {
	f := validFields()
	f.Status = ptr(domain.StatusActive)
	f.Participants = ptr(40)
	f.Priest = ptr("P. Juan")
	f.Contact = &domain.Contact{Name: "Ana", Phone: "555-0101", Email: "ana@example.com"}

	p := domain.NewPilgrimage(f, created)

	assert.Equal(t, domain.StatusActive, p.Status)
	assert.Equal(t, 40, p.Participants)
	assert.Equal(t, "P. Juan", p.Priest)
	assert.Equal(t, "Ana", p.Contact.Name)
}

// ---- Apply -----------------------------------------------------------------

func TestApply_MergesAndRefreshesUpdatedAt(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)
	p.ID = "abc"
	later := created.Add(time.Hour)

	got := p.Apply(domain.Fields{Time: ptr("10:30"), Status: ptr(domain.StatusCompleted)}, later)

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "2025-05-10", got.Date, "unsupplied fields keep their value")
	assert.Equal(t, "10:30", got.Time)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestApply_ExplicitEmptyValueOverrides(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)

	got := p.Apply(domain.Fields{Organization: ptr("")}, created)

	assert.Empty(t, got.Organization)
	assert.Equal(t, []string{"La organización es requerida."}, got.Validate())
}

func TestApply_ClearedFieldsFallBackToDefaults(t *testing.T) {
	f := validFields()
	f.Priest = ptr("P. Juan")
	f.Status = ptr(domain.StatusActive)
	f.Participants = ptr(40)
	f.Contact = &domain.Contact{Name: "Ana"}
	p := domain.NewPilgrimage(f, created)

	got := p.Apply(domain.Fields{Cleared: map[string]bool{
		"priest": true, "status": true, "participants": true, "contact": true,
	}}, created)

	assert.Empty(t, got.Priest)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Zero(t, got.Participants)
	assert.Equal(t, domain.Contact{}, got.Contact)
	assert.Empty(t, got.Validate())
}

func TestApply_ClearedRequiredFieldFailsValidation(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)

	got := p.Apply(domain.Fields{Cleared: map[string]bool{"date": true}}, created)

	assert.Equal(t, []string{"La fecha es requerida."}, got.Validate())
}

// ---- UnmarshalJSON ---------------------------------------------------------

func TestFieldsUnmarshal_RecordsExplicitNulls(t *testing.T) {
	var f domain.Fields
	require.NoError(t, json.Unmarshal([]byte(`{"date":null,"time":"10:00","status": null}`), &f))

	assert.Nil(t, f.Date)
	require.NotNil(t, f.Time)
	assert.Equal(t, "10:00", *f.Time)
	assert.Equal(t, map[string]bool{"date": true, "status": true}, f.Cleared)
}

func TestFieldsUnmarshal_NoNullsLeavesClearedNil(t *testing.T) {
	var f domain.Fields
	require.NoError(t, json.Unmarshal([]byte(`{"time":"10:00"}`), &f))

	assert.Nil(t, f.Cleared)
}

// ---- Validate --------------------------------------------------------------

func TestValidate_Valid(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)

	assert.Empty(t, p.Validate())
	assert.NoError(t, p.Check())
}

func TestValidate_AllMissingInFixedOrder(t *testing.T) {
	p := domain.NewPilgrimage(domain.Fields{}, created)

	assert.Equal(t, []string{
		"La fecha es requerida.",
		"La hora es requerida.",
		"La organización es requerida.",
		"La iglesia es requerida.",
	}, p.Validate())
}

func TestValidate_InvalidChurchAndStatus(t *testing.T) {
	f := validFields()
	f.Church = ptr("CATEDRAL")
	f.Status = ptr(domain.Status("archivado"))

	problems := domain.NewPilgrimage(f, created).Validate()

	require.Len(t, problems, 2)
	assert.Equal(t, "Iglesia debe ser: PARROQUIA o SANTUARIO", problems[0])
	assert.Equal(t, "Estado debe ser: pendiente, activo, completado, cancelado", problems[1])
}

func TestValidate_MissingChurchIsNotAlsoInvalid(t *testing.T) {
	f := validFields()
	f.Church = nil

	assert.Equal(t, []string{"La iglesia es requerida."}, domain.NewPilgrimage(f, created).Validate())
}

func TestValidate_EveryAllowedStatus(t *testing.T) {
	for _, s := range domain.Statuses {
		t.Run(string(s), func(t *testing.T) {
			f := validFields()
			f.Status = ptr(s)
			assert.Empty(t, domain.NewPilgrimage(f, created).Validate())
		})
	}
}

func TestCheck_JoinsProblemsAndMatchesSentinel(t *testing.T) {
	f := validFields()
	f.Date = nil
	f.Time = nil

	err := domain.NewPilgrimage(f, created).Check()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "La fecha es requerida., La hora es requerida.", err.Error())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 2)
}

func TestTitle(t *testing.T) {
	p := domain.NewPilgrimage(validFields(), created)

	assert.Equal(t, "Parish A - PARROQUIA", p.Title())
}
