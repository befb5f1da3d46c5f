// Package domain contains the core data types for the pilgrimage scheduling API
// together with the pure functions that validate, serialize, filter and
// aggregate them. This package has zero external dependencies and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a pilgrimage.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusActive    Status = "activo"
	StatusCompleted Status = "completado"
	StatusCancelled Status = "cancelado"
)

// Statuses lists every allowed status in the order used by error messages.
var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusCancelled}

// Churches is the fixed set of churches a pilgrimage may be scheduled at.
var Churches = []string{"PARROQUIA", "SANTUARIO"}

// Contact is the person responsible for the visiting group.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Pilgrimage is a single scheduled visit of an organization to a church.
// Date ("2006-01-02") and Time ("15:04") are kept as zero-padded strings so
// that lexicographic order is chronological order.
type Pilgrimage struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Organization string    `json:"organization"`
	Church       string    `json:"church"`
	Priest       string    `json:"priest"`
	Notes        string    `json:"notes"`
	Status       Status    `json:"status"`
	Participants int       `json:"participants"`
	Contact      Contact   `json:"contact"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Fields is the set of client-supplied values used to build or update a
// pilgrimage. A nil pointer means "not supplied" unless the field's JSON name
// is in Cleared, which records keys sent as an explicit null.
type Fields struct {
	Date         *string  `json:"date"`
	Time         *string  `json:"time"`
	Organization *string  `json:"organization"`
	Church       *string  `json:"church"`
	Priest       *string  `json:"priest"`
	Notes        *string  `json:"notes"`
	Status       *Status  `json:"status"`
	Participants *int     `json:"participants" validate:"omitempty,gte=0"`
	Contact      *Contact `json:"contact"`

	Cleared map[string]bool `json:"-"`
}

// UnmarshalJSON decodes the fields and records which keys were present with
// a null value.
func (f *Fields) UnmarshalJSON(b []byte) error {
	type plain Fields
	var out plain
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if string(bytes.TrimSpace(v)) != "null" {
			continue
		}
		if out.Cleared == nil {
			out.Cleared = make(map[string]bool)
		}
		out.Cleared[k] = true
	}
	*f = Fields(out)
	return nil
}

// NewPilgrimage builds a record from f, applying defaults for every optional
// field and stamping both timestamps with now. It never fails; missing
// required fields are reported by Validate.
func NewPilgrimage(f Fields, now time.Time) Pilgrimage {
	p := Pilgrimage{CreatedAt: now, UpdatedAt: now}
	p.overlay(f)
	p.applyDefaults()
	return p
}

// Apply returns a copy of p with the supplied fields overlaid, defaults
// re-applied and UpdatedAt refreshed. ID and CreatedAt are never touched.
func (p Pilgrimage) Apply(f Fields, now time.Time) Pilgrimage {
	p.overlay(f)
	p.applyDefaults()
	p.UpdatedAt = now
	return p
}

func (p *Pilgrimage) overlay(f Fields) {
	if f.Date != nil {
		p.Date = *f.Date
	}
	if f.Time != nil {
		p.Time = *f.Time
	}
	if f.Organization != nil {
		p.Organization = *f.Organization
	}
	if f.Church != nil {
		p.Church = *f.Church
	}
	if f.Priest != nil {
		p.Priest = *f.Priest
	}
	if f.Notes != nil {
		p.Notes = *f.Notes
	}
	if f.Status != nil {
		p.Status = *f.Status
	}
	if f.Participants != nil {
		p.Participants = *f.Participants
	}
	if f.Contact != nil {
		p.Contact = *f.Contact
	}
	p.clear(f.Cleared)
}

// clear resets the named fields to their zero value; applyDefaults then
// fills in whatever default the field has.
func (p *Pilgrimage) clear(keys map[string]bool) {
	for k := range keys {
		switch k {
		case "date":
			p.Date = ""
		case "time":
			p.Time = ""
		case "organization":
			p.Organization = ""
		case "church":
			p.Church = ""
		case "priest":
			p.Priest = ""
		case "notes":
			p.Notes = ""
		case "status":
			p.Status = ""
		case "participants":
			p.Participants = 0
		case "contact":
			p.Contact = Contact{}
		}
	}
}

func (p *Pilgrimage) applyDefaults() {
	if p.Status == "" {
		p.Status = StatusPending
	}
}

// Validate checks the record against the model rules and returns one
// human-readable message per violation. The order is fixed: date, time,
// organization, church, church value, status value. An empty result means
// the record is valid.
func (p Pilgrimage) Validate() []string {
	var problems []string

	if p.Date == "" {
		problems = append(problems, "La fecha es requerida.")
	}
	if p.Time == "" {
		problems = append(problems, "La hora es requerida.")
	}
	if p.Organization == "" {
		problems = append(problems, "La organización es requerida.")
	}
	if p.Church == "" {
		problems = append(problems, "La iglesia es requerida.")
	}

	if p.Church != "" && !slices.Contains(Churches, p.Church) {
		problems = append(problems, fmt.Sprintf("Iglesia debe ser: %s", strings.Join(Churches, " o ")))
	}

	if p.Status != "" && !slices.Contains(Statuses, p.Status) {
		names := make([]string, len(Statuses))
		for i, s := range Statuses {
			names[i] = string(s)
		}
		problems = append(problems, fmt.Sprintf("Estado debe ser: %s", strings.Join(names, ", ")))
	}

	return problems
}

// Check is Validate folded into an error: nil when valid, otherwise a
// *ValidationError matching ErrValidation.
func (p Pilgrimage) Check() error {
	if problems := p.Validate(); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Title is the label shown on calendar views.
func (p Pilgrimage) Title() string {
	return p.Organization + " - " + p.Church
}
