package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Document is the schemaless key/value form a pilgrimage takes in the store.
// Keys use the same camelCase names as the JSON API.
type Document map[string]any

// ToDocument returns every persisted field except the ID. It is used both for
// creation payloads and for full-document overwrites.
func (p Pilgrimage) ToDocument() Document {
	return Document{
		"date":         p.Date,
		"time":         p.Time,
		"organization": p.Organization,
		"church":       p.Church,
		"priest":       p.Priest,
		"notes":        p.Notes,
		"status":       string(p.Status),
		"participants": p.Participants,
		"contact": map[string]any{
			"name":  p.Contact.Name,
			"phone": p.Contact.Phone,
			"email": p.Contact.Email,
		},
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	}
}

// FromDocument rebuilds a pilgrimage from a stored document and attaches id.
// Timestamps may be stored either as time.Time or as RFC 3339 strings, and
// numbers as any JSON numeric type. Missing keys decode to zero values.
func FromDocument(doc Document, id string) (Pilgrimage, error) {
	p := Pilgrimage{
		ID:           id,
		Date:         docString(doc, "date"),
		Time:         docString(doc, "time"),
		Organization: docString(doc, "organization"),
		Church:       docString(doc, "church"),
		Priest:       docString(doc, "priest"),
		Notes:        docString(doc, "notes"),
		Status:       Status(docString(doc, "status")),
	}

	var err error
	if p.Participants, err = docInt(doc, "participants"); err != nil {
		return Pilgrimage{}, err
	}
	if p.Contact, err = docContact(doc["contact"]); err != nil {
		return Pilgrimage{}, err
	}
	if p.CreatedAt, err = docTime(doc, "createdAt"); err != nil {
		return Pilgrimage{}, err
	}
	if p.UpdatedAt, err = docTime(doc, "updatedAt"); err != nil {
		return Pilgrimage{}, err
	}
	return p, nil
}

func docString(doc Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docInt(doc Document, key string) (int, error) {
	switch v := doc[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("document field %q: %v is not an integer", key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("document field %q: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("document field %q: unexpected type %T", key, v)
	}
}

func docTime(doc Document, key string) (time.Time, error) {
	switch v := doc[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("document field %q: %w", key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("document field %q: unexpected type %T", key, v)
	}
}

func docContact(raw any) (Contact, error) {
	switch v := raw.(type) {
	case nil:
		return Contact{}, nil
	case Contact:
		return v, nil
	case map[string]any:
		c := Contact{}
		c.Name, _ = v["name"].(string)
		c.Phone, _ = v["phone"].(string)
		c.Email, _ = v["email"].(string)
		return c, nil
	default:
		return Contact{}, fmt.Errorf("document field \"contact\": unexpected type %T", v)
	}
}
