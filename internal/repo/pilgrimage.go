// Package repo contains all storage access logic for the pilgrimage API.
// Pilgrimages are schemaless documents: the Postgres implementation keeps each
// one as a JSONB value keyed by a database-generated UUID, and the memory
// implementation keeps JSON-encoded copies in a map.
// No business logic lives here: only storage calls and document mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PilgrimageRepo defines the document operations the service needs.
// The service layer depends on this interface, not on a concrete store,
// which allows the service to be unit-tested with a mock.
type PilgrimageRepo interface {
	// All returns every stored pilgrimage in no particular order.
	All(ctx context.Context) ([]domain.Pilgrimage, error)

	// GetByID retrieves a single pilgrimage.
	// Returns domain.ErrNotFound if no document with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Pilgrimage, error)

	// Insert stores a new document and returns the ID the store assigned.
	Insert(ctx context.Context, doc domain.Document) (string, error)

	// Replace overwrites the document stored under id.
	// Returns domain.ErrNotFound if no document with that ID exists.
	Replace(ctx context.Context, id string, doc domain.Document) error

	// Delete removes a document. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgPilgrimageRepo is the Postgres implementation of PilgrimageRepo.
type pgPilgrimageRepo struct {
	db db
}

// NewPilgrimageRepo constructs a PilgrimageRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPilgrimageRepo(db db) PilgrimageRepo {
	return &pgPilgrimageRepo{db: db}
}

// All reads the whole collection. There are deliberately no secondary
// indexes on doc; callers filter and sort in memory.
func (r *pgPilgrimageRepo) All(ctx context.Context) ([]domain.Pilgrimage, error) {
	const q = `SELECT id, doc FROM pilgrimages`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PilgrimageRepo.All: %w", err)
	}
	defer rows.Close()

	var out []domain.Pilgrimage
	for rows.Next() {
		p, err := scanPilgrimage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PilgrimageRepo.All: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PilgrimageRepo.All: rows: %w", err)
	}

	return out, nil
}

// GetByID retrieves a document by primary key. Strings that are not UUIDs
// can never match a row, so they are reported as not found without a query.
func (r *pgPilgrimageRepo) GetByID(ctx context.Context, id string) (domain.Pilgrimage, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("repo.PilgrimageRepo.GetByID: %w", domain.ErrNotFound)
	}

	const q = `SELECT id, doc FROM pilgrimages WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": uid})
	p, err := scanPilgrimage(row)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("repo.PilgrimageRepo.GetByID: %w", err)
	}
	return p, nil
}

// Insert adds a document and returns its generated UUID as a string.
func (r *pgPilgrimageRepo) Insert(ctx context.Context, doc domain.Document) (string, error) {
	const q = `INSERT INTO pilgrimages (doc) VALUES (@doc) RETURNING id`

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"doc": map[string]any(doc)}).Scan(&id); err != nil {
		return "", fmt.Errorf("repo.PilgrimageRepo.Insert: %w", err)
	}
	return uuid.UUID(id.Bytes).String(), nil
}

// Replace overwrites the whole document stored under id.
func (r *pgPilgrimageRepo) Replace(ctx context.Context, id string, doc domain.Document) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.PilgrimageRepo.Replace: %w", domain.ErrNotFound)
	}

	const q = `UPDATE pilgrimages SET doc = @doc WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid, "doc": map[string]any(doc)})
	if err != nil {
		return fmt.Errorf("repo.PilgrimageRepo.Replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PilgrimageRepo.Replace: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a document by primary key.
func (r *pgPilgrimageRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.PilgrimageRepo.Delete: %w", domain.ErrNotFound)
	}

	const q = `DELETE FROM pilgrimages WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid})
	if err != nil {
		return fmt.Errorf("repo.PilgrimageRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PilgrimageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPilgrimage
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPilgrimage maps an (id, doc) row into a domain.Pilgrimage.
// pgx decodes the JSONB column with encoding/json, so timestamps arrive as
// RFC 3339 strings and numbers as float64; domain.FromDocument handles both.
func scanPilgrimage(s scanner) (domain.Pilgrimage, error) {
	var (
		id  pgtype.UUID
		doc map[string]any
	)

	if err := s.Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Pilgrimage{}, domain.ErrNotFound
		}
		return domain.Pilgrimage{}, err
	}

	return domain.FromDocument(doc, uuid.UUID(id.Bytes).String())
}
