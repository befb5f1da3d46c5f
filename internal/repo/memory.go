package repo

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

// memoryPilgrimageRepo keeps documents in process memory. Each document is
// stored JSON-encoded, the way a document database would hold it, so reads
// go through the same timestamp and number conversions as the Postgres store.
type memoryPilgrimageRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryPilgrimageRepo constructs an empty in-memory PilgrimageRepo.
// Data does not survive a restart; use it for local runs and tests.
func NewMemoryPilgrimageRepo() PilgrimageRepo {
	return &memoryPilgrimageRepo{docs: make(map[string][]byte)}
}

func (r *memoryPilgrimageRepo) All(_ context.Context) ([]domain.Pilgrimage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Pilgrimage, 0, len(r.docs))
	for id, raw := range r.docs {
		p, err := decodeDocument(id, raw)
		if err != nil {
			return nil, fmt.Errorf("repo.memoryPilgrimageRepo.All: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// GetByID decodes every stored document and looks the id up with
// domain.FindByID, mirroring how the service scans the collection.
func (r *memoryPilgrimageRepo) GetByID(ctx context.Context, id string) (domain.Pilgrimage, error) {
	all, err := r.All(ctx)
	if err != nil {
		return domain.Pilgrimage{}, err
	}
	p, err := domain.FindByID(all, id)
	if err != nil {
		return domain.Pilgrimage{}, fmt.Errorf("repo.memoryPilgrimageRepo.GetByID: %w", err)
	}
	return p, nil
}

func (r *memoryPilgrimageRepo) Insert(_ context.Context, doc domain.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("repo.memoryPilgrimageRepo.Insert: %w", err)
	}

	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = raw
	return id, nil
}

func (r *memoryPilgrimageRepo) Replace(_ context.Context, id string, doc domain.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("repo.memoryPilgrimageRepo.Replace: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("repo.memoryPilgrimageRepo.Replace: %w", domain.ErrNotFound)
	}
	r.docs[id] = raw
	return nil
}

func (r *memoryPilgrimageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("repo.memoryPilgrimageRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func decodeDocument(id string, raw []byte) (domain.Pilgrimage, error) {
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Pilgrimage{}, err
	}
	return domain.FromDocument(doc, id)
}
