package purchases

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimodels/inventory-api/internal/catalog"
)

// ModelSource resolves a listing for the in-memory join.
type ModelSource interface {
	Get(ctx context.Context, id primitive.ObjectID) (*catalog.Model, error)
}

// MemoryRepo is an in-memory Repository used by unit tests. The join in
// ByBuyerWithModel resolves listings through the given source, typically a
// catalog.MemoryRepo.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []*Purchase
	models  ModelSource
}

func NewMemoryRepo(models ModelSource) *MemoryRepo {
	return &MemoryRepo{models: models}
}

func (r *MemoryRepo) Insert(ctx context.Context, p *Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	c := *p
	r.entries = append(r.entries, &c)
	return nil
}

func sortNewestFirst(out []*Purchase) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchasedAt.Equal(out[j].PurchasedAt) {
			return out[i].PurchasedAt.After(out[j].PurchasedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
}

func (r *MemoryRepo) ByBuyerWithModel(ctx context.Context, subject string) ([]*Receipt, error) {
	r.mu.RLock()
	mine := []*Purchase{}
	for _, p := range r.entries {
		if p.PurchasedBy == subject {
			c := *p
			mine = append(mine, &c)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(mine)
	out := []*Receipt{}
	for _, p := range mine {
		m, err := r.models.Get(ctx, p.ModelID)
		if err != nil {
			if err == catalog.ErrNotFound {
				continue // inner join: deleted listings drop out
			}
			return nil, err
		}
		out = append(out, &Receipt{PurchasedAt: p.PurchasedAt, PurchasedBy: p.PurchasedBy, Model: m})
	}
	return out, nil
}

func (r *MemoryRepo) ByModel(ctx context.Context, modelID primitive.ObjectID) ([]*Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Purchase{}
	for _, p := range r.entries {
		if p.ModelID == modelID {
			c := *p
			out = append(out, &c)
		}
	}
	sortNewestFirst(out)
	return out, nil
}
