package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]*Model
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*Model)}
}

func clone(m *Model) *Model {
	c := *m
	return &c
}

func sortNewestFirst(items []*Model) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.Hex() > items[j].ID.Hex()
	})
}

func (r *MemoryRepo) Insert(ctx context.Context, m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	r.store[m.ID] = clone(m)
	return nil
}

func (r *MemoryRepo) matches(m *Model, f ListFilter) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Query)) {
		return false
	}
	if len(f.Frameworks) > 0 {
		found := false
		for _, fw := range f.Frameworks {
			if m.Framework == fw {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *MemoryRepo) Search(ctx context.Context, f ListFilter) ([]*Model, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []*Model{}
	for _, m := range r.store {
		if r.matches(m, f) {
			all = append(all, clone(m))
		}
	}
	sortNewestFirst(all)
	total := int64(len(all))

	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *MemoryRepo) Latest(ctx context.Context, limit int) ([]*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []*Model{}
	for _, m := range r.store {
		all = append(all, clone(m))
	}
	sortNewestFirst(all)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepo) ByCreator(ctx context.Context, subject string) ([]*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Model{}
	for _, m := range r.store {
		if m.CreatedBy == subject {
			out = append(out, clone(m))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id primitive.ObjectID) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(m), nil
}

func (r *MemoryRepo) Set(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			m.Name = v
		case "framework":
			m.Framework = v
		case "useCase":
			m.UseCase = v
		case "dataset":
			m.Dataset = v
		case "description":
			m.Description = v
		case "image":
			m.Image = v
		}
	}
	return clone(m), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *MemoryRepo) IncPurchased(ctx context.Context, id primitive.ObjectID, delta int64) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.Purchased += delta
	return clone(m), nil
}
