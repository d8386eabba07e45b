package catalog

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimodels/inventory-api/internal/apierr"
)

const latestLimit = 6

// Service owns create/read/update/delete and search over catalog listings
// and enforces ownership on mutation. The identity subject is the verified
// email-equivalent string attached upstream by the auth middleware.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ParseID validates the syntactic shape of a listing id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("Invalid id")
	}
	return oid, nil
}

func (s *Service) Create(ctx context.Context, subject string, in CreateInput) (*Model, error) {
	m := &Model{
		Name:        strings.TrimSpace(in.Name),
		Framework:   strings.TrimSpace(in.Framework),
		UseCase:     strings.TrimSpace(in.UseCase),
		Dataset:     strings.TrimSpace(in.Dataset),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		CreatedBy:   subject,
		CreatedAt:   time.Now().UTC(),
		Purchased:   0,
	}

	required := []struct{ name, value string }{
		{"name", m.Name},
		{"framework", m.Framework},
		{"useCase", m.UseCase},
		{"dataset", m.Dataset},
		{"description", m.Description},
		{"image", m.Image},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, apierr.Validation("Missing field: " + f.name)
		}
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	f.normalize()
	items, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return &ListResult{Items: items, Total: total, Page: f.Page, Pages: pages}, nil
}

func (s *Service) Latest(ctx context.Context) ([]*Model, error) {
	return s.repo.Latest(ctx, latestLimit)
}

func (s *Service) Mine(ctx context.Context, subject string) ([]*Model, error) {
	return s.repo.ByCreator(ctx, subject)
}

func (s *Service) Get(ctx context.Context, id string) (*Model, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, oid)
}

func (s *Service) get(ctx context.Context, oid primitive.ObjectID) (*Model, error) {
	m, err := s.repo.Get(ctx, oid)
	if err != nil {
		if err == ErrNotFound {
			return nil, apierr.NotFound("Not found")
		}
		return nil, err
	}
	return m, nil
}

// Update applies a patch to a listing the subject owns. Immutable fields
// never reach the store: UpdateInput carries only the mutable ones and nil
// entries are dropped.
func (s *Service) Update(ctx context.Context, subject, id string, in UpdateInput) (*Model, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	existing, err := s.get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != subject {
		return nil, apierr.Forbidden("Forbidden")
	}

	fields := in.fields()
	if len(fields) == 0 {
		return existing, nil
	}
	updated, err := s.repo.Set(ctx, oid, fields)
	if err != nil {
		if err == ErrNotFound {
			return nil, apierr.NotFound("Not found")
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, subject, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	existing, err := s.get(ctx, oid)
	if err != nil {
		return err
	}
	if existing.CreatedBy != subject {
		return apierr.Forbidden("Forbidden")
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		if err == ErrNotFound {
			return apierr.NotFound("Not found")
		}
		return err
	}
	return nil
}
