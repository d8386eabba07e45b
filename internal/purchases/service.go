package purchases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimodels/inventory-api/internal/apierr"
	"github.com/aimodels/inventory-api/internal/catalog"
	"github.com/aimodels/inventory-api/pkg/logger"
)

// Counter is the slice of the catalog repository the purchase flow needs.
type Counter interface {
	IncPurchased(ctx context.Context, id primitive.ObjectID, delta int64) (*catalog.Model, error)
}

// Service records purchase events and answers the two ledger joins.
type Service struct {
	repo   Repository
	models Counter
}

func NewService(repo Repository, models Counter) *Service {
	return &Service{repo: repo, models: models}
}

// Purchase bumps the listing's counter and appends a ledger entry. The
// counter update runs first and doubles as the existence check, so a ledger
// entry is never written for a listing that was already gone. The two
// writes are still not one transaction: a failed insert triggers a
// best-effort decrement and reports the failure.
func (s *Service) Purchase(ctx context.Context, subject, id string) (*catalog.Model, error) {
	oid, err := catalog.ParseID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.models.IncPurchased(ctx, oid, 1)
	if err != nil {
		if err == catalog.ErrNotFound {
			return nil, apierr.NotFound("Not found")
		}
		return nil, err
	}

	p := &Purchase{
		ModelID:     oid,
		PurchasedBy: subject,
		PurchasedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		if _, derr := s.models.IncPurchased(ctx, oid, -1); derr != nil {
			logger.Errorf("purchase rollback failed for model %s: %v", oid.Hex(), derr)
		}
		return nil, err
	}
	return updated, nil
}

// Mine returns the subject's purchases joined with their listings, newest
// first. Purchases of since-deleted listings are silently dropped.
func (s *Service) Mine(ctx context.Context, subject string) ([]*Receipt, error) {
	return s.repo.ByBuyerWithModel(ctx, subject)
}

// ByModel returns the raw ledger entries for one listing, newest first. Any
// authenticated caller may ask, owner or not.
func (s *Service) ByModel(ctx context.Context, id string) ([]*Purchase, error) {
	oid, err := catalog.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.ByModel(ctx, oid)
}
