package purchases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository defines persistence operations for the purchase ledger.
type Repository interface {
	// Insert stores p and fills in its generated id.
	Insert(ctx context.Context, p *Purchase) error
	// ByBuyerWithModel returns the buyer's entries inner-joined with their
	// listings, newest purchase first.
	ByBuyerWithModel(ctx context.Context, subject string) ([]*Receipt, error)
	// ByModel returns raw ledger entries for one listing, newest first.
	ByModel(ctx context.Context, modelID primitive.ObjectID) ([]*Purchase, error)
}
