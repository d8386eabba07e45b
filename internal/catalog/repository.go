package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("model not found")

// Repository defines persistence operations for catalog listings.
type Repository interface {
	// Insert stores m and fills in its generated id.
	Insert(ctx context.Context, m *Model) error
	// Search returns one page (sorted by createdAt descending) and the total
	// count matching the filter ignoring pagination. The filter is expected
	// to be normalized.
	Search(ctx context.Context, f ListFilter) ([]*Model, int64, error)
	// Latest returns up to limit listings, newest first.
	Latest(ctx context.Context, limit int) ([]*Model, error)
	// ByCreator returns all listings created by subject, newest first.
	ByCreator(ctx context.Context, subject string) ([]*Model, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Model, error)
	// Set applies field assignments and returns the post-update record.
	Set(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*Model, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncPurchased adjusts the denormalized purchase counter and returns the
	// post-update record. Used by the purchase flow only.
	IncPurchased(ctx context.Context, id primitive.ObjectID, delta int64) (*Model, error)
}
