package purchases

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimodels/inventory-api/internal/catalog"
)

// Purchase is one ledger entry. Entries are append-only: nothing in this
// API mutates or deletes them once written.
type Purchase struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ModelID     primitive.ObjectID `json:"modelId" bson:"modelId"`
	PurchasedBy string             `json:"purchasedBy" bson:"purchasedBy"`
	PurchasedAt time.Time          `json:"purchasedAt" bson:"purchasedAt"`
}

// Receipt is a ledger entry joined with the listing it references. Entries
// whose listing has since been deleted are dropped from join results.
type Receipt struct {
	PurchasedAt time.Time      `json:"purchasedAt" bson:"purchasedAt"`
	PurchasedBy string         `json:"purchasedBy" bson:"purchasedBy"`
	Model       *catalog.Model `json:"model" bson:"model"`
}
