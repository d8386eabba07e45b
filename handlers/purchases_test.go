package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimodels/inventory-api/internal/catalog"
	"github.com/aimodels/inventory-api/internal/purchases"
)

func TestPurchaseFlow(t *testing.T) {
	r, _, ledger := newTestRouter(t)

	// identity A lists a model
	rw := do(r, http.MethodPost, "/api/models", validModelBody, "a@example.com")
	require.Equal(t, http.StatusCreated, rw.Code)
	var created catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &created))
	require.Zero(t, created.Purchased)

	// identity B purchases it
	rw = do(r, http.MethodPost, "/api/models/"+created.ID.Hex()+"/purchase", "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var bought catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &bought))
	assert.Equal(t, int64(1), bought.Purchased)

	// exactly one ledger entry referencing the model and buyer
	rows, err := ledger.ByModel(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ModelID)
	assert.Equal(t, "b@example.com", rows[0].PurchasedBy)

	// B's purchase history embeds the model with the bumped counter
	rw = do(r, http.MethodGet, "/api/purchases/mine", "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var receipts []purchases.Receipt
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &receipts))
	require.Len(t, receipts, 1)
	assert.Equal(t, "b@example.com", receipts[0].PurchasedBy)
	require.NotNil(t, receipts[0].Model)
	assert.Equal(t, "ResNet50", receipts[0].Model.Name)
	assert.Equal(t, int64(1), receipts[0].Model.Purchased)

	// A has no purchases
	rw = do(r, http.MethodGet, "/api/purchases/mine", "", "a@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &receipts))
	assert.Empty(t, receipts)
}

func TestPurchaseRequiresAuth(t *testing.T) {
	r, models, _ := newTestRouter(t)
	m := seed(t, models, "ResNet50", "PyTorch", "a@example.com", time.Now().UTC())

	rw := do(r, http.MethodPost, "/api/models/"+m.ID.Hex()+"/purchase", "", "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestPurchaseInvalidAndMissingModel(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rw := do(r, http.MethodPost, "/api/models/nope/purchase", "", "b@example.com")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Equal(t, "Invalid id", message(t, rw))

	rw = do(r, http.MethodPost, "/api/models/64b000000000000000000000/purchase", "", "b@example.com")
	require.Equal(t, http.StatusNotFound, rw.Code)
	assert.Equal(t, "Not found", message(t, rw))
}

func TestMyPurchasesDropDeletedModels(t *testing.T) {
	r, models, _ := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keep := seed(t, models, "keep", "PyTorch", "a@example.com", base)
	gone := seed(t, models, "gone", "PyTorch", "a@example.com", base.Add(time.Minute))

	rw := do(r, http.MethodPost, "/api/models/"+keep.ID.Hex()+"/purchase", "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	rw = do(r, http.MethodPost, "/api/models/"+gone.ID.Hex()+"/purchase", "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)

	// owner deletes one listing; no cascade to the ledger
	rw = do(r, http.MethodDelete, "/api/models/"+gone.ID.Hex(), "", "a@example.com")
	require.Equal(t, http.StatusOK, rw.Code)

	rw = do(r, http.MethodGet, "/api/purchases/mine", "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var receipts []purchases.Receipt
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &receipts))
	require.Len(t, receipts, 1)
	assert.Equal(t, "keep", receipts[0].Model.Name)

	// the raw by-model view still shows the orphaned entry
	rw = do(r, http.MethodGet, "/api/purchases/by-model/"+gone.ID.Hex(), "", "b@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var rows []purchases.Purchase
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "b@example.com", rows[0].PurchasedBy)
}

func TestPurchasesByModel(t *testing.T) {
	r, models, ledger := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := seed(t, models, "ResNet50", "PyTorch", "a@example.com", base)

	require.NoError(t, ledger.Insert(context.Background(), &purchases.Purchase{
		ModelID: m.ID, PurchasedBy: "x@example.com", PurchasedAt: base.Add(time.Hour),
	}))
	require.NoError(t, ledger.Insert(context.Background(), &purchases.Purchase{
		ModelID: m.ID, PurchasedBy: "y@example.com", PurchasedAt: base.Add(2 * time.Hour),
	}))

	// auth required, ownership not: x queries a listing owned by a
	rw := do(r, http.MethodGet, "/api/purchases/by-model/"+m.ID.Hex(), "", "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)

	rw = do(r, http.MethodGet, "/api/purchases/by-model/"+m.ID.Hex(), "", "x@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var rows []purchases.Purchase
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "y@example.com", rows[0].PurchasedBy)

	rw = do(r, http.MethodGet, "/api/purchases/by-model/zzz", "", "x@example.com")
	require.Equal(t, http.StatusBadRequest, rw.Code)
}
