package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimodels/inventory-api/internal/catalog"
	"github.com/aimodels/inventory-api/internal/purchases"
	"github.com/aimodels/inventory-api/pkg/middleware"
)

// testToken exposes a fixed claims map.
type testToken struct {
	claims map[string]interface{}
}

func (t *testToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// testVerifier accepts tokens of the form "user:<email>".
type testVerifier struct{}

func (testVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	email, ok := strings.CutPrefix(raw, "user:")
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &testToken{claims: map[string]interface{}{"email": email, "sub": "sub-" + email}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *catalog.MemoryRepo, *purchases.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	models := catalog.NewMemoryRepo()
	ledger := purchases.NewMemoryRepo(models)
	catSvc := catalog.NewService(models)
	purSvc := purchases.NewService(ledger, models)

	r := gin.New()
	auth := middleware.Auth(testVerifier{})
	NewModelHandler(catSvc, purSvc).Register(r, auth)
	NewPurchaseHandler(purSvc).Register(r, auth)
	RegisterNotFound(r)
	return r, models, ledger
}

func do(r *gin.Engine, method, path, body, identity string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if identity != "" {
		req.Header.Set("Authorization", "Bearer user:"+identity)
	}
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	return rw
}

func message(t *testing.T, rw *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	return body["message"]
}

const validModelBody = `{
	"name": "ResNet50",
	"framework": "PyTorch",
	"useCase": "vision",
	"dataset": "ImageNet",
	"description": "residual network",
	"image": "http://img.example/resnet.png"
}`

func seed(t *testing.T, models *catalog.MemoryRepo, name, framework, owner string, createdAt time.Time) *catalog.Model {
	t.Helper()
	m := &catalog.Model{
		Name: name, Framework: framework, UseCase: "vision", Dataset: "ImageNet",
		Description: "d", Image: "http://img.example/x.png",
		CreatedBy: owner, CreatedAt: createdAt,
	}
	require.NoError(t, models.Insert(context.Background(), m))
	return m
}

func TestCreateModel(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rw := do(r, http.MethodPost, "/api/models", validModelBody, "a@example.com")
	require.Equal(t, http.StatusCreated, rw.Code)

	var m catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &m))
	assert.False(t, m.ID.IsZero())
	assert.Equal(t, "ResNet50", m.Name)
	assert.Equal(t, "a@example.com", m.CreatedBy)
	assert.Zero(t, m.Purchased)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestCreateModelIgnoresClientServerFields(t *testing.T) {
	r, _, _ := newTestRouter(t)

	body := `{
		"name": "ResNet50", "framework": "PyTorch", "useCase": "vision",
		"dataset": "ImageNet", "description": "d", "image": "http://x/y.png",
		"createdBy": "mallory@example.com", "createdAt": "1999-01-01T00:00:00Z", "purchased": 999
	}`
	rw := do(r, http.MethodPost, "/api/models", body, "a@example.com")
	require.Equal(t, http.StatusCreated, rw.Code)

	var m catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &m))
	assert.Equal(t, "a@example.com", m.CreatedBy)
	assert.Zero(t, m.Purchased)
	assert.True(t, m.CreatedAt.After(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreateModelMissingField(t *testing.T) {
	r, _, _ := newTestRouter(t)

	body := `{"name": "ResNet50", "useCase": "vision", "dataset": "ImageNet", "description": "d", "image": "http://x/y.png"}`
	rw := do(r, http.MethodPost, "/api/models", body, "a@example.com")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Equal(t, "Missing field: framework", message(t, rw))

	// empty body: validation still names the first field
	rw = do(r, http.MethodPost, "/api/models", "", "a@example.com")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Equal(t, "Missing field: name", message(t, rw))
}

func TestCreateModelRequiresAuth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rw := do(r, http.MethodPost, "/api/models", validModelBody, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.Equal(t, "Missing token", message(t, rw))
}

func TestListModelsPagination(t *testing.T) {
	r, models, _ := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seed(t, models, fmt.Sprintf("model-%02d", i), "PyTorch", "a@example.com", base.Add(time.Duration(i)*time.Minute))
	}

	rw := do(r, http.MethodGet, "/api/models?page=3&limit=12", "", "")
	require.Equal(t, http.StatusOK, rw.Code)

	var res catalog.ListResult
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &res))
	assert.Len(t, res.Items, 1)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 3, res.Pages)
}

func TestListModelsFilters(t *testing.T) {
	r, models, _ := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed(t, models, "ResNet50", "PyTorch", "a@example.com", base)
	seed(t, models, "BERT-base", "TensorFlow", "a@example.com", base.Add(time.Minute))
	seed(t, models, "resnet-18", "JAX", "a@example.com", base.Add(2*time.Minute))

	rw := do(r, http.MethodGet, "/api/models?q=RESNET", "", "")
	require.Equal(t, http.StatusOK, rw.Code)
	var res catalog.ListResult
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &res))
	assert.Equal(t, int64(2), res.Total)

	rw = do(r, http.MethodGet, "/api/models?frameworks=TensorFlow,JAX", "", "")
	require.Equal(t, http.StatusOK, rw.Code)
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &res))
	assert.Equal(t, int64(2), res.Total)
}

func TestLatestModels(t *testing.T) {
	r, models, _ := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		seed(t, models, fmt.Sprintf("m-%d", i), "PyTorch", "a@example.com", base.Add(time.Duration(i)*time.Minute))
	}

	rw := do(r, http.MethodGet, "/api/models/latest", "", "")
	require.Equal(t, http.StatusOK, rw.Code)
	var items []catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &items))
	require.Len(t, items, 6)
	assert.Equal(t, "m-8", items[0].Name)
}

func TestMyModels(t *testing.T) {
	r, models, _ := newTestRouter(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed(t, models, "mine", "PyTorch", "a@example.com", base)
	seed(t, models, "theirs", "PyTorch", "b@example.com", base.Add(time.Minute))

	rw := do(r, http.MethodGet, "/api/models/mine", "", "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)

	rw = do(r, http.MethodGet, "/api/models/mine", "", "a@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var items []catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Name)
}

func TestGetModel(t *testing.T) {
	r, models, _ := newTestRouter(t)
	m := seed(t, models, "ResNet50", "PyTorch", "a@example.com", time.Now().UTC())

	rw := do(r, http.MethodGet, "/api/models/"+m.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, rw.Code)

	rw = do(r, http.MethodGet, "/api/models/not-an-id", "", "")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Equal(t, "Invalid id", message(t, rw))

	rw = do(r, http.MethodGet, "/api/models/64b000000000000000000000", "", "")
	require.Equal(t, http.StatusNotFound, rw.Code)
	assert.Equal(t, "Not found", message(t, rw))
}

func TestUpdateModel(t *testing.T) {
	r, models, _ := newTestRouter(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := seed(t, models, "ResNet50", "PyTorch", "owner@example.com", created)

	// non-owner is rejected and the record is untouched
	rw := do(r, http.MethodPut, "/api/models/"+m.ID.Hex(), `{"name":"hijacked"}`, "intruder@example.com")
	require.Equal(t, http.StatusForbidden, rw.Code)
	assert.Equal(t, "Forbidden", message(t, rw))
	got, err := models.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "ResNet50", got.Name)

	// owner patch applies; immutable fields in the body are ignored
	body := `{"name":"ResNet50-v2","purchased":999,"createdBy":"mallory@example.com","createdAt":"1999-01-01T00:00:00Z","_id":"ffffffffffffffffffffffff"}`
	rw = do(r, http.MethodPut, "/api/models/"+m.ID.Hex(), body, "owner@example.com")
	require.Equal(t, http.StatusOK, rw.Code)

	var updated catalog.Model
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &updated))
	assert.Equal(t, "ResNet50-v2", updated.Name)
	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, "owner@example.com", updated.CreatedBy)
	assert.True(t, created.Equal(updated.CreatedAt))
	assert.Zero(t, updated.Purchased)
}

func TestUpdateModelBadBody(t *testing.T) {
	r, models, _ := newTestRouter(t)
	m := seed(t, models, "ResNet50", "PyTorch", "owner@example.com", time.Now().UTC())

	rw := do(r, http.MethodPut, "/api/models/"+m.ID.Hex(), `{"name":`, "owner@example.com")
	require.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Equal(t, "Invalid request body", message(t, rw))
}

func TestDeleteModel(t *testing.T) {
	r, models, _ := newTestRouter(t)
	m := seed(t, models, "ResNet50", "PyTorch", "owner@example.com", time.Now().UTC())

	rw := do(r, http.MethodDelete, "/api/models/"+m.ID.Hex(), "", "intruder@example.com")
	require.Equal(t, http.StatusForbidden, rw.Code)

	rw = do(r, http.MethodDelete, "/api/models/"+m.ID.Hex(), "", "owner@example.com")
	require.Equal(t, http.StatusOK, rw.Code)
	var ack map[string]bool
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &ack))
	assert.True(t, ack["ok"])

	rw = do(r, http.MethodGet, "/api/models/"+m.ID.Hex(), "", "")
	require.Equal(t, http.StatusNotFound, rw.Code)
}

func TestUnmatchedRoute(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rw := do(r, http.MethodGet, "/api/nope", "", "")
	require.Equal(t, http.StatusNotFound, rw.Code)
	assert.Equal(t, "Route not found", message(t, rw))
}
