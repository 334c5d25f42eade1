package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"way2rare/internal/domain"
	"way2rare/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type mockProductService struct {
	products map[string]*domain.Product
}

func newMockProductService() *mockProductService {
	return &mockProductService{products: make(map[string]*domain.Product)}
}

func (m *mockProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductService) Create(ctx context.Context, product *domain.NewProduct) (*domain.Product, error) {
	if _, ok := m.products[product.ID]; ok {
		return nil, repository.ErrProductAlreadyExists
	}

	image := product.Image
	if image == nil {
		image = []string{}
	}
	sizes := product.Sizes
	if sizes == nil {
		sizes = []string{}
	}

	created := &domain.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Current:     product.Current,
		Image:       image,
		Sizes:       sizes,
	}
	m.products[product.ID] = created
	return created, nil
}

func (m *mockProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsZero() {
		return nil, repository.ErrNoFieldsToUpdate
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Current != nil {
		product.Current = *patch.Current
	}
	return product, nil
}

func newProductTestRouter(svc *mockProductService) chi.Router {
	router := chi.NewRouter()
	NewProductHandler(svc, zap.NewNop()).RegisterRoutes(router)
	return router
}

func TestProductCreateEndpoint(t *testing.T) {
	router := newProductTestRouter(newMockProductService())

	body := `{"id":"0001","name":"Vintage Tee","price":25.0,"category":"shirts","image":["/img/a.png"],"sizes":["M"]}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	// The Mongo-era alias mirrors the catalog id.
	if response["id"] != "0001" || response["_id"] != "0001" {
		t.Errorf("expected id and _id to both be 0001, got %v / %v", response["id"], response["_id"])
	}
	if response["current"] != true {
		t.Errorf("expected current to default to true, got %v", response["current"])
	}
}

func TestProductCreateValidation(t *testing.T) {
	router := newProductTestRouter(newMockProductService())

	// Missing price and category.
	body := `{"id":"0002","name":"Incomplete"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_errors") {
		t.Errorf("expected validation details in body: %s", w.Body.String())
	}
}

func TestProductCreateConflict(t *testing.T) {
	svc := newMockProductService()
	router := newProductTestRouter(svc)

	body := `{"id":"0003","name":"Tee","price":20.0,"category":"shirts"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(body)))
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
}

func TestProductGetNotFound(t *testing.T) {
	router := newProductTestRouter(newMockProductService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestProductUpdateEmptyBodyIsNotFound(t *testing.T) {
	svc := newMockProductService()
	router := newProductTestRouter(svc)

	create := `{"id":"0004","name":"Tee","price":20.0,"category":"shirts"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(create)))
	if w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	// An empty patch maps to 404, matching the storefront contract.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/products/0004", strings.NewReader(`{}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty patch, got %d", w.Code)
	}
}

func TestProductUpdateAppliesPatch(t *testing.T) {
	svc := newMockProductService()
	router := newProductTestRouter(svc)

	create := `{"id":"0005","name":"Tee","price":20.0,"category":"shirts"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(create)))
	if w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/products/0005", strings.NewReader(`{"price":17.5,"current":false}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response["price"] != 17.5 {
		t.Errorf("price = %v, want 17.5", response["price"])
	}
	if response["current"] != false {
		t.Errorf("current = %v, want false", response["current"])
	}
}

func TestProductListEndpoint(t *testing.T) {
	svc := newMockProductService()
	router := newProductTestRouter(svc)

	create := `{"id":"0006","name":"Tee","price":20.0,"category":"shirts"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(create)))
	if w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("expected 1 product, got %d", len(response))
	}
	// Empty lists serialize as [], never null.
	if response[0]["image"] == nil || response[0]["sizes"] == nil {
		t.Errorf("expected non-null image and sizes: %v", response[0])
	}
}
