package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/cart"
)

//
// ===== STUB REPO EN MEMORIA (implementa cart.Repository) =====
//
// Reproduce la semántica del repo real: merge atómico por identidad de
// producto, populate en la lectura por id y errores diferenciados entre
// carrito y entrada faltante.
//

type stubCartRepo struct {
	products *stubProductRepo
	carts    []*cart.Cart
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{products: products}
}

func (s *stubCartRepo) find(id primitive.ObjectID) *cart.Cart {
	for _, c := range s.carts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *stubCartRepo) populated(ctx context.Context, c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = make([]cart.Item, len(c.Items))
	copy(cp.Items, c.Items)
	for i := range cp.Items {
		if p, err := s.products.GetByID(ctx, cp.Items[i].ProductID); err == nil {
			cp.Items[i].Product = p
		}
	}
	return &cp
}

func (s *stubCartRepo) Create(ctx context.Context) (*cart.Cart, error) {
	now := time.Now().UTC()
	c := &cart.Cart{ID: primitive.NewObjectID(), Items: []cart.Item{}, CreatedAt: now, UpdatedAt: now}
	s.carts = append(s.carts, c)
	cp := *c
	return &cp, nil
}

func (s *stubCartRepo) ListAll(ctx context.Context) ([]cart.Cart, error) {
	out := make([]cart.Cart, 0, len(s.carts))
	for _, c := range s.carts {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCartRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*cart.Cart, error) {
	c := s.find(id)
	if c == nil {
		return nil, cart.ErrNotFound
	}
	return s.populated(ctx, c), nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, id primitive.ObjectID, items []cart.Item) (*cart.Cart, error) {
	c := s.find(id)
	if c == nil {
		return nil, cart.ErrNotFound
	}
	c.Items = make([]cart.Item, len(items))
	copy(c.Items, items)
	c.UpdatedAt = time.Now().UTC()
	return s.populated(ctx, c), nil
}

func (s *stubCartRepo) AddOrIncrement(ctx context.Context, cartID, productID primitive.ObjectID) (*cart.Cart, error) {
	c := s.find(cartID)
	if c == nil {
		return nil, cart.ErrNotFound
	}
	if it := c.FindItem(productID); it != nil {
		it.Quantity++
	} else {
		c.Items = append(c.Items, cart.Item{ProductID: productID, Quantity: 1})
	}
	c.UpdatedAt = time.Now().UTC()
	return s.populated(ctx, c), nil
}

func (s *stubCartRepo) SetQuantity(ctx context.Context, cartID, productID primitive.ObjectID, quantity int) (*cart.Cart, error) {
	c := s.find(cartID)
	if c == nil {
		return nil, cart.ErrNotFound
	}
	it := c.FindItem(productID)
	if it == nil {
		return nil, cart.ErrItemNotFound
	}
	it.Quantity = quantity
	c.UpdatedAt = time.Now().UTC()
	return s.populated(ctx, c), nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, cartID, productID primitive.ObjectID) (*cart.Cart, error) {
	c := s.find(cartID)
	if c == nil {
		return nil, cart.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return s.populated(ctx, c), nil
		}
	}
	return nil, cart.ErrItemNotFound
}

func (s *stubCartRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, c := range s.carts {
		if c.ID == id {
			s.carts = append(s.carts[:i], s.carts[i+1:]...)
			return nil
		}
	}
	return cart.ErrNotFound
}

//
// ===== TESTS =====
//

type cartEnvelope struct {
	Message string `json:"message"`
	Cart    struct {
		ID       string `json:"_id"`
		Products []struct {
			Product  json.RawMessage `json:"product"`
			Quantity int             `json:"quantity"`
		} `json:"products"`
	} `json:"cart"`
}

// POST /api/carts crea un carrito vacío
func TestCreateCart_Empty(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/carts", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got cartEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if got.Cart.ID == "" || len(got.Cart.Products) != 0 {
		t.Fatalf("el carrito nuevo debe estar vacío: %s", w.Body.String())
	}
}

// Ley del merge: n veces el mismo producto ⇒ una sola entrada con cantidad n;
// productos distintos ⇒ una entrada por producto con cantidad 1.
func TestAddToCart_MergeLaw(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p1 := seedProduct(t, prodRepo, "A", "a1", "c", 10, 5)
	p2 := seedProduct(t, prodRepo, "B", "b1", "c", 20, 5)
	c, _ := cartRepo.Create(context.Background())

	add := func(pid string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/carts/%s/product/%s", c.ID.Hex(), pid), nil)
		r.ServeHTTP(w, req)
		return w
	}

	// tres veces el mismo producto
	for i := 0; i < 3; i++ {
		if w := add(p1.ID.Hex()); w.Code != http.StatusOK {
			t.Fatalf("add #%d: status=%d body=%s", i+1, w.Code, w.Body.String())
		}
	}
	// y uno distinto
	if w := add(p2.ID.Hex()); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	got, err := cartRepo.GetByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("esperaba 2 entradas, got %d", len(got.Items))
	}
	if it := got.FindItem(p1.ID); it == nil || it.Quantity != 3 {
		t.Fatalf("p1 debía tener cantidad 3: %+v", it)
	}
	if it := got.FindItem(p2.ID); it == nil || it.Quantity != 1 {
		t.Fatalf("p2 debía tener cantidad 1: %+v", it)
	}
}

func TestAddToCart_Errors(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p := seedProduct(t, prodRepo, "A", "a1", "c", 10, 5)
	c, _ := cartRepo.Create(context.Background())

	// ids malformados ⇒ 400
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/carts/xx/product/yy", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("esperaba 400, got %d", w.Code)
		}
	}
	// carrito inexistente ⇒ 404
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/carts/%s/product/%s", primitive.NewObjectID().Hex(), p.ID.Hex()), nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("esperaba 404 por carrito, got %d body=%s", w.Code, w.Body.String())
		}
	}
	// producto inexistente ⇒ 404
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/carts/%s/product/%s", c.ID.Hex(), primitive.NewObjectID().Hex()), nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("esperaba 404 por producto, got %d body=%s", w.Code, w.Body.String())
		}
	}
}

// PUT /api/carts/:cid/product/:pid — fija la cantidad, nunca crea entradas
func TestSetQuantity(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p := seedProduct(t, prodRepo, "A", "a1", "c", 10, 5)
	otro := seedProduct(t, prodRepo, "B", "b1", "c", 10, 5)
	c, _ := cartRepo.Create(context.Background())
	if _, err := cartRepo.AddOrIncrement(context.Background(), c.ID, p.ID); err != nil {
		t.Fatalf("seed carrito: %v", err)
	}

	put := func(pid, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/carts/%s/product/%s", c.ID.Hex(), pid), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	// cantidad no positiva o no numérica ⇒ 400
	if w := put(p.ID.Hex(), `{"quantity":0}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por cantidad 0, got %d", w.Code)
	}
	if w := put(p.ID.Hex(), `{"quantity":-2}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por cantidad negativa, got %d", w.Code)
	}
	if w := put(p.ID.Hex(), `{"quantity":"tres"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por cantidad no numérica, got %d", w.Code)
	}

	// entrada ausente ⇒ 404 y el carrito queda intacto
	if w := put(otro.ID.Hex(), `{"quantity":2}`); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404 por entrada ausente, got %d body=%s", w.Code, w.Body.String())
	}
	got, _ := cartRepo.GetByID(context.Background(), c.ID)
	if len(got.Items) != 1 || got.Items[0].Quantity != 1 {
		t.Fatalf("el carrito no debía cambiar: %+v", got.Items)
	}

	// OK
	if w := put(p.ID.Hex(), `{"quantity":7}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = cartRepo.GetByID(context.Background(), c.ID)
	if it := got.FindItem(p.ID); it == nil || it.Quantity != 7 {
		t.Fatalf("cantidad no aplicada: %+v", it)
	}
}

// DELETE /api/carts/:cid/product/:pid
func TestRemoveFromCart(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p1 := seedProduct(t, prodRepo, "A", "a1", "c", 10, 5)
	p2 := seedProduct(t, prodRepo, "B", "b1", "c", 10, 5)
	c, _ := cartRepo.Create(context.Background())
	_, _ = cartRepo.AddOrIncrement(context.Background(), c.ID, p1.ID)
	_, _ = cartRepo.AddOrIncrement(context.Background(), c.ID, p2.ID)

	del := func(pid string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete,
			fmt.Sprintf("/api/carts/%s/product/%s", c.ID.Hex(), pid), nil)
		r.ServeHTTP(w, req)
		return w
	}

	// producto existente pero fuera del carrito ⇒ 404 y nada cambia
	fuera := seedProduct(t, prodRepo, "C", "c1", "c", 10, 5)
	if w := del(fuera.ID.Hex()); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d body=%s", w.Code, w.Body.String())
	}
	got, _ := cartRepo.GetByID(context.Background(), c.ID)
	if len(got.Items) != 2 {
		t.Fatalf("el carrito no debía cambiar: %+v", got.Items)
	}

	// quitar p1 achica la lista en uno y deja p2 intacto
	if w := del(p1.ID.Hex()); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = cartRepo.GetByID(context.Background(), c.ID)
	if len(got.Items) != 1 || got.Items[0].ProductID != p2.ID || got.Items[0].Quantity != 1 {
		t.Fatalf("resultado inesperado tras remover: %+v", got.Items)
	}
}

// PUT /api/carts/:cid — reemplazo completo de la lista
func TestReplaceCart(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p1 := seedProduct(t, prodRepo, "A", "a1", "c", 10, 5)
	p2 := seedProduct(t, prodRepo, "B", "b1", "c", 10, 5)
	c, _ := cartRepo.Create(context.Background())

	put := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/carts/"+c.ID.Hex(), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	// arreglo vacío o ausente ⇒ 400
	if w := put(`{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}
	if w := put(`{"products":[]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}
	// cantidades no positivas en el arreglo ⇒ 400 y el carrito queda intacto
	if w := put(fmt.Sprintf(`{"products":[{"product":"%s","quantity":0}]}`, p1.ID.Hex())); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por cantidad 0, got %d body=%s", w.Code, w.Body.String())
	}
	if w := put(fmt.Sprintf(`{"products":[{"product":"%s","quantity":-3}]}`, p1.ID.Hex())); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por cantidad negativa, got %d", w.Code)
	}
	if intacto, _ := cartRepo.GetByID(context.Background(), c.ID); len(intacto.Items) != 0 {
		t.Fatalf("el carrito no debía cambiar: %+v", intacto.Items)
	}

	// referencia inexistente ⇒ 400 nombrando el id
	missing := primitive.NewObjectID().Hex()
	if w := put(fmt.Sprintf(`{"products":[{"product":"%s","quantity":1}]}`, missing)); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	} else if !bytes.Contains(w.Body.Bytes(), []byte(missing)) {
		t.Fatalf("el error debe nombrar la referencia faltante: %s", w.Body.String())
	}

	// reemplazo válido
	body := fmt.Sprintf(`{"products":[{"product":"%s","quantity":2},{"product":"%s","quantity":1}]}`, p1.ID.Hex(), p2.ID.Hex())
	if w := put(body); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := cartRepo.GetByID(context.Background(), c.ID)
	if len(got.Items) != 2 || got.Items[0].Quantity != 2 {
		t.Fatalf("reemplazo no aplicado: %+v", got.Items)
	}

	// el reemplazo completo NO deduplica referencias repetidas
	body = fmt.Sprintf(`{"products":[{"product":"%s","quantity":1},{"product":"%s","quantity":4}]}`, p1.ID.Hex(), p1.ID.Hex())
	if w := put(body); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = cartRepo.GetByID(context.Background(), c.ID)
	if len(got.Items) != 2 {
		t.Fatalf("las repetidas se persisten tal cual: %+v", got.Items)
	}
}

// GET /api/carts/:cid expande cada referencia al producto completo
func TestGetCart_PopulatesProducts(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	p := seedProduct(t, prodRepo, "Zapatilla", "z9", "shoes", 99.9, 4)
	c, _ := cartRepo.Create(context.Background())
	_, _ = cartRepo.AddOrIncrement(context.Background(), c.ID, p.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/carts/"+c.ID.Hex(), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		Products []struct {
			Product struct {
				Title string `json:"title"`
			} `json:"product"`
			Quantity int `json:"quantity"`
		} `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if len(got.Products) != 1 || got.Products[0].Product.Title != "Zapatilla" || got.Products[0].Quantity != 1 {
		t.Fatalf("populate incorrecto: %s", w.Body.String())
	}
}

// DELETE /api/carts/:cid
func TestDeleteCart(t *testing.T) {
	prodRepo := newStubProductRepo()
	cartRepo := newStubCartRepo(prodRepo)
	r := newTestRouter(prodRepo, cartRepo)

	c, _ := cartRepo.Create(context.Background())
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/carts/"+c.ID.Hex(), nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/carts/"+c.ID.Hex(), nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("esperaba 404, got %d", w.Code)
		}
	}
}
