package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/cart"
	"github.com/mcastro-dev/tienda-ecom/internal/httpx"
	"github.com/mcastro-dev/tienda-ecom/internal/product"
	"github.com/mcastro-dev/tienda-ecom/internal/realtime"
)

// productsViewHandler renderiza el listado paginado de productos.
func productsViewHandler(repo product.Repository, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lq := parseListQuery(c)
		page, err := repo.ListPage(c.Request.Context(), lq.pq)
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.HTML(http.StatusOK, "index.html", newListedPage(page, baseURL, "/products", lq))
	}
}

func productDetailViewHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := primitive.ObjectIDFromHex(c.Param("pid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		p, err := repo.GetByID(c.Request.Context(), pid)
		if errors.Is(err, product.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "Producto con Id %s no encontrado", pid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.HTML(http.StatusOK, "product.html", gin.H{"Product": p})
	}
}

// cartLine es una fila de la vista del carrito con su subtotal ya calculado.
type cartLine struct {
	Product  *product.Product
	Quantity int
	Subtotal string
}

// cartViewHandler renderiza el detalle del carrito con subtotales por línea
// y el total general, calculados con aritmética decimal.
func cartViewHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := primitive.ObjectIDFromHex(c.Param("cid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		found, err := carts.GetByID(c.Request.Context(), cid)
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}

		lines := make([]cartLine, 0, len(found.Items))
		total := decimal.Zero
		for _, it := range found.Items {
			line := cartLine{Product: it.Product, Quantity: it.Quantity}
			if it.Product != nil {
				sub := decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
				line.Subtotal = sub.StringFixed(2)
				total = total.Add(sub)
			}
			lines = append(lines, line)
		}
		c.HTML(http.StatusOK, "cart.html", gin.H{
			"CartID": found.ID.Hex(),
			"Lines":  lines,
			"Total":  total.StringFixed(2),
		})
	}
}

// realtimeViewHandler renderiza la página con actualización en vivo; sin un
// sort explícito ordena por fecha de creación descendente.
func realtimeViewHandler(repo product.Repository, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lq := parseListQuery(c)
		if lq.pq.Sort == (product.Sort{}) {
			lq.pq.Sort = product.Sort{Field: "createdAt", Dir: -1}
		}
		page, err := repo.ListPage(c.Request.Context(), lq.pq)
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.HTML(http.StatusOK, "realtime.html", newListedPage(page, baseURL, "/realtimeproducts", lq))
	}
}

// realtimeCreateHandler crea el producto igual que el POST del API y además
// difunde el listado actualizado (más nuevos primero) a los suscriptores.
func realtimeCreateHandler(repo product.Repository, rt *realtime.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := createProduct(c, repo)
		if !ok {
			return
		}
		rt.BroadcastProducts(c.Request.Context(), product.Sort{Field: "createdAt", Dir: -1})
		c.JSON(http.StatusOK, gin.H{"productNew": p})
	}
}
