package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/cart"
	"github.com/mcastro-dev/tienda-ecom/internal/httpx"
	"github.com/mcastro-dev/tienda-ecom/internal/product"
)

// itemInput es una entrada del arreglo de productos en el reemplazo completo.
type itemInput struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type replaceItemsRequest struct {
	Products []itemInput `json:"products" binding:"omitempty,dive"`
}

type quantityRequest struct {
	Quantity float64 `json:"quantity"`
}

func parseCartIDs(c *gin.Context) (cid, pid primitive.ObjectID, ok bool) {
	cid, err1 := primitive.ObjectIDFromHex(c.Param("cid"))
	pid, err2 := primitive.ObjectIDFromHex(c.Param("pid"))
	if err1 != nil || err2 != nil {
		httpx.Error(c, http.StatusBadRequest, "cid y pid deben ser validos")
		return cid, pid, false
	}
	return cid, pid, true
}

func listCartsHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		carts, err := repo.ListAll(c.Request.Context())
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		if carts == nil {
			carts = []cart.Cart{}
		}
		c.JSON(http.StatusOK, carts)
	}
}

// createCartHandler godoc
// @Summary Crea un carrito vacío
// @Tags carts
// @Produce json
// @Success 200 {object} map[string]cart.Cart
// @Router /api/carts [post]
func createCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		created, err := repo.Create(c.Request.Context())
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": created})
	}
}

// getCartHandler godoc
// @Summary Obtiene un carrito con sus productos expandidos
// @Tags carts
// @Produce json
// @Param cid path string true "id del carrito"
// @Success 200 {object} cart.Cart
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /api/carts/{cid} [get]
func getCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := primitive.ObjectIDFromHex(c.Param("cid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		found, err := repo.GetByID(c.Request.Context(), cid)
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, found)
	}
}

// replaceCartHandler reemplaza la lista completa de productos del carrito.
// Cada referencia debe existir en el store de productos. La lista se guarda
// tal cual llega: referencias repetidas no se combinan (a diferencia del
// add-or-increment).
func replaceCartHandler(repo cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := primitive.ObjectIDFromHex(c.Param("cid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		var req replaceItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Parametros invalidos, por favor verifica nuevamente")
			return
		}
		if len(req.Products) == 0 {
			httpx.Error(c, http.StatusBadRequest, "Debes proporcionar un arreglo de productos")
			return
		}

		items := make([]cart.Item, 0, len(req.Products))
		for _, in := range req.Products {
			pid, err := primitive.ObjectIDFromHex(in.Product)
			if err != nil {
				httpx.Error(c, http.StatusBadRequest, "Producto con id %s no existe", in.Product)
				return
			}
			if _, err := products.GetByID(c.Request.Context(), pid); err != nil {
				if errors.Is(err, product.ErrNotFound) {
					httpx.Error(c, http.StatusBadRequest, "Producto con id %s no existe", in.Product)
					return
				}
				httpx.ServerError(c, err)
				return
			}
			items = append(items, cart.Item{ProductID: pid, Quantity: in.Quantity})
		}

		updated, err := repo.ReplaceItems(c.Request.Context(), cid, items)
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Carrito actualizado con los nuevos productos",
			"cart":    updated,
		})
	}
}

func deleteCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := primitive.ObjectIDFromHex(c.Param("cid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		err = repo.Delete(c.Request.Context(), cid)
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Carrito eliminado"})
	}
}

// lookupCartAndProduct valida que existan el carrito y el producto antes de
// tocar la lista. Responde por su cuenta cuando algo falta.
func lookupCartAndProduct(c *gin.Context, carts cart.Repository, products product.Repository, cid, pid primitive.ObjectID) bool {
	if _, err := carts.GetByID(c.Request.Context(), cid); err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
		} else {
			httpx.ServerError(c, err)
		}
		return false
	}
	if _, err := products.GetByID(c.Request.Context(), pid); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe producto con id %s", pid.Hex())
		} else {
			httpx.ServerError(c, err)
		}
		return false
	}
	return true
}

// addToCartHandler godoc
// @Summary Agrega un producto al carrito o incrementa su cantidad
// @Tags carts
// @Produce json
// @Param cid path string true "id del carrito"
// @Param pid path string true "id del producto"
// @Success 200 {object} map[string]cart.Cart
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /api/carts/{cid}/product/{pid} [post]
func addToCartHandler(carts cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, pid, ok := parseCartIDs(c)
		if !ok {
			return
		}
		if !lookupCartAndProduct(c, carts, products, cid, pid) {
			return
		}
		updated, err := carts.AddOrIncrement(c.Request.Context(), cid, pid)
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Producto agregado o actualizado en el carrito",
			"cart":    updated,
		})
	}
}

func setQuantityHandler(carts cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, pid, ok := parseCartIDs(c)
		if !ok {
			return
		}
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 || req.Quantity != float64(int(req.Quantity)) {
			httpx.Error(c, http.StatusBadRequest, "La cantidad debe ser un número positivo")
			return
		}
		if !lookupCartAndProduct(c, carts, products, cid, pid) {
			return
		}
		updated, err := carts.SetQuantity(c.Request.Context(), cid, pid, int(req.Quantity))
		if errors.Is(err, cart.ErrItemNotFound) {
			httpx.Error(c, http.StatusNotFound, "Producto no encontrado en el carrito")
			return
		}
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cantidad de producto actualizado en el carrito",
			"cart":    updated,
		})
	}
}

func removeFromCartHandler(carts cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, pid, ok := parseCartIDs(c)
		if !ok {
			return
		}
		if !lookupCartAndProduct(c, carts, products, cid, pid) {
			return
		}
		updated, err := carts.RemoveItem(c.Request.Context(), cid, pid)
		if errors.Is(err, cart.ErrItemNotFound) {
			httpx.Error(c, http.StatusNotFound, "El producto no existe en el carrito")
			return
		}
		if errors.Is(err, cart.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "No existe cart con id %s", cid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Producto eliminado del carrito",
			"cart":    updated,
		})
	}
}
