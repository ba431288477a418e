package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/httpx"
	"github.com/mcastro-dev/tienda-ecom/internal/product"
)

// listQuery recoge limit/page/sort/query ya saneados, más los valores
// crudos para reconstruir los links de paginación.
type listQuery struct {
	pq       product.PageQuery
	rawSort  string
	rawQuery string
}

func parseListQuery(c *gin.Context) listQuery {
	limit, page := product.CoercePaging(c.Query("limit"), c.Query("page"))
	lq := listQuery{
		rawSort:  c.Query("sort"),
		rawQuery: c.Query("query"),
	}
	lq.pq = product.PageQuery{Limit: limit, Page: page}
	if lq.rawQuery != "" {
		// filtra por categoría y productos con stock
		lq.pq.Filter = product.Filter{Category: lq.rawQuery, InStock: true}
	}
	switch lq.rawSort {
	case "1":
		lq.pq.Sort = product.Sort{Field: "price", Dir: 1}
	case "-1":
		lq.pq.Sort = product.Sort{Field: "price", Dir: -1}
	}
	return lq
}

func pageLink(baseURL, path string, limit int, page *int, sort, query string) *string {
	if page == nil {
		return nil
	}
	link := fmt.Sprintf("%s%s?limit=%d&page=%d&sort=%s&query=%s", baseURL, path, limit, *page, sort, query)
	return &link
}

// listedPage is the envelope every paginated listing responds with.
// swagger:model ProductListResponse
type listedPage struct {
	Status      string            `json:"status"`
	Payload     []product.Product `json:"payload"`
	TotalPages  int               `json:"totalPages"`
	PrevPage    *int              `json:"prevPage"`
	NextPage    *int              `json:"nextPage"`
	Page        int               `json:"page"`
	HasPrevPage bool              `json:"hasPrevPage"`
	HasNextPage bool              `json:"hasNextPage"`
	PrevLink    *string           `json:"prevLink"`
	NextLink    *string           `json:"nextLink"`
}

func newListedPage(p *product.Page, baseURL, path string, lq listQuery) listedPage {
	return listedPage{
		Status:      "success",
		Payload:     p.Docs,
		TotalPages:  p.TotalPages,
		PrevPage:    p.PrevPage,
		NextPage:    p.NextPage,
		Page:        p.Page,
		HasPrevPage: p.HasPrevPage,
		HasNextPage: p.HasNextPage,
		PrevLink:    pageLink(baseURL, path, p.Limit, p.PrevPage, lq.rawSort, lq.rawQuery),
		NextLink:    pageLink(baseURL, path, p.Limit, p.NextPage, lq.rawSort, lq.rawQuery),
	}
}

// listProductsHandler godoc
// @Summary Lista productos paginados
// @Tags products
// @Produce json
// @Param limit query int false "tamaño de página (default 10)"
// @Param page query int false "página (default 1)"
// @Param sort query string false "1 precio asc, -1 precio desc"
// @Param query query string false "categoría; filtra además stock > 0"
// @Success 200 {object} listedPage
// @Router /api/products [get]
func listProductsHandler(repo product.Repository, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lq := parseListQuery(c)
		page, err := repo.ListPage(c.Request.Context(), lq.pq)
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, newListedPage(page, baseURL, "/api/products", lq))
	}
}

// getProductHandler godoc
// @Summary Obtiene un producto por id
// @Tags products
// @Produce json
// @Param pid path string true "id del producto"
// @Success 200 {object} product.Product
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /api/products/{pid} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := primitive.ObjectIDFromHex(c.Param("pid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido de producto")
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
		c.JSON(http.StatusOK, p)
	}
}

// createProduct does the shared work of the API and realtime creation paths.
func createProduct(c *gin.Context, repo product.Repository) (*product.Product, bool) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HasClientID() {
		httpx.Error(c, http.StatusBadRequest, "Parametros invalidos, por favor verifica nuevamente")
		return nil, false
	}
	p := &product.Product{
		Title:       *req.Title,
		Description: *req.Description,
		Price:       *req.Price,
		Code:        *req.Code,
		Stock:       *req.Stock,
		Status:      *req.Status,
		Category:    *req.Category,
	}
	err := repo.Create(c.Request.Context(), p)
	if errors.Is(err, product.ErrDuplicateCode) {
		httpx.Error(c, http.StatusBadRequest, "Ya existe un producto con el código: %s", *req.Code)
		return nil, false
	}
	if err != nil {
		httpx.ServerError(c, err)
		return nil, false
	}
	return p, true
}

// createProductHandler godoc
// @Summary Crea un producto
// @Tags products
// @Accept json
// @Produce json
// @Param producto body product.CreateRequest true "producto sin id"
// @Success 200 {object} map[string]product.Product
// @Failure 400 {object} product.HTTPError
// @Router /api/products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := createProduct(c, repo)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"productNew": p})
	}
}

// updateProductHandler godoc
// @Summary Actualiza parcialmente un producto
// @Tags products
// @Accept json
// @Produce json
// @Param pid path string true "id del producto"
// @Param cambios body product.UpdateRequest true "campos a modificar"
// @Success 200 {object} map[string]product.Product
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /api/products/{pid} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := primitive.ObjectIDFromHex(c.Param("pid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID válido de producto")
			return
		}
		var req product.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Parametros invalidos, por favor verifica nuevamente")
			return
		}
		if req.MongoID != "" {
			httpx.Error(c, http.StatusBadRequest, "No se puede modificar el campo _id")
			return
		}
		ch := product.Changes{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Code:        req.Code,
			Stock:       req.Stock,
			Status:      req.Status,
			Category:    req.Category,
		}
		p, err := repo.Update(c.Request.Context(), pid, ch)
		if errors.Is(err, product.ErrDuplicateCode) {
			httpx.Error(c, http.StatusBadRequest, "Ya existe otro producto con el código %s", *req.Code)
			return
		}
		if errors.Is(err, product.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "Producto con ID %s no encontrado", pid.Hex())
			return
		}
		if err != nil {
			httpx.ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updatedProduct": p})
	}
}

// deleteProductHandler godoc
// @Summary Elimina un producto
// @Tags products
// @Produce json
// @Param pid path string true "id del producto"
// @Success 200 {object} map[string]string
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /api/products/{pid} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := primitive.ObjectIDFromHex(c.Param("pid"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "Ingrese un ID valido")
			return
		}
		err = repo.Delete(c.Request.Context(), pid)
		if errors.Is(err, product.ErrNotFound) {
			httpx.Error(c, http.StatusNotFound, "Producto con Id %s no encontrado", pid.Hex())
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error al eliminar el producto",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Producto con Id %s eliminado", pid.Hex())})
	}
}
