package main

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mcastro-dev/tienda-ecom/docs"
	"github.com/mcastro-dev/tienda-ecom/internal/cart"
	"github.com/mcastro-dev/tienda-ecom/internal/config"
	"github.com/mcastro-dev/tienda-ecom/internal/db"
	"github.com/mcastro-dev/tienda-ecom/internal/httpx"
	"github.com/mcastro-dev/tienda-ecom/internal/product"
	"github.com/mcastro-dev/tienda-ecom/internal/realtime"
	"github.com/mcastro-dev/tienda-ecom/web"
)

// @title Tienda API
// @version 1.0
// @description API de productos y carritos de compra, con canal de actualizaciones en tiempo real.
// @BasePath /
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("[mongo] %v", err)
	}
	defer db.Disconnect(client)

	database := client.Database(cfg.MongoDB)
	products := product.NewMongoRepo(database)
	if err := products.EnsureIndexes(ctx); err != nil {
		log.Fatalf("[mongo] error creando indices: %v", err)
	}
	carts := cart.NewMongoRepo(database)

	hub := realtime.NewHub()
	go hub.Run(ctx)
	rt := realtime.NewServer(hub, products, carts)

	router := newRouter(cfg.BaseURL, products, carts, rt)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[server] escuchando en %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newRouter(baseURL string, products product.Repository, carts cart.Repository, rt *realtime.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(web.Templates, "templates/*.html")))
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(staticFS))

	api := router.Group("/api")
	{
		p := api.Group("/products")
		p.GET("", listProductsHandler(products, baseURL))
		p.GET("/:pid", getProductHandler(products))
		p.POST("", createProductHandler(products))
		p.PUT("/:pid", updateProductHandler(products))
		p.DELETE("/:pid", deleteProductHandler(products))

		cg := api.Group("/carts")
		cg.GET("", listCartsHandler(carts))
		cg.POST("", createCartHandler(carts))
		cg.GET("/:cid", getCartHandler(carts))
		cg.PUT("/:cid", replaceCartHandler(carts, products))
		cg.DELETE("/:cid", deleteCartHandler(carts))
		cg.POST("/:cid/product/:pid", addToCartHandler(carts, products))
		cg.PUT("/:cid/product/:pid", setQuantityHandler(carts, products))
		cg.DELETE("/:cid/product/:pid", removeFromCartHandler(carts, products))
	}

	router.GET("/products", productsViewHandler(products, baseURL))
	router.GET("/products/:pid", productDetailViewHandler(products))
	router.GET("/carts/:cid", cartViewHandler(carts))
	router.GET("/realtimeproducts", realtimeViewHandler(products, baseURL))
	router.POST("/realtimeproducts", realtimeCreateHandler(products, rt))

	router.GET("/ws", rt.Handle)
	router.GET("/apidocs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
