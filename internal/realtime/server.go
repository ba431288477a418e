package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/cart"
	"github.com/mcastro-dev/tienda-ecom/internal/product"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server upgrades connections, registers them on the hub and dispatches the
// client-originated events.
type Server struct {
	hub      *Hub
	products product.Repository
	carts    cart.Repository
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, products product.Repository, carts cart.Repository) *Server {
	return &Server{
		hub:      hub,
		products: products,
		carts:    carts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handle is the gin endpoint that turns the request into a subscription.
func (s *Server) Handle(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade fallido: %v", err)
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 16)}
	s.hub.register <- client

	go s.writePump(client)
	s.readPump(client)
}

func (s *Server) readPump(client *Client) {
	defer func() {
		s.hub.unregister <- client
		_ = client.conn.Close()
	}()
	client.conn.SetReadLimit(1 << 16)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			log.Printf("[ws] frame invalido: %v", err)
			continue
		}
		s.dispatch(client, f)
	}
}

func (s *Server) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()
	for {
		select {
		case buf, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatch(client *Client, f Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch f.Event {
	case "nuevoProducto":
		s.onNewProduct(ctx, client, f)
	case "productDeleted":
		s.onProductDeleted(ctx, client, f)
	case "crearCarrito":
		s.onCreateCart(ctx, client, f)
	case "agregarAlCarrito":
		s.onAddToCart(ctx, client, f)
	default:
		log.Printf("[ws] evento desconocido: %s", f.Event)
	}
}

func (s *Server) onNewProduct(ctx context.Context, client *Client, f Frame) {
	var req product.CreateRequest
	if err := json.Unmarshal(f.Data, &req); err != nil {
		client.ack(f.AckID, Ack{Error: "Parametros invalidos, por favor verifica nuevamente"})
		return
	}
	// mismas reglas de validación que el POST HTTP
	if err := binding.Validator.ValidateStruct(req); err != nil || req.HasClientID() {
		client.ack(f.AckID, Ack{Error: "Parametros invalidos, por favor verifica nuevamente"})
		return
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
	if err := s.products.Create(ctx, p); err != nil {
		log.Printf("[ws] error al agregar producto: %v", err)
		client.ack(f.AckID, Ack{Error: err.Error()})
		return
	}
	s.BroadcastProducts(ctx, product.Sort{})
	client.ack(f.AckID, Ack{Success: true})
}

func (s *Server) onProductDeleted(ctx context.Context, client *Client, f Frame) {
	var hex string
	if err := json.Unmarshal(f.Data, &hex); err != nil {
		client.ack(f.AckID, Ack{Error: "Ingrese un ID valido"})
		return
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		client.ack(f.AckID, Ack{Error: "Ingrese un ID valido"})
		return
	}
	if err := s.products.Delete(ctx, id); err != nil {
		log.Printf("[ws] error al eliminar producto: %v", err)
		client.ack(f.AckID, Ack{Error: err.Error()})
		return
	}
	s.BroadcastProducts(ctx, product.Sort{})
	client.ack(f.AckID, Ack{Success: true})
}

func (s *Server) onCreateCart(ctx context.Context, client *Client, f Frame) {
	c, err := s.carts.Create(ctx)
	if err != nil {
		log.Printf("[ws] error al crear el carrito: %v", err)
		client.ack(f.AckID, Ack{Error: err.Error()})
		return
	}
	client.emit("carritoCreado", c.ID.Hex())
	client.ack(f.AckID, Ack{Success: true, CartID: c.ID.Hex()})
}

// onAddToCart adds the product to the first existing cart, creating one when
// there is none yet.
func (s *Server) onAddToCart(ctx context.Context, client *Client, f Frame) {
	var hex string
	if err := json.Unmarshal(f.Data, &hex); err != nil {
		client.ack(f.AckID, Ack{Error: "Ingrese un ID valido"})
		return
	}
	pid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		client.ack(f.AckID, Ack{Error: "Ingrese un ID valido"})
		return
	}

	if _, err := s.products.GetByID(ctx, pid); err != nil {
		client.ack(f.AckID, Ack{Error: "Producto no encontrado"})
		return
	}

	carts, err := s.carts.ListAll(ctx)
	if err != nil {
		client.ack(f.AckID, Ack{Error: err.Error()})
		return
	}
	var cartID primitive.ObjectID
	if len(carts) == 0 {
		created, err := s.carts.Create(ctx)
		if err != nil {
			client.ack(f.AckID, Ack{Error: err.Error()})
			return
		}
		cartID = created.ID
	} else {
		cartID = carts[0].ID
	}

	if _, err := s.carts.AddOrIncrement(ctx, cartID, pid); err != nil {
		log.Printf("[ws] error al agregar producto al carrito: %v", err)
		client.ack(f.AckID, Ack{Error: err.Error()})
		return
	}
	s.BroadcastProducts(ctx, product.Sort{})
	client.ack(f.AckID, Ack{Success: true, CartID: cartID.Hex()})
}

// BroadcastProducts re-reads the first page of the product list and pushes
// it to every subscriber as an updateProducts event.
func (s *Server) BroadcastProducts(ctx context.Context, sort product.Sort) {
	page, err := s.products.ListPage(ctx, product.PageQuery{Limit: 10, Page: 1, Sort: sort})
	if err != nil {
		log.Printf("[ws] error al refrescar productos: %v", err)
		return
	}
	s.hub.Broadcast("updateProducts", page)
}
