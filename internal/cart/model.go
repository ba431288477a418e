package cart

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcastro-dev/tienda-ecom/internal/product"
)

// Item is one entry of a cart: a product reference and its quantity.
// Reads by id expand the reference into the full product document.
type Item struct {
	ProductID primitive.ObjectID `json:"-" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Product   *product.Product   `json:"-" bson:"-"`
}

// MarshalJSON emits the populated product document when present, the raw
// reference id otherwise.
func (it Item) MarshalJSON() ([]byte, error) {
	out := struct {
		Product  any `json:"product"`
		Quantity int `json:"quantity"`
	}{Quantity: it.Quantity}
	if it.Product != nil {
		out.Product = it.Product
	} else {
		out.Product = it.ProductID
	}
	return json.Marshal(out)
}

type Cart struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Items     []Item             `json:"products" bson:"products"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FindItem returns the entry for pid, or nil.
func (c *Cart) FindItem(pid primitive.ObjectID) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == pid {
			return &c.Items[i]
		}
	}
	return nil
}
